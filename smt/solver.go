package smt

import (
	"sort"
	"strings"
)

const (
	RESULT_ERROR   = 0
	RESULT_SAT     = 1
	RESULT_UNSAT   = 2
	RESULT_UNKNOWN = 3
)

func ResultString(r int) string {
	switch r {
	case RESULT_SAT:
		return "sat"
	case RESULT_UNSAT:
		return "unsat"
	case RESULT_UNKNOWN:
		return "unknown"
	}
	return "error"
}

// Model maps symbol names to the value the solver picked for them.
type Model map[string]*BVConst

func (m Model) String() string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	b := strings.Builder{}
	b.WriteString("{")
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(m[name].String())
	}
	b.WriteString("}")
	return b.String()
}

type solverBackend interface {
	clone() solverBackend
	check(query *BoolExprPtr) int
	model() Model
	evalUpto(bv *BVExprPtr, pi *BoolExprPtr, n int) []*BVConst
}

// Solver keeps a set of constraints and answers queries on the subset of
// them that share symbols with the query.
type Solver struct {
	eb              *ExprBuilder
	backend         solverBackend
	constraints     map[uint64]*BoolExprPtr
	symToContraints map[uint64]map[uint64]*BoolExprPtr
	symDependencies map[uint64]map[uint64]*BVExprPtr
}

func NewSolver(eb *ExprBuilder) *Solver {
	return &Solver{
		eb:              eb,
		backend:         newBackend(),
		constraints:     make(map[uint64]*BoolExprPtr),
		symToContraints: make(map[uint64]map[uint64]*BoolExprPtr),
		symDependencies: make(map[uint64]map[uint64]*BVExprPtr),
	}
}

func (s *Solver) Clone() *Solver {
	clone := &Solver{
		eb:              s.eb,
		backend:         s.backend.clone(),
		constraints:     make(map[uint64]*BoolExprPtr),
		symToContraints: make(map[uint64]map[uint64]*BoolExprPtr),
		symDependencies: make(map[uint64]map[uint64]*BVExprPtr),
	}
	for k, val := range s.constraints {
		clone.constraints[k] = val
	}
	for k1, val1 := range s.symToContraints {
		set := make(map[uint64]*BoolExprPtr)
		for k2, val2 := range val1 {
			set[k2] = val2
		}
		clone.symToContraints[k1] = set
	}
	for k1, val1 := range s.symDependencies {
		set := make(map[uint64]*BVExprPtr)
		for k2, val2 := range val1 {
			set[k2] = val2
		}
		clone.symDependencies[k1] = set
	}
	return clone
}

func (s *Solver) registerConstraintForSym(sym *BVExprPtr, constraint *BoolExprPtr) {
	if _, ok := s.symToContraints[sym.Id()]; !ok {
		s.symToContraints[sym.Id()] = make(map[uint64]*BoolExprPtr)
	}
	s.symToContraints[sym.Id()][constraint.Id()] = constraint
}

func (s *Solver) registerSymDependency(sym1 *BVExprPtr, sym2 *BVExprPtr) {
	if _, ok := s.symDependencies[sym1.Id()]; !ok {
		s.symDependencies[sym1.Id()] = make(map[uint64]*BVExprPtr)
	}
	if _, ok := s.symDependencies[sym2.Id()]; !ok {
		s.symDependencies[sym2.Id()] = make(map[uint64]*BVExprPtr)
	}
	s.symDependencies[sym1.Id()][sym2.Id()] = sym2
	s.symDependencies[sym2.Id()][sym1.Id()] = sym1
}

// getDependentConstraints returns the constraints related to e, even
// through a chain of shared symbols.
func (s *Solver) getDependentConstraints(e ExprPtr) []*BoolExprPtr {
	symsMap := make(map[uint64]*BVExprPtr)
	queue := s.eb.InvolvedInputs(e)
	for len(queue) > 0 {
		sym := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if _, ok := symsMap[sym.Id()]; ok {
			continue
		}
		symsMap[sym.Id()] = sym
		for _, osym := range s.symDependencies[sym.Id()] {
			queue = append(queue, osym)
		}
	}

	constraints := make(map[uint64]*BoolExprPtr)
	for _, sym := range symsMap {
		for _, v := range s.symToContraints[sym.Id()] {
			constraints[v.Id()] = v
		}
	}

	res := make([]*BoolExprPtr, 0, len(constraints))
	for _, c := range constraints {
		res = append(res, c)
	}
	return res
}

func (s *Solver) Add(constraint *BoolExprPtr) {
	if _, ok := s.constraints[constraint.Id()]; ok {
		return
	}
	if constraint.IsConst() {
		c, _ := constraint.GetConst()
		if c {
			return
		}
	}
	s.constraints[constraint.Id()] = constraint

	syms := s.eb.InvolvedInputs(constraint)
	for i := 0; i < len(syms); i++ {
		sym := syms[i]
		s.registerConstraintForSym(sym, constraint)
		for j := i + 1; j < len(syms); j++ {
			s.registerSymDependency(sym, syms[j])
		}
	}
}

func (s *Solver) Pi() *BoolExprPtr {
	res := s.eb.BoolVal(true)
	for _, val := range s.constraints {
		res = s.eb.BoolAnd(res, val)
	}
	return res
}

func (s *Solver) pi(e ExprPtr) *BoolExprPtr {
	res := s.eb.BoolVal(true)
	for _, v := range s.getDependentConstraints(e) {
		res = s.eb.BoolAnd(res, v)
	}
	// constant false constraints have no symbols but still poison every query
	if f, ok := s.constraints[s.eb.BoolVal(false).Id()]; ok {
		res = s.eb.BoolAnd(res, f)
	}
	return res
}

func (s *Solver) Satisfiable() int {
	return s.backend.check(s.Pi())
}

// CheckSat checks query together with the constraints it depends on. The
// model, when sat, only covers the symbols of that slice.
func (s *Solver) CheckSat(query *BoolExprPtr) int {
	return s.backend.check(s.eb.BoolAnd(s.pi(query), query))
}

func (s *Solver) Model() Model {
	return s.backend.model()
}

func (s *Solver) Eval(bv *BVExprPtr) *BVConst {
	res := s.backend.evalUpto(bv, s.pi(bv), 1)
	if len(res) == 0 {
		return nil
	}
	return res[0]
}

func (s *Solver) EvalUpto(bv *BVExprPtr, n int) []*BVConst {
	return s.backend.evalUpto(bv, s.pi(bv), n)
}
