package concolic

import (
	"fmt"
	"strings"

	"github.com/borzacchiello/goconcolic/smt"
	"github.com/borzacchiello/goconcolic/symbolic"
)

// Oracle answers satisfiability queries. A false result with a nil error
// means unsat; an error means the query could not be decided.
type Oracle interface {
	// FindCounterexample solves asserts ∧ ¬query.
	FindCounterexample(asserts []symbolic.Predicate, query symbolic.Predicate) (smt.Model, bool, error)
	Solve(formula *smt.BoolExprPtr) (smt.Model, bool, error)
}

// SolverOracle runs each query on a fresh smt.Solver. The model covers the
// query's variables and every variable linked to them through the asserts.
type SolverOracle struct {
	eb *smt.ExprBuilder
}

func NewSolverOracle(eb *smt.ExprBuilder) *SolverOracle {
	return &SolverOracle{eb: eb}
}

// NewOracle picks an oracle by its configuration name.
func NewOracle(backend string, eb *smt.ExprBuilder) (Oracle, error) {
	switch strings.ToLower(backend) {
	case "", "z3":
		if !smt.Available() {
			return nil, smt.ErrSolverUnavailable
		}
		return NewSolverOracle(eb), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
}

func (o *SolverOracle) FindCounterexample(asserts []symbolic.Predicate, query symbolic.Predicate) (smt.Model, bool, error) {
	s := smt.NewSolver(o.eb)
	for _, a := range asserts {
		s.Add(a.Expr())
	}
	return o.check(s, query.Negated().Expr(), o.eb.BoolAnd(s.Pi(), query.Negated().Expr()))
}

func (o *SolverOracle) Solve(formula *smt.BoolExprPtr) (smt.Model, bool, error) {
	return o.check(smt.NewSolver(o.eb), formula, formula)
}

func (o *SolverOracle) check(s *smt.Solver, query, full *smt.BoolExprPtr) (smt.Model, bool, error) {
	switch r := s.CheckSat(query); r {
	case smt.RESULT_UNSAT:
		return nil, false, nil
	case smt.RESULT_UNKNOWN:
		return nil, false, ErrOracleUnknown
	case smt.RESULT_SAT:
		model := s.Model()
		if err := o.verify(full, model); err != nil {
			return nil, false, err
		}
		return model, true, nil
	default:
		return nil, false, fmt.Errorf("solver failed: %w", smt.ErrSolverUnavailable)
	}
}

// verify rejects a model under which the formula evaluates to false. Parts
// of the formula outside the model stay symbolic and are not checked.
func (o *SolverOracle) verify(formula *smt.BoolExprPtr, model smt.Model) error {
	r, err := o.eb.Eval(formula, model)
	if err != nil {
		return err
	}
	b := r.(*smt.BoolExprPtr)
	if v, err := b.GetConst(); err == nil && !v {
		return fmt.Errorf("%w: %s", ErrInvalidModel, model)
	}
	return nil
}
