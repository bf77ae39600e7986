//go:build !noz3

package smt

import (
	"fmt"

	"github.com/aclements/go-z3/z3"
)

// Available reports whether a solver backend was compiled in.
func Available() bool {
	return true
}

type z3backend struct {
	ctx    *z3.Context
	cfg    *z3.Config
	solver *z3.Solver

	lastSymbols map[uint64]z3.BV
}

func newBackend() solverBackend {
	return newZ3Backend()
}

func newZ3Backend() *z3backend {
	cfg := z3.NewContextConfig()
	ctx := z3.NewContext(cfg)
	return &z3backend{
		ctx:    ctx,
		cfg:    cfg,
		solver: z3.NewSolver(ctx),
	}
}

func (s *z3backend) clone() solverBackend {
	return newZ3Backend()
}

func (s *z3backend) assert(query *BoolExprPtr, cache map[uint64]z3.Value) {
	if query.Kind() == TY_BOOL_AND {
		andQuery := query.e.(*internalBoolExprNaryOp)
		for i := 0; i < len(andQuery.children); i++ {
			z3query := s.convert(andQuery.children[i].e, cache, s.lastSymbols)
			s.solver.Assert(z3query.(z3.Bool))
		}
		return
	}
	z3query := s.convert(query.e, cache, s.lastSymbols)
	s.solver.Assert(z3query.(z3.Bool))
}

func (s *z3backend) check(query *BoolExprPtr) int {
	s.solver.Reset()
	s.lastSymbols = make(map[uint64]z3.BV)

	cache := make(map[uint64]z3.Value)
	s.assert(query, cache)

	r, err := s.solver.Check()
	if err != nil {
		return RESULT_UNKNOWN
	}
	if r {
		return RESULT_SAT
	}
	return RESULT_UNSAT
}

func convertZ3Const(c z3.BV) (*BVConst, error) {
	v, ok := c.AsBigUnsigned()
	if !ok {
		return nil, fmt.Errorf("not a constant: %s", c.String())
	}
	return MakeBVConstFromBigint(v, uint(c.Sort().BVSize())), nil
}

func (s *z3backend) model() Model {
	m := s.solver.Model()
	if m == nil {
		return nil
	}

	res := make(Model)
	for _, sym := range s.lastSymbols {
		v := m.Eval(sym, true).(z3.BV)
		c, err := convertZ3Const(v)
		if err != nil {
			panic(err)
		}
		res[sym.String()] = c
	}
	return res
}

func (s *z3backend) evalUpto(bv *BVExprPtr, pi *BoolExprPtr, n int) []*BVConst {
	s.solver.Reset()
	s.lastSymbols = make(map[uint64]z3.BV)
	cache := make(map[uint64]z3.Value)

	values := make([]*BVConst, 0)
	bvZ3 := s.convert(bv.e, cache, s.lastSymbols).(z3.BV)
	s.assert(pi, cache)

	for n > 0 {
		r, err := s.solver.Check()
		if err != nil || !r {
			break
		}

		m := s.solver.Model()
		if m == nil {
			break
		}

		v := m.Eval(bvZ3, true).(z3.BV)
		c, err := convertZ3Const(v)
		if err != nil {
			panic(err)
		}
		values = append(values, c)
		s.solver.Assert(bvZ3.NE(v))
		n -= 1
	}
	return values
}

func (s *z3backend) convertBV(e *BVExprPtr, cache map[uint64]z3.Value, symbols map[uint64]z3.BV) z3.BV {
	return s.convert(e.e, cache, symbols).(z3.BV)
}

func (s *z3backend) convert(e internalExpr, cache map[uint64]z3.Value, symbols map[uint64]z3.BV) z3.Value {
	if v, ok := cache[e.rawId()]; ok {
		return v
	}

	var result z3.Value
	switch e.kind() {
	case TY_SYM:
		bv := e.(*internalBVS)
		result = s.ctx.BVConst(bv.name, int(bv.size()))
		symbols[bv.rawId()] = result.(z3.BV)
	case TY_CONST:
		bv := e.(*internalBVV)
		result = s.ctx.FromBigInt(bv.Value.value, s.ctx.BVSort(int(bv.size())))
	case TY_ITE:
		e := e.(*internalBVExprITE)
		guard := s.convert(e.cond.e, cache, symbols).(z3.Bool)
		iftrue := s.convertBV(e.iftrue, cache, symbols)
		iffalse := s.convertBV(e.iffalse, cache, symbols)
		result = guard.IfThenElse(iftrue, iffalse)
	case TY_NOT:
		e := e.(*internalBVExprUnArithmetic)
		result = s.convertBV(e.child, cache, symbols).Not()
	case TY_NEG:
		e := e.(*internalBVExprUnArithmetic)
		result = s.convertBV(e.child, cache, symbols).Neg()
	case TY_SHL, TY_LSHR, TY_ASHR, TY_SDIV, TY_SREM:
		e := e.(*internalBVExprBinArithmetic)
		lhs := s.convertBV(e.children[0], cache, symbols)
		rhs := s.convertBV(e.children[1], cache, symbols)
		switch e.kind() {
		case TY_SHL:
			result = lhs.Lsh(rhs)
		case TY_LSHR:
			result = lhs.URsh(rhs)
		case TY_ASHR:
			result = lhs.SRsh(rhs)
		case TY_SDIV:
			result = lhs.SDiv(rhs)
		case TY_SREM:
			result = lhs.SRem(rhs)
		}
	case TY_AND, TY_OR, TY_XOR, TY_ADD, TY_MUL:
		e := e.(*internalBVExprBinArithmetic)
		res := s.convertBV(e.children[0], cache, symbols)
		for i := 1; i < len(e.children); i++ {
			child := s.convertBV(e.children[i], cache, symbols)
			switch e.kind() {
			case TY_AND:
				res = res.And(child)
			case TY_OR:
				res = res.Or(child)
			case TY_XOR:
				res = res.Xor(child)
			case TY_ADD:
				res = res.Add(child)
			case TY_MUL:
				res = res.Mul(child)
			}
		}
		result = res
	case TY_ULT, TY_SLT, TY_SLE, TY_SGT, TY_SGE, TY_EQ:
		e := e.(*internalBoolExprCmp)
		lhs := s.convertBV(e.lhs, cache, symbols)
		rhs := s.convertBV(e.rhs, cache, symbols)
		switch e.kind() {
		case TY_ULT:
			result = lhs.ULT(rhs)
		case TY_SLT:
			result = lhs.SLT(rhs)
		case TY_SLE:
			result = lhs.SLE(rhs)
		case TY_SGT:
			result = lhs.SGT(rhs)
		case TY_SGE:
			result = lhs.SGE(rhs)
		case TY_EQ:
			result = lhs.Eq(rhs)
		}
	case TY_BOOL_CONST:
		e := e.(*internalBoolVal)
		result = s.ctx.FromBool(e.Value.Value)
	case TY_BOOL_NOT:
		e := e.(*internalBoolUnArithmetic)
		result = s.convert(e.child.e, cache, symbols).(z3.Bool).Not()
	case TY_BOOL_AND, TY_BOOL_OR:
		e := e.(*internalBoolExprNaryOp)
		res := s.convert(e.children[0].e, cache, symbols).(z3.Bool)
		for i := 1; i < len(e.children); i++ {
			child := s.convert(e.children[i].e, cache, symbols).(z3.Bool)
			if e.kind() == TY_BOOL_AND {
				res = res.And(child)
			} else {
				res = res.Or(child)
			}
		}
		result = res
	default:
		panic(fmt.Sprintf("invalid expression type %d", e.kind()))
	}

	cache[e.rawId()] = result
	return result
}
