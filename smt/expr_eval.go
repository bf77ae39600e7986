package smt

import "fmt"

// Eval substitutes the symbols assigned in interpr and simplifies. When every
// free variable of e is assigned the result is a constant.
func (eb *ExprBuilder) Eval(e ExprPtr, interpr Model) (ExprPtr, error) {
	cache := make(map[uint64]ExprPtr)
	return eb.evalInternal(e, cache, interpr)
}

// EvalBool evaluates e under a total assignment of its free variables.
func (eb *ExprBuilder) EvalBool(e *BoolExprPtr, interpr Model) (bool, error) {
	r, err := eb.Eval(e, interpr)
	if err != nil {
		return false, err
	}
	b := r.(*BoolExprPtr)
	if !b.IsConst() {
		return false, fmt.Errorf("%w: %s", ErrPartialModel, b.String())
	}
	return b.GetConst()
}

// EvalBV evaluates e under a total assignment of its free variables.
func (eb *ExprBuilder) EvalBV(e *BVExprPtr, interpr Model) (*BVConst, error) {
	r, err := eb.Eval(e, interpr)
	if err != nil {
		return nil, err
	}
	bv := r.(*BVExprPtr)
	if !bv.IsConst() {
		return nil, fmt.Errorf("%w: %s", ErrPartialModel, bv.String())
	}
	return bv.GetConst()
}

type bvFold func(lhs, rhs *BVExprPtr) (*BVExprPtr, error)

func (eb *ExprBuilder) evalNary(children []*BVExprPtr, op bvFold, cache map[uint64]ExprPtr, interpr Model) (ExprPtr, error) {
	r, err := eb.evalInternal(children[0], cache, interpr)
	if err != nil {
		return nil, err
	}
	res := r.(*BVExprPtr)
	for i := 1; i < len(children); i++ {
		child, err := eb.evalInternal(children[i], cache, interpr)
		if err != nil {
			return nil, err
		}
		res, err = op(res, child.(*BVExprPtr))
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (eb *ExprBuilder) evalCmp(e *internalBoolExprCmp, op cmpBuild, cache map[uint64]ExprPtr, interpr Model) (ExprPtr, error) {
	lhs, err := eb.evalInternal(e.lhs, cache, interpr)
	if err != nil {
		return nil, err
	}
	rhs, err := eb.evalInternal(e.rhs, cache, interpr)
	if err != nil {
		return nil, err
	}
	return op(lhs.(*BVExprPtr), rhs.(*BVExprPtr))
}

type cmpBuild func(lhs, rhs *BVExprPtr) (*BoolExprPtr, error)

func (eb *ExprBuilder) evalInternal(eptr ExprPtr, cache map[uint64]ExprPtr, interpr Model) (ExprPtr, error) {
	e := eptr.getInternal()
	if r, ok := cache[e.rawId()]; ok {
		return r, nil
	}

	var result ExprPtr
	var err error
	switch e.kind() {
	case TY_SYM:
		bv := e.(*internalBVS)
		if c, ok := interpr[bv.name]; ok {
			if c.Size != bv.sz {
				return nil, fmt.Errorf("symbol %s: model value has size %d, expected %d", bv.name, c.Size, bv.sz)
			}
			return eb.constBV(c.Copy()), nil
		}
		return eptr, nil
	case TY_CONST, TY_BOOL_CONST:
		return eptr, nil
	case TY_ITE:
		e := e.(*internalBVExprITE)
		var guard, iftrue, iffalse ExprPtr
		if guard, err = eb.evalInternal(e.cond, cache, interpr); err != nil {
			return nil, err
		}
		if iftrue, err = eb.evalInternal(e.iftrue, cache, interpr); err != nil {
			return nil, err
		}
		if iffalse, err = eb.evalInternal(e.iffalse, cache, interpr); err != nil {
			return nil, err
		}
		result, err = eb.ITE(guard.(*BoolExprPtr), iftrue.(*BVExprPtr), iffalse.(*BVExprPtr))
	case TY_NOT, TY_NEG:
		e := e.(*internalBVExprUnArithmetic)
		var child ExprPtr
		if child, err = eb.evalInternal(e.child, cache, interpr); err != nil {
			return nil, err
		}
		if e.kind() == TY_NOT {
			result = eb.Not(child.(*BVExprPtr))
		} else {
			result = eb.Neg(child.(*BVExprPtr))
		}
	case TY_SHL:
		result, err = eb.evalNary(e.(*internalBVExprBinArithmetic).children, eb.Shl, cache, interpr)
	case TY_LSHR:
		result, err = eb.evalNary(e.(*internalBVExprBinArithmetic).children, eb.LShr, cache, interpr)
	case TY_ASHR:
		result, err = eb.evalNary(e.(*internalBVExprBinArithmetic).children, eb.AShr, cache, interpr)
	case TY_AND:
		result, err = eb.evalNary(e.(*internalBVExprBinArithmetic).children, eb.And, cache, interpr)
	case TY_OR:
		result, err = eb.evalNary(e.(*internalBVExprBinArithmetic).children, eb.Or, cache, interpr)
	case TY_XOR:
		result, err = eb.evalNary(e.(*internalBVExprBinArithmetic).children, eb.Xor, cache, interpr)
	case TY_ADD:
		result, err = eb.evalNary(e.(*internalBVExprBinArithmetic).children, eb.Add, cache, interpr)
	case TY_MUL:
		result, err = eb.evalNary(e.(*internalBVExprBinArithmetic).children, eb.Mul, cache, interpr)
	case TY_SDIV:
		result, err = eb.evalNary(e.(*internalBVExprBinArithmetic).children, eb.SDiv, cache, interpr)
	case TY_SREM:
		result, err = eb.evalNary(e.(*internalBVExprBinArithmetic).children, eb.SRem, cache, interpr)
	case TY_ULT:
		result, err = eb.evalCmp(e.(*internalBoolExprCmp), eb.Ult, cache, interpr)
	case TY_SLT:
		result, err = eb.evalCmp(e.(*internalBoolExprCmp), eb.SLt, cache, interpr)
	case TY_SLE:
		result, err = eb.evalCmp(e.(*internalBoolExprCmp), eb.SLe, cache, interpr)
	case TY_SGT:
		result, err = eb.evalCmp(e.(*internalBoolExprCmp), eb.SGt, cache, interpr)
	case TY_SGE:
		result, err = eb.evalCmp(e.(*internalBoolExprCmp), eb.SGe, cache, interpr)
	case TY_EQ:
		result, err = eb.evalCmp(e.(*internalBoolExprCmp), eb.Eq, cache, interpr)
	case TY_BOOL_NOT:
		e := e.(*internalBoolUnArithmetic)
		var child ExprPtr
		if child, err = eb.evalInternal(e.child, cache, interpr); err != nil {
			return nil, err
		}
		result = eb.BoolNot(child.(*BoolExprPtr))
	case TY_BOOL_AND, TY_BOOL_OR:
		e := e.(*internalBoolExprNaryOp)
		res := eb.BoolVal(e.kind() == TY_BOOL_AND)
		for i := 0; i < len(e.children); i++ {
			var child ExprPtr
			if child, err = eb.evalInternal(e.children[i], cache, interpr); err != nil {
				return nil, err
			}
			if e.kind() == TY_BOOL_AND {
				res = eb.BoolAnd(res, child.(*BoolExprPtr))
			} else {
				res = eb.BoolOr(res, child.(*BoolExprPtr))
			}
		}
		result = res
	default:
		return nil, fmt.Errorf("invalid expression type %d", e.kind())
	}

	if err != nil {
		return nil, err
	}
	cache[e.rawId()] = result
	return result, nil
}
