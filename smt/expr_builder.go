package smt

import (
	"fmt"
	"sort"
	"sync"
)

type ExprBuilderStats struct {
	CacheHits    uint
	CacheLookups uint
	CachedBVs    uint
	CachedBools  uint
}

// ExprBuilder interns every expression it creates, so structurally equal
// expressions share one node and one Id. Nodes live as long as the builder.
type ExprBuilder struct {
	lock      sync.Mutex
	bvcache   map[uint64][]internalBVExpr
	boolcache map[uint64][]internalBoolExpr
	nextId    uint64

	stats ExprBuilderStats
}

func NewExprBuilder() *ExprBuilder {
	return &ExprBuilder{
		bvcache:   map[uint64][]internalBVExpr{},
		boolcache: map[uint64][]internalBoolExpr{},
	}
}

func (eb *ExprBuilder) Stats() ExprBuilderStats {
	eb.lock.Lock()
	defer eb.lock.Unlock()
	return eb.stats
}

func (eb *ExprBuilder) getOrCreateBV(e internalBVExpr) *BVExprPtr {
	eb.lock.Lock()
	defer eb.lock.Unlock()
	eb.stats.CacheLookups += 1

	h := e.hash()
	bucket := eb.bvcache[h]
	for i := 0; i < len(bucket); i++ {
		if bucket[i].shallowEq(e) {
			eb.stats.CacheHits += 1
			return &BVExprPtr{bucket[i]}
		}
	}
	eb.stats.CachedBVs += 1

	eb.nextId += 1
	e.setId(eb.nextId)
	eb.bvcache[h] = append(bucket, e)
	return &BVExprPtr{e}
}

func (eb *ExprBuilder) getOrCreateBool(e internalBoolExpr) *BoolExprPtr {
	eb.lock.Lock()
	defer eb.lock.Unlock()
	eb.stats.CacheLookups += 1

	h := e.hash()
	bucket := eb.boolcache[h]
	for i := 0; i < len(bucket); i++ {
		if bucket[i].shallowEq(e) {
			eb.stats.CacheHits += 1
			return &BoolExprPtr{bucket[i]}
		}
	}
	eb.stats.CachedBools += 1

	eb.nextId += 1
	e.setId(eb.nextId)
	eb.boolcache[h] = append(bucket, e)
	return &BoolExprPtr{e}
}

// InvolvedInputs returns the free variables of e, sorted by name.
func (eb *ExprBuilder) InvolvedInputs(e ExprPtr) []*BVExprPtr {
	queue := []internalExpr{e.getInternal()}
	visited := make(map[uint64]bool)
	symbols := make([]*BVExprPtr, 0)

	for len(queue) > 0 {
		el := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if visited[el.rawId()] {
			continue
		}
		visited[el.rawId()] = true

		if el.kind() == TY_SYM {
			symbols = append(symbols, &BVExprPtr{el.(internalBVExpr)})
			continue
		}
		queue = append(queue, el.subexprs()...)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i].String() < symbols[j].String() })
	return symbols
}

// *** Constructors ***

func flattenOrAddArithmeticArg(e *BVExprPtr, ty int, children []*BVExprPtr) []*BVExprPtr {
	if e.Kind() == ty {
		inner := e.e.(*internalBVExprBinArithmetic)
		return append(children, inner.children...)
	}
	return append(children, e)
}

func removeOneIf(exprs []*BVExprPtr, cmpFun func(*BVExprPtr, *BVExprPtr) bool) []*BVExprPtr {
	pruned := make([]*BVExprPtr, 0, len(exprs))
	for i := 0; i < len(exprs); i++ {
		shouldRemove := false
		for j := i + 1; j < len(exprs); j++ {
			if cmpFun(exprs[i], exprs[j]) {
				shouldRemove = true
				break
			}
		}
		if !shouldRemove {
			pruned = append(pruned, exprs[i])
		}
	}
	return pruned
}

func removeBothIf(exprs []*BVExprPtr, cmpFun func(*BVExprPtr, *BVExprPtr) bool) []*BVExprPtr {
	removed := make(map[int]bool)
	pruned := make([]*BVExprPtr, 0, len(exprs))
	for i := 0; i < len(exprs); i++ {
		if removed[i] {
			continue
		}

		oppositeId := -1
		for j := i + 1; j < len(exprs); j++ {
			if !removed[j] && cmpFun(exprs[i], exprs[j]) {
				oppositeId = j
				break
			}
		}
		if oppositeId >= 0 {
			removed[i] = true
			removed[oppositeId] = true
			continue
		}
		pruned = append(pruned, exprs[i])
	}
	return pruned
}

func sortById(children []*BVExprPtr) {
	sort.Slice(children, func(i, j int) bool { return children[i].Id() < children[j].Id() })
}

func (eb *ExprBuilder) BVV(val int64, size uint) *BVExprPtr {
	return eb.getOrCreateBV(mkinternalBVV(val, size))
}

func (eb *ExprBuilder) BVS(name string, size uint) *BVExprPtr {
	return eb.getOrCreateBV(mkinternalBVS(name, size))
}

func (eb *ExprBuilder) constBV(c *BVConst) *BVExprPtr {
	return eb.getOrCreateBV(mkinternalBVVFromConst(*c))
}

func (eb *ExprBuilder) Neg(e *BVExprPtr) *BVExprPtr {
	// Constant propagation
	if e.IsConst() {
		c, _ := e.GetConst()
		c.Neg()
		return eb.constBV(c)
	}

	// Neg of Neg
	if e.Kind() == TY_NEG {
		return e.e.(*internalBVExprUnArithmetic).child
	}

	// Distribute Neg over Add
	if e.Kind() == TY_ADD {
		eAdd := e.e.(*internalBVExprBinArithmetic)
		r := eb.Neg(eAdd.children[0])
		for i := 1; i < len(eAdd.children); i++ {
			var err error
			r, err = eb.Add(r, eb.Neg(eAdd.children[i]))
			if err != nil {
				// children of an Add always share the same size
				panic(err)
			}
		}
		return r
	}

	return eb.getOrCreateBV(mkinternalBVExprNeg(e))
}

func (eb *ExprBuilder) Not(e *BVExprPtr) *BVExprPtr {
	// Constant propagation
	if e.IsConst() {
		c, _ := e.GetConst()
		c.Not()
		return eb.constBV(c)
	}

	// Not of Not
	if e.Kind() == TY_NOT {
		return e.e.(*internalBVExprUnArithmetic).child
	}

	return eb.getOrCreateBV(mkinternalBVExprNot(e))
}

func (eb *ExprBuilder) Add(lhs, rhs *BVExprPtr) (*BVExprPtr, error) {
	if lhs.Size() != rhs.Size() {
		return nil, fmt.Errorf("different sizes")
	}

	// Constant propagation
	if lhs.IsConst() && rhs.IsConst() {
		c1, _ := lhs.GetConst()
		c2, _ := rhs.GetConst()
		if err := c1.Add(c2); err != nil {
			return nil, err
		}
		return eb.constBV(c1), nil
	}

	// Remove zeroes
	if lhs.IsZero() {
		return rhs, nil
	}
	if rhs.IsZero() {
		return lhs, nil
	}

	// Remove add with opposite
	if lhs.IsOppositeOf(rhs) {
		return eb.BVV(0, lhs.Size()), nil
	}

	childrenFlattened := make([]*BVExprPtr, 0)
	childrenFlattened = flattenOrAddArithmeticArg(lhs, TY_ADD, childrenFlattened)
	childrenFlattened = flattenOrAddArithmeticArg(rhs, TY_ADD, childrenFlattened)

	// Constant propagation
	children := make([]*BVExprPtr, 0)
	cVal := MakeBVConst(0, lhs.Size())
	for _, child := range childrenFlattened {
		if child.IsConst() {
			childConst, _ := child.GetConst()
			cVal.Add(childConst)
		} else {
			children = append(children, child)
		}
	}

	// Remove add with opposite on flattened
	children = removeBothIf(children, func(bp1, bp2 *BVExprPtr) bool { return bp1.IsOppositeOf(bp2) })

	if !cVal.IsZero() {
		children = append(children, eb.constBV(cVal))
	}
	if len(children) == 0 {
		return eb.BVV(0, lhs.Size()), nil
	}
	if len(children) == 1 {
		return children[0], nil
	}

	sortById(children)
	ex, err := mkinternalBVExprAdd(children)
	if err != nil {
		return nil, err
	}
	return eb.getOrCreateBV(ex), nil
}

func (eb *ExprBuilder) Sub(lhs, rhs *BVExprPtr) (*BVExprPtr, error) {
	return eb.Add(lhs, eb.Neg(rhs))
}

func (eb *ExprBuilder) Mul(lhs, rhs *BVExprPtr) (*BVExprPtr, error) {
	if lhs.Size() != rhs.Size() {
		return nil, fmt.Errorf("different sizes")
	}

	// Remove ones
	if lhs.IsOne() {
		return rhs, nil
	}
	if rhs.IsOne() {
		return lhs, nil
	}

	// Check zero
	if lhs.IsZero() {
		return lhs, nil
	}
	if rhs.IsZero() {
		return rhs, nil
	}

	childrenFlattened := make([]*BVExprPtr, 0)
	childrenFlattened = flattenOrAddArithmeticArg(lhs, TY_MUL, childrenFlattened)
	childrenFlattened = flattenOrAddArithmeticArg(rhs, TY_MUL, childrenFlattened)

	// Constant propagation
	children := make([]*BVExprPtr, 0)
	cVal := MakeBVConst(1, lhs.Size())
	for _, child := range childrenFlattened {
		if child.IsConst() {
			childConst, _ := child.GetConst()
			cVal.Mul(childConst)
		} else {
			children = append(children, child)
		}
	}
	if cVal.IsZero() {
		return eb.BVV(0, lhs.Size()), nil
	}
	if !cVal.IsOne() {
		children = append(children, eb.constBV(cVal))
	}
	if len(children) == 0 {
		return eb.BVV(1, lhs.Size()), nil
	}
	if len(children) == 1 {
		return children[0], nil
	}

	sortById(children)
	ex, err := mkinternalBVExprMul(children)
	if err != nil {
		return nil, err
	}
	return eb.getOrCreateBV(ex), nil
}

func (eb *ExprBuilder) And(lhs, rhs *BVExprPtr) (*BVExprPtr, error) {
	if lhs.Size() != rhs.Size() {
		return nil, fmt.Errorf("different sizes")
	}

	// Check zero
	if lhs.IsZero() {
		return lhs, nil
	}
	if rhs.IsZero() {
		return rhs, nil
	}

	// Check if all bit set
	if lhs.HasAllBitsSet() {
		return rhs, nil
	}
	if rhs.HasAllBitsSet() {
		return lhs, nil
	}

	// Check if lhs == rhs
	if lhs.Id() == rhs.Id() {
		return lhs, nil
	}

	childrenFlattened := make([]*BVExprPtr, 0)
	childrenFlattened = flattenOrAddArithmeticArg(lhs, TY_AND, childrenFlattened)
	childrenFlattened = flattenOrAddArithmeticArg(rhs, TY_AND, childrenFlattened)

	// Constant propagation
	children := make([]*BVExprPtr, 0)
	cVal := MakeBVConst(-1, lhs.Size())
	for _, child := range childrenFlattened {
		if child.IsConst() {
			childConst, _ := child.GetConst()
			cVal.And(childConst)
		} else {
			children = append(children, child)
		}
	}
	if cVal.IsZero() {
		return eb.BVV(0, lhs.Size()), nil
	}

	// Remove and with same on flattened
	children = removeOneIf(children, func(bp1, bp2 *BVExprPtr) bool { return bp1.Id() == bp2.Id() })

	if !cVal.HasAllBitsSet() {
		children = append(children, eb.constBV(cVal))
	}
	if len(children) == 0 {
		return eb.BVV(-1, lhs.Size()), nil
	}
	if len(children) == 1 {
		return children[0], nil
	}

	sortById(children)
	ex, err := mkinternalBVExprAnd(children)
	if err != nil {
		return nil, err
	}
	return eb.getOrCreateBV(ex), nil
}

func (eb *ExprBuilder) Or(lhs, rhs *BVExprPtr) (*BVExprPtr, error) {
	if lhs.Size() != rhs.Size() {
		return nil, fmt.Errorf("different sizes")
	}

	// Check zero
	if lhs.IsZero() {
		return rhs, nil
	}
	if rhs.IsZero() {
		return lhs, nil
	}

	// Check if all bit set
	if lhs.HasAllBitsSet() {
		return lhs, nil
	}
	if rhs.HasAllBitsSet() {
		return rhs, nil
	}

	// Check if lhs == rhs
	if lhs.Id() == rhs.Id() {
		return lhs, nil
	}

	childrenFlattened := make([]*BVExprPtr, 0)
	childrenFlattened = flattenOrAddArithmeticArg(lhs, TY_OR, childrenFlattened)
	childrenFlattened = flattenOrAddArithmeticArg(rhs, TY_OR, childrenFlattened)

	// Constant propagation
	children := make([]*BVExprPtr, 0)
	cVal := MakeBVConst(0, lhs.Size())
	for _, child := range childrenFlattened {
		if child.IsConst() {
			childConst, _ := child.GetConst()
			cVal.Or(childConst)
		} else {
			children = append(children, child)
		}
	}
	if cVal.HasAllBitsSet() {
		return eb.BVV(-1, lhs.Size()), nil
	}

	children = removeOneIf(children, func(bp1, bp2 *BVExprPtr) bool { return bp1.Id() == bp2.Id() })

	if !cVal.IsZero() {
		children = append(children, eb.constBV(cVal))
	}
	if len(children) == 0 {
		return eb.BVV(0, lhs.Size()), nil
	}
	if len(children) == 1 {
		return children[0], nil
	}

	sortById(children)
	ex, err := mkinternalBVExprOr(children)
	if err != nil {
		return nil, err
	}
	return eb.getOrCreateBV(ex), nil
}

func (eb *ExprBuilder) Xor(lhs, rhs *BVExprPtr) (*BVExprPtr, error) {
	if lhs.Size() != rhs.Size() {
		return nil, fmt.Errorf("different sizes")
	}

	// Check zero
	if lhs.IsZero() {
		return rhs, nil
	}
	if rhs.IsZero() {
		return lhs, nil
	}

	// Check if same
	if lhs.Id() == rhs.Id() {
		return eb.BVV(0, lhs.Size()), nil
	}

	childrenFlattened := make([]*BVExprPtr, 0)
	childrenFlattened = flattenOrAddArithmeticArg(lhs, TY_XOR, childrenFlattened)
	childrenFlattened = flattenOrAddArithmeticArg(rhs, TY_XOR, childrenFlattened)

	// Constant propagation
	children := make([]*BVExprPtr, 0)
	cVal := MakeBVConst(0, lhs.Size())
	for _, child := range childrenFlattened {
		if child.IsConst() {
			childConst, _ := child.GetConst()
			cVal.Xor(childConst)
		} else {
			children = append(children, child)
		}
	}

	// Remove couples of same expression on flattened
	children = removeBothIf(children, func(bp1, bp2 *BVExprPtr) bool { return bp1.Id() == bp2.Id() })

	if !cVal.IsZero() {
		children = append(children, eb.constBV(cVal))
	}
	if len(children) == 0 {
		return eb.BVV(0, lhs.Size()), nil
	}
	if len(children) == 1 {
		return children[0], nil
	}

	sortById(children)
	ex, err := mkinternalBVExprXor(children)
	if err != nil {
		return nil, err
	}
	return eb.getOrCreateBV(ex), nil
}

// shiftAmount returns the constant shift amount clamped to the operand size.
func shiftAmount(rhs *BVExprPtr, size uint) uint {
	n, _ := rhs.GetConst()
	if !n.FitInLong() || n.AsULong() >= uint64(size) {
		return size
	}
	return uint(n.AsULong())
}

func (eb *ExprBuilder) shift(lhs, rhs *BVExprPtr, kind int) (*BVExprPtr, error) {
	if lhs.Size() != rhs.Size() {
		return nil, fmt.Errorf("different sizes")
	}

	if rhs.IsConst() {
		n := shiftAmount(rhs, lhs.Size())
		if n == 0 {
			return lhs, nil
		}

		// Constant propagation
		if lhs.IsConst() {
			c, _ := lhs.GetConst()
			switch kind {
			case TY_SHL:
				c.Shl(n)
			case TY_LSHR:
				c.LShr(n)
			case TY_ASHR:
				c.AShr(n)
			}
			return eb.constBV(c), nil
		}

		// Shift out of range
		if n >= lhs.Size() && kind != TY_ASHR {
			return eb.BVV(0, lhs.Size()), nil
		}
	}

	var ex *internalBVExprBinArithmetic
	var err error
	switch kind {
	case TY_SHL:
		ex, err = mkinternalBVExprShl(lhs, rhs)
	case TY_LSHR:
		ex, err = mkinternalBVExprLshr(lhs, rhs)
	default:
		ex, err = mkinternalBVExprAshr(lhs, rhs)
	}
	if err != nil {
		return nil, err
	}
	return eb.getOrCreateBV(ex), nil
}

func (eb *ExprBuilder) Shl(lhs, rhs *BVExprPtr) (*BVExprPtr, error) {
	return eb.shift(lhs, rhs, TY_SHL)
}

func (eb *ExprBuilder) LShr(lhs, rhs *BVExprPtr) (*BVExprPtr, error) {
	return eb.shift(lhs, rhs, TY_LSHR)
}

func (eb *ExprBuilder) AShr(lhs, rhs *BVExprPtr) (*BVExprPtr, error) {
	return eb.shift(lhs, rhs, TY_ASHR)
}

func (eb *ExprBuilder) SDiv(lhs, rhs *BVExprPtr) (*BVExprPtr, error) {
	if lhs.Size() != rhs.Size() {
		return nil, fmt.Errorf("different sizes")
	}

	// Constant propagation
	if lhs.IsConst() && rhs.IsConst() {
		c1, _ := lhs.GetConst()
		c2, _ := rhs.GetConst()
		if err := c1.SDiv(c2); err != nil {
			return nil, err
		}
		return eb.constBV(c1), nil
	}

	// Div by one
	if rhs.IsOne() {
		return lhs, nil
	}

	ex, err := mkinternalBVExprSdiv(lhs, rhs)
	if err != nil {
		return nil, err
	}
	return eb.getOrCreateBV(ex), nil
}

func (eb *ExprBuilder) SRem(lhs, rhs *BVExprPtr) (*BVExprPtr, error) {
	if lhs.Size() != rhs.Size() {
		return nil, fmt.Errorf("different sizes")
	}

	// Constant propagation
	if lhs.IsConst() && rhs.IsConst() {
		c1, _ := lhs.GetConst()
		c2, _ := rhs.GetConst()
		if err := c1.SRem(c2); err != nil {
			return nil, err
		}
		return eb.constBV(c1), nil
	}

	// Rem by myself or by one
	if lhs.Id() == rhs.Id() || rhs.IsOne() {
		return eb.BVV(0, lhs.Size()), nil
	}

	ex, err := mkinternalBVExprSrem(lhs, rhs)
	if err != nil {
		return nil, err
	}
	return eb.getOrCreateBV(ex), nil
}

func (eb *ExprBuilder) ITE(guard *BoolExprPtr, iftrue *BVExprPtr, iffalse *BVExprPtr) (*BVExprPtr, error) {
	if iftrue.Size() != iffalse.Size() {
		return nil, fmt.Errorf("invalid sizes in ITE")
	}

	// Constant propagation
	if guard.IsConst() {
		g, _ := guard.GetConst()
		if g {
			return iftrue, nil
		}
		return iffalse, nil
	}

	if iftrue.Id() == iffalse.Id() {
		return iftrue, nil
	}

	ex, err := mkinternalBVExprITE(guard, iftrue, iffalse)
	if err != nil {
		return nil, err
	}
	return eb.getOrCreateBV(ex), nil
}

type cmpFold func(c1, c2 *BVConst) (BoolConst, error)
type cmpMake func(lhs, rhs *BVExprPtr) (*internalBoolExprCmp, error)

func (eb *ExprBuilder) cmp(lhs, rhs *BVExprPtr, fold cmpFold, mk cmpMake, reflexive bool) (*BoolExprPtr, error) {
	if lhs.Size() != rhs.Size() {
		return nil, fmt.Errorf("different sizes")
	}

	// Constant propagation
	if lhs.IsConst() && rhs.IsConst() {
		c1, _ := lhs.GetConst()
		c2, _ := rhs.GetConst()
		r, err := fold(c1, c2)
		if err != nil {
			return nil, err
		}
		return eb.BoolVal(r.Value), nil
	}

	// Same operands
	if lhs.Id() == rhs.Id() {
		return eb.BoolVal(reflexive), nil
	}

	ex, err := mk(lhs, rhs)
	if err != nil {
		return nil, err
	}
	return eb.getOrCreateBool(ex), nil
}

func (eb *ExprBuilder) Ult(lhs, rhs *BVExprPtr) (*BoolExprPtr, error) {
	return eb.cmp(lhs, rhs, (*BVConst).Ult, mkinternalBoolExprUlt, false)
}

func (eb *ExprBuilder) SLt(lhs, rhs *BVExprPtr) (*BoolExprPtr, error) {
	return eb.cmp(lhs, rhs, (*BVConst).SLt, mkinternalBoolExprSlt, false)
}

func (eb *ExprBuilder) SLe(lhs, rhs *BVExprPtr) (*BoolExprPtr, error) {
	return eb.cmp(lhs, rhs, (*BVConst).SLe, mkinternalBoolExprSle, true)
}

func (eb *ExprBuilder) SGt(lhs, rhs *BVExprPtr) (*BoolExprPtr, error) {
	return eb.cmp(lhs, rhs, (*BVConst).SGt, mkinternalBoolExprSgt, false)
}

func (eb *ExprBuilder) SGe(lhs, rhs *BVExprPtr) (*BoolExprPtr, error) {
	return eb.cmp(lhs, rhs, (*BVConst).SGe, mkinternalBoolExprSge, true)
}

func (eb *ExprBuilder) Eq(lhs, rhs *BVExprPtr) (*BoolExprPtr, error) {
	return eb.cmp(lhs, rhs, (*BVConst).Eq, mkinternalBoolExprEq, true)
}

func (eb *ExprBuilder) NEq(lhs, rhs *BVExprPtr) (*BoolExprPtr, error) {
	e, err := eb.Eq(lhs, rhs)
	if err != nil {
		return nil, err
	}
	return eb.BoolNot(e), nil
}

func (eb *ExprBuilder) BoolVal(v bool) *BoolExprPtr {
	return eb.getOrCreateBool(mkinternalBoolConst(v))
}

var negatedCmp = map[int]cmpMake{
	TY_SLT: mkinternalBoolExprSge,
	TY_SLE: mkinternalBoolExprSgt,
	TY_SGT: mkinternalBoolExprSle,
	TY_SGE: mkinternalBoolExprSlt,
}

func (eb *ExprBuilder) BoolNot(e *BoolExprPtr) *BoolExprPtr {
	// Constant propagation
	if e.IsConst() {
		v, _ := e.GetConst()
		return eb.BoolVal(!v)
	}

	// Not of Not
	if e.Kind() == TY_BOOL_NOT {
		return e.e.(*internalBoolUnArithmetic).child
	}

	// De Morgan
	if e.Kind() == TY_BOOL_AND || e.Kind() == TY_BOOL_OR {
		eInt := e.e.(*internalBoolExprNaryOp)
		r := eb.BoolNot(eInt.children[0])
		for i := 1; i < len(eInt.children); i++ {
			if e.Kind() == TY_BOOL_AND {
				r = eb.BoolOr(r, eb.BoolNot(eInt.children[i]))
			} else {
				r = eb.BoolAnd(r, eb.BoolNot(eInt.children[i]))
			}
		}
		return r
	}

	// Not of { Slt, Sle, Sgt, Sge }
	if mk, ok := negatedCmp[e.Kind()]; ok {
		eInt := e.e.(*internalBoolExprCmp)
		ex, _ := mk(eInt.lhs, eInt.rhs)
		return eb.getOrCreateBool(ex)
	}

	return eb.getOrCreateBool(mkinternalBoolNot(e))
}

func (eb *ExprBuilder) flattenBool(kind int, exprs ...*BoolExprPtr) []*BoolExprPtr {
	children := make([]*BoolExprPtr, 0, len(exprs))
	seen := make(map[uint64]bool)
	for _, e := range exprs {
		var parts []*BoolExprPtr
		if e.Kind() == kind {
			parts = e.e.(*internalBoolExprNaryOp).children
		} else {
			parts = []*BoolExprPtr{e}
		}
		for _, p := range parts {
			if !seen[p.Id()] {
				seen[p.Id()] = true
				children = append(children, p)
			}
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Id() < children[j].Id() })
	return children
}

func (eb *ExprBuilder) BoolAnd(lhs, rhs *BoolExprPtr) *BoolExprPtr {
	// Constant propagation
	if lhs.IsConst() {
		if v, _ := lhs.GetConst(); v {
			return rhs
		}
		return eb.BoolVal(false)
	}
	if rhs.IsConst() {
		if v, _ := rhs.GetConst(); v {
			return lhs
		}
		return eb.BoolVal(false)
	}

	children := eb.flattenBool(TY_BOOL_AND, lhs, rhs)
	if len(children) == 1 {
		return children[0]
	}
	return eb.getOrCreateBool(mkinternalBoolExprAnd(children))
}

func (eb *ExprBuilder) BoolOr(lhs, rhs *BoolExprPtr) *BoolExprPtr {
	// Constant propagation
	if lhs.IsConst() {
		if v, _ := lhs.GetConst(); !v {
			return rhs
		}
		return eb.BoolVal(true)
	}
	if rhs.IsConst() {
		if v, _ := rhs.GetConst(); !v {
			return lhs
		}
		return eb.BoolVal(true)
	}

	children := eb.flattenBool(TY_BOOL_OR, lhs, rhs)
	if len(children) == 1 {
		return children[0]
	}
	return eb.getOrCreateBool(mkinternalBoolExprOr(children))
}

// Conjunction folds exprs with BoolAnd. The empty conjunction is true.
func (eb *ExprBuilder) Conjunction(exprs ...*BoolExprPtr) *BoolExprPtr {
	res := eb.BoolVal(true)
	for _, e := range exprs {
		res = eb.BoolAnd(res, e)
	}
	return res
}
