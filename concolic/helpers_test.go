package concolic

import (
	"math"
	"testing"

	"github.com/borzacchiello/goconcolic/invocation"
	"github.com/borzacchiello/goconcolic/smt"
	"github.com/borzacchiello/goconcolic/symbolic"
	"github.com/stretchr/testify/require"
)

// grid is the value domain searched by gridOracle, in search order.
var grid = []int64{math.MinInt64, -3, -2, -1, 0, 1, 2, 3, math.MaxInt64}

// gridOracle decides queries by trying every assignment of grid values to
// params. It is exact on the small targets used in these tests and needs no
// solver backend.
type gridOracle struct {
	eb     *smt.ExprBuilder
	params []string
	calls  int
}

func newGridOracle(eb *smt.ExprBuilder, params ...string) *gridOracle {
	return &gridOracle{eb: eb, params: params}
}

func (o *gridOracle) FindCounterexample(asserts []symbolic.Predicate, query symbolic.Predicate) (smt.Model, bool, error) {
	f := query.Negated().Expr()
	for _, a := range asserts {
		f = o.eb.BoolAnd(f, a.Expr())
	}
	return o.Solve(f)
}

func (o *gridOracle) Solve(formula *smt.BoolExprPtr) (smt.Model, bool, error) {
	o.calls++
	idx := make([]int, len(o.params))
	for {
		model := make(smt.Model)
		for i, p := range o.params {
			model[p] = smt.MakeBVConst(grid[idx[i]], symbolic.Width)
		}
		ok, err := o.eb.EvalBool(formula, model)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return model, true, nil
		}

		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(grid) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return nil, false, nil
		}
	}
}

// scriptedOracle answers every query with the same canned response.
type scriptedOracle struct {
	model smt.Model
	sat   bool
	err   error
	calls int
}

func (o *scriptedOracle) FindCounterexample([]symbolic.Predicate, symbolic.Predicate) (smt.Model, bool, error) {
	return o.Solve(nil)
}

func (o *scriptedOracle) Solve(*smt.BoolExprPtr) (smt.Model, bool, error) {
	o.calls++
	return o.model, o.sat, o.err
}

func modelOf(kv map[string]int64) smt.Model {
	m := make(smt.Model)
	for k, v := range kv {
		m[k] = smt.MakeBVConst(v, symbolic.Width)
	}
	return m
}

func newInvocation(t *testing.T, eb *smt.ExprBuilder, name string, fn invocation.Func, params ...string) *invocation.Invocation {
	t.Helper()
	inv, err := invocation.New(name, params, fn, eb)
	require.NoError(t, err)
	return inv
}

func absRef(args invocation.Args) symbolic.Int {
	x := args.Int("x")
	if x.Lt(symbolic.Const(0)).Branch() {
		return x.Neg()
	}
	return x
}

// absSaturating returns MaxInt64 instead of wrapping on MinInt64.
func absSaturating(args invocation.Args) symbolic.Int {
	x := args.Int("x")
	if x.Lt(symbolic.Const(0)).Branch() {
		if x.Eq(symbolic.Const(math.MinInt64)).Branch() {
			return symbolic.Const(math.MaxInt64)
		}
		return x.Neg()
	}
	return x
}

func maxRef(args invocation.Args) symbolic.Int {
	a, b := args.Int("a"), args.Int("b")
	if a.Ge(b).Branch() {
		return a
	}
	return b
}

// maxBranchless selects with a mask and records no decision.
func maxBranchless(args invocation.Args) symbolic.Int {
	a, b := args.Int("a"), args.Int("b")
	mask := symbolic.FromBool(a.Ge(b)).Neg()
	return b.Xor(a.Xor(b).And(mask))
}

// twoBranches has four feasible paths when x and y are independent.
func twoBranches(args invocation.Args) symbolic.Int {
	x, y := args.Int("x"), args.Int("y")
	r := symbolic.Const(0)
	if x.Gt(symbolic.Const(0)).Branch() {
		r = r.Add(symbolic.Const(1))
	}
	if y.Gt(symbolic.Const(0)).Branch() {
		r = r.Add(symbolic.Const(2))
	}
	return r
}
