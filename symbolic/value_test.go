package symbolic

import (
	"math"
	"testing"

	"github.com/borzacchiello/goconcolic/smt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalInt checks that the expression of x agrees with its concrete value
// under the given assignment.
func evalInt(t *testing.T, eb *smt.ExprBuilder, x Int, model smt.Model) int64 {
	t.Helper()
	c, err := eb.EvalBV(x.Expr(eb), model)
	require.NoError(t, err)
	return c.AsLong()
}

func TestConcreteArithmetic(t *testing.T) {
	a, b := Const(7), Const(-2)

	assert.Equal(t, int64(5), a.Add(b).Concrete())
	assert.Equal(t, int64(9), a.Sub(b).Concrete())
	assert.Equal(t, int64(-14), a.Mul(b).Concrete())
	assert.Equal(t, int64(-3), a.Div(b).Concrete())
	assert.Equal(t, int64(1), a.Rem(b).Concrete())
	assert.False(t, a.Add(b).IsSymbolic())
	assert.True(t, a.Gt(b).Branch())
}

func TestDivisionEdgeCases(t *testing.T) {
	assert.Equal(t, int64(-1), Const(5).Div(Const(0)).Concrete())
	assert.Equal(t, int64(1), Const(-5).Div(Const(0)).Concrete())
	assert.Equal(t, int64(-5), Const(-5).Rem(Const(0)).Concrete())
	assert.Equal(t, int64(math.MinInt64), Const(math.MinInt64).Div(Const(-1)).Concrete())
	assert.Equal(t, int64(0), Const(math.MinInt64).Rem(Const(-1)).Concrete())
	assert.Equal(t, int64(math.MinInt64), Const(math.MinInt64).Neg().Concrete())
}

func TestShifts(t *testing.T) {
	assert.Equal(t, int64(0), Const(1).Shl(Const(64)).Concrete())
	assert.Equal(t, int64(-1), Const(-8).AShr(Const(100)).Concrete())
	assert.Equal(t, int64(1), Const(-1).LShr(Const(63)).Concrete())
	assert.Equal(t, int64(0), Const(-1).LShr(Const(-1)).Concrete())
}

func TestSymbolicAgreesWithConcrete(t *testing.T) {
	eb := smt.NewExprBuilder()
	p := NewPath(eb)

	values := []int64{math.MinInt64, -7, -1, 0, 1, 3, 64, math.MaxInt64}
	for _, av := range values {
		for _, bv := range values {
			a := p.Bind(Input{Name: "a", Value: av, Symbolic: true})
			b := p.Bind(Input{Name: "b", Value: bv, Symbolic: true})
			model := smt.Model{"a": smt.MakeBVConst(av, Width), "b": smt.MakeBVConst(bv, Width)}

			results := []Int{
				a.Add(b), a.Sub(b), a.Mul(b), a.Div(b), a.Rem(b),
				a.And(b), a.Or(b), a.Xor(b), a.Shl(b), a.AShr(b), a.LShr(b),
				a.Neg(), a.Not(), Ite(a.Lt(b), a, b), FromBool(a.Ge(b)),
			}
			for i, r := range results {
				assert.Equal(t, r.Concrete(), evalInt(t, eb, r, model), "op %d on a=%d b=%d", i, av, bv)
			}

			for i, c := range []Bool{a.Lt(b), a.Le(b), a.Gt(b), a.Ge(b), a.Eq(b), a.Ne(b)} {
				v, err := eb.EvalBool(c.Expr(eb), model)
				require.NoError(t, err)
				assert.Equal(t, c.Concrete(), v, "cmp %d on a=%d b=%d", i, av, bv)
			}
		}
	}
}

func TestConstantFoldingDropsSymbol(t *testing.T) {
	eb := smt.NewExprBuilder()
	p := NewPath(eb)
	a := p.Bind(Input{Name: "a", Value: 4, Symbolic: true})

	zero := a.Sub(a)
	assert.False(t, zero.IsSymbolic())
	assert.Equal(t, int64(0), zero.Concrete())

	assert.False(t, a.Eq(a).IsSymbolic())
	assert.True(t, a.Mul(Const(2)).IsSymbolic())
}

func TestBoolCombinators(t *testing.T) {
	eb := smt.NewExprBuilder()
	p := NewPath(eb)
	a := p.Bind(Input{Name: "a", Value: 4, Symbolic: true})

	inRange := a.Ge(Const(0)).And(a.Lt(Const(10)))
	assert.True(t, inRange.Concrete())
	assert.True(t, inRange.IsSymbolic())

	outside := inRange.Not()
	assert.False(t, outside.Concrete())

	either := outside.Or(ConstBool(true))
	assert.True(t, either.Concrete())
	assert.False(t, either.IsSymbolic())
}
