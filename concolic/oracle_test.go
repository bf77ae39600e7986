//go:build !noz3

package concolic

import (
	"context"
	"math"
	"testing"

	"github.com/borzacchiello/goconcolic/smt"
	"github.com/borzacchiello/goconcolic/symbolic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOracle(t *testing.T) {
	eb := smt.NewExprBuilder()
	o, err := NewOracle("Z3", eb)
	require.NoError(t, err)
	assert.NotNil(t, o)

	_, err = NewOracle("cvc5", eb)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestSolverOracleFindCounterexample(t *testing.T) {
	eb := smt.NewExprBuilder()
	o := NewSolverOracle(eb)
	p, q := predicates(t, eb)

	// x > 0 ∧ x < 10
	m, sat, err := o.FindCounterexample([]symbolic.Predicate{p}, q)
	require.NoError(t, err)
	require.True(t, sat)
	x := m["x"].AsLong()
	assert.True(t, x > 0 && x < 10, "x=%d", x)

	// x > 0 ∧ x <= 0
	_, sat, err = o.FindCounterexample([]symbolic.Predicate{p}, p)
	require.NoError(t, err)
	assert.False(t, sat)
}

func TestSolverOracleSolve(t *testing.T) {
	eb := smt.NewExprBuilder()
	o := NewSolverOracle(eb)

	_, sat, err := o.Solve(eb.BoolVal(false))
	require.NoError(t, err)
	assert.False(t, sat)

	x := eb.BVS("x", symbolic.Width)
	half, err := eb.SDiv(x, eb.BVV(2, symbolic.Width))
	require.NoError(t, err)
	shift, err := eb.AShr(x, eb.BVV(1, symbolic.Width))
	require.NoError(t, err)
	ne, err := eb.NEq(half, shift)
	require.NoError(t, err)

	m, sat, err := o.Solve(ne)
	require.NoError(t, err)
	require.True(t, sat)
	v := m["x"].AsLong()
	assert.NotEqual(t, v/2, v>>1)
}

func TestCheckWithZ3(t *testing.T) {
	eb := smt.NewExprBuilder()
	ref := newInvocation(t, eb, "abs", absRef, "x")
	cand := newInvocation(t, eb, "saturating", absSaturating, "x")
	oracle := NewSolverOracle(eb)

	ex, err := NewExplorer(ref, oracle)
	require.NoError(t, err)
	res, err := ex.Explore(context.Background())
	require.NoError(t, err)
	require.True(t, res.Complete)

	c, err := NewChecker(ref, cand, oracle)
	require.NoError(t, err)
	report, err := c.Check(context.Background(), res.Inputs)
	require.NoError(t, err)

	// z3 may pick any negative x for the seed's sibling, so the difference
	// can surface at any stage
	require.Equal(t, VerdictNotEquivalent, report.Verdict)
	assert.Equal(t, int64(math.MinInt64), report.Counterexample.Input.Map()["x"])
}

func TestCheckMaxWithZ3(t *testing.T) {
	eb := smt.NewExprBuilder()
	ref := newInvocation(t, eb, "max", maxRef, "a", "b")
	cand := newInvocation(t, eb, "branchless", maxBranchless, "a", "b")
	oracle := NewSolverOracle(eb)

	ex, err := NewExplorer(ref, oracle)
	require.NoError(t, err)
	res, err := ex.Explore(context.Background())
	require.NoError(t, err)

	c, err := NewChecker(ref, cand, oracle)
	require.NoError(t, err)
	report, err := c.Check(context.Background(), res.Inputs)
	require.NoError(t, err)
	assert.Equal(t, VerdictEquivalent, report.Verdict)
}
