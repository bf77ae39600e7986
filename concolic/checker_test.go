package concolic

import (
	"context"
	"math"
	"testing"

	"github.com/borzacchiello/goconcolic/invocation"
	"github.com/borzacchiello/goconcolic/smt"
	"github.com/borzacchiello/goconcolic/symbolic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exploreAndCheck generates inputs from the reference and checks the
// candidate on them, as the grading service does.
func exploreAndCheck(t *testing.T, ref, cand invocation.Func, params ...string) (*CheckReport, *Checker) {
	t.Helper()
	eb := smt.NewExprBuilder()
	refInv := newInvocation(t, eb, "reference", ref, params...)
	candInv := newInvocation(t, eb, "candidate", cand, params...)
	oracle := newGridOracle(eb, params...)

	ex, err := NewExplorer(refInv, oracle)
	require.NoError(t, err)
	res, err := ex.Explore(context.Background())
	require.NoError(t, err)

	c, err := NewChecker(refInv, candInv, oracle)
	require.NoError(t, err)
	report, err := c.Check(context.Background(), res.Inputs)
	require.NoError(t, err)
	return report, c
}

// The saturating abs differs on MinInt64, which exploration
// generates to cover the negative branch.
func TestCheckAbsSaturating(t *testing.T) {
	report, c := exploreAndCheck(t, absRef, absSaturating, "x")

	assert.Equal(t, VerdictNotEquivalent, report.Verdict)
	require.NotNil(t, report.Counterexample)
	assert.Equal(t, StageGenerated, report.Counterexample.Stage)
	assert.Equal(t, int64(math.MinInt64), report.Counterexample.Input.Map()["x"])
	assert.Equal(t, "-9223372036854775808", report.Counterexample.Reference)
	assert.Equal(t, "9223372036854775807", report.Counterexample.Candidate)

	// replaying the counterexample reproduces it
	again, err := c.Replay(context.Background(), report.Counterexample.Input)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, report.Counterexample.Reference, again.Reference)
	assert.Equal(t, report.Counterexample.Candidate, again.Candidate)
	assert.Equal(t, StageReplay, again.Stage)
	assert.Equal(t, report.Counterexample.Input.Map(), again.Input.Map())
}

// A branchless max agrees with the branching one everywhere.
func TestCheckMaxBranchless(t *testing.T) {
	report, _ := exploreAndCheck(t, maxRef, maxBranchless, "a", "b")

	assert.Equal(t, VerdictEquivalent, report.Verdict)
	assert.Nil(t, report.Counterexample)
	assert.Empty(t, report.Findings)
	assert.Equal(t, 2, report.Checked)
}

func TestCheckDeviationStage(t *testing.T) {
	threshold := func(k int64) invocation.Func {
		return func(args invocation.Args) symbolic.Int {
			if args.Int("x").Gt(symbolic.Const(k)).Branch() {
				return symbolic.Const(1)
			}
			return symbolic.Const(0)
		}
	}
	eb := smt.NewExprBuilder()
	ref := newInvocation(t, eb, "gt2", threshold(2), "x")
	cand := newInvocation(t, eb, "gt3", threshold(3), "x")

	c, err := NewChecker(ref, cand, newGridOracle(eb, "x"))
	require.NoError(t, err)
	report, err := c.Check(context.Background(), []GeneratedInput{{{Name: "x", Value: 0}}})
	require.NoError(t, err)

	assert.Equal(t, VerdictNotEquivalent, report.Verdict)
	require.NotNil(t, report.Counterexample)
	assert.Equal(t, StageDeviation, report.Counterexample.Stage)
	assert.Equal(t, int64(3), report.Counterexample.Input.Map()["x"])
}

func TestCheckDivergenceStage(t *testing.T) {
	halve := func(args invocation.Args) symbolic.Int {
		x := args.Int("x")
		if x.Lt(symbolic.Const(0)).Branch() {
			return x.Div(symbolic.Const(2))
		}
		return x.Div(symbolic.Const(2))
	}
	shift := func(args invocation.Args) symbolic.Int {
		return args.Int("x").AShr(symbolic.Const(1))
	}
	eb := smt.NewExprBuilder()
	ref := newInvocation(t, eb, "halve", halve, "x")
	cand := newInvocation(t, eb, "shift", shift, "x")

	c, err := NewChecker(ref, cand, newGridOracle(eb, "x"))
	require.NoError(t, err)
	report, err := c.Check(context.Background(), []GeneratedInput{{{Name: "x", Value: 0}}})
	require.NoError(t, err)

	// MinInt64 is even, so the rerun after the deviation agrees and the
	// difference on odd negatives is found by the divergence query
	assert.Equal(t, VerdictNotEquivalent, report.Verdict)
	require.NotNil(t, report.Counterexample)
	assert.Equal(t, StageDivergence, report.Counterexample.Stage)
	assert.Equal(t, int64(-3), report.Counterexample.Input.Map()["x"])
	assert.Equal(t, "-1", report.Counterexample.Reference)
	assert.Equal(t, "-2", report.Counterexample.Candidate)
}

func TestCheckPanicIsAnOutcome(t *testing.T) {
	guarded := func(args invocation.Args) symbolic.Int {
		x := args.Int("x")
		if x.Eq(symbolic.Const(math.MinInt64)).Branch() {
			panic("overflow")
		}
		return absRef(args)
	}
	report, _ := exploreAndCheck(t, absRef, guarded, "x")

	assert.Equal(t, VerdictNotEquivalent, report.Verdict)
	require.NotNil(t, report.Counterexample)
	assert.Equal(t, "panic: overflow", report.Counterexample.Candidate)
}

func TestCheckPossibleDivergence(t *testing.T) {
	branching := func(args invocation.Args) symbolic.Int {
		x := args.Int("x")
		if x.Gt(symbolic.Const(0)).Branch() {
			return x
		}
		return x
	}
	identity := func(args invocation.Args) symbolic.Int {
		return args.Int("x")
	}
	eb := smt.NewExprBuilder()
	ref := newInvocation(t, eb, "branching", branching, "x")
	cand := newInvocation(t, eb, "identity", identity, "x")
	// claims every query is sat with a model on which both agree
	oracle := &scriptedOracle{model: modelOf(map[string]int64{"x": 0}), sat: true}

	var verdicts []Verdict
	hooks := Hooks{OnVerdict: func(_ context.Context, r *CheckReport) {
		verdicts = append(verdicts, r.Verdict)
	}}
	c, err := NewChecker(ref, cand, oracle, WithCheckerHooks(hooks))
	require.NoError(t, err)
	report, err := c.Check(context.Background(), []GeneratedInput{{{Name: "x", Value: 0}}})
	require.NoError(t, err)

	assert.Equal(t, VerdictPossiblyDivergent, report.Verdict)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, FindingPossibleDivergence, report.Findings[0].Kind)
	assert.Equal(t, 2, oracle.calls)
	assert.Equal(t, []Verdict{VerdictPossiblyDivergent}, verdicts)
}

func TestCheckOracleFailureIsInconclusive(t *testing.T) {
	eb := smt.NewExprBuilder()
	ref := newInvocation(t, eb, "abs", absRef, "x")
	cand := newInvocation(t, eb, "abs2", absRef, "x")
	oracle := &scriptedOracle{err: ErrOracleUnknown}

	c, err := NewChecker(ref, cand, oracle)
	require.NoError(t, err)
	inputs := []GeneratedInput{{{Name: "x", Value: 1}}, {{Name: "x", Value: -1}}}
	report, err := c.Check(context.Background(), inputs)
	require.NoError(t, err)

	assert.Equal(t, VerdictInconclusive, report.Verdict)
	assert.Len(t, report.Findings, 2)
	assert.Equal(t, 2, report.Checked)

	c, err = NewChecker(ref, cand, oracle, WithStopOnFirstFinding(true))
	require.NoError(t, err)
	report, err = c.Check(context.Background(), inputs)
	require.NoError(t, err)
	assert.Len(t, report.Findings, 1)
	assert.Equal(t, 1, report.Checked)
}

func TestCheckPriorFindings(t *testing.T) {
	eb := smt.NewExprBuilder()
	ref := newInvocation(t, eb, "max", maxRef, "a", "b")
	cand := newInvocation(t, eb, "branchless", maxBranchless, "a", "b")
	inputs := []GeneratedInput{
		{{Name: "a", Value: 0}, {Name: "b", Value: 0}},
		{{Name: "a", Value: -1}, {Name: "b", Value: 2}},
	}
	prior := Finding{Kind: FindingInconclusive, Stage: StageExploration, Detail: "1 constraints of the reference could not be decided"}

	c, err := NewChecker(ref, cand, newGridOracle(eb, "a", "b"))
	require.NoError(t, err)
	report, err := c.Check(context.Background(), inputs)
	require.NoError(t, err)
	assert.Equal(t, VerdictEquivalent, report.Verdict)

	// an agreeing check cannot clear what the exploration left open, and the
	// prior finding does not cut the check short
	c, err = NewChecker(ref, cand, newGridOracle(eb, "a", "b"),
		WithPriorFindings(prior), WithStopOnFirstFinding(true))
	require.NoError(t, err)
	report, err = c.Check(context.Background(), inputs)
	require.NoError(t, err)
	assert.Equal(t, VerdictInconclusive, report.Verdict)
	assert.Equal(t, []Finding{prior}, report.Findings)
	assert.Equal(t, 2, report.Checked)

	// a counterexample still wins over the prior finding
	absR := newInvocation(t, eb, "abs", absRef, "x")
	absC := newInvocation(t, eb, "sat", absSaturating, "x")
	c, err = NewChecker(absR, absC, newGridOracle(eb, "x"), WithPriorFindings(prior))
	require.NoError(t, err)
	report, err = c.Check(context.Background(), []GeneratedInput{{{Name: "x", Value: math.MinInt64}}})
	require.NoError(t, err)
	assert.Equal(t, VerdictNotEquivalent, report.Verdict)
	assert.Equal(t, prior, report.Findings[0])
}

func TestReplayAgreeingInput(t *testing.T) {
	eb := smt.NewExprBuilder()
	ref := newInvocation(t, eb, "abs", absRef, "x")
	cand := newInvocation(t, eb, "sat", absSaturating, "x")
	c, err := NewChecker(ref, cand, newGridOracle(eb, "x"))
	require.NoError(t, err)

	ce, err := c.Replay(context.Background(), GeneratedInput{{Name: "x", Value: -4}})
	require.NoError(t, err)
	assert.Nil(t, ce)
}

func TestNewCheckerValidates(t *testing.T) {
	eb := smt.NewExprBuilder()
	ref := newInvocation(t, eb, "abs", absRef, "x")

	other := newInvocation(t, smt.NewExprBuilder(), "abs", absRef, "x")
	_, err := NewChecker(ref, other, newGridOracle(eb, "x"))
	assert.ErrorIs(t, err, ErrBuilderMismatch)

	renamed := newInvocation(t, eb, "abs", absRef, "y")
	_, err = NewChecker(ref, renamed, newGridOracle(eb, "x"))
	assert.ErrorIs(t, err, ErrParameterMismatch)

	_, err = NewChecker(ref, nil, newGridOracle(eb, "x"))
	assert.ErrorIs(t, err, ErrNilInvocation)
	_, err = NewChecker(ref, ref, nil)
	assert.ErrorIs(t, err, ErrNilOracle)
}

func TestCheckCancelled(t *testing.T) {
	eb := smt.NewExprBuilder()
	ref := newInvocation(t, eb, "abs", absRef, "x")
	c, err := NewChecker(ref, ref, newGridOracle(eb, "x"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := c.Check(ctx, []GeneratedInput{{{Name: "x", Value: 1}}})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, 0, report.Checked)
	assert.Equal(t, VerdictEquivalent, report.Verdict)
}
