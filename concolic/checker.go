package concolic

import (
	"context"
	"slices"
	"time"

	"github.com/borzacchiello/goconcolic/invocation"
	"github.com/borzacchiello/goconcolic/logging"
	"github.com/borzacchiello/goconcolic/smt"
	"github.com/borzacchiello/goconcolic/symbolic"
)

type CheckerOption func(*Checker)

func WithCheckerLogger(l *logging.Logger) CheckerOption {
	return func(c *Checker) {
		c.logger = l
	}
}

func WithCheckerHooks(h Hooks) CheckerOption {
	return func(c *Checker) {
		c.hooks = h
	}
}

// WithStopOnFirstFinding ends the check at the first finding instead of
// going through every input.
func WithStopOnFirstFinding(stop bool) CheckerOption {
	return func(c *Checker) {
		c.stopOnFirst = stop
	}
}

// WithPriorFindings starts every report with findings made before the
// check, such as constraints the exploration could not decide. They count
// towards the verdict but do not trigger WithStopOnFirstFinding.
func WithPriorFindings(findings ...Finding) CheckerOption {
	return func(c *Checker) {
		c.prior = append(c.prior, findings...)
	}
}

// Checker compares a candidate implementation against a reference.
type Checker struct {
	reference  *invocation.Invocation
	candidate  *invocation.Invocation
	oracle     Oracle
	translator *Translator

	stopOnFirst bool
	prior       []Finding
	logger      *logging.Logger
	hooks       Hooks
}

// NewChecker requires both implementations to share the expression builder
// and the parameter list, so that a parameter is the same free variable in
// both path conditions.
func NewChecker(reference, candidate *invocation.Invocation, oracle Oracle, opts ...CheckerOption) (*Checker, error) {
	if reference == nil || candidate == nil {
		return nil, ErrNilInvocation
	}
	if oracle == nil {
		return nil, ErrNilOracle
	}
	if reference.Builder() != candidate.Builder() {
		return nil, ErrBuilderMismatch
	}
	if !slices.Equal(reference.ParameterNames(), candidate.ParameterNames()) {
		return nil, ErrParameterMismatch
	}

	c := &Checker{
		reference:  reference,
		candidate:  candidate,
		oracle:     oracle,
		translator: NewTranslator(reference.Builder()),
		logger:     logging.GlobalLogger.NewSubLogger(logging.SERVICE_KEY, logging.CHECKER_SERVICE),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// pairRun holds the runs of both implementations on one input.
type pairRun struct {
	inputs symbolic.InputMap
	ref    invocation.Result
	cand   invocation.Result
	pcRef  *smt.BoolExprPtr
	pcCand *smt.BoolExprPtr
}

func (r *pairRun) differ() bool {
	return r.ref.Outcome() != r.cand.Outcome()
}

func (r *pairRun) counterexample(stage Stage) *Counterexample {
	return &Counterexample{
		Stage:     stage,
		Input:     r.inputs.Assignments(),
		Reference: r.ref.Outcome(),
		Candidate: r.cand.Outcome(),
	}
}

func (c *Checker) runOne(ctx context.Context, inv *invocation.Invocation, inputs symbolic.InputMap) (invocation.Result, *smt.BoolExprPtr, error) {
	res, trace, err := inv.Call(inputs)
	if err != nil {
		return res, nil, err
	}
	pc, err := c.translator.TraceToFormula(trace)
	if err != nil {
		return res, nil, err
	}
	c.hooks.execution(ctx, &ExecutionRecord{
		Function:      inv.Name(),
		Inputs:        inputs.Assignments(),
		Result:        res,
		Trace:         trace,
		PathCondition: pc,
	})
	return res, pc, nil
}

func (c *Checker) runBoth(ctx context.Context, inputs symbolic.InputMap) (*pairRun, error) {
	r := &pairRun{inputs: inputs}
	var err error
	if r.ref, r.pcRef, err = c.runOne(ctx, c.reference, inputs); err != nil {
		return nil, err
	}
	if r.cand, r.pcCand, err = c.runOne(ctx, c.candidate, inputs); err != nil {
		return nil, err
	}
	return r, nil
}

func (c *Checker) solve(ctx context.Context, kind QueryKind, formula *smt.BoolExprPtr) (smt.Model, bool, error) {
	start := time.Now()
	model, sat, err := c.oracle.Solve(formula)
	c.hooks.query(ctx, kind, sat, err, start)
	return model, sat, err
}

// Check runs the differential check over inputs. The context is checked
// between inputs; on cancellation the report covers the inputs checked so
// far and ctx's error is returned with it.
func (c *Checker) Check(ctx context.Context, inputs []GeneratedInput) (*CheckReport, error) {
	report := &CheckReport{
		Reference: c.reference.Name(),
		Candidate: c.candidate.Name(),
		Findings:  append(make([]Finding, 0, len(c.prior)), c.prior...),
	}

	var stopErr error
	for _, g := range inputs {
		if err := ctx.Err(); err != nil {
			stopErr = err
			break
		}
		if err := c.checkOne(ctx, g, report); err != nil {
			return nil, err
		}
		report.Checked++
		if report.Counterexample != nil || (c.stopOnFirst && len(report.Findings) > len(c.prior)) {
			break
		}
	}

	report.finalize()
	if report.Counterexample != nil {
		c.logger.Info("not equivalent: ", report.Counterexample.String(),
			logging.StructuredLogInfo{"stage": report.Counterexample.Stage})
	} else {
		c.logger.Info(report.Candidate, " vs ", report.Reference, ": ", report.Verdict,
			" after ", report.Checked, " inputs")
	}
	c.hooks.verdict(ctx, report)
	return report, stopErr
}

func (c *Checker) checkOne(ctx context.Context, g GeneratedInput, report *CheckReport) error {
	inputs := g.InputMap()
	run, err := c.runBoth(ctx, inputs)
	if err != nil {
		return err
	}
	if run.differ() {
		report.Counterexample = run.counterexample(StageGenerated)
		return nil
	}

	// Some input on one path but not on the other?
	model, sat, err := c.solve(ctx, QueryDeviation, c.translator.DeviationFormula(run.pcRef, run.pcCand))
	if err != nil {
		c.inconclusive(report, StageDeviation, g, err)
		return nil
	}
	if !sat {
		return nil
	}
	deviating := c.translator.ApplyModel(model, inputs)
	run, err = c.runBoth(ctx, deviating)
	if err != nil {
		return err
	}
	if run.differ() {
		report.Counterexample = run.counterexample(StageDeviation)
		return nil
	}

	// Both returned the same thing, or panicked the same way. A panic has no
	// value to compare symbolically.
	if run.ref.Panicked() || run.cand.Panicked() {
		return nil
	}

	// Same paths, different results?
	formula, err := c.translator.DivergenceFormula(run.ref.Value, run.cand.Value, run.pcRef, run.pcCand)
	if err != nil {
		return err
	}
	model, sat, err = c.solve(ctx, QueryDivergence, formula)
	if err != nil {
		c.inconclusive(report, StageDivergence, deviating.Assignments(), err)
		return nil
	}
	if !sat {
		return nil
	}
	diverging := c.translator.ApplyModel(model, deviating)
	run, err = c.runBoth(ctx, diverging)
	if err != nil {
		return err
	}
	if run.differ() {
		report.Counterexample = run.counterexample(StageDivergence)
		return nil
	}
	report.Findings = append(report.Findings, Finding{
		Kind:   FindingPossibleDivergence,
		Stage:  StageDivergence,
		Input:  diverging.Assignments(),
		Detail: "solver found diverging results that the concrete run did not reproduce",
	})
	c.logger.Warn("possible divergence on ", diverging.Assignments().String())
	return nil
}

func (c *Checker) inconclusive(report *CheckReport, stage Stage, g GeneratedInput, err error) {
	report.Findings = append(report.Findings, Finding{
		Kind:   FindingInconclusive,
		Stage:  stage,
		Input:  g,
		Detail: err.Error(),
	})
	c.logger.Warn("unable to decide ", string(stage), " query on ", g.String(), err)
}

// Replay runs both implementations on g and returns the counterexample when
// their outcomes differ, nil otherwise.
func (c *Checker) Replay(ctx context.Context, g GeneratedInput) (*Counterexample, error) {
	run, err := c.runBoth(ctx, g.InputMap())
	if err != nil {
		return nil, err
	}
	if !run.differ() {
		return nil, nil
	}
	return run.counterexample(StageReplay), nil
}
