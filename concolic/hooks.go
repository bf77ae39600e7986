package concolic

import (
	"context"
	"time"
)

// QueryKind tells which step issued a solver query.
type QueryKind string

const (
	QueryBranch     QueryKind = "branch"
	QueryDeviation  QueryKind = "deviation"
	QueryDivergence QueryKind = "divergence"
)

// QueryOutcome is the oracle's answer as seen by the engine.
type QueryOutcome string

const (
	OutcomeSat   QueryOutcome = "sat"
	OutcomeUnsat QueryOutcome = "unsat"
	OutcomeError QueryOutcome = "error"
)

// QueryEvent describes one oracle call.
type QueryEvent struct {
	Kind     QueryKind     `json:"kind"`
	Outcome  QueryOutcome  `json:"outcome"`
	Duration time.Duration `json:"duration"`
}

// Hooks are optional callbacks for observability. Any field may be nil.
type Hooks struct {
	OnExecution  func(context.Context, *ExecutionRecord)
	OnQuery      func(context.Context, *QueryEvent)
	OnConstraint func(context.Context, *Constraint)
	OnVerdict    func(context.Context, *CheckReport)
}

func (h Hooks) execution(ctx context.Context, rec *ExecutionRecord) {
	if h.OnExecution != nil {
		h.OnExecution(ctx, rec)
	}
}

func (h Hooks) query(ctx context.Context, kind QueryKind, sat bool, err error, start time.Time) {
	if h.OnQuery == nil {
		return
	}
	ev := &QueryEvent{Kind: kind, Outcome: OutcomeUnsat, Duration: time.Since(start)}
	switch {
	case err != nil:
		ev.Outcome = OutcomeError
	case sat:
		ev.Outcome = OutcomeSat
	}
	h.OnQuery(ctx, ev)
}

func (h Hooks) constraint(ctx context.Context, c *Constraint) {
	if h.OnConstraint != nil {
		h.OnConstraint(ctx, c)
	}
}

func (h Hooks) verdict(ctx context.Context, r *CheckReport) {
	if h.OnVerdict != nil {
		h.OnVerdict(ctx, r)
	}
}

// ComposeHooks calls every non-nil callback of hs in order.
func ComposeHooks(hs ...Hooks) Hooks {
	return Hooks{
		OnExecution: func(ctx context.Context, rec *ExecutionRecord) {
			for _, h := range hs {
				h.execution(ctx, rec)
			}
		},
		OnQuery: func(ctx context.Context, ev *QueryEvent) {
			for _, h := range hs {
				if h.OnQuery != nil {
					h.OnQuery(ctx, ev)
				}
			}
		},
		OnConstraint: func(ctx context.Context, c *Constraint) {
			for _, h := range hs {
				h.constraint(ctx, c)
			}
		},
		OnVerdict: func(ctx context.Context, r *CheckReport) {
			for _, h := range hs {
				h.verdict(ctx, r)
			}
		},
	}
}
