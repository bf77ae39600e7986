package concolic

import (
	"fmt"
)

type Verdict string

const (
	// VerdictEquivalent means no input showed a difference. It is relative to
	// the inputs checked and is not a proof.
	VerdictEquivalent Verdict = "equivalent"
	// VerdictNotEquivalent is always backed by a concrete counterexample.
	VerdictNotEquivalent Verdict = "not_equivalent"
	// VerdictPossiblyDivergent means the solver found a divergence that the
	// concrete rerun did not confirm.
	VerdictPossiblyDivergent Verdict = "possibly_divergent"
	// VerdictInconclusive means some query could not be decided.
	VerdictInconclusive Verdict = "inconclusive"
)

// Stage tells which step of the check produced a counterexample or finding.
type Stage string

const (
	StageGenerated  Stage = "generated"
	StageDeviation  Stage = "deviation"
	StageDivergence Stage = "divergence"
	// StageExploration marks findings about the exploration that generated
	// the inputs.
	StageExploration Stage = "exploration"
	// StageReplay marks a counterexample reproduced by Checker.Replay.
	StageReplay Stage = "replay"
)

// Counterexample is an input on which the two implementations disagree.
type Counterexample struct {
	Stage     Stage          `json:"stage"`
	Input     GeneratedInput `json:"input"`
	Reference string         `json:"reference"`
	Candidate string         `json:"candidate"`
}

func (c *Counterexample) String() string {
	return fmt.Sprintf("on (%s): reference returned %s, candidate returned %s", c.Input, c.Reference, c.Candidate)
}

type FindingKind string

const (
	FindingPossibleDivergence FindingKind = "possible_divergence"
	FindingInconclusive       FindingKind = "inconclusive"
)

// Finding is a non fatal observation made while checking one input.
type Finding struct {
	Kind   FindingKind    `json:"kind"`
	Stage  Stage          `json:"stage"`
	Input  GeneratedInput `json:"input"`
	Detail string         `json:"detail,omitempty"`
}

type CheckReport struct {
	Reference      string          `json:"reference"`
	Candidate      string          `json:"candidate"`
	Verdict        Verdict         `json:"verdict"`
	Counterexample *Counterexample `json:"counterexample,omitempty"`
	Findings       []Finding       `json:"findings"`
	// Checked is the number of generated inputs fully processed.
	Checked int `json:"checked"`
}

// finalize sets the verdict from the counterexample and the findings.
func (r *CheckReport) finalize() {
	if r.Counterexample != nil {
		r.Verdict = VerdictNotEquivalent
		return
	}
	r.Verdict = VerdictEquivalent
	for _, f := range r.Findings {
		if f.Kind == FindingPossibleDivergence {
			r.Verdict = VerdictPossiblyDivergent
			return
		}
		if f.Kind == FindingInconclusive {
			r.Verdict = VerdictInconclusive
		}
	}
}
