package symbolic

import (
	"github.com/borzacchiello/goconcolic/smt"
)

// Path records the branches taken by symbolic values during a single run.
// A Path is reused across runs: Begin, run the target, then Drain.
type Path struct {
	eb     *smt.ExprBuilder
	active bool
	trace  Trace
}

func NewPath(eb *smt.ExprBuilder) *Path {
	return &Path{eb: eb}
}

func (p *Path) Builder() *smt.ExprBuilder {
	return p.eb
}

func (p *Path) Active() bool {
	return p.active
}

// Begin activates the path for a new run. The trace of the previous run must
// have been drained.
func (p *Path) Begin() error {
	if p.active || len(p.trace) > 0 {
		return ErrTraceNotDrained
	}
	p.active = true
	return nil
}

// Drain ends the run and moves the recorded trace out, leaving the path empty.
func (p *Path) Drain() Trace {
	t := p.trace
	p.trace = nil
	p.active = false
	return t
}

// Bind turns an input into a value: symbolic inputs become the free variable
// named after the parameter.
func (p *Path) Bind(in Input) Int {
	if !in.Symbolic {
		return Const(in.Value)
	}
	return Int{v: in.Value, expr: p.eb.BVS(in.Name, Width), p: p}
}

func (p *Path) record(cond *smt.BoolExprPtr, taken bool) {
	if !p.active {
		panic(ErrInactivePath)
	}
	p.trace = append(p.trace, NewPredicate(p.eb, cond, taken))
}
