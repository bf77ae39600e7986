package symbolic

import (
	"fmt"
	"strings"

	"github.com/borzacchiello/goconcolic/smt"
)

// Predicate is one decision point: a condition and the branch that was taken.
type Predicate struct {
	Cond  *smt.BoolExprPtr
	Taken bool

	not *smt.BoolExprPtr
}

// PredicateKey identifies a predicate within one ExprBuilder.
type PredicateKey struct {
	Id    uint64
	Taken bool
}

func NewPredicate(eb *smt.ExprBuilder, cond *smt.BoolExprPtr, taken bool) Predicate {
	return Predicate{Cond: cond, Taken: taken, not: eb.BoolNot(cond)}
}

// Expr is Cond when the branch was taken and its negation otherwise.
func (p Predicate) Expr() *smt.BoolExprPtr {
	if p.Taken {
		return p.Cond
	}
	return p.not
}

func (p Predicate) Negated() Predicate {
	return Predicate{Cond: p.Cond, Taken: !p.Taken, not: p.not}
}

func (p Predicate) Key() PredicateKey {
	return PredicateKey{Id: p.Cond.Id(), Taken: p.Taken}
}

func (p Predicate) String() string {
	return p.Expr().String()
}

// Trace is the ordered list of predicates recorded during one run.
type Trace []Predicate

func (t Trace) String() string {
	parts := make([]string, 0, len(t))
	for _, p := range t {
		parts = append(parts, fmt.Sprintf("[%s]", p))
	}
	return strings.Join(parts, " && ")
}
