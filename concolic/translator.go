package concolic

import (
	"fmt"

	"github.com/borzacchiello/goconcolic/smt"
	"github.com/borzacchiello/goconcolic/symbolic"
)

// Translator converts between traces, symbolic values, solver formulas and
// solver models. All expressions come from one ExprBuilder.
type Translator struct {
	eb *smt.ExprBuilder
}

func NewTranslator(eb *smt.ExprBuilder) *Translator {
	return &Translator{eb: eb}
}

func (t *Translator) Builder() *smt.ExprBuilder {
	return t.eb
}

// TraceToFormula is the conjunction of the predicates of trace.
func (t *Translator) TraceToFormula(trace symbolic.Trace) (*smt.BoolExprPtr, error) {
	res := t.eb.BoolVal(true)
	for i, p := range trace {
		if p.Cond == nil || p.Expr() == nil {
			return nil, fmt.Errorf("%w: predicate %d has no condition", ErrMalformedTrace, i)
		}
		res = t.eb.BoolAnd(res, p.Expr())
	}
	return res, nil
}

// SymbolToQueryExpr is the solver expression standing for v.
func (t *Translator) SymbolToQueryExpr(v symbolic.Int) *smt.BVExprPtr {
	return v.Expr(t.eb)
}

// ModelToInputs lists every input of base in declaration order, taking the
// value from the model when the model binds it.
func (t *Translator) ModelToInputs(model smt.Model, base symbolic.InputMap) symbolic.Assignments {
	return t.ApplyModel(model, base).Assignments()
}

// ApplyModel point-updates base with the model values of its symbolic
// inputs. Inputs the model does not bind keep their value.
func (t *Translator) ApplyModel(model smt.Model, base symbolic.InputMap) symbolic.InputMap {
	res := base
	for _, name := range base.Names() {
		in, _ := base.Get(name)
		c, ok := model[name]
		if !ok || !in.Symbolic {
			continue
		}
		in.Value = c.AsLong()
		res = res.With(in)
	}
	return res
}

// DeviationFormula holds when exactly one of the two path conditions does.
func (t *Translator) DeviationFormula(pcA, pcB *smt.BoolExprPtr) *smt.BoolExprPtr {
	aNotB := t.eb.BoolAnd(pcA, t.eb.BoolNot(pcB))
	bNotA := t.eb.BoolAnd(pcB, t.eb.BoolNot(pcA))
	return t.eb.BoolOr(aNotB, bNotA)
}

// DivergenceFormula holds when both paths are followed and the results
// differ.
func (t *Translator) DivergenceFormula(retA, retB symbolic.Int, pcA, pcB *smt.BoolExprPtr) (*smt.BoolExprPtr, error) {
	ne, err := t.eb.NEq(t.SymbolToQueryExpr(retA), t.SymbolToQueryExpr(retB))
	if err != nil {
		return nil, err
	}
	return t.eb.Conjunction(ne, pcA, pcB), nil
}
