package smt

import (
	"errors"
	"testing"
)

func TestEval1(t *testing.T) {
	eb := NewExprBuilder()
	a := eb.BVS("a", 32)
	b := eb.BVS("b", 32)

	interpr := make(Model)
	interpr["a"] = MakeBVConst(42, 32)

	e, _ := eb.Add(a, b)
	evaluated, err := eb.Eval(e, interpr)
	if isErr(t, err) {
		return
	}
	if evaluated.String() != "b + 0x2a" {
		t.Errorf("invalid eval %s", evaluated.String())
	}
}

func TestEvalBool(t *testing.T) {
	eb := NewExprBuilder()
	a := eb.BVS("a", 64)
	b := eb.BVS("b", 64)

	diff, _ := eb.Sub(a, b)
	cond, _ := eb.SGt(diff, eb.BVV(10, 64))

	v, err := eb.EvalBool(cond, Model{"a": MakeBVConst(20, 64), "b": MakeBVConst(-1, 64)})
	if isErr(t, err) {
		return
	}
	if !v {
		t.Error("20 - (-1) > 10 should hold")
	}

	_, err = eb.EvalBool(cond, Model{"a": MakeBVConst(20, 64)})
	if !errors.Is(err, ErrPartialModel) {
		t.Errorf("expected partial model error, got %v", err)
	}
}

func TestEvalBV(t *testing.T) {
	eb := NewExprBuilder()
	a := eb.BVS("a", 64)

	e, _ := eb.SRem(a, eb.BVV(0, 64))
	c, err := eb.EvalBV(e, Model{"a": MakeBVConst(-9, 64)})
	if isErr(t, err) {
		return
	}
	if c.AsLong() != -9 {
		t.Errorf("a s%% 0 should be a, got %s", c)
	}

	g, _ := eb.SLt(a, eb.BVV(0, 64))
	ite, _ := eb.ITE(g, eb.Neg(a), a)
	c, err = eb.EvalBV(ite, Model{"a": MakeBVConst(-9, 64)})
	if isErr(t, err) {
		return
	}
	if c.AsLong() != 9 {
		t.Errorf("abs(-9) should be 9, got %s", c)
	}
}

func TestEvalSizeMismatch(t *testing.T) {
	eb := NewExprBuilder()
	a := eb.BVS("a", 64)

	_, err := eb.Eval(a, Model{"a": MakeBVConst(1, 32)})
	if err == nil {
		t.Error("should reject a value of the wrong size")
	}
}
