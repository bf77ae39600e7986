package smt

import (
	"testing"
)

func isErr(t *testing.T, err error) bool {
	if err != nil {
		t.Error(err)
		return true
	}
	return false
}

func TestCache1(t *testing.T) {
	eb := NewExprBuilder()

	s1 := eb.BVS("s1", 64)
	s2 := eb.BVS("s2", 64)
	e, err := eb.Add(s1, s2)
	if isErr(t, err) {
		return
	}

	ss1 := eb.BVS("s1", 64)
	if s1.Id() != ss1.Id() {
		t.Error("should be the same object")
		return
	}
	ee, _ := eb.Add(ss1, s2)
	if e.Id() != ee.Id() {
		t.Error("should be the same object")
		return
	}

	ee, _ = eb.Add(s2, ss1)
	if e.Id() != ee.Id() {
		t.Error("add should be canonical w.r.t. operand order")
		return
	}

	if eb.BVS("s1", 32).Id() == s1.Id() {
		t.Error("symbols of different sizes should differ")
		return
	}
}

func TestCacheStats(t *testing.T) {
	eb := NewExprBuilder()
	eb.BVS("a", 64)
	eb.BVS("a", 64)

	stats := eb.Stats()
	if stats.CacheHits != 1 || stats.CachedBVs != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestAddConst(t *testing.T) {
	eb := NewExprBuilder()

	e, err := eb.Add(eb.BVV(40, 64), eb.BVV(2, 64))
	if isErr(t, err) {
		return
	}
	c, err := e.GetConst()
	if isErr(t, err) {
		return
	}
	if c.AsLong() != 42 {
		t.Errorf("expected 42, got %s", c)
	}
}

func TestAddOpposite(t *testing.T) {
	eb := NewExprBuilder()
	a := eb.BVS("a", 64)
	b := eb.BVS("b", 64)

	e, err := eb.Add(a, b)
	if isErr(t, err) {
		return
	}
	e, err = eb.Sub(e, a)
	if isErr(t, err) {
		return
	}
	if e.Id() != b.Id() {
		t.Errorf("a + b - a should simplify to b, got %s", e)
	}
}

func TestNotNot(t *testing.T) {
	eb := NewExprBuilder()
	a := eb.BVS("a", 64)

	if eb.Not(eb.Not(a)).Id() != a.Id() {
		t.Error("~~a should be a")
	}
	if eb.Neg(eb.Neg(a)).Id() != a.Id() {
		t.Error("--a should be a")
	}
}

func TestShiftConst(t *testing.T) {
	eb := NewExprBuilder()

	e, err := eb.AShr(eb.BVV(-16, 64), eb.BVV(2, 64))
	if isErr(t, err) {
		return
	}
	c, _ := e.GetConst()
	if c.AsLong() != -4 {
		t.Errorf("-16 a>> 2 should be -4, got %s", c)
	}

	e, err = eb.AShr(eb.BVV(-16, 64), eb.BVV(100, 64))
	if isErr(t, err) {
		return
	}
	c, _ = e.GetConst()
	if c.AsLong() != -1 {
		t.Errorf("-16 a>> 100 should be -1, got %s", c)
	}

	a := eb.BVS("a", 64)
	e, err = eb.Shl(a, eb.BVV(64, 64))
	if isErr(t, err) {
		return
	}
	if !e.IsZero() {
		t.Errorf("a << 64 should be zero, got %s", e)
	}
}

func TestSDivConst(t *testing.T) {
	eb := NewExprBuilder()

	e, err := eb.SDiv(eb.BVV(-7, 64), eb.BVV(0, 64))
	if isErr(t, err) {
		return
	}
	c, _ := e.GetConst()
	if c.AsLong() != 1 {
		t.Errorf("-7 s/ 0 should be 1, got %s", c)
	}

	a := eb.BVS("a", 64)
	e, err = eb.SDiv(a, a)
	if isErr(t, err) {
		return
	}
	if e.IsConst() {
		t.Error("a s/ a is not constant when a can be zero")
	}
}

func TestCmpFold(t *testing.T) {
	eb := NewExprBuilder()
	a := eb.BVS("a", 64)

	e, err := eb.SLe(a, a)
	if isErr(t, err) {
		return
	}
	if v, err := e.GetConst(); err != nil || !v {
		t.Error("a <= a should be true")
	}

	e, err = eb.SLt(eb.BVV(-1, 64), eb.BVV(0, 64))
	if isErr(t, err) {
		return
	}
	if v, err := e.GetConst(); err != nil || !v {
		t.Error("-1 < 0 should be true")
	}
}

func TestBoolNot(t *testing.T) {
	eb := NewExprBuilder()
	a := eb.BVS("a", 64)
	b := eb.BVS("b", 64)

	lt, _ := eb.SLt(a, b)
	ge, _ := eb.SGe(a, b)
	if eb.BoolNot(lt).Id() != ge.Id() {
		t.Error("!(a < b) should be a >= b")
	}

	eq, _ := eb.Eq(a, b)
	if eb.BoolNot(eb.BoolNot(eq)).Id() != eq.Id() {
		t.Error("double negation should cancel")
	}

	and := eb.BoolAnd(lt, eq)
	not := eb.BoolNot(and)
	if not.Kind() != TY_BOOL_OR {
		t.Errorf("De Morgan should produce an or, got %s", not)
	}
}

func TestBoolAndCanonical(t *testing.T) {
	eb := NewExprBuilder()
	a := eb.BVS("a", 64)
	b := eb.BVS("b", 64)

	p1, _ := eb.SLt(a, b)
	p2, _ := eb.Eq(a, eb.BVV(3, 64))

	x := eb.BoolAnd(p1, p2)
	y := eb.BoolAnd(p2, p1)
	if x.Id() != y.Id() {
		t.Error("conjunction should not depend on the order")
	}
	if eb.BoolAnd(x, p1).Id() != x.Id() {
		t.Error("repeated conjunct should be dropped")
	}
	if eb.Conjunction().Id() != eb.BoolVal(true).Id() {
		t.Error("empty conjunction should be true")
	}
}

func TestITE(t *testing.T) {
	eb := NewExprBuilder()
	a := eb.BVS("a", 64)

	e, err := eb.ITE(eb.BoolVal(true), a, eb.BVV(0, 64))
	if isErr(t, err) {
		return
	}
	if e.Id() != a.Id() {
		t.Error("ITE with a true guard should pick the first branch")
	}

	g, _ := eb.SLt(a, eb.BVV(0, 64))
	e, err = eb.ITE(g, a, a)
	if isErr(t, err) {
		return
	}
	if e.Id() != a.Id() {
		t.Error("ITE with equal branches should collapse")
	}
}

func TestInvolvedInputs(t *testing.T) {
	eb := NewExprBuilder()
	a := eb.BVS("a", 64)
	b := eb.BVS("b", 64)

	e, _ := eb.Add(a, eb.BVV(1, 64))
	e, _ = eb.Mul(e, b)
	cmp, _ := eb.SLt(e, a)

	syms := eb.InvolvedInputs(cmp)
	if len(syms) != 2 {
		t.Errorf("expected two inputs, got %d", len(syms))
		return
	}
	if n, _ := syms[0].Name(); n != "a" {
		t.Errorf("expected a first, got %s", n)
	}
	if n, _ := syms[1].Name(); n != "b" {
		t.Errorf("expected b second, got %s", n)
	}
}
