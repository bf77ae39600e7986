//go:build !noz3

package smt

import (
	"testing"
)

func TestSolverSat1(t *testing.T) {
	eb := NewExprBuilder()
	s := NewSolver(eb)

	a := eb.BVS("a", 64)
	e, _ := eb.SLe(a, eb.BVV(42, 64))
	s.Add(e)

	e, _ = eb.SGe(a, eb.BVV(21, 64))
	sat := s.CheckSat(e)
	if sat != RESULT_SAT {
		t.Error("should be sat")
		return
	}

	m := s.Model()
	if _, ok := m["a"]; !ok {
		t.Error("unable to find the assignment")
		return
	}
}

func TestSolverUnsat(t *testing.T) {
	eb := NewExprBuilder()
	s := NewSolver(eb)

	a := eb.BVS("a", 64)
	e, _ := eb.SLt(a, eb.BVV(0, 64))
	s.Add(e)

	e, _ = eb.SGt(a, eb.BVV(5, 64))
	if s.CheckSat(e) != RESULT_UNSAT {
		t.Error("should be unsat")
	}
}

func TestSolverSlicing(t *testing.T) {
	eb := NewExprBuilder()
	s := NewSolver(eb)

	a := eb.BVS("a", 64)
	b := eb.BVS("b", 64)
	e, _ := eb.Eq(b, eb.BVV(3, 64))
	s.Add(e)

	e, _ = eb.Eq(a, eb.BVV(7, 64))
	if s.CheckSat(e) != RESULT_SAT {
		t.Error("should be sat")
		return
	}
	m := s.Model()
	if _, ok := m["b"]; ok {
		t.Error("b is unrelated to the query and should not be in the model")
	}
	if m["a"].AsLong() != 7 {
		t.Errorf("expected a = 7, got %s", m["a"])
	}
}

func TestSolverEval1(t *testing.T) {
	eb := NewExprBuilder()
	s := NewSolver(eb)

	a := eb.BVS("a", 64)
	e, _ := eb.SLe(a, eb.BVV(42, 64))
	s.Add(e)

	e, _ = eb.SGe(a, eb.BVV(21, 64))
	s.Add(e)

	aVal := s.Eval(a).AsLong()
	if aVal > 42 || aVal < 21 {
		t.Error("invalid eval value")
		return
	}
}

func TestSolverEval2(t *testing.T) {
	eb := NewExprBuilder()
	s := NewSolver(eb)

	a := eb.BVS("a", 64)
	e, _ := eb.SLe(a, eb.BVV(42, 64))
	s.Add(e)

	e, _ = eb.SGe(a, eb.BVV(21, 64))
	s.Add(e)

	vals := s.EvalUpto(a, 128)
	if len(vals) != 42-21+1 {
		t.Error("unable to find all values")
		return
	}
}

func TestSolverDivisionSemantics(t *testing.T) {
	eb := NewExprBuilder()
	s := NewSolver(eb)

	a := eb.BVS("a", 64)
	d, _ := eb.SDiv(a, eb.BVS("z", 64))
	zero, _ := eb.Eq(eb.BVS("z", 64), eb.BVV(0, 64))
	s.Add(zero)
	pos, _ := eb.SGt(a, eb.BVV(0, 64))
	s.Add(pos)

	q, _ := eb.NEq(d, eb.BVV(-1, 64))
	if s.CheckSat(q) != RESULT_UNSAT {
		t.Error("positive s/ 0 should always be -1")
	}
}
