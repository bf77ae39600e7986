package programs

import (
	"math"

	"github.com/borzacchiello/goconcolic/invocation"
	"github.com/borzacchiello/goconcolic/symbolic"
)

var (
	zero = symbolic.Const(0)
	one  = symbolic.Const(1)
)

func init() {
	register(&Program{
		Name:        "abs",
		Description: "absolute value, wrapping on the minimum integer",
		Params:      []string{"x"},
		Reference:   abs,
		Variants: []Variant{
			{"saturating", "returns the maximum integer for the minimum one", absSaturating},
			{"branchless", "xor with the sign mask", absBranchless},
		},
	})
	register(&Program{
		Name:        "max",
		Description: "larger of two integers",
		Params:      []string{"a", "b"},
		Reference:   max2,
		Variants: []Variant{
			{"branchless", "selects with a mask built from the comparison", maxBranchless},
			{"strict", "compares with > instead of >=", maxStrict},
			{"min", "returns the smaller one", min2},
		},
	})
	register(&Program{
		Name:        "sign",
		Description: "-1, 0 or 1 following the sign of x",
		Params:      []string{"x"},
		Reference:   sign,
		Variants: []Variant{
			{"shift", "combines the arithmetic and logical shifts of x and -x", signShift},
			{"nonneg", "treats zero as positive", signNonNeg},
		},
	})
	register(&Program{
		Name:        "clamp",
		Description: "x limited to [lo, hi]",
		Params:      []string{"x", "lo", "hi"},
		Reference:   clamp,
		Variants: []Variant{
			{"upper_first", "tests the upper bound first", clampUpperFirst},
			{"minmax", "max(lo, min(x, hi))", clampMinMax},
		},
	})
}

func abs(args invocation.Args) symbolic.Int {
	x := args.Int("x")
	if x.Lt(zero).Branch() {
		return x.Neg()
	}
	return x
}

func absSaturating(args invocation.Args) symbolic.Int {
	x := args.Int("x")
	if x.Lt(zero).Branch() {
		if x.Eq(symbolic.Const(math.MinInt64)).Branch() {
			return symbolic.Const(math.MaxInt64)
		}
		return x.Neg()
	}
	return x
}

func absBranchless(args invocation.Args) symbolic.Int {
	x := args.Int("x")
	mask := x.AShr(symbolic.Const(63))
	return x.Xor(mask).Sub(mask)
}

func max2(args invocation.Args) symbolic.Int {
	a, b := args.Int("a"), args.Int("b")
	if a.Ge(b).Branch() {
		return a
	}
	return b
}

func maxBranchless(args invocation.Args) symbolic.Int {
	a, b := args.Int("a"), args.Int("b")
	mask := symbolic.FromBool(a.Ge(b)).Neg()
	return b.Xor(a.Xor(b).And(mask))
}

func maxStrict(args invocation.Args) symbolic.Int {
	a, b := args.Int("a"), args.Int("b")
	if a.Gt(b).Branch() {
		return a
	}
	return b
}

func min2(args invocation.Args) symbolic.Int {
	a, b := args.Int("a"), args.Int("b")
	if a.Le(b).Branch() {
		return a
	}
	return b
}

func sign(args invocation.Args) symbolic.Int {
	x := args.Int("x")
	if x.Gt(zero).Branch() {
		return one
	}
	if x.Lt(zero).Branch() {
		return one.Neg()
	}
	return zero
}

func signShift(args invocation.Args) symbolic.Int {
	x := args.Int("x")
	return x.AShr(symbolic.Const(63)).Or(x.Neg().LShr(symbolic.Const(63)))
}

func signNonNeg(args invocation.Args) symbolic.Int {
	if args.Int("x").Lt(zero).Branch() {
		return one.Neg()
	}
	return one
}

func clamp(args invocation.Args) symbolic.Int {
	x, lo, hi := args.Int("x"), args.Int("lo"), args.Int("hi")
	if x.Lt(lo).Branch() {
		return lo
	}
	if x.Gt(hi).Branch() {
		return hi
	}
	return x
}

// clampUpperFirst differs from clamp when lo > hi.
func clampUpperFirst(args invocation.Args) symbolic.Int {
	x, lo, hi := args.Int("x"), args.Int("lo"), args.Int("hi")
	if x.Gt(hi).Branch() {
		return hi
	}
	if x.Lt(lo).Branch() {
		return lo
	}
	return x
}

func clampMinMax(args invocation.Args) symbolic.Int {
	x, lo, hi := args.Int("x"), args.Int("lo"), args.Int("hi")
	m := x
	if hi.Lt(m).Branch() {
		m = hi
	}
	if lo.Gt(m).Branch() {
		m = lo
	}
	return m
}
