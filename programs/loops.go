package programs

import (
	"github.com/borzacchiello/goconcolic/invocation"
	"github.com/borzacchiello/goconcolic/symbolic"
)

// gcdSteps bounds the loops so that every target has finitely many paths.
const gcdSteps = 8

func init() {
	register(&Program{
		Name:        "triangle",
		Description: "classifies side lengths: 0 invalid, 1 scalene, 2 isosceles, 3 equilateral",
		Params:      []string{"a", "b", "c"},
		Reference:   triangle,
		Variants: []Variant{
			{"sorted", "sorts the sides before classifying", triangleSorted},
			{"missing_ac", "forgets the a == c isosceles case", triangleMissingAC},
		},
	})
	register(&Program{
		Name:        "gcd",
		Description: "Euclid's algorithm, at most 8 steps",
		Params:      []string{"a", "b"},
		Reference:   gcd,
		Variants: []Variant{
			{"subtractive", "repeated subtraction instead of remainder", gcdSubtractive},
			{"short", "stops after 4 steps", gcdShort},
		},
	})
}

func invalidTriangle(a, b, c symbolic.Int) bool {
	if a.Le(zero).Or(b.Le(zero)).Or(c.Le(zero)).Branch() {
		return true
	}
	return a.Ge(b.Add(c)).Or(b.Ge(a.Add(c))).Or(c.Ge(a.Add(b))).Branch()
}

func classify(a, b, c symbolic.Int, checkAC bool) symbolic.Int {
	if invalidTriangle(a, b, c) {
		return zero
	}
	if a.Eq(b).And(b.Eq(c)).Branch() {
		return symbolic.Const(3)
	}
	isosceles := a.Eq(b).Or(b.Eq(c))
	if checkAC {
		isosceles = isosceles.Or(a.Eq(c))
	}
	if isosceles.Branch() {
		return symbolic.Const(2)
	}
	return one
}

func triangle(args invocation.Args) symbolic.Int {
	return classify(args.Int("a"), args.Int("b"), args.Int("c"), true)
}

func triangleMissingAC(args invocation.Args) symbolic.Int {
	return classify(args.Int("a"), args.Int("b"), args.Int("c"), false)
}

func triangleSorted(args invocation.Args) symbolic.Int {
	a, b, c := args.Int("a"), args.Int("b"), args.Int("c")
	if a.Gt(b).Branch() {
		a, b = b, a
	}
	if b.Gt(c).Branch() {
		b, c = c, b
	}
	if a.Gt(b).Branch() {
		a, b = b, a
	}
	if a.Le(zero).Branch() {
		return zero
	}
	if c.Ge(a.Add(b)).Branch() {
		return zero
	}
	if a.Eq(c).Branch() {
		return symbolic.Const(3)
	}
	if a.Eq(b).Or(b.Eq(c)).Branch() {
		return symbolic.Const(2)
	}
	return one
}

func euclid(a, b symbolic.Int, steps int) symbolic.Int {
	for i := 0; i < steps; i++ {
		if b.Eq(zero).Branch() {
			return a
		}
		a, b = b, a.Rem(b)
	}
	return a
}

func gcd(args invocation.Args) symbolic.Int {
	return euclid(args.Int("a"), args.Int("b"), gcdSteps)
}

func gcdShort(args invocation.Args) symbolic.Int {
	return euclid(args.Int("a"), args.Int("b"), 4)
}

func gcdSubtractive(args invocation.Args) symbolic.Int {
	a, b := args.Int("a"), args.Int("b")
	for i := 0; i < gcdSteps; i++ {
		if a.Eq(b).Branch() {
			return a
		}
		if a.Gt(b).Branch() {
			a = a.Sub(b)
		} else {
			b = b.Sub(a)
		}
	}
	return a
}
