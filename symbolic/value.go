package symbolic

import (
	"fmt"
	"math"

	"github.com/borzacchiello/goconcolic/smt"
)

// Width is the bit width of every Int.
const Width = 64

// Int is a 64-bit signed integer that is either concrete or symbolic. A
// symbolic Int carries its concrete value, the expression it stands for and
// the path that records its branches. The zero value is the concrete 0.
//
// Arithmetic wraps on overflow. Division and remainder by zero do not panic:
// x/0 is -1 for x >= 0 and 1 for x < 0, and x%0 is x.
type Int struct {
	v    int64
	expr *smt.BVExprPtr
	p    *Path
}

func Const(v int64) Int {
	return Int{v: v}
}

func (x Int) Concrete() int64 {
	return x.v
}

func (x Int) IsSymbolic() bool {
	return x.expr != nil
}

// Expr returns the expression of x, or the constant for a concrete x.
func (x Int) Expr(eb *smt.ExprBuilder) *smt.BVExprPtr {
	if x.expr != nil {
		return x.expr
	}
	return eb.BVV(x.v, Width)
}

func (x Int) String() string {
	if x.expr == nil {
		return fmt.Sprintf("%d", x.v)
	}
	return fmt.Sprintf("%d <%s>", x.v, x.expr.String())
}

func pathOf(vals ...Int) *Path {
	for _, v := range vals {
		if v.p != nil {
			return v.p
		}
	}
	return nil
}

func mkInt(v int64, e *smt.BVExprPtr, p *Path) Int {
	if e.IsConst() {
		return Int{v: v}
	}
	return Int{v: v, expr: e, p: p}
}

type bvOp func(eb *smt.ExprBuilder, lhs, rhs *smt.BVExprPtr) (*smt.BVExprPtr, error)
type cmpOp func(eb *smt.ExprBuilder, lhs, rhs *smt.BVExprPtr) (*smt.BoolExprPtr, error)

func (x Int) binop(y Int, v int64, op bvOp) Int {
	p := pathOf(x, y)
	if p == nil {
		return Int{v: v}
	}
	e, err := op(p.eb, x.Expr(p.eb), y.Expr(p.eb))
	if err != nil {
		// operands are always Width bits wide
		panic(err)
	}
	return mkInt(v, e, p)
}

func (x Int) cmp(y Int, v bool, op cmpOp) Bool {
	p := pathOf(x, y)
	if p == nil {
		return Bool{v: v}
	}
	e, err := op(p.eb, x.Expr(p.eb), y.Expr(p.eb))
	if err != nil {
		panic(err)
	}
	return mkBool(v, e, p)
}

func (x Int) Add(y Int) Int {
	return x.binop(y, x.v+y.v, (*smt.ExprBuilder).Add)
}

func (x Int) Sub(y Int) Int {
	return x.binop(y, x.v-y.v, (*smt.ExprBuilder).Sub)
}

func (x Int) Mul(y Int) Int {
	return x.binop(y, x.v*y.v, (*smt.ExprBuilder).Mul)
}

func sdiv(a, b int64) int64 {
	if b == 0 {
		if a < 0 {
			return 1
		}
		return -1
	}
	if a == math.MinInt64 && b == -1 {
		return a
	}
	return a / b
}

func srem(a, b int64) int64 {
	if b == 0 {
		return a
	}
	if b == -1 {
		return 0
	}
	return a % b
}

func (x Int) Div(y Int) Int {
	return x.binop(y, sdiv(x.v, y.v), (*smt.ExprBuilder).SDiv)
}

func (x Int) Rem(y Int) Int {
	return x.binop(y, srem(x.v, y.v), (*smt.ExprBuilder).SRem)
}

func (x Int) And(y Int) Int {
	return x.binop(y, x.v&y.v, (*smt.ExprBuilder).And)
}

func (x Int) Or(y Int) Int {
	return x.binop(y, x.v|y.v, (*smt.ExprBuilder).Or)
}

func (x Int) Xor(y Int) Int {
	return x.binop(y, x.v^y.v, (*smt.ExprBuilder).Xor)
}

// Shl, AShr and LShr read the shift amount as unsigned. Amounts of 64 or
// more shift every bit out.
func (x Int) Shl(y Int) Int {
	return x.binop(y, x.v<<uint64(y.v), (*smt.ExprBuilder).Shl)
}

func (x Int) AShr(y Int) Int {
	return x.binop(y, x.v>>uint64(y.v), (*smt.ExprBuilder).AShr)
}

func (x Int) LShr(y Int) Int {
	return x.binop(y, int64(uint64(x.v)>>uint64(y.v)), (*smt.ExprBuilder).LShr)
}

func (x Int) Neg() Int {
	if x.expr == nil {
		return Int{v: -x.v}
	}
	return mkInt(-x.v, x.p.eb.Neg(x.expr), x.p)
}

func (x Int) Not() Int {
	if x.expr == nil {
		return Int{v: ^x.v}
	}
	return mkInt(^x.v, x.p.eb.Not(x.expr), x.p)
}

func (x Int) Lt(y Int) Bool {
	return x.cmp(y, x.v < y.v, (*smt.ExprBuilder).SLt)
}

func (x Int) Le(y Int) Bool {
	return x.cmp(y, x.v <= y.v, (*smt.ExprBuilder).SLe)
}

func (x Int) Gt(y Int) Bool {
	return x.cmp(y, x.v > y.v, (*smt.ExprBuilder).SGt)
}

func (x Int) Ge(y Int) Bool {
	return x.cmp(y, x.v >= y.v, (*smt.ExprBuilder).SGe)
}

func (x Int) Eq(y Int) Bool {
	return x.cmp(y, x.v == y.v, (*smt.ExprBuilder).Eq)
}

func (x Int) Ne(y Int) Bool {
	return x.cmp(y, x.v != y.v, (*smt.ExprBuilder).NEq)
}

// Ite selects a or b without recording a branch.
func Ite(cond Bool, a, b Int) Int {
	v := b.v
	if cond.v {
		v = a.v
	}
	p := pathOf(a, b)
	if p == nil && cond.p != nil {
		p = cond.p
	}
	if p == nil {
		return Int{v: v}
	}
	e, err := p.eb.ITE(cond.Expr(p.eb), a.Expr(p.eb), b.Expr(p.eb))
	if err != nil {
		panic(err)
	}
	return mkInt(v, e, p)
}

// FromBool is 1 when b holds and 0 otherwise.
func FromBool(b Bool) Int {
	return Ite(b, Const(1), Const(0))
}

// Bool is the result of a comparison. Only Branch records a decision.
type Bool struct {
	v    bool
	expr *smt.BoolExprPtr
	p    *Path
}

func ConstBool(v bool) Bool {
	return Bool{v: v}
}

func mkBool(v bool, e *smt.BoolExprPtr, p *Path) Bool {
	if e.IsConst() {
		return Bool{v: v}
	}
	return Bool{v: v, expr: e, p: p}
}

func (b Bool) Concrete() bool {
	return b.v
}

func (b Bool) IsSymbolic() bool {
	return b.expr != nil
}

func (b Bool) Expr(eb *smt.ExprBuilder) *smt.BoolExprPtr {
	if b.expr != nil {
		return b.expr
	}
	return eb.BoolVal(b.v)
}

func (b Bool) Not() Bool {
	if b.expr == nil {
		return Bool{v: !b.v}
	}
	return mkBool(!b.v, b.p.eb.BoolNot(b.expr), b.p)
}

func boolPath(a, b Bool) *Path {
	if a.p != nil {
		return a.p
	}
	return b.p
}

// And evaluates both operands; there is no short circuit.
func (b Bool) And(o Bool) Bool {
	p := boolPath(b, o)
	if p == nil {
		return Bool{v: b.v && o.v}
	}
	return mkBool(b.v && o.v, p.eb.BoolAnd(b.Expr(p.eb), o.Expr(p.eb)), p)
}

func (b Bool) Or(o Bool) Bool {
	p := boolPath(b, o)
	if p == nil {
		return Bool{v: b.v || o.v}
	}
	return mkBool(b.v || o.v, p.eb.BoolOr(b.Expr(p.eb), o.Expr(p.eb)), p)
}

// Branch returns the concrete value of b. A symbolic b records the decision
// on its path, so Branch must only be called while that path is active.
func (b Bool) Branch() bool {
	if b.expr != nil {
		b.p.record(b.expr, b.v)
	}
	return b.v
}

func (b Bool) String() string {
	if b.expr == nil {
		return fmt.Sprintf("%t", b.v)
	}
	return fmt.Sprintf("%t <%s>", b.v, b.expr.String())
}
