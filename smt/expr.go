package smt

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	TY_SYM   = 1
	TY_CONST = 2
	TY_ITE   = 3

	TY_NOT  = 8
	TY_NEG  = 9
	TY_SHL  = 10
	TY_LSHR = 11
	TY_ASHR = 12
	TY_AND  = 13
	TY_OR   = 14
	TY_XOR  = 15
	TY_ADD  = 16
	TY_MUL  = 17
	TY_SDIV = 18
	TY_SREM = 20

	TY_ULT = 22
	TY_SLT = 26
	TY_SLE = 27
	TY_SGT = 28
	TY_SGE = 29
	TY_EQ  = 30

	TY_BOOL_CONST = 31
	TY_BOOL_NOT   = 32
	TY_BOOL_AND   = 33
	TY_BOOL_OR    = 34
)

/*
 *   Public Interface
 */

// ExprPtr is implemented by both expression handles.
type ExprPtr interface {
	String() string
	Id() uint64

	getInternal() internalExpr
}

// BVExprPtr is a handle to an interned bitvector expression. Two handles
// coming from the same ExprBuilder are structurally equal iff their Id is.
type BVExprPtr struct {
	e internalBVExpr
}

func (bv *BVExprPtr) IsConst() bool {
	return bv.e.kind() == TY_CONST
}

func (bv *BVExprPtr) GetConst() (*BVConst, error) {
	if bv.e.kind() != TY_CONST {
		return nil, fmt.Errorf("not a constant")
	}
	c := bv.e.(*internalBVV)
	return c.Value.Copy(), nil
}

// Name returns the symbol name when the expression is a free variable.
func (bv *BVExprPtr) Name() (string, bool) {
	if bv.e.kind() != TY_SYM {
		return "", false
	}
	return bv.e.(*internalBVS).name, true
}

func (bv *BVExprPtr) IsZero() bool {
	if !bv.IsConst() {
		return false
	}
	c, _ := bv.GetConst()
	return c.IsZero()
}

func (bv *BVExprPtr) IsOne() bool {
	if !bv.IsConst() {
		return false
	}
	c, _ := bv.GetConst()
	return c.IsOne()
}

func (bv *BVExprPtr) HasAllBitsSet() bool {
	if !bv.IsConst() {
		return false
	}
	c, _ := bv.GetConst()
	return c.HasAllBitsSet()
}

func (bv *BVExprPtr) IsOppositeOf(o *BVExprPtr) bool {
	if bv.Kind() == TY_NEG {
		negBv := bv.e.(*internalBVExprUnArithmetic)
		if o.Id() == negBv.child.Id() {
			return true
		}
	}
	if o.Kind() == TY_NEG {
		negO := o.e.(*internalBVExprUnArithmetic)
		return bv.Id() == negO.child.Id()
	}
	return false
}

func (bv *BVExprPtr) Size() uint {
	return bv.e.size()
}

func (bv *BVExprPtr) String() string {
	return bv.e.String()
}

func (bv *BVExprPtr) Id() uint64 {
	return bv.e.rawId()
}

func (bv *BVExprPtr) Kind() int {
	return bv.e.kind()
}

func (bv *BVExprPtr) getInternal() internalExpr {
	return bv.e
}

type BoolExprPtr struct {
	e internalBoolExpr
}

func (e *BoolExprPtr) IsConst() bool {
	return e.e.kind() == TY_BOOL_CONST
}

func (e *BoolExprPtr) GetConst() (bool, error) {
	if e.e.kind() != TY_BOOL_CONST {
		return false, fmt.Errorf("not a constant")
	}
	c := e.e.(*internalBoolVal)
	return c.Value.Value, nil
}

func (e *BoolExprPtr) String() string {
	return e.e.String()
}

func (e *BoolExprPtr) Id() uint64 {
	return e.e.rawId()
}

func (e *BoolExprPtr) Kind() int {
	return e.e.kind()
}

func (e *BoolExprPtr) getInternal() internalExpr {
	return e.e
}

/*
 *   Private Interface
 */

type internalExpr interface {
	String() string

	kind() int
	hash() uint64
	isLeaf() bool
	rawId() uint64
	setId(uint64)
	subexprs() []internalExpr
}

type internalBVExpr interface {
	internalExpr

	size() uint
	shallowEq(internalBVExpr) bool
}

type internalBoolExpr interface {
	internalExpr

	shallowEq(internalBoolExpr) bool
}

// exprId is assigned by the ExprBuilder when a node is interned.
type exprId struct {
	id uint64
}

func (i *exprId) rawId() uint64 {
	return i.id
}

func (i *exprId) setId(id uint64) {
	i.id = id
}

func hashWithIds(symbol string, ids ...uint64) uint64 {
	h := xxhash.New()
	h.WriteString(symbol)
	raw := make([]byte, 8)
	for _, id := range ids {
		binary.BigEndian.PutUint64(raw, id)
		h.Write(raw)
	}
	return h.Sum64()
}

func wrap(e ExprPtr) string {
	if e.getInternal().isLeaf() {
		return e.String()
	}
	return fmt.Sprintf("(%s)", e.String())
}

/*
 *  TY_CONST
 */

type internalBVV struct {
	exprId
	Value BVConst
}

func mkinternalBVV(value int64, size uint) *internalBVV {
	return &internalBVV{Value: *MakeBVConst(value, size)}
}

func mkinternalBVVFromConst(c BVConst) *internalBVV {
	return &internalBVV{Value: c}
}

func (bvv *internalBVV) String() string {
	return fmt.Sprintf("0x%x", bvv.Value.value)
}

func (bvv *internalBVV) size() uint {
	return bvv.Value.Size
}

func (bvv *internalBVV) subexprs() []internalExpr {
	return nil
}

func (bvv *internalBVV) kind() int {
	return TY_CONST
}

func (bvv *internalBVV) hash() uint64 {
	return hashWithIds("const", uint64(bvv.Value.Size), bvv.Value.value.Uint64())
}

func (bvv *internalBVV) shallowEq(other internalBVExpr) bool {
	if other.kind() != TY_CONST {
		return false
	}
	obvv := other.(*internalBVV)
	res, err := bvv.Value.Eq(&obvv.Value)
	return err == nil && res.Value
}

func (bvv *internalBVV) isLeaf() bool {
	return true
}

/*
 *  TY_BOOL_CONST
 */

type internalBoolVal struct {
	exprId
	Value BoolConst
}

func mkinternalBoolConst(value bool) *internalBoolVal {
	if value {
		return &internalBoolVal{Value: BoolTrue()}
	}
	return &internalBoolVal{Value: BoolFalse()}
}

func (b *internalBoolVal) String() string {
	return b.Value.String()
}

func (b *internalBoolVal) subexprs() []internalExpr {
	return nil
}

func (b *internalBoolVal) kind() int {
	return TY_BOOL_CONST
}

func (b *internalBoolVal) hash() uint64 {
	if b.Value.Value {
		return 1
	}
	return 0
}

func (b *internalBoolVal) shallowEq(other internalBoolExpr) bool {
	if other.kind() != TY_BOOL_CONST {
		return false
	}
	return other.(*internalBoolVal).Value.Value == b.Value.Value
}

func (b *internalBoolVal) isLeaf() bool {
	return true
}

/*
 *  TY_SYM
 */

type internalBVS struct {
	exprId
	name string
	sz   uint
}

func mkinternalBVS(name string, size uint) *internalBVS {
	return &internalBVS{name: name, sz: size}
}

func (bvs *internalBVS) String() string {
	return bvs.name
}

func (bvs *internalBVS) size() uint {
	return bvs.sz
}

func (bvs *internalBVS) subexprs() []internalExpr {
	return nil
}

func (bvs *internalBVS) kind() int {
	return TY_SYM
}

func (bvs *internalBVS) hash() uint64 {
	return xxhash.Sum64String(bvs.name)
}

func (bvs *internalBVS) shallowEq(other internalBVExpr) bool {
	if other.kind() != TY_SYM {
		return false
	}
	obvs := other.(*internalBVS)
	return obvs.sz == bvs.sz && obvs.name == bvs.name
}

func (bvs *internalBVS) isLeaf() bool {
	return true
}

/*
 * TY_AND, TY_OR, TY_XOR, TY_ADD, TY_MUL, TY_SDIV, TY_SREM, TY_SHL, TY_LSHR, TY_ASHR
 */

type internalBVExprBinArithmetic struct {
	exprId
	knd      uint8
	symbol   string
	children []*BVExprPtr
}

func mkBVArithmeticExpr(children []*BVExprPtr, kind int, symbol string) (*internalBVExprBinArithmetic, error) {
	if len(children) < 2 {
		return nil, fmt.Errorf("mkBVArithmeticExpr(): not enough children")
	}
	for i := 1; i < len(children); i++ {
		if children[i].Size() != children[0].Size() {
			return nil, fmt.Errorf("mkBVArithmeticExpr(): invalid sizes")
		}
	}
	return &internalBVExprBinArithmetic{knd: uint8(kind), symbol: symbol, children: children}, nil
}

func (e *internalBVExprBinArithmetic) String() string {
	b := strings.Builder{}
	b.WriteString(wrap(e.children[0]))
	for i := 1; i < len(e.children); i++ {
		b.WriteString(fmt.Sprintf(" %s %s", e.symbol, wrap(e.children[i])))
	}
	return b.String()
}

func (e *internalBVExprBinArithmetic) size() uint {
	return e.children[0].Size()
}

func (e *internalBVExprBinArithmetic) subexprs() []internalExpr {
	res := make([]internalExpr, 0, len(e.children))
	for i := 0; i < len(e.children); i++ {
		res = append(res, e.children[i].e)
	}
	return res
}

func (e *internalBVExprBinArithmetic) kind() int {
	return int(e.knd)
}

func (e *internalBVExprBinArithmetic) hash() uint64 {
	ids := make([]uint64, 0, len(e.children))
	for i := 0; i < len(e.children); i++ {
		ids = append(ids, e.children[i].Id())
	}
	return hashWithIds(e.symbol, ids...)
}

func (e *internalBVExprBinArithmetic) shallowEq(other internalBVExpr) bool {
	if other.kind() != e.kind() {
		return false
	}
	oe := other.(*internalBVExprBinArithmetic)
	if len(oe.children) != len(e.children) {
		return false
	}
	for i := 0; i < len(e.children); i++ {
		if e.children[i].Id() != oe.children[i].Id() {
			return false
		}
	}
	return true
}

func (e *internalBVExprBinArithmetic) isLeaf() bool {
	return false
}

func mkinternalBVExprAnd(children []*BVExprPtr) (*internalBVExprBinArithmetic, error) {
	return mkBVArithmeticExpr(children, TY_AND, "&")
}
func mkinternalBVExprOr(children []*BVExprPtr) (*internalBVExprBinArithmetic, error) {
	return mkBVArithmeticExpr(children, TY_OR, "|")
}
func mkinternalBVExprXor(children []*BVExprPtr) (*internalBVExprBinArithmetic, error) {
	return mkBVArithmeticExpr(children, TY_XOR, "^")
}
func mkinternalBVExprAdd(children []*BVExprPtr) (*internalBVExprBinArithmetic, error) {
	return mkBVArithmeticExpr(children, TY_ADD, "+")
}
func mkinternalBVExprMul(children []*BVExprPtr) (*internalBVExprBinArithmetic, error) {
	return mkBVArithmeticExpr(children, TY_MUL, "*")
}
func mkinternalBVExprSdiv(lhs, rhs *BVExprPtr) (*internalBVExprBinArithmetic, error) {
	return mkBVArithmeticExpr([]*BVExprPtr{lhs, rhs}, TY_SDIV, "s/")
}
func mkinternalBVExprSrem(lhs, rhs *BVExprPtr) (*internalBVExprBinArithmetic, error) {
	return mkBVArithmeticExpr([]*BVExprPtr{lhs, rhs}, TY_SREM, "s%")
}
func mkinternalBVExprShl(lhs, rhs *BVExprPtr) (*internalBVExprBinArithmetic, error) {
	return mkBVArithmeticExpr([]*BVExprPtr{lhs, rhs}, TY_SHL, "<<")
}
func mkinternalBVExprLshr(lhs, rhs *BVExprPtr) (*internalBVExprBinArithmetic, error) {
	return mkBVArithmeticExpr([]*BVExprPtr{lhs, rhs}, TY_LSHR, "l>>")
}
func mkinternalBVExprAshr(lhs, rhs *BVExprPtr) (*internalBVExprBinArithmetic, error) {
	return mkBVArithmeticExpr([]*BVExprPtr{lhs, rhs}, TY_ASHR, "a>>")
}

/*
 * TY_NOT, TY_NEG
 */

type internalBVExprUnArithmetic struct {
	exprId
	knd    uint8
	symbol string
	child  *BVExprPtr
}

func (e *internalBVExprUnArithmetic) String() string {
	return e.symbol + wrap(e.child)
}

func (e *internalBVExprUnArithmetic) size() uint {
	return e.child.Size()
}

func (e *internalBVExprUnArithmetic) subexprs() []internalExpr {
	return []internalExpr{e.child.e}
}

func (e *internalBVExprUnArithmetic) kind() int {
	return int(e.knd)
}

func (e *internalBVExprUnArithmetic) hash() uint64 {
	return hashWithIds(e.symbol, e.child.Id())
}

func (e *internalBVExprUnArithmetic) shallowEq(other internalBVExpr) bool {
	if other.kind() != e.kind() {
		return false
	}
	return e.child.Id() == other.(*internalBVExprUnArithmetic).child.Id()
}

func (e *internalBVExprUnArithmetic) isLeaf() bool {
	return false
}

func mkinternalBVExprNot(e *BVExprPtr) *internalBVExprUnArithmetic {
	return &internalBVExprUnArithmetic{knd: TY_NOT, symbol: "~", child: e}
}
func mkinternalBVExprNeg(e *BVExprPtr) *internalBVExprUnArithmetic {
	return &internalBVExprUnArithmetic{knd: TY_NEG, symbol: "-", child: e}
}

/*
 * TY_ULT, TY_SLT, TY_SLE, TY_SGT, TY_SGE, TY_EQ
 */

type internalBoolExprCmp struct {
	exprId
	knd      uint8
	symbol   string
	lhs, rhs *BVExprPtr
}

func mkinternalBoolExprCmp(lhs, rhs *BVExprPtr, kind int, symbol string) (*internalBoolExprCmp, error) {
	if rhs.Size() != lhs.Size() {
		return nil, fmt.Errorf("mkinternalBoolExprCmp(): invalid sizes")
	}
	return &internalBoolExprCmp{knd: uint8(kind), symbol: symbol, lhs: lhs, rhs: rhs}, nil
}

func (e *internalBoolExprCmp) String() string {
	return fmt.Sprintf("%s %s %s", wrap(e.lhs), e.symbol, wrap(e.rhs))
}

func (e *internalBoolExprCmp) subexprs() []internalExpr {
	return []internalExpr{e.lhs.e, e.rhs.e}
}

func (e *internalBoolExprCmp) kind() int {
	return int(e.knd)
}

func (e *internalBoolExprCmp) hash() uint64 {
	return hashWithIds(e.symbol, e.lhs.Id(), e.rhs.Id())
}

func (e *internalBoolExprCmp) shallowEq(other internalBoolExpr) bool {
	if other.kind() != e.kind() {
		return false
	}
	oe := other.(*internalBoolExprCmp)
	return e.lhs.Id() == oe.lhs.Id() && e.rhs.Id() == oe.rhs.Id()
}

func (e *internalBoolExprCmp) isLeaf() bool {
	return false
}

func mkinternalBoolExprUlt(lhs, rhs *BVExprPtr) (*internalBoolExprCmp, error) {
	return mkinternalBoolExprCmp(lhs, rhs, TY_ULT, "u<")
}
func mkinternalBoolExprSlt(lhs, rhs *BVExprPtr) (*internalBoolExprCmp, error) {
	return mkinternalBoolExprCmp(lhs, rhs, TY_SLT, "s<")
}
func mkinternalBoolExprSle(lhs, rhs *BVExprPtr) (*internalBoolExprCmp, error) {
	return mkinternalBoolExprCmp(lhs, rhs, TY_SLE, "s<=")
}
func mkinternalBoolExprSgt(lhs, rhs *BVExprPtr) (*internalBoolExprCmp, error) {
	return mkinternalBoolExprCmp(lhs, rhs, TY_SGT, "s>")
}
func mkinternalBoolExprSge(lhs, rhs *BVExprPtr) (*internalBoolExprCmp, error) {
	return mkinternalBoolExprCmp(lhs, rhs, TY_SGE, "s>=")
}
func mkinternalBoolExprEq(lhs, rhs *BVExprPtr) (*internalBoolExprCmp, error) {
	return mkinternalBoolExprCmp(lhs, rhs, TY_EQ, "==")
}

/*
 * TY_BOOL_AND, TY_BOOL_OR
 */

type internalBoolExprNaryOp struct {
	exprId
	knd      uint8
	symbol   string
	children []*BoolExprPtr
}

func (e *internalBoolExprNaryOp) String() string {
	b := strings.Builder{}
	b.WriteString(wrap(e.children[0]))
	for i := 1; i < len(e.children); i++ {
		b.WriteString(fmt.Sprintf(" %s %s", e.symbol, wrap(e.children[i])))
	}
	return b.String()
}

func (e *internalBoolExprNaryOp) subexprs() []internalExpr {
	res := make([]internalExpr, 0, len(e.children))
	for i := 0; i < len(e.children); i++ {
		res = append(res, e.children[i].e)
	}
	return res
}

func (e *internalBoolExprNaryOp) kind() int {
	return int(e.knd)
}

func (e *internalBoolExprNaryOp) hash() uint64 {
	ids := make([]uint64, 0, len(e.children))
	for i := 0; i < len(e.children); i++ {
		ids = append(ids, e.children[i].Id())
	}
	return hashWithIds(e.symbol, ids...)
}

func (e *internalBoolExprNaryOp) shallowEq(other internalBoolExpr) bool {
	if other.kind() != e.kind() {
		return false
	}
	oe := other.(*internalBoolExprNaryOp)
	if len(oe.children) != len(e.children) {
		return false
	}
	for i := 0; i < len(e.children); i++ {
		if e.children[i].Id() != oe.children[i].Id() {
			return false
		}
	}
	return true
}

func (e *internalBoolExprNaryOp) isLeaf() bool {
	return false
}

func mkinternalBoolExprAnd(children []*BoolExprPtr) *internalBoolExprNaryOp {
	return &internalBoolExprNaryOp{knd: TY_BOOL_AND, symbol: "&&", children: children}
}
func mkinternalBoolExprOr(children []*BoolExprPtr) *internalBoolExprNaryOp {
	return &internalBoolExprNaryOp{knd: TY_BOOL_OR, symbol: "||", children: children}
}

/*
 * TY_BOOL_NOT
 */

type internalBoolUnArithmetic struct {
	exprId
	child *BoolExprPtr
}

func (e *internalBoolUnArithmetic) String() string {
	return "!" + wrap(e.child)
}

func (e *internalBoolUnArithmetic) subexprs() []internalExpr {
	return []internalExpr{e.child.e}
}

func (e *internalBoolUnArithmetic) kind() int {
	return TY_BOOL_NOT
}

func (e *internalBoolUnArithmetic) hash() uint64 {
	return hashWithIds("!", e.child.Id())
}

func (e *internalBoolUnArithmetic) shallowEq(other internalBoolExpr) bool {
	if other.kind() != TY_BOOL_NOT {
		return false
	}
	return e.child.Id() == other.(*internalBoolUnArithmetic).child.Id()
}

func (e *internalBoolUnArithmetic) isLeaf() bool {
	return false
}

func mkinternalBoolNot(e *BoolExprPtr) *internalBoolUnArithmetic {
	return &internalBoolUnArithmetic{child: e}
}

/*
 *  TY_ITE
 */

type internalBVExprITE struct {
	exprId
	cond    *BoolExprPtr
	iftrue  *BVExprPtr
	iffalse *BVExprPtr
}

func mkinternalBVExprITE(cond *BoolExprPtr, iftrue *BVExprPtr, iffalse *BVExprPtr) (*internalBVExprITE, error) {
	if iftrue.Size() != iffalse.Size() {
		return nil, fmt.Errorf("mkinternalBVExprITE(): invalid sizes")
	}
	return &internalBVExprITE{cond: cond, iftrue: iftrue, iffalse: iffalse}, nil
}

func (e *internalBVExprITE) String() string {
	return fmt.Sprintf("ITE(%s, %s, %s)", e.cond.String(), e.iftrue.String(), e.iffalse.String())
}

func (e *internalBVExprITE) size() uint {
	return e.iftrue.Size()
}

func (e *internalBVExprITE) subexprs() []internalExpr {
	return []internalExpr{e.iftrue.e, e.iffalse.e, e.cond.e}
}

func (e *internalBVExprITE) kind() int {
	return TY_ITE
}

func (e *internalBVExprITE) hash() uint64 {
	return hashWithIds("TY_ITE", e.cond.Id(), e.iftrue.Id(), e.iffalse.Id())
}

func (e *internalBVExprITE) shallowEq(other internalBVExpr) bool {
	if other.kind() != e.kind() {
		return false
	}
	oe := other.(*internalBVExprITE)
	return e.cond.Id() == oe.cond.Id() &&
		e.iftrue.Id() == oe.iftrue.Id() &&
		e.iffalse.Id() == oe.iffalse.Id()
}

func (e *internalBVExprITE) isLeaf() bool {
	return false
}
