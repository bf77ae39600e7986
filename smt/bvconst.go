package smt

import (
	"fmt"
	"math/big"
)

var zero = big.NewInt(0)
var one = big.NewInt(1)

// BVConst is a fixed width two's complement bitvector. The value is always
// kept in [0, 2^Size).
type BVConst struct {
	Size  uint
	mask  *big.Int
	value *big.Int
}

func makeMask(size uint) *big.Int {
	v := big.NewInt(1)
	v.Lsh(v, size)
	return v.Sub(v, one)
}

func normalize(v *big.Int, mask *big.Int) *big.Int {
	if v.Sign() < 0 {
		// two's complement: mask - (|v| - 1)
		v.Neg(v)
		v.Sub(v, one)
		v.Sub(mask, v)
	}
	return v.And(v, mask)
}

func MakeBVConst(value int64, size uint) *BVConst {
	if size == 0 {
		return nil
	}

	mask := makeMask(size)
	return &BVConst{Size: size, mask: mask, value: normalize(big.NewInt(value), mask)}
}

func MakeBVConstFromBigint(value *big.Int, size uint) *BVConst {
	if size == 0 {
		return nil
	}

	mask := makeMask(size)
	v := new(big.Int).Set(value)
	return &BVConst{Size: size, mask: mask, value: normalize(v, mask)}
}

// MakeBVConstFromString parses s in the given base. It returns nil when s is
// not a valid number.
func MakeBVConstFromString(s string, base int, size uint) *BVConst {
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil
	}
	return MakeBVConstFromBigint(v, size)
}

func (bv *BVConst) IsNegative() bool {
	return bv.value.Bit(int(bv.Size)-1) == 1
}

func (bv *BVConst) IsZero() bool {
	return bv.value.Cmp(zero) == 0
}

func (bv *BVConst) IsOne() bool {
	return bv.value.Cmp(one) == 0
}

func (bv *BVConst) HasAllBitsSet() bool {
	return bv.value.Cmp(bv.mask) == 0
}

func (bv *BVConst) Copy() *BVConst {
	return &BVConst{
		Size:  bv.Size,
		mask:  new(big.Int).Set(bv.mask),
		value: new(big.Int).Set(bv.value),
	}
}

func (bv *BVConst) String() string {
	return fmt.Sprintf("<BV%d 0x%x>", bv.Size, bv.value)
}

func (bv *BVConst) FitInLong() bool {
	return bv.value.BitLen() <= 64
}

func (bv *BVConst) AsULong() uint64 {
	// if it does not `FitInLong`, result is undefined
	return bv.value.Uint64()
}

func (bv *BVConst) AsLong() int64 {
	if !bv.IsNegative() {
		return bv.value.Int64()
	}
	abs := bv.Copy()
	abs.Neg()
	return -int64(abs.AsULong())
}

// signed returns the value interpreted as a signed integer.
func (bv *BVConst) signed() *big.Int {
	v := new(big.Int).Set(bv.value)
	if bv.IsNegative() {
		v.Sub(v, bv.mask)
		v.Sub(v, one)
	}
	return v
}

func (bv *BVConst) checkSize(o *BVConst) error {
	if bv.Size != o.Size {
		return fmt.Errorf("different sizes %d and %d", bv.Size, o.Size)
	}
	return nil
}

func (bv *BVConst) Not() {
	bv.value.Not(bv.value)
	bv.value.And(bv.value, bv.mask)
}

func (bv *BVConst) Neg() {
	bv.value.Neg(bv.value)
	bv.value = normalize(bv.value, bv.mask)
}

func (bv *BVConst) Add(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}

	bv.value.Add(bv.value, o.value)
	bv.value.And(bv.value, bv.mask)
	return nil
}

func (bv *BVConst) Sub(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}

	bv.value.Sub(bv.value, o.value)
	bv.value = normalize(bv.value, bv.mask)
	return nil
}

func (bv *BVConst) Mul(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}

	bv.value.Mul(bv.value, o.value)
	bv.value.And(bv.value, bv.mask)
	return nil
}

// SDiv truncates toward zero. Division by zero yields -1 for a non negative
// dividend and 1 for a negative one, as in SMT-LIB bvsdiv.
func (bv *BVConst) SDiv(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}

	if o.IsZero() {
		if bv.IsNegative() {
			bv.value.SetInt64(1)
		} else {
			bv.value.Set(bv.mask)
		}
		return nil
	}
	res := new(big.Int).Quo(bv.signed(), o.signed())
	bv.value = normalize(res, bv.mask)
	return nil
}

// SRem takes the sign of the dividend. Remainder by zero yields the
// dividend.
func (bv *BVConst) SRem(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}

	if o.IsZero() {
		return nil
	}
	res := new(big.Int).Rem(bv.signed(), o.signed())
	bv.value = normalize(res, bv.mask)
	return nil
}

func (bv *BVConst) And(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}

	bv.value.And(bv.value, o.value)
	return nil
}

func (bv *BVConst) Or(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}

	bv.value.Or(bv.value, o.value)
	return nil
}

func (bv *BVConst) Xor(o *BVConst) error {
	if err := bv.checkSize(o); err != nil {
		return err
	}

	bv.value.Xor(bv.value, o.value)
	return nil
}

func (bv *BVConst) AShr(n uint) {
	isNeg := bv.IsNegative()
	if n >= bv.Size {
		if isNeg {
			bv.value.Set(bv.mask)
		} else {
			bv.value.SetInt64(0)
		}
		return
	}
	if n == 0 {
		return
	}

	bv.value.Rsh(bv.value, n)
	if isNeg {
		fill := makeMask(n)
		fill.Lsh(fill, bv.Size-n)
		bv.value.Or(bv.value, fill)
	}
}

func (bv *BVConst) LShr(n uint) {
	if n >= bv.Size {
		bv.value.SetInt64(0)
		return
	}
	bv.value.Rsh(bv.value, n)
}

func (bv *BVConst) Shl(n uint) {
	if n >= bv.Size {
		bv.value.SetInt64(0)
		return
	}
	bv.value.Lsh(bv.value, n)
	bv.value.And(bv.value, bv.mask)
}

func (bv *BVConst) Eq(o *BVConst) (BoolConst, error) {
	if err := bv.checkSize(o); err != nil {
		return BoolFalse(), err
	}
	return BoolConst{bv.value.Cmp(o.value) == 0}, nil
}

func (bv *BVConst) NEq(o *BVConst) (BoolConst, error) {
	v, err := bv.Eq(o)
	return v.Not(), err
}

func (bv *BVConst) Ult(o *BVConst) (BoolConst, error) {
	if err := bv.checkSize(o); err != nil {
		return BoolFalse(), err
	}
	return BoolConst{bv.value.Cmp(o.value) < 0}, nil
}

func (bv *BVConst) SLt(o *BVConst) (BoolConst, error) {
	if err := bv.checkSize(o); err != nil {
		return BoolFalse(), err
	}
	return BoolConst{bv.signed().Cmp(o.signed()) < 0}, nil
}

func (bv *BVConst) SLe(o *BVConst) (BoolConst, error) {
	if err := bv.checkSize(o); err != nil {
		return BoolFalse(), err
	}
	return BoolConst{bv.signed().Cmp(o.signed()) <= 0}, nil
}

func (bv *BVConst) SGt(o *BVConst) (BoolConst, error) {
	v, err := bv.SLe(o)
	return v.Not(), err
}

func (bv *BVConst) SGe(o *BVConst) (BoolConst, error) {
	v, err := bv.SLt(o)
	return v.Not(), err
}
