//go:build noz3

package smt

// Available reports whether a solver backend was compiled in.
func Available() bool {
	return false
}

type nullBackend struct{}

func newBackend() solverBackend {
	return nullBackend{}
}

func (nullBackend) clone() solverBackend {
	return nullBackend{}
}

func (nullBackend) check(query *BoolExprPtr) int {
	return RESULT_ERROR
}

func (nullBackend) model() Model {
	return nil
}

func (nullBackend) evalUpto(bv *BVExprPtr, pi *BoolExprPtr, n int) []*BVConst {
	return nil
}
