package smt

import "errors"

var (
	// ErrSolverUnavailable is reported when the binary was built without a
	// solver backend.
	ErrSolverUnavailable = errors.New("smt: no solver backend available")
	ErrPartialModel      = errors.New("smt: model does not assign every free variable")
)
