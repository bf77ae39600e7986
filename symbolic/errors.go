package symbolic

import "errors"

var (
	// ErrTraceNotDrained is returned by Path.Begin when the previous run's
	// predicates were never drained.
	ErrTraceNotDrained = errors.New("symbolic: trace not drained before execution")

	// ErrInactivePath is the panic value raised when a value tries to record
	// a branch outside of its run.
	ErrInactivePath = errors.New("symbolic: branch on a value whose path is not active")
)
