package concolic

import "errors"

var (
	// ErrOracleUnknown is returned when the solver could not decide a query.
	ErrOracleUnknown = errors.New("concolic: solver returned unknown")
	// ErrInvalidModel is returned when a model does not satisfy its query.
	ErrInvalidModel = errors.New("concolic: model does not satisfy the query")
	// ErrUnknownBackend is returned for a solver selection string that is not supported.
	ErrUnknownBackend = errors.New("concolic: unknown solver backend")

	ErrMalformedTrace    = errors.New("concolic: malformed trace")
	ErrBuilderMismatch   = errors.New("concolic: implementations use different expression builders")
	ErrParameterMismatch = errors.New("concolic: implementations declare different parameters")
	ErrUnknownStrategy   = errors.New("concolic: unknown search strategy")
	ErrNilOracle         = errors.New("concolic: nil oracle")
	ErrNilInvocation     = errors.New("concolic: nil invocation")
)
