package exitcodes

const (
	// ExitCodeSuccess indicates no errors or failures had occurred.
	ExitCodeSuccess = 0

	// ExitCodeGeneralError indicates some type of general error occurred.
	ExitCodeGeneralError = 1

	// Exit codes 2-5 are often used by shells and common tools, so they are avoided.

	// ExitCodeHandledError indicates an error that was already logged and should not be printed again.
	ExitCodeHandledError = 6

	// ExitCodeNotEquivalent indicates that a check found an input on which the candidate differs.
	ExitCodeNotEquivalent = 7

	// ExitCodeInconclusive indicates that a check could not rule out a difference.
	ExitCodeInconclusive = 8
)
