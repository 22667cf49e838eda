package engine

import "errors"

// The estimation call fails with exactly one of four distinct conditions.
// None of them is ever coerced into a zero-valued success, and nothing is
// retried here; retry policy belongs to the caller.
var (
	// ErrInvalidInput rejects requests with a missing or empty address
	// before any oracle call is attempted.
	ErrInvalidInput = errors.New("engine: property address is required")

	// ErrOracleTimeout means neither a lookup result nor a handoff signal
	// arrived within the bounded wait.
	ErrOracleTimeout = errors.New("engine: oracle produced neither a result nor a handoff signal within the deadline")
)
