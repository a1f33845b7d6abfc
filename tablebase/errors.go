package tablebase

import "errors"

var (
	// ErrOutOfScope means the position cannot be answered by the
	// tablebase at all (too many pieces, or not indexed). Never retried.
	ErrOutOfScope = errors.New("tablebase: position out of scope")

	// ErrMalformedResponse means the service answered with a payload we
	// could not interpret. Never retried; callers treat it like an
	// unavailable lookup rather than crashing.
	ErrMalformedResponse = errors.New("tablebase: malformed response")

	// ErrUnavailable wraps a transient failure that survived every retry
	// attempt. Sessions degrade to unverified feedback instead of
	// faulting on it.
	ErrUnavailable = errors.New("tablebase: unavailable")
)

// Retryable reports whether a lookup error is worth another attempt.
// Scope and payload errors are deterministic; everything else (timeouts,
// connection failures, 5xx, rate limits) may clear up.
func Retryable(err error) bool {
	return !errors.Is(err, ErrOutOfScope) && !errors.Is(err, ErrMalformedResponse)
}
