package reference

import "errors"

var (
	// ErrTextTooShort marks a narrative (or embedding input) below the
	// minimum length. Fatal to the current validation call.
	ErrTextTooShort = errors.New("narrative text is too short")

	// ErrInvalidVectors marks a dimension mismatch in a similarity
	// computation. Programmer error, never retried.
	ErrInvalidVectors = errors.New("vectors have mismatched dimensions")

	// ErrProviderUnavailable marks an embedding provider failure. The
	// orchestrator recovers from it by omitting the vector.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")
)
