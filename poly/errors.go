package poly

import "errors"

var (
	// ErrLengthMismatch reports coefficient and index slices of unequal
	// length.
	ErrLengthMismatch = errors.New("poly: coefficient and index lists differ in length")

	// ErrBadIndex reports a negative upper-triangular multi-index.
	ErrBadIndex = errors.New("poly: multi-index must be nonnegative")

	// ErrBadExponent reports a negative power.
	ErrBadExponent = errors.New("poly: exponent must be nonnegative")
)
