package quadrature

import "errors"

var (
	// ErrInvalidN reports a panel count that is not an even integer >= 4.
	ErrInvalidN = errors.New("quadrature: n must be an even integer >= 4")

	// ErrInvalidP reports a Kress grading parameter below 2.
	ErrInvalidP = errors.New("quadrature: kress parameter p must be >= 2")

	// ErrUnknownType reports an unrecognized rule type tag.
	ErrUnknownType = errors.New("quadrature: unknown rule type")
)
