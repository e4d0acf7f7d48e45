package locfun

import "errors"

var (
	// ErrTraceLength reports trace values whose length does not match the
	// cell boundary sampling.
	ErrTraceLength = errors.New("locfun: trace length does not match boundary")

	// ErrPieceCount reports a piecewise trace with the wrong number of
	// pieces for the cell.
	ErrPieceCount = errors.New("locfun: piecewise trace must have one piece per edge")

	// ErrMissingStage reports use of a quantity whose compute stage has
	// not run yet.
	ErrMissingStage = errors.New("locfun: required compute stage has not run")

	// ErrBadDegree reports a polynomial degree below 1.
	ErrBadDegree = errors.New("locfun: degree must be a positive integer")

	// ErrGridShape reports interior evaluation grids with inconsistent
	// shapes.
	ErrGridShape = errors.New("locfun: interior grids must share one shape")
)
