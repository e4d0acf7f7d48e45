package nystrom

import "errors"

var (
	// ErrSingularOperator reports a boundary whose integral operator is
	// numerically singular, either detected a priori from degenerate
	// sampled geometry or from the condition estimate of the
	// factorization.
	ErrSingularOperator = errors.New("nystrom: boundary integral operator is numerically singular")

	// ErrCellNotParameterized reports a cell without sampled boundary
	// data.
	ErrCellNotParameterized = errors.New("nystrom: cell must be parameterized")

	// ErrTraceLength reports a trace whose length does not match the cell
	// boundary sampling.
	ErrTraceLength = errors.New("nystrom: trace length does not match boundary")
)
