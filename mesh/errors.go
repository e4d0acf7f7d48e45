package mesh

import "errors"

var (
	// ErrNotParameterized reports use of an edge or cell operation that
	// needs sampled boundary data before Parameterize has run.
	ErrNotParameterized = errors.New("mesh: edge is not parameterized")

	// ErrBadCurveParam reports malformed curve parameters.
	ErrBadCurveParam = errors.New("mesh: invalid curve parameter")

	// ErrDegenerateEdge reports coincident endpoints where distinct points
	// are required.
	ErrDegenerateEdge = errors.New("mesh: edge endpoints must be distinct")

	// ErrOpenContour reports an edge chain that does not close up.
	ErrOpenContour = errors.New("mesh: boundary edges do not form closed contours")

	// ErrOrientation reports a cell whose outer component is not
	// counterclockwise or whose hole components are not clockwise.
	ErrOrientation = errors.New("mesh: boundary component has wrong orientation")

	// ErrSamplingMismatch reports edges of one cell parameterized at
	// different sample counts.
	ErrSamplingMismatch = errors.New("mesh: inconsistent sampling across cell edges")

	// ErrLengthMismatch reports a value array whose length does not match
	// the sampled boundary.
	ErrLengthMismatch = errors.New("mesh: values must match boundary sample count")

	// ErrNotOrthogonal reports a planar transformation matrix that is not
	// orthogonal.
	ErrNotOrthogonal = errors.New("mesh: transformation must be orthogonal")
)
