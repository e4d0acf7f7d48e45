// Package mesh models planar meshes whose cells may be curvilinear and
// multiply connected. An Edge is an oriented parameterized curve between two
// vertices (or a closed loop), sampled at 2n+1 points under a quadrature
// rule; a MeshCell chains oriented edge copies into one outer boundary
// component and any number of hole components, and provides the boundary
// access, integration and spectral-differentiation helpers that the
// boundary-integral machinery consumes. A PlanarMesh collects vertices,
// edges and cells and resolves the mesh-boundary topology.
//
// Boundary data convention: every edge of a cell is sampled at the same n,
// and cell-length arrays concatenate the per-edge samples in chain order
// with each edge's final point omitted (it coincides with the next edge's
// first point). Integration over such arrays is a left-hand sum, exact for
// the periodic trapezoid rule.
package mesh
