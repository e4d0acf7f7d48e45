// Package poly implements bivariate polynomial algebra over a sparse list of
// monomial terms. Multi-indices follow the upper-triangular ordering
//
//	idx(i, j) = (i+j)(i+j+1)/2 + j
//
// so terms of total degree N occupy the contiguous index block
// [N(N+1)/2, (N+1)(N+2)/2). Besides the usual ring operations the package
// provides gradients, Laplacians and a canonical polynomial anti-Laplacian,
// which the local function engine pairs with boundary integration to avoid
// volumetric quadrature.
package poly
