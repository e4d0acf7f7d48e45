// Package quadrature provides the 1D periodic sampling rules used to
// parameterize mesh cell boundaries. Each edge of a cell is treated as a
// curve on the parameter interval [0, 2pi] and sampled at 2n+1 points; the
// rule supplies the sample parameters together with the chain-rule weight
// lambda'(tau) of the underlying reparameterization.
//
// Three rules are available:
//
//   - Trapezoid: uniform sampling, weight one. Exponentially accurate for
//     smooth closed contours.
//   - Kress: graded sampling that clusters points near the interval
//     endpoints, used for edges that terminate at corners. The grading
//     exponent p (>= 2) controls how strongly all derivatives of the
//     composed parameterization vanish at the corners.
//   - Martensen: weights for integrating the log(4 sin^2((s-t)/2)) kernel
//     that appears in single-layer boundary operators.
package quadrature
