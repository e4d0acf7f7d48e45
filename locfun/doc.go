// Package locfun implements the local Poisson space engine: functions on a
// mesh cell determined by a Dirichlet trace and a polynomial Laplacian.
//
// A local function v decomposes as v = P + phi with P a polynomial part
// (the canonical anti-Laplacian of the Laplacian polynomial) and phi
// harmonic. On multiply connected cells phi further splits, by the
// logarithmic conjugation theorem, into a conjugable part psi plus log
// terms a_j log|x - xi_j| anchored at the hole interior points. Once the
// harmonic conjugate of psi and an anti-Laplacian of phi are known, all
// H1 semi-inner products and L2 inner products of two local functions
// reduce to boundary integrals, and interior values follow from Cauchy's
// integral formula.
//
// Space collects the local Poisson basis of a cell: vertex functions,
// edge functions and bubble functions, built from per-edge trace spaces.
package locfun
