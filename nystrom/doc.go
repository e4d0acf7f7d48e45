// Package nystrom discretizes the boundary integral equations of a mesh
// cell with the Nyström method and exposes harmonic conjugation on
// possibly multiply connected cells.
//
// For a harmonic function with trace phi on the cell boundary, Green's
// representation gives the first-kind equation
//
//	S sigma = (D - 1/2 I) phi
//
// for the weighted normal derivative sigma, where S is the single-layer
// operator with kernel log(|x - y| / d) / 2pi and D the double-layer
// operator. Scaling the kernel by the cell's bounding box diagonal d keeps
// the logarithmic capacity of the boundary below one in the scaled metric,
// so S stays invertible at every cell size. The logarithmically singular
// per-edge diagonal blocks are integrated with Kussmaul-Martensen weights
// built from the Martensen rule; the smooth remainders and the off-edge
// blocks use the periodic trapezoid rule, which converges spectrally on
// the Kress-graded samples.
//
// The dense operator is assembled once per cell, LU-factored (gonum) and
// reused for every trace; log coefficients of the hole components fall out
// of the solved fluxes, and the conjugate trace follows by spectral
// integration of the Cauchy-Riemann relation with inter-component constants
// fixed by vanishing Cauchy integrals at the hole interior points.
package nystrom
