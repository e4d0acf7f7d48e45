// Package solver assembles and solves the global diffusion-reaction
// system over a planar mesh. Each cell contributes a local Poisson space;
// degrees of freedom are shared across cells at mesh vertices and interior
// edges, and homogeneous Dirichlet conditions are imposed on the mesh
// boundary. The global system is stored sparse and solved by conjugate
// gradients.
package solver
