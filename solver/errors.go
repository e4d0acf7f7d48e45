package solver

import "errors"

var (
	// ErrNotAssembled reports a solve or export before Assemble.
	ErrNotAssembled = errors.New("solver: system has not been assembled")

	// ErrNotSolved reports a solution query before Solve.
	ErrNotSolved = errors.New("solver: system has not been solved")

	// ErrNoConvergence reports that conjugate gradients hit the iteration
	// limit before reaching the residual tolerance.
	ErrNoConvergence = errors.New("solver: conjugate gradients did not converge")

	// ErrBadCoefficient reports a non-positive diffusion or negative
	// reaction coefficient.
	ErrBadCoefficient = errors.New("solver: diffusion must be positive and reaction non-negative")

	// ErrSnapshotShape reports an imported snapshot inconsistent with the
	// global space.
	ErrSnapshotShape = errors.New("solver: snapshot does not match the global space")

	// ErrBadCell reports a cell index outside the mesh.
	ErrBadCell = errors.New("solver: cell index out of range")
)
