package solver

import (
	"github.com/zackkenyon/PuncturedFEM/locfun"
	"github.com/zackkenyon/PuncturedFEM/nystrom"
	"github.com/zackkenyon/PuncturedFEM/poly"
)

// BilinearForm carries the constant coefficients of the diffusion-reaction
// problem
//
//	-a Lap u + c u = f   in the domain,  u = 0  on the mesh boundary,
//
// whose weak form is B(u,v) = a (grad u, grad v) + c (u, v) = (f, v).
type BilinearForm struct {
	DiffusionCoef float64
	ReactionCoef  float64
	RHS           poly.Poly
}

// Validate checks that the form is coercive.
func (b BilinearForm) Validate() error {
	if b.DiffusionCoef <= 0 || b.ReactionCoef < 0 {
		return ErrBadCoefficient
	}
	return nil
}

// Eval evaluates B(v, w) from the precomputed boundary data of the two
// local functions.
func (b BilinearForm) Eval(v, w *locfun.LocalFunction) (float64, error) {
	h1, err := v.H1SemiInnerProduct(w)
	if err != nil {
		return 0, err
	}
	out := b.DiffusionCoef * h1
	if b.ReactionCoef != 0 {
		l2, err := v.L2InnerProduct(w)
		if err != nil {
			return 0, err
		}
		out += b.ReactionCoef * l2
	}
	return out, nil
}

// RHSFun realizes the polynomial load as a local function on one cell, so
// the load functional (f, v) reduces to an L2 inner product.
func (b BilinearForm) RHSFun(ns *nystrom.Solver) (*locfun.LocalFunction, error) {
	pieces := poly.NewPiecewise(ns.Cell.NumEdges())
	pieces.SetAll(b.RHS)
	f, err := locfun.New(ns, b.RHS.Laplacian(), locfun.PolyTrace{Pieces: pieces}, locfun.GlobalKey{})
	if err != nil {
		return nil, err
	}
	if err := f.ComputeAll(); err != nil {
		return nil, err
	}
	return f, nil
}
