package locfun

import (
	"github.com/zackkenyon/PuncturedFEM/mesh"
	"github.com/zackkenyon/PuncturedFEM/poly"
)

// IntegratePolyOverCell integrates a polynomial over the cell interior by
// the divergence identity: with P the partial antiderivative of p in x1,
// the volume integral equals the boundary integral of P n1.
func IntegratePolyOverCell(p poly.Poly, K *mesh.MeshCell) (float64, error) {
	P := p.AntiDerivX()
	x, y := K.BoundaryPoints()
	nx, _ := K.UnitNormals()
	dxn := K.DxNormVals()
	weighted := make([]float64, K.NumPts())
	for i := range weighted {
		weighted[i] = P.Eval(x[i], y[i]) * nx[i] * dxn[i]
	}
	return K.IntegrateOverBoundaryPreweighted(weighted)
}

// polyWeightedNormalDeriv samples the weighted normal derivative of a
// polynomial on the cell boundary.
func polyWeightedNormalDeriv(p poly.Poly, K *mesh.MeshCell) ([]float64, error) {
	gx, gy := p.Grad()
	x, y := K.BoundaryPoints()
	nd, err := K.DotWithNormal(gx.EvalSlice(x, y), gy.EvalSlice(x, y))
	if err != nil {
		return nil, err
	}
	return K.MultiplyByDxNorm(nd)
}
