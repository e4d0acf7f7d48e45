package locfun

import (
	"fmt"
	"math"
)

// ComputeInteriorValues evaluates the function and its gradient on grids
// of interior points, typically produced by GenerateInteriorPoints on the
// cell. Points masked out by inside receive NaN. The results are stored
// in IntVals, IntGrad1 and IntGrad2.
//
// The harmonic part is recovered from its boundary data by the Cauchy
// integral formula applied to the analytic completion of the conjugable
// part, with the logarithmic terms evaluated directly.
func (v *LocalFunction) ComputeInteriorValues(x, y [][]float64, inside [][]bool) error {
	if len(x) != len(y) || len(x) != len(inside) {
		return ErrGridShape
	}
	for r := range x {
		if len(x[r]) != len(y[r]) || len(x[r]) != len(inside[r]) {
			return ErrGridShape
		}
	}
	psi, err := v.ConjugablePart()
	if err != nil {
		return err
	}
	if v.ConjTrace == nil {
		return fmt.Errorf("%w: harmonic conjugate", ErrMissingStage)
	}
	psiHat := v.ConjTrace

	K := v.Nyst.Cell
	numPts := K.NumPts()
	bx, by := K.BoundaryPoints()
	tx, ty := K.UnitTangents()
	dxn := K.DxNormVals()
	h := K.H()

	numHoles := K.NumHoles()
	holeX := make([]float64, numHoles)
	holeY := make([]float64, numHoles)
	for j := 0; j < numHoles; j++ {
		xi := K.HoleInteriorPoint(j)
		holeX[j], holeY[j] = xi.X, xi.Y
	}

	px, py := v.PolyPart.Grad()

	vals := make([][]float64, len(x))
	grad1 := make([][]float64, len(x))
	grad2 := make([][]float64, len(x))
	for r := range x {
		vals[r] = make([]float64, len(x[r]))
		grad1[r] = make([]float64, len(x[r]))
		grad2[r] = make([]float64, len(x[r]))
		for c := range x[r] {
			if !inside[r][c] {
				vals[r][c] = math.NaN()
				grad1[r][c] = math.NaN()
				grad2[r][c] = math.NaN()
				continue
			}
			ptX, ptY := x[r][c], y[r][c]

			var val, g1, g2 float64
			for i := 0; i < numPts; i++ {
				xy1 := bx[i] - ptX
				xy2 := by[i] - ptY
				r2 := xy1*xy1 + xy2*xy2

				eta := (xy1*psi[i] + xy2*psiHat[i]) / r2
				etaHat := (xy1*psiHat[i] - xy2*psi[i]) / r2
				val += (etaHat*tx[i] + eta*ty[i]) * dxn[i]

				omega := (xy1*eta + xy2*etaHat) / r2
				omegaHat := (xy1*etaHat - xy2*eta) / r2
				g1 += (omegaHat*tx[i] + omega*ty[i]) * dxn[i]
				g2 += (omega*tx[i] - omegaHat*ty[i]) * dxn[i]
			}
			scale := h / (2 * math.Pi)
			val *= scale
			g1 *= scale
			g2 *= scale

			val += v.PolyPart.Eval(ptX, ptY)
			g1 += px.Eval(ptX, ptY)
			g2 += py.Eval(ptX, ptY)

			for j := 0; j < numHoles; j++ {
				a := 0.0
				if v.LogCoef != nil {
					a = v.LogCoef[j]
				}
				w1 := ptX - holeX[j]
				w2 := ptY - holeY[j]
				rr := w1*w1 + w2*w2
				val += 0.5 * a * math.Log(rr)
				g1 += a * w1 / rr
				g2 += a * w2 / rr
			}

			vals[r][c] = val
			grad1[r][c] = g1
			grad2[r][c] = g2
		}
	}
	v.IntVals = vals
	v.IntGrad1 = grad1
	v.IntGrad2 = grad2
	return nil
}
