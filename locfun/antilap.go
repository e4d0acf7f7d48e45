package locfun

import (
	"math"
	"math/cmplx"

	"github.com/zackkenyon/PuncturedFEM/mesh"
)

// antiLaplacianHarmonic returns boundary values and the weighted normal
// derivative of a function Phi with Lap Phi equal to the harmonic part,
// given the trace psi of the conjugable part, its conjugate trace psiHat,
// and the logarithmic coefficients.
//
// Writing f = psi + i psiHat for the boundary values of the analytic
// completion, the construction is complex-analytic. The periods of f
// around the holes are removed by subtracting residue terms c_j/(z-xi_j),
// leaving a function with a single-valued antiderivative F recovered by
// componentwise spectral integration; the integration constants on the
// hole components follow from the Cauchy integral of F against each hole
// point. Then Phi = Re(conj(z) F)/4 satisfies Lap Phi = Re f, and the
// residue and logarithmic corrections are integrated in closed form.
func antiLaplacianHarmonic(K *mesh.MeshCell, psi, psiHat, logCoef []float64) (trace, wnd []float64, err error) {
	if err := checkCellLen(K, psi); err != nil {
		return nil, nil, err
	}
	if err := checkCellLen(K, psiHat); err != nil {
		return nil, nil, err
	}
	numPts := K.NumPts()
	x, y := K.BoundaryPoints()
	tx, ty := K.UnitTangents()
	nx, ny := K.UnitNormals()
	dxn := K.DxNormVals()
	h := K.H()
	numHoles := K.NumHoles()

	z := make([]complex128, numPts)
	f := make([]complex128, numPts)
	dz := make([]complex128, numPts)
	for i := 0; i < numPts; i++ {
		z[i] = complex(x[i], y[i])
		f[i] = complex(psi[i], psiHat[i])
		dz[i] = complex(tx[i], ty[i]) * complex(dxn[i]*h, 0)
	}

	// Residue coefficients killing the periods of f around each hole.
	holePts := make([]complex128, numHoles)
	resCoef := make([]complex128, numHoles)
	for j := 0; j < numHoles; j++ {
		xi := K.HoleInteriorPoint(j)
		holePts[j] = complex(xi.X, xi.Y)
		lo, hi := K.ComponentStart(j+1), componentEnd(K, j+1)
		var period complex128
		for i := lo; i < hi; i++ {
			period += f[i] * dz[i]
		}
		resCoef[j] = period / complex(0, -2*math.Pi)
	}

	ft := make([]complex128, numPts)
	copy(ft, f)
	for j := 0; j < numHoles; j++ {
		for i := 0; i < numPts; i++ {
			ft[i] -= resCoef[j] / (z[i] - holePts[j])
		}
	}

	// Spectral antiderivative of ft dz/dt, then fix the integration
	// constant of each hole component by the Cauchy integral, keeping the
	// outer component as computed.
	gRe := make([]float64, numPts)
	gIm := make([]float64, numPts)
	for i := 0; i < numPts; i++ {
		g := ft[i] * complex(tx[i], ty[i]) * complex(dxn[i], 0)
		gRe[i] = real(g)
		gIm[i] = imag(g)
	}
	fRe, fIm, err := K.AntiderivativeBoundary(gRe, gIm)
	if err != nil {
		return nil, nil, err
	}
	F := make([]complex128, numPts)
	for i := 0; i < numPts; i++ {
		F[i] = complex(fRe[i], fIm[i])
	}
	for j := 0; j < numHoles; j++ {
		var a complex128
		for i := 0; i < numPts; i++ {
			a += F[i] / (z[i] - holePts[j]) * dz[i]
		}
		c := a / complex(0, 2*math.Pi)
		lo, hi := K.ComponentStart(j+1), componentEnd(K, j+1)
		for i := lo; i < hi; i++ {
			F[i] += c
		}
	}

	trace = make([]float64, numPts)
	gradX := make([]float64, numPts)
	gradY := make([]float64, numPts)
	for i := 0; i < numPts; i++ {
		zb := cmplx.Conj(z[i])
		trace[i] = 0.25 * real(zb*F[i])
		d := zb*ft[i] + cmplx.Conj(F[i])
		gradX[i] = 0.25 * real(d)
		gradY[i] = -0.25 * imag(d)
	}

	// Logarithmic and residue corrections, integrated in closed form:
	// Lap [r^2 (log r - 1)/4] = log r and, with T = Re(c conj(w)),
	// Lap [T log r / 2] = T / r^2 = Re(c / w).
	for j := 0; j < numHoles; j++ {
		a := 0.0
		if logCoef != nil {
			a = logCoef[j]
		}
		alpha, beta := real(resCoef[j]), imag(resCoef[j])
		for i := 0; i < numPts; i++ {
			w1 := x[i] - real(holePts[j])
			w2 := y[i] - imag(holePts[j])
			r2 := w1*w1 + w2*w2
			logR := 0.5 * math.Log(r2)
			t := alpha*w1 + beta*w2

			trace[i] += a*0.25*r2*(logR-1) + 0.5*t*logR - 0.25*t
			gradX[i] += a*(0.5*logR-0.25)*w1 + 0.5*alpha*logR + 0.5*t*w1/r2 - 0.25*alpha
			gradY[i] += a*(0.5*logR-0.25)*w2 + 0.5*beta*logR + 0.5*t*w2/r2 - 0.25*beta
		}
	}

	wnd = make([]float64, numPts)
	for i := 0; i < numPts; i++ {
		wnd[i] = (gradX[i]*nx[i] + gradY[i]*ny[i]) * dxn[i]
	}
	return trace, wnd, nil
}

func componentEnd(K *mesh.MeshCell, c int) int { return K.ComponentStart(c + 1) }

func checkCellLen(K *mesh.MeshCell, vals []float64) error {
	if len(vals) != K.NumPts() {
		return ErrTraceLength
	}
	return nil
}
