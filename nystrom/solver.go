package nystrom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/zackkenyon/PuncturedFEM/mesh"
	"github.com/zackkenyon/PuncturedFEM/quadrature"
)

// condLimit is the condition estimate beyond which the factored operator
// is treated as singular; about four significant digits remain in double
// precision past this point.
const condLimit = 1e12

// selfIntersectRatio flags same-component node pairs whose chord distance
// collapses relative to their boundary arc separation.
const selfIntersectRatio = 0.05

// Solver holds the dense Nyström discretization of one parameterized mesh
// cell: the LU-factored single-layer operator, the double-layer matrix,
// and the precomputed logarithmic terms of the hole components. Build it
// once per cell and reuse it for every trace; reparameterizing the cell
// requires a new Solver.
type Solver struct {
	Cell    *mesh.MeshCell
	Verbose bool

	m      int
	h      float64
	corner []bool

	lu  mat.LU
	dlp *mat.Dense

	zeta     []complex128
	dz       []complex128
	holePts  []complex128
	logTrace [][]float64
	logWnd   [][]float64
}

// NewSolver assembles and factors the boundary integral operator of the
// cell. Degenerate sampled geometry and ill-conditioned factorizations
// both surface as ErrSingularOperator; no handle is returned on failure.
func NewSolver(K *mesh.MeshCell, verbose bool) (*Solver, error) {
	if !K.IsParameterized() {
		return nil, ErrCellNotParameterized
	}
	s := &Solver{
		Cell:    K,
		Verbose: verbose,
		m:       K.NumPts(),
		h:       K.H(),
	}
	if err := s.checkGeometry(); err != nil {
		return nil, err
	}
	s.precompute()

	slp := s.buildSingleLayer()
	s.dlp = s.buildDoubleLayer()

	s.lu.Factorize(slp)
	cond := s.lu.Cond()
	if math.IsNaN(cond) || cond > condLimit {
		return nil, fmt.Errorf("%w: condition estimate %.3e", ErrSingularOperator, cond)
	}
	if s.Verbose {
		fmt.Printf("nystrom: cell %d, %d boundary points, %d holes, cond %.3e\n",
			K.Idx, s.m, K.NumHoles(), cond)
	}
	return s, nil
}

// NumPts reports the boundary sample count the solver expects in traces.
func (s *Solver) NumPts() int { return s.m }

// NumHoles reports the number of hole components of the cell.
func (s *Solver) NumHoles() int { return s.Cell.NumHoles() }

// LogTrace returns the boundary trace of log|x - xi_j| for hole j.
func (s *Solver) LogTrace(j int) []float64 {
	return append([]float64(nil), s.logTrace[j]...)
}

// LogWeightedNormalDeriv returns the weighted normal derivative trace of
// log|x - xi_j| for hole j.
func (s *Solver) LogWeightedNormalDeriv(j int) []float64 {
	return append([]float64(nil), s.logWnd[j]...)
}

// checkGeometry rejects sampled boundaries that self-intersect or whose
// components nearly touch; such cells produce singular or meaningless
// operators regardless of conditioning. Subdividing the offending edges
// into shorter panels usually separates the samples enough to pass.
func (s *Solver) checkGeometry() error {
	K := s.Cell
	x, y := K.BoundaryPoints()
	dxn := K.DxNormVals()
	diag := K.BBoxDiag()
	if diag == 0 {
		return fmt.Errorf("%w: boundary collapses to a point", ErrSingularOperator)
	}

	// Cumulative arc length per node.
	arc := make([]float64, s.m)
	nc := len(K.Components)
	for c := 0; c < nc; c++ {
		lo, hi := K.ComponentStart(c), K.ComponentStart(c+1)
		var run float64
		for i := lo; i < hi; i++ {
			arc[i] = run
			run += s.h * dxn[i]
		}
	}

	for c := 0; c < nc; c++ {
		lo, hi := K.ComponentStart(c), K.ComponentStart(c+1)
		length := arc[hi-1] + s.h*dxn[hi-1] - arc[lo]
		for i := lo; i < hi; i++ {
			for j := i + 1; j < hi; j++ {
				chord := math.Hypot(x[i]-x[j], y[i]-y[j])
				along := arc[j] - arc[i]
				if sep := length - along; sep < along {
					along = sep
				}
				if chord < selfIntersectRatio*along {
					return fmt.Errorf("%w: boundary nearly self-intersects at (%g, %g)",
						ErrSingularOperator, x[i], y[i])
				}
			}
		}
	}

	// Distinct components must not touch.
	for i := 0; i < s.m; i++ {
		for j := i + 1; j < s.m; j++ {
			if K.ComponentOf(i) == K.ComponentOf(j) {
				continue
			}
			if math.Hypot(x[i]-x[j], y[i]-y[j]) < 1e-10*diag {
				return fmt.Errorf("%w: boundary components touch at (%g, %g)",
					ErrSingularOperator, x[i], y[i])
			}
		}
	}
	return nil
}

func (s *Solver) precompute() {
	K := s.Cell
	x, y := K.BoundaryPoints()
	tx, ty := K.UnitTangents()
	nx, ny := K.UnitNormals()
	dxn := K.DxNormVals()

	s.corner = make([]bool, s.m)
	s.zeta = make([]complex128, s.m)
	s.dz = make([]complex128, s.m)
	for i := 0; i < s.m; i++ {
		s.corner[i] = dxn[i] == 0
		s.zeta[i] = complex(x[i], y[i])
		s.dz[i] = complex(tx[i], ty[i]) * complex(dxn[i]*s.h, 0)
	}

	nh := K.NumHoles()
	s.holePts = make([]complex128, nh)
	s.logTrace = make([][]float64, nh)
	s.logWnd = make([][]float64, nh)
	for j := 0; j < nh; j++ {
		xi := K.HoleInteriorPoint(j)
		s.holePts[j] = complex(xi.X, xi.Y)
		tr := make([]float64, s.m)
		wnd := make([]float64, s.m)
		for i := 0; i < s.m; i++ {
			rx, ry := x[i]-xi.X, y[i]-xi.Y
			r2 := rx*rx + ry*ry
			tr[i] = 0.5 * math.Log(r2)
			wnd[i] = (rx*nx[i] + ry*ny[i]) / r2 * dxn[i]
		}
		s.logTrace[j] = tr
		s.logWnd[j] = wnd
	}
}

// buildSingleLayer assembles the matrix of the single-layer operator with
// kernel log(|x - y| / d) / 2pi acting on weighted densities. The log
// singularity lives on the diagonal blocks of the per-edge partition:
// within one edge the Kress-composed parameterization extends to a smooth
// 2pi-periodic function, so the Kussmaul-Martensen splitting applies edge
// by edge, with a trapezoid remainder. Off-edge blocks keep the raw
// kernel under the trapezoid rule; the density vanishes to high order at
// the shared corners, so the left-hand sum stays spectrally accurate
// there. Corner rows are replaced by identity rows pinning the density to
// zero, which it is exactly, since the Kress weights vanish at panel
// ends.
func (s *Solver) buildSingleLayer() *mat.Dense {
	K := s.Cell
	x, y := K.BoundaryPoints()
	dxn := K.DxNormVals()
	lnd := math.Log(K.BBoxDiag())
	n := K.N()
	pe := 2 * n

	mart, err := quadrature.NewRule(quadrature.Martensen, n, quadrature.DefaultKressP)
	if err != nil {
		panic(fmt.Sprintf("nystrom: martensen rule n = %d: %v", n, err))
	}

	A := mat.NewDense(s.m, s.m, nil)
	for i := 0; i < s.m; i++ {
		ei := i / pe
		for j := 0; j < s.m; j++ {
			if j/pe != ei {
				dist := math.Hypot(x[i]-x[j], y[i]-y[j])
				A.Set(i, j, s.h/(2*math.Pi)*(math.Log(dist)-lnd))
				continue
			}

			k := i - j
			if k < 0 {
				k += pe
			}
			sign := 1.0
			if k%2 == 1 {
				sign = -1
			}
			r := -4*math.Pi*mart.Wgt[k] + sign*math.Pi/float64(n*n)
			v := r / (4 * math.Pi)

			if i == j {
				if !s.corner[i] {
					v += s.h / (2 * math.Pi) * (math.Log(dxn[i]) - lnd)
				}
			} else {
				dist := math.Hypot(x[i]-x[j], y[i]-y[j])
				v += s.h / (2 * math.Pi) *
					(math.Log(dist) - 0.5*math.Log(mart.T[k]) - lnd)
			}
			A.Set(i, j, v)
		}
	}

	for i := 0; i < s.m; i++ {
		if !s.corner[i] {
			continue
		}
		for j := 0; j < s.m; j++ {
			A.Set(i, j, 0)
		}
		A.Set(i, i, 1)
	}
	return A
}

// buildDoubleLayer assembles the double-layer matrix acting on trace
// values, trapezoid in the sampling parameter with the curvature limit on
// the diagonal.
func (s *Solver) buildDoubleLayer() *mat.Dense {
	K := s.Cell
	x, y := K.BoundaryPoints()
	nx, ny := K.UnitNormals()
	dxn := K.DxNormVals()
	kappa := K.CurvatureVals()

	D := mat.NewDense(s.m, s.m, nil)
	for i := 0; i < s.m; i++ {
		if s.corner[i] {
			continue
		}
		for j := 0; j < s.m; j++ {
			if i == j {
				D.Set(i, i, -kappa[i]*dxn[i]*s.h/(4*math.Pi))
				continue
			}
			rx, ry := x[j]-x[i], y[j]-y[i]
			r2 := rx*rx + ry*ry
			D.Set(i, j, s.h/(2*math.Pi)*(rx*nx[j]+ry*ny[j])/r2*dxn[j])
		}
	}
	return D
}

// WeightedNormalDerivative solves the first-kind system for the weighted
// normal derivative of the harmonic function with the given trace, and
// returns it along with the logarithmic coefficients of the hole
// components.
func (s *Solver) WeightedNormalDerivative(trace []float64) (wnd, logCoef []float64, err error) {
	if len(trace) != s.m {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrTraceLength, len(trace), s.m)
	}
	phi := mat.NewVecDense(s.m, append([]float64(nil), trace...))

	rhs := mat.NewVecDense(s.m, nil)
	rhs.MulVec(s.dlp, phi)
	rhs.AddScaledVec(rhs, -0.5, phi)
	for i := 0; i < s.m; i++ {
		if s.corner[i] {
			rhs.SetVec(i, 0)
		}
	}

	u := mat.NewVecDense(s.m, nil)
	if err := s.lu.SolveVecTo(u, false, rhs); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSingularOperator, err)
	}

	// The flux through hole j determines its log coefficient.
	K := s.Cell
	logCoef = make([]float64, K.NumHoles())
	for j := range logCoef {
		lo, hi := K.ComponentStart(j+1), K.ComponentStart(j+2)
		var flux float64
		for i := lo; i < hi; i++ {
			flux += u.AtVec(i)
		}
		logCoef[j] = -s.h * flux / (2 * math.Pi)
	}

	wnd = make([]float64, s.m)
	for i := range wnd {
		wnd[i] = u.AtVec(i)
	}
	return wnd, logCoef, nil
}

// GetHarmonicConjugate returns the boundary trace of a harmonic conjugate
// of the conjugable part of the harmonic function with the given trace,
// together with the logarithmic coefficients of the hole components. The
// conjugate has zero mean on the outer component; hole-component constants
// are fixed so the conjugable part extends to a single-valued analytic
// function on the cell.
func (s *Solver) GetHarmonicConjugate(trace []float64) (conj, logCoef []float64, err error) {
	u, logCoef, err := s.WeightedNormalDerivative(trace)
	if err != nil {
		return nil, nil, err
	}
	K := s.Cell

	// Conjugable part and its weighted normal derivative.
	psi := append([]float64(nil), trace...)
	wndPsi := append([]float64(nil), u...)
	for j, a := range logCoef {
		for i := 0; i < s.m; i++ {
			psi[i] -= a * s.logTrace[j][i]
			wndPsi[i] -= a * s.logWnd[j][i]
		}
	}

	// Cauchy-Riemann: the parameter derivative of the conjugate equals
	// the weighted normal derivative of the conjugable part.
	zero := make([]float64, s.m)
	conj, _, err = K.AntiderivativeBoundary(wndPsi, zero)
	if err != nil {
		return nil, nil, err
	}

	// Fix the hole-component constants: the Cauchy integral of the
	// analytic completion vanishes at each hole interior point.
	for k := 0; k < K.NumHoles(); k++ {
		var acc complex128
		for i := 0; i < s.m; i++ {
			f := complex(psi[i], conj[i])
			acc += f / (s.zeta[i] - s.holePts[k]) * s.dz[i]
		}
		ck := -real(acc) / (2 * math.Pi)
		lo, hi := K.ComponentStart(k+1), K.ComponentStart(k+2)
		for i := lo; i < hi; i++ {
			conj[i] += ck
		}
	}
	return conj, logCoef, nil
}
