package locfun

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zackkenyon/PuncturedFEM/mesh"
	"github.com/zackkenyon/PuncturedFEM/nystrom"
	"github.com/zackkenyon/PuncturedFEM/poly"
	"github.com/zackkenyon/PuncturedFEM/quadrature"
)

func paramCell(t *testing.T, n int, edges []*mesh.Edge) *mesh.MeshCell {
	t.Helper()
	set, err := quadrature.NewSet(n)
	require.NoError(t, err)
	K, err := mesh.NewMeshCell(0, edges)
	require.NoError(t, err)
	require.NoError(t, K.Parameterize(set))
	return K
}

func squareSolver(t *testing.T, n int) *nystrom.Solver {
	t.Helper()
	vs := []*mesh.Vert{
		mesh.NewVert(0, 0), mesh.NewVert(1, 0),
		mesh.NewVert(1, 1), mesh.NewVert(0, 1),
	}
	var edges []*mesh.Edge
	for i := range vs {
		e, err := mesh.NewEdge(vs[i], vs[(i+1)%4], mesh.Line{}, "kress")
		require.NoError(t, err)
		e.SetCells(0, -1)
		edges = append(edges, e)
	}
	s, err := nystrom.NewSolver(paramCell(t, n, edges), false)
	require.NoError(t, err)
	return s
}

func annulusSolver(t *testing.T, n int) *nystrom.Solver {
	t.Helper()
	c := mesh.NewVert(0, 0)
	outer, err := mesh.NewEdge(c, c, mesh.Circle{R: 1}, "trap")
	require.NoError(t, err)
	outer.SetCells(0, -1)
	inner, err := mesh.NewEdge(c, c, mesh.Circle{R: 0.25}, "trap")
	require.NoError(t, err)
	inner.SetCells(-1, 0)
	K := paramCell(t, n, []*mesh.Edge{outer, inner})
	K.Components[1].SetInteriorPoint(mesh.NewVert(0, 0))
	s, err := nystrom.NewSolver(K, false)
	require.NoError(t, err)
	return s
}

// puncturedSquareSolver builds the unit square with a circular hole of
// radius 1/4 centered at (1/2, 1/2).
func puncturedSquareSolver(t *testing.T, n int) *nystrom.Solver {
	t.Helper()
	vs := []*mesh.Vert{
		mesh.NewVert(0, 0), mesh.NewVert(1, 0),
		mesh.NewVert(1, 1), mesh.NewVert(0, 1),
	}
	var edges []*mesh.Edge
	for i := range vs {
		e, err := mesh.NewEdge(vs[i], vs[(i+1)%4], mesh.Line{}, "kress")
		require.NoError(t, err)
		e.SetCells(0, -1)
		edges = append(edges, e)
	}
	c := mesh.NewVert(0.5, 0.5)
	hole, err := mesh.NewEdge(c, c, mesh.Circle{R: 0.25}, "trap")
	require.NoError(t, err)
	hole.SetCells(-1, 0)
	edges = append(edges, hole)
	K := paramCell(t, n, edges)
	K.Components[1].SetInteriorPoint(mesh.NewVert(0.5, 0.5))
	s, err := nystrom.NewSolver(K, false)
	require.NoError(t, err)
	return s
}

// polyFun builds the local function equal to the polynomial p.
func polyFun(t *testing.T, s *nystrom.Solver, p poly.Poly) *LocalFunction {
	t.Helper()
	pieces := poly.NewPiecewise(s.Cell.NumEdges())
	pieces.SetAll(p)
	fn, err := New(s, p.Laplacian(), PolyTrace{Pieces: pieces}, GlobalKey{})
	require.NoError(t, err)
	require.NoError(t, fn.ComputeAll())
	return fn
}

func TestPolynomialReproductionSquare(t *testing.T) {
	s := squareSolver(t, 32)

	// v = x^2 y, w = x + y on the unit square.
	v := polyFun(t, s, poly.New(poly.Term{Coef: 1, I: 2, J: 1}))
	w := polyFun(t, s, poly.New(
		poly.Term{Coef: 1, I: 1, J: 0},
		poly.Term{Coef: 1, I: 0, J: 1},
	))

	h1, err := v.H1SemiInnerProduct(w)
	require.NoError(t, err)
	assert.InDelta(t, 5.0/6.0, h1, 1e-8)

	l2, err := v.L2InnerProduct(w)
	require.NoError(t, err)
	assert.InDelta(t, 17.0/72.0, l2, 1e-8)

	// Symmetry.
	h1T, err := w.H1SemiInnerProduct(v)
	require.NoError(t, err)
	assert.InDelta(t, h1, h1T, 1e-10)
	l2T, err := w.L2InnerProduct(v)
	require.NoError(t, err)
	assert.InDelta(t, l2, l2T, 1e-10)
}

func TestConstantFunctionSquare(t *testing.T) {
	// The graded quadrature floor on the square sits just above 1e-10 at
	// n = 16; n = 32 leaves headroom below the target tolerance.
	s := squareSolver(t, 32)
	v := polyFun(t, s, poly.Constant(1))

	l2, err := v.L2InnerProduct(v)
	require.NoError(t, err)
	assert.InDelta(t, 1, l2, 1e-10)

	h1, err := v.H1SemiInnerProduct(v)
	require.NoError(t, err)
	assert.InDelta(t, 0, h1, 1e-10)
}

func TestHarmonicLinearSquare(t *testing.T) {
	s := squareSolver(t, 32)
	v := polyFun(t, s, poly.New(poly.Term{Coef: 1, I: 1, J: 0}))

	h1, err := v.H1SemiInnerProduct(v)
	require.NoError(t, err)
	assert.InDelta(t, 1, h1, 1e-9)

	l2, err := v.L2InnerProduct(v)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, l2, 1e-9)
}

func TestAnnulusLogFunction(t *testing.T) {
	s := annulusSolver(t, 32)
	K := s.Cell
	x, y := K.BoundaryPoints()
	trace := make([]float64, len(x))
	for i := range x {
		trace[i] = 0.5 * math.Log(x[i]*x[i]+y[i]*y[i])
	}
	v, err := New(s, poly.Poly{}, PointwiseTrace{Values: trace}, GlobalKey{})
	require.NoError(t, err)
	require.NoError(t, v.ComputeAll())

	require.Len(t, v.LogCoef, 1)
	assert.InDelta(t, 1, v.LogCoef[0], 1e-10)

	// integral of 1/r^2 over the annulus 1/4 < r < 1.
	h1, err := v.H1SemiInnerProduct(v)
	require.NoError(t, err)
	assert.InDelta(t, 2*math.Pi*math.Log(4), h1, 1e-8)

	// integral of log^2 r, by the radial antiderivative
	// r^2 (log^2 r - log r + 1/2) / 2.
	prim := func(r float64) float64 {
		lr := math.Log(r)
		return 0.5 * r * r * (lr*lr - lr + 0.5)
	}
	want := 2 * math.Pi * (prim(1) - prim(0.25))
	l2, err := v.L2InnerProduct(v)
	require.NoError(t, err)
	assert.InDelta(t, want, l2, 1e-8)
}

func TestAnnulusSymmetry(t *testing.T) {
	s := annulusSolver(t, 32)
	K := s.Cell
	x, y := K.BoundaryPoints()

	logTrace := make([]float64, len(x))
	for i := range x {
		logTrace[i] = 0.5 * math.Log(x[i]*x[i]+y[i]*y[i])
	}
	v, err := New(s, poly.Poly{}, PointwiseTrace{Values: logTrace}, GlobalKey{})
	require.NoError(t, err)
	require.NoError(t, v.ComputeAll())

	w := polyFun(t, s, poly.New(
		poly.Term{Coef: 1, I: 2, J: 0},
		poly.Term{Coef: 1, I: 1, J: 1},
	))

	h1vw, err := v.H1SemiInnerProduct(w)
	require.NoError(t, err)
	h1wv, err := w.H1SemiInnerProduct(v)
	require.NoError(t, err)
	assert.InDelta(t, h1vw, h1wv, 1e-9)

	l2vw, err := v.L2InnerProduct(w)
	require.NoError(t, err)
	l2wv, err := w.L2InnerProduct(v)
	require.NoError(t, err)
	assert.InDelta(t, l2vw, l2wv, 1e-9)
}

func TestInteriorValuesHarmonicPolynomial(t *testing.T) {
	s := squareSolver(t, 32)
	K := s.Cell

	// v = x^3 - 3 x y^2 is harmonic, so interior reconstruction goes
	// through the full conjugate pipeline.
	p := poly.New(
		poly.Term{Coef: 1, I: 3, J: 0},
		poly.Term{Coef: -3, I: 1, J: 2},
	)
	v := polyFun(t, s, p)

	x, y, inside, err := K.GenerateInteriorPoints(8, 8)
	require.NoError(t, err)
	require.NoError(t, v.ComputeInteriorValues(x, y, inside))

	px, py := p.Grad()
	checked := 0
	for r := range x {
		for c := range x[r] {
			if !inside[r][c] {
				assert.True(t, math.IsNaN(v.IntVals[r][c]))
				continue
			}
			checked++
			assert.InDelta(t, p.Eval(x[r][c], y[r][c]), v.IntVals[r][c], 1e-6)
			assert.InDelta(t, px.Eval(x[r][c], y[r][c]), v.IntGrad1[r][c], 1e-5)
			assert.InDelta(t, py.Eval(x[r][c], y[r][c]), v.IntGrad2[r][c], 1e-5)
		}
	}
	assert.Greater(t, checked, 10)
}

func TestSpaceDimensions(t *testing.T) {
	s := squareSolver(t, 16)
	sp, err := NewSpace(s, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, sp.NumVertFuns())
	assert.Equal(t, 8, sp.NumEdgeFuns())
	assert.Equal(t, 3, sp.NumBubbFuns())
	assert.Equal(t, 15, sp.NumFuns())

	// Loops carry no vertex or edge functions.
	sa := annulusSolver(t, 16)
	spA, err := NewSpace(sa, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, spA.NumVertFuns())
	assert.Equal(t, 0, spA.NumEdgeFuns())
	assert.Equal(t, 1, spA.NumBubbFuns())

	_, err = NewSpace(s, 0)
	assert.ErrorIs(t, err, ErrBadDegree)
}

func TestVertexFunsPartitionOfUnity(t *testing.T) {
	s := squareSolver(t, 32)
	sp, err := NewSpace(s, 1)
	require.NoError(t, err)
	require.Equal(t, 4, sp.NumFuns())
	require.NoError(t, sp.ComputeAll(true))

	// The vertex functions sum to one, so the sum has zero energy and
	// unit mass on the unit square.
	funs := sp.Funs()
	var h1Sum, l2Sum float64
	for _, v := range funs {
		for _, w := range funs {
			h1, err := v.H1SemiInnerProduct(w)
			require.NoError(t, err)
			h1Sum += h1
			l2, err := v.L2InnerProduct(w)
			require.NoError(t, err)
			l2Sum += l2
		}
	}
	assert.InDelta(t, 0, h1Sum, 1e-8)
	assert.InDelta(t, 1, l2Sum, 1e-8)
}

func TestTraceSourceErrors(t *testing.T) {
	s := squareSolver(t, 16)

	_, err := New(s, poly.Poly{}, PointwiseTrace{Values: make([]float64, 3)}, GlobalKey{})
	assert.ErrorIs(t, err, ErrTraceLength)

	_, err = New(s, poly.Poly{}, PolyTrace{Pieces: poly.NewPiecewise(2)}, GlobalKey{})
	assert.ErrorIs(t, err, ErrPieceCount)
}

func TestStageOrderAndClear(t *testing.T) {
	s := squareSolver(t, 16)
	v, err := New(s, poly.Poly{}, nil, GlobalKey{})
	require.NoError(t, err)

	_, err = v.H1SemiInnerProduct(v)
	assert.ErrorIs(t, err, ErrMissingStage)
	err = v.ComputePolynomialPartTrace()
	assert.ErrorIs(t, err, ErrMissingStage)

	require.NoError(t, v.ComputeAll())
	_, err = v.H1SemiInnerProduct(v)
	require.NoError(t, err)

	v.Clear()
	_, err = v.H1SemiInnerProduct(v)
	assert.ErrorIs(t, err, ErrMissingStage)
}

// ghostSolver builds a domain with a wavy bottom edge, a semicircular
// top, and two elliptical holes.
func ghostSolver(t *testing.T, n int) *nystrom.Solver {
	t.Helper()
	v0 := mesh.NewVert(0, 0)
	v1 := mesh.NewVert(1, 0)
	v2 := mesh.NewVert(1, 0.8)
	v3 := mesh.NewVert(0, 0.8)
	v4 := mesh.NewVert(0.25, 0.7)
	v5 := mesh.NewVert(0.75, 0.7)

	mk := func(a, b *mesh.Vert, crv mesh.Curve, quad string, pos, neg int) *mesh.Edge {
		e, err := mesh.NewEdge(a, b, crv, quad)
		require.NoError(t, err)
		e.SetCells(pos, neg)
		return e
	}
	edges := []*mesh.Edge{
		mk(v0, v1, mesh.SineWave{Amp: 0.1, Freq: 6}, "kress", 0, -1),
		mk(v1, v2, mesh.Line{}, "kress", 0, -1),
		mk(v2, v3, mesh.CircularArc{ThetaDeg: 180}, "kress", 0, -1),
		mk(v3, v0, mesh.Line{}, "kress", 0, -1),
		mk(v4, v4, mesh.Ellipse{A: 0.15, B: 0.2}, "trap", -1, 0),
		mk(v5, v5, mesh.Ellipse{A: 0.15, B: 0.2}, "trap", -1, 0),
	}
	K := paramCell(t, n, edges)
	require.Equal(t, 2, K.NumHoles())
	for j := 1; j <= 2; j++ {
		ip := K.Components[j].InteriorPoint()
		if math.Abs(ip.X-0.25) < math.Abs(ip.X-0.75) {
			K.Components[j].SetInteriorPoint(mesh.NewVert(0.25, 0.7))
		} else {
			K.Components[j].SetInteriorPoint(mesh.NewVert(0.75, 0.7))
		}
	}
	s, err := nystrom.NewSolver(K, false)
	require.NoError(t, err)
	return s
}

func TestGhostInnerProducts(t *testing.T) {
	s := ghostSolver(t, 64)
	K := s.Cell
	x, y := K.BoundaryPoints()

	vTrace := make([]float64, len(x))
	wTrace := make([]float64, len(x))
	for i := range x {
		x1, x2 := x[i], y[i]
		a1, a2 := x1-0.25, x2-0.7
		b1, b2 := x1-0.75, x2-0.7
		vTrace[i] = a1/(a1*a1+a2*a2) + x1*x1*x1*x2 + x2*x2
		wTrace[i] = math.Log(b1*b1+b2*b2) + x1*x1*x2*x2 - x1*x2*x2*x2
	}

	v, err := New(s, poly.New(
		poly.Term{Coef: 6, I: 1, J: 1},
		poly.Term{Coef: 2, I: 0, J: 0},
	), PointwiseTrace{Values: vTrace}, GlobalKey{})
	require.NoError(t, err)
	require.NoError(t, v.ComputeAll())

	w, err := New(s, poly.New(
		poly.Term{Coef: 2, I: 2, J: 0},
		poly.Term{Coef: -6, I: 1, J: 1},
		poly.Term{Coef: 2, I: 0, J: 2},
	), PointwiseTrace{Values: wTrace}, GlobalKey{})
	require.NoError(t, err)
	require.NoError(t, w.ComputeAll())

	// v has a pure pole at the first hole point, no log part; w has log
	// coefficient 2 at the second hole point.
	for j := 0; j < 2; j++ {
		assert.InDelta(t, 0, v.LogCoef[j], 1e-9)
		want := 0.0
		if K.HoleInteriorPoint(j).X == 0.75 {
			want = 2
		}
		assert.InDelta(t, want, w.LogCoef[j], 1e-9)
	}

	h1, err := v.H1SemiInnerProduct(w)
	require.NoError(t, err)
	assert.InDelta(t, -6.311053612386, h1, 1e-8)

	l2, err := v.L2InnerProduct(w)
	require.NoError(t, err)
	assert.InDelta(t, -3.277578636852, l2, 1e-8)
}

func TestInnerProductConvergence(t *testing.T) {
	// Errors for a fixed smooth problem must not grow as sampling
	// increases.
	var errs []float64
	for _, n := range []int{8, 16, 32} {
		s := annulusSolver(t, n)
		v := polyFun(t, s, poly.New(poly.Term{Coef: 1, I: 1, J: 0}))
		l2, err := v.L2InnerProduct(v)
		require.NoError(t, err)
		// integral of x^2 over the annulus 1/4 < r < 1.
		want := math.Pi / 4 * (1 - math.Pow(0.25, 4))
		errs = append(errs, math.Abs(l2-want))
	}
	for i := 1; i < len(errs); i++ {
		assert.Less(t, errs[i], 2*errs[i-1]+1e-13)
	}
	assert.Less(t, errs[len(errs)-1], 1e-8)
}

func TestPuncturedSquareInnerProducts(t *testing.T) {
	s := puncturedSquareSolver(t, 64)
	K := s.Cell
	x, y := K.BoundaryPoints()

	vTrace := make([]float64, len(x))
	wTrace := make([]float64, len(x))
	for i := range x {
		x1, x2 := x[i], y[i]
		w1, w2 := x1-0.5, x2-0.5
		r2 := w1*w1 + w2*w2
		vTrace[i] = math.Exp(x1)*math.Cos(x2) + 0.5*math.Log(r2) +
			x1*x1*x1*x2 + x1*x2*x2*x2
		wTrace[i] = w1/r2 + x1*x1*x1 + x1*x2*x2
	}

	v, err := New(s, poly.New(poly.Term{Coef: 12, I: 1, J: 1}),
		PointwiseTrace{Values: vTrace}, GlobalKey{})
	require.NoError(t, err)
	require.NoError(t, v.ComputeAll())

	w, err := New(s, poly.New(poly.Term{Coef: 8, I: 1, J: 0}),
		PointwiseTrace{Values: wTrace}, GlobalKey{})
	require.NoError(t, err)
	require.NoError(t, w.ComputeAll())

	assert.InDelta(t, 1, v.LogCoef[0], 1e-9)
	assert.InDelta(t, 0, w.LogCoef[0], 1e-9)

	h1, err := v.H1SemiInnerProduct(w)
	require.NoError(t, err)
	assert.InDelta(t, 4.46481780319135, h1, 1e-8)

	l2, err := v.L2InnerProduct(w)
	require.NoError(t, err)
	assert.InDelta(t, 1.39484950156676, l2, 1e-8)
}
