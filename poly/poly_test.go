package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexRoundTrip(t *testing.T) {
	// (0,0) -> 0, degree-1 block {1,2}, degree-2 block {3,4,5}, ...
	assert.Equal(t, 0, Index(0, 0))
	assert.Equal(t, 1, Index(1, 0))
	assert.Equal(t, 2, Index(0, 1))
	assert.Equal(t, 3, Index(2, 0))
	assert.Equal(t, 4, Index(1, 1))
	assert.Equal(t, 5, Index(0, 2))

	for idx := 0; idx < 66; idx++ {
		i, j := Exponents(idx)
		assert.Equal(t, idx, Index(i, j))
	}
	assert.Equal(t, 6, DimDegree(2))
	assert.Equal(t, 10, DimDegree(3))
}

func TestConsolidationAndArithmetic(t *testing.T) {
	p := New(
		Term{Coef: 1, I: 1, J: 0},
		Term{Coef: 2, I: 0, J: 1},
		Term{Coef: -1, I: 1, J: 0},
	)
	// x - x cancels, leaving 2y.
	require.Len(t, p.Terms, 1)
	assert.Equal(t, 2.0, p.Eval(5, 1))

	q := New(Term{Coef: 1, I: 1}, Term{Coef: 1, J: 1}) // x + y
	prod := q.Mul(q)                                   // x^2 + 2xy + y^2
	assert.Equal(t, 2, prod.Degree())
	assert.InDelta(t, 9, prod.Eval(1, 2), 1e-14)

	sq, err := q.Pow(2)
	require.NoError(t, err)
	assert.True(t, sq.Equal(prod, 1e-14))

	_, err = q.Pow(-1)
	assert.ErrorIs(t, err, ErrBadExponent)

	diff := prod.Sub(prod)
	assert.True(t, diff.IsZero())
	assert.Equal(t, -1, diff.Degree())
}

func TestFromIndexed(t *testing.T) {
	// x^2 + y^2 via the degree-2 block endpoints.
	p, err := FromIndexed([]float64{1, 1}, []int{3, 5})
	require.NoError(t, err)
	assert.InDelta(t, 25, p.Eval(3, 4), 1e-14)

	_, err = FromIndexed([]float64{1}, []int{3, 5})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = FromIndexed([]float64{1}, []int{-2})
	assert.ErrorIs(t, err, ErrBadIndex)
}

func TestCalculus(t *testing.T) {
	// p = x^3 y + 2 x y^2
	p := New(Term{Coef: 1, I: 3, J: 1}, Term{Coef: 2, I: 1, J: 2})

	gx, gy := p.Grad()
	assert.InDelta(t, 3*4*2+2*4, gx.Eval(2, 2), 1e-13)   // 3x^2 y + 2y^2
	assert.InDelta(t, 8+2*2*2*2, gy.Eval(2, 2), 1e-13)   // x^3 + 4xy
	assert.InDelta(t, 6*2*2+4*2, p.Laplacian().Eval(2, 2), 1e-13)

	// Composition p(q1, q2) evaluated pointwise.
	q1 := New(Term{Coef: 1, I: 1}, Term{Coef: 1})       // x + 1
	q2 := New(Term{Coef: 2, J: 1})                      // 2y
	comp, err := p.Compose(q1, q2)
	require.NoError(t, err)
	assert.InDelta(t, p.Eval(q1.Eval(0.3, -0.7), q2.Eval(0.3, -0.7)),
		comp.Eval(0.3, -0.7), 1e-13)
}

func TestAntiLaplacianRoundTrip(t *testing.T) {
	// Laplacian(AntiLaplacian(p)) == p for a spread of monomials.
	for idx := 0; idx < DimDegree(5); idx++ {
		m := Monomial(idx)
		back := m.AntiLaplacian().Laplacian()
		assert.True(t, back.Equal(m, 1e-12), "index %d: got %v", idx, back)
	}

	// Deterministic: two independent builds agree exactly.
	p := New(Term{Coef: 3, I: 2, J: 1}, Term{Coef: -1, J: 3})
	a := p.AntiLaplacian()
	b := p.AntiLaplacian()
	assert.True(t, a.Equal(b, 0))
}

func TestAntiDerivX(t *testing.T) {
	p := New(Term{Coef: 6, I: 2, J: 1})
	ad := p.AntiDerivX() // 2 x^3 y
	assert.True(t, ad.PartialX().Equal(p, 1e-14))
}

func TestEvalSlice(t *testing.T) {
	p := New(Term{Coef: 1, I: 1}, Term{Coef: 1, J: 1})
	x := []float64{0, 1, 2}
	y := []float64{3, 4, 5}
	vals := p.EvalSlice(x, y)
	require.Len(t, vals, 3)
	assert.Equal(t, []float64{3, 5, 7}, vals)
}

func TestPiecewise(t *testing.T) {
	pw := NewPiecewise(3)
	require.Equal(t, 3, pw.NumEdges())

	err := pw.SetPiece(1, Constant(2))
	require.NoError(t, err)
	assert.InDelta(t, 2, pw.Piece(1).Eval(0, 0), 1e-15)
	assert.True(t, pw.Piece(0).IsZero())

	assert.ErrorIs(t, pw.SetPiece(5, Constant(1)), ErrBadIndex)

	pw.SetAll(Constant(1))
	for e := 0; e < 3; e++ {
		assert.InDelta(t, 1, pw.Piece(e).Eval(9, 9), 1e-15)
	}
}
