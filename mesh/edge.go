package mesh

import (
	"fmt"
	"math"

	"github.com/zackkenyon/PuncturedFEM/quadrature"
)

// coincidenceTol is the tolerance for vertex and endpoint coincidence
// checks.
const coincidenceTol = 1e-12

// Edge is an oriented curve between two vertices (or a closed loop when the
// curve is closed). Before Parameterize it carries only topology and the
// curve description; afterwards it holds 2n+1 sampled points with unit
// tangents, outward unit normals, the weighted speed DxNorm and the signed
// curvature.
type Edge struct {
	Anchor, Endpnt *Vert
	PosCellIdx     int
	NegCellIdx     int
	Curve          Curve
	QuadName       string
	ID             int

	IsParameterized bool
	N               int
	NumPts          int
	X, Y            []float64
	TanX, TanY      []float64
	NorX, NorY      []float64
	DxNorm          []float64
	Curvature       []float64
}

// NewEdge builds an unparameterized edge. Closed curves require
// anchor == endpnt; the sampled loop is translated so it starts at the
// anchor.
func NewEdge(anchor, endpnt *Vert, curve Curve, quadName string) (*Edge, error) {
	if err := curve.Validate(); err != nil {
		return nil, err
	}
	if curve.IsClosed() && anchor != endpnt {
		return nil, fmt.Errorf("%w: closed curve %q needs anchor == endpoint",
			ErrBadCurveParam, curve.Name())
	}
	if !curve.IsClosed() && anchor.CoincidesWith(endpnt, coincidenceTol) {
		return nil, fmt.Errorf("%w: %q from (%g, %g)", ErrDegenerateEdge,
			curve.Name(), anchor.X, anchor.Y)
	}
	return &Edge{
		Anchor:     anchor,
		Endpnt:     endpnt,
		PosCellIdx: -1,
		NegCellIdx: -1,
		Curve:      curve,
		QuadName:   quadName,
		ID:         -1,
	}, nil
}

// SetCells records the cells on either side of the edge: the positive cell
// traverses it as sampled, the negative cell traverses it reversed.
func (e *Edge) SetCells(posIdx, negIdx int) {
	e.PosCellIdx = posIdx
	e.NegCellIdx = negIdx
}

// IsLoop reports whether the edge closes on itself.
func (e *Edge) IsLoop() bool { return e.Anchor == e.Endpnt }

// IsOnMeshBoundary reports whether at most one cell borders the edge.
func (e *Edge) IsOnMeshBoundary() bool {
	return e.PosCellIdx < 0 || e.NegCellIdx < 0
}

// Parameterize samples the edge at 2n+1 points under the named rule of the
// set, then fits the sampled curve to the edge endpoints (or translates a
// loop to its anchor).
func (e *Edge) Parameterize(set *quadrature.Set) error {
	q, err := set.ByName(e.QuadName)
	if err != nil {
		return err
	}
	e.N = q.N
	e.NumPts = q.NumPts()
	e.X = make([]float64, e.NumPts)
	e.Y = make([]float64, e.NumPts)
	e.TanX = make([]float64, e.NumPts)
	e.TanY = make([]float64, e.NumPts)
	e.NorX = make([]float64, e.NumPts)
	e.NorY = make([]float64, e.NumPts)
	e.DxNorm = make([]float64, e.NumPts)
	e.Curvature = make([]float64, e.NumPts)

	for i, t := range q.T {
		e.X[i], e.Y[i] = e.Curve.Point(t)
		dx, dy := e.Curve.Deriv(t)
		dx2 := dx*dx + dy*dy
		if dx2 == 0 {
			return fmt.Errorf("%w: %q has vanishing speed at t = %g",
				ErrBadCurveParam, e.Curve.Name(), t)
		}
		speed := math.Sqrt(dx2)
		e.DxNorm[i] = speed * q.Wgt[i]
		e.TanX[i] = dx / speed
		e.TanY[i] = dy / speed
		e.NorX[i] = e.TanY[i]
		e.NorY[i] = -e.TanX[i]
		ddx, ddy := e.Curve.Deriv2(t)
		e.Curvature[i] = (ddx*e.NorX[i] + ddy*e.NorY[i]) / dx2
	}
	e.IsParameterized = true

	if e.IsLoop() {
		e.Translate(e.Anchor.X, e.Anchor.Y)
		return nil
	}
	return e.joinPoints(e.Anchor, e.Endpnt)
}

// Deparameterize releases the sampled data.
func (e *Edge) Deparameterize() {
	e.N = 0
	e.NumPts = 0
	e.X, e.Y = nil, nil
	e.TanX, e.TanY = nil, nil
	e.NorX, e.NorY = nil, nil
	e.DxNorm, e.Curvature = nil, nil
	e.IsParameterized = false
}

// Copy returns a deep copy sharing the vertex pointers, for per-cell
// reorientation without disturbing the mesh's edge.
func (e *Edge) Copy() *Edge {
	c := *e
	c.X = append([]float64(nil), e.X...)
	c.Y = append([]float64(nil), e.Y...)
	c.TanX = append([]float64(nil), e.TanX...)
	c.TanY = append([]float64(nil), e.TanY...)
	c.NorX = append([]float64(nil), e.NorX...)
	c.NorY = append([]float64(nil), e.NorY...)
	c.DxNorm = append([]float64(nil), e.DxNorm...)
	c.Curvature = append([]float64(nil), e.Curvature...)
	return &c
}

// ReverseOrientation reparameterizes the edge as x(2pi - t). The chain rule
// flips the sign of the derivative-based quantities.
func (e *Edge) ReverseOrientation() error {
	if !e.IsParameterized {
		return fmt.Errorf("%w: reversing orientation", ErrNotParameterized)
	}
	reverse := func(v []float64, negate bool) {
		for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
			v[i], v[j] = v[j], v[i]
		}
		if negate {
			for i := range v {
				v[i] = -v[i]
			}
		}
	}
	reverse(e.X, false)
	reverse(e.Y, false)
	reverse(e.TanX, true)
	reverse(e.TanY, true)
	reverse(e.NorX, true)
	reverse(e.NorY, true)
	reverse(e.DxNorm, false)
	reverse(e.Curvature, true)
	e.Anchor, e.Endpnt = e.Endpnt, e.Anchor
	return nil
}

// joinPoints maps the sampled curve onto the segment from a to b with a
// translate-rotate-dilate-translate fit.
func (e *Edge) joinPoints(a, b *Vert) error {
	if !e.IsParameterized {
		return fmt.Errorf("%w: joining points", ErrNotParameterized)
	}
	abNorm := a.DistTo(b)
	if abNorm < coincidenceTol {
		return fmt.Errorf("%w: target points coincide at (%g, %g)",
			ErrDegenerateEdge, a.X, a.Y)
	}
	x0, y0 := e.X[0], e.Y[0]
	x1, y1 := e.X[e.NumPts-1], e.Y[e.NumPts-1]
	xyNorm := math.Hypot(x1-x0, y1-y0)
	if xyNorm < coincidenceTol {
		return fmt.Errorf("%w: sampled curve %q closes on itself",
			ErrDegenerateEdge, e.Curve.Name())
	}

	e.Translate(-x0, -y0)
	theta := math.Atan2(b.Y-a.Y, b.X-a.X) - math.Atan2(y1-y0, x1-x0)
	if err := e.Rotate(theta * 180 / math.Pi); err != nil {
		return err
	}
	if err := e.Dilate(abNorm / xyNorm); err != nil {
		return err
	}
	e.Translate(a.X, a.Y)
	e.Anchor, e.Endpnt = a, b
	return nil
}

// Translate shifts the sampled points by (dx, dy).
func (e *Edge) Translate(dx, dy float64) {
	for i := range e.X {
		e.X[i] += dx
		e.Y[i] += dy
	}
}

// Dilate scales the sampled curve about the origin by a nonzero factor.
func (e *Edge) Dilate(alpha float64) error {
	if math.Abs(alpha) < coincidenceTol {
		return fmt.Errorf("%w: dilation factor %g", ErrBadCurveParam, alpha)
	}
	for i := range e.X {
		e.X[i] *= alpha
		e.Y[i] *= alpha
		e.DxNorm[i] *= math.Abs(alpha)
		e.Curvature[i] /= alpha
	}
	return nil
}

// Rotate rotates the sampled curve counterclockwise by theta degrees about
// the origin.
func (e *Edge) Rotate(thetaDeg float64) error {
	if math.Mod(thetaDeg, 360) == 0 {
		return nil
	}
	rad := thetaDeg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	return e.applyOrthogonal(c, -s, s, c)
}

// ReflectAcrossXAxis reflects the sampled curve across the horizontal axis.
func (e *Edge) ReflectAcrossXAxis() error { return e.applyOrthogonal(1, 0, 0, -1) }

// ReflectAcrossYAxis reflects the sampled curve across the vertical axis.
func (e *Edge) ReflectAcrossYAxis() error { return e.applyOrthogonal(-1, 0, 0, 1) }

// applyOrthogonal maps the plane with the matrix [[a, b], [c, d]], which
// must be orthogonal so speed and curvature magnitudes are preserved.
func (e *Edge) applyOrthogonal(a, b, c, d float64) error {
	if !e.IsParameterized {
		return fmt.Errorf("%w: applying transformation", ErrNotParameterized)
	}
	if math.Abs(a*a+c*c-1) > coincidenceTol ||
		math.Abs(b*b+d*d-1) > coincidenceTol ||
		math.Abs(a*b+c*d) > coincidenceTol {
		return fmt.Errorf("%w: [[%g, %g], [%g, %g]]", ErrNotOrthogonal, a, b, c, d)
	}
	for i := range e.X {
		x, y := e.X[i], e.Y[i]
		e.X[i], e.Y[i] = a*x+b*y, c*x+d*y
		tx, ty := e.TanX[i], e.TanY[i]
		e.TanX[i], e.TanY[i] = a*tx+b*ty, c*tx+d*ty
		e.NorX[i] = e.TanY[i]
		e.NorY[i] = -e.TanX[i]
	}
	if a*d-b*c < 0 {
		for i := range e.Curvature {
			e.Curvature[i] = -e.Curvature[i]
		}
	}
	return nil
}

// EvaluateFunction samples fun at each boundary point, optionally dropping
// the repeated final point.
func (e *Edge) EvaluateFunction(fun func(x, y float64) float64, ignoreEndpoint bool) ([]float64, error) {
	if !e.IsParameterized {
		return nil, fmt.Errorf("%w: evaluating function", ErrNotParameterized)
	}
	n := e.NumPts
	if ignoreEndpoint {
		n--
	}
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = fun(e.X[i], e.Y[i])
	}
	return vals, nil
}

func (e *Edge) checkLen(vals []float64, ignoreEndpoint bool) error {
	want := e.NumPts
	if ignoreEndpoint {
		want--
	}
	if len(vals) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(vals), want)
	}
	return nil
}

// MultiplyByDxNorm weights vals by the sampled speed.
func (e *Edge) MultiplyByDxNorm(vals []float64, ignoreEndpoint bool) ([]float64, error) {
	if !e.IsParameterized {
		return nil, fmt.Errorf("%w: weighting by speed", ErrNotParameterized)
	}
	if err := e.checkLen(vals, ignoreEndpoint); err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	for i := range vals {
		out[i] = vals[i] * e.DxNorm[i]
	}
	return out, nil
}

// DotWithTangent dots the sampled vector field (v1, v2) with the unit
// tangent.
func (e *Edge) DotWithTangent(v1, v2 []float64, ignoreEndpoint bool) ([]float64, error) {
	if !e.IsParameterized {
		return nil, fmt.Errorf("%w: dotting with tangent", ErrNotParameterized)
	}
	if err := e.checkLen(v1, ignoreEndpoint); err != nil {
		return nil, err
	}
	if err := e.checkLen(v2, ignoreEndpoint); err != nil {
		return nil, err
	}
	out := make([]float64, len(v1))
	for i := range out {
		out[i] = v1[i]*e.TanX[i] + v2[i]*e.TanY[i]
	}
	return out, nil
}

// DotWithNormal dots the sampled vector field (v1, v2) with the outward
// unit normal.
func (e *Edge) DotWithNormal(v1, v2 []float64, ignoreEndpoint bool) ([]float64, error) {
	if !e.IsParameterized {
		return nil, fmt.Errorf("%w: dotting with normal", ErrNotParameterized)
	}
	if err := e.checkLen(v1, ignoreEndpoint); err != nil {
		return nil, err
	}
	if err := e.checkLen(v2, ignoreEndpoint); err != nil {
		return nil, err
	}
	out := make([]float64, len(v1))
	for i := range out {
		out[i] = v1[i]*e.NorX[i] + v2[i]*e.NorY[i]
	}
	return out, nil
}

// IntegrateOverEdge integrates vals against arc length.
func (e *Edge) IntegrateOverEdge(vals []float64, ignoreEndpoint bool) (float64, error) {
	weighted, err := e.MultiplyByDxNorm(vals, ignoreEndpoint)
	if err != nil {
		return 0, err
	}
	return e.IntegrateOverEdgePreweighted(weighted, ignoreEndpoint)
}

// IntegrateOverEdgePreweighted integrates speed-weighted values with the
// trapezoid rule, or a left-hand sum when the endpoint is dropped.
func (e *Edge) IntegrateOverEdgePreweighted(weighted []float64, ignoreEndpoint bool) (float64, error) {
	if !e.IsParameterized {
		return 0, fmt.Errorf("%w: integrating", ErrNotParameterized)
	}
	if err := e.checkLen(weighted, ignoreEndpoint); err != nil {
		return 0, err
	}
	h := math.Pi / float64(e.N)
	var sum float64
	if ignoreEndpoint {
		for _, v := range weighted {
			sum += v
		}
		return h * sum, nil
	}
	sum = 0.5 * (weighted[0] + weighted[len(weighted)-1])
	for _, v := range weighted[1 : len(weighted)-1] {
		sum += v
	}
	return h * sum, nil
}
