package locfun

import (
	"github.com/zackkenyon/PuncturedFEM/mesh"
	"github.com/zackkenyon/PuncturedFEM/poly"
)

// EdgeSpace holds the polynomial trace functions associated with one edge:
// the restrictions of the two vertex functions incident to the edge and
// the interior edge functions, which vanish at both endpoints. Closed
// loops carry no vertex or edge functions.
type EdgeSpace struct {
	Edge *mesh.Edge
	Deg  int

	// AnchorTrace and EndpntTrace are the affine traces that equal one at
	// the named endpoint and zero at the other.
	AnchorTrace poly.Poly
	EndpntTrace poly.Poly

	// EdgeTraces are the deg-1 interior trace polynomials.
	EdgeTraces []poly.Poly
}

// NewEdgeSpace builds the trace polynomials for an edge at the given
// polynomial degree.
func NewEdgeSpace(e *mesh.Edge, deg int) (*EdgeSpace, error) {
	if deg < 1 {
		return nil, ErrBadDegree
	}
	es := &EdgeSpace{Edge: e, Deg: deg}
	if e.IsLoop() {
		return es, nil
	}

	a := e.Anchor
	b := e.Endpnt
	d1 := b.X - a.X
	d2 := b.Y - a.Y
	dd := d1*d1 + d2*d2

	// ellB(x) = (x - a) . (b - a) / |b - a|^2 is affine, equal to 0 at the
	// anchor and 1 at the endpoint.
	ellB := poly.New(
		poly.Term{Coef: d1 / dd, I: 1, J: 0},
		poly.Term{Coef: d2 / dd, I: 0, J: 1},
		poly.Term{Coef: -(d1*a.X + d2*a.Y) / dd, I: 0, J: 0},
	)
	ellA := poly.Constant(1).Sub(ellB)
	es.EndpntTrace = ellB
	es.AnchorTrace = ellA

	// Interior traces ellA ellB s^k with s the signed coordinate along the
	// edge, measured from its midpoint. The sign of s is fixed by the
	// lexicographic order of the endpoints, not by the traversal
	// direction, so the two cells sharing the edge build identical
	// traces for every k.
	p, q := a, b
	if q.X < p.X || (q.X == p.X && q.Y < p.Y) {
		p, q = q, p
	}
	c1 := q.X - p.X
	c2 := q.Y - p.Y
	midX := 0.5 * (a.X + b.X)
	midY := 0.5 * (a.Y + b.Y)
	s := poly.New(
		poly.Term{Coef: c1 / dd, I: 1, J: 0},
		poly.Term{Coef: c2 / dd, I: 0, J: 1},
		poly.Term{Coef: -(c1*midX + c2*midY) / dd, I: 0, J: 0},
	)
	base := ellA.Mul(ellB)
	es.EdgeTraces = make([]poly.Poly, 0, deg-1)
	sk := poly.Constant(1)
	for k := 0; k <= deg-2; k++ {
		es.EdgeTraces = append(es.EdgeTraces, base.Mul(sk))
		sk = sk.Mul(s)
	}
	return es, nil
}

// NumEdgeFuns reports the number of interior edge functions.
func (es *EdgeSpace) NumEdgeFuns() int { return len(es.EdgeTraces) }
