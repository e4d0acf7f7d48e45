package mesh

import "math"

// Vert is a point in the plane, optionally carrying a global mesh index.
type Vert struct {
	X, Y float64
	Idx  int
}

// NewVert returns a vertex at (x, y) with no mesh index.
func NewVert(x, y float64) *Vert {
	return &Vert{X: x, Y: y, Idx: -1}
}

// DistTo returns the Euclidean distance to w.
func (v *Vert) DistTo(w *Vert) float64 {
	return math.Hypot(v.X-w.X, v.Y-w.Y)
}

// CoincidesWith reports whether v and w agree within tol.
func (v *Vert) CoincidesWith(w *Vert, tol float64) bool {
	return v.DistTo(w) < tol
}

type boundingBox struct {
	xmin, xmax, ymin, ymax float64
}

func bboxOf(x, y []float64) boundingBox {
	bb := boundingBox{
		xmin: math.Inf(1), xmax: math.Inf(-1),
		ymin: math.Inf(1), ymax: math.Inf(-1),
	}
	for i := range x {
		bb.xmin = math.Min(bb.xmin, x[i])
		bb.xmax = math.Max(bb.xmax, x[i])
		bb.ymin = math.Min(bb.ymin, y[i])
		bb.ymax = math.Max(bb.ymax, y[i])
	}
	return bb
}

func (bb boundingBox) diag() float64 {
	return math.Hypot(bb.xmax-bb.xmin, bb.ymax-bb.ymin)
}

func (bb boundingBox) area() float64 {
	return (bb.xmax - bb.xmin) * (bb.ymax - bb.ymin)
}
