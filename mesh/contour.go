package mesh

import "fmt"

// Contour is a closed chain of oriented parameterized edges: each edge ends
// where the next begins, and the last edge ends at the first edge's start.
type Contour struct {
	Edges []*Edge

	interiorPt *Vert
}

// NumPts reports the sampled point count with per-edge endpoints dropped.
func (c *Contour) NumPts() int {
	if len(c.Edges) == 0 {
		return 0
	}
	return len(c.Edges) * (c.Edges[0].NumPts - 1)
}

// SampledPoints concatenates the edge samples in chain order, dropping each
// edge's final point.
func (c *Contour) SampledPoints() (x, y []float64) {
	x = make([]float64, 0, c.NumPts())
	y = make([]float64, 0, c.NumPts())
	for _, e := range c.Edges {
		x = append(x, e.X[:e.NumPts-1]...)
		y = append(y, e.Y[:e.NumPts-1]...)
	}
	return x, y
}

// signedArea evaluates the shoelace formula over the sampled points.
// Positive means counterclockwise traversal.
func (c *Contour) signedArea() float64 {
	x, y := c.SampledPoints()
	var area float64
	m := len(x)
	for i := 0; i < m; i++ {
		j := (i + 1) % m
		area += x[i]*y[j] - x[j]*y[i]
	}
	return 0.5 * area
}

// InteriorPoint returns a point enclosed by the contour, defaulting to the
// mean of the sampled boundary points. The default works for convex and
// mildly nonconvex contours; override with SetInteriorPoint otherwise.
func (c *Contour) InteriorPoint() *Vert {
	if c.interiorPt != nil {
		return c.interiorPt
	}
	x, y := c.SampledPoints()
	var cx, cy float64
	for i := range x {
		cx += x[i]
		cy += y[i]
	}
	m := float64(len(x))
	c.interiorPt = NewVert(cx/m, cy/m)
	return c.interiorPt
}

// SetInteriorPoint overrides the enclosed point used for logarithmic
// sources and winding checks.
func (c *Contour) SetInteriorPoint(v *Vert) { c.interiorPt = v }

// chainContours groups oriented edges into closed chains by matching each
// edge's end to the start of an unused edge. Loops form singleton chains.
func chainContours(edges []*Edge) ([]*Contour, error) {
	used := make([]bool, len(edges))
	var contours []*Contour

	for i, e := range edges {
		if used[i] {
			continue
		}
		if e.IsLoop() {
			used[i] = true
			contours = append(contours, &Contour{Edges: []*Edge{e}})
			continue
		}
		chain := []*Edge{e}
		used[i] = true
		cur := e
		for {
			endX := cur.X[cur.NumPts-1]
			endY := cur.Y[cur.NumPts-1]
			if endPt := NewVert(endX, endY); endPt.CoincidesWith(
				NewVert(chain[0].X[0], chain[0].Y[0]), coincidenceTol) {
				break
			}
			next := -1
			for j, f := range edges {
				if used[j] || f.IsLoop() {
					continue
				}
				if NewVert(f.X[0], f.Y[0]).CoincidesWith(NewVert(endX, endY), coincidenceTol) {
					next = j
					break
				}
			}
			if next < 0 {
				return nil, fmt.Errorf("%w: chain starting at edge %d ends at (%g, %g)",
					ErrOpenContour, i, endX, endY)
			}
			used[next] = true
			chain = append(chain, edges[next])
			cur = edges[next]
		}
		contours = append(contours, &Contour{Edges: chain})
	}
	return contours, nil
}
