package mesh

import (
	"fmt"
	"math"

	"github.com/zackkenyon/PuncturedFEM/quadrature"
)

// nearBoundaryFactor excludes interior evaluation points closer to the
// boundary than this multiple of the local sample spacing; Nyström-based
// interior evaluation loses accuracy inside that collar.
const nearBoundaryFactor = 5.0

// MeshCell is one cell of a planar mesh: a closed outer boundary component
// traversed counterclockwise plus zero or more hole components traversed
// clockwise, every edge sampled at a shared n. Construction takes edge
// copies; Parameterize samples them, reverses the edges this cell
// traverses negatively, chains them into components and validates
// orientations.
type MeshCell struct {
	Idx        int
	Components []*Contour
	Edges      []*Edge

	n      int
	numPts int

	reversed map[*Edge]bool

	x, y       []float64
	tanX, tanY []float64
	norX, norY []float64
	dxNorm     []float64
	curvature  []float64
	compStart  []int
}

// NewMeshCell builds an unparameterized cell from the given edges. Each
// edge is copied so reorientation stays local to the cell; an edge whose
// negative cell is idx is traversed reversed.
func NewMeshCell(idx int, edges []*Edge) (*MeshCell, error) {
	if len(edges) == 0 {
		return nil, fmt.Errorf("%w: cell %d has no edges", ErrOpenContour, idx)
	}
	K := &MeshCell{Idx: idx, reversed: make(map[*Edge]bool)}
	K.Edges = make([]*Edge, len(edges))
	for i, e := range edges {
		c := e.Copy()
		K.Edges[i] = c
		K.reversed[c] = e.NegCellIdx == idx && e.PosCellIdx != idx
	}
	return K, nil
}

// Parameterize samples every edge under the shared quadrature set, chains
// the boundary into closed components and freezes the concatenated
// boundary arrays. The outer component (the one with the largest bounding
// box) must come out counterclockwise and every hole clockwise.
func (K *MeshCell) Parameterize(set *quadrature.Set) error {
	for _, e := range K.Edges {
		if err := e.Parameterize(set); err != nil {
			return fmt.Errorf("cell %d: %w", K.Idx, err)
		}
		if K.reversed[e] {
			if err := e.ReverseOrientation(); err != nil {
				return fmt.Errorf("cell %d: %w", K.Idx, err)
			}
		}
		if K.n == 0 {
			K.n = e.N
		} else if e.N != K.n {
			return fmt.Errorf("%w: cell %d has n = %d and n = %d",
				ErrSamplingMismatch, K.Idx, K.n, e.N)
		}
	}

	contours, err := chainContours(K.Edges)
	if err != nil {
		return fmt.Errorf("cell %d: %w", K.Idx, err)
	}

	// The outer component encloses the rest: largest bounding box.
	outer := 0
	best := math.Inf(-1)
	for i, c := range contours {
		x, y := c.SampledPoints()
		if a := bboxOf(x, y).area(); a > best {
			best = a
			outer = i
		}
	}
	contours[0], contours[outer] = contours[outer], contours[0]

	if a := contours[0].signedArea(); a <= 0 {
		return fmt.Errorf("%w: cell %d outer component has signed area %g",
			ErrOrientation, K.Idx, a)
	}
	for i, c := range contours[1:] {
		if a := c.signedArea(); a >= 0 {
			return fmt.Errorf("%w: cell %d hole %d has signed area %g",
				ErrOrientation, K.Idx, i, a)
		}
	}
	K.Components = contours

	// Freeze chain order and the concatenated arrays.
	K.Edges = K.Edges[:0]
	K.compStart = make([]int, 0, len(contours)+1)
	K.x, K.y = nil, nil
	K.tanX, K.tanY = nil, nil
	K.norX, K.norY = nil, nil
	K.dxNorm, K.curvature = nil, nil
	for _, c := range contours {
		K.compStart = append(K.compStart, len(K.x))
		for _, e := range c.Edges {
			K.Edges = append(K.Edges, e)
			m := e.NumPts - 1
			K.x = append(K.x, e.X[:m]...)
			K.y = append(K.y, e.Y[:m]...)
			K.tanX = append(K.tanX, e.TanX[:m]...)
			K.tanY = append(K.tanY, e.TanY[:m]...)
			K.norX = append(K.norX, e.NorX[:m]...)
			K.norY = append(K.norY, e.NorY[:m]...)
			K.dxNorm = append(K.dxNorm, e.DxNorm[:m]...)
			K.curvature = append(K.curvature, e.Curvature[:m]...)
		}
	}
	K.numPts = len(K.x)
	K.compStart = append(K.compStart, K.numPts)
	return nil
}

// IsParameterized reports whether boundary samples are available.
func (K *MeshCell) IsParameterized() bool { return K.numPts > 0 }

// N returns the shared per-edge sample parameter.
func (K *MeshCell) N() int { return K.n }

// H returns the uniform parameter spacing pi/n.
func (K *MeshCell) H() float64 { return math.Pi / float64(K.n) }

// NumPts reports the total boundary sample count, 2n per edge.
func (K *MeshCell) NumPts() int { return K.numPts }

// NumEdges reports the number of edges on the cell boundary.
func (K *MeshCell) NumEdges() int { return len(K.Edges) }

// NumHoles reports the number of hole components.
func (K *MeshCell) NumHoles() int { return len(K.Components) - 1 }

// EdgeStart returns the index of edge e's first sample in the concatenated
// boundary arrays.
func (K *MeshCell) EdgeStart(e int) int { return e * 2 * K.n }

// ComponentStart returns the index of component c's first sample; passing
// the component count returns the total sample count.
func (K *MeshCell) ComponentStart(c int) int { return K.compStart[c] }

// ComponentOf returns which boundary component sample i belongs to.
func (K *MeshCell) ComponentOf(i int) int {
	for c := len(K.Components) - 1; c >= 0; c-- {
		if i >= K.compStart[c] {
			return c
		}
	}
	return 0
}

// BoundaryPoints returns the concatenated sample coordinates. The returned
// slices are the cell's own storage; callers must not modify them.
func (K *MeshCell) BoundaryPoints() (x, y []float64) { return K.x, K.y }

// UnitTangents returns the concatenated unit tangent components.
func (K *MeshCell) UnitTangents() (tx, ty []float64) { return K.tanX, K.tanY }

// UnitNormals returns the concatenated outward unit normal components.
func (K *MeshCell) UnitNormals() (nx, ny []float64) { return K.norX, K.norY }

// DxNormVals returns the concatenated weighted speed samples.
func (K *MeshCell) DxNormVals() []float64 { return K.dxNorm }

// CurvatureVals returns the concatenated signed curvature samples.
func (K *MeshCell) CurvatureVals() []float64 { return K.curvature }

// BBoxDiag returns the diagonal length of the cell's bounding box.
func (K *MeshCell) BBoxDiag() float64 { return bboxOf(K.x, K.y).diag() }

// HoleInteriorPoint returns a point enclosed by hole j.
func (K *MeshCell) HoleInteriorPoint(j int) *Vert {
	return K.Components[j+1].InteriorPoint()
}

// EvaluateFunctionOnBoundary samples fun at every boundary point.
func (K *MeshCell) EvaluateFunctionOnBoundary(fun func(x, y float64) float64) []float64 {
	vals := make([]float64, K.numPts)
	for i := range vals {
		vals[i] = fun(K.x[i], K.y[i])
	}
	return vals
}

func (K *MeshCell) checkLen(vals []float64) error {
	if len(vals) != K.numPts {
		return fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(vals), K.numPts)
	}
	return nil
}

// MultiplyByDxNorm weights vals by the sampled speed.
func (K *MeshCell) MultiplyByDxNorm(vals []float64) ([]float64, error) {
	if err := K.checkLen(vals); err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	for i := range vals {
		out[i] = vals[i] * K.dxNorm[i]
	}
	return out, nil
}

// DotWithTangent dots a sampled vector field with the unit tangent.
func (K *MeshCell) DotWithTangent(v1, v2 []float64) ([]float64, error) {
	if err := K.checkLen(v1); err != nil {
		return nil, err
	}
	if err := K.checkLen(v2); err != nil {
		return nil, err
	}
	out := make([]float64, len(v1))
	for i := range out {
		out[i] = v1[i]*K.tanX[i] + v2[i]*K.tanY[i]
	}
	return out, nil
}

// DotWithNormal dots a sampled vector field with the outward unit normal.
func (K *MeshCell) DotWithNormal(v1, v2 []float64) ([]float64, error) {
	if err := K.checkLen(v1); err != nil {
		return nil, err
	}
	if err := K.checkLen(v2); err != nil {
		return nil, err
	}
	out := make([]float64, len(v1))
	for i := range out {
		out[i] = v1[i]*K.norX[i] + v2[i]*K.norY[i]
	}
	return out, nil
}

// IntegrateOverBoundary integrates vals against arc length over the whole
// boundary.
func (K *MeshCell) IntegrateOverBoundary(vals []float64) (float64, error) {
	weighted, err := K.MultiplyByDxNorm(vals)
	if err != nil {
		return 0, err
	}
	return K.IntegrateOverBoundaryPreweighted(weighted)
}

// IntegrateOverBoundaryPreweighted integrates speed-weighted values with
// the periodic left-hand sum.
func (K *MeshCell) IntegrateOverBoundaryPreweighted(weighted []float64) (float64, error) {
	if err := K.checkLen(weighted); err != nil {
		return 0, err
	}
	var sum float64
	for _, v := range weighted {
		sum += v
	}
	return K.H() * sum, nil
}

// Contains reports whether (px, py) lies inside the cell, by total winding
// number of the sampled boundary.
func (K *MeshCell) Contains(px, py float64) bool {
	var winding float64
	for c := 0; c < len(K.Components); c++ {
		lo, hi := K.compStart[c], K.compStart[c+1]
		for i := lo; i < hi; i++ {
			j := i + 1
			if j == hi {
				j = lo
			}
			a1 := math.Atan2(K.y[i]-py, K.x[i]-px)
			a2 := math.Atan2(K.y[j]-py, K.x[j]-px)
			d := a2 - a1
			if d > math.Pi {
				d -= 2 * math.Pi
			} else if d < -math.Pi {
				d += 2 * math.Pi
			}
			winding += d
		}
	}
	return math.Abs(winding/(2*math.Pi)-1) < 0.5
}

// GenerateInteriorPoints lays a rows x cols grid over the cell's bounding
// box and marks the points usable for interior evaluation. Points outside
// the cell, inside a hole, or closer to the boundary than five times the
// local sample spacing are masked out; evaluation at masked points yields
// NaN downstream.
func (K *MeshCell) GenerateInteriorPoints(rows, cols int) (x, y [][]float64, inside [][]bool, err error) {
	if !K.IsParameterized() {
		return nil, nil, nil, fmt.Errorf("%w: generating interior points", ErrNotParameterized)
	}
	if rows < 2 || cols < 2 {
		return nil, nil, nil, fmt.Errorf("%w: grid %dx%d", ErrLengthMismatch, rows, cols)
	}
	bb := bboxOf(K.x, K.y)
	x = make([][]float64, rows)
	y = make([][]float64, rows)
	inside = make([][]bool, rows)
	for r := 0; r < rows; r++ {
		x[r] = make([]float64, cols)
		y[r] = make([]float64, cols)
		inside[r] = make([]bool, cols)
		gy := bb.ymin + (bb.ymax-bb.ymin)*float64(r)/float64(rows-1)
		for cidx := 0; cidx < cols; cidx++ {
			gx := bb.xmin + (bb.xmax-bb.xmin)*float64(cidx)/float64(cols-1)
			x[r][cidx] = gx
			y[r][cidx] = gy
			if !K.Contains(gx, gy) {
				continue
			}
			inside[r][cidx] = !K.nearBoundary(gx, gy)
		}
	}
	return x, y, inside, nil
}

// nearBoundary reports whether (px, py) sits within the accuracy collar of
// the sampled boundary.
func (K *MeshCell) nearBoundary(px, py float64) bool {
	for c := 0; c < len(K.Components); c++ {
		lo, hi := K.compStart[c], K.compStart[c+1]
		for i := lo; i < hi; i++ {
			j := i + 1
			if j == hi {
				j = lo
			}
			spacing := math.Hypot(K.x[j]-K.x[i], K.y[j]-K.y[i])
			dist := math.Hypot(K.x[i]-px, K.y[i]-py)
			if dist < nearBoundaryFactor*spacing {
				return true
			}
		}
	}
	return false
}
