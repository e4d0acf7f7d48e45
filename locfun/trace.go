package locfun

import (
	"fmt"

	"github.com/zackkenyon/PuncturedFEM/mesh"
	"github.com/zackkenyon/PuncturedFEM/poly"
)

// TraceSource supplies the Dirichlet trace of a local function. The two
// variants are statically distinguishable: sampled values or a piecewise
// polynomial evaluated on the boundary at construction time.
type TraceSource interface {
	traceValues(K *mesh.MeshCell) ([]float64, error)
}

// PointwiseTrace carries raw sampled trace values, one per boundary point.
type PointwiseTrace struct {
	Values []float64
}

func (p PointwiseTrace) traceValues(K *mesh.MeshCell) ([]float64, error) {
	if len(p.Values) != K.NumPts() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrTraceLength, len(p.Values), K.NumPts())
	}
	return append([]float64(nil), p.Values...), nil
}

// PolyTrace carries one trace polynomial per cell edge, evaluated at the
// sampled boundary points.
type PolyTrace struct {
	Pieces *poly.Piecewise
}

// ZeroPolyTrace returns the zero piecewise trace for a cell.
func ZeroPolyTrace(K *mesh.MeshCell) PolyTrace {
	return PolyTrace{Pieces: poly.NewPiecewise(K.NumEdges())}
}

func (p PolyTrace) traceValues(K *mesh.MeshCell) ([]float64, error) {
	if p.Pieces == nil || p.Pieces.NumEdges() != K.NumEdges() {
		got := 0
		if p.Pieces != nil {
			got = p.Pieces.NumEdges()
		}
		return nil, fmt.Errorf("%w: got %d pieces, cell has %d edges",
			ErrPieceCount, got, K.NumEdges())
	}
	vals := make([]float64, 0, K.NumPts())
	for j, e := range K.Edges {
		q := p.Pieces.Piece(j)
		for i := 0; i < e.NumPts-1; i++ {
			vals = append(vals, q.Eval(e.X[i], e.Y[i]))
		}
	}
	return vals, nil
}
