package locfun

import (
	"golang.org/x/sync/errgroup"

	"github.com/zackkenyon/PuncturedFEM/mesh"
	"github.com/zackkenyon/PuncturedFEM/nystrom"
	"github.com/zackkenyon/PuncturedFEM/poly"
)

// Space is the local Poisson space of a cell at a given polynomial
// degree: vertex functions, edge functions and bubble functions. Vertex
// and edge functions are harmonic with piecewise polynomial traces;
// bubble functions have zero trace and monomial Laplacians.
type Space struct {
	Nyst *nystrom.Solver
	Deg  int

	EdgeSpaces []*EdgeSpace

	VertFuns []*LocalFunction
	EdgeFuns []*LocalFunction
	BubbFuns []*LocalFunction
}

// NewSpace builds the local Poisson space over the cell held by the
// solver. No boundary data is computed until ComputeAll runs.
func NewSpace(nyst *nystrom.Solver, deg int) (*Space, error) {
	if deg < 1 {
		return nil, ErrBadDegree
	}
	K := nyst.Cell
	sp := &Space{Nyst: nyst, Deg: deg}

	sp.EdgeSpaces = make([]*EdgeSpace, K.NumEdges())
	for j, e := range K.Edges {
		es, err := NewEdgeSpace(e, deg)
		if err != nil {
			return nil, err
		}
		sp.EdgeSpaces[j] = es
	}

	if err := sp.buildVertFuns(); err != nil {
		return nil, err
	}
	if err := sp.buildEdgeFuns(); err != nil {
		return nil, err
	}
	if err := sp.buildBubbFuns(); err != nil {
		return nil, err
	}
	return sp, nil
}

func (sp *Space) buildVertFuns() error {
	K := sp.Nyst.Cell
	seen := make(map[*mesh.Vert]bool)
	var verts []*mesh.Vert
	for _, e := range K.Edges {
		if e.IsLoop() {
			continue
		}
		if !seen[e.Anchor] {
			seen[e.Anchor] = true
			verts = append(verts, e.Anchor)
		}
		if !seen[e.Endpnt] {
			seen[e.Endpnt] = true
			verts = append(verts, e.Endpnt)
		}
	}
	for _, vert := range verts {
		pieces := poly.NewPiecewise(K.NumEdges())
		for j, e := range K.Edges {
			if e.IsLoop() {
				continue
			}
			switch vert {
			case e.Anchor:
				pieces.SetPiece(j, sp.EdgeSpaces[j].AnchorTrace)
			case e.Endpnt:
				pieces.SetPiece(j, sp.EdgeSpaces[j].EndpntTrace)
			}
		}
		fn, err := New(sp.Nyst, poly.Poly{}, PolyTrace{Pieces: pieces}, NewVertKey(vert.Idx))
		if err != nil {
			return err
		}
		sp.VertFuns = append(sp.VertFuns, fn)
	}
	return nil
}

func (sp *Space) buildEdgeFuns() error {
	K := sp.Nyst.Cell
	for j, e := range K.Edges {
		es := sp.EdgeSpaces[j]
		for k := 0; k < es.NumEdgeFuns(); k++ {
			pieces := poly.NewPiecewise(K.NumEdges())
			pieces.SetPiece(j, es.EdgeTraces[k])
			fn, err := New(sp.Nyst, poly.Poly{}, PolyTrace{Pieces: pieces}, NewEdgeKey(e.ID, k))
			if err != nil {
				return err
			}
			sp.EdgeFuns = append(sp.EdgeFuns, fn)
		}
	}
	return nil
}

func (sp *Space) buildBubbFuns() error {
	if sp.Deg < 2 {
		return nil
	}
	numBubb := poly.DimDegree(sp.Deg - 2)
	for k := 0; k < numBubb; k++ {
		fn, err := New(sp.Nyst, poly.Monomial(k), nil, NewBubbKey(k))
		if err != nil {
			return err
		}
		sp.BubbFuns = append(sp.BubbFuns, fn)
	}
	return nil
}

// NumVertFuns reports the number of vertex functions.
func (sp *Space) NumVertFuns() int { return len(sp.VertFuns) }

// NumEdgeFuns reports the number of edge functions.
func (sp *Space) NumEdgeFuns() int { return len(sp.EdgeFuns) }

// NumBubbFuns reports the number of bubble functions.
func (sp *Space) NumBubbFuns() int { return len(sp.BubbFuns) }

// NumFuns reports the dimension of the space.
func (sp *Space) NumFuns() int {
	return len(sp.VertFuns) + len(sp.EdgeFuns) + len(sp.BubbFuns)
}

// Funs returns all basis functions, vertex functions first, then edge
// functions, then bubble functions.
func (sp *Space) Funs() []*LocalFunction {
	out := make([]*LocalFunction, 0, sp.NumFuns())
	out = append(out, sp.VertFuns...)
	out = append(out, sp.EdgeFuns...)
	out = append(out, sp.BubbFuns...)
	return out
}

// ComputeAll runs the full compute pipeline on every basis function,
// concurrently when parallel is set. The basis functions share the
// factorized solver, which is safe for concurrent solves.
func (sp *Space) ComputeAll(parallel bool) error {
	funs := sp.Funs()
	if !parallel {
		for _, fn := range funs {
			if err := fn.ComputeAll(); err != nil {
				return err
			}
		}
		return nil
	}
	var g errgroup.Group
	for _, fn := range funs {
		fn := fn
		g.Go(fn.ComputeAll)
	}
	return g.Wait()
}
