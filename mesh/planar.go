package mesh

import "fmt"

// PlanarMesh is a collection of vertices and edges partitioning a planar
// domain into cells. Each edge names the cell on its positive side (which
// traverses it as parameterized) and on its negative side (which traverses
// it reversed); a negative index marks the exterior, so edges with one
// exterior side form the mesh boundary.
type PlanarMesh struct {
	Verts []*Vert
	Edges []*Edge

	numCells int
}

// NewPlanarMesh indexes the vertices and edges and counts the cells.
func NewPlanarMesh(verts []*Vert, edges []*Edge) (*PlanarMesh, error) {
	m := &PlanarMesh{Verts: verts, Edges: edges}
	for i, v := range verts {
		v.Idx = i
	}
	for i, e := range edges {
		e.ID = i
		if e.PosCellIdx < 0 && e.NegCellIdx < 0 {
			return nil, fmt.Errorf("%w: edge %d borders no cell", ErrOpenContour, i)
		}
		if e.PosCellIdx >= m.numCells {
			m.numCells = e.PosCellIdx + 1
		}
		if e.NegCellIdx >= m.numCells {
			m.numCells = e.NegCellIdx + 1
		}
	}
	if m.numCells == 0 {
		return nil, fmt.Errorf("%w: mesh has no cells", ErrOpenContour)
	}
	return m, nil
}

// NumCells reports the number of cells.
func (m *PlanarMesh) NumCells() int { return m.numCells }

// NumVerts reports the number of vertices.
func (m *PlanarMesh) NumVerts() int { return len(m.Verts) }

// NumEdges reports the number of edges.
func (m *PlanarMesh) NumEdges() int { return len(m.Edges) }

// CellEdges returns the mesh edges bordering cell idx, in mesh order.
func (m *PlanarMesh) CellEdges(idx int) []*Edge {
	var out []*Edge
	for _, e := range m.Edges {
		if e.PosCellIdx == idx || e.NegCellIdx == idx {
			out = append(out, e)
		}
	}
	return out
}

// BuildCell assembles the unparameterized MeshCell with the given index.
func (m *PlanarMesh) BuildCell(idx int) (*MeshCell, error) {
	if idx < 0 || idx >= m.numCells {
		return nil, fmt.Errorf("%w: cell %d of %d", ErrOpenContour, idx, m.numCells)
	}
	return NewMeshCell(idx, m.CellEdges(idx))
}

// VertOnMeshBoundary reports whether vertex v touches a mesh-boundary
// edge.
func (m *PlanarMesh) VertOnMeshBoundary(v *Vert) bool {
	for _, e := range m.Edges {
		if !e.IsOnMeshBoundary() {
			continue
		}
		if e.Anchor == v || e.Endpnt == v {
			return true
		}
	}
	return false
}
