package solver

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/zackkenyon/PuncturedFEM/locfun"
	"github.com/zackkenyon/PuncturedFEM/mesh"
	"github.com/zackkenyon/PuncturedFEM/nystrom"
	"github.com/zackkenyon/PuncturedFEM/quadrature"
)

// GlobalFunctionSpace numbers the degrees of freedom of the local Poisson
// spaces over every cell of a mesh. Vertex functions share one DOF per
// mesh vertex, edge functions share one DOF per mesh edge and family
// index, bubble functions are cell-local. DOFs supported on the mesh
// boundary are marked Dirichlet.
//
// Edge and vertex traces are polynomials in the plane restricted to the
// boundary, so the two cells adjacent to an interior edge see identical
// trace values and the space is continuous. On curved edges at degree
// above one the restricted trace family is poorer than the full
// one-dimensional polynomial trace space, which lowers the approximation
// order there; straight edges are unaffected.
type GlobalFunctionSpace struct {
	Mesh *mesh.PlanarMesh
	Deg  int

	Cells      []*mesh.MeshCell
	Solvers    []*nystrom.Solver
	CellSpaces []*locfun.Space

	numDOF    int
	dirichlet []bool
}

// NewGlobalFunctionSpace parameterizes every cell of the mesh under the
// quadrature set, builds its boundary-integral solver and local Poisson
// space, and assigns global DOF numbers. Solver construction runs one
// cell at a time; the heavy per-function computation is deferred to
// Assemble.
func NewGlobalFunctionSpace(m *mesh.PlanarMesh, deg int, set *quadrature.Set, verbose bool) (*GlobalFunctionSpace, error) {
	sp := &GlobalFunctionSpace{Mesh: m, Deg: deg}
	for idx := 0; idx < m.NumCells(); idx++ {
		K, err := m.BuildCell(idx)
		if err != nil {
			return nil, err
		}
		if err := K.Parameterize(set); err != nil {
			return nil, fmt.Errorf("cell %d: %w", idx, err)
		}
		ns, err := nystrom.NewSolver(K, verbose)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", idx, err)
		}
		cs, err := locfun.NewSpace(ns, deg)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", idx, err)
		}
		sp.Cells = append(sp.Cells, K)
		sp.Solvers = append(sp.Solvers, ns)
		sp.CellSpaces = append(sp.CellSpaces, cs)
	}
	sp.numberDOFs()
	if verbose {
		fmt.Printf("global function space: %d cells, %d DOFs (%d Dirichlet)\n",
			m.NumCells(), sp.numDOF, sp.numDirichlet())
	}
	return sp, nil
}

type edgeDOFKey struct {
	edgeID int
	k      int
}

func (sp *GlobalFunctionSpace) numberDOFs() {
	vertDOF := make(map[int]int)
	edgeDOF := make(map[edgeDOFKey]int)
	next := 0
	take := func() int {
		n := next
		next++
		sp.dirichlet = append(sp.dirichlet, false)
		return n
	}

	for _, cs := range sp.CellSpaces {
		for _, fn := range cs.VertFuns {
			vi := fn.Key.VertIdx
			dof, ok := vertDOF[vi]
			if !ok {
				dof = take()
				vertDOF[vi] = dof
				sp.dirichlet[dof] = sp.Mesh.VertOnMeshBoundary(sp.Mesh.Verts[vi])
			}
			fn.Key.GlobIdx = dof
		}
		for _, fn := range cs.EdgeFuns {
			key := edgeDOFKey{fn.Key.EdgeIdx, fn.Key.EdgeSpaceIdx}
			dof, ok := edgeDOF[key]
			if !ok {
				dof = take()
				edgeDOF[key] = dof
				sp.dirichlet[dof] = sp.Mesh.Edges[key.edgeID].IsOnMeshBoundary()
			}
			fn.Key.GlobIdx = dof
		}
		for _, fn := range cs.BubbFuns {
			fn.Key.GlobIdx = take()
		}
	}
	sp.numDOF = next
}

// NumDOF reports the global dimension, Dirichlet DOFs included.
func (sp *GlobalFunctionSpace) NumDOF() int { return sp.numDOF }

// IsDirichlet reports whether DOF i lies on the mesh boundary.
func (sp *GlobalFunctionSpace) IsDirichlet(i int) bool { return sp.dirichlet[i] }

func (sp *GlobalFunctionSpace) numDirichlet() int {
	n := 0
	for _, d := range sp.dirichlet {
		if d {
			n++
		}
	}
	return n
}

// ComputeAll runs the local computation pipeline on every basis function
// of every cell, cells in parallel.
func (sp *GlobalFunctionSpace) ComputeAll() error {
	var g errgroup.Group
	for _, cs := range sp.CellSpaces {
		cs := cs
		g.Go(func() error { return cs.ComputeAll(false) })
	}
	return g.Wait()
}
