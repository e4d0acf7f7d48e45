package locfun

import "fmt"

// FunType partitions the local Poisson basis.
type FunType int

const (
	// VertFun is a harmonic function with affine trace on the edges
	// incident to one vertex, zero elsewhere.
	VertFun FunType = iota
	// EdgeFun is a harmonic function whose trace is supported on a single
	// edge and vanishes at its endpoints.
	EdgeFun
	// BubbFun has zero trace and a monomial Laplacian.
	BubbFun
)

func (ft FunType) String() string {
	switch ft {
	case VertFun:
		return "vert"
	case EdgeFun:
		return "edge"
	case BubbFun:
		return "bubb"
	}
	return fmt.Sprintf("FunType(%d)", int(ft))
}

// GlobalKey tags a basis function with enough identity to share degrees of
// freedom across cells: vertex functions by mesh vertex, edge functions by
// mesh edge and position within the edge family, bubble functions by
// position within the cell family. GlobIdx is assigned by the global
// function space; -1 until then.
type GlobalKey struct {
	FunType      FunType
	VertIdx      int
	EdgeIdx      int
	EdgeSpaceIdx int
	BubbSpaceIdx int
	GlobIdx      int
}

// NewVertKey tags a vertex function.
func NewVertKey(vertIdx int) GlobalKey {
	return GlobalKey{FunType: VertFun, VertIdx: vertIdx, EdgeIdx: -1, EdgeSpaceIdx: -1, BubbSpaceIdx: -1, GlobIdx: -1}
}

// NewEdgeKey tags edge function k of a mesh edge.
func NewEdgeKey(edgeIdx, k int) GlobalKey {
	return GlobalKey{FunType: EdgeFun, VertIdx: -1, EdgeIdx: edgeIdx, EdgeSpaceIdx: k, BubbSpaceIdx: -1, GlobIdx: -1}
}

// NewBubbKey tags bubble function k of a cell.
func NewBubbKey(k int) GlobalKey {
	return GlobalKey{FunType: BubbFun, VertIdx: -1, EdgeIdx: -1, EdgeSpaceIdx: -1, BubbSpaceIdx: k, GlobIdx: -1}
}
