package poly

import "fmt"

// Piecewise carries one polynomial per edge of a cell boundary, in the
// cell's edge order. It represents traces that are polynomial edge by edge
// but need not agree across corners in any smooth sense.
type Piecewise struct {
	pieces []Poly
}

// NewPiecewise allocates a piecewise trace over numEdges edges, each piece
// initially zero.
func NewPiecewise(numEdges int) *Piecewise {
	return &Piecewise{pieces: make([]Poly, numEdges)}
}

// NumEdges reports the number of pieces.
func (pw *Piecewise) NumEdges() int { return len(pw.pieces) }

// SetPiece assigns the polynomial on edge e.
func (pw *Piecewise) SetPiece(e int, p Poly) error {
	if e < 0 || e >= len(pw.pieces) {
		return fmt.Errorf("%w: edge %d of %d", ErrBadIndex, e, len(pw.pieces))
	}
	pw.pieces[e] = p
	return nil
}

// Piece returns the polynomial on edge e.
func (pw *Piecewise) Piece(e int) Poly { return pw.pieces[e] }

// SetAll assigns the same polynomial to every edge.
func (pw *Piecewise) SetAll(p Poly) {
	for e := range pw.pieces {
		pw.pieces[e] = p
	}
}
