package solver

import (
	"math"
)

// GlobalSolution is a solved coefficient vector over a global function
// space, reconstructable cell by cell.
type GlobalSolution struct {
	Space *GlobalFunctionSpace
	Coef  []float64
}

// CellValues reconstructs the solution on a rows x cols grid of interior
// points of one cell. Points outside the cell hold NaN.
func (g *GlobalSolution) CellValues(cellIdx, rows, cols int) (x, y [][]float64, inside [][]bool, vals [][]float64, err error) {
	if cellIdx < 0 || cellIdx >= len(g.Space.Cells) {
		return nil, nil, nil, nil, ErrBadCell
	}
	K := g.Space.Cells[cellIdx]
	x, y, inside, err = K.GenerateInteriorPoints(rows, cols)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	vals = make([][]float64, rows)
	for r := range vals {
		vals[r] = make([]float64, cols)
		for c := range vals[r] {
			if inside[r][c] {
				vals[r][c] = 0
			} else {
				vals[r][c] = math.NaN()
			}
		}
	}

	for _, fn := range g.Space.CellSpaces[cellIdx].Funs() {
		coef := g.Coef[fn.Key.GlobIdx]
		if coef == 0 {
			continue
		}
		if err := fn.ComputeInteriorValues(x, y, inside); err != nil {
			return nil, nil, nil, nil, err
		}
		for r := range vals {
			for c := range vals[r] {
				if inside[r][c] {
					vals[r][c] += coef * fn.IntVals[r][c]
				}
			}
		}
	}
	return x, y, inside, vals, nil
}
