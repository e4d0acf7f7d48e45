package solver

import (
	"github.com/james-bowman/sparse"
)

// Snapshot is the assembled system in triplet form, the exchange format
// for external caching. The core never caches implicitly; callers decide
// when a snapshot is exported or restored.
type Snapshot struct {
	N    int
	Rows []int
	Cols []int
	Vals []float64
	RHS  []float64
}

// Export captures the assembled system.
func (s *Solver) Export() (*Snapshot, error) {
	if s.sys == nil {
		return nil, ErrNotAssembled
	}
	snap := &Snapshot{N: len(s.rhs), RHS: append([]float64(nil), s.rhs...)}
	s.sys.DoNonZero(func(i, j int, v float64) {
		snap.Rows = append(snap.Rows, i)
		snap.Cols = append(snap.Cols, j)
		snap.Vals = append(snap.Vals, v)
	})
	return snap, nil
}

// Import restores an assembled system, skipping re-assembly.
func (s *Solver) Import(snap *Snapshot) error {
	if snap.N != s.Space.NumDOF() || len(snap.RHS) != snap.N ||
		len(snap.Rows) != len(snap.Vals) || len(snap.Cols) != len(snap.Vals) {
		return ErrSnapshotShape
	}
	dok := sparse.NewDOK(snap.N, snap.N)
	for k := range snap.Vals {
		if snap.Rows[k] < 0 || snap.Rows[k] >= snap.N ||
			snap.Cols[k] < 0 || snap.Cols[k] >= snap.N {
			return ErrSnapshotShape
		}
		dok.Set(snap.Rows[k], snap.Cols[k], snap.Vals[k])
	}
	s.sys = dok.ToCSR()
	s.rhs = append([]float64(nil), snap.RHS...)
	s.coef = nil
	return nil
}
