package cache

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zackkenyon/PuncturedFEM/mesh"
	"github.com/zackkenyon/PuncturedFEM/quadrature"
	"github.com/zackkenyon/PuncturedFEM/solver"
)

var (
	// ErrMiss reports a key with no stored snapshot.
	ErrMiss = errors.New("cache: miss")

	// ErrCorrupt reports a stored snapshot that fails to parse.
	ErrCorrupt = errors.New("cache: corrupt entry")
)

// Store keeps one flat file per fingerprint under a directory.
type Store struct {
	dir string
}

// NewStore opens (creating if needed) a store rooted at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Fingerprint hashes the mesh geometry, degree and quadrature
// configuration into a hex key. Vertices enter by coordinates, edges by
// endpoint indices, curve name and parameters, quadrature name and cell
// incidence; any change to the discretization produces a new key.
func Fingerprint(m *mesh.PlanarMesh, deg int, set *quadrature.Set) string {
	h := sha256.New()
	fmt.Fprintf(h, "deg %d n %d p %d\n", deg, set.N, set.Kress.P)
	for _, v := range m.Verts {
		fmt.Fprintf(h, "v %.17g %.17g\n", v.X, v.Y)
	}
	for _, e := range m.Edges {
		fmt.Fprintf(h, "e %d %d %s", e.Anchor.Idx, e.Endpnt.Idx, e.Curve.Name())
		for _, p := range e.Curve.Params() {
			fmt.Fprintf(h, " %.17g", p)
		}
		fmt.Fprintf(h, " %s %d %d\n", e.QuadName, e.PosCellIdx, e.NegCellIdx)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".mat")
}

// Put stores a snapshot under the key, replacing any previous entry. The
// write goes through a temp file so a crash cannot leave a torn entry.
func (s *Store) Put(key string, snap *solver.Snapshot) error {
	tmp, err := os.CreateTemp(s.dir, "put-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	fmt.Fprintf(w, "%d %d\n", snap.N, len(snap.Vals))
	for i, v := range snap.RHS {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		fmt.Fprintf(w, "%.17g", v)
	}
	fmt.Fprintln(w)
	for k := range snap.Vals {
		fmt.Fprintf(w, "%d %d %.17g\n", snap.Rows[k], snap.Cols[k], snap.Vals[k])
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(key))
}

// Get loads the snapshot stored under the key.
func (s *Store) Get(key string) (*solver.Snapshot, error) {
	f, err := os.Open(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMiss, key)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1<<20), 1<<26)

	if !sc.Scan() {
		return nil, corrupt(key, "missing header")
	}
	var n, nnz int
	if _, err := fmt.Sscanf(sc.Text(), "%d %d", &n, &nnz); err != nil || n < 0 || nnz < 0 {
		return nil, corrupt(key, "bad header")
	}
	snap := &solver.Snapshot{
		N:    n,
		Rows: make([]int, 0, nnz),
		Cols: make([]int, 0, nnz),
		Vals: make([]float64, 0, nnz),
	}

	if !sc.Scan() {
		return nil, corrupt(key, "missing right-hand side")
	}
	fields := strings.Fields(sc.Text())
	if len(fields) != n {
		return nil, corrupt(key, "right-hand side length")
	}
	snap.RHS = make([]float64, n)
	for i, fld := range fields {
		v, err := strconv.ParseFloat(fld, 64)
		if err != nil {
			return nil, corrupt(key, "right-hand side value")
		}
		snap.RHS[i] = v
	}

	for k := 0; k < nnz; k++ {
		if !sc.Scan() {
			return nil, corrupt(key, "truncated triplets")
		}
		var i, j int
		var v float64
		if _, err := fmt.Sscanf(sc.Text(), "%d %d %g", &i, &j, &v); err != nil {
			return nil, corrupt(key, "bad triplet")
		}
		snap.Rows = append(snap.Rows, i)
		snap.Cols = append(snap.Cols, j)
		snap.Vals = append(snap.Vals, v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Invalidate removes the entry under the key; removing an absent entry is
// not an error.
func (s *Store) Invalidate(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func corrupt(key, what string) error {
	return fmt.Errorf("%w: %s: %s", ErrCorrupt, key, what)
}
