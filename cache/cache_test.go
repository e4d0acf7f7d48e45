package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zackkenyon/PuncturedFEM/mesh"
	"github.com/zackkenyon/PuncturedFEM/quadrature"
	"github.com/zackkenyon/PuncturedFEM/solver"
)

func squareMesh(t *testing.T, side float64) *mesh.PlanarMesh {
	t.Helper()
	vs := []*mesh.Vert{
		mesh.NewVert(0, 0), mesh.NewVert(side, 0),
		mesh.NewVert(side, side), mesh.NewVert(0, side),
	}
	var edges []*mesh.Edge
	for i := range vs {
		e, err := mesh.NewEdge(vs[i], vs[(i+1)%4], mesh.Line{}, "kress")
		require.NoError(t, err)
		e.SetCells(0, -1)
		edges = append(edges, e)
	}
	m, err := mesh.NewPlanarMesh(vs, edges)
	require.NoError(t, err)
	return m
}

// wavyMesh is a unit square whose bottom edge is a sine wave of the given
// amplitude.
func wavyMesh(t *testing.T, amp float64) *mesh.PlanarMesh {
	t.Helper()
	vs := []*mesh.Vert{
		mesh.NewVert(0, 0), mesh.NewVert(1, 0),
		mesh.NewVert(1, 1), mesh.NewVert(0, 1),
	}
	var edges []*mesh.Edge
	for i := range vs {
		var crv mesh.Curve = mesh.Line{}
		if i == 0 {
			crv = mesh.SineWave{Amp: amp, Freq: 4}
		}
		e, err := mesh.NewEdge(vs[i], vs[(i+1)%4], crv, "kress")
		require.NoError(t, err)
		e.SetCells(0, -1)
		edges = append(edges, e)
	}
	m, err := mesh.NewPlanarMesh(vs, edges)
	require.NoError(t, err)
	return m
}

func TestFingerprintSensitivity(t *testing.T) {
	set8, err := quadrature.NewSet(8)
	require.NoError(t, err)
	set16, err := quadrature.NewSet(16)
	require.NoError(t, err)

	m := squareMesh(t, 1)
	base := Fingerprint(m, 2, set8)

	assert.Equal(t, base, Fingerprint(m, 2, set8), "fingerprint must be deterministic")
	assert.NotEqual(t, base, Fingerprint(m, 3, set8), "degree must enter the key")
	assert.NotEqual(t, base, Fingerprint(m, 2, set16), "sampling must enter the key")
	assert.NotEqual(t, base, Fingerprint(squareMesh(t, 2), 2, set8),
		"geometry must enter the key")

	// Meshes differing only in a curve parameter must not collide.
	assert.NotEqual(t, Fingerprint(wavyMesh(t, 0.05), 2, set8),
		Fingerprint(wavyMesh(t, 0.20), 2, set8),
		"curve parameters must enter the key")
}

func TestPutGetInvalidate(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	snap := &solver.Snapshot{
		N:    3,
		Rows: []int{0, 1, 2, 0},
		Cols: []int{0, 1, 2, 2},
		Vals: []float64{2, 3.5, -1e-30, 0.25},
		RHS:  []float64{1, 0, -2.5},
	}
	require.NoError(t, store.Put("abc", snap))

	got, err := store.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, snap.N, got.N)
	assert.Equal(t, snap.Rows, got.Rows)
	assert.Equal(t, snap.Cols, got.Cols)
	for k := range snap.Vals {
		assert.InEpsilon(t, snap.Vals[k], got.Vals[k], 1e-15)
	}
	for i := range snap.RHS {
		assert.InDelta(t, snap.RHS[i], got.RHS[i], 1e-300)
	}

	require.NoError(t, store.Invalidate("abc"))
	_, err = store.Get("abc")
	assert.ErrorIs(t, err, ErrMiss)

	// Invalidating twice is fine.
	assert.NoError(t, store.Invalidate("abc"))
}

func TestGetCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.mat"), []byte("not a header\n"), 0o644))
	_, err = store.Get("bad")
	assert.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "short.mat"), []byte("2 5\n0 0\n"), 0o644))
	_, err = store.Get("short")
	assert.ErrorIs(t, err, ErrCorrupt)
}
