// Package cache is a content-addressed store for assembled systems. The
// key fingerprints the mesh geometry, polynomial degree and quadrature
// configuration, so a cached matrix is reused only when every input that
// shaped it is unchanged. The core packages never touch the cache; callers
// export and import snapshots explicitly.
package cache
