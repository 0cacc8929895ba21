// Package meshkit is a toolkit for local remeshing of simplicial meshes.
//
// Meshes of points, edges, triangles and tetrahedra share one representation:
// per-primitive attributes addressed through Tuple handles, with transaction
// scopes that make every local edit reversible.
//
// # Packages
//
//   - mesh: tuples, navigation, attributes, scopes and the four mesh types
//   - multimesh: parent/child mesh hierarchies kept consistent across edits
//   - operations: edge split, collapse and swap with attribute strategies
//   - invariants: topological and geometric acceptance checks for edits
//   - scheduler: passes of an operation over all simplices
//   - meshio: the MKM binary format, files and blob-backed caches
//   - blobstore: memory, local, S3 and MinIO blob storage
//
// # Quick Start
//
//	m := mesh.NewTriMesh()
//	_ = m.Initialize([][3]int64{{0, 1, 2}, {0, 2, 3}})
//
//	split, _ := operations.NewEdgeSplit(m, operations.DefaultSettings())
//	stats := scheduler.Run(split)
//
//	_ = meshio.SaveToFile("quad.mkm", m)
//
// # Transactions
//
// Every operation runs inside scopes opened on all meshes of its hierarchy.
// An edit that fails a precondition, an invariant or a hook is discarded and
// leaves the meshes bit-for-bit unchanged.
package meshkit
