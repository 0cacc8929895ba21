// Package invariants provides predicates that guard local mesh operations.
//
// An operation checks every invariant of its settings on the input simplex
// before it edits the mesh, and on the top cells it created afterwards. A
// failing Before leaves the mesh untouched; a failing After rolls the edit
// back.
//
// Invariants are bound to one mesh when they are constructed:
//
//	pos, _ := mesh.GetAttributeHandle[float64](m, "vertices", mesh.Vertex)
//	inv := invariants.NewCollection(
//		invariants.InteriorEdge(m),
//		invariants.NoInversion(m, pos),
//	)
package invariants
