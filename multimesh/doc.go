// Package multimesh relates meshes in a tree. Each child mesh stores, per
// primitive type, the id of the parent element it is embedded in; the parent
// stores up to two child ids per element, which allows cut children whose
// vertices are duplicated along a seam.
//
// A Manager owns the tree. It maps simplices between meshes while keeping
// the local frame of the tuple, opens transaction scopes over every mesh and
// re-derives the maps after local edits. A Visitor runs one function per mesh
// over all images of a simplex and one function per parent-child pair.
package multimesh
