package mesh

import "fmt"

// Tuple is a cheap handle to one (vertex, edge, face, cell) incidence inside a
// top-dimensional cell, stamped with the cell's version hash. Local ids that a
// mesh type does not use are -1. Tuples become stale when the cell they live in
// is edited; check them with Mesh.IsValid.
type Tuple struct {
	lv   int8
	le   int8
	lf   int8
	cid  int64
	hash int64
}

// NullTuple returns the null handle.
func NullTuple() Tuple {
	return Tuple{lv: -1, le: -1, lf: -1, cid: -1, hash: -1}
}

// IsNull reports whether t refers to no cell.
func (t Tuple) IsNull() bool {
	return t.cid == -1
}

// SameIDs reports whether t and o agree on everything but the version hash.
func (t Tuple) SameIDs(o Tuple) bool {
	return t.lv == o.lv && t.le == o.le && t.lf == o.lf && t.cid == o.cid
}

// String implements fmt.Stringer.
func (t Tuple) String() string {
	if t.IsNull() {
		return "tuple(null)"
	}
	return fmt.Sprintf("tuple(v%d,e%d,f%d,c%d,h%d)", t.lv, t.le, t.lf, t.cid, t.hash)
}

func (t Tuple) flag() localFlag {
	return localFlag{lv: t.lv, le: t.le, lf: t.lf}
}

func (t Tuple) withFlag(f localFlag) Tuple {
	return Tuple{lv: f.lv, le: f.le, lf: f.lf, cid: t.cid, hash: t.hash}
}
