package mesh

// Inspector exposes the raw tables of a mesh to tests and debugging tools.
// Nothing in the package uses it; writes bypass every invariant.
type Inspector struct {
	m *meshBase
}

// Inspect returns an Inspector for m.
func Inspect(m Mesh) Inspector {
	return Inspector{m: m.core()}
}

// RawTuple builds a tuple from raw local ids, with the cell's current hash.
func (in Inspector) RawTuple(cid int64, lv, le, lf int8) Tuple {
	return Tuple{lv: lv, le: le, lf: lf, cid: cid, hash: in.m.hash.scalar(cid)}
}

// Hash returns the version hash of a cell.
func (in Inspector) Hash(cid int64) int64 {
	return in.m.hash.scalar(cid)
}

// Flags returns the flag byte of an element.
func (in Inspector) Flags(pt PrimitiveType, id int64) int8 {
	return in.m.flags[pt].scalar(id)
}

// FaceIDs returns the ids of the k-faces of a cell in local order.
func (in Inspector) FaceIDs(k int, cid int64) []int64 {
	return append([]int64(nil), in.m.faceIDs(k, cid)...)
}

// Neighbors returns the neighbor of a cell across each facet.
func (in Inspector) Neighbors(cid int64) []int64 {
	return append([]int64(nil), in.m.cc.vector(cid)...)
}

// IncidentCell returns the cell the reverse map of (pt, id) points to.
func (in Inspector) IncidentCell(pt PrimitiveType, id int64) int64 {
	return in.m.sc[pt].scalar(id)
}

// SetNeighbor overwrites one neighbor entry.
func (in Inspector) SetNeighbor(cid int64, facet int, n int64) {
	in.m.cc.setComponent(cid, facet, n)
}

// SetIncidentCell overwrites one reverse map entry.
func (in Inspector) SetIncidentCell(pt PrimitiveType, id, cid int64) {
	in.m.sc[pt].setScalar(id, cid)
}

// IsCCWFlag reports the orientation of a raw local flag.
func (in Inspector) IsCCWFlag(lv, le, lf int8) bool {
	info, ok := in.m.topo.flags[localFlag{lv: lv, le: le, lf: lf}]
	return ok && info.ccw
}
