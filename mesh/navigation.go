package mesh

import "fmt"

// SwitchTuple implements Mesh.
func (m *meshBase) SwitchTuple(t Tuple, pt PrimitiveType) Tuple {
	m.checkPrimitive("switch", pt)
	if m.dim == 0 {
		panic(newStructuralError("switch", "point meshes have no switches"))
	}
	k := pt.Dimension()
	if k < m.dim {
		return m.localSwitch(t, k)
	}
	n, ok := m.switchCell(t)
	if !ok {
		panic(newStructuralError("switch", fmt.Sprintf("%s lies on a boundary facet", t)))
	}
	return n
}

// SwitchTuples implements Mesh.
func (m *meshBase) SwitchTuples(t Tuple, pts ...PrimitiveType) Tuple {
	for _, pt := range pts {
		t = m.SwitchTuple(t, pt)
	}
	return t
}

func (m *meshBase) info(t Tuple) *flagInfo {
	info, ok := m.topo.flags[t.flag()]
	if !ok {
		panic(newStructuralError("navigation", fmt.Sprintf("%s has no valid local flag", t)))
	}
	return info
}

func (m *meshBase) localSwitch(t Tuple, k int) Tuple {
	return t.withFlag(m.info(t).next[k])
}

// facetOf returns the local index of the facet that holds the flag's lower faces.
func (m *meshBase) facetOf(t Tuple) int {
	return int(m.info(t).perm[m.dim])
}

// switchCell crosses the facet of t into the neighboring cell. The new local
// ids are found by searching the neighbor for the global ids that persist.
func (m *meshBase) switchCell(t Tuple) (Tuple, bool) {
	n := m.cc.vector(t.cid)[m.facetOf(t)]
	if n < 0 {
		return NullTuple(), false
	}
	out := Tuple{lv: -1, le: -1, lf: -1, cid: n, hash: m.hash.scalar(n)}
	for k := 0; k < m.dim; k++ {
		gid := m.ID(t, PrimitiveType(k))
		l := indexOf(m.faceIDs(k, n), gid)
		if l < 0 {
			panic(newStructuralError("switch", fmt.Sprintf("cell %d does not hold %s %d of neighbor %d", n, PrimitiveType(k), gid, t.cid)))
		}
		switch k {
		case 0:
			out.lv = int8(l)
		case 1:
			out.le = int8(l)
		case 2:
			out.lf = int8(l)
		}
	}
	return out, true
}

func indexOf(ids []int64, id int64) int {
	for i, x := range ids {
		if x == id {
			return i
		}
	}
	return -1
}

// IsCCW implements Mesh.
func (m *meshBase) IsCCW(t Tuple) bool {
	return m.info(t).ccw
}

// IsValid implements Mesh.
func (m *meshBase) IsValid(t Tuple) bool {
	if t.IsNull() || t.cid < 0 || t.cid >= m.caps[m.top] {
		return false
	}
	if m.IsRemoved(m.top, t.cid) {
		return false
	}
	if _, ok := m.topo.flags[t.flag()]; !ok {
		return false
	}
	return m.hash.scalar(t.cid) == t.hash
}

// IsValidSlow implements Mesh.
func (m *meshBase) IsValidSlow(t Tuple) bool {
	if !m.IsValid(t) {
		return false
	}
	ids := [maxDimension]int64{-1, -1, -1}
	for k := 0; k < m.dim; k++ {
		ids[k] = m.ID(t, PrimitiveType(k))
	}
	r, ok := m.tupleFromGlobalIDs(t.cid, ids)
	return ok && r.SameIDs(t)
}

// TupleFromID implements Mesh.
func (m *meshBase) TupleFromID(pt PrimitiveType, id int64) Tuple {
	m.checkPrimitive("tuple_from_id", pt)
	k := pt.Dimension()
	if k == m.dim {
		f := m.topo.order[0]
		return Tuple{lv: f.lv, le: f.le, lf: f.lf, cid: id, hash: m.hash.scalar(id)}
	}
	cid := m.sc[k].scalar(id)
	if cid < 0 {
		panic(newStructuralError("tuple_from_id", fmt.Sprintf("%s %d has no incident cell", pt, id)))
	}
	l := indexOf(m.faceIDs(k, cid), id)
	if l < 0 {
		panic(newStructuralError("tuple_from_id", fmt.Sprintf("cell %d does not hold %s %d", cid, pt, id)))
	}
	f := m.topo.canonical[k][l]
	return Tuple{lv: f.lv, le: f.le, lf: f.lf, cid: cid, hash: m.hash.scalar(cid)}
}

// tupleFromGlobalIDs returns the tuple in cell cid whose k-face is ids[k]
// for every ids[k] >= 0. Counter-clockwise flags are preferred.
func (m *meshBase) tupleFromGlobalIDs(cid int64, ids [maxDimension]int64) (Tuple, bool) {
	for _, f := range m.topo.order {
		info := m.topo.flags[f]
		match := true
		for k := 0; k < m.dim; k++ {
			if ids[k] < 0 {
				continue
			}
			if m.faceIDs(k, cid)[info.sub[k]] != ids[k] {
				match = false
				break
			}
		}
		if match {
			return Tuple{lv: f.lv, le: f.le, lf: f.lf, cid: cid, hash: m.hash.scalar(cid)}, true
		}
	}
	return NullTuple(), false
}

// TupleFromGlobalIDs returns the tuple in cell cid whose vertex, edge and face
// are the given global ids. Pass -1 for faces that do not matter or that the
// mesh does not have.
func TupleFromGlobalIDs(m Mesh, cid, vid, eid, fid int64) (Tuple, bool) {
	b := m.core()
	if cid < 0 || cid >= b.caps[b.top] {
		return NullTuple(), false
	}
	return b.tupleFromGlobalIDs(cid, [maxDimension]int64{vid, eid, fid})
}

// cellTuples returns every valid tuple of cell cid.
func (m *meshBase) cellTuples(cid int64) []Tuple {
	out := make([]Tuple, 0, len(m.topo.order))
	h := m.hash.scalar(cid)
	for _, f := range m.topo.order {
		out = append(out, Tuple{lv: f.lv, le: f.le, lf: f.lf, cid: cid, hash: h})
	}
	return out
}

// simplexVertices returns the global vertex ids of the pt-face of t.
func (m *meshBase) simplexVertices(pt PrimitiveType, t Tuple) []int64 {
	if m.dim == 0 {
		return []int64{t.cid}
	}
	info := m.info(t)
	cv := m.cv.vector(t.cid)
	out := make([]int64, pt.Dimension()+1)
	for i := range out {
		out[i] = cv[info.perm[i]]
	}
	return out
}

// VertexIDs returns the global vertex ids of a simplex, starting with the
// vertex of its tuple.
func VertexIDs(m Mesh, s Simplex) []int64 {
	return m.core().simplexVertices(s.pt, s.tuple)
}

// SimplexID returns the global id of a simplex.
func SimplexID(m Mesh, s Simplex) int64 {
	return m.ID(s.tuple, s.pt)
}
