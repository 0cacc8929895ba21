package mesh

// IsBoundary implements Mesh. A facet is boundary when it has no neighbor
// across it; a lower dimensional face is boundary when any facet in its open
// star is.
func (m *meshBase) IsBoundary(pt PrimitiveType, t Tuple) bool {
	m.checkPrimitive("is_boundary", pt)
	k := pt.Dimension()
	if m.dim == 0 || k == m.dim {
		return false
	}
	if k == m.dim-1 {
		return m.cc.vector(t.cid)[m.facetOf(t)] < 0
	}
	verts := m.simplexVertices(pt, t)
	for _, c := range m.cellsAround(t.cid, verts) {
		if m.hasBoundaryFacet(c, verts) {
			return true
		}
	}
	return false
}

// hasBoundaryFacet reports whether a facet of cell c that contains verts has no neighbor.
func (m *meshBase) hasBoundaryFacet(c int64, verts []int64) bool {
	cv := m.cv.vector(c)
	cc := m.cc.vector(c)
	for i := range cv {
		if !containsID(verts, cv[i]) && cc[i] < 0 {
			return true
		}
	}
	return false
}

// IsBoundarySimplex reports whether s lies on the boundary of m.
func IsBoundarySimplex(m Mesh, s Simplex) bool {
	return m.IsBoundary(s.pt, s.tuple)
}
