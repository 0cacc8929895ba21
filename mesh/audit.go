package mesh

// IsConnectivityValid implements Mesh. It checks, for every live element,
// that each reference is matched by its inverse: cell to face against face to
// cell, neighbor against neighbor, and that a face id names the same vertex
// set in every cell that uses it. Failures are logged at debug level.
func (m *meshBase) IsConnectivityValid() bool {
	if m.dim == 0 {
		return true
	}
	d := m.dim
	cells := m.caps[m.top]
	var seen [maxDimension]map[int64]simplexKey
	for k := range seen {
		seen[k] = make(map[int64]simplexKey)
	}
	facetUse := make(map[simplexKey]int)

	for c := int64(0); c < cells; c++ {
		if m.IsRemoved(m.top, c) {
			continue
		}
		cv := m.cv.vector(c)
		for k := 0; k < d; k++ {
			pt := PrimitiveType(k)
			for l, id := range m.faceIDs(k, c) {
				if m.IsRemoved(pt, id) {
					m.logger.LogAuditFailure("cell references removed face", m.top.String(), c, "face", id, "face_type", pt.String())
					return false
				}
				key := makeKey(globalVertices(cv, m.topo.sub[k][l]))
				if prev, ok := seen[k][id]; ok && prev != key {
					m.logger.LogAuditFailure("face names two vertex sets", pt.String(), id, "cell", c)
					return false
				}
				seen[k][id] = key
			}
		}
		for i := range cv {
			facetUse[makeKey(without(cv, i))]++
		}
	}

	for c := int64(0); c < cells; c++ {
		if m.IsRemoved(m.top, c) {
			continue
		}
		cv := m.cv.vector(c)
		for i, n := range m.cc.vector(c) {
			key := makeKey(without(cv, i))
			if n < 0 {
				if facetUse[key] > 1 {
					m.logger.LogAuditFailure("shared facet without neighbor", m.top.String(), c, "facet", i)
					return false
				}
				continue
			}
			if m.IsRemoved(m.top, n) {
				m.logger.LogAuditFailure("neighbor removed", m.top.String(), c, "neighbor", n)
				return false
			}
			j := indexOf(m.cc.vector(n), c)
			if j < 0 {
				m.logger.LogAuditFailure("neighbor not symmetric", m.top.String(), c, "neighbor", n)
				return false
			}
			if makeKey(without(m.cv.vector(n), j)) != key {
				m.logger.LogAuditFailure("neighbors disagree on facet", m.top.String(), c, "neighbor", n)
				return false
			}
		}
	}

	for k := 0; k < d; k++ {
		pt := PrimitiveType(k)
		for id := int64(0); id < m.caps[pt]; id++ {
			if m.IsRemoved(pt, id) {
				continue
			}
			c := m.sc[k].scalar(id)
			if c < 0 || m.IsRemoved(m.top, c) {
				m.logger.LogAuditFailure("face points to no live cell", pt.String(), id, "cell", c)
				return false
			}
			if indexOf(m.faceIDs(k, c), id) < 0 {
				m.logger.LogAuditFailure("face and cell disagree", pt.String(), id, "cell", c)
				return false
			}
		}
	}
	return true
}
