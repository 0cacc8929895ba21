package mesh

// TetMesh is a 3-dimensional manifold tetrahedral complex, possibly with boundary.
type TetMesh struct {
	*meshBase
}

var _ Mesh = (*TetMesh)(nil)

// NewTetMesh creates an empty tetrahedral mesh.
func NewTetMesh(opts ...Option) *TetMesh {
	return &TetMesh{meshBase: newMeshBase(Tetrahedron, tableNames{
		cv: "m_tv",
		cs: [maxDimension]string{1: "m_te", 2: "m_tf"},
		cc: "m_tt",
		sc: [maxDimension]string{"m_vt", "m_et", "m_ft"},
	}, opts)}
}

// Initialize builds the connectivity of the mesh from its tetrahedra given by
// vertex ids.
func (m *TetMesh) Initialize(tv [][4]int64) error {
	cells := make([][]int64, len(tv))
	for i := range tv {
		cells[i] = tv[i][:]
	}
	return m.initialize(cells)
}

// SwitchVertex moves to the other vertex of the tuple's edge.
func (m *TetMesh) SwitchVertex(t Tuple) Tuple {
	return m.localSwitch(t, 0)
}

// SwitchEdge moves to the other edge of the tuple's face at the tuple's vertex.
func (m *TetMesh) SwitchEdge(t Tuple) Tuple {
	return m.localSwitch(t, 1)
}

// SwitchFace moves to the other face of the tuple's tetrahedron at the tuple's edge.
func (m *TetMesh) SwitchFace(t Tuple) Tuple {
	return m.localSwitch(t, 2)
}

// SwitchTetrahedron moves to the neighboring tetrahedron across the tuple's
// face. It returns false when the face is on the boundary.
func (m *TetMesh) SwitchTetrahedron(t Tuple) (Tuple, bool) {
	return m.switchCell(t)
}

// TetVertices returns the vertices of tetrahedron id in local order.
func (m *TetMesh) TetVertices(id int64) [4]int64 {
	v := m.cv.vector(id)
	return [4]int64{v[0], v[1], v[2], v[3]}
}

// IsBoundaryFace reports whether the tuple's face has a single incident tetrahedron.
func (m *TetMesh) IsBoundaryFace(t Tuple) bool {
	return m.IsBoundary(Triangle, t)
}

// EdgeRing returns the vertices opposite the tuple's edge in the tetrahedra
// around it, in the order the tetrahedra are reached by alternating face and
// tetrahedron switches. Around a boundary edge the ring runs from one
// boundary face to the other.
func (m *TetMesh) EdgeRing(t Tuple) []int64 {
	var ring []int64
	if m.IsBoundary(Edge, t) {
		for {
			n, ok := m.switchCell(t)
			if !ok {
				break
			}
			t = m.localSwitch(n, 2)
		}
	}
	start := t
	for {
		ring = append(ring, m.cv.vector(t.cid)[m.info(t).perm[2]])
		n, ok := m.switchCell(m.localSwitch(t, 2))
		if !ok {
			ring = append(ring, m.cv.vector(t.cid)[m.info(t).perm[3]])
			return ring
		}
		t = n
		if t.cid == start.cid {
			return ring
		}
	}
}
