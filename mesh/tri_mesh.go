package mesh

// TriMesh is a 2-dimensional manifold triangle complex, possibly with boundary.
type TriMesh struct {
	*meshBase
}

var _ Mesh = (*TriMesh)(nil)

// NewTriMesh creates an empty triangle mesh.
func NewTriMesh(opts ...Option) *TriMesh {
	return &TriMesh{meshBase: newMeshBase(Triangle, tableNames{
		cv: "m_fv",
		cs: [maxDimension]string{1: "m_fe"},
		cc: "m_ff",
		sc: [maxDimension]string{"m_vf", "m_ef"},
	}, opts)}
}

// Initialize builds the connectivity of the mesh from its triangles given by
// vertex ids.
func (m *TriMesh) Initialize(fv [][3]int64) error {
	cells := make([][]int64, len(fv))
	for i := range fv {
		cells[i] = fv[i][:]
	}
	return m.initialize(cells)
}

// SwitchVertex moves to the other vertex of the tuple's edge.
func (m *TriMesh) SwitchVertex(t Tuple) Tuple {
	return m.localSwitch(t, 0)
}

// SwitchEdge moves to the other edge of the tuple's face at the tuple's vertex.
func (m *TriMesh) SwitchEdge(t Tuple) Tuple {
	return m.localSwitch(t, 1)
}

// SwitchFace moves to the neighboring face across the tuple's edge. It returns
// false when the edge is on the boundary.
func (m *TriMesh) SwitchFace(t Tuple) (Tuple, bool) {
	return m.switchCell(t)
}

// FaceVertices returns the vertices of face id in local order.
func (m *TriMesh) FaceVertices(id int64) [3]int64 {
	v := m.cv.vector(id)
	return [3]int64{v[0], v[1], v[2]}
}

// IsBoundaryEdge reports whether the tuple's edge has a single incident face.
func (m *TriMesh) IsBoundaryEdge(t Tuple) bool {
	return m.IsBoundary(Edge, t)
}

// IsBoundaryVertex reports whether the tuple's vertex touches a boundary edge.
func (m *TriMesh) IsBoundaryVertex(t Tuple) bool {
	return m.IsBoundary(Vertex, t)
}

// Valence returns the number of edges incident to the tuple's vertex.
func (m *TriMesh) Valence(t Tuple) int {
	v := m.ID(t, Vertex)
	seen := make(map[int64]struct{})
	for _, c := range m.cellsAround(t.cid, []int64{v}) {
		for _, w := range m.cv.vector(c) {
			if w != v {
				seen[w] = struct{}{}
			}
		}
	}
	return len(seen)
}
