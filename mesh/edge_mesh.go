package mesh

// EdgeMesh is a 1-dimensional complex (polylines and graphs of maximal degree
// two per vertex).
type EdgeMesh struct {
	*meshBase
}

var _ Mesh = (*EdgeMesh)(nil)

// NewEdgeMesh creates an empty edge mesh.
func NewEdgeMesh(opts ...Option) *EdgeMesh {
	return &EdgeMesh{meshBase: newMeshBase(Edge, tableNames{cv: "m_ev", cc: "m_ee", sc: [maxDimension]string{"m_ve"}}, opts)}
}

// Initialize builds the connectivity of the mesh from its edges.
func (m *EdgeMesh) Initialize(ev [][2]int64) error {
	cells := make([][]int64, len(ev))
	for i := range ev {
		cells[i] = ev[i][:]
	}
	return m.initialize(cells)
}

// SwitchVertex moves to the other endpoint of the tuple's edge.
func (m *EdgeMesh) SwitchVertex(t Tuple) Tuple {
	return m.localSwitch(t, 0)
}

// SwitchEdge moves to the neighboring edge across the tuple's vertex. It
// returns false when the vertex is an endpoint of the polyline.
func (m *EdgeMesh) SwitchEdge(t Tuple) (Tuple, bool) {
	return m.switchCell(t)
}

// EdgeVertices returns the two vertices of edge id.
func (m *EdgeMesh) EdgeVertices(id int64) [2]int64 {
	v := m.cv.vector(id)
	return [2]int64{v[0], v[1]}
}

// IsBoundaryVertex reports whether the tuple's vertex has a single incident edge.
func (m *EdgeMesh) IsBoundaryVertex(t Tuple) bool {
	return m.IsBoundary(Vertex, t)
}
