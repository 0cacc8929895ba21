package mesh

// PointMesh is a set of isolated vertices. Its tuples carry only the vertex id.
type PointMesh struct {
	*meshBase
}

var _ Mesh = (*PointMesh)(nil)

// NewPointMesh creates a point mesh with n live vertices.
func NewPointMesh(n int64, opts ...Option) *PointMesh {
	m := &PointMesh{meshBase: newMeshBase(Vertex, tableNames{}, opts)}
	if n > 0 {
		m.allocate(Vertex, int(n))
	}
	return m
}

// AddVertices appends count live vertices and returns their ids.
func (m *PointMesh) AddVertices(count int) []int64 {
	return m.allocate(Vertex, count)
}

// RemoveVertex marks a vertex removed and invalidates its tuples.
func (m *PointMesh) RemoveVertex(id int64) {
	m.remove(Vertex, id)
	m.bumpHash(id)
}
