package mesh_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/meshkit/mesh"
	"github.com/hupe1980/meshkit/meshtest"
)

func TestConsolidate(t *testing.T) {
	m := meshtest.Hexagon(t)
	pos := mesh.CreateConstAccessor(m, meshtest.Positions(t, m))
	want := map[int64][]float64{}
	for v := int64(1); v <= 6; v++ {
		want[v] = pos.VectorAt(v)
	}

	mesh.Apply(m, mesh.PlanCollapse(m, meshtest.FindEdge(t, m, 0, 1)))
	require.Less(t, int64(mesh.Count(m, mesh.Triangle)), m.Capacity(mesh.Triangle))

	c, err := mesh.Consolidate(m)
	require.NoError(t, err)

	for _, pt := range []mesh.PrimitiveType{mesh.Vertex, mesh.Edge, mesh.Triangle} {
		assert.Equal(t, int64(mesh.Count(m, pt)), m.Capacity(pt), pt.String())
	}
	assert.True(t, m.IsConnectivityValid())
	assert.Equal(t, int64(-1), c.NewID(mesh.Vertex, 0))
	for old, p := range want {
		assert.Equal(t, p, pos.VectorAt(c.NewID(mesh.Vertex, old)))
	}
	assert.Equal(t, int64(0), c.NewID(mesh.Vertex, 1))
}

func TestConsolidateDuringScope(t *testing.T) {
	m := meshtest.Quad(t)
	scope := m.CreateScope()
	defer scope.Close()

	_, err := mesh.Consolidate(m)
	assert.ErrorIs(t, err, mesh.ErrScopeActive)
}

func TestPointMesh(t *testing.T) {
	m := meshtest.Points(t, 3)
	assert.Equal(t, 3, mesh.Count(m, mesh.Vertex))

	ids := m.AddVertices(2)
	assert.Equal(t, []int64{3, 4}, ids)

	tup := m.TupleFromID(mesh.Vertex, 1)
	require.True(t, m.IsValid(tup))
	m.RemoveVertex(1)
	assert.False(t, m.IsValid(tup))
	assert.Equal(t, 4, mesh.Count(m, mesh.Vertex))
	assert.Panics(t, func() { m.SwitchTuple(tup, mesh.Vertex) })

	_, err := mesh.Consolidate(m)
	require.NoError(t, err)
	assert.Equal(t, int64(4), m.Capacity(mesh.Vertex))
}

func TestEdgeLoop(t *testing.T) {
	m := meshtest.EdgeLoop(t, 4)
	assert.True(t, m.IsConnectivityValid())
	for _, tup := range m.GetAll(mesh.Edge) {
		_, ok := m.SwitchEdge(tup)
		assert.True(t, ok)
		assert.False(t, m.IsBoundaryVertex(tup))
	}

	line := meshtest.Polyline(t, 2)
	end, ok := mesh.FindSimplex(line, mesh.Vertex, []int64{0})
	require.True(t, ok)
	assert.True(t, line.IsBoundaryVertex(end.Tuple()))
	_, ok = line.SwitchEdge(end.Tuple())
	assert.False(t, ok)
}

func TestDispatch(t *testing.T) {
	fns := mesh.Funcs[string]{
		Tri: func(m *mesh.TriMesh, s mesh.Simplex) string { return "tri " + s.PrimitiveType().String() },
		Tet: func(m *mesh.TetMesh, s mesh.Simplex) string { return "tet" },
	}
	tri := meshtest.SingleTriangle(t)
	got, ok := mesh.Dispatch(tri, mesh.VertexSimplex(tri.GetAll(mesh.Vertex)[0]), fns)
	require.True(t, ok)
	assert.Equal(t, "tri vertex", got)

	line := meshtest.Polyline(t, 1)
	_, ok = mesh.Dispatch(line, mesh.VertexSimplex(line.GetAll(mesh.Vertex)[0]), fns)
	assert.False(t, ok)
}
