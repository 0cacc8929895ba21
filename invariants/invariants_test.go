package invariants_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/meshkit/invariants"
	"github.com/hupe1980/meshkit/mesh"
	"github.com/hupe1980/meshkit/meshtest"
)

func TestCollection(t *testing.T) {
	m := meshtest.Quad(t)
	e := meshtest.FindEdge(t, m, 0, 2)
	top := m.GetAll(mesh.Triangle)

	var empty invariants.Collection
	assert.True(t, empty.Before(e))
	assert.True(t, empty.After(top))

	calls := 0
	counting := invariants.Func{BeforeFn: func(mesh.Simplex) bool { calls++; return true }}
	reject := invariants.Func{
		BeforeFn: func(mesh.Simplex) bool { return false },
		AfterFn:  func([]mesh.Tuple) bool { return false },
	}

	c := invariants.NewCollection(counting, nil, invariants.Func{})
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Before(e))
	assert.True(t, c.After(top))

	c.Add(reject, counting)
	assert.False(t, c.Before(e))
	assert.False(t, c.After(top))
	assert.Equal(t, 2, calls)
}

func TestInteriorEdge(t *testing.T) {
	m := meshtest.Quad(t)
	inv := invariants.InteriorEdge(m)

	assert.True(t, inv.Before(meshtest.FindEdge(t, m, 0, 2)))
	assert.False(t, inv.Before(meshtest.FindEdge(t, m, 0, 1)))
	assert.False(t, inv.Before(mesh.VertexSimplex(m.TupleFromID(mesh.Vertex, 0))))
	assert.True(t, inv.After(nil))
}

func TestInteriorVertex(t *testing.T) {
	m := meshtest.Hexagon(t)
	inv := invariants.InteriorVertex(m)

	assert.True(t, inv.Before(meshtest.FindEdge(t, m, 0, 1)))
	assert.False(t, inv.Before(meshtest.FindEdge(t, m, 1, 0)))
}

func TestLinkConditionInvariant(t *testing.T) {
	quad := meshtest.Quad(t)
	inv := invariants.LinkCondition(quad)

	assert.True(t, inv.Before(meshtest.FindEdge(t, quad, 0, 1)))
	assert.False(t, inv.Before(meshtest.FindEdge(t, quad, 0, 2)))
	assert.False(t, inv.Before(meshtest.FindFace(t, quad, 0, 1, 2)))
}

func TestTodoTag(t *testing.T) {
	m := meshtest.Quad(t)
	h, err := mesh.RegisterAttribute[int64](m, "todo", mesh.Edge, 1, 0)
	require.NoError(t, err)
	e := meshtest.FindEdge(t, m, 0, 2)
	mesh.CreateAccessor(m, h).SetScalar(e.Tuple(), 1)

	inv := invariants.TodoTag(m, h, 1)
	assert.True(t, inv.Before(e))
	assert.False(t, inv.Before(meshtest.FindEdge(t, m, 0, 1)))
	assert.False(t, inv.Before(meshtest.FindFace(t, m, 0, 1, 2)))
}

func TestValenceImprovement(t *testing.T) {
	// 0 and 1 have valence 5 on the boundary, 2 and 3 valence 3.
	m := meshtest.Tri(t, [][3]int64{{0, 1, 2}, {1, 0, 3}, {0, 2, 4}, {0, 4, 5}, {1, 3, 6}, {1, 6, 7}}, nil)
	inv := invariants.ValenceImprovement(m)
	assert.True(t, inv.Before(meshtest.FindEdge(t, m, 0, 1)))
	assert.False(t, inv.Before(meshtest.FindEdge(t, m, 0, 2)))

	grid := meshtest.Grid(t, 2)
	inv = invariants.ValenceImprovement(grid)
	assert.False(t, inv.Before(meshtest.FindEdge(t, grid, 0, 4)))
	assert.False(t, inv.Before(meshtest.FindEdge(t, grid, 1, 4)))
	assert.False(t, inv.Before(meshtest.FindEdge(t, grid, 0, 1)))
}

func TestEdgeLengthBounds(t *testing.T) {
	m := meshtest.Quad(t)
	pos := meshtest.Positions(t, m)
	top := m.GetAll(mesh.Triangle)

	assert.True(t, invariants.MinEdgeLength(m, pos, 1).After(top))
	assert.False(t, invariants.MinEdgeLength(m, pos, 1.1).After(top))
	assert.True(t, invariants.MaxEdgeLength(m, pos, 1.5).After(top))
	assert.False(t, invariants.MaxEdgeLength(m, pos, 1.2).After(top))
	assert.True(t, invariants.MaxEdgeLength(m, pos, 0.1).Before(meshtest.FindEdge(t, m, 0, 1)))
}

func TestNoInversion(t *testing.T) {
	t.Run("triangles", func(t *testing.T) {
		m := meshtest.Quad(t)
		pos := meshtest.Positions(t, m)
		inv := invariants.NoInversion(m, pos)
		require.True(t, inv.After(m.GetAll(mesh.Triangle)))

		mesh.CreateAccessor(m, pos).SetVectorAt(2, []float64{1, -1})
		assert.False(t, inv.After(m.GetAll(mesh.Triangle)))
	})

	t.Run("tetrahedra", func(t *testing.T) {
		m := meshtest.TwoTets(t)
		pos := meshtest.Positions(t, m)
		inv := invariants.NoInversion(m, pos)
		require.True(t, inv.After(m.GetAll(mesh.Tetrahedron)))

		mesh.CreateAccessor(m, pos).SetVectorAt(4, []float64{-1, -1, -1})
		assert.False(t, inv.After(m.GetAll(mesh.Tetrahedron)))
	})

	t.Run("edges", func(t *testing.T) {
		m := meshtest.Polyline(t, 2)
		assert.True(t, invariants.NoInversion(m, meshtest.Positions(t, m)).After(m.GetAll(mesh.Edge)))
	})
}

func TestOrientation(t *testing.T) {
	assert.InDelta(t, 1.0, invariants.Orient2D([]float64{0, 0}, []float64{1, 0}, []float64{0, 1}), 1e-12)
	assert.InDelta(t, -1.0, invariants.Orient2D([]float64{0, 0}, []float64{0, 1}, []float64{1, 0}), 1e-12)
	assert.InDelta(t, 1.0, invariants.Orient3D([]float64{0, 0, 0}, []float64{1, 0, 0}, []float64{0, 1, 0}, []float64{0, 0, 1}), 1e-12)
	assert.InDelta(t, 0.0, invariants.Orient3D([]float64{0, 0, 0}, []float64{1, 0, 0}, []float64{0, 1, 0}, []float64{1, 1, 0}), 1e-12)
}
