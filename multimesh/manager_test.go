package multimesh_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/meshkit/mesh"
	"github.com/hupe1980/meshkit/meshtest"
	"github.com/hupe1980/meshkit/multimesh"
)

func boundaryTag(t *testing.T, m mesh.Mesh) mesh.AttributeHandle[int64] {
	t.Helper()
	h, err := mesh.RegisterAttribute[int64](m, "boundary", mesh.Edge, 1, 0)
	require.NoError(t, err)
	acc := mesh.CreateAccessor(m, h)
	for _, e := range m.GetAll(mesh.Edge) {
		if m.IsBoundary(mesh.Edge, e) {
			acc.SetScalar(e, 1)
		}
	}
	return h
}

func editVisitor(g *multimesh.Manager, kind mesh.EditKind) *multimesh.Visitor[*mesh.EditResult] {
	apply := func(m mesh.Mesh, s mesh.Simplex) *mesh.EditResult {
		if kind == mesh.EditSplit {
			return mesh.Apply(m, mesh.PlanSplit(m, s))
		}
		return mesh.Apply(m, mesh.PlanCollapse(m, s))
	}
	fns := mesh.Funcs[*mesh.EditResult]{
		Edge: func(m *mesh.EdgeMesh, s mesh.Simplex) *mesh.EditResult { return apply(m, s) },
		Tri:  func(m *mesh.TriMesh, s mesh.Simplex) *mesh.EditResult { return apply(m, s) },
		Tet:  func(m *mesh.TetMesh, s mesh.Simplex) *mesh.EditResult { return apply(m, s) },
	}
	return multimesh.NewVisitor(mesh.Edge, fns).WithEdge(g.UpdateMaps)
}

func TestRegisterChild(t *testing.T) {
	parent := meshtest.TwoNeighbors(t)
	child := meshtest.SingleTriangle(t)
	g := multimesh.NewManager(parent)

	require.NoError(t, g.RegisterChild(parent, child, []int64{0, 1, 2}))
	assert.True(t, g.IsMapValid())
	assert.Equal(t, []mesh.Mesh{parent, child}, g.Meshes())
	assert.Equal(t, []mesh.Mesh{child}, g.Children(parent))
	p, ok := g.Parent(child)
	require.True(t, ok)
	assert.Equal(t, parent.Identity(), p.Identity())
	_, ok = g.Parent(parent)
	assert.False(t, ok)

	e := meshtest.FindEdge(t, child, 1, 2)
	up, ok := g.MapToParent(child, e)
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2}, mesh.VertexIDs(parent, up))

	down := g.MapToChild(child, meshtest.FindEdge(t, parent, 2, 0))
	require.Len(t, down, 1)
	assert.Equal(t, []int64{2, 0}, mesh.VertexIDs(child, down[0]))

	assert.Empty(t, g.MapToChild(child, meshtest.FindEdge(t, parent, 2, 3)))
}

func TestRegisterChildErrors(t *testing.T) {
	parent := meshtest.TwoNeighbors(t)
	g := multimesh.NewManager(parent)

	err := g.RegisterChild(parent, meshtest.SingleTriangle(t), []int64{0, 1, 4})
	assert.ErrorIs(t, err, multimesh.ErrInvalidMap)

	err = g.RegisterChild(parent, meshtest.SingleTriangle(t), []int64{0, 1})
	assert.ErrorIs(t, err, multimesh.ErrInvalidMap)

	err = g.RegisterChild(parent, meshtest.SingleTet(t), []int64{0, 1, 2, 3})
	assert.ErrorIs(t, err, multimesh.ErrDimensionMismatch)

	child := meshtest.SingleTriangle(t)
	require.NoError(t, g.RegisterChild(parent, child, []int64{0, 1, 2}))
	assert.ErrorIs(t, g.RegisterChild(parent, child, []int64{0, 1, 2}), multimesh.ErrAlreadyRegistered)

	stranger := meshtest.Quad(t)
	assert.ErrorIs(t, g.RegisterChild(stranger, meshtest.SingleTriangle(t), []int64{0, 1, 2}), multimesh.ErrNotInManager)
}

func TestExtractChild(t *testing.T) {
	parent := meshtest.Quad(t)
	g := multimesh.NewManager(parent)

	child, err := g.ExtractChild(parent, mesh.Edge, boundaryTag(t, parent), 1)
	require.NoError(t, err)

	assert.Equal(t, mesh.Edge, child.TopSimplexType())
	assert.Equal(t, 4, mesh.Count(child, mesh.Edge))
	assert.Equal(t, 4, mesh.Count(child, mesh.Vertex))
	assert.True(t, child.IsConnectivityValid())
	assert.True(t, g.IsMapValid())

	assert.Empty(t, g.MapToChild(child, meshtest.FindEdge(t, parent, 0, 2)))
	assert.Len(t, g.MapToChild(child, meshtest.FindEdge(t, parent, 0, 1)), 1)
}

func TestFramePreservingRoundTrip(t *testing.T) {
	parent := meshtest.ThreeNeighbors(t)
	child := meshtest.SingleTriangle(t)
	g := multimesh.NewManager(parent)
	require.NoError(t, g.RegisterChild(parent, child, []int64{0, 1, 2}))

	face := meshtest.FindFace(t, parent, 0, 1, 2)
	for _, pt := range []mesh.PrimitiveType{mesh.Vertex, mesh.Edge, mesh.Triangle} {
		for _, s := range mesh.Faces(parent, face, pt) {
			down := g.MapToChild(child, s)
			require.Len(t, down, 1)
			back, ok := g.MapToParent(child, down[0])
			require.True(t, ok)
			assert.Equal(t, s.Tuple(), back.Tuple(), "%s", s)
		}
	}
}

func TestSplitUpdatesMaps(t *testing.T) {
	parent := meshtest.Quad(t)
	g := multimesh.NewManager(parent)
	child, err := g.ExtractChild(parent, mesh.Edge, boundaryTag(t, parent), 1)
	require.NoError(t, err)

	e := meshtest.FindEdge(t, parent, 0, 1)
	res, err := editVisitor(g, mesh.EditSplit).Execute(g, parent, e)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Len())
	require.Len(t, res.ForMesh(child), 1)

	assert.Equal(t, 5, mesh.Count(child, mesh.Edge))
	assert.Equal(t, 5, mesh.Count(child, mesh.Vertex))
	assert.True(t, g.IsMapValid())

	newVertex := res.ForMesh(child)[0].NewVertex
	up, ok := g.MapToParent(child, mesh.VertexSimplex(child.TupleFromID(mesh.Vertex, newVertex)))
	require.True(t, ok)
	assert.Equal(t, res.ForMesh(parent)[0].NewVertex, mesh.SimplexID(parent, up))
}

func TestCollapseUpdatesMaps(t *testing.T) {
	parent := meshtest.Quad(t)
	g := multimesh.NewManager(parent)
	child, err := g.ExtractChild(parent, mesh.Edge, boundaryTag(t, parent), 1)
	require.NoError(t, err)

	_, err = editVisitor(g, mesh.EditCollapse).Execute(g, parent, meshtest.FindEdge(t, parent, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, 3, mesh.Count(child, mesh.Edge))
	assert.Equal(t, 1, mesh.Count(parent, mesh.Triangle))
	assert.True(t, child.IsConnectivityValid())
	assert.True(t, g.IsMapValid())

	require.NoError(t, g.Consolidate())
	assert.True(t, g.IsMapValid())
	assert.Equal(t, int64(3), child.Capacity(mesh.Edge))
	assert.Equal(t, int64(3), parent.Capacity(mesh.Vertex))
}

func TestPointChildFollowsCollapse(t *testing.T) {
	parent := meshtest.Quad(t)
	g := multimesh.NewManager(parent)
	points := meshtest.Points(t, 1)
	require.NoError(t, g.RegisterChild(parent, points, []int64{0}))

	_, err := editVisitor(g, mesh.EditCollapse).Execute(g, parent, meshtest.FindEdge(t, parent, 0, 1))
	require.NoError(t, err)
	assert.True(t, g.IsMapValid())

	up, ok := g.MapToParent(points, mesh.VertexSimplex(points.TupleFromID(mesh.Vertex, 0)))
	require.True(t, ok)
	assert.Equal(t, int64(1), mesh.SimplexID(parent, up))
}

func TestScopeRollsBackEveryMesh(t *testing.T) {
	parent := meshtest.Quad(t)
	g := multimesh.NewManager(parent)
	child, err := g.ExtractChild(parent, mesh.Edge, boundaryTag(t, parent), 1)
	require.NoError(t, err)
	parentBefore, childBefore := mesh.Clone(parent), mesh.Clone(child)

	scope := g.CreateScope()
	assert.Equal(t, 2, scope.Meshes())
	_, err = editVisitor(g, mesh.EditSplit).Execute(g, parent, meshtest.FindEdge(t, parent, 0, 1))
	require.NoError(t, err)
	scope.Close()

	assert.True(t, mesh.Equal(parentBefore, parent))
	assert.True(t, mesh.Equal(childBefore, child))
	assert.True(t, g.IsMapValid())
}

func TestMapBetweenSiblings(t *testing.T) {
	parent := meshtest.Quad(t)
	g := multimesh.NewManager(parent)
	boundary, err := g.ExtractChild(parent, mesh.Edge, boundaryTag(t, parent), 1)
	require.NoError(t, err)
	face := meshtest.SingleTriangle(t)
	require.NoError(t, g.RegisterChild(parent, face, []int64{0, 1, 2}))

	e := meshtest.FindEdge(t, boundary, 1, 2)
	got := g.Map(boundary, face, e)
	require.Len(t, got, 1)
	assert.Equal(t, []int64{1, 2}, mesh.VertexIDs(face, got[0]))

	root, ok := g.MapToRoot(face, got[0])
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2}, mesh.VertexIDs(parent, root))

	assert.Len(t, g.Images(face, got[0]), 3)
}

func TestAttachChildAfterClone(t *testing.T) {
	parent := meshtest.Quad(t)
	g := multimesh.NewManager(parent)
	child, err := g.ExtractChild(parent, mesh.Edge, boundaryTag(t, parent), 1)
	require.NoError(t, err)

	p2, c2 := mesh.Clone(parent), mesh.Clone(child)
	g2 := multimesh.NewManager(p2)
	require.NoError(t, g2.AttachChild(p2, c2))
	assert.True(t, g2.IsMapValid())
	assert.Len(t, g2.MapToChild(c2, meshtest.FindEdge(t, p2, 3, 0)), 1)

	g3 := multimesh.NewManager(meshtest.Quad(t))
	assert.Error(t, g3.AttachChild(g3.Root(), mesh.Clone(child)))
}

func TestVisitorRunsOncePerElement(t *testing.T) {
	parent := meshtest.Quad(t)
	g := multimesh.NewManager(parent)
	child, err := g.ExtractChild(parent, mesh.Edge, boundaryTag(t, parent), 1)
	require.NoError(t, err)

	// Point both child slots of the parent edge at the same child edge.
	e := meshtest.FindEdge(t, parent, 0, 1)
	h, err := mesh.GetAttributeHandle[int64](parent, "map_to_child_0_1", mesh.Edge)
	require.NoError(t, err)
	acc := mesh.CreateAccessor(parent, h)
	slots := acc.Vector(e.Tuple())
	require.GreaterOrEqual(t, slots[0], int64(0))
	acc.SetVector(e.Tuple(), []int64{slots[0], slots[0]})
	require.Len(t, g.Images(parent, e), 3)

	calls := map[string]int{}
	fns := mesh.Funcs[int64]{
		Edge: func(m *mesh.EdgeMesh, s mesh.Simplex) int64 {
			calls["edge"]++
			return mesh.SimplexID(m, s)
		},
		Tri: func(m *mesh.TriMesh, s mesh.Simplex) int64 {
			calls["tri"]++
			return mesh.SimplexID(m, s)
		},
	}
	res, err := multimesh.NewVisitor(mesh.Edge, fns).Execute(g, parent, e)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"edge": 1, "tri": 1}, calls)
	assert.Equal(t, 2, res.Len())
	assert.Len(t, res.ForMesh(child), 1)
}
