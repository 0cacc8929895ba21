package meshtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/meshkit/mesh"
)

// PositionAttribute is the name of the vertex position attribute.
const PositionAttribute = "vertices"

// Positions returns the position handle of a fixture.
func Positions(t testing.TB, m mesh.Mesh) mesh.AttributeHandle[float64] {
	t.Helper()
	h, err := mesh.GetAttributeHandle[float64](m, PositionAttribute, mesh.Vertex)
	require.NoError(t, err)
	return h
}

// SetPositions registers the position attribute on m and fills it. All rows
// must have the same length.
func SetPositions(t testing.TB, m mesh.Mesh, pos [][]float64) mesh.AttributeHandle[float64] {
	t.Helper()
	require.NotEmpty(t, pos)
	h, err := mesh.RegisterAttribute[float64](m, PositionAttribute, mesh.Vertex, len(pos[0]), 0)
	require.NoError(t, err)
	acc := mesh.CreateAccessor(m, h)
	for i, p := range pos {
		acc.SetVectorAt(int64(i), p)
	}
	return h
}

// Tri builds a triangle mesh from faces and optional positions.
func Tri(t testing.TB, faces [][3]int64, pos [][]float64) *mesh.TriMesh {
	t.Helper()
	m := mesh.NewTriMesh()
	require.NoError(t, m.Initialize(faces))
	if pos != nil {
		SetPositions(t, m, pos)
	}
	return m
}

// Tet builds a tetrahedral mesh from tetrahedra and optional positions.
func Tet(t testing.TB, tets [][4]int64, pos [][]float64) *mesh.TetMesh {
	t.Helper()
	m := mesh.NewTetMesh()
	require.NoError(t, m.Initialize(tets))
	if pos != nil {
		SetPositions(t, m, pos)
	}
	return m
}

// SingleTriangle is one triangle.
//
//	  2
//	 / \
//	0---1
func SingleTriangle(t testing.TB) *mesh.TriMesh {
	return Tri(t, [][3]int64{{0, 1, 2}}, [][]float64{{0, 0}, {1, 0}, {0.5, 1}})
}

// Quad is two triangles sharing the edge (0,2).
//
//	3---2
//	| \ |
//	0---1
func Quad(t testing.TB) *mesh.TriMesh {
	return Tri(t, [][3]int64{{0, 1, 2}, {0, 2, 3}}, [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
}

// TwoNeighbors is a center triangle (0,1,2) with neighbors across (0,2) and (1,2).
func TwoNeighbors(t testing.TB) *mesh.TriMesh {
	return Tri(t, [][3]int64{{0, 1, 2}, {0, 2, 3}, {1, 4, 2}},
		[][]float64{{0, 0}, {2, 0}, {1, 1.5}, {-1, 1.5}, {3, 1.5}})
}

// ThreeNeighbors is a center triangle (0,1,2) with a neighbor across each edge.
func ThreeNeighbors(t testing.TB) *mesh.TriMesh {
	return Tri(t, [][3]int64{{0, 1, 2}, {0, 2, 3}, {1, 4, 2}, {0, 5, 1}},
		[][]float64{{0, 0}, {2, 0}, {1, 1.5}, {-1, 1.5}, {3, 1.5}, {1, -1.5}})
}

// Hexagon is a fan of six triangles around the interior vertex 0.
func Hexagon(t testing.TB) *mesh.TriMesh {
	faces := make([][3]int64, 6)
	pos := [][]float64{{0, 0}}
	for i := int64(0); i < 6; i++ {
		faces[i] = [3]int64{0, i + 1, (i+1)%6 + 1}
		a := float64(i) * math.Pi / 3
		pos = append(pos, []float64{math.Cos(a), math.Sin(a)})
	}
	return Tri(t, faces, pos)
}

// Grid is a triangulated n by n grid of unit squares. Vertex (i, j) has id
// j*(n+1)+i and position (i, j).
func Grid(t testing.TB, n int) *mesh.TriMesh {
	id := func(i, j int) int64 { return int64(j*(n+1) + i) }
	var faces [][3]int64
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			faces = append(faces,
				[3]int64{id(i, j), id(i+1, j), id(i+1, j+1)},
				[3]int64{id(i, j), id(i+1, j+1), id(i, j+1)})
		}
	}
	var pos [][]float64
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			pos = append(pos, []float64{float64(i), float64(j)})
		}
	}
	return Tri(t, faces, pos)
}

// SingleTet is one unit tetrahedron.
func SingleTet(t testing.TB) *mesh.TetMesh {
	return Tet(t, [][4]int64{{0, 1, 2, 3}}, [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
}

// TwoTets are two tetrahedra sharing the face (1,2,3).
func TwoTets(t testing.TB) *mesh.TetMesh {
	return Tet(t, [][4]int64{{0, 1, 2, 3}, {4, 2, 1, 3}},
		[][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}})
}

// ThreeTetsAroundEdge are three tetrahedra forming a closed ring around the edge (0,1).
func ThreeTetsAroundEdge(t testing.TB) *mesh.TetMesh {
	return Tet(t, [][4]int64{{0, 1, 2, 3}, {0, 1, 3, 4}, {0, 1, 4, 2}},
		[][]float64{{0, 0, -1}, {0, 0, 1}, {1, 0, 0}, {-0.5, 0.866, 0}, {-0.5, -0.866, 0}})
}

// Polyline is an open chain of n edges through vertices 0..n.
func Polyline(t testing.TB, n int) *mesh.EdgeMesh {
	t.Helper()
	ev := make([][2]int64, n)
	pos := make([][]float64, n+1)
	for i := range ev {
		ev[i] = [2]int64{int64(i), int64(i + 1)}
	}
	for i := range pos {
		pos[i] = []float64{float64(i)}
	}
	m := mesh.NewEdgeMesh()
	require.NoError(t, m.Initialize(ev))
	SetPositions(t, m, pos)
	return m
}

// EdgeLoop is a closed chain of n edges.
func EdgeLoop(t testing.TB, n int) *mesh.EdgeMesh {
	t.Helper()
	ev := make([][2]int64, n)
	for i := range ev {
		ev[i] = [2]int64{int64(i), int64((i + 1) % n)}
	}
	m := mesh.NewEdgeMesh()
	require.NoError(t, m.Initialize(ev))
	return m
}

// Points is a point mesh of n vertices.
func Points(t testing.TB, n int) *mesh.PointMesh {
	t.Helper()
	return mesh.NewPointMesh(int64(n))
}

// FindEdge returns the edge tuple from u to v, failing the test when the
// edge does not exist.
func FindEdge(t testing.TB, m mesh.Mesh, u, v int64) mesh.Simplex {
	t.Helper()
	s, ok := mesh.FindSimplex(m, mesh.Edge, []int64{u, v})
	require.True(t, ok, "edge (%d,%d) not found", u, v)
	if mesh.VertexIDs(m, s)[0] != u {
		s = mesh.EdgeSimplex(m.SwitchTuple(s.Tuple(), mesh.Vertex))
	}
	return s
}

// FindFace returns the triangle with the given vertices.
func FindFace(t testing.TB, m mesh.Mesh, u, v, w int64) mesh.Simplex {
	t.Helper()
	s, ok := mesh.FindSimplex(m, mesh.Triangle, []int64{u, v, w})
	require.True(t, ok, "face (%d,%d,%d) not found", u, v, w)
	return s
}
