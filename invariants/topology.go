package invariants

import "github.com/hupe1980/meshkit/mesh"

// InteriorEdge rejects edges on the boundary of m.
func InteriorEdge(m mesh.Mesh) Invariant {
	return Func{BeforeFn: func(s mesh.Simplex) bool {
		return s.PrimitiveType() == mesh.Edge && !m.IsBoundary(mesh.Edge, s.Tuple())
	}}
}

// InteriorVertex rejects simplices whose tuple vertex is on the boundary of m.
func InteriorVertex(m mesh.Mesh) Invariant {
	return Func{BeforeFn: func(s mesh.Simplex) bool {
		return !m.IsBoundary(mesh.Vertex, s.Tuple())
	}}
}

// LinkCondition rejects edges whose collapse would break the manifold.
func LinkCondition(m mesh.Mesh) Invariant {
	return Func{BeforeFn: func(s mesh.Simplex) bool {
		return s.PrimitiveType() == mesh.Edge && mesh.LinkCondition(m, s)
	}}
}

// TodoTag passes only for simplices whose tag equals value. The tag must live
// on the primitive type of the simplices the operation receives.
func TodoTag(m mesh.Mesh, tag mesh.AttributeHandle[int64], value int64) Invariant {
	return Func{BeforeFn: func(s mesh.Simplex) bool {
		if s.PrimitiveType() != tag.PrimitiveType() {
			return false
		}
		acc := mesh.CreateConstAccessor(m, tag)
		return acc.ScalarAt(mesh.SimplexID(m, s)) == value
	}}
}

const (
	interiorValence = 6
	boundaryValence = 4
)

// ValenceImprovement passes when swapping an interior edge of a triangle mesh
// moves the valences of the four vertices around it closer to the regular
// valence (6 inside, 4 on the boundary).
func ValenceImprovement(m *mesh.TriMesh) Invariant {
	return Func{BeforeFn: func(s mesh.Simplex) bool {
		if s.PrimitiveType() != mesh.Edge {
			return false
		}
		t := s.Tuple()
		o, ok := m.SwitchFace(t)
		if !ok {
			return false
		}
		quad := []mesh.Tuple{
			t,
			m.SwitchVertex(t),
			m.SwitchVertex(m.SwitchEdge(t)),
			m.SwitchVertex(m.SwitchEdge(o)),
		}
		delta := []int{-1, -1, 1, 1}
		before, after := 0, 0
		for i, v := range quad {
			target := interiorValence
			if m.IsBoundaryVertex(v) {
				target = boundaryValence
			}
			val := m.Valence(v)
			before += sq(val - target)
			after += sq(val + delta[i] - target)
		}
		return after < before
	}}
}

func sq(x int) int { return x * x }
