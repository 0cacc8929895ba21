package mesh

// Funcs holds one function per concrete mesh type. Nil entries mean the
// caller has nothing to do for that type.
type Funcs[R any] struct {
	Point func(m *PointMesh, s Simplex) R
	Edge  func(m *EdgeMesh, s Simplex) R
	Tri   func(m *TriMesh, s Simplex) R
	Tet   func(m *TetMesh, s Simplex) R
}

// Dispatch calls the function of fns that matches the concrete type of m. It
// returns false when that function is nil.
func Dispatch[R any](m Mesh, s Simplex, fns Funcs[R]) (R, bool) {
	var zero R
	switch mm := m.(type) {
	case *PointMesh:
		if fns.Point != nil {
			return fns.Point(mm, s), true
		}
	case *EdgeMesh:
		if fns.Edge != nil {
			return fns.Edge(mm, s), true
		}
	case *TriMesh:
		if fns.Tri != nil {
			return fns.Tri(mm, s), true
		}
	case *TetMesh:
		if fns.Tet != nil {
			return fns.Tet(mm, s), true
		}
	}
	return zero, false
}
