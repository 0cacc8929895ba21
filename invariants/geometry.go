package invariants

import "github.com/hupe1980/meshkit/mesh"

func cellIDs(m mesh.Mesh, top []mesh.Tuple) []int64 {
	out := make([]int64, len(top))
	for i, t := range top {
		out[i] = m.ID(t, m.TopSimplexType())
	}
	return out
}

func squaredDistance(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		x := a[i] - b[i]
		d += x * x
	}
	return d
}

// edgeLengths calls fn with the squared length of every edge of the given
// cells until fn returns false.
func edgeLengths(m mesh.Mesh, pos mesh.AttributeHandle[float64], top []mesh.Tuple, fn func(l2 float64) bool) bool {
	acc := mesh.CreateConstAccessor(m, pos)
	for _, c := range cellIDs(m, top) {
		cv := mesh.CellVertices(m, c)
		for i := 0; i < len(cv); i++ {
			for j := i + 1; j < len(cv); j++ {
				if !fn(squaredDistance(acc.VectorAt(cv[i]), acc.VectorAt(cv[j]))) {
					return false
				}
			}
		}
	}
	return true
}

// MinEdgeLength rejects edits that create cells with an edge shorter than
// length.
func MinEdgeLength(m mesh.Mesh, pos mesh.AttributeHandle[float64], length float64) Invariant {
	min2 := length * length
	return Func{AfterFn: func(top []mesh.Tuple) bool {
		return edgeLengths(m, pos, top, func(l2 float64) bool { return l2 >= min2 })
	}}
}

// MaxEdgeLength rejects edits that create cells with an edge longer than
// length.
func MaxEdgeLength(m mesh.Mesh, pos mesh.AttributeHandle[float64], length float64) Invariant {
	max2 := length * length
	return Func{AfterFn: func(top []mesh.Tuple) bool {
		return edgeLengths(m, pos, top, func(l2 float64) bool { return l2 <= max2 })
	}}
}

// NoInversion rejects edits that create cells with non-positive orientation.
// Triangle meshes need 2D positions, tetrahedral meshes 3D positions. Meshes
// of lower dimension always pass.
func NoInversion(m mesh.Mesh, pos mesh.AttributeHandle[float64]) Invariant {
	return Func{AfterFn: func(top []mesh.Tuple) bool {
		acc := mesh.CreateConstAccessor(m, pos)
		for _, c := range cellIDs(m, top) {
			cv := mesh.CellVertices(m, c)
			p := make([][]float64, len(cv))
			for i, v := range cv {
				p[i] = acc.VectorAt(v)
			}
			switch len(p) {
			case 3:
				if Orient2D(p[0], p[1], p[2]) <= 0 {
					return false
				}
			case 4:
				if Orient3D(p[0], p[1], p[2], p[3]) <= 0 {
					return false
				}
			}
		}
		return true
	}}
}

// Orient2D returns twice the signed area of the triangle abc. It is positive
// when abc is counter-clockwise.
func Orient2D(a, b, c []float64) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// Orient3D returns six times the signed volume of the tetrahedron abcd. It is
// positive when d lies on the side of abc that the right hand rule points to.
func Orient3D(a, b, c, d []float64) float64 {
	ux, uy, uz := b[0]-a[0], b[1]-a[1], b[2]-a[2]
	vx, vy, vz := c[0]-a[0], c[1]-a[1], c[2]-a[2]
	wx, wy, wz := d[0]-a[0], d[1]-a[1], d[2]-a[2]
	return ux*(vy*wz-vz*wy) - uy*(vx*wz-vz*wx) + uz*(vx*wy-vy*wx)
}
