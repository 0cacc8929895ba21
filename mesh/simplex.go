package mesh

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Simplex identifies a k-cell independent of the local frame that produced
// its tuple.
type Simplex struct {
	pt    PrimitiveType
	tuple Tuple
}

// NewSimplex pairs a primitive type with a tuple.
func NewSimplex(pt PrimitiveType, t Tuple) Simplex {
	return Simplex{pt: pt, tuple: t}
}

// VertexSimplex returns the vertex of t.
func VertexSimplex(t Tuple) Simplex { return NewSimplex(Vertex, t) }

// EdgeSimplex returns the edge of t.
func EdgeSimplex(t Tuple) Simplex { return NewSimplex(Edge, t) }

// FaceSimplex returns the triangle of t.
func FaceSimplex(t Tuple) Simplex { return NewSimplex(Triangle, t) }

// TetSimplex returns the tetrahedron of t.
func TetSimplex(t Tuple) Simplex { return NewSimplex(Tetrahedron, t) }

// PrimitiveType returns the simplex dimension as a primitive type.
func (s Simplex) PrimitiveType() PrimitiveType { return s.pt }

// Tuple returns the tuple the simplex was built from.
func (s Simplex) Tuple() Tuple { return s.tuple }

// String implements fmt.Stringer.
func (s Simplex) String() string {
	return fmt.Sprintf("%s%s", s.pt, s.tuple)
}

// SimplexSet is a set of simplices of one mesh keyed by global id.
type SimplexSet struct {
	ids [maxDimension + 1]*roaring64.Bitmap
}

// NewSimplexSet returns an empty set.
func NewSimplexSet() *SimplexSet {
	s := &SimplexSet{}
	for i := range s.ids {
		s.ids[i] = roaring64.New()
	}
	return s
}

// Add inserts the element (pt, id).
func (s *SimplexSet) Add(pt PrimitiveType, id int64) {
	s.ids[pt].Add(uint64(id))
}

// Contains reports whether (pt, id) is in the set.
func (s *SimplexSet) Contains(pt PrimitiveType, id int64) bool {
	return s.ids[pt].Contains(uint64(id))
}

// Len returns the number of elements of all dimensions.
func (s *SimplexSet) Len() int {
	n := 0
	for _, b := range s.ids {
		n += int(b.GetCardinality())
	}
	return n
}

// Count returns the number of elements of one primitive type.
func (s *SimplexSet) Count(pt PrimitiveType) int {
	return int(s.ids[pt].GetCardinality())
}

// IDs returns the sorted ids of one primitive type.
func (s *SimplexSet) IDs(pt PrimitiveType) []int64 {
	out := make([]int64, 0, s.ids[pt].GetCardinality())
	it := s.ids[pt].Iterator()
	for it.HasNext() {
		out = append(out, int64(it.Next()))
	}
	return out
}

// Union adds all elements of o to s.
func (s *SimplexSet) Union(o *SimplexSet) {
	for i := range s.ids {
		s.ids[i].Or(o.ids[i])
	}
}

// Intersect keeps only elements that are also in o.
func (s *SimplexSet) Intersect(o *SimplexSet) {
	for i := range s.ids {
		s.ids[i].And(o.ids[i])
	}
}

// Equal reports whether both sets hold the same elements.
func (s *SimplexSet) Equal(o *SimplexSet) bool {
	for i := range s.ids {
		if !s.ids[i].Equals(o.ids[i]) {
			return false
		}
	}
	return true
}

// simplexKey is a sorted list of global vertex ids padded with -1. It names a
// simplex by its vertex set so that sub-simplices can be matched across cells.
type simplexKey [maxDimension + 1]int64

func makeKey(verts []int64) simplexKey {
	var k simplexKey
	for i := range k {
		k[i] = -1
	}
	copy(k[:], verts)
	n := len(verts)
	sort.Slice(k[:n], func(i, j int) bool { return k[i] < k[j] })
	return k
}

func (k simplexKey) size() int {
	n := 0
	for _, v := range k {
		if v != -1 {
			n++
		}
	}
	return n
}

func (k simplexKey) vertices() []int64 {
	return append([]int64(nil), k[:k.size()]...)
}

func (k simplexKey) contains(v int64) bool {
	for _, x := range k {
		if x == v {
			return true
		}
	}
	return false
}

func (k simplexKey) replace(from, to int64) simplexKey {
	verts := k.vertices()
	for i, v := range verts {
		if v == from {
			verts[i] = to
		}
	}
	return makeKey(verts)
}
