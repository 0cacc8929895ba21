package mesh

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// cellsAround returns the cells that contain every vertex of verts, found by
// walking across facets that contain verts starting from cell start.
func (m *meshBase) cellsAround(start int64, verts []int64) []int64 {
	if m.dim == 0 {
		return []int64{start}
	}
	visited := roaring64.New()
	visited.Add(uint64(start))
	queue := []int64{start}
	var out []int64
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		out = append(out, c)
		cv := m.cv.vector(c)
		cc := m.cc.vector(c)
		for i, v := range cv {
			if containsID(verts, v) {
				continue
			}
			n := cc[i]
			if n < 0 || visited.Contains(uint64(n)) {
				continue
			}
			visited.Add(uint64(n))
			queue = append(queue, n)
		}
	}
	return out
}

// forEachFace calls fn for every face (of every dimension) of cell c.
func (m *meshBase) forEachFace(c int64, fn func(pt PrimitiveType, id int64, verts []int64)) {
	if m.dim == 0 {
		fn(Vertex, c, []int64{c})
		return
	}
	cv := m.cv.vector(c)
	for k := 0; k < m.dim; k++ {
		for l, id := range m.faceIDs(k, c) {
			fn(PrimitiveType(k), id, globalVertices(cv, m.topo.sub[k][l]))
		}
	}
	fn(m.top, c, append([]int64(nil), cv...))
}

func containsAll(haystack, needles []int64) bool {
	for _, v := range needles {
		if !containsID(haystack, v) {
			return false
		}
	}
	return true
}

func disjoint(a, b []int64) bool {
	for _, v := range a {
		if containsID(b, v) {
			return false
		}
	}
	return true
}

// TopCofaces returns one tuple per top cell containing s. Each tuple keeps the
// faces of s from the input frame.
func TopCofaces(m Mesh, s Simplex) []Tuple {
	b := m.core()
	verts := b.simplexVertices(s.pt, s.tuple)
	var ids [maxDimension]int64
	for k := range ids {
		ids[k] = -1
		if k <= s.pt.Dimension() && k < b.dim {
			ids[k] = b.ID(s.tuple, PrimitiveType(k))
		}
	}
	var out []Tuple
	for _, c := range b.cellsAround(s.tuple.cid, verts) {
		if c == s.tuple.cid {
			out = append(out, s.tuple)
			continue
		}
		t, ok := b.tupleFromGlobalIDs(c, ids)
		if !ok {
			panic(newStructuralError("top_cofaces", "cell around simplex does not contain it"))
		}
		out = append(out, t)
	}
	return out
}

// OpenStar returns all elements that contain s.
func OpenStar(m Mesh, s Simplex) *SimplexSet {
	b := m.core()
	verts := b.simplexVertices(s.pt, s.tuple)
	out := NewSimplexSet()
	for _, c := range b.cellsAround(s.tuple.cid, verts) {
		b.forEachFace(c, func(pt PrimitiveType, id int64, fv []int64) {
			if containsAll(fv, verts) {
				out.Add(pt, id)
			}
		})
	}
	return out
}

// ClosedStar returns all faces of the cells that contain s.
func ClosedStar(m Mesh, s Simplex) *SimplexSet {
	b := m.core()
	verts := b.simplexVertices(s.pt, s.tuple)
	out := NewSimplexSet()
	for _, c := range b.cellsAround(s.tuple.cid, verts) {
		b.forEachFace(c, func(pt PrimitiveType, id int64, _ []int64) {
			out.Add(pt, id)
		})
	}
	return out
}

// Link returns the faces of the closed star of s that share no vertex with s.
func Link(m Mesh, s Simplex) *SimplexSet {
	b := m.core()
	verts := b.simplexVertices(s.pt, s.tuple)
	out := NewSimplexSet()
	for _, c := range b.cellsAround(s.tuple.cid, verts) {
		b.forEachFace(c, func(pt PrimitiveType, id int64, fv []int64) {
			if disjoint(fv, verts) {
				out.Add(pt, id)
			}
		})
	}
	return out
}

// Faces returns the pt-faces of s.
func Faces(m Mesh, s Simplex, pt PrimitiveType) []Simplex {
	b := m.core()
	if pt > s.pt {
		return nil
	}
	verts := b.simplexVertices(s.pt, s.tuple)
	var out []Simplex
	b.forEachFace(s.tuple.cid, func(fpt PrimitiveType, id int64, fv []int64) {
		if fpt != pt || !containsAll(verts, fv) {
			return
		}
		var ids [maxDimension]int64
		for k := range ids {
			ids[k] = -1
		}
		ids[0] = fv[0]
		if k := pt.Dimension(); k > 0 && k < b.dim {
			ids[k] = id
		}
		t, ok := b.tupleFromGlobalIDs(s.tuple.cid, ids)
		if !ok {
			panic(newStructuralError("faces", "face not found in its own cell"))
		}
		out = append(out, NewSimplex(pt, t))
	})
	return out
}

// FindSimplex returns the live pt-simplex spanned by the given vertices.
func FindSimplex(m Mesh, pt PrimitiveType, verts []int64) (Simplex, bool) {
	b := m.core()
	if len(verts) != pt.Dimension()+1 || pt > b.top {
		return Simplex{}, false
	}
	for _, v := range verts {
		if b.IsRemoved(Vertex, v) {
			return Simplex{}, false
		}
	}
	start := b.TupleFromID(Vertex, verts[0])
	if pt == Vertex {
		return NewSimplex(Vertex, start), true
	}
	k := pt.Dimension()
	key := makeKey(verts)
	for _, c := range b.cellsAround(start.cid, verts[:1]) {
		cv := b.cv.vector(c)
		if !containsAll(cv, verts) {
			continue
		}
		var ids [maxDimension]int64
		for i := range ids {
			ids[i] = -1
		}
		ids[0] = verts[0]
		if k < b.dim {
			for l, face := range b.topo.sub[k] {
				if makeKey(globalVertices(cv, face)) == key {
					ids[k] = b.faceIDs(k, c)[l]
				}
			}
		}
		t, ok := b.tupleFromGlobalIDs(c, ids)
		if ok {
			return NewSimplex(pt, t), true
		}
	}
	return Simplex{}, false
}

// TupleFromVertices returns a tuple of a live cell whose vertex is verts[0],
// whose edge runs to verts[1] and whose face holds verts[2], as far as verts
// goes. Counter-clockwise tuples are preferred.
func TupleFromVertices(m Mesh, verts []int64) (Tuple, bool) {
	b := m.core()
	if len(verts) == 0 || len(verts) > b.dim+1 {
		return NullTuple(), false
	}
	for _, v := range verts {
		if b.IsRemoved(Vertex, v) {
			return NullTuple(), false
		}
	}
	start := b.TupleFromID(Vertex, verts[0])
	if b.dim == 0 {
		return start, true
	}
	for _, c := range b.cellsAround(start.cid, verts[:1]) {
		cv := b.cv.vector(c)
		if !containsAll(cv, verts) {
			continue
		}
		for _, f := range b.topo.order {
			info := b.topo.flags[f]
			match := true
			for i, v := range verts {
				if cv[info.perm[i]] != v {
					match = false
					break
				}
			}
			if match {
				return Tuple{lv: f.lv, le: f.le, lf: f.lf, cid: c, hash: b.hash.scalar(c)}, true
			}
		}
	}
	return NullTuple(), false
}

const virtualVertex = math.MaxInt64

// linkKeys returns the vertex sets of the link of verts, with boundary facets
// coned to a virtual vertex so that the boundary is treated as closed.
func (m *meshBase) linkKeys(start int64, verts []int64) map[simplexKey]struct{} {
	out := make(map[simplexKey]struct{})
	for _, c := range m.cellsAround(start, verts) {
		cv := m.cv.vector(c)
		cc := m.cc.vector(c)
		addDisjointSubsets(out, cv, verts)
		for i := range cv {
			if containsID(verts, cv[i]) || cc[i] >= 0 {
				continue
			}
			addDisjointSubsets(out, append(without(cv, i), virtualVertex), verts)
		}
	}
	return out
}

func addDisjointSubsets(out map[simplexKey]struct{}, cell, verts []int64) {
	n := len(cell)
	for mask := 1; mask < 1<<n; mask++ {
		var sub []int64
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				sub = append(sub, cell[i])
			}
		}
		if disjoint(sub, verts) {
			out[makeKey(sub)] = struct{}{}
		}
	}
}

// LinkCondition reports whether collapsing the edge keeps the mesh a manifold:
// the links of its two endpoints must intersect exactly in the link of the edge.
func LinkCondition(m Mesh, edge Simplex) bool {
	b := m.core()
	if b.dim == 0 {
		return false
	}
	verts := b.simplexVertices(Edge, edge.tuple)
	a, c := verts[0], verts[1]
	la := b.linkKeys(edge.tuple.cid, []int64{a})
	lb := b.linkKeys(edge.tuple.cid, []int64{c})
	lab := b.linkKeys(edge.tuple.cid, verts)
	common := 0
	for k := range la {
		if _, ok := lb[k]; ok {
			common++
		}
	}
	return common == len(lab)
}
