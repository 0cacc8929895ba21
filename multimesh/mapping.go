package multimesh

import (
	"slices"

	"github.com/hupe1980/meshkit/mesh"
)

// Image is a simplex of one mesh of the tree.
type Image struct {
	Mesh    mesh.Mesh
	Simplex mesh.Simplex
}

// frame returns the vertices of the full flag of t, starting with its vertex.
func frame(m mesh.Mesh, t mesh.Tuple) []int64 {
	return mesh.VertexIDs(m, mesh.NewSimplex(m.TopSimplexType(), t))
}

// MapToParent maps a simplex of child m to its parent. The returned tuple
// keeps the local frame of s: its vertex, edge and face sit on the images of
// the vertex, edge and face of s.
func (g *Manager) MapToParent(m mesh.Mesh, s mesh.Simplex) (mesh.Simplex, bool) {
	n, ok := g.nodes[m.Identity()]
	if !ok || n.parent == nil || !m.IsValid(s.Tuple()) {
		return mesh.Simplex{}, false
	}
	return g.mapUp(n, s)
}

func (g *Manager) mapUp(n *node, s mesh.Simplex) (mesh.Simplex, bool) {
	pverts := g.parentVertices(n, frame(n.m, s.Tuple()))
	t, ok := mesh.TupleFromVertices(n.parent.m, pverts)
	if !ok {
		return mesh.Simplex{}, false
	}
	return mesh.NewSimplex(s.PrimitiveType(), t), true
}

// MapToRoot maps a simplex of m to the root mesh.
func (g *Manager) MapToRoot(m mesh.Mesh, s mesh.Simplex) (mesh.Simplex, bool) {
	n, ok := g.nodes[m.Identity()]
	if !ok || !m.IsValid(s.Tuple()) {
		return mesh.Simplex{}, false
	}
	for n.parent != nil {
		if s, ok = g.mapUp(n, s); !ok {
			return mesh.Simplex{}, false
		}
		n = n.parent
	}
	return s, true
}

// MapToChild maps a simplex of the parent of child to the child. It returns
// zero, one or two simplices; none when the child has no element of that type.
func (g *Manager) MapToChild(child mesh.Mesh, s mesh.Simplex) []mesh.Simplex {
	n, ok := g.nodes[child.Identity()]
	if !ok || n.parent == nil || !n.parent.m.IsValid(s.Tuple()) {
		return nil
	}
	return g.mapDown(n, s)
}

func (g *Manager) mapDown(n *node, s mesh.Simplex) []mesh.Simplex {
	pt := s.PrimitiveType()
	if pt > n.top() {
		return nil
	}
	parent := n.parent.m
	pid := mesh.SimplexID(parent, s)
	pframe := frame(parent, s.Tuple())
	slots := mesh.CreateConstAccessor(parent, n.toChild[pt]).VectorAt(pid)
	var out []mesh.Simplex
	for _, cid := range slots {
		if cid < 0 || n.m.IsRemoved(pt, cid) {
			continue
		}
		if t, ok := g.childFrame(n, pt, cid, pframe); ok {
			out = append(out, mesh.NewSimplex(pt, t))
		}
	}
	return out
}

// childFrame returns the tuple of child element (pt, cid) whose frame sits on
// the longest possible prefix of the parent frame.
func (g *Manager) childFrame(n *node, pt mesh.PrimitiveType, cid int64, pframe []int64) (mesh.Tuple, bool) {
	child := n.m
	k := pt.Dimension()
	elem := mesh.VertexIDs(child, mesh.NewSimplex(pt, child.TupleFromID(pt, cid)))
	images := g.parentVertices(n, elem)
	ordered := make([]int64, 0, k+1)
	for _, pv := range pframe[:k+1] {
		i := slices.Index(images, pv)
		if i < 0 {
			return mesh.NullTuple(), false
		}
		ordered = append(ordered, elem[i])
	}
	best, ok := mesh.TupleFromVertices(child, ordered)
	if !ok {
		return mesh.NullTuple(), false
	}
	around := mesh.ClosedStar(child, mesh.NewSimplex(pt, best)).IDs(mesh.Vertex)
	aroundImages := g.parentVertices(n, around)
	for j := k + 1; j < len(pframe) && j <= child.TopCellDimension(); j++ {
		next := int64(-1)
		for i, pv := range aroundImages {
			if pv == pframe[j] && !slices.Contains(ordered, around[i]) {
				next = around[i]
				break
			}
		}
		if next < 0 {
			break
		}
		t, ok := mesh.TupleFromVertices(child, append(slices.Clone(ordered), next))
		if !ok {
			break
		}
		ordered = append(ordered, next)
		best = t
	}
	return best, true
}

// path returns the nodes from the root down to n.
func path(n *node) []*node {
	var out []*node
	for ; n != nil; n = n.parent {
		out = append(out, n)
	}
	slices.Reverse(out)
	return out
}

// Map maps a simplex of from to every corresponding simplex of to, going up
// to the closest common ancestor and down again.
func (g *Manager) Map(from, to mesh.Mesh, s mesh.Simplex) []mesh.Simplex {
	a, ok := g.nodes[from.Identity()]
	if !ok || !from.IsValid(s.Tuple()) {
		return nil
	}
	b, ok := g.nodes[to.Identity()]
	if !ok {
		return nil
	}
	pa, pb := path(a), path(b)
	common := 0
	for common < len(pa) && common < len(pb) && pa[common] == pb[common] {
		common++
	}
	for n := a; n != pa[common-1]; n = n.parent {
		if s, ok = g.mapUp(n, s); !ok {
			return nil
		}
	}
	current := []mesh.Simplex{s}
	for _, n := range pb[common:] {
		var next []mesh.Simplex
		for _, c := range current {
			next = append(next, g.mapDown(n, c)...)
		}
		current = next
	}
	return current
}

// Images maps s to the root and returns the root simplex followed by its
// images in every other mesh, parents before children. Meshes without
// elements of the simplex type are skipped.
func (g *Manager) Images(m mesh.Mesh, s mesh.Simplex) []Image {
	root, ok := g.MapToRoot(m, s)
	if !ok {
		return nil
	}
	var out []Image
	var rec func(n *node, simplices []mesh.Simplex)
	rec = func(n *node, simplices []mesh.Simplex) {
		for _, x := range simplices {
			out = append(out, Image{Mesh: n.m, Simplex: x})
		}
		for _, c := range n.children {
			var next []mesh.Simplex
			for _, x := range simplices {
				next = append(next, g.mapDown(c, x)...)
			}
			rec(c, next)
		}
	}
	rec(g.root, []mesh.Simplex{root})
	return out
}

// IsMapValid checks every parent-child pair: each live child element maps to
// a live parent element spanned by the images of its vertices, and every
// child slot of a parent element points back to it.
func (g *Manager) IsMapValid() bool {
	valid := true
	g.walk(func(n *node) {
		if n.parent != nil && valid {
			valid = g.isEdgeValid(n)
		}
	})
	return valid
}

func (g *Manager) isEdgeValid(n *node) bool {
	child, parent := n.m, n.parent.m
	for pt := mesh.Vertex; pt <= n.top(); pt++ {
		toParent := mesh.CreateConstAccessor(child, n.toParent[pt])
		toChild := mesh.CreateConstAccessor(parent, n.toChild[pt])
		for id := int64(0); id < child.Capacity(pt); id++ {
			if child.IsRemoved(pt, id) {
				continue
			}
			pid := toParent.ScalarAt(id)
			if parent.IsRemoved(pt, pid) {
				g.logger.LogAuditFailure("child maps to removed parent element", pt.String(), id, "parent", pid)
				return false
			}
			verts := mesh.VertexIDs(child, mesh.NewSimplex(pt, child.TupleFromID(pt, id)))
			ps, ok := mesh.FindSimplex(parent, pt, g.parentVertices(n, verts))
			if !ok || mesh.SimplexID(parent, ps) != pid {
				g.logger.LogAuditFailure("child element does not span its parent element", pt.String(), id, "parent", pid)
				return false
			}
			if !slices.Contains(toChild.VectorAt(pid), id) {
				g.logger.LogAuditFailure("parent element misses child", pt.String(), pid, "child", id)
				return false
			}
		}
		for pid := int64(0); pid < parent.Capacity(pt); pid++ {
			if parent.IsRemoved(pt, pid) {
				continue
			}
			for _, cid := range toChild.VectorAt(pid) {
				if cid < 0 {
					continue
				}
				if child.IsRemoved(pt, cid) || toParent.ScalarAt(cid) != pid {
					g.logger.LogAuditFailure("child slot does not point back", pt.String(), pid, "child", cid)
					return false
				}
			}
		}
	}
	return true
}
