package multimesh

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/hupe1980/meshkit/mesh"
)

type idSet map[int64]struct{}

func (s idSet) add(id int64) { s[id] = struct{}{} }

func (s idSet) sorted() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// UpdateMaps repairs the maps between parent and child after local edits.
// parentResults and childResults are the edits applied to each mesh for the
// same operation, in any order; nil entries are ignored. New child vertices
// created by a split sit on the vertex the parent split created on the same
// edge; child vertices on a parent vertex that was merged away follow it to
// the kept vertex. Every child element that is new or lost its parent image
// is mapped again by its vertices.
func (g *Manager) UpdateMaps(parent, child mesh.Mesh, parentResults, childResults []*mesh.EditResult) error {
	n, err := g.node(child)
	if err != nil {
		return err
	}
	if n.parent == nil || n.parent.m.Identity() != parent.Identity() {
		return fmt.Errorf("%w: %s is not the parent of %s", ErrNotInManager, parent.Identity(), child.Identity())
	}
	top := n.top()
	dirty := make([]idSet, top+1)
	touched := make([]idSet, top+1)
	for pt := range dirty {
		dirty[pt] = idSet{}
		touched[pt] = idSet{}
	}

	toParentV := mesh.CreateAccessor(child, n.toParent[mesh.Vertex])
	var moved []int64

	for _, cr := range childResults {
		if cr == nil || cr.Kind != mesh.EditSplit {
			continue
		}
		ea, eb := toParentV.ScalarAt(cr.Endpoints[0]), toParentV.ScalarAt(cr.Endpoints[1])
		pv := int64(-1)
		for _, pr := range parentResults {
			if pr != nil && pr.Kind == mesh.EditSplit && sameEdge(pr.Endpoints, ea, eb) {
				pv = pr.NewVertex
			}
		}
		if pv < 0 {
			return fmt.Errorf("%w: child split of (%d,%d) has no parent split", ErrInvalidMap, ea, eb)
		}
		toParentV.SetScalarAt(cr.NewVertex, pv)
		moved = append(moved, cr.NewVertex)
	}

	for _, pr := range parentResults {
		if pr == nil {
			continue
		}
		for pt := mesh.Vertex; pt <= top; pt++ {
			slots := mesh.CreateConstAccessor(parent, n.toChild[pt])
			for _, pid := range pr.Deleted[pt] {
				for _, cid := range slots.VectorAt(pid) {
					if cid >= 0 && !child.IsRemoved(pt, cid) {
						dirty[pt].add(cid)
					}
				}
			}
		}
		slots := mesh.CreateConstAccessor(parent, n.toChild[mesh.Vertex])
		for _, mr := range pr.Merges[mesh.Vertex] {
			for _, cid := range slots.VectorAt(mr.A) {
				if cid >= 0 && !child.IsRemoved(mesh.Vertex, cid) && toParentV.ScalarAt(cid) == mr.A {
					toParentV.SetScalarAt(cid, mr.B)
					moved = append(moved, cid)
				}
			}
		}
	}

	for _, cr := range childResults {
		if cr == nil {
			continue
		}
		for pt := mesh.Vertex; pt <= top; pt++ {
			for _, id := range cr.Created[pt] {
				dirty[pt].add(id)
			}
			toParent := mesh.CreateConstAccessor(child, n.toParent[pt])
			for _, id := range cr.Deleted[pt] {
				touched[pt].add(toParent.ScalarAt(id))
			}
		}
	}
	for _, v := range moved {
		if child.IsRemoved(mesh.Vertex, v) {
			continue
		}
		star := mesh.OpenStar(child, mesh.VertexSimplex(child.TupleFromID(mesh.Vertex, v)))
		for pt := mesh.Vertex; pt <= top; pt++ {
			for _, id := range star.IDs(pt) {
				dirty[pt].add(id)
			}
		}
	}

	for pt := mesh.Vertex; pt <= top; pt++ {
		toParent := mesh.CreateAccessor(child, n.toParent[pt])
		ids := dirty[pt].sorted()
		for _, id := range ids {
			if child.IsRemoved(pt, id) {
				continue
			}
			touched[pt].add(toParent.ScalarAt(id))
			verts := mesh.VertexIDs(child, mesh.NewSimplex(pt, child.TupleFromID(pt, id)))
			ps, ok := mesh.FindSimplex(parent, pt, g.parentVertices(n, verts))
			if !ok {
				return fmt.Errorf("%w: child %s %d has no parent image after edit", ErrInvalidMap, pt, id)
			}
			pid := mesh.SimplexID(parent, ps)
			toParent.SetScalarAt(id, pid)
			touched[pt].add(pid)
		}

		slots := mesh.CreateAccessor(parent, n.toChild[pt])
		for _, pid := range touched[pt].sorted() {
			if pid < 0 || parent.IsRemoved(pt, pid) {
				continue
			}
			kept := []int64{-1, -1}
			j := 0
			for _, cid := range slots.VectorAt(pid) {
				if cid >= 0 && !child.IsRemoved(pt, cid) && toParent.ScalarAt(cid) == pid {
					kept[j] = cid
					j++
				}
			}
			slots.SetVectorAt(pid, kept)
		}
		for _, id := range ids {
			if child.IsRemoved(pt, id) {
				continue
			}
			if err := g.addChildSlot(n, pt, toParent.ScalarAt(id), id); err != nil {
				return err
			}
		}
	}
	return nil
}

func sameEdge(e [2]int64, a, b int64) bool {
	return e[0] == a && e[1] == b || e[0] == b && e[1] == a
}

// Consolidate compacts every mesh of the tree and rewrites the maps to the
// new ids. It fails while any scope is open.
func (g *Manager) Consolidate() error {
	cons := make(map[uuid.UUID]*mesh.Consolidation)
	for _, m := range g.Meshes() {
		if mesh.ScopeDepth(m) > 0 {
			return mesh.ErrScopeActive
		}
	}
	for _, m := range g.Meshes() {
		c, err := mesh.Consolidate(m)
		if err != nil {
			return err
		}
		cons[m.Identity()] = c
	}
	g.walk(func(n *node) {
		if n.parent == nil {
			return
		}
		child, parent := n.m, n.parent.m
		cc, pc := cons[child.Identity()], cons[parent.Identity()]
		for pt := mesh.Vertex; pt <= n.top(); pt++ {
			toParent := mesh.CreateAccessor(child, n.toParent[pt])
			for id := int64(0); id < child.Capacity(pt); id++ {
				toParent.SetScalarAt(id, pc.NewID(pt, toParent.ScalarAt(id)))
			}
			toChild := mesh.CreateAccessor(parent, n.toChild[pt])
			for pid := int64(0); pid < parent.Capacity(pt); pid++ {
				slots := toChild.VectorAt(pid)
				for j := range slots {
					slots[j] = cc.NewID(pt, slots[j])
				}
				toChild.SetVectorAt(pid, slots)
			}
		}
	})
	g.logger.Debug("consolidated multimesh", "meshes", len(cons))
	return nil
}
