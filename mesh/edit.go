package mesh

import (
	"fmt"
	"slices"
)

// EditKind names a local edit.
type EditKind int8

const (
	// EditSplit inserts a vertex on an edge.
	EditSplit EditKind = iota
	// EditCollapse merges the first vertex of an edge into the second.
	EditCollapse
)

// String implements fmt.Stringer.
func (k EditKind) String() string {
	switch k {
	case EditSplit:
		return "split"
	case EditCollapse:
		return "collapse"
	default:
		return fmt.Sprintf("edit(%d)", int8(k))
	}
}

// SplitRecord describes an element cut in two by a split. A is the half that
// keeps the input tuple's vertex, B the half that keeps the other endpoint.
type SplitRecord struct {
	Old, A, B int64
}

// RibRecord describes an element created by a split between two ear elements:
// the new vertex between the endpoints, or a new spine edge or face between
// the two ear edges or faces it separates. EarA is on the input vertex side.
type RibRecord struct {
	New, EarA, EarB int64
}

// MergeRecord describes two elements identified by a collapse. A contains the
// removed vertex and disappears; B survives. The tuples are valid before the
// edit only.
type MergeRecord struct {
	A, B           int64
	TupleA, TupleB Tuple
}

// MoveRecord describes an element that was rebuilt under a new id because one
// of its vertices changed. All user attributes are copied from Old to New.
type MoveRecord struct {
	Old, New int64
}

// EditPlan is the read-only description of a local edit, computed before the
// mesh is touched. Apply executes it.
type EditPlan struct {
	kind    EditKind
	input   Tuple
	a, b    int64
	frame   []int64
	removed []int64
	cells   [][]int64
	context []int64
	merges  [maxDimension + 1][]MergeRecord
}

// Kind returns the edit kind.
func (p *EditPlan) Kind() EditKind { return p.kind }

// Input returns the edge tuple the plan was made for.
func (p *EditPlan) Input() Tuple { return p.input }

// Endpoints returns the input vertex and the other endpoint of the edge.
func (p *EditPlan) Endpoints() (int64, int64) { return p.a, p.b }

// RemovedCells returns the cells the edit replaces.
func (p *EditPlan) RemovedCells() []int64 { return p.removed }

// Merges returns the elements of pt a collapse will identify.
func (p *EditPlan) Merges(pt PrimitiveType) []MergeRecord { return p.merges[pt] }

// EditResult records everything an applied edit changed.
type EditResult struct {
	Kind EditKind
	// Tuple is the tuple returned by the edit: at the new vertex on the edge
	// towards the second endpoint after a split, at the kept vertex after a
	// collapse. It is null when a collapse removes the kept vertex too.
	Tuple Tuple
	// Endpoints are the input vertex and the other endpoint.
	Endpoints [2]int64
	// NewVertex is the vertex created by a split, -1 otherwise.
	NewVertex    int64
	NewCells     []int64
	RemovedCells []int64
	Created      [maxDimension + 1][]int64
	Deleted      [maxDimension + 1][]int64
	Splits       [maxDimension + 1][]SplitRecord
	Ribs         [maxDimension + 1][]RibRecord
	Merges       [maxDimension + 1][]MergeRecord
	Moves        [maxDimension + 1][]MoveRecord
}

const splitPlaceholder int64 = -2

type registry [maxDimension + 1]map[simplexKey]int64

func newRegistry() registry {
	var r registry
	for i := range r {
		r[i] = make(map[simplexKey]int64)
	}
	return r
}

func (m *meshBase) register(r registry, c int64) {
	m.forEachFace(c, func(pt PrimitiveType, id int64, verts []int64) {
		r[pt][makeKey(verts)] = id
	})
}

func (m *meshBase) edgeEndpoints(t Tuple) (int64, int64) {
	if m.dim == 0 {
		panic(newStructuralError("edit", "point meshes have no edges"))
	}
	return m.ID(t, Vertex), m.ID(m.localSwitch(t, 0), Vertex)
}

func replaceVertex(cell []int64, from, to int64) []int64 {
	out := append([]int64(nil), cell...)
	for i, v := range out {
		if v == from {
			out[i] = to
		}
	}
	return out
}

// planSplit cuts every cell around the edge of t into two halves.
func (m *meshBase) planSplit(t Tuple) *EditPlan {
	a, b := m.edgeEndpoints(t)
	p := &EditPlan{kind: EditSplit, input: t, a: a, b: b}
	if m.dim == 3 {
		p.frame = m.simplexVertices(Triangle, t)
	}
	p.removed = m.cellsAround(t.cid, []int64{a, b})
	for _, c := range p.removed {
		cv := m.cv.vector(c)
		p.cells = append(p.cells, replaceVertex(cv, b, splitPlaceholder), replaceVertex(cv, a, splitPlaceholder))
	}
	return p
}

// planCollapse removes the star of the tuple's vertex and re-attaches every
// cell that does not contain the edge to the other endpoint.
func (m *meshBase) planCollapse(t Tuple) *EditPlan {
	a, b := m.edgeEndpoints(t)
	p := &EditPlan{kind: EditCollapse, input: t, a: a, b: b}
	p.removed = m.cellsAround(t.cid, []int64{a})
	for _, c := range p.removed {
		cv := m.cv.vector(c)
		if containsID(cv, b) {
			continue
		}
		p.cells = append(p.cells, replaceVertex(cv, a, b))
	}
	for _, c := range m.cellsAround(t.cid, []int64{b}) {
		if !containsID(p.removed, c) {
			p.context = append(p.context, c)
		}
	}

	reuse := newRegistry()
	for _, c := range p.removed {
		m.register(reuse, c)
	}
	for _, c := range p.context {
		m.register(reuse, c)
	}
	var seen [maxDimension + 1]map[int64]bool
	for i := range seen {
		seen[i] = make(map[int64]bool)
	}
	for _, c := range p.removed {
		m.forEachFace(c, func(pt PrimitiveType, id int64, verts []int64) {
			if pt == m.top || seen[pt][id] || !containsID(verts, a) || containsID(verts, b) {
				return
			}
			other, ok := reuse[pt][makeKey(replaceVertex(verts, a, b))]
			if !ok {
				return
			}
			seen[pt][id] = true
			m.recordMerge(p, pt, id, other)
		})
	}
	return p
}

func (m *meshBase) recordMerge(p *EditPlan, pt PrimitiveType, a, b int64) {
	p.merges[pt] = append(p.merges[pt], MergeRecord{
		A:      a,
		B:      b,
		TupleA: m.TupleFromID(pt, a),
		TupleB: m.TupleFromID(pt, b),
	})
}

type facetSlot struct {
	cell  int64
	facet int
}

// apply executes a plan: it allocates the new cells, reuses faces that keep
// their vertex set, allocates the others, rewires neighbors and reverse maps,
// removes what is no longer referenced and bumps the hash of removed cells.
func (m *meshBase) apply(p *EditPlan) *EditResult {
	d := m.dim
	top := m.top
	res := &EditResult{
		Kind:         p.kind,
		Endpoints:    [2]int64{p.a, p.b},
		NewVertex:    -1,
		RemovedCells: append([]int64(nil), p.removed...),
	}

	removedSet := make(map[int64]bool, len(p.removed))
	old := newRegistry()
	for _, c := range p.removed {
		removedSet[c] = true
		m.register(old, c)
	}
	reuse := newRegistry()
	for k := range old {
		for key, id := range old[k] {
			reuse[k][key] = id
		}
	}
	for _, c := range p.context {
		m.register(reuse, c)
	}

	outer := make(map[simplexKey]facetSlot)
	var survivors []int64
	for _, c := range p.removed {
		cv := m.cv.vector(c)
		for i, n := range m.cc.vector(c) {
			if n < 0 || removedSet[n] {
				continue
			}
			outer[makeKey(without(cv, i))] = facetSlot{cell: n, facet: indexOf(m.cc.vector(n), c)}
			survivors = append(survivors, n)
		}
	}
	survivors = append(survivors, p.context...)

	cells := make([][]int64, len(p.cells))
	for i, c := range p.cells {
		cells[i] = append([]int64(nil), c...)
	}
	if p.kind == EditSplit {
		mv := m.allocate(Vertex, 1)[0]
		res.NewVertex = mv
		res.Created[Vertex] = []int64{mv}
		for _, c := range cells {
			for i, v := range c {
				if v == splitPlaceholder {
					c[i] = mv
				}
			}
		}
	}

	newIDs := m.allocate(top, len(cells))
	res.NewCells = newIDs
	res.Created[top] = append([]int64(nil), newIDs...)

	fresh := newRegistry()
	for ci, c := range cells {
		cid := newIDs[ci]
		m.cv.setVector(cid, c)
		for _, v := range c {
			fresh[Vertex][makeKey([]int64{v})] = v
		}
		for k := 1; k < d; k++ {
			ids := make([]int64, len(m.topo.sub[k]))
			for l, face := range m.topo.sub[k] {
				key := makeKey(globalVertices(c, face))
				id, ok := fresh[k][key]
				if !ok {
					id, ok = reuse[k][key]
				}
				if !ok {
					id = m.allocate(PrimitiveType(k), 1)[0]
					res.Created[k] = append(res.Created[k], id)
				}
				fresh[k][key] = id
				ids[l] = id
			}
			m.cs[k].setVector(cid, ids)
		}
		fresh[d][makeKey(c)] = cid
	}

	owner := make(map[simplexKey]facetSlot)
	for ci, c := range cells {
		cid := newIDs[ci]
		adj := make([]int64, d+1)
		for i := range c {
			adj[i] = -1
			key := makeKey(without(c, i))
			if o, ok := owner[key]; ok {
				adj[i] = o.cell
				m.cc.setComponent(o.cell, o.facet, cid)
				delete(owner, key)
				continue
			}
			if o, ok := outer[key]; ok {
				adj[i] = o.cell
				m.cc.setComponent(o.cell, o.facet, cid)
				delete(outer, key)
				continue
			}
			owner[key] = facetSlot{cell: cid, facet: i}
		}
		m.cc.setVector(cid, adj)
	}
	for _, o := range outer {
		m.cc.setComponent(o.cell, o.facet, -1)
	}

	for _, cid := range newIDs {
		for k := 0; k < d; k++ {
			for _, id := range m.faceIDs(k, cid) {
				m.sc[k].setScalar(id, cid)
			}
		}
	}

	for k := 0; k < d; k++ {
		pt := PrimitiveType(k)
		for key, id := range old[k] {
			if _, ok := fresh[k][key]; ok {
				continue
			}
			if c := m.survivingCell(k, id, key, removedSet, survivors); c >= 0 {
				m.sc[k].setScalar(id, c)
				continue
			}
			m.remove(pt, id)
			res.Deleted[k] = append(res.Deleted[k], id)
		}
		slices.Sort(res.Deleted[k])
	}
	for _, c := range p.removed {
		m.remove(top, c)
		m.bumpHash(c)
	}
	res.Deleted[d] = append([]int64(nil), p.removed...)

	switch p.kind {
	case EditSplit:
		m.recordSplit(p, res, old, fresh)
		res.Tuple = m.splitTuple(p, res, fresh)
	case EditCollapse:
		res.Merges = p.merges
		m.recordMoves(p, res, old, reuse, fresh)
		res.Tuple = m.collapseTuple(p, res)
	}
	return res
}

// survivingCell returns a live cell outside the edit that contains the k-face
// id, or -1 when the face disappears with the removed cells.
func (m *meshBase) survivingCell(k int, id int64, key simplexKey, removed map[int64]bool, candidates []int64) int64 {
	if c := m.sc[k].scalar(id); c >= 0 && !removed[c] && !m.IsRemoved(m.top, c) {
		return c
	}
	verts := key.vertices()
	for _, c := range candidates {
		if removed[c] || m.IsRemoved(m.top, c) {
			continue
		}
		if containsAll(m.cv.vector(c), verts) {
			return c
		}
	}
	return -1
}

func (m *meshBase) recordSplit(p *EditPlan, res *EditResult, old, fresh registry) {
	mv := res.NewVertex
	for k := 0; k <= m.dim; k++ {
		halves := make(map[int64]*SplitRecord)
		for key, id := range fresh[k] {
			if !key.contains(mv) {
				continue
			}
			switch {
			case key.contains(p.a):
				r := splitEntry(halves, old[k][key.replace(mv, p.b)])
				r.A = id
			case key.contains(p.b):
				r := splitEntry(halves, old[k][key.replace(mv, p.a)])
				r.B = id
			default:
				res.Ribs[k] = append(res.Ribs[k], RibRecord{
					New:  id,
					EarA: old[k][key.replace(mv, p.a)],
					EarB: old[k][key.replace(mv, p.b)],
				})
			}
		}
		for _, r := range halves {
			res.Splits[k] = append(res.Splits[k], *r)
		}
		slices.SortFunc(res.Splits[k], func(x, y SplitRecord) int { return int(x.Old - y.Old) })
		slices.SortFunc(res.Ribs[k], func(x, y RibRecord) int { return int(x.New - y.New) })
	}
}

func splitEntry(halves map[int64]*SplitRecord, old int64) *SplitRecord {
	r, ok := halves[old]
	if !ok {
		r = &SplitRecord{Old: old, A: -1, B: -1}
		halves[old] = r
	}
	return r
}

func (m *meshBase) recordMoves(p *EditPlan, res *EditResult, old, reuse, fresh registry) {
	for k := 0; k <= m.dim; k++ {
		pt := PrimitiveType(k)
		for key, id := range old[k] {
			if !key.contains(p.a) || key.contains(p.b) {
				continue
			}
			nk := key.replace(p.a, p.b)
			if _, merged := reuse[k][nk]; merged {
				continue
			}
			if nid, ok := fresh[k][nk]; ok {
				res.Moves[k] = append(res.Moves[k], MoveRecord{Old: id, New: nid})
			}
		}
		slices.SortFunc(res.Moves[k], func(x, y MoveRecord) int { return int(x.Old - y.Old) })
		for _, mv := range res.Moves[k] {
			for _, a := range m.attrs {
				if !a.Internal() && a.PrimitiveType() == pt {
					a.CopyItem(mv.New, mv.Old)
				}
			}
		}
	}
}

func (m *meshBase) splitTuple(p *EditPlan, res *EditResult, fresh registry) Tuple {
	i := indexOf(p.removed, p.input.cid)
	cid := res.NewCells[2*i+1]
	mv := res.NewVertex
	ids := [maxDimension]int64{mv, -1, -1}
	if m.dim > 1 {
		ids[1] = fresh[Edge][makeKey([]int64{mv, p.b})]
	}
	if m.dim > 2 {
		third := int64(-1)
		for _, v := range p.frame {
			if v != p.a && v != p.b {
				third = v
			}
		}
		ids[2] = fresh[Triangle][makeKey([]int64{mv, p.b, third})]
	}
	t, ok := m.tupleFromGlobalIDs(cid, ids)
	if !ok {
		panic(newStructuralError("split", "returned tuple not found in new cell"))
	}
	return t
}

func (m *meshBase) collapseTuple(p *EditPlan, res *EditResult) Tuple {
	if len(res.NewCells) == 0 {
		if m.IsRemoved(Vertex, p.b) {
			return NullTuple()
		}
		return m.TupleFromID(Vertex, p.b)
	}
	t, ok := m.tupleFromGlobalIDs(res.NewCells[0], [maxDimension]int64{p.b, -1, -1})
	if !ok {
		panic(newStructuralError("collapse", "kept vertex missing from new cell"))
	}
	return t
}

func checkEdge(m *meshBase, op string, edge Simplex) {
	if edge.pt != Edge || m.dim == 0 {
		panic(newStructuralError(op, fmt.Sprintf("%s is not an edge of a %s mesh", edge, m.top)))
	}
	if !m.IsValid(edge.tuple) {
		panic(newStructuralError(op, fmt.Sprintf("stale tuple %s", edge.tuple)))
	}
}

// PlanSplit plans the insertion of a vertex on edge. Every cell around the edge
// is cut in two.
func PlanSplit(m Mesh, edge Simplex) *EditPlan {
	b := m.core()
	checkEdge(b, "split", edge)
	return b.planSplit(edge.tuple)
}

// PlanCollapse plans the collapse of edge onto the endpoint that is not the
// tuple's vertex. Cells around the edge vanish.
func PlanCollapse(m Mesh, edge Simplex) *EditPlan {
	b := m.core()
	checkEdge(b, "collapse", edge)
	return b.planCollapse(edge.tuple)
}

// Apply executes a plan made for m. The plan must not outlive any other edit of m.
func Apply(m Mesh, p *EditPlan) *EditResult {
	return m.core().apply(p)
}
