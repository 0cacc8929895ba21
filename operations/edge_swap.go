package operations

import "github.com/hupe1980/meshkit/mesh"

// EdgeSwap replaces an interior edge by splitting it and collapsing the new
// vertex onto a vertex of the edge's neighborhood, inside one transaction.
//
// On a triangle mesh the edge (a,b) between the triangles (a,b,c) and (b,a,d)
// becomes (c,d); c is the third vertex of the tuple's face. On a tetrahedral
// mesh the collapse target is picked from the ring of vertices around the edge
// with SetCollapseIndex.
//
// Attributes of merged elements default to CollapseCopyOther, so the
// collapse target and the edges it already had keep their values.
type EdgeSwap struct {
	*engine
	collapseIndex int
}

// NewEdgeSwap creates a swap operation on m. Only triangle and tetrahedral
// meshes can swap edges.
func NewEdgeSwap(m mesh.Mesh, settings Settings, opts ...Option) (*EdgeSwap, error) {
	e, err := newEngine("edge_swap", m, settings, opts)
	if err != nil {
		return nil, err
	}
	// The collapse target keeps its values unless configured otherwise.
	e.mergeDefault = CollapseCopyOther
	return &EdgeSwap{engine: e}, nil
}

// SetCollapseIndex selects, for tetrahedral meshes, the position in the edge
// ring of the vertex the new vertex collapses onto.
func (op *EdgeSwap) SetCollapseIndex(i int) {
	op.collapseIndex = i
}

// Run swaps the edge s. It returns the new edge on a triangle mesh and the
// vertex the split vertex was collapsed onto on a tetrahedral mesh.
func (op *EdgeSwap) Run(s mesh.Simplex) []mesh.Simplex {
	target := int64(-1)
	precondition := func(s mesh.Simplex) bool {
		if op.m.IsBoundary(mesh.Edge, s.Tuple()) {
			return false
		}
		var ok bool
		target, ok = op.target(s)
		return ok
	}
	return op.run(s, precondition, func() ([]mesh.Simplex, []mesh.Tuple, error) {
		var opposite int64 = -1
		if tm, ok := op.m.(*mesh.TriMesh); ok {
			o, _ := tm.SwitchFace(s.Tuple())
			opposite = tm.ID(tm.SwitchVertex(tm.SwitchEdge(o)), mesh.Vertex)
		}

		split, err := op.edit(mesh.EditSplit, s)
		if err != nil {
			return nil, nil, err
		}
		rib, ok := mesh.TupleFromVertices(op.m, []int64{split.NewVertex, target})
		if !ok {
			return nil, nil, errRejected
		}
		ribEdge := mesh.EdgeSimplex(rib)
		if !op.linkConditionHolds(ribEdge) {
			return nil, nil, errRejected
		}
		collapse, err := op.edit(mesh.EditCollapse, ribEdge)
		if err != nil {
			return nil, nil, err
		}
		top := op.topTuples(collapse.NewCells)
		if opposite < 0 {
			return []mesh.Simplex{mesh.VertexSimplex(collapse.Tuple)}, top, nil
		}
		edge, ok := mesh.FindSimplex(op.m, mesh.Edge, []int64{target, opposite})
		if !ok {
			return nil, nil, errRejected
		}
		return []mesh.Simplex{edge}, top, nil
	})
}

// target returns the vertex the split vertex collapses onto.
func (op *EdgeSwap) target(s mesh.Simplex) (int64, bool) {
	switch m := op.m.(type) {
	case *mesh.TriMesh:
		return m.ID(m.SwitchVertex(m.SwitchEdge(s.Tuple())), mesh.Vertex), true
	case *mesh.TetMesh:
		ring := m.EdgeRing(s.Tuple())
		if op.collapseIndex < 0 || op.collapseIndex >= len(ring) {
			return -1, false
		}
		return ring[op.collapseIndex], true
	default:
		return -1, false
	}
}

// UnmodifiedPrimitives implements Operation. A swap consumes the edge.
func (op *EdgeSwap) UnmodifiedPrimitives(s mesh.Simplex) []mesh.Simplex {
	return []mesh.Simplex{s}
}
