package operations

import "github.com/hupe1980/meshkit/mesh"

// EdgeCollapse merges the tuple vertex of an edge into the other endpoint.
type EdgeCollapse struct {
	*engine
}

// NewEdgeCollapse creates a collapse operation on m.
func NewEdgeCollapse(m mesh.Mesh, settings Settings, opts ...Option) (*EdgeCollapse, error) {
	e, err := newEngine("edge_collapse", m, settings, opts)
	if err != nil {
		return nil, err
	}
	return &EdgeCollapse{engine: e}, nil
}

// Run collapses the edge s. It returns the kept vertex.
func (op *EdgeCollapse) Run(s mesh.Simplex) []mesh.Simplex {
	return op.run(s, op.precondition, func() ([]mesh.Simplex, []mesh.Tuple, error) {
		res, err := op.edit(mesh.EditCollapse, s)
		if err != nil {
			return nil, nil, err
		}
		if res.Tuple.IsNull() {
			return nil, nil, errRejected
		}
		return []mesh.Simplex{mesh.VertexSimplex(res.Tuple)}, op.topTuples(res.NewCells), nil
	})
}

func (op *EdgeCollapse) precondition(s mesh.Simplex) bool {
	if !op.settings.CollapseBoundaryEdges && op.m.IsBoundary(mesh.Edge, s.Tuple()) {
		return false
	}
	return op.linkConditionHolds(s)
}

// UnmodifiedPrimitives implements Operation. A collapse consumes both
// endpoints.
func (op *EdgeCollapse) UnmodifiedPrimitives(s mesh.Simplex) []mesh.Simplex {
	t := s.Tuple()
	return []mesh.Simplex{mesh.VertexSimplex(t), mesh.VertexSimplex(op.m.SwitchTuple(t, mesh.Vertex))}
}
