package operations

import "github.com/hupe1980/meshkit/mesh"

// EdgeSplit inserts a vertex on an edge and cuts every cell around the edge in
// two.
type EdgeSplit struct {
	*engine
}

// NewEdgeSplit creates a split operation on m.
func NewEdgeSplit(m mesh.Mesh, settings Settings, opts ...Option) (*EdgeSplit, error) {
	e, err := newEngine("edge_split", m, settings, opts)
	if err != nil {
		return nil, err
	}
	return &EdgeSplit{engine: e}, nil
}

// Run splits the edge s. It returns the new vertex, as a tuple whose edge runs
// towards the second endpoint of s.
func (op *EdgeSplit) Run(s mesh.Simplex) []mesh.Simplex {
	return op.run(s, op.precondition, func() ([]mesh.Simplex, []mesh.Tuple, error) {
		res, err := op.edit(mesh.EditSplit, s)
		if err != nil {
			return nil, nil, err
		}
		return []mesh.Simplex{mesh.VertexSimplex(res.Tuple)}, op.topTuples(res.NewCells), nil
	})
}

func (op *EdgeSplit) precondition(s mesh.Simplex) bool {
	return op.settings.SplitBoundaryEdges || !op.m.IsBoundary(mesh.Edge, s.Tuple())
}

// UnmodifiedPrimitives implements Operation. A split consumes the edge.
func (op *EdgeSplit) UnmodifiedPrimitives(s mesh.Simplex) []mesh.Simplex {
	return []mesh.Simplex{s}
}
