package operations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/meshkit/mesh"
	"github.com/hupe1980/meshkit/meshtest"
	"github.com/hupe1980/meshkit/operations"
)

func edgeValue[T mesh.Value](t *testing.T, m mesh.Mesh, h mesh.AttributeHandle[T], u, v int64) T {
	t.Helper()
	return mesh.CreateConstAccessor(m, h).Scalar(meshtest.FindEdge(t, m, u, v).Tuple())
}

func TestSplitStrategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy operations.SplitStrategy
		want     [2]float64
	}{
		{"default", operations.SplitDefault, [2]float64{4, 4}},
		{"copy", operations.SplitCopy, [2]float64{4, 4}},
		{"copy tuple", operations.SplitCopyTuple, [2]float64{4, 0}},
		{"half", operations.SplitHalf, [2]float64{2, 2}},
		{"none", operations.SplitNone, [2]float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := meshtest.Quad(t)
			h, err := mesh.RegisterAttribute[float64](m, "weight", mesh.Edge, 1, 0)
			require.NoError(t, err)
			e := meshtest.FindEdge(t, m, 0, 2)
			mesh.CreateAccessor(m, h).SetScalar(e.Tuple(), 4)

			op, err := operations.NewEdgeSplit(m, operations.DefaultSettings())
			require.NoError(t, err)
			require.NoError(t, op.SetStrategy(operations.KeyOf(h), operations.StrategySettings{Split: tt.strategy}))
			out := op.Run(e)
			require.Len(t, out, 1)
			mv := mesh.SimplexID(m, out[0])

			assert.Equal(t, tt.want[0], edgeValue(t, m, h, 0, mv))
			assert.Equal(t, tt.want[1], edgeValue(t, m, h, mv, 2))
		})
	}
}

func TestSplitRibStrategies(t *testing.T) {
	odd := func(m mesh.Mesh, h mesh.AttributeHandle[int64]) func(a, b mesh.Simplex) bool {
		acc := mesh.CreateConstAccessor(m, h)
		return func(a, b mesh.Simplex) bool {
			return acc.Scalar(a.Tuple())%2 == 1 && acc.Scalar(b.Tuple())%2 == 0
		}
	}
	tests := []struct {
		name     string
		strategy operations.CollapseStrategy
		even     bool
		want     int64
	}{
		{"default copies the input side", operations.CollapseDefault, false, 1},
		{"copy tuple", operations.CollapseCopyTuple, false, 1},
		{"copy other", operations.CollapseCopyOther, false, 2},
		{"mean", operations.CollapseMean, false, 1},
		{"none", operations.CollapseNone, false, 0},
		{"predicate holds on the input side", operations.CollapseCopyFromPredicate, false, 1},
		{"predicate holds on the other side", operations.CollapseCopyFromPredicate, true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := meshtest.Quad(t)
			h, err := mesh.RegisterAttribute[int64](m, "tag", mesh.Edge, 1, 0)
			require.NoError(t, err)
			acc := mesh.CreateAccessor(m, h)
			a, b := int64(1), int64(2)
			if tt.even {
				a, b = 2, 3
			}
			acc.SetScalar(meshtest.FindEdge(t, m, 0, 1).Tuple(), a)
			acc.SetScalar(meshtest.FindEdge(t, m, 2, 1).Tuple(), b)

			op, err := operations.NewEdgeSplit(m, operations.DefaultSettings())
			require.NoError(t, err)
			ss := operations.StrategySettings{SplitRib: tt.strategy, Predicate: odd(m, h)}
			require.NoError(t, op.SetStrategy(operations.KeyOf(h), ss))
			out := op.Run(meshtest.FindEdge(t, m, 0, 2))
			require.Len(t, out, 1)

			want := tt.want
			if tt.even {
				want++
			}
			if tt.strategy == operations.CollapseNone {
				want = 0
			}
			assert.Equal(t, want, edgeValue(t, m, h, mesh.SimplexID(m, out[0]), 1))
		})
	}
}

func TestCollapseStrategies(t *testing.T) {
	tests := []struct {
		name      string
		strategy  operations.CollapseStrategy
		predicate int64
		want      int64
	}{
		{"default copies the removed vertex", operations.CollapseDefault, 0, 5},
		{"copy tuple", operations.CollapseCopyTuple, 0, 5},
		{"copy other", operations.CollapseCopyOther, 0, 9},
		{"mean", operations.CollapseMean, 0, 7},
		{"none", operations.CollapseNone, 0, 0},
		{"predicate on the removed vertex", operations.CollapseCopyFromPredicate, 5, 5},
		{"predicate on the kept vertex", operations.CollapseCopyFromPredicate, 9, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := meshtest.Quad(t)
			h, err := mesh.RegisterAttribute[int64](m, "label", mesh.Vertex, 1, 0)
			require.NoError(t, err)
			acc := mesh.CreateAccessor(m, h)
			acc.SetScalarAt(0, 5)
			acc.SetScalarAt(1, 9)

			op, err := operations.NewEdgeCollapse(m, operations.DefaultSettings())
			require.NoError(t, err)
			ss := operations.StrategySettings{
				Collapse: tt.strategy,
				Predicate: func(a, _ mesh.Simplex) bool {
					return mesh.CreateConstAccessor(m, h).Scalar(a.Tuple()) == tt.predicate
				},
			}
			require.NoError(t, op.SetStrategy(operations.KeyOf(h), ss))
			out := op.Run(meshtest.FindEdge(t, m, 0, 1))
			require.Len(t, out, 1)
			require.Equal(t, int64(1), mesh.SimplexID(m, out[0]))

			assert.Equal(t, tt.want, acc.ScalarAt(1))
		})
	}
}

func TestCopyFromPredicateComparesCandidates(t *testing.T) {
	larger := func(m mesh.Mesh, h mesh.AttributeHandle[int64], calls *int) func(a, b mesh.Simplex) bool {
		acc := mesh.CreateConstAccessor(m, h)
		return func(a, b mesh.Simplex) bool {
			*calls++
			return acc.Scalar(a.Tuple()) > acc.Scalar(b.Tuple())
		}
	}

	t.Run("collapse", func(t *testing.T) {
		m := meshtest.Quad(t)
		h, err := mesh.RegisterAttribute[int64](m, "label", mesh.Vertex, 1, 0)
		require.NoError(t, err)
		acc := mesh.CreateAccessor(m, h)
		acc.SetScalarAt(0, 9)
		acc.SetScalarAt(1, 5)

		var calls int
		op, err := operations.NewEdgeCollapse(m, operations.DefaultSettings())
		require.NoError(t, err)
		ss := operations.StrategySettings{Collapse: operations.CollapseCopyFromPredicate, Predicate: larger(m, h, &calls)}
		require.NoError(t, op.SetStrategy(operations.KeyOf(h), ss))
		out := op.Run(meshtest.FindEdge(t, m, 0, 1))
		require.Len(t, out, 1)
		require.Equal(t, int64(1), mesh.SimplexID(m, out[0]))

		assert.Equal(t, int64(9), acc.ScalarAt(1))
		assert.Equal(t, 1, calls)
	})

	t.Run("split rib", func(t *testing.T) {
		m := meshtest.Quad(t)
		h, err := mesh.RegisterAttribute[int64](m, "tag", mesh.Edge, 1, 0)
		require.NoError(t, err)
		acc := mesh.CreateAccessor(m, h)
		acc.SetScalar(meshtest.FindEdge(t, m, 0, 1).Tuple(), 3)
		acc.SetScalar(meshtest.FindEdge(t, m, 2, 1).Tuple(), 7)

		var calls int
		op, err := operations.NewEdgeSplit(m, operations.DefaultSettings())
		require.NoError(t, err)
		ss := operations.StrategySettings{SplitRib: operations.CollapseCopyFromPredicate, Predicate: larger(m, h, &calls)}
		require.NoError(t, op.SetStrategy(operations.KeyOf(h), ss))
		out := op.Run(meshtest.FindEdge(t, m, 0, 2))
		require.Len(t, out, 1)

		assert.Equal(t, int64(7), edgeValue(t, m, h, mesh.SimplexID(m, out[0]), 1))
		// one rib per triangle around the split edge
		assert.Equal(t, 2, calls)
	})
}

func TestCollapseMeansPositions(t *testing.T) {
	m := meshtest.Quad(t)
	op, err := operations.NewEdgeCollapse(m, operations.DefaultSettings())
	require.NoError(t, err)

	require.Len(t, op.Run(meshtest.FindEdge(t, m, 0, 1)), 1)

	pos := mesh.CreateConstAccessor(m, meshtest.Positions(t, m))
	assert.Equal(t, []float64{0.5, 0}, pos.VectorAt(1))
}

func TestSetStrategyErrors(t *testing.T) {
	m := meshtest.Quad(t)
	h, err := mesh.RegisterAttribute[int64](m, "tag", mesh.Edge, 1, 0)
	require.NoError(t, err)
	op, err := operations.NewEdgeSplit(m, operations.DefaultSettings())
	require.NoError(t, err)

	err = op.SetStrategy(operations.KeyOf(h), operations.StrategySettings{Collapse: operations.CollapseCopyFromPredicate})
	assert.ErrorIs(t, err, operations.ErrMissingPredicate)

	other := meshtest.Quad(t)
	oh, err := mesh.RegisterAttribute[int64](other, "tag", mesh.Edge, 1, 0)
	require.NoError(t, err)
	err = op.SetStrategy(operations.KeyOf(oh), operations.StrategySettings{})
	assert.ErrorIs(t, err, operations.ErrForeignMesh)

	ss := operations.StrategySettings{Split: operations.SplitHalf}
	require.NoError(t, op.SetStrategy(operations.KeyOf(h), ss))
	assert.Equal(t, operations.SplitHalf, op.Strategy(operations.KeyOf(h)).Split)
}

func TestStrategyNames(t *testing.T) {
	assert.Equal(t, "copy_tuple", operations.SplitCopyTuple.String())
	assert.Equal(t, "copy_from_predicate", operations.CollapseCopyFromPredicate.String())
	assert.Equal(t, "mean", operations.CollapseMean.String())
}
