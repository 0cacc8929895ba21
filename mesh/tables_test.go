package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopologyFlagCounts(t *testing.T) {
	for d, want := range []int{1, 2, 6, 24} {
		topo := topologies[d]
		assert.Len(t, topo.order, want, "dimension %d", d)
		assert.True(t, topo.flags[topo.order[0]].ccw, "dimension %d", d)
	}
}

func TestTopologyLocalSwitchInvolution(t *testing.T) {
	for d := 1; d <= maxDimension; d++ {
		topo := topologies[d]
		for _, f := range topo.order {
			info := topo.flags[f]
			for k := 0; k < d; k++ {
				next := info.next[k]
				assert.Equal(t, f, topo.flags[next].next[k])
				assert.NotEqual(t, info.ccw, topo.flags[next].ccw)
				for j := 0; j < d; j++ {
					if j != k {
						assert.Equal(t, info.sub[j], topo.flags[next].sub[j], "switch %d keeps %d-face", k, j)
					}
				}
			}
		}
	}
}

func TestTriangleLocalIDs(t *testing.T) {
	topo := topologies[2]
	f := topo.order[0]
	assert.Equal(t, localFlag{lv: 0, le: 2, lf: -1}, f)
	assert.Equal(t, [][]int8{{1, 2}, {0, 2}, {0, 1}}, topo.sub[1])

	for i, face := range topo.sub[1] {
		assert.NotContains(t, face, int8(i), "edge %d is opposite vertex %d", i, i)
	}
}

func TestTetrahedronLocalIDs(t *testing.T) {
	topo := topologies[3]
	f := topo.order[0]
	assert.Equal(t, localFlag{lv: 0, le: 0, lf: 3}, f)
	require.Len(t, topo.sub[2], 4)
	for i, face := range topo.sub[2] {
		assert.NotContains(t, face, int8(i))
	}
	for k := 0; k < 3; k++ {
		assert.Len(t, topo.canonical[k], len(topo.sub[k]))
	}
}

func TestSimplexKey(t *testing.T) {
	k := makeKey([]int64{7, 2, 5})
	assert.Equal(t, simplexKey{2, 5, 7, -1}, k)
	assert.Equal(t, 3, k.size())
	assert.True(t, k.contains(5))
	assert.Equal(t, makeKey([]int64{2, 7, 9}), k.replace(5, 9))
}
