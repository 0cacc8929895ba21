package mesh

import "fmt"

// initialize builds every connectivity table from a list of cells given by
// their vertex ids. Vertex ids must be dense: every id below the largest one
// has to be used by some cell.
func (m *meshBase) initialize(cells [][]int64) error {
	if len(m.scopes) > 0 {
		return ErrScopeActive
	}
	if m.caps[m.top] != 0 {
		return ErrAlreadyInitialized
	}
	d := m.dim
	n := d + 1

	var nv int64
	for ci, c := range cells {
		if len(c) != n {
			return &TopologyError{Cell: ci, Detail: fmt.Sprintf("%d vertices, want %d", len(c), n), cause: ErrDegenerateCell}
		}
		for i, v := range c {
			if v < 0 {
				return &TopologyError{Cell: ci, Detail: fmt.Sprintf("vertex %d", v), cause: ErrInvalidVertex}
			}
			for _, w := range c[:i] {
				if w == v {
					return &TopologyError{Cell: ci, Detail: fmt.Sprintf("vertex %d repeated", v), cause: ErrDegenerateCell}
				}
			}
			nv = max(nv, v+1)
		}
	}
	used := make([]bool, nv)
	for _, c := range cells {
		for _, v := range c {
			used[v] = true
		}
	}
	for v, ok := range used {
		if !ok {
			return &TopologyError{Cell: -1, Detail: fmt.Sprintf("vertex %d is not used by any cell", v), cause: ErrInvalidVertex}
		}
	}

	var counts [maxDimension + 1]int64
	counts[0] = nv
	counts[d] = int64(len(cells))

	var faceData [maxDimension][]int64
	for k := 1; k < d; k++ {
		ids := make(map[simplexKey]int64)
		stride := len(m.topo.sub[k])
		faceData[k] = make([]int64, len(cells)*stride)
		for ci, c := range cells {
			for l, face := range m.topo.sub[k] {
				key := makeKey(globalVertices(c, face))
				id, ok := ids[key]
				if !ok {
					id = counts[k]
					counts[k]++
					ids[key] = id
				}
				faceData[k][ci*stride+l] = id
			}
		}
	}

	type slot struct {
		cell  int
		facet int
	}
	facets := make(map[simplexKey][]slot)
	adj := make([]int64, len(cells)*n)
	for i := range adj {
		adj[i] = -1
	}
	for ci, c := range cells {
		for i := 0; i < n; i++ {
			key := makeKey(without(c, i))
			facets[key] = append(facets[key], slot{cell: ci, facet: i})
			switch s := facets[key]; len(s) {
			case 2:
				adj[s[0].cell*n+s[0].facet] = int64(s[1].cell)
				adj[s[1].cell*n+s[1].facet] = int64(s[0].cell)
			case 3:
				return &TopologyError{Cell: ci, Detail: fmt.Sprintf("facet %v", key.vertices()), cause: ErrNonManifold}
			}
		}
	}

	var reverse [maxDimension][]int64
	for k := 0; k < d; k++ {
		reverse[k] = make([]int64, counts[k])
		for i := range reverse[k] {
			reverse[k][i] = -1
		}
	}
	vertexData := make([]int64, 0, len(cells)*n)
	for ci, c := range cells {
		vertexData = append(vertexData, c...)
		for _, v := range c {
			if reverse[0][v] < 0 {
				reverse[0][v] = int64(ci)
			}
		}
		for k := 1; k < d; k++ {
			stride := len(m.topo.sub[k])
			for _, id := range faceData[k][ci*stride : (ci+1)*stride] {
				if reverse[k][id] < 0 {
					reverse[k][id] = int64(ci)
				}
			}
		}
	}

	m.SetCapacities(counts[:d+1])
	m.cv.load(vertexData)
	for k := 1; k < d; k++ {
		m.cs[k].load(faceData[k])
	}
	m.cc.load(adj)
	for k := 0; k < d; k++ {
		m.sc[k].load(reverse[k])
	}
	for pt := Vertex; pt <= m.top; pt++ {
		for id := int64(0); id < counts[pt]; id++ {
			m.flags[pt].setScalar(id, flagAlive)
		}
	}
	return nil
}

func globalVertices(cell []int64, local []int8) []int64 {
	out := make([]int64, len(local))
	for i, l := range local {
		out[i] = cell[l]
	}
	return out
}

func without(cell []int64, i int) []int64 {
	out := make([]int64, 0, len(cell)-1)
	out = append(out, cell[:i]...)
	return append(out, cell[i+1:]...)
}

func containsID(ids []int64, id int64) bool {
	return indexOf(ids, id) >= 0
}
