package mesh

import "sort"

// localFlag is the local part of a Tuple.
type localFlag struct {
	lv, le, lf int8
}

// flagInfo is everything the navigation code needs to know about one local flag.
type flagInfo struct {
	// perm orders the cell's local vertices: the flag's vertex, the other vertex
	// of its edge, the third vertex of its face, the remaining vertex.
	perm [maxDimension + 1]int8
	ccw  bool
	// sub[k] is the local index of the flag's k-face, for k below the cell dimension.
	sub [maxDimension]int8
	// next[k] is the flag reached by switching the k-face.
	next [maxDimension]localFlag
}

// cellTopology holds the fixed local tables of a d-simplex.
type cellTopology struct {
	dim int
	// sub[k] lists the local k-faces (k < dim) as local vertex lists.
	// Facets are numbered by their opposite vertex.
	sub       [maxDimension + 1][][]int8
	flags     map[localFlag]*flagInfo
	order     []localFlag
	canonical [maxDimension][]localFlag
}

var topologies [maxDimension + 1]*cellTopology

func init() {
	for d := 0; d <= maxDimension; d++ {
		topologies[d] = buildTopology(d)
	}
}

func buildTopology(d int) *cellTopology {
	t := &cellTopology{
		dim:   d,
		flags: make(map[localFlag]*flagInfo),
	}
	n := d + 1

	for v := 0; v < n; v++ {
		t.sub[0] = append(t.sub[0], []int8{int8(v)})
	}
	switch d {
	case 2:
		t.sub[1] = [][]int8{{1, 2}, {0, 2}, {0, 1}}
	case 3:
		t.sub[1] = [][]int8{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
		t.sub[2] = [][]int8{{1, 2, 3}, {0, 2, 3}, {0, 1, 3}, {0, 1, 2}}
	}

	for _, p := range permutations(n) {
		info := &flagInfo{ccw: inversions(p)%2 == 0}
		for i := range info.perm {
			info.perm[i] = -1
		}
		copy(info.perm[:], p)
		for k := 0; k < d; k++ {
			info.sub[k] = t.indexOf(k, p[:k+1])
		}
		f := t.flagOf(p)
		t.flags[f] = info
		t.order = append(t.order, f)
	}

	for _, f := range t.order {
		info := t.flags[f]
		for k := 0; k < d; k++ {
			q := make([]int8, n)
			copy(q, info.perm[:n])
			q[k], q[k+1] = q[k+1], q[k]
			info.next[k] = t.flagOf(q)
		}
	}

	sort.SliceStable(t.order, func(i, j int) bool {
		return t.flags[t.order[i]].ccw && !t.flags[t.order[j]].ccw
	})

	for k := 0; k < d; k++ {
		t.canonical[k] = make([]localFlag, len(t.sub[k]))
		for i := range t.sub[k] {
			for _, f := range t.order {
				if t.flags[f].sub[k] == int8(i) {
					t.canonical[k][i] = f
					break
				}
			}
		}
	}
	return t
}

// flagOf maps a vertex ordering to the local flag it describes.
func (t *cellTopology) flagOf(p []int8) localFlag {
	f := localFlag{lv: -1, le: -1, lf: -1}
	if t.dim >= 1 {
		f.lv = p[0]
	}
	if t.dim >= 2 {
		f.le = t.indexOf(1, p[:2])
	}
	if t.dim >= 3 {
		f.lf = t.indexOf(2, p[:3])
	}
	return f
}

// indexOf returns the local index of the k-face spanned by the given local vertices.
func (t *cellTopology) indexOf(k int, verts []int8) int8 {
	for i, face := range t.sub[k] {
		if sameLocalSet(face, verts) {
			return int8(i)
		}
	}
	return -1
}

// local returns the local index of the flag's k-face.
func (t *cellTopology) local(f localFlag, k int) int8 {
	switch k {
	case 0:
		return f.lv
	case 1:
		return f.le
	case 2:
		return f.lf
	}
	return -1
}

func sameLocalSet(a, b []int8) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		found := false
		for _, y := range b {
			if x == y {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func permutations(n int) [][]int8 {
	var out [][]int8
	p := make([]int8, n)
	used := make([]bool, n)
	var rec func(i int)
	rec = func(i int) {
		if i == n {
			out = append(out, append([]int8(nil), p...))
			return
		}
		for v := 0; v < n; v++ {
			if used[v] {
				continue
			}
			used[v] = true
			p[i] = int8(v)
			rec(i + 1)
			used[v] = false
		}
	}
	rec(0)
	return out
}

func inversions(p []int8) int {
	c := 0
	for i := range p {
		for j := i + 1; j < len(p); j++ {
			if p[i] > p[j] {
				c++
			}
		}
	}
	return c
}
