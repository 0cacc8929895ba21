package mesh

// Consolidation maps the ids a mesh had before Consolidate to the ids it has
// afterwards, per primitive type. Removed elements map to -1.
type Consolidation struct {
	OldToNew [maxDimension + 1][]int64
}

// NewID returns the id element (pt, old) was moved to, or -1.
func (c *Consolidation) NewID(pt PrimitiveType, old int64) int64 {
	if old < 0 || old >= int64(len(c.OldToNew[pt])) {
		return -1
	}
	return c.OldToNew[pt][old]
}

// Consolidate compacts m: live elements are renumbered densely in their old
// order, every attribute is moved accordingly and the connectivity tables are
// rewritten. Capacities shrink to the live counts. All tuples are invalidated.
// It fails while a scope is open.
func Consolidate(m Mesh) (*Consolidation, error) {
	b := m.core()
	if len(b.scopes) > 0 {
		return nil, ErrScopeActive
	}
	c := &Consolidation{}
	var live [maxDimension + 1]int64
	for pt := Vertex; pt <= b.top; pt++ {
		remap := make([]int64, b.caps[pt])
		for id := range remap {
			if b.IsRemoved(pt, int64(id)) {
				remap[id] = -1
				continue
			}
			remap[id] = live[pt]
			live[pt]++
		}
		c.OldToNew[pt] = remap
	}

	for _, a := range b.attrs {
		pt := a.PrimitiveType()
		a.compact(c.OldToNew[pt], live[pt])
	}
	if b.dim > 0 {
		top := b.top
		rewriteIDs(b.cv, live[top], c.OldToNew[Vertex])
		for k := 1; k < b.dim; k++ {
			rewriteIDs(b.cs[k], live[top], c.OldToNew[k])
		}
		rewriteIDs(b.cc, live[top], c.OldToNew[top])
		for k := 0; k < b.dim; k++ {
			rewriteIDs(b.sc[k], live[k], c.OldToNew[top])
		}
	}
	for pt := Vertex; pt <= b.top; pt++ {
		b.caps[pt] = live[pt]
	}
	b.logger.Debug("consolidated mesh", "vertices", live[Vertex], "cells", live[b.top])
	return c, nil
}

// rewriteIDs maps every non-negative value of the first n elements of a
// through remap.
func rewriteIDs(a *Attribute[int64], n int64, remap []int64) {
	for i := int64(0); i < n; i++ {
		v := a.writable(i)
		for j, id := range v {
			if id >= 0 && id < int64(len(remap)) {
				v[j] = remap[id]
			}
		}
	}
}
