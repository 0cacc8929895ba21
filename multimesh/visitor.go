package multimesh

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hupe1980/meshkit/mesh"
)

type resultKey struct {
	mesh    uuid.UUID
	simplex mesh.Simplex
}

// elementKey names an element independent of the tuple that reached it.
type elementKey struct {
	mesh uuid.UUID
	pt   mesh.PrimitiveType
	id   int64
}

// Results holds the value a Visitor computed for every image it visited.
type Results[R any] struct {
	values map[resultKey]R
	order  []resultKey
}

func newResults[R any]() *Results[R] {
	return &Results[R]{values: make(map[resultKey]R)}
}

func (r *Results[R]) set(m mesh.Mesh, s mesh.Simplex, v R) {
	k := resultKey{mesh: m.Identity(), simplex: s}
	if _, ok := r.values[k]; !ok {
		r.order = append(r.order, k)
	}
	r.values[k] = v
}

// Get returns the value computed for simplex s of m.
func (r *Results[R]) Get(m mesh.Mesh, s mesh.Simplex) (R, bool) {
	v, ok := r.values[resultKey{mesh: m.Identity(), simplex: s}]
	return v, ok
}

// ForMesh returns the values computed for m in visiting order.
func (r *Results[R]) ForMesh(m mesh.Mesh) []R {
	var out []R
	for _, k := range r.order {
		if k.mesh == m.Identity() {
			out = append(out, r.values[k])
		}
	}
	return out
}

// Len returns the number of visited images.
func (r *Results[R]) Len() int { return len(r.order) }

// EdgeFunc is called once per parent-child pair after every node was visited.
type EdgeFunc[R any] func(parent, child mesh.Mesh, parentResults, childResults []R) error

// Visitor runs a function per concrete mesh type on every image of a simplex
// in a tree, then a function per parent-child pair.
//
// All images are computed before the first node function runs, so node
// functions may edit their mesh. Each element runs at most once, even when
// several parent images reach it.
type Visitor[R any] struct {
	pt   mesh.PrimitiveType
	fns  mesh.Funcs[R]
	edge EdgeFunc[R]
}

// NewVisitor creates a visitor for simplices of type pt.
func NewVisitor[R any](pt mesh.PrimitiveType, fns mesh.Funcs[R]) *Visitor[R] {
	return &Visitor[R]{pt: pt, fns: fns}
}

// WithEdge sets the parent-child function.
func (v *Visitor[R]) WithEdge(fn EdgeFunc[R]) *Visitor[R] {
	v.edge = fn
	return v
}

// Execute visits the images of simplex s of m.
func (v *Visitor[R]) Execute(g *Manager, m mesh.Mesh, s mesh.Simplex) (*Results[R], error) {
	if s.PrimitiveType() != v.pt {
		return nil, fmt.Errorf("multimesh: visitor for %s got %s", v.pt, s.PrimitiveType())
	}
	images := g.Images(m, s)
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: %s has no image in the root", ErrInvalidMap, s)
	}
	res := newResults[R]()
	seen := make(map[elementKey]bool, len(images))
	for _, img := range images {
		k := elementKey{mesh: img.Mesh.Identity(), pt: img.Simplex.PrimitiveType(), id: mesh.SimplexID(img.Mesh, img.Simplex)}
		if seen[k] {
			continue
		}
		seen[k] = true
		if r, ok := mesh.Dispatch(img.Mesh, img.Simplex, v.fns); ok {
			res.set(img.Mesh, img.Simplex, r)
		}
	}
	if v.edge == nil {
		return res, nil
	}
	var err error
	g.walk(func(n *node) {
		if err != nil || n.parent == nil {
			return
		}
		err = v.edge(n.parent.m, n.m, res.ForMesh(n.parent.m), res.ForMesh(n.m))
	})
	return res, err
}
