package invariants

import "github.com/hupe1980/meshkit/mesh"

// Invariant is a predicate checked around an operation.
type Invariant interface {
	// Before is checked on the input simplex before the mesh is edited.
	Before(s mesh.Simplex) bool
	// After is checked on one tuple per top cell created by the edit.
	After(top []mesh.Tuple) bool
}

// Func adapts plain functions to Invariant. A nil function passes.
type Func struct {
	BeforeFn func(s mesh.Simplex) bool
	AfterFn  func(top []mesh.Tuple) bool
}

// Before implements Invariant.
func (f Func) Before(s mesh.Simplex) bool {
	return f.BeforeFn == nil || f.BeforeFn(s)
}

// After implements Invariant.
func (f Func) After(top []mesh.Tuple) bool {
	return f.AfterFn == nil || f.AfterFn(top)
}

// Collection passes when every invariant in it passes. The zero value is an
// empty collection that always passes.
type Collection struct {
	items []Invariant
}

// NewCollection returns a collection of invs.
func NewCollection(invs ...Invariant) *Collection {
	c := &Collection{}
	c.Add(invs...)
	return c
}

// Add appends invariants. Nil entries are ignored.
func (c *Collection) Add(invs ...Invariant) {
	for _, inv := range invs {
		if inv != nil {
			c.items = append(c.items, inv)
		}
	}
}

// Len returns the number of invariants.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Before implements Invariant. Evaluation stops at the first failure.
func (c *Collection) Before(s mesh.Simplex) bool {
	if c == nil {
		return true
	}
	for _, inv := range c.items {
		if !inv.Before(s) {
			return false
		}
	}
	return true
}

// After implements Invariant. Evaluation stops at the first failure.
func (c *Collection) After(top []mesh.Tuple) bool {
	if c == nil {
		return true
	}
	for _, inv := range c.items {
		if !inv.After(top) {
			return false
		}
	}
	return true
}
