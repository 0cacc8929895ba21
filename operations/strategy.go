package operations

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hupe1980/meshkit/mesh"
)

// SplitStrategy derives the values of the two halves of a split element.
type SplitStrategy int8

const (
	// SplitDefault is SplitCopy.
	SplitDefault SplitStrategy = iota
	// SplitCopy copies the old value to both halves.
	SplitCopy
	// SplitCopyTuple copies the old value to the half at the input vertex and
	// leaves the other half at the default.
	SplitCopyTuple
	// SplitHalf writes half of the old value to both halves.
	SplitHalf
	// SplitNone leaves both halves at the default.
	SplitNone
)

// String implements fmt.Stringer.
func (s SplitStrategy) String() string {
	switch s {
	case SplitDefault:
		return "default"
	case SplitCopy:
		return "copy"
	case SplitCopyTuple:
		return "copy_tuple"
	case SplitHalf:
		return "half"
	case SplitNone:
		return "none"
	default:
		return fmt.Sprintf("split_strategy(%d)", int8(s))
	}
}

// CollapseStrategy derives the value of an element from two candidates: the
// removed and the kept element of a collapse, or the two ears of an element
// created by a split.
type CollapseStrategy int8

const (
	// CollapseDefault is CollapseMean for float64 and rational attributes and
	// CollapseCopyTuple otherwise.
	CollapseDefault CollapseStrategy = iota
	// CollapseCopyTuple takes the value on the input vertex side.
	CollapseCopyTuple
	// CollapseCopyOther takes the value on the other side.
	CollapseCopyOther
	// CollapseCopyFromPredicate takes the input side value when the predicate
	// returns true for (input side, other side), and the other side otherwise.
	CollapseCopyFromPredicate
	// CollapseMean writes the mean of both candidates.
	CollapseMean
	// CollapseNone writes the default.
	CollapseNone
)

// String implements fmt.Stringer.
func (s CollapseStrategy) String() string {
	switch s {
	case CollapseDefault:
		return "default"
	case CollapseCopyTuple:
		return "copy_tuple"
	case CollapseCopyOther:
		return "copy_other"
	case CollapseCopyFromPredicate:
		return "copy_from_predicate"
	case CollapseMean:
		return "mean"
	case CollapseNone:
		return "none"
	default:
		return fmt.Sprintf("collapse_strategy(%d)", int8(s))
	}
}

// AttributeKey names an attribute across meshes.
type AttributeKey struct {
	Mesh          uuid.UUID
	Name          string
	PrimitiveType mesh.PrimitiveType
}

// KeyOf returns the key of the attribute behind h.
func KeyOf[T mesh.Value](h mesh.AttributeHandle[T]) AttributeKey {
	return AttributeKey{Mesh: h.Mesh(), Name: h.Name(), PrimitiveType: h.PrimitiveType()}
}

func keyOfRef(m mesh.Mesh, a mesh.AttributeRef) AttributeKey {
	return AttributeKey{Mesh: m.Identity(), Name: a.Name(), PrimitiveType: a.PrimitiveType()}
}

// StrategySettings configures how one attribute follows an edit. The zero
// value uses the defaults everywhere.
type StrategySettings struct {
	// Split applies to elements cut in two by a split.
	Split SplitStrategy
	// SplitRib applies to elements a split creates between two ears, such as
	// the new vertex between the edge endpoints.
	SplitRib CollapseStrategy
	// Collapse applies to pairs of elements a collapse identifies.
	Collapse CollapseStrategy
	// Predicate is evaluated by CollapseCopyFromPredicate once per candidate
	// pair. It selects a when it returns true.
	Predicate func(a, b mesh.Simplex) bool
}

func (ss StrategySettings) validate() error {
	if (ss.SplitRib == CollapseCopyFromPredicate || ss.Collapse == CollapseCopyFromPredicate) && ss.Predicate == nil {
		return ErrMissingPredicate
	}
	return nil
}

func resolveSplit(s SplitStrategy) SplitStrategy {
	if s == SplitDefault {
		return SplitCopy
	}
	return s
}

func resolveCollapse(s CollapseStrategy, kind mesh.ValueKind) CollapseStrategy {
	if s != CollapseDefault {
		return s
	}
	if kind.Numeric() {
		return CollapseMean
	}
	return CollapseCopyTuple
}

func (e *engine) mergeStrategy(ss StrategySettings, kind mesh.ValueKind) CollapseStrategy {
	if ss.Collapse == CollapseDefault && e.mergeDefault != CollapseDefault {
		return e.mergeDefault
	}
	return resolveCollapse(ss.Collapse, kind)
}

// pending holds the predicate outcomes of a collapse, computed before the
// mesh is edited.
type pending map[AttributeKey]map[int64]bool

// prepare evaluates the collapse predicates on the pre-edit merge tuples.
func (e *engine) prepare(m mesh.Mesh, plan *mesh.EditPlan) pending {
	if plan.Kind() != mesh.EditCollapse {
		return nil
	}
	out := make(pending)
	for _, a := range mesh.Attributes(m) {
		if a.Internal() {
			continue
		}
		key := keyOfRef(m, a)
		ss := e.strategies[key]
		if e.mergeStrategy(ss, a.Kind()) != CollapseCopyFromPredicate {
			continue
		}
		pt := a.PrimitiveType()
		decided := make(map[int64]bool)
		for _, r := range plan.Merges(pt) {
			decided[r.A] = ss.Predicate(mesh.NewSimplex(pt, r.TupleA), mesh.NewSimplex(pt, r.TupleB))
		}
		out[key] = decided
	}
	return out
}

// propagate writes the values of the elements an edit created or merged.
func (e *engine) propagate(m mesh.Mesh, res *mesh.EditResult, decided pending) {
	for _, a := range mesh.Attributes(m) {
		if a.Internal() {
			continue
		}
		key := keyOfRef(m, a)
		ss := e.strategies[key]
		pt := a.PrimitiveType()
		switch res.Kind {
		case mesh.EditSplit:
			for _, r := range res.Splits[pt] {
				splitItem(a, resolveSplit(ss.Split), r)
			}
			st := resolveCollapse(ss.SplitRib, a.Kind())
			for _, r := range res.Ribs[pt] {
				fromA := true
				switch st {
				case CollapseCopyOther:
					fromA = false
				case CollapseCopyFromPredicate:
					fromA = ss.Predicate(mesh.NewSimplex(pt, m.TupleFromID(pt, r.EarA)),
						mesh.NewSimplex(pt, m.TupleFromID(pt, r.EarB)))
				}
				combine(a, st, r.New, r.EarA, r.EarB, fromA)
			}
		case mesh.EditCollapse:
			st := e.mergeStrategy(ss, a.Kind())
			for _, r := range res.Merges[pt] {
				fromA := st == CollapseCopyTuple
				if st == CollapseCopyFromPredicate {
					fromA = decided[key][r.A]
				}
				combine(a, st, r.B, r.A, r.B, fromA)
			}
		}
	}
}

func splitItem(a mesh.AttributeRef, st SplitStrategy, r mesh.SplitRecord) {
	for _, half := range []int64{r.A, r.B} {
		if half < 0 {
			continue
		}
		switch st {
		case SplitCopy:
			a.CopyItem(half, r.Old)
		case SplitCopyTuple:
			if half == r.A {
				a.CopyItem(half, r.Old)
			} else {
				a.ResetItem(half)
			}
		case SplitHalf:
			a.HalveItem(half, r.Old)
		case SplitNone:
			a.ResetItem(half)
		}
	}
}

// combine writes dst from the candidates x (input side) and y.
func combine(a mesh.AttributeRef, st CollapseStrategy, dst, x, y int64, fromX bool) {
	switch st {
	case CollapseMean:
		a.MeanItems(dst, x, y)
	case CollapseNone:
		a.ResetItem(dst)
	default:
		src := y
		if fromX {
			src = x
		}
		if src != dst {
			a.CopyItem(dst, src)
		}
	}
}
