package operations

import (
	"github.com/hupe1980/meshkit/invariants"
	"github.com/hupe1980/meshkit/logging"
	"github.com/hupe1980/meshkit/mesh"
	"github.com/hupe1980/meshkit/multimesh"
)

// Hooks are operation specific checks around the edit. A nil hook passes.
type Hooks struct {
	// Before runs first, on the input simplex. It may stage data that the
	// edit or a later hook uses.
	Before func(s mesh.Simplex) bool
	// After runs last, on the simplices the edit returns. Rejecting rolls
	// the edit back.
	After func(out []mesh.Simplex) bool
}

// Settings configures an operation.
type Settings struct {
	// SplitBoundaryEdges allows splitting edges on the boundary.
	SplitBoundaryEdges bool
	// CollapseBoundaryEdges allows collapsing edges on the boundary.
	CollapseBoundaryEdges bool
	// Invariants are checked before and after the edit.
	Invariants *invariants.Collection
	Hooks      Hooks
}

// DefaultSettings allows boundary edits and has no invariants.
func DefaultSettings() Settings {
	return Settings{
		SplitBoundaryEdges:    true,
		CollapseBoundaryEdges: true,
	}
}

type options struct {
	manager *multimesh.Manager
	metrics MetricsCollector
	logger  *logging.Logger
}

// Option configures an operation.
type Option func(*options)

// WithManager runs the operation on every mesh of g. The operation's mesh
// must belong to g. Without a manager the operation edits its mesh alone.
func WithManager(g *multimesh.Manager) Option {
	return func(o *options) {
		o.manager = g
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(c MetricsCollector) Option {
	return func(o *options) {
		o.metrics = c
	}
}

// WithLogger sets the logger. The mesh logger is used otherwise.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
