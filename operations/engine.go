package operations

import (
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/meshkit/logging"
	"github.com/hupe1980/meshkit/mesh"
	"github.com/hupe1980/meshkit/multimesh"
)

// Stages reported in logs when an edit is not applied.
const (
	stageInput          = "input"
	stageBefore         = "before"
	stagePrecondition   = "precondition"
	stageInvariants     = "invariants"
	stageExecute        = "execute"
	stagePostInvariants = "post_invariants"
	stageAfter          = "after"
)

var errRejected = errors.New("edit rejected")

// engine holds what split, collapse and swap share.
type engine struct {
	name         string
	m            mesh.Mesh
	mgr          *multimesh.Manager
	settings     Settings
	strategies   map[AttributeKey]StrategySettings
	mergeDefault CollapseStrategy // replaces CollapseDefault for collapse merges when set
	metrics      MetricsCollector
	logger       *logging.Logger
}

func newEngine(name string, m mesh.Mesh, settings Settings, optFns []Option) (*engine, error) {
	opts := options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.manager == nil {
		opts.manager = multimesh.NewManager(m)
	} else if !opts.manager.Contains(m) {
		return nil, multimesh.ErrNotInManager
	}
	if opts.metrics == nil {
		opts.metrics = NoopMetricsCollector{}
	}
	logger := opts.logger
	if logger == nil {
		logger = m.Logger()
	}
	return &engine{
		name:       name,
		m:          m,
		mgr:        opts.manager,
		settings:   settings,
		strategies: make(map[AttributeKey]StrategySettings),
		metrics:    opts.metrics,
		logger:     logging.OrNoop(logger).WithOperation(name),
	}, nil
}

// Name implements Operation.
func (e *engine) Name() string { return e.name }

// PrimitiveType implements Operation.
func (e *engine) PrimitiveType() mesh.PrimitiveType { return mesh.Edge }

// Mesh implements Operation.
func (e *engine) Mesh() mesh.Mesh { return e.m }

// Manager returns the hierarchy the operation edits.
func (e *engine) Manager() *multimesh.Manager { return e.mgr }

// Settings returns the settings. Changes apply to later runs.
func (e *engine) Settings() *Settings { return &e.settings }

// SetStrategy configures how an attribute of one of the edited meshes follows
// the edit.
func (e *engine) SetStrategy(key AttributeKey, ss StrategySettings) error {
	if err := ss.validate(); err != nil {
		return fmt.Errorf("%w: %s", err, key.Name)
	}
	known := false
	for _, m := range e.mgr.Meshes() {
		if m.Identity() == key.Mesh {
			known = true
		}
	}
	if !known {
		return ErrForeignMesh
	}
	e.strategies[key] = ss
	return nil
}

// Strategy returns the settings of an attribute.
func (e *engine) Strategy(key AttributeKey) StrategySettings {
	return e.strategies[key]
}

// body is the part of a run that differs per operation. It returns the
// output simplices and one tuple per new top cell of the operation's mesh.
type body func() (out []mesh.Simplex, top []mesh.Tuple, err error)

// run executes the stages around an edit.
func (e *engine) run(s mesh.Simplex, precondition func(s mesh.Simplex) bool, edit body) []mesh.Simplex {
	start := time.Now()
	if s.PrimitiveType() != mesh.Edge || !e.m.IsValid(s.Tuple()) {
		e.finish(s, nil, stageInput, false, start)
		return nil
	}

	scope := e.mgr.CreateScope()
	defer scope.Close()

	out, stage := e.stages(s, precondition, edit)
	edited := stage == "" || stage == stageExecute || stage == stagePostInvariants || stage == stageAfter
	if stage == "" {
		scope.Commit()
	} else if edited {
		e.logger.LogRollback(e.name, scope.Meshes())
	}
	return e.finish(s, out, stage, stage != "" && edited, start)
}

func (e *engine) stages(s mesh.Simplex, precondition func(s mesh.Simplex) bool, edit body) ([]mesh.Simplex, string) {
	if h := e.settings.Hooks.Before; h != nil && !h(s) {
		return nil, stageBefore
	}
	if precondition != nil && !precondition(s) {
		return nil, stagePrecondition
	}
	if !e.settings.Invariants.Before(s) {
		return nil, stageInvariants
	}
	out, top, err := edit()
	if err != nil {
		if !errors.Is(err, errRejected) {
			e.logger.Warn("edit failed", "simplex", s.String(), "error", err)
		}
		return nil, stageExecute
	}
	if !e.settings.Invariants.After(top) {
		return nil, stagePostInvariants
	}
	if h := e.settings.Hooks.After; h != nil && !h(out) {
		return nil, stageAfter
	}
	return out, ""
}

func (e *engine) finish(s mesh.Simplex, out []mesh.Simplex, stage string, rolledBack bool, start time.Time) []mesh.Simplex {
	applied := stage == ""
	e.logger.LogOperation(e.name, s.String(), applied, stage)
	e.metrics.RecordOperation(e.name, applied, rolledBack, time.Since(start))
	if !applied {
		return nil
	}
	return out
}

// edit plans and applies kind on every image of s and updates the maps. It
// returns the result for the operation's mesh.
func (e *engine) edit(kind mesh.EditKind, s mesh.Simplex) (*mesh.EditResult, error) {
	verts := mesh.VertexIDs(e.m, s)
	apply := func(m mesh.Mesh, s mesh.Simplex) *mesh.EditResult {
		var plan *mesh.EditPlan
		if kind == mesh.EditSplit {
			plan = mesh.PlanSplit(m, s)
		} else {
			plan = mesh.PlanCollapse(m, s)
		}
		decided := e.prepare(m, plan)
		res := mesh.Apply(m, plan)
		e.propagate(m, res, decided)
		return res
	}
	fns := mesh.Funcs[*mesh.EditResult]{
		Edge: func(m *mesh.EdgeMesh, s mesh.Simplex) *mesh.EditResult { return apply(m, s) },
		Tri:  func(m *mesh.TriMesh, s mesh.Simplex) *mesh.EditResult { return apply(m, s) },
		Tet:  func(m *mesh.TetMesh, s mesh.Simplex) *mesh.EditResult { return apply(m, s) },
	}
	results, err := multimesh.NewVisitor(mesh.Edge, fns).WithEdge(e.mgr.UpdateMaps).Execute(e.mgr, e.m, s)
	if err != nil {
		return nil, err
	}
	own := results.ForMesh(e.m)
	for _, r := range own {
		if r.Endpoints == [2]int64{verts[0], verts[1]} {
			return r, nil
		}
	}
	if len(own) == 0 {
		return nil, fmt.Errorf("operations: %s produced no result for the input mesh", kind)
	}
	return own[0], nil
}

// linkConditionHolds checks the link condition on every image of s.
func (e *engine) linkConditionHolds(s mesh.Simplex) bool {
	for _, img := range e.mgr.Images(e.m, s) {
		if !mesh.LinkCondition(img.Mesh, img.Simplex) {
			return false
		}
	}
	return true
}

// topTuples returns one tuple per live cell of ids.
func (e *engine) topTuples(ids []int64) []mesh.Tuple {
	top := e.m.TopSimplexType()
	out := make([]mesh.Tuple, 0, len(ids))
	for _, c := range ids {
		if !e.m.IsRemoved(top, c) {
			out = append(out, e.m.TupleFromID(top, c))
		}
	}
	return out
}
