package scheduler

import (
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/meshkit/logging"
	"github.com/hupe1980/meshkit/mesh"
	"github.com/hupe1980/meshkit/operations"
)

// Stats summarizes one or more passes.
type Stats struct {
	Passes    int
	Executed  int
	Succeeded int
	Failed    int
	// Skipped counts snapshot entries that were removed before their turn.
	Skipped  int
	Duration time.Duration
}

func (s *Stats) add(o Stats) {
	s.Passes += o.Passes
	s.Executed += o.Executed
	s.Succeeded += o.Succeeded
	s.Failed += o.Failed
	s.Skipped += o.Skipped
	s.Duration += o.Duration
}

type options struct {
	priority func(s mesh.Simplex) float64
	filter   func(s mesh.Simplex) bool
	metrics  operations.MetricsCollector
	logger   *logging.Logger
}

// Option configures a run.
type Option func(*options)

// WithPriority runs simplices in ascending order of fn, evaluated once when
// the pass starts. Ties keep id order.
func WithPriority(fn func(s mesh.Simplex) float64) Option {
	return func(o *options) {
		o.priority = fn
	}
}

// WithFilter skips simplices for which fn returns false.
func WithFilter(fn func(s mesh.Simplex) bool) Option {
	return func(o *options) {
		o.filter = fn
	}
}

// WithMetrics records every pass.
func WithMetrics(c operations.MetricsCollector) Option {
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

func newOptions(op operations.Operation, optFns []Option) options {
	opts := options{metrics: operations.NoopMetricsCollector{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.logger == nil {
		opts.logger = op.Mesh().Logger()
	}
	opts.logger = logging.OrNoop(opts.logger)
	return opts
}

// Run makes one pass of op over all simplices of its type.
func Run(op operations.Operation, optFns ...Option) Stats {
	opts := newOptions(op, optFns)
	stats, _ := pass(op, opts, 1, nil)
	return stats
}

// RunUntilStable makes passes until one succeeds nowhere or maxPasses passes
// were made. Passes after the first only visit simplices with a vertex that
// the previous pass touched.
func RunUntilStable(op operations.Operation, maxPasses int, optFns ...Option) Stats {
	opts := newOptions(op, optFns)
	var total Stats
	var touched *roaring64.Bitmap
	for i := 1; i <= maxPasses; i++ {
		stats, next := pass(op, opts, i, touched)
		total.add(stats)
		if stats.Succeeded == 0 {
			break
		}
		touched = next
	}
	return total
}

type entry struct {
	id       int64
	priority float64
}

// pass runs op once over the snapshot. When restrict is not nil only
// simplices with a vertex in it are visited. It returns the vertices touched
// by successful runs.
func pass(op operations.Operation, opts options, n int, restrict *roaring64.Bitmap) (Stats, *roaring64.Bitmap) {
	start := time.Now()
	m := op.Mesh()
	pt := op.PrimitiveType()

	var entries []entry
	for _, t := range m.GetAll(pt) {
		s := mesh.NewSimplex(pt, t)
		if restrict != nil && !touches(m, s, restrict) {
			continue
		}
		if opts.filter != nil && !opts.filter(s) {
			continue
		}
		e := entry{id: m.ID(t, pt)}
		if opts.priority != nil {
			e.priority = opts.priority(s)
		}
		entries = append(entries, e)
	}
	if opts.priority != nil {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].priority < entries[j].priority })
	}

	stats := Stats{Passes: 1}
	touched := roaring64.New()
	for _, e := range entries {
		if m.IsRemoved(pt, e.id) {
			stats.Skipped++
			continue
		}
		s := mesh.NewSimplex(pt, m.TupleFromID(pt, e.id))
		var consumed []int64
		for _, u := range op.UnmodifiedPrimitives(s) {
			consumed = append(consumed, mesh.VertexIDs(m, u)...)
		}

		stats.Executed++
		out := op.Run(s)
		if len(out) == 0 {
			stats.Failed++
			continue
		}
		stats.Succeeded++
		for _, v := range consumed {
			touched.Add(uint64(v))
		}
		for _, o := range out {
			star := mesh.ClosedStar(m, o)
			for _, v := range star.IDs(mesh.Vertex) {
				touched.Add(uint64(v))
			}
		}
	}
	stats.Duration = time.Since(start)

	opts.logger.LogPass(op.Name(), n, stats.Executed, stats.Succeeded)
	opts.metrics.RecordPass(op.Name(), stats.Executed, stats.Succeeded, stats.Duration)
	return stats, touched
}

func touches(m mesh.Mesh, s mesh.Simplex, set *roaring64.Bitmap) bool {
	for _, v := range mesh.VertexIDs(m, s) {
		if set.Contains(uint64(v)) {
			return true
		}
	}
	return false
}
