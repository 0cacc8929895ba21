package operations

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives the outcome of every operation run and every
// scheduler pass.
type MetricsCollector interface {
	// RecordOperation is called after each run. rolledBack is true when the
	// edit was executed and then discarded.
	RecordOperation(name string, applied, rolledBack bool, duration time.Duration)

	// RecordPass is called after each scheduler pass.
	RecordPass(name string, executed, succeeded int, duration time.Duration)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOperation(string, bool, bool, time.Duration) {}
func (NoopMetricsCollector) RecordPass(string, int, int, time.Duration)        {}

// BasicMetricsCollector keeps in-memory counters.
type BasicMetricsCollector struct {
	Attempts       atomic.Int64
	Applied        atomic.Int64
	Rejected       atomic.Int64
	RolledBack     atomic.Int64
	TotalNanos     atomic.Int64
	Passes         atomic.Int64
	PassExecuted   atomic.Int64
	PassSucceeded  atomic.Int64
	PassTotalNanos atomic.Int64
}

// RecordOperation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOperation(_ string, applied, rolledBack bool, duration time.Duration) {
	b.Attempts.Add(1)
	b.TotalNanos.Add(duration.Nanoseconds())
	switch {
	case applied:
		b.Applied.Add(1)
	case rolledBack:
		b.RolledBack.Add(1)
	default:
		b.Rejected.Add(1)
	}
}

// RecordPass implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPass(_ string, executed, succeeded int, duration time.Duration) {
	b.Passes.Add(1)
	b.PassExecuted.Add(int64(executed))
	b.PassSucceeded.Add(int64(succeeded))
	b.PassTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		Attempts:      b.Attempts.Load(),
		Applied:       b.Applied.Load(),
		Rejected:      b.Rejected.Load(),
		RolledBack:    b.RolledBack.Load(),
		AvgNanos:      avg(b.TotalNanos.Load(), b.Attempts.Load()),
		Passes:        b.Passes.Load(),
		PassExecuted:  b.PassExecuted.Load(),
		PassSucceeded: b.PassSucceeded.Load(),
		PassAvgNanos:  avg(b.PassTotalNanos.Load(), b.Passes.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	Attempts      int64
	Applied       int64
	Rejected      int64
	RolledBack    int64
	AvgNanos      int64
	Passes        int64
	PassExecuted  int64
	PassSucceeded int64
	PassAvgNanos  int64
}
