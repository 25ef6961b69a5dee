package metrics

import (
	"sync/atomic"
	"time"
)

type Event string

const (
	EventUpload    Event = "upload"
	EventDuplicate Event = "duplicate"
	EventRejected  Event = "rejected"
	EventFinalized Event = "finalized"
	EventCancelled Event = "cancelled"
)

// Collector is safe to use as a nil pointer; every method is then a no-op.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	totalDurationMs uint64

	uploads    uint64
	duplicates uint64
	rejected   uint64
	finalized  uint64
	cancelled  uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) Count(event Event) {
	if c == nil {
		return
	}
	switch event {
	case EventUpload:
		atomic.AddUint64(&c.uploads, 1)
	case EventDuplicate:
		atomic.AddUint64(&c.duplicates, 1)
	case EventRejected:
		atomic.AddUint64(&c.rejected, 1)
	case EventFinalized:
		atomic.AddUint64(&c.finalized, 1)
	case EventCancelled:
		atomic.AddUint64(&c.cancelled, 1)
	}
}

func (c *Collector) Snapshot() map[string]any {
	if c == nil {
		return map[string]any{}
	}
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":   total,
		"errorsTotal":     errs,
		"avgDurationMs":   avg,
		"totalDurationMs": totalMs,
		"uploadsTotal":    atomic.LoadUint64(&c.uploads),
		"duplicatesTotal": atomic.LoadUint64(&c.duplicates),
		"rejectedTotal":   atomic.LoadUint64(&c.rejected),
		"finalizedTotal":  atomic.LoadUint64(&c.finalized),
		"cancelledTotal":  atomic.LoadUint64(&c.cancelled),
	}
}
