// Package perf collects request and query timings into a fixed ring so the
// admin perf endpoint can summarize recent latency without touching storage.
package perf

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultCapacity is the default ring capacity. At one request plus a handful
// of queries per page view this covers several hours of club-sized traffic.
const DefaultCapacity = 8192

// Sample is a single timing measurement.
type Sample struct {
	Route  string // matched route label, or the query op for database samples
	Query  bool   // true for database samples
	Status int    // HTTP status, 0 for database samples
	Millis float64
	At     time.Time
}

// Collector stores the most recent samples in a fixed-size ring. Add is
// non-blocking; once the ring is full the oldest sample is overwritten.
type Collector struct {
	mu    sync.Mutex
	ring  []Sample
	next  int
	total uint64 // atomic, samples ever added
}

// NewCollector returns a collector holding at most capacity samples.
// PRE: capacity > 0, otherwise DefaultCapacity is used
// POST: ring storage is pre-allocated
func NewCollector(capacity int) *Collector {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Collector{ring: make([]Sample, capacity)}
}

// Add records one sample, overwriting the oldest when the ring is full.
func (c *Collector) Add(s Sample) {
	c.mu.Lock()
	c.ring[c.next] = s
	c.next = (c.next + 1) % len(c.ring)
	c.mu.Unlock()
	atomic.AddUint64(&c.total, 1)
}

// Total returns the number of samples ever added, including overwritten ones.
func (c *Collector) Total() uint64 {
	return atomic.LoadUint64(&c.total)
}

// RouteStat aggregates the samples of one route or query op.
type RouteStat struct {
	Route   string  `json:"route"`
	Count   int     `json:"count"`
	TotalMs float64 `json:"totalMs"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
}

// Summary is the aggregated view served by the perf endpoint.
type Summary struct {
	Samples     uint64      `json:"samples"`
	P50Ms       float64     `json:"p50Ms"`
	P95Ms       float64     `json:"p95Ms"`
	P99Ms       float64     `json:"p99Ms"`
	SlowRoutes  []RouteStat `json:"slowRoutes"`
	SlowQueries []RouteStat `json:"slowQueries"`
}

// Summarize aggregates samples recorded at or after since. Percentiles cover
// request samples only; the slow lists hold at most limit entries each,
// ordered by average duration.
// PRE: none
// POST: returns a Summary; sorts, so call it from the perf endpoint only
func (c *Collector) Summarize(since time.Time, limit int) Summary {
	c.mu.Lock()
	window := make([]Sample, len(c.ring))
	copy(window, c.ring)
	c.mu.Unlock()

	var requestMillis []float64
	routes := make(map[string]*RouteStat)
	queries := make(map[string]*RouteStat)

	for _, s := range window {
		if s.At.IsZero() || s.At.Before(since) {
			continue
		}
		byRoute := routes
		if s.Query {
			byRoute = queries
		} else {
			requestMillis = append(requestMillis, s.Millis)
		}
		stat, ok := byRoute[s.Route]
		if !ok {
			stat = &RouteStat{Route: s.Route}
			byRoute[s.Route] = stat
		}
		stat.Count++
		stat.TotalMs += s.Millis
		if s.Millis > stat.MaxMs {
			stat.MaxMs = s.Millis
		}
	}

	summary := Summary{
		Samples:     c.Total(),
		SlowRoutes:  slowest(routes, limit),
		SlowQueries: slowest(queries, limit),
	}
	if len(requestMillis) > 0 {
		sort.Float64s(requestMillis)
		summary.P50Ms = percentile(requestMillis, 50)
		summary.P95Ms = percentile(requestMillis, 95)
		summary.P99Ms = percentile(requestMillis, 99)
	}
	return summary
}

// percentile returns the nearest-rank p-th percentile of a sorted slice.
func percentile(sorted []float64, p int) float64 {
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

// slowest flattens the stat map into the limit slowest entries by average.
func slowest(stats map[string]*RouteStat, limit int) []RouteStat {
	list := make([]RouteStat, 0, len(stats))
	for _, stat := range stats {
		stat.AvgMs = stat.TotalMs / float64(stat.Count)
		list = append(list, *stat)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs != list[j].AvgMs {
			return list[i].AvgMs > list[j].AvgMs
		}
		return list[i].Route < list[j].Route
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}
