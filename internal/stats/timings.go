// Package stats tracks per-stage analysis timings and exposes Prometheus
// metrics.
package stats

import (
	"math"
	"sort"
	"sync"
	"time"
)

// Stages recorded for every completed analysis job.
const (
	StageParse = "parse"
	StageRank  = "rank"
	StageTotal = "total"
)

// DefaultWindow is the number of recent samples kept per stage.
const DefaultWindow = 512

// StageSnapshot summarizes the samples currently held for one stage.
type StageSnapshot struct {
	Count  int     `json:"count"`
	MeanMs float64 `json:"mean_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
	MaxMs  float64 `json:"max_ms"`
}

// ring holds the most recent durations of one stage, overwriting the oldest.
type ring struct {
	buf  []time.Duration
	next int
}

func (r *ring) add(d time.Duration, size int) {
	if len(r.buf) < size {
		r.buf = append(r.buf, d)
		return
	}
	r.buf[r.next] = d
	r.next = (r.next + 1) % size
}

// Timings keeps a bounded window of durations per pipeline stage.
type Timings struct {
	mu     sync.Mutex
	window int
	stages map[string]*ring
}

// NewTimings keeps the last window samples of each stage. A non-positive
// window selects DefaultWindow.
func NewTimings(window int) *Timings {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Timings{window: window, stages: make(map[string]*ring)}
}

// Record adds a duration for stage. Negative durations count as zero.
func (t *Timings) Record(stage string, d time.Duration) {
	d = max(d, 0)

	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.stages[stage]
	if !ok {
		r = &ring{buf: make([]time.Duration, 0, t.window)}
		t.stages[stage] = r
	}
	r.add(d, t.window)
}

// Snapshot summarizes every stage that has samples, keyed by stage name.
func (t *Timings) Snapshot() map[string]StageSnapshot {
	t.mu.Lock()
	copies := make(map[string][]time.Duration, len(t.stages))
	for name, r := range t.stages {
		copies[name] = append([]time.Duration(nil), r.buf...)
	}
	t.mu.Unlock()

	out := make(map[string]StageSnapshot, len(copies))
	for name, ds := range copies {
		out[name] = summarize(ds)
	}
	return out
}

func summarize(ds []time.Duration) StageSnapshot {
	if len(ds) == 0 {
		return StageSnapshot{}
	}
	sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })

	var total time.Duration
	for _, d := range ds {
		total += d
	}
	return StageSnapshot{
		Count:  len(ds),
		MeanMs: ms(total) / float64(len(ds)),
		P50Ms:  ms(nearestRank(ds, 50)),
		P95Ms:  ms(nearestRank(ds, 95)),
		P99Ms:  ms(nearestRank(ds, 99)),
		MaxMs:  ms(ds[len(ds)-1]),
	}
}

// nearestRank returns the smallest sample with at least pct percent of the
// samples at or below it.
func nearestRank(sorted []time.Duration, pct float64) time.Duration {
	idx := int(math.Ceil(pct/100*float64(len(sorted)))) - 1
	return sorted[min(max(idx, 0), len(sorted)-1)]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
