package analyzer

import (
	"context"
	"sync/atomic"
)

// ProgressFunc receives progress updates: current files done out of total,
// and the file that just finished.
type ProgressFunc func(current, total int, path string)

// Tracker counts finished files and forwards each step to a ProgressFunc.
// Tick may be called from many goroutines.
type Tracker struct {
	total    atomic.Int64
	done     atomic.Int64
	callback ProgressFunc
}

// NewTracker returns a tracker reporting to fn. A nil fn only counts.
func NewTracker(fn ProgressFunc) *Tracker {
	return &Tracker{callback: fn}
}

// SetTotal records how many files the run will visit.
func (t *Tracker) SetTotal(n int) {
	t.total.Store(int64(n))
}

// Tick marks path as finished.
func (t *Tracker) Tick(path string) {
	done := t.done.Add(1)
	if t.callback != nil {
		t.callback(int(done), int(t.total.Load()), path)
	}
}

// Current returns how many files have finished.
func (t *Tracker) Current() int { return int(t.done.Load()) }

// Total returns the expected file count.
func (t *Tracker) Total() int { return int(t.total.Load()) }

type trackerKey struct{}

// WithTracker attaches t to ctx for the analyzer to report into.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext returns the tracker attached to ctx, or nil.
func TrackerFromContext(ctx context.Context) *Tracker {
	t, _ := ctx.Value(trackerKey{}).(*Tracker)
	return t
}
