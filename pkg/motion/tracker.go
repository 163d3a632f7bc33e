package motion

import (
	"log/slog"
	"math"
	"sort"
	"time"
)

const (
	// DefaultThreshold is the smallest displacement worth animating.
	DefaultThreshold = 0.5
	// DefaultDuration is how long a displaced element takes to settle.
	DefaultDuration = 420 * time.Millisecond
)

// Tracker runs the snapshot/measure protocol for one renderer.
// It is not safe for concurrent use; callers serialize actions per document.
type Tracker struct {
	source    PositionSource
	sink      Sink
	threshold float64
	duration  time.Duration
	easing    Easing
	logger    *slog.Logger
	observer  func(Transition)

	snapshot Positions
	pending  bool
}

// Option configures the Tracker.
type Option func(*Tracker)

// WithThreshold overrides the minimum displacement (absolute) that triggers a transition.
func WithThreshold(threshold float64) Option {
	return func(t *Tracker) {
		if threshold >= 0 {
			t.threshold = threshold
		}
	}
}

// WithDuration overrides the transition duration.
func WithDuration(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.duration = d
		}
	}
}

// WithEasing overrides the easing curve.
func WithEasing(e Easing) Option {
	return func(t *Tracker) {
		if e != nil {
			t.easing = e
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithObserver registers a callback invoked for every emitted transition.
func WithObserver(fn func(Transition)) Option {
	return func(t *Tracker) {
		t.observer = fn
	}
}

// NewTracker creates a tracker reading positions from source and playing on sink.
// A nil sink is allowed: EndMutation still returns the transitions.
func NewTracker(source PositionSource, sink Sink, opts ...Option) *Tracker {
	t := &Tracker{
		source:    source,
		sink:      sink,
		threshold: DefaultThreshold,
		duration:  DefaultDuration,
		easing:    Overshoot,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// BeginMutation snapshots the current positions. It must run before the document
// changes. A second call replaces an unconsumed snapshot.
func (t *Tracker) BeginMutation() {
	t.snapshot = t.measure()
	t.pending = true
}

// Pending reports whether a snapshot is waiting for EndMutation.
func (t *Tracker) Pending() bool {
	return t.pending
}

// Discard drops the pending snapshot, used when the mutation did not happen.
func (t *Tracker) Discard() {
	t.snapshot = nil
	t.pending = false
}

// EndMutation measures the committed layout and plays a transition for every element
// that moved. The snapshot is consumed; without one this is a no-op returning nil.
// Transitions are returned top to bottom by resting position.
func (t *Tracker) EndMutation() []Transition {
	if !t.pending {
		return nil
	}
	before := t.snapshot
	t.Discard()

	after := t.measure()
	var out []Transition
	for id, pos := range after {
		prev, ok := before[id]
		if !ok {
			continue
		}
		delta := prev - pos
		if math.Abs(delta) < t.threshold || delta == 0 {
			continue
		}
		out = append(out, Transition{
			ElementID: id,
			From:      delta,
			To:        0,
			Duration:  t.duration,
			Easing:    t.easing,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := after[out[i].ElementID], after[out[j].ElementID]
		if pi != pj {
			return pi < pj
		}
		return out[i].ElementID < out[j].ElementID
	})

	for _, tr := range out {
		if t.sink != nil {
			t.sink.Cancel(tr.ElementID)
			t.sink.Play(tr)
		}
		if t.observer != nil {
			t.observer(tr)
		}
	}
	if len(out) > 0 {
		t.logger.Debug("transitions emitted", "count", len(out), "tracked", len(after))
	}
	return out
}

func (t *Tracker) measure() Positions {
	if t.source == nil {
		return Positions{}
	}
	src := t.source.Positions()
	snap := make(Positions, len(src))
	for id, pos := range src {
		snap[id] = pos
	}
	return snap
}
