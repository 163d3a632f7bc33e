package tui

import (
	"sort"
	"sync"
	"time"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/motion"
)

type running struct {
	transition motion.Transition
	started    time.Time
}

// Animator is a software motion.Sink. Frame loops sample Offset for each element
// and add it to the element's resting position.
type Animator struct {
	mu     sync.Mutex
	now    func() time.Time
	active map[domain.ID]running
}

// AnimatorOption configures the Animator.
type AnimatorOption func(*Animator)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) AnimatorOption {
	return func(a *Animator) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAnimator creates an idle animator.
func NewAnimator(opts ...AnimatorOption) *Animator {
	a := &Animator{
		now:    time.Now,
		active: make(map[domain.ID]running),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Cancel stops the element's transition, snapping it to its resting position.
func (a *Animator) Cancel(id domain.ID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.active, id)
}

// Play starts a transition, replacing any running one for the same element.
func (a *Animator) Play(t motion.Transition) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active[t.ElementID] = running{transition: t, started: a.now()}
}

// Offset returns the element's current displacement; zero when idle.
// Finished transitions are dropped.
func (a *Animator) Offset(id domain.ID) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	r, ok := a.active[id]
	if !ok {
		return 0
	}
	elapsed := a.now().Sub(r.started)
	if r.transition.Done(elapsed) {
		delete(a.active, id)
		return r.transition.To
	}
	return r.transition.Offset(elapsed)
}

// Active lists animating elements, pruning finished ones.
func (a *Animator) Active() []domain.ID {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now()
	out := make([]domain.ID, 0, len(a.active))
	for id, r := range a.active {
		if r.transition.Done(now.Sub(r.started)) {
			delete(a.active, id)
			continue
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Idle reports whether no transition is running.
func (a *Animator) Idle() bool {
	return len(a.Active()) == 0
}
