package motion

import (
	"time"

	"github.com/aretw0/verdict/pkg/domain"
)

// Positions maps an element to its vertical offset in renderer units (pixels, rows).
type Positions map[domain.ID]float64

// PositionSource reports the current vertical offset of every rendered item.
// Elements that are not rendered are simply absent.
type PositionSource interface {
	Positions() Positions
}

// PositionFunc adapts a function to PositionSource.
type PositionFunc func() Positions

// Positions implements PositionSource.
func (f PositionFunc) Positions() Positions { return f() }

// Sink plays transitions. Cancel must stop any in-flight transition for the element
// and leave it at its resting position; it is a no-op when nothing is running.
type Sink interface {
	Cancel(id domain.ID)
	Play(t Transition)
}

// Transition describes a displacement that decays from From to To.
// The element is drawn at (resting position + Offset(elapsed)).
type Transition struct {
	ElementID domain.ID     `json:"element_id"`
	From      float64       `json:"from"`
	To        float64       `json:"to"`
	Duration  time.Duration `json:"duration"`
	Easing    Easing        `json:"-"`
}

// Offset samples the displacement at elapsed time since the transition started.
func (t Transition) Offset(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return t.From
	}
	if t.Done(elapsed) {
		return t.To
	}
	easing := t.Easing
	if easing == nil {
		easing = Linear
	}
	p := float64(elapsed) / float64(t.Duration)
	return t.From + (t.To-t.From)*easing.Ease(p)
}

// Done reports whether the transition has settled at elapsed.
func (t Transition) Done(elapsed time.Duration) bool {
	return elapsed >= t.Duration
}
