package motion_test

import (
	"testing"
	"time"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/motion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLayout struct {
	pos motion.Positions
}

func (f *fakeLayout) Positions() motion.Positions { return f.pos }

type recordingSink struct {
	calls []string
	plays []motion.Transition
}

func (s *recordingSink) Cancel(id domain.ID) { s.calls = append(s.calls, "cancel:"+string(id)) }

func (s *recordingSink) Play(t motion.Transition) {
	s.calls = append(s.calls, "play:"+string(t.ElementID))
	s.plays = append(s.plays, t)
}

func TestTracker_EmitsDeltas(t *testing.T) {
	layout := &fakeLayout{pos: motion.Positions{"a": 0, "b": 20, "c": 40}}
	sink := &recordingSink{}
	tracker := motion.NewTracker(layout, sink)

	tracker.BeginMutation()
	assert.True(t, tracker.Pending())

	// c moved to the top, a and b shifted down.
	layout.pos = motion.Positions{"c": 0, "a": 20, "b": 40}
	out := tracker.EndMutation()

	require.Len(t, out, 3)
	assert.Equal(t, domain.ID("c"), out[0].ElementID)
	assert.Equal(t, 40.0, out[0].From)
	assert.Equal(t, 0.0, out[0].To)
	assert.Equal(t, -20.0, out[1].From)
	assert.Equal(t, -20.0, out[2].From)
	assert.Equal(t, motion.DefaultDuration, out[0].Duration)
	assert.Equal(t, motion.Overshoot, out[0].Easing)

	assert.Equal(t, []string{"cancel:c", "play:c", "cancel:a", "play:a", "cancel:b", "play:b"}, sink.calls)
	assert.False(t, tracker.Pending())
}

func TestTracker_Threshold(t *testing.T) {
	layout := &fakeLayout{pos: motion.Positions{"a": 10, "b": 30}}
	sink := &recordingSink{}
	tracker := motion.NewTracker(layout, sink)

	tracker.BeginMutation()
	layout.pos = motion.Positions{"a": 10.4, "b": 30.5}
	out := tracker.EndMutation()

	require.Len(t, out, 1)
	assert.Equal(t, domain.ID("b"), out[0].ElementID)
	assert.InDelta(t, -0.5, out[0].From, 1e-9)
}

func TestTracker_SkipsElementsOutsideSnapshot(t *testing.T) {
	layout := &fakeLayout{pos: motion.Positions{"a": 0, "gone": 20}}
	tracker := motion.NewTracker(layout, nil)

	tracker.BeginMutation()
	layout.pos = motion.Positions{"a": 20, "new": 0}
	out := tracker.EndMutation()

	require.Len(t, out, 1)
	assert.Equal(t, domain.ID("a"), out[0].ElementID)
}

func TestTracker_SnapshotIsSingleUse(t *testing.T) {
	layout := &fakeLayout{pos: motion.Positions{"a": 0, "b": 20}}
	sink := &recordingSink{}
	tracker := motion.NewTracker(layout, sink)

	assert.Nil(t, tracker.EndMutation(), "no snapshot, no-op")

	tracker.BeginMutation()
	layout.pos = motion.Positions{"a": 20, "b": 0}
	assert.Len(t, tracker.EndMutation(), 2)

	layout.pos = motion.Positions{"a": 0, "b": 20}
	assert.Nil(t, tracker.EndMutation())
	assert.Len(t, sink.plays, 2)
}

func TestTracker_SnapshotIsACopy(t *testing.T) {
	pos := motion.Positions{"a": 0}
	tracker := motion.NewTracker(motion.PositionFunc(func() motion.Positions { return pos }), nil)

	tracker.BeginMutation()
	pos["a"] = 30
	out := tracker.EndMutation()

	require.Len(t, out, 1)
	assert.Equal(t, -30.0, out[0].From)
}

func TestTracker_Discard(t *testing.T) {
	layout := &fakeLayout{pos: motion.Positions{"a": 0}}
	tracker := motion.NewTracker(layout, nil)

	tracker.BeginMutation()
	tracker.Discard()
	layout.pos = motion.Positions{"a": 50}
	assert.Nil(t, tracker.EndMutation())
}

func TestTracker_Options(t *testing.T) {
	layout := &fakeLayout{pos: motion.Positions{"a": 0}}
	var observed []motion.Transition
	tracker := motion.NewTracker(layout, nil,
		motion.WithThreshold(5),
		motion.WithDuration(time.Second),
		motion.WithEasing(motion.Linear),
		motion.WithObserver(func(tr motion.Transition) { observed = append(observed, tr) }),
	)

	tracker.BeginMutation()
	layout.pos = motion.Positions{"a": 4}
	assert.Empty(t, tracker.EndMutation())

	tracker.BeginMutation()
	layout.pos = motion.Positions{"a": 10}
	out := tracker.EndMutation()
	require.Len(t, out, 1)
	assert.Equal(t, time.Second, out[0].Duration)
	require.Len(t, observed, 1)
	assert.Equal(t, out[0].ElementID, observed[0].ElementID)
	assert.Equal(t, out[0].From, observed[0].From)
}

func TestTransition_Offset(t *testing.T) {
	tr := motion.Transition{ElementID: "a", From: 40, To: 0, Duration: 400 * time.Millisecond, Easing: motion.Linear}

	assert.Equal(t, 40.0, tr.Offset(0))
	assert.Equal(t, 20.0, tr.Offset(200*time.Millisecond))
	assert.Equal(t, 0.0, tr.Offset(400*time.Millisecond))
	assert.Equal(t, 0.0, tr.Offset(time.Hour))
	assert.True(t, tr.Done(400*time.Millisecond))
	assert.False(t, tr.Done(399*time.Millisecond))

	tr.Easing = motion.Overshoot
	assert.Less(t, tr.Offset(340*time.Millisecond), 0.0, "overshoot passes the resting position")
}
