package domain

import "fmt"

// ItemState is the classification of a single item.
type ItemState string

const (
	StateNeutral ItemState = "neutral" // Initial state
	StateSuccess ItemState = "success"
	StateFailure ItemState = "failure"
)

// ParseItemState converts user input into an ItemState.
func ParseItemState(s string) (ItemState, error) {
	switch ItemState(s) {
	case StateNeutral, StateSuccess, StateFailure:
		return ItemState(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidState, s)
}

// Requestable reports whether s may be requested by a classification.
// Neutral is only ever reached by toggling off.
func (s ItemState) Requestable() bool {
	return s == StateSuccess || s == StateFailure
}

// Apply returns the state an item moves to when requested is asked for.
// Requesting the current state toggles back to neutral.
func (s ItemState) Apply(requested ItemState) ItemState {
	if s == requested {
		return StateNeutral
	}
	return requested
}

// Phase tracks whether the session is still in the free-text buffer or already structured.
type Phase string

const (
	PhaseEditing  Phase = "editing"
	PhaseDocument Phase = "document"
)

// DefaultTitle is surfaced when the converted text has no non-blank line.
const DefaultTitle = "Verdict List"

// State represents the current snapshot of an editing session.
type State struct {
	// SessionID identifies the session in stores and streams.
	SessionID string `json:"session_id"`

	// Phase indicates which conversion "Make List" dispatches to.
	Phase Phase `json:"phase"`

	// Title is a side channel for the host (window or page title). It is not part of the document.
	Title string `json:"title"`

	// Document is the ordered node model.
	Document *Document `json:"document"`
}

// NewState creates a clean session in the editing phase.
func NewState(sessionID string, strategy IDStrategy) *State {
	return &State{
		SessionID: sessionID,
		Phase:     PhaseEditing,
		Title:     DefaultTitle,
		Document:  NewDocument(strategy),
	}
}

// Clone returns a deep copy so engines can mutate without touching the caller's snapshot.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Document = s.Document.Clone()
	return &out
}

// Ratio is a convenience for s.Document.Ratio().
func (s *State) Ratio() *Ratio {
	if s == nil || s.Document == nil {
		return nil
	}
	return s.Document.Ratio()
}
