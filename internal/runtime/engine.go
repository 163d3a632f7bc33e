package runtime

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/verdict/internal/logging"
	"github.com/aretw0/verdict/pkg/domain"
)

// Engine applies conversions, edits and classifications to session states.
// It is stateless: every operation takes a state and returns the next one,
// leaving the input untouched. On an absorbed failure (see domain.IsNoop)
// the input state is returned together with the error.
type Engine struct {
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	defaultTitle string
	now          func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithDefaultTitle overrides the title used when the converted text has no non-blank line.
func WithDefaultTitle(title string) EngineOption {
	return func(e *Engine) {
		if title != "" {
			e.defaultTitle = title
		}
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:       logging.NewNop(),
		defaultTitle: domain.DefaultTitle,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewState starts a session in the editing phase titled with the engine's default title.
func (e *Engine) NewState(sessionID string, strategy domain.IDStrategy) *domain.State {
	st := domain.NewState(sessionID, strategy)
	st.Title = e.defaultTitle
	return st
}

// EditText replaces a text node's text verbatim.
func (e *Engine) EditText(ctx context.Context, state *domain.State, nodeID domain.ID, text string) (*domain.State, error) {
	next := state.Clone()
	if err := next.Document.SetText(nodeID, text); err != nil {
		return e.reject(ctx, state, "edit_text", err)
	}

	if e.hooks.OnEditText != nil {
		e.hooks.OnEditText(ctx, &domain.EditEvent{
			EventBase: e.base(domain.EventEditText, state),
			NodeID:    nodeID,
		})
	}
	return next, nil
}

// DeriveTitle returns the first non-blank line of text, trimmed, or fallback.
func DeriveTitle(text, fallback string) string {
	for _, line := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return fallback
}

func (e *Engine) base(t domain.EventType, state *domain.State) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      t,
		SessionID: state.SessionID,
	}
}

// reject reports an absorbed failure and hands the caller's state back unchanged.
func (e *Engine) reject(ctx context.Context, state *domain.State, op string, err error) (*domain.State, error) {
	e.logger.DebugContext(ctx, "operation ignored", "op", op, "session_id", state.SessionID, "err", err)
	if e.hooks.OnReject != nil {
		e.hooks.OnReject(ctx, &domain.RejectEvent{
			EventBase: e.base(domain.EventReject, state),
			Op:        op,
			Err:       err,
		})
	}
	return state, err
}
