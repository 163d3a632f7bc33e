package verdict

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/verdict/internal/logging"
	"github.com/aretw0/verdict/internal/runtime"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/motion"
	"github.com/aretw0/verdict/pkg/ports"
	"github.com/aretw0/verdict/pkg/registry"
)

// Editor is the high-level entry point for embedding a verdict list in a host UI.
// It owns one document, the input registry and the animation tracker.
//
// An Editor is single-threaded by contract: the host runs one user action at a time,
// including the BeginMutation/EndMutation pair around it. Multi-client hosts should use
// runtime.Engine through session.Manager instead.
type Editor struct {
	engine   *runtime.Engine
	state    *domain.State
	inputs   *registry.Registry
	renderer ports.Renderer
	tracker  *motion.Tracker

	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	sessionID    string
	strategy     domain.IDStrategy
	defaultTitle string
	sink         motion.Sink
	motionOpts   []motion.Option
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Editor) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the editor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithDefaultTitle sets the title used when the converted text has no non-blank line.
func WithDefaultTitle(title string) Option {
	return func(e *Editor) {
		e.defaultTitle = title
	}
}

// WithIDStrategy selects how node and item ids are minted.
func WithIDStrategy(strategy domain.IDStrategy) Option {
	return func(e *Editor) {
		e.strategy = strategy
	}
}

// WithSessionID labels the document in events and logs.
func WithSessionID(id string) Option {
	return func(e *Editor) {
		e.sessionID = id
	}
}

// WithRenderer attaches the host view. It is committed after every change and
// measured around classifications.
func WithRenderer(r ports.Renderer) Option {
	return func(e *Editor) {
		e.renderer = r
	}
}

// WithAnimationSink sets where item transitions are played.
func WithAnimationSink(sink motion.Sink) Option {
	return func(e *Editor) {
		e.sink = sink
	}
}

// WithMotionOptions tunes the tracker (threshold, duration, easing).
func WithMotionOptions(opts ...motion.Option) Option {
	return func(e *Editor) {
		e.motionOpts = append(e.motionOpts, opts...)
	}
}

// New creates an editor holding an empty document in the editing phase.
func New(opts ...Option) *Editor {
	e := &Editor{
		inputs:   registry.NewRegistry(),
		strategy: domain.IDStrategySequence,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.sessionID != "" {
		e.logger = e.logger.With("session_id", e.sessionID)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithLogger(e.logger),
	}
	if e.defaultTitle != "" {
		runtimeOpts = append(runtimeOpts, runtime.WithDefaultTitle(e.defaultTitle))
	}
	e.engine = runtime.NewEngine(runtimeOpts...)
	e.state = e.engine.NewState(e.sessionID, e.strategy)

	var source motion.PositionSource
	if e.renderer != nil {
		source = e.renderer
	}
	trackerOpts := append([]motion.Option{motion.WithLogger(e.logger)}, e.motionOpts...)
	e.tracker = motion.NewTracker(source, e.sink, trackerOpts...)

	return e
}

// InitialConvert turns the free-text buffer into the document. The selection offsets
// count characters. On ErrEmptySelection nothing changes.
func (e *Editor) InitialConvert(ctx context.Context, text string, start, end int) (*domain.State, error) {
	next, err := e.engine.InitialConvert(ctx, e.state, text, start, end)
	if err != nil {
		return e.state, err
	}
	return e.commit(ctx, next)
}

// ConvertFocused splits the text node behind input, whose current value is text.
// An empty input falls back to the focused input. When no input resolves to a text
// node it returns ErrNoFocusedInput and nothing changes.
func (e *Editor) ConvertFocused(ctx context.Context, input registry.InputID, text string, start, end int) (*domain.State, error) {
	var (
		nodeID domain.ID
		ok     bool
	)
	if input == "" {
		_, nodeID, ok = e.inputs.Focused()
	} else {
		nodeID, ok = e.inputs.Resolve(input)
	}
	if !ok {
		return e.reject(ctx, "convert_focused", fmt.Errorf("input %q: %w", input, domain.ErrNoFocusedInput))
	}

	next, err := e.engine.ConvertNode(ctx, e.state, nodeID, text, start, end)
	if err != nil {
		return e.state, err
	}
	return e.commit(ctx, next)
}

// MakeList is the toolbar action: it converts the buffer while editing and the
// focused text node afterwards.
func (e *Editor) MakeList(ctx context.Context, input registry.InputID, text string, start, end int) (*domain.State, error) {
	if e.state.Phase == domain.PhaseEditing {
		return e.InitialConvert(ctx, text, start, end)
	}
	return e.ConvertFocused(ctx, input, text, start, end)
}

// EditText stores a text node's new value. Unknown or group nodes are ignored with ErrNotFound.
func (e *Editor) EditText(ctx context.Context, nodeID domain.ID, text string) (*domain.State, error) {
	next, err := e.engine.EditText(ctx, e.state, nodeID, text)
	if err != nil {
		return e.state, err
	}
	return e.commit(ctx, next)
}

// Classify marks an item and reorders its group, animating every item that moved.
// It returns the transitions handed to the animation sink. On a renderer error the
// classification is kept but nothing is animated.
func (e *Editor) Classify(ctx context.Context, groupID, itemID domain.ID, requested domain.ItemState) ([]motion.Transition, error) {
	e.tracker.BeginMutation()

	next, err := e.engine.Classify(ctx, e.state, groupID, itemID, requested)
	if err != nil {
		e.tracker.Discard()
		return nil, err
	}
	if _, err := e.commit(ctx, next); err != nil {
		e.tracker.Discard()
		return nil, err
	}

	transitions := e.tracker.EndMutation()
	if e.hooks.OnAnimate != nil {
		for _, tr := range transitions {
			e.hooks.OnAnimate(ctx, &domain.AnimateEvent{
				EventBase: e.base(domain.EventAnimate),
				ElementID: tr.ElementID,
				Delta:     tr.From,
			})
		}
	}
	return transitions, nil
}

// BeginMutation snapshots item positions before a change the host drives itself.
func (e *Editor) BeginMutation() {
	e.tracker.BeginMutation()
}

// EndMutation measures the committed layout and plays the resulting transitions.
func (e *Editor) EndMutation() []motion.Transition {
	return e.tracker.EndMutation()
}

// State returns a copy of the current session.
func (e *Editor) State() *domain.State {
	return e.state.Clone()
}

// Document returns a copy of the current document.
func (e *Editor) Document() *domain.Document {
	return e.state.Document.Clone()
}

// Ratio returns the document-wide ratio, nil until every item is classified.
func (e *Editor) Ratio() *domain.Ratio {
	return e.state.Ratio()
}

// Title returns the title side channel.
func (e *Editor) Title() string {
	return e.state.Title
}

// Phase reports which conversion MakeList dispatches to.
func (e *Editor) Phase() domain.Phase {
	return e.state.Phase
}

// Inputs returns the registry the renderer reports input mounts and focus to.
func (e *Editor) Inputs() *registry.Registry {
	return e.inputs
}

// commit installs next, drops inputs whose node is gone and lets the renderer lay it out.
// The model is the source of truth: next stays installed even when the renderer fails,
// and the error only reports that the view is stale.
func (e *Editor) commit(ctx context.Context, next *domain.State) (*domain.State, error) {
	e.state = next
	e.inputs.Sync(next.Document)
	if e.renderer == nil {
		return next, nil
	}
	if err := e.renderer.Commit(ctx, next); err != nil {
		e.logger.ErrorContext(ctx, "renderer commit failed", "err", err)
		return next, fmt.Errorf("failed to commit render: %w", err)
	}
	return next, nil
}

func (e *Editor) reject(ctx context.Context, op string, err error) (*domain.State, error) {
	e.logger.DebugContext(ctx, "operation ignored", "op", op, "err", err)
	if e.hooks.OnReject != nil {
		e.hooks.OnReject(ctx, &domain.RejectEvent{
			EventBase: e.base(domain.EventReject),
			Op:        op,
			Err:       err,
		})
	}
	return e.state, err
}

func (e *Editor) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		SessionID: e.state.SessionID,
	}
}
