package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/verdict/pkg/domain"
)

// Chain merges hook sets; each callback runs the non-nil callbacks in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnConvert = chain(out.OnConvert, h.OnConvert)
		out.OnEditText = chain(out.OnEditText, h.OnEditText)
		out.OnClassify = chain(out.OnClassify, h.OnClassify)
		out.OnAnimate = chain(out.OnAnimate, h.OnAnimate)
		out.OnReject = chain(out.OnReject, h.OnReject)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

// LoggingHooks logs every lifecycle event. Rejections are logged at Debug since
// they are expected user outcomes, not failures.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnConvert: func(ctx context.Context, e *domain.ConvertEvent) {
			logger.InfoContext(ctx, "converted",
				"session_id", e.SessionID,
				"initial", e.Initial,
				"group_id", e.GroupID,
				"lines", e.Lines,
			)
		},
		OnEditText: func(ctx context.Context, e *domain.EditEvent) {
			logger.DebugContext(ctx, "text edited", "session_id", e.SessionID, "node_id", e.NodeID)
		},
		OnClassify: func(ctx context.Context, e *domain.ClassifyEvent) {
			attrs := []any{
				"session_id", e.SessionID,
				"item_id", e.ItemID,
				"from", e.From,
				"to", e.To,
			}
			if e.Ratio != nil {
				attrs = append(attrs, "succeeded_pct", e.Ratio.SucceededPct, "failed_pct", e.Ratio.FailedPct)
			}
			logger.InfoContext(ctx, "classified", attrs...)
		},
		OnAnimate: func(ctx context.Context, e *domain.AnimateEvent) {
			logger.DebugContext(ctx, "animating", "element_id", e.ElementID, "delta", e.Delta)
		},
		OnReject: func(ctx context.Context, e *domain.RejectEvent) {
			logger.DebugContext(ctx, "rejected", "session_id", e.SessionID, "op", e.Op, "reason", Reason(e.Err))
		},
	}
}

// Reason maps an absorbed error to a short, bounded label.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, domain.ErrEmptySelection):
		return "empty_selection"
	case errors.Is(err, domain.ErrNoFocusedInput):
		return "no_focused_input"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	}
	return "other"
}
