package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/verdict/pkg/domain"
)

// Reorder applies a classification to the item itemID and returns the group's new
// item sequence. It returns false when the item is not in items.
//
// The item is removed and reinserted with its new state:
//   - success goes right after the last remaining success (front if none),
//   - failure goes right before the first remaining failure (back if none),
//   - neutral (toggle-off) goes to the edge of the neutral zone it came from:
//     after the last success when it was a success, before the first failure
//     when it was a failure.
//
// The result is always [successes in mark order][neutrals][failures, newest first].
func Reorder(items []domain.Item, itemID domain.ID, requested domain.ItemState) ([]domain.Item, bool) {
	pos := -1
	for i, it := range items {
		if it.ID == itemID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return items, false
	}

	updated := items[pos]
	previous := updated.State
	updated.State = previous.Apply(requested)

	rest := make([]domain.Item, 0, len(items))
	rest = append(rest, items[:pos]...)
	rest = append(rest, items[pos+1:]...)

	zone := updated.State
	if zone == domain.StateNeutral {
		zone = previous
	}

	var at int
	switch zone {
	case domain.StateSuccess:
		at = lastIndex(rest, domain.StateSuccess) + 1
	case domain.StateFailure:
		at = firstIndex(rest, domain.StateFailure)
		if at < 0 {
			at = len(rest)
		}
	default:
		at = pos
	}

	out := make([]domain.Item, 0, len(items))
	out = append(out, rest[:at]...)
	out = append(out, updated)
	out = append(out, rest[at:]...)
	return out, true
}

func lastIndex(items []domain.Item, s domain.ItemState) int {
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].State == s {
			return i
		}
	}
	return -1
}

func firstIndex(items []domain.Item, s domain.ItemState) int {
	for i, it := range items {
		if it.State == s {
			return i
		}
	}
	return -1
}

// Classify marks an item as success or failure (or back to neutral when the item
// already has the requested state) and reorders its group.
func (e *Engine) Classify(ctx context.Context, state *domain.State, groupID, itemID domain.ID, requested domain.ItemState) (*domain.State, error) {
	if !requested.Requestable() {
		return e.reject(ctx, state, "classify", fmt.Errorf("%w: %q", domain.ErrInvalidState, requested))
	}

	group, ok := state.Document.Group(groupID)
	if !ok {
		return e.reject(ctx, state, "classify", fmt.Errorf("group %s: %w", groupID, domain.ErrNotFound))
	}
	idx := group.ItemIndex(itemID)
	if idx < 0 {
		return e.reject(ctx, state, "classify", fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound))
	}
	from := group.Items[idx].State

	items, _ := Reorder(group.Items, itemID, requested)

	next := state.Clone()
	if err := next.Document.SetItems(groupID, items); err != nil {
		return e.reject(ctx, state, "classify", err)
	}

	ratio := next.Document.Ratio()
	to := from.Apply(requested)
	e.logger.DebugContext(ctx, "item classified",
		"session_id", state.SessionID,
		"group_id", groupID,
		"item_id", itemID,
		"from", from,
		"to", to,
	)
	if e.hooks.OnClassify != nil {
		e.hooks.OnClassify(ctx, &domain.ClassifyEvent{
			EventBase: e.base(domain.EventClassify, state),
			GroupID:   groupID,
			ItemID:    itemID,
			From:      from,
			To:        to,
			Ratio:     ratio,
		})
	}
	return next, nil
}
