package ports

import (
	"context"

	"github.com/aretw0/verdict/pkg/domain"
)

// DocumentEngine defines the stateless core used by adapters that keep session state externally.
// Every method returns the next state; on a no-op error the input state is returned unchanged.
type DocumentEngine interface {
	// NewState starts a session in the editing phase.
	NewState(sessionID string, strategy domain.IDStrategy) *domain.State

	// InitialConvert turns the free-text buffer into the document.
	InitialConvert(ctx context.Context, state *domain.State, text string, start, end int) (*domain.State, error)

	// ConvertNode splits an existing text node around the selection.
	ConvertNode(ctx context.Context, state *domain.State, nodeID domain.ID, text string, start, end int) (*domain.State, error)

	// EditText stores a text node's new value.
	EditText(ctx context.Context, state *domain.State, nodeID domain.ID, text string) (*domain.State, error)

	// Classify marks an item and reorders its group.
	Classify(ctx context.Context, state *domain.State, groupID, itemID domain.ID, requested domain.ItemState) (*domain.State, error)
}
