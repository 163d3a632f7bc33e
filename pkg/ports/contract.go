package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID, domain.IDStrategySequence)
		doc := state.Document
		doc.Nodes = []domain.Node{doc.NewTextNode("intro"), doc.NewGroupNode([]string{"a", "b"})}
		doc.Nodes[1].Items[0].State = domain.StateSuccess
		state.Phase = domain.PhaseDocument
		state.Title = "intro"

		require.NoError(t, store.Save(ctx, sessionID, state), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.Phase, loaded.Phase)
		assert.Equal(t, state.Title, loaded.Title)
		assert.Equal(t, state.Document.Nodes, loaded.Document.Nodes)
		assert.Equal(t, state.Document.Counter, loaded.Document.Counter, "id counter must survive so ids are never reused")
	})

	t.Run("Stored State Is Isolated", func(t *testing.T) {
		state := domain.NewState(sessionID, domain.IDStrategySequence)
		state.Document.Nodes = []domain.Node{state.Document.NewGroupNode([]string{"a"})}
		require.NoError(t, store.Save(ctx, sessionID, state))

		state.Document.Nodes[0].Items[0].Text = "mutated after save"

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "a", loaded.Document.Nodes[0].Items[0].Text)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, domain.IDStrategySequence))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1, domain.IDStrategySequence))
		_ = store.Save(ctx, id2, domain.NewState(id2, domain.IDStrategyUUID))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
