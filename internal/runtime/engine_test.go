package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/verdict/internal/runtime"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_EditText(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine()
	st, err := engine.InitialConvert(ctx, domain.NewState("s", domain.IDStrategySequence), "a\nnotes", 0, 0)
	require.NoError(t, err)
	text := st.Document.Nodes[1]
	require.True(t, text.IsText())

	next, err := engine.EditText(ctx, st, text.ID, "  rewritten\n\nverbatim  ")
	require.NoError(t, err)
	got, _ := next.Document.Node(text.ID)
	assert.Equal(t, "  rewritten\n\nverbatim  ", got.Text)
	assert.Equal(t, 3, got.LineCount())

	orig, _ := st.Document.Node(text.ID)
	assert.Equal(t, "notes", orig.Text, "input state is untouched")
}

func TestEngine_EditTextRejectsGroups(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine()
	st, err := engine.InitialConvert(ctx, domain.NewState("s", domain.IDStrategySequence), "a", 0, 0)
	require.NoError(t, err)

	next, err := engine.EditText(ctx, st, st.Document.Nodes[0].ID, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Same(t, st, next)

	next, err = engine.EditText(ctx, st, "missing", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Same(t, st, next)
}

func TestEngine_Hooks(t *testing.T) {
	ctx := context.Background()
	var (
		converts  []*domain.ConvertEvent
		edits     []*domain.EditEvent
		classifys []*domain.ClassifyEvent
		rejects   []*domain.RejectEvent
	)
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnConvert:  func(_ context.Context, e *domain.ConvertEvent) { converts = append(converts, e) },
		OnEditText: func(_ context.Context, e *domain.EditEvent) { edits = append(edits, e) },
		OnClassify: func(_ context.Context, e *domain.ClassifyEvent) { classifys = append(classifys, e) },
		OnReject:   func(_ context.Context, e *domain.RejectEvent) { rejects = append(rejects, e) },
	}))

	st, err := engine.InitialConvert(ctx, domain.NewState("sess", domain.IDStrategySequence), "one\ntwo\nrest", 0, 4)
	require.NoError(t, err)
	require.Len(t, converts, 1)
	assert.True(t, converts[0].Initial)
	assert.Equal(t, 2, converts[0].Lines)
	assert.Equal(t, "sess", converts[0].SessionID)
	assert.Equal(t, st.Document.Nodes[0].ID, converts[0].GroupID)

	rest := st.Document.Nodes[1]
	st, err = engine.EditText(ctx, st, rest.ID, "rest\nmore")
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, rest.ID, edits[0].NodeID)

	st, err = engine.ConvertNode(ctx, st, rest.ID, "rest\nmore", 5, 5)
	require.NoError(t, err)
	require.Len(t, converts, 2)
	assert.False(t, converts[1].Initial)
	assert.Equal(t, rest.ID, converts[1].SourceNodeID)
	assert.Equal(t, 1, converts[1].Lines)

	group := st.Document.Nodes[0]
	_, err = engine.Classify(ctx, st, group.ID, group.Items[0].ID, domain.StateSuccess)
	require.NoError(t, err)
	require.Len(t, classifys, 1)
	assert.Equal(t, domain.StateNeutral, classifys[0].From)
	assert.Equal(t, domain.StateSuccess, classifys[0].To)
	assert.Nil(t, classifys[0].Ratio)

	_, err = engine.Classify(ctx, st, "missing", "x", domain.StateFailure)
	require.Error(t, err)
	require.Len(t, rejects, 1)
	assert.Equal(t, "classify", rejects[0].Op)
	assert.ErrorIs(t, rejects[0].Err, domain.ErrNotFound)
}

func TestDeriveTitle(t *testing.T) {
	assert.Equal(t, "Groceries", runtime.DeriveTitle("\n  \n  Groceries \nmilk", domain.DefaultTitle))
	assert.Equal(t, domain.DefaultTitle, runtime.DeriveTitle(" \n\t", domain.DefaultTitle))
	assert.Equal(t, "x", runtime.DeriveTitle("", "x"))
}

func TestEngine_DefaultTitleOption(t *testing.T) {
	engine := runtime.NewEngine(runtime.WithDefaultTitle("Checklist"))
	st := engine.NewState("s", domain.IDStrategyUUID)
	assert.Equal(t, "Checklist", st.Title)
	assert.Equal(t, domain.PhaseEditing, st.Phase)

	st, err := engine.InitialConvert(context.Background(), st, "\n\nitem", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, "item", st.Title)
	assert.Equal(t, domain.PhaseDocument, st.Phase)
}
