package runtime_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/verdict/internal/runtime"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fruit = "keep this\nApple\nBanana\nCherry\nrest here"

func TestSplitSelection_LineBoundary(t *testing.T) {
	apple := strings.Index(fruit, "Apple")
	cherry := strings.Index(fruit, "Cherry")

	tests := []struct {
		name       string
		start, end int
	}{
		{name: "exact lines", start: apple, end: cherry + len("Cherry")},
		{name: "mid word to mid word", start: apple + 2, end: cherry + 3},
		{name: "caret at line starts", start: apple, end: cherry},
		{name: "reversed selection", start: cherry + 1, end: apple + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split, err := runtime.SplitSelection(fruit, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, "keep this", split.Before)
			assert.Equal(t, []string{"Apple", "Banana", "Cherry"}, split.Lines)
			assert.Equal(t, "rest here", split.After)
		})
	}
}

func TestSplitSelection_Edges(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		start, end int
		want       domain.Split
	}{
		{
			name: "whole text",
			text: "a\nb", start: 0, end: 3,
			want: domain.Split{Lines: []string{"a", "b"}},
		},
		{
			name: "caret only selects its line",
			text: "a\nb\nc", start: 2, end: 2,
			want: domain.Split{Before: "a", Lines: []string{"b"}, After: "c"},
		},
		{
			name: "lines are trimmed and blanks dropped",
			text: "  one  \n\n\t two\n", start: 0, end: 14,
			want: domain.Split{Lines: []string{"one", "two"}},
		},
		{
			name: "only one separating break is stripped",
			text: "head\n\nitem\n\ntail", start: 7, end: 7,
			want: domain.Split{Before: "head\n", Lines: []string{"item"}, After: "\ntail"},
		},
		{
			name: "offsets are clamped",
			text: "x\ny", start: -5, end: 99,
			want: domain.Split{Lines: []string{"x", "y"}},
		},
		{
			name: "offsets count characters",
			text: "héllo\nwörld\nend", start: 7, end: 7,
			want: domain.Split{Before: "héllo", Lines: []string{"wörld"}, After: "end"},
		},
		{
			name: "crlf breaks",
			text: "a\r\nb\r\nc", start: 3, end: 3,
			want: domain.Split{Before: "a", Lines: []string{"b"}, After: "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split, err := runtime.SplitSelection(tt.text, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, split)
		})
	}
}

func TestSplitSelection_EmptySelection(t *testing.T) {
	for _, text := range []string{"", "   ", "a\n  \n\t\nb"} {
		start, end := 0, len(text)
		if text == "a\n  \n\t\nb" {
			start, end = 2, 6
		}
		_, err := runtime.SplitSelection(text, start, end)
		assert.ErrorIs(t, err, domain.ErrEmptySelection, "text %q", text)
	}
}

func TestEngine_InitialConvert(t *testing.T) {
	engine := runtime.NewEngine()
	state := domain.NewState("s", domain.IDStrategySequence)

	next, err := engine.InitialConvert(context.Background(), state, fruit, 12, 25)
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseDocument, next.Phase)
	assert.Equal(t, "keep this", next.Title)
	require.Len(t, next.Document.Nodes, 3)
	assert.Equal(t, "keep this", next.Document.Nodes[0].Text)
	assert.True(t, next.Document.Nodes[1].IsGroup())
	assert.Len(t, next.Document.Nodes[1].Items, 3)
	assert.Equal(t, "rest here", next.Document.Nodes[2].Text)

	// The caller's state is untouched.
	assert.Empty(t, state.Document.Nodes)
	assert.Equal(t, domain.PhaseEditing, state.Phase)
}

func TestEngine_InitialConvert_EmptySelectionLeavesStateUntouched(t *testing.T) {
	engine := runtime.NewEngine()
	state := domain.NewState("s", domain.IDStrategySequence)

	next, err := engine.InitialConvert(context.Background(), state, "\n\n  \n", 0, 4)
	assert.ErrorIs(t, err, domain.ErrEmptySelection)
	assert.Same(t, state, next)
	assert.Equal(t, domain.PhaseEditing, next.Phase)
	assert.Equal(t, uint64(0), next.Document.Counter)
}

func TestEngine_InitialConvert_OnlyWhileEditing(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine()

	state, err := engine.InitialConvert(ctx, domain.NewState("s", domain.IDStrategySequence), "Apple\nBanana", 0, 0)
	require.NoError(t, err)
	group := state.Document.Nodes[0]
	state, err = engine.Classify(ctx, state, group.ID, group.Items[0].ID, domain.StateSuccess)
	require.NoError(t, err)

	next, err := engine.InitialConvert(ctx, state, "Other", 0, 0)
	assert.ErrorIs(t, err, domain.ErrNoFocusedInput)
	assert.Same(t, state, next)
	require.Len(t, next.Document.Nodes, 2)
	assert.Equal(t, domain.StateSuccess, next.Document.Nodes[0].Items[0].State)
}

func TestEngine_InitialConvert_TitleFallback(t *testing.T) {
	engine := runtime.NewEngine(runtime.WithDefaultTitle("Checklist"))
	state := domain.NewState("s", domain.IDStrategySequence)

	next, err := engine.InitialConvert(context.Background(), state, "\n   \nitem", 5, 5)
	require.NoError(t, err)
	assert.Equal(t, "item", next.Title)

	assert.Equal(t, "Checklist", runtime.DeriveTitle(" \n\t", "Checklist"))
}

func TestEngine_ConvertNode(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine()
	state := domain.NewState("s", domain.IDStrategySequence)

	state, err := engine.InitialConvert(ctx, state, "title\nitem\nnotes one\nnotes two\nnotes three", 6, 6)
	require.NoError(t, err)
	require.Len(t, state.Document.Nodes, 3)
	tail := state.Document.Nodes[2]
	require.Equal(t, "notes one\nnotes two\nnotes three", tail.Text)

	next, err := engine.ConvertNode(ctx, state, tail.ID, tail.Text, 12, 12)
	require.NoError(t, err)

	nodes := next.Document.Nodes
	require.Len(t, nodes, 5)
	assert.Equal(t, state.Document.Nodes[0].ID, nodes[0].ID)
	assert.Equal(t, state.Document.Nodes[1].ID, nodes[1].ID)
	assert.Equal(t, "notes one", nodes[2].Text)
	assert.Equal(t, []domain.Item{{ID: nodes[3].Items[0].ID, Text: "notes two", State: domain.StateNeutral}}, nodes[3].Items)
	assert.Equal(t, "notes three", nodes[4].Text)
	assert.Equal(t, "title", next.Title, "title is only derived by the initial conversion")
}

func TestEngine_ConvertNode_Noops(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine()
	state, err := engine.InitialConvert(ctx, domain.NewState("s", domain.IDStrategySequence), "a\nb", 0, 0)
	require.NoError(t, err)
	group := state.Document.Nodes[0]
	text := state.Document.Nodes[1]

	next, err := engine.ConvertNode(ctx, state, "missing", "x", 0, 1)
	assert.ErrorIs(t, err, domain.ErrNoFocusedInput)
	assert.Same(t, state, next)

	next, err = engine.ConvertNode(ctx, state, group.ID, "x", 0, 1)
	assert.ErrorIs(t, err, domain.ErrNoFocusedInput, "groups cannot be converted")
	assert.Same(t, state, next)

	next, err = engine.ConvertNode(ctx, state, text.ID, "  ", 0, 2)
	assert.ErrorIs(t, err, domain.ErrEmptySelection)
	assert.Same(t, state, next)
}
