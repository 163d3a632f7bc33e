package verdict_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/verdict"
	"github.com/aretw0/verdict/internal/presentation/tui"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/motion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trip converts A, B and C into a group below the "Trip" heading and leaves the notes as text.
const trip = "Trip\nA\nB\nC\nnotes\nmore"

func texts(n domain.Node) []string {
	out := make([]string, len(n.Items))
	for i, it := range n.Items {
		out[i] = it.Text
	}
	return out
}

func TestEditor_InitialConvert(t *testing.T) {
	ctx := context.Background()
	editor := verdict.New()
	assert.Equal(t, domain.PhaseEditing, editor.Phase())
	assert.Equal(t, domain.DefaultTitle, editor.Title())

	text := "keep this\nApple\nBanana\nCherry\nrest here"
	// From inside "Apple" to inside "Cherry".
	st, err := editor.InitialConvert(ctx, text, 12, 26)
	require.NoError(t, err)

	require.Len(t, st.Document.Nodes, 3)
	assert.Equal(t, "keep this", st.Document.Nodes[0].Text)
	assert.Equal(t, []string{"Apple", "Banana", "Cherry"}, texts(st.Document.Nodes[1]))
	assert.Equal(t, "rest here", st.Document.Nodes[2].Text)
	assert.Equal(t, domain.PhaseDocument, editor.Phase())
	assert.Equal(t, "keep this", editor.Title())
}

func TestEditor_EmptySelectionIsNoop(t *testing.T) {
	ctx := context.Background()
	var rejected []string
	editor := verdict.New(verdict.WithLifecycleHooks(domain.LifecycleHooks{
		OnReject: func(_ context.Context, ev *domain.RejectEvent) { rejected = append(rejected, ev.Op) },
	}))

	before := editor.State()
	_, err := editor.InitialConvert(ctx, "\n   \n", 0, 5)
	assert.ErrorIs(t, err, domain.ErrEmptySelection)
	assert.Equal(t, before, editor.State())
	assert.Equal(t, []string{"initial_convert"}, rejected)
}

func TestEditor_MakeListDispatchesByPhase(t *testing.T) {
	ctx := context.Background()
	editor := verdict.New(verdict.WithSessionID("s1"))

	st, err := editor.MakeList(ctx, "", trip, 5, 10)
	require.NoError(t, err)
	require.Len(t, st.Document.Nodes, 3)
	notes := st.Document.Nodes[2]
	require.True(t, notes.IsText())

	// The renderer mounts an input for the notes node and focuses it.
	editor.Inputs().Mount("input-notes", notes.ID)
	require.True(t, editor.Inputs().Focus("input-notes"))

	st, err = editor.MakeList(ctx, "", notes.Text, 0, 5)
	require.NoError(t, err)
	require.Len(t, st.Document.Nodes, 4)
	assert.Equal(t, []string{"notes"}, texts(st.Document.Nodes[2]))
	assert.Equal(t, "more", st.Document.Nodes[3].Text)

	// The converted node is gone, so is its input.
	assert.Empty(t, editor.Inputs().Inputs())
	_, _, focused := editor.Inputs().Focused()
	assert.False(t, focused)
}

func TestEditor_InitialConvertKeepsClassifiedDocument(t *testing.T) {
	ctx := context.Background()
	editor := verdict.New()
	st, err := editor.InitialConvert(ctx, "Apple\nBanana", 0, 0)
	require.NoError(t, err)
	group := st.Document.Nodes[0]
	_, err = editor.Classify(ctx, group.ID, group.Items[0].ID, domain.StateSuccess)
	require.NoError(t, err)
	before := editor.State()

	_, err = editor.InitialConvert(ctx, "Other", 0, 0)
	assert.ErrorIs(t, err, domain.ErrNoFocusedInput)
	assert.Equal(t, before, editor.State())
	assert.Equal(t, domain.StateSuccess, editor.Document().Nodes[0].Items[0].State)
}

func TestEditor_ConvertFocusedOnGroupInput(t *testing.T) {
	ctx := context.Background()
	editor := verdict.New()
	st, err := editor.InitialConvert(ctx, trip, 5, 10)
	require.NoError(t, err)

	editor.Inputs().Mount("in-group", st.Document.Nodes[1].ID)
	_, err = editor.ConvertFocused(ctx, "in-group", "A", 0, 1)
	assert.ErrorIs(t, err, domain.ErrNoFocusedInput)
	assert.Equal(t, st, editor.State())
}

func TestEditor_ConvertFocusedWithoutInput(t *testing.T) {
	ctx := context.Background()
	var reasons []error
	editor := verdict.New(verdict.WithLifecycleHooks(domain.LifecycleHooks{
		OnReject: func(_ context.Context, ev *domain.RejectEvent) { reasons = append(reasons, ev.Err) },
	}))
	_, err := editor.InitialConvert(ctx, trip, 5, 10)
	require.NoError(t, err)
	before := editor.State()

	_, err = editor.MakeList(ctx, "", "notes\nmore", 0, 5)
	assert.ErrorIs(t, err, domain.ErrNoFocusedInput)

	_, err = editor.ConvertFocused(ctx, "never-mounted", "notes\nmore", 0, 5)
	assert.ErrorIs(t, err, domain.ErrNoFocusedInput)

	assert.Equal(t, before, editor.State())
	require.Len(t, reasons, 2)
	assert.True(t, errors.Is(reasons[0], domain.ErrNoFocusedInput))
}

func TestEditor_ConvertByExplicitInput(t *testing.T) {
	ctx := context.Background()
	editor := verdict.New()
	st, err := editor.InitialConvert(ctx, trip, 5, 10)
	require.NoError(t, err)

	editor.Inputs().Mount("in-1", st.Document.Nodes[0].ID)
	st, err = editor.ConvertFocused(ctx, "in-1", "Trip", 0, 4)
	require.NoError(t, err)
	require.Len(t, st.Document.Nodes, 3)
	assert.Equal(t, []string{"Trip"}, texts(st.Document.Nodes[0]))
}

func TestEditor_EditText(t *testing.T) {
	ctx := context.Background()
	editor := verdict.New()
	st, err := editor.InitialConvert(ctx, trip, 5, 10)
	require.NoError(t, err)

	st, err = editor.EditText(ctx, st.Document.Nodes[2].ID, "notes\nmore\nand more")
	require.NoError(t, err)
	assert.Equal(t, 3, st.Document.Nodes[2].LineCount())

	_, err = editor.EditText(ctx, st.Document.Nodes[1].ID, "groups are not text")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditor_ClassifyAnimatesMovedItems(t *testing.T) {
	ctx := context.Background()
	layout := tui.NewLayout()
	animator := tui.NewAnimator()
	var animated []domain.ID
	editor := verdict.New(
		verdict.WithRenderer(layout),
		verdict.WithAnimationSink(animator),
		verdict.WithLifecycleHooks(domain.LifecycleHooks{
			OnAnimate: func(_ context.Context, ev *domain.AnimateEvent) { animated = append(animated, ev.ElementID) },
		}),
	)

	st, err := editor.InitialConvert(ctx, "Trip\nA\nB\nC", 5, 10)
	require.NoError(t, err)
	group := st.Document.Nodes[1]
	a, b, c := group.Items[0].ID, group.Items[1].ID, group.Items[2].ID

	// Rows: heading 0, blank 1, items 2..4. C jumps to the top, A and B shift down.
	out, err := editor.Classify(ctx, group.ID, c, domain.StateSuccess)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, c, out[0].ElementID)
	assert.Equal(t, 2.0, out[0].From)
	assert.Equal(t, a, out[1].ElementID)
	assert.Equal(t, -1.0, out[1].From)
	assert.Equal(t, b, out[2].ElementID)
	assert.Equal(t, motion.DefaultDuration, out[0].Duration)
	assert.Equal(t, []domain.ID{c, a, b}, animated)
	assert.ElementsMatch(t, []domain.ID{a, b, c}, animator.Active())

	// B is already last, so failing it moves nothing.
	out, err = editor.Classify(ctx, group.ID, b, domain.StateFailure)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = editor.Classify(ctx, group.ID, a, domain.StateFailure)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, texts(editor.Document().Nodes[1]))
	require.NotNil(t, editor.Ratio())
	assert.Equal(t, domain.Ratio{SucceededPct: 33, FailedPct: 67}, *editor.Ratio())
}

func TestEditor_ClassifyNoopConsumesSnapshot(t *testing.T) {
	ctx := context.Background()
	layout := tui.NewLayout()
	editor := verdict.New(verdict.WithRenderer(layout))
	st, err := editor.InitialConvert(ctx, "Trip\nA\nB", 5, 8)
	require.NoError(t, err)
	commits := layout.Commits()

	out, err := editor.Classify(ctx, st.Document.Nodes[1].ID, "missing", domain.StateSuccess)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, out)
	assert.Equal(t, commits, layout.Commits(), "nothing to lay out")
	assert.Nil(t, editor.EndMutation(), "snapshot was discarded")
}

func TestEditor_MotionOptions(t *testing.T) {
	ctx := context.Background()
	editor := verdict.New(
		verdict.WithRenderer(tui.NewLayout()),
		verdict.WithMotionOptions(motion.WithThreshold(1.5)),
	)
	st, err := editor.InitialConvert(ctx, "Trip\nA\nB", 5, 8)
	require.NoError(t, err)
	group := st.Document.Nodes[1]

	// Swapping two neighbours moves each by one row, below the threshold.
	out, err := editor.Classify(ctx, group.ID, group.Items[1].ID, domain.StateSuccess)
	require.NoError(t, err)
	assert.Empty(t, out)
}

type failingRenderer struct{ *tui.Layout }

func (failingRenderer) Commit(context.Context, *domain.State) error {
	return errors.New("window closed")
}

func TestEditor_RendererFailure(t *testing.T) {
	editor := verdict.New(verdict.WithRenderer(failingRenderer{tui.NewLayout()}))
	_, err := editor.InitialConvert(context.Background(), "Trip\nA", 5, 6)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window closed")
	assert.Equal(t, domain.PhaseDocument, editor.Phase(), "the model still moved on")

	group := editor.Document().Nodes[1]
	out, err := editor.Classify(context.Background(), group.ID, group.Items[0].ID, domain.StateFailure)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, domain.StateFailure, editor.Document().Nodes[1].Items[0].State)
}

func TestEditor_DefaultTitle(t *testing.T) {
	editor := verdict.New(verdict.WithDefaultTitle("Checklist"))
	assert.Equal(t, "Checklist", editor.Title())
}
