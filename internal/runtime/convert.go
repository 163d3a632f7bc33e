package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/verdict/pkg/domain"
)

// SplitSelection extends the selection [start, end) to whole lines and splits it.
//
// Offsets count characters (runes), not bytes, and are clamped to the text; a
// reversed selection is normalized. The line start is one past the nearest line
// break before start; the line end is the first line break at or after end.
// Lines are trimmed and blank ones dropped. Before and After lose the single line
// break that separated them from the block, since the group renders as its own block.
func SplitSelection(text string, start, end int) (domain.Split, error) {
	s, e := byteOffset(text, start), byteOffset(text, end)
	if s > e {
		s, e = e, s
	}

	lineStart := strings.LastIndexByte(text[:s], '\n') + 1
	lineEnd := len(text)
	if i := strings.IndexByte(text[e:], '\n'); i >= 0 {
		lineEnd = e + i
	}

	var lines []string
	for _, line := range strings.Split(text[lineStart:lineEnd], "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return domain.Split{}, domain.ErrEmptySelection
	}

	return domain.Split{
		Before: trimBreak(text[:lineStart], strings.TrimSuffix),
		Lines:  lines,
		After:  trimBreak(text[lineEnd:], strings.TrimPrefix),
	}, nil
}

// trimBreak removes a single line break ("\r\n" or "\n") using the given trimmer.
func trimBreak(s string, trim func(string, string) string) string {
	if t := trim(s, "\r\n"); t != s {
		return t
	}
	return trim(s, "\n")
}

// byteOffset maps a rune offset to a byte offset, clamped to [0, len(text)].
func byteOffset(text string, runes int) int {
	if runes <= 0 {
		return 0
	}
	n := 0
	for i := range text {
		if n == runes {
			return i
		}
		n++
	}
	return len(text)
}

// InitialConvert turns the free-text buffer into the document's entire node sequence
// and moves the session into the document phase. The title is derived from text.
// Once the document phase is reached there is no free-text buffer left, so the call
// is rejected with ErrNoFocusedInput and the document keeps its groups.
func (e *Engine) InitialConvert(ctx context.Context, state *domain.State, text string, start, end int) (*domain.State, error) {
	if state.Phase != domain.PhaseEditing {
		return e.reject(ctx, state, "initial_convert", fmt.Errorf("phase %s: %w", state.Phase, domain.ErrNoFocusedInput))
	}

	split, err := SplitSelection(text, start, end)
	if err != nil {
		return e.reject(ctx, state, "initial_convert", err)
	}

	next := state.Clone()
	next.Document.Nodes = next.Document.NodesFor(split)
	next.Phase = domain.PhaseDocument
	next.Title = DeriveTitle(text, e.defaultTitle)

	e.converted(ctx, state, "", next.Document, len(split.Lines))
	return next, nil
}

// ConvertNode splits the text node nodeID, whose current input value is text, and
// replaces it in place with the resulting (text?, group, text?) triple. A node id that
// is not a text node means no input is focused on one: ErrNoFocusedInput.
func (e *Engine) ConvertNode(ctx context.Context, state *domain.State, nodeID domain.ID, text string, start, end int) (*domain.State, error) {
	n, ok := state.Document.Node(nodeID)
	if !ok || !n.IsText() {
		return e.reject(ctx, state, "convert_node", fmt.Errorf("text node %s: %w", nodeID, domain.ErrNoFocusedInput))
	}

	split, err := SplitSelection(text, start, end)
	if err != nil {
		return e.reject(ctx, state, "convert_node", err)
	}

	next := state.Clone()
	if err := next.Document.ReplaceNode(nodeID, next.Document.NodesFor(split)...); err != nil {
		return e.reject(ctx, state, "convert_node", err)
	}

	e.converted(ctx, state, nodeID, next.Document, len(split.Lines))
	return next, nil
}

func (e *Engine) converted(ctx context.Context, state *domain.State, source domain.ID, doc *domain.Document, lines int) {
	if e.hooks.OnConvert == nil {
		return
	}
	// The new group is the only group absent from the previous document.
	var groupID domain.ID
	for _, n := range doc.Nodes {
		if n.IsGroup() && state.Document.Index(n.ID) < 0 {
			groupID = n.ID
		}
	}
	e.hooks.OnConvert(ctx, &domain.ConvertEvent{
		EventBase:    e.base(domain.EventConvert, state),
		Initial:      source == "",
		SourceNodeID: source,
		GroupID:      groupID,
		Lines:        lines,
	})
}
