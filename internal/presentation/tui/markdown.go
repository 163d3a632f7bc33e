package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/verdict/pkg/domain"
)

// Markdown renders a session as a GitHub-flavored markdown task list.
// Success items are checked, failures are checked and struck through, neutral items are open.
func Markdown(state *domain.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", state.Title)

	if state.Document != nil {
		for _, n := range state.Document.Nodes {
			switch {
			case n.IsText():
				b.WriteString(strings.TrimRight(n.Text, "\n"))
				b.WriteString("\n\n")
			case n.IsGroup():
				for _, it := range n.Items {
					b.WriteString(itemLine(it))
					b.WriteByte('\n')
				}
				b.WriteByte('\n')
			}
		}
	}

	if r := state.Ratio(); r != nil {
		fmt.Fprintf(&b, "**%s**\n", RatioText(r))
	}
	return b.String()
}

func itemLine(it domain.Item) string {
	switch it.State {
	case domain.StateSuccess:
		return "- [x] " + it.Text
	case domain.StateFailure:
		return "- [x] ~~" + it.Text + "~~"
	}
	return "- [ ] " + it.Text
}

// RatioText formats the ratio banner.
func RatioText(r *domain.Ratio) string {
	return fmt.Sprintf("Succeeded: %d%%, Failed: %d%%", r.SucceededPct, r.FailedPct)
}
