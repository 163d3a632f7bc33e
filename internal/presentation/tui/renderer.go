package tui

import (
	"fmt"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders a session through glamour.
// It detects light/dark backgrounds and wraps at width columns (0 keeps glamour's default).
func NewRenderer(width int) (func(*domain.State) (string, error), error) {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(),
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	return func(state *domain.State) (string, error) {
		return r.Render(Markdown(state))
	}, nil
}
