package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/muesli/termenv"
)

// PrintBanner writes the program banner with a green-to-red gradient.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	lines := []struct{ text, color string }{
		{"                 _ _      _   ", "#4ade80"},
		{" __   _____ _ __| (_) ___| |_ ", "#a3e635"},
		{" \\ \\ / / _ \\ '__| | |/ __| __|", "#facc15"},
		{"  \\ V /  __/ |  | | | (__| |_ ", "#fb923c"},
		{"   \\_/ \\___|_|  |_|_|\\___|\\__|", "#f87171"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// RatioBadge colors the ratio banner by outcome: green when nothing failed,
// red when nothing succeeded, yellow otherwise. It returns "" for an absent ratio.
func RatioBadge(profile termenv.Profile, r *domain.Ratio) string {
	if r == nil {
		return ""
	}
	color := "#facc15"
	switch {
	case r.FailedPct == 0:
		color = "#4ade80"
	case r.SucceededPct == 0:
		color = "#f87171"
	}
	return profile.String(RatioText(r)).Foreground(profile.Color(color)).Bold().String()
}
