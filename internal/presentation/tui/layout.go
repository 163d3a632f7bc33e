package tui

import (
	"context"
	"sync"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/motion"
)

// Layout places a document on a fixed-height row grid: each text node takes one row
// per line, each item one row, with a blank row between nodes. It is a ports.Renderer
// for terminal hosts and tests; positions are in rows.
type Layout struct {
	mu        sync.RWMutex
	positions motion.Positions
	rows      int
	commits   int
}

// NewLayout creates an empty layout.
func NewLayout() *Layout {
	return &Layout{positions: motion.Positions{}}
}

// Commit lays out the state.
func (l *Layout) Commit(_ context.Context, state *domain.State) error {
	pos := motion.Positions{}
	row := 0
	if state.Document != nil {
		for i, n := range state.Document.Nodes {
			if i > 0 {
				row++
			}
			if n.IsGroup() {
				for _, it := range n.Items {
					pos[it.ID] = float64(row)
					row++
				}
				continue
			}
			row += n.LineCount()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.positions = pos
	l.rows = row
	l.commits++
	return nil
}

// Positions implements motion.PositionSource.
func (l *Layout) Positions() motion.Positions {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(motion.Positions, len(l.positions))
	for id, p := range l.positions {
		out[id] = p
	}
	return out
}

// Rows is the total height of the last committed document.
func (l *Layout) Rows() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rows
}

// Commits counts successful commits.
func (l *Layout) Commits() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.commits
}
