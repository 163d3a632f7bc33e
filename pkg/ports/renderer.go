package ports

import (
	"context"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/motion"
)

// Renderer is the host's view layer. It observes the document and never mutates it.
type Renderer interface {
	// Commit lays out the given state. Positions must reflect it once Commit returns.
	Commit(ctx context.Context, state *domain.State) error

	motion.PositionSource
}
