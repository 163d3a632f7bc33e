package domain

import (
	"strconv"

	"github.com/google/uuid"
)

// ID is an opaque identifier for nodes and items.
// Equality is the only defined operation.
type ID string

// IDStrategy selects how a document mints identifiers.
type IDStrategy string

const (
	// IDStrategySequence mints "u1", "u2", ... from a counter scoped to the document.
	IDStrategySequence IDStrategy = "sequence"
	// IDStrategyUUID mints random UUIDs, safe when documents are merged or moved between hosts.
	IDStrategyUUID IDStrategy = "uuid"
)

// Valid reports whether s is a known strategy.
func (s IDStrategy) Valid() bool {
	return s == IDStrategySequence || s == IDStrategyUUID
}

// NewID allocates a fresh identifier. Identifiers are never reused within a document.
func (d *Document) NewID() ID {
	if d.Strategy == IDStrategyUUID {
		return ID(uuid.NewString())
	}
	d.Counter++
	return ID("u" + strconv.FormatUint(d.Counter, 10))
}
