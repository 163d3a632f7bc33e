package domain

import "strings"

// NodeKind discriminates the node variants.
type NodeKind string

const (
	// NodeKindText is free-form text, possibly spanning several lines.
	NodeKindText NodeKind = "text"
	// NodeKindGroup is a classification block of items.
	NodeKindGroup NodeKind = "group"
)

// Item is one classifiable line within a group.
type Item struct {
	ID    ID        `json:"id" yaml:"id"`
	Text  string    `json:"text" yaml:"text"`
	State ItemState `json:"state" yaml:"state"`
}

// Node represents a document-level span.
// Text nodes use Text; group nodes use Items.
type Node struct {
	ID   ID       `json:"id" yaml:"id"`
	Kind NodeKind `json:"kind" yaml:"kind"`

	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	Items []Item `json:"items,omitempty" yaml:"items,omitempty"`
}

// IsText reports whether n is a text node.
func (n Node) IsText() bool { return n.Kind == NodeKindText }

// IsGroup reports whether n is a group node.
func (n Node) IsGroup() bool { return n.Kind == NodeKindGroup }

// LineCount is the number of visual lines a text node needs (at least 1).
// Group nodes report one line per item.
func (n Node) LineCount() int {
	if n.IsGroup() {
		return len(n.Items)
	}
	return strings.Count(n.Text, "\n") + 1
}

// ItemIndex returns the position of the item with the given id, or -1.
func (n Node) ItemIndex(id ID) int {
	for i, it := range n.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no item storage with n.
func (n Node) Clone() Node {
	if n.Items != nil {
		items := make([]Item, len(n.Items))
		copy(items, n.Items)
		n.Items = items
	}
	return n
}
