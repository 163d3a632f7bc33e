package domain

import "fmt"

// Document is the ordered sequence of nodes.
// Node order is the visual top-to-bottom order and nothing else caches it.
type Document struct {
	Nodes []Node `json:"nodes"`

	// Strategy and Counter drive identifier allocation (see NewID).
	Strategy IDStrategy `json:"id_strategy"`
	Counter  uint64     `json:"id_counter"`
}

// NewDocument returns an empty document. An unknown strategy falls back to sequence.
func NewDocument(strategy IDStrategy) *Document {
	if !strategy.Valid() {
		strategy = IDStrategySequence
	}
	return &Document{Nodes: []Node{}, Strategy: strategy}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Nodes = make([]Node, len(d.Nodes))
	for i, n := range d.Nodes {
		out.Nodes[i] = n.Clone()
	}
	return &out
}

// Index returns the position of the node with the given id, or -1.
func (d *Document) Index(id ID) int {
	for i, n := range d.Nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Node looks up a node by id.
func (d *Document) Node(id ID) (Node, bool) {
	if i := d.Index(id); i >= 0 {
		return d.Nodes[i], true
	}
	return Node{}, false
}

// Group looks up a group node by id.
func (d *Document) Group(id ID) (Node, bool) {
	n, ok := d.Node(id)
	if !ok || !n.IsGroup() {
		return Node{}, false
	}
	return n, true
}

// Items gathers every item of every group in document order.
func (d *Document) Items() []Item {
	var all []Item
	for _, n := range d.Nodes {
		if n.IsGroup() {
			all = append(all, n.Items...)
		}
	}
	return all
}

// Ratio derives the success/failure ratio over all items.
func (d *Document) Ratio() *Ratio {
	return ComputeRatio(d.Items())
}

// ReplaceNode swaps the node with the given id for the replacement nodes,
// preserving the position of the replaced span.
func (d *Document) ReplaceNode(id ID, replacement ...Node) error {
	i := d.Index(id)
	if i < 0 {
		return fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	nodes := make([]Node, 0, len(d.Nodes)-1+len(replacement))
	nodes = append(nodes, d.Nodes[:i]...)
	nodes = append(nodes, replacement...)
	nodes = append(nodes, d.Nodes[i+1:]...)
	d.Nodes = nodes
	return nil
}

// SetText replaces a text node's text verbatim.
func (d *Document) SetText(id ID, text string) error {
	i := d.Index(id)
	if i < 0 || !d.Nodes[i].IsText() {
		return fmt.Errorf("text node %s: %w", id, ErrNotFound)
	}
	d.Nodes[i].Text = text
	return nil
}

// SetItems replaces the item sequence of a group.
func (d *Document) SetItems(groupID ID, items []Item) error {
	i := d.Index(groupID)
	if i < 0 || !d.Nodes[i].IsGroup() {
		return fmt.Errorf("group %s: %w", groupID, ErrNotFound)
	}
	d.Nodes[i].Items = items
	return nil
}
