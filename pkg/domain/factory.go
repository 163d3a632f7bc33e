package domain

// NewTextNode builds a text node with a fresh identifier.
func (d *Document) NewTextNode(text string) Node {
	return Node{ID: d.NewID(), Kind: NodeKindText, Text: text}
}

// NewGroupNode builds a group whose items are the given lines, in order, all neutral.
func (d *Document) NewGroupNode(lines []string) Node {
	n := Node{ID: d.NewID(), Kind: NodeKindGroup, Items: make([]Item, 0, len(lines))}
	for _, line := range lines {
		n.Items = append(n.Items, Item{ID: d.NewID(), Text: line, State: StateNeutral})
	}
	return n
}

// Split is the outcome of extending a selection to whole lines.
type Split struct {
	Before string   `json:"before"`
	Lines  []string `json:"lines"`
	After  string   `json:"after"`
}

// NodesFor materializes a split as the (optional text, group, optional text) triple.
func (d *Document) NodesFor(s Split) []Node {
	nodes := make([]Node, 0, 3)
	if s.Before != "" {
		nodes = append(nodes, d.NewTextNode(s.Before))
	}
	nodes = append(nodes, d.NewGroupNode(s.Lines))
	if s.After != "" {
		nodes = append(nodes, d.NewTextNode(s.After))
	}
	return nodes
}
