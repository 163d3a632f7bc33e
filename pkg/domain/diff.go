package domain

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on remote renderers.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Phase *Phase  `json:"phase,omitempty"`
	Title *string `json:"title,omitempty"`

	// Nodes carries the whole node sequence when its structure changed (conversion).
	Nodes []Node `json:"nodes,omitempty"`

	// Groups carries the new item order for groups whose items moved or changed state.
	Groups []GroupDelta `json:"groups,omitempty"`

	// Texts maps text node ids to their new text.
	Texts map[ID]string `json:"texts,omitempty"`

	// Ratio is set when the ratio appeared or changed; RatioCleared when it disappeared.
	Ratio        *Ratio `json:"ratio,omitempty"`
	RatioCleared bool   `json:"ratio_cleared,omitempty"`
}

// GroupDelta is the full item sequence of one changed group.
type GroupDelta struct {
	GroupID ID     `json:"group_id"`
	Items   []Item `json:"items"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{SessionID: newState.SessionID}

	// 1. Session side channels
	if oldState == nil || oldState.Phase != newState.Phase {
		diff.Phase = &newState.Phase
	}
	if oldState == nil || oldState.Title != newState.Title {
		diff.Title = &newState.Title
	}

	// 2. Node structure, then per-node content
	var oldDoc *Document
	if oldState != nil {
		oldDoc = oldState.Document
	}
	newDoc := newState.Document
	if newDoc == nil {
		newDoc = &Document{}
	}
	if !sameStructure(oldDoc, newDoc) {
		diff.Nodes = newDoc.Nodes
	} else {
		diff.Groups, diff.Texts = diffContent(oldDoc, newDoc)
	}

	// 3. Ratio
	var oldRatio *Ratio
	if oldDoc != nil {
		oldRatio = oldDoc.Ratio()
	}
	newRatio := newDoc.Ratio()
	switch {
	case newRatio != nil && (oldRatio == nil || *oldRatio != *newRatio):
		diff.Ratio = newRatio
	case newRatio == nil && oldRatio != nil:
		diff.RatioCleared = true
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// sameStructure reports whether both documents have the same node ids in the same order.
func sameStructure(old, new *Document) bool {
	if old == nil {
		return false
	}
	if len(old.Nodes) != len(new.Nodes) {
		return false
	}
	for i := range old.Nodes {
		if old.Nodes[i].ID != new.Nodes[i].ID {
			return false
		}
	}
	return true
}

func diffContent(old, new *Document) ([]GroupDelta, map[ID]string) {
	var groups []GroupDelta
	texts := make(map[ID]string)

	for i, n := range new.Nodes {
		prev := old.Nodes[i]
		switch {
		case n.IsText():
			if prev.Text != n.Text {
				texts[n.ID] = n.Text
			}
		case n.IsGroup():
			if !sameItems(prev.Items, n.Items) {
				groups = append(groups, GroupDelta{GroupID: n.ID, Items: n.Items})
			}
		}
	}

	// Return nil if delta is empty so omitempty can remove the key
	if len(texts) == 0 {
		texts = nil
	}
	return groups, texts
}

func sameItems(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Phase == nil &&
		d.Title == nil &&
		d.Nodes == nil &&
		len(d.Groups) == 0 &&
		len(d.Texts) == 0 &&
		d.Ratio == nil &&
		!d.RatioCleared
}
