// Package registry maps renderer input widgets to the document nodes they edit.
//
// Renderers mount an input when they draw a text node, unmount it when the node
// disappears, and report focus changes. Focused conversions resolve the node to
// split through the registry instead of inspecting the widget tree.
package registry

import (
	"sort"
	"sync"

	"github.com/aretw0/verdict/pkg/domain"
)

// InputID identifies one mounted text input in the renderer.
type InputID string

// Registry tracks mounted inputs and the currently focused one.
type Registry struct {
	mu      sync.RWMutex
	inputs  map[InputID]domain.ID
	focused InputID
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		inputs: make(map[InputID]domain.ID),
	}
}

// Mount binds an input to the text node it edits.
// Mounting an existing input rebinds it.
func (r *Registry) Mount(input InputID, nodeID domain.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs[input] = nodeID
}

// Unmount forgets the input. A focused input loses focus.
func (r *Registry) Unmount(input InputID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inputs, input)
	if r.focused == input {
		r.focused = ""
	}
}

// Focus marks input as focused. Unknown inputs are ignored and report false.
func (r *Registry) Focus(input InputID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.inputs[input]; !ok {
		return false
	}
	r.focused = input
	return true
}

// Blur clears focus if input holds it.
func (r *Registry) Blur(input InputID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.focused == input {
		r.focused = ""
	}
}

// Resolve returns the node bound to input.
func (r *Registry) Resolve(input InputID) (domain.ID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.inputs[input]
	return id, ok
}

// Focused returns the focused input and its node.
func (r *Registry) Focused() (InputID, domain.ID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.focused == "" {
		return "", "", false
	}
	return r.focused, r.inputs[r.focused], true
}

// Inputs lists mounted inputs in lexical order.
func (r *Registry) Inputs() []InputID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]InputID, 0, len(r.inputs))
	for id := range r.inputs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Sync unmounts every input whose node no longer exists as a text node in doc.
// Renderers call it after committing a conversion that replaced the node.
func (r *Registry) Sync(doc *domain.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for input, nodeID := range r.inputs {
		if n, ok := doc.Node(nodeID); ok && n.IsText() {
			continue
		}
		delete(r.inputs, input)
		if r.focused == input {
			r.focused = ""
		}
	}
}
