// Package tools provides the tool registry and the two built-in tools the
// decision step can select: knowledge-base retrieval and the direct-answer
// marker.
package tools

import (
	"strings"
	"sync"

	"github.com/ragkit/ragkit-go/ragkit"
)

// Registry is a fixed mapping from tool name to tool.
//
// Registration order is preserved so the decision prompt can enumerate tools
// deterministically. Registering a duplicate name replaces the prior entry
// in place (last-write-wins) without disturbing the order; the tool set is
// fixed at agent construction and never mutated concurrently.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]ragkit.Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]ragkit.Tool),
	}
}

// NewDefaultRegistry creates a registry holding the two built-in tools:
// retrieve_context backed by the given retriever, and direct_answer.
func NewDefaultRegistry(retriever ragkit.Retriever) *Registry {
	r := NewRegistry()
	r.Register(NewRetrieveContext(retriever))
	r.Register(NewDirectAnswer())
	return r
}

// Register adds a tool, replacing any prior tool with the same name.
func (r *Registry) Register(tool ragkit.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool
}

// Get returns the tool registered under exactly name.
func (r *Registry) Get(name string) (ragkit.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	return tool, ok
}

// Resolve returns the tool for name, tolerating case differences. An exact
// match wins; otherwise the first case-insensitive match in registration
// order is returned.
func (r *Registry) Resolve(name string) (ragkit.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if tool, ok := r.tools[name]; ok {
		return tool, true
	}
	for _, registered := range r.order {
		if strings.EqualFold(registered, name) {
			return r.tools[registered], true
		}
	}
	return nil, false
}

// List returns all tools in registration order.
func (r *Registry) List() []ragkit.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ragkit.Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}
