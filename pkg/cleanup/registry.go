// Package cleanup tracks the subscription cancellations that must run when a
// document node leaves the tree.
//
// The template engine records a cleanup for every binding it establishes,
// keyed by the node the binding lives on. Unmount drains those entries. A
// node that is discarded without being drained leaks its subscriptions.
package cleanup

import "github.com/vango-dev/cellbind/pkg/dom"

// Registry maps live nodes to ordered cleanup funcs. Keys are non-owning:
// the registry never inspects or retains the node beyond its entry.
//
// A Registry starts empty and is not safe for concurrent use.
type Registry struct {
	entries map[*dom.Node][]func()

	// OnChange, if set, is called with the entry count after every change.
	OnChange func(entries int)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[*dom.Node][]func())}
}

// Record appends fn to the entry for n, creating the entry if needed.
func (r *Registry) Record(n *dom.Node, fn func()) {
	if n == nil || fn == nil {
		return
	}
	r.entries[n] = append(r.entries[n], fn)
	r.changed()
}

// Drain runs every cleanup recorded for n in recorded order and deletes the
// entry. It returns how many ran; a node without an entry is a no-op.
func (r *Registry) Drain(n *dom.Node) int {
	fns, ok := r.entries[n]
	if !ok {
		return 0
	}
	// Delete first so a cleanup that records against n starts a fresh entry.
	delete(r.entries, n)
	for _, fn := range fns {
		fn()
	}
	r.changed()
	return len(fns)
}

// Has reports whether n has an entry.
func (r *Registry) Has(n *dom.Node) bool {
	_, ok := r.entries[n]
	return ok
}

// Count returns the number of cleanups recorded for n.
func (r *Registry) Count(n *dom.Node) int {
	return len(r.entries[n])
}

// Len returns the number of nodes with entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

func (r *Registry) changed() {
	if r.OnChange != nil {
		r.OnChange(len(r.entries))
	}
}
