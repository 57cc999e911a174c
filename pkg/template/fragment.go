package template

import "github.com/vango-dev/cellbind/pkg/dom"

// Renderable is any value the compiler splices in as nodes. The unexported
// method keeps the set closed to this package's fragment types.
type Renderable interface {
	Nodes() []*dom.Node
	renderable()
}

// IsFragment reports whether v can be spliced into a template as nodes.
func IsFragment(v any) bool {
	_, ok := v.(Renderable)
	return ok
}

// Fragment is the ordered root nodes produced by one template evaluation.
type Fragment struct {
	nodes []*dom.Node
}

// NewFragment wraps nodes.
func NewFragment(nodes ...*dom.Node) *Fragment {
	return &Fragment{nodes: nodes}
}

// Nodes returns a copy of the root nodes.
func (f *Fragment) Nodes() []*dom.Node {
	if f == nil {
		return nil
	}
	out := make([]*dom.Node, len(f.nodes))
	copy(out, f.nodes)
	return out
}

// Len returns the number of root nodes.
func (f *Fragment) Len() int {
	if f == nil {
		return 0
	}
	return len(f.nodes)
}

func (f *Fragment) renderable() {}

// Template is a deferred template: the parts and values are kept until
// something compiles them.
type Template struct {
	Parts  []string
	Values []any
}

// T builds a deferred template.
func T(parts []string, values ...any) Template {
	return Template{Parts: parts, Values: values}
}

// Static builds a deferred template with no embedded values.
func Static(markup string) Template {
	return Template{Parts: []string{markup}}
}
