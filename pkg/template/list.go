package template

import (
	"fmt"

	"github.com/vango-dev/cellbind/pkg/dom"
	"github.com/vango-dev/cellbind/pkg/reactive"
)

// Each renders fn for every item of a static slice. fn returns a Renderable,
// a markup string, or any other value shown as text. An empty slice gives an
// empty fragment.
func Each[T any](e *Engine, items []T, fn func(item T, index int) any) *Fragment {
	var nodes []*dom.Node
	for i, item := range items {
		nodes = append(nodes, e.itemNodes(fn(item, i))...)
	}
	return NewFragment(nodes...)
}

// EachCell renders fn for every item of cell and rebuilds the whole list
// whenever the cell changes. There is no keyed reconciliation: every row is
// unmounted and rendered again.
//
// The subscription is owned by the list's current first node, so unmounting
// the surrounding tree stops the list. An empty list renders a <template>
// anchor so there is always a first node.
func EachCell[T any](e *Engine, cell *reactive.Cell[[]T], fn func(item T, index int) any) *Fragment {
	l := &list[T]{e: e, fn: fn}
	l.current = renderItems(e, cell.Get(), fn)
	l.cancel = cell.Watch(l.rerender)
	l.own()
	return NewFragment(l.current...)
}

type list[T any] struct {
	e       *Engine
	fn      func(T, int) any
	current []*dom.Node
	cancel  func()

	// gen advances on every rerender. Cleanups recorded under an older
	// generation belong to nodes the list replaced itself.
	gen uint64
}

// own records the subscription cancel against the current first node.
func (l *list[T]) own() {
	gen := l.gen
	l.e.registry.Record(l.current[0], func() {
		if gen == l.gen {
			l.cancel()
		}
	})
}

func (l *list[T]) rerender(items []T) {
	doc := l.e.doc
	focused := doc.ActiveElement()

	l.gen++
	first := l.current[0]
	for _, n := range l.current[1:] {
		l.e.Unmount(n)
	}

	next := renderItems(l.e, items, l.fn)
	first.ReplaceWith(next...)
	l.e.Unmount(first)

	l.current = next
	l.own()
	l.e.metrics.RecordListRerender()

	if focused != nil && doc.ActiveElement() == focused {
		doc.Defer(func() { doc.Focus(focused) })
	}
}

// renderItems renders a reactive list, padding an empty result with an
// anchor.
func renderItems[T any](e *Engine, items []T, fn func(T, int) any) []*dom.Node {
	nodes := Each(e, items, fn).nodes
	if len(nodes) == 0 {
		nodes = append(nodes, dom.NewElement("template"))
	}
	return nodes
}

func (e *Engine) itemNodes(v any) []*dom.Node {
	switch x := v.(type) {
	case nil:
		return nil
	case Renderable:
		return x.Nodes()
	case string:
		return e.parse(x)
	case Template:
		return e.Render(x).Nodes()
	default:
		return []*dom.Node{dom.NewText(fmt.Sprint(v))}
	}
}
