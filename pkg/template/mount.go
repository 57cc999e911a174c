package template

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/vango-dev/cellbind/internal/errors"
	"github.com/vango-dev/cellbind/pkg/dom"
)

// Mount builds a component from f, registers every on:<event> prop as a
// component listener, renders it with the remaining props and puts the
// result where target is. A malformed factory returns an E002 error and
// leaves target in place.
func (e *Engine) Mount(f *Factory, target *dom.Node, props Props) error {
	comp, err := f.construct(e)
	if err != nil {
		return err
	}
	if props == nil {
		props = Props{}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		event, ok := strings.CutPrefix(name, eventPrefix)
		if !ok {
			continue
		}
		fn := props[name]
		delete(props, name)

		listener, ok := componentListener(event, fn)
		if !ok {
			e.report(errors.New("E003").
				WithDetailf("component %q prop %s got %T", f.Name(), name, fn).
				With(slog.String("component", f.Name())))
			continue
		}
		comp.AddEventListener(event, listener)
	}

	frag := comp.Render(props)
	if frag == nil {
		e.report(errors.New("E021").WithDetailf("component %q", f.Name()))
	}
	target.ReplaceWith(frag.Nodes()...)
	e.metrics.RecordMount()
	return nil
}

// Unmount drains the cleanups recorded for n, detaches it and does the same
// for each of its former children, so no subscription in the subtree
// survives.
func (e *Engine) Unmount(n *dom.Node) {
	if n == nil {
		return
	}
	children := n.ChildNodes()

	e.registry.Drain(n)
	n.Remove()
	e.metrics.RecordUnmount()

	for _, c := range children {
		e.Unmount(c)
	}
}
