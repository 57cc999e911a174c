package template

import (
	"log/slog"
	"strings"
	"time"
	"unsafe"

	"github.com/vango-dev/cellbind/internal/errors"
	"github.com/vango-dev/cellbind/internal/uid"
	"github.com/vango-dev/cellbind/pkg/dom"
	"github.com/vango-dev/cellbind/pkg/reactive"
)

// Marker names. Identifiers are lowercase hex, so they survive the parser's
// lowercasing of tag and attribute names.
const (
	fragmentAttr   = "data-frag"
	componentTag   = "comp__"
	cellMarker     = "cell__"
	callbackMarker = "cb__"

	eventPrefix = "on:"
	bindPrefix  = "bind:"
)

// placeholders is the per-compile table of embedded values, one ordered map
// per category plus identity indexes for reuse. It never outlives a Compile.
type placeholders struct {
	fragments     map[string]Renderable
	fragmentOrder []string

	callbacks     map[string]any
	callbackOrder []string
	callbackIDs   map[unsafe.Pointer]string
	// consumed holds callbacks handed to components as props.
	consumed map[string]bool

	factories    map[string]*Factory
	factoryOrder []string
	factoryIDs   map[*Factory]string

	cells     map[string]reactive.Source
	cellOrder []string
	cellIDs   map[reactive.Source]string
}

func newPlaceholders() *placeholders {
	return &placeholders{
		fragments:   make(map[string]Renderable),
		callbacks:   make(map[string]any),
		callbackIDs: make(map[unsafe.Pointer]string),
		consumed:    make(map[string]bool),
		factories:   make(map[string]*Factory),
		factoryIDs:  make(map[*Factory]string),
		cells:       make(map[string]reactive.Source),
		cellIDs:     make(map[reactive.Source]string),
	}
}

func (p *placeholders) addFragment(r Renderable) string {
	id := uid.New()
	p.fragments[id] = r
	p.fragmentOrder = append(p.fragmentOrder, id)
	return id
}

func (p *placeholders) addCallback(fn any) string {
	key := funcIdentity(fn)
	if id, ok := p.callbackIDs[key]; ok {
		return id
	}
	id := uid.New()
	p.callbacks[id] = fn
	p.callbackOrder = append(p.callbackOrder, id)
	p.callbackIDs[key] = id
	return id
}

// consumeCallback resolves a component prop value that is a callback
// identifier. The callback stays in the table so native bindings elsewhere
// in the template still resolve.
func (p *placeholders) consumeCallback(id string) (any, bool) {
	fn, ok := p.callbacks[id]
	if ok {
		p.consumed[id] = true
	}
	return fn, ok
}

func (p *placeholders) addFactory(f *Factory) string {
	if id, ok := p.factoryIDs[f]; ok {
		return id
	}
	id := uid.New()
	p.factories[id] = f
	p.factoryOrder = append(p.factoryOrder, id)
	p.factoryIDs[f] = id
	return id
}

func (p *placeholders) addCell(c reactive.Source) string {
	if id, ok := p.cellIDs[c]; ok {
		return id
	}
	id := uid.New()
	p.cells[id] = c
	p.cellOrder = append(p.cellOrder, id)
	p.cellIDs[c] = id
	return id
}

// Compile builds a fragment from literal parts interleaved with values.
// parts should hold one more element than values; missing parts are empty.
func (e *Engine) Compile(parts []string, values ...any) *Fragment {
	start := time.Now()
	defer func() { e.metrics.ObserveCompile(time.Since(start)) }()

	if len(values) == 0 {
		lit := ""
		if len(parts) > 0 {
			lit = parts[0]
		}
		return NewFragment(e.parse(lit)...)
	}

	p := newPlaceholders()
	src := e.build(p, parts, values)

	container := dom.NewElement("body")
	container.AppendChild(e.parse(src)...)

	e.hydrateFragments(container, p)
	e.hydrateComponents(container, p)
	e.hydrateCallbacks(container, p)
	e.hydrateCells(container, p)

	roots := container.ChildNodes()
	for _, n := range roots {
		n.Remove()
	}
	return NewFragment(roots...)
}

func (e *Engine) parse(src string) []*dom.Node {
	nodes, err := dom.Parse(src)
	if err != nil {
		e.logger.Error("markup parse failed", "err", err)
		return nil
	}
	return nodes
}

// build walks the parts and values pairwise, registering placeholders and
// producing the markup to parse.
func (e *Engine) build(p *placeholders, parts []string, values []any) string {
	var m markup
	if len(parts) > 0 {
		m.write(parts[0])
	}

	for i, raw := range values {
		v := classify(raw)
		e.metrics.RecordPlaceholder(v.kind.String())

		switch v.kind {
		case kindString, kindScalar:
			m.write(v.text)

		case kindFragment:
			id := p.addFragment(v.fragment)
			m.writeElement(`<template ` + fragmentAttr + `="` + id + `"></template>`)

		case kindCallback:
			id := p.addCallback(v.callback)
			if m.inAttrValue() {
				m.appendValue(id, callbackMarker+id)
			} else {
				m.write(id)
			}

		case kindFactory:
			id := p.addFactory(v.factory)
			m.write(componentTag + id)

		case kindCell:
			id := p.addCell(v.cell)
			if m.inAttrValue() {
				m.replaceAttr(cellMarker+id, m.attrName())
			} else {
				m.writeElement(`<` + cellMarker + id + `></` + cellMarker + id + `>`)
			}
		}

		if i+1 < len(parts) {
			m.write(parts[i+1])
		}
	}
	return m.String()
}

func (e *Engine) hydrateFragments(root *dom.Node, p *placeholders) {
	for _, id := range p.fragmentOrder {
		marker := root.Find(dom.ByAttrValue(fragmentAttr, id))
		if marker == nil {
			e.logger.Debug("fragment marker not found", "id", id)
			continue
		}
		marker.ReplaceWith(p.fragments[id].Nodes()...)
	}
}

func (e *Engine) hydrateComponents(root *dom.Node, p *placeholders) {
	for _, id := range p.factoryOrder {
		factory := p.factories[id]
		match := dom.ByTag(componentTag + id)

		for el := root.Find(match); el != nil; el = root.Find(match) {
			props := make(Props, len(el.Attributes()))
			for _, a := range el.Attributes() {
				if strings.HasPrefix(a.Key, callbackMarker) {
					continue
				}
				if fn, ok := p.consumeCallback(a.Val); ok {
					props[a.Key] = fn
					continue
				}
				props[a.Key] = a.Val
			}
			if kids := el.ChildNodes(); len(kids) > 0 {
				props[ChildrenProp] = NewFragment(kids...)
			}

			if err := e.Mount(factory, el, props); err != nil {
				e.report(errors.FromError(err, "E002").With(slog.String("id", id)))
				el.Remove()
			}
		}
	}
}

func (e *Engine) hydrateCallbacks(root *dom.Node, p *placeholders) {
	for _, id := range p.callbackOrder {
		fn := p.callbacks[id]
		marker := callbackMarker + id
		match := dom.ByAttr(marker)

		found := 0
		for el := root.Find(match); el != nil; el = root.Find(match) {
			found++
			el.RemoveAttribute(marker)
			e.bindCallback(el, id, fn)
		}
		if found == 0 && !p.consumed[id] {
			e.report(errors.New("E001").
				WithDetailf("callback placeholder %s has no element", id).
				With(slog.String("id", id)))
		}
		delete(p.callbacks, id)
	}
}

// bindCallback strips every attribute of el holding the placeholder id and
// attaches fn for the ones named on:<event>.
func (e *Engine) bindCallback(el *dom.Node, id string, fn any) {
	for _, a := range el.Attributes() {
		if a.Val != id {
			continue
		}
		el.RemoveAttribute(a.Key)

		event, isEvent := strings.CutPrefix(a.Key, eventPrefix)
		if !isEvent {
			continue
		}
		listener, ok := domListener(fn)
		if !ok {
			e.report(errors.New("E003").
				WithDetailf("%s got %T", a.Key, fn).
				With(slog.String("id", id)))
			continue
		}
		el.AddEventListener(event, listener)
	}
}

func (e *Engine) hydrateCells(root *dom.Node, p *placeholders) {
	for _, id := range p.cellOrder {
		cell := p.cells[id]
		name := cellMarker + id
		byAttr, byTag := dom.ByAttr(name), dom.ByTag(name)

		for {
			if el := root.Find(byAttr); el != nil {
				key, _ := el.GetAttribute(name)
				el.RemoveAttribute(name)
				e.bindProperty(el, key, cell)
				continue
			}
			if marker := root.Find(byTag); marker != nil {
				e.bindText(root, marker, cell)
				continue
			}
			break
		}
	}
}

// bindProperty binds cell to a property of el. A bind:<prop> key also pushes
// the element's value back into the cell on every input event.
func (e *Engine) bindProperty(el *dom.Node, key string, cell reactive.Source) {
	prop, twoWay := strings.CutPrefix(key, bindPrefix)

	el.SetProperty(prop, cell.Value())
	if twoWay {
		el.AddEventListener("input", func(*dom.Event) {
			if err := cell.SetValue(el.Property(prop)); err != nil {
				e.report(errors.New("E004").
					WithDetailf("property %q", prop).
					Wrap(err))
			}
		})
	}
	e.registry.Record(el, cell.WatchValue(func(v any) {
		el.SetProperty(prop, v)
	}))
}

// bindText replaces a content marker with a text node that follows cell.
// The subscription belongs to the text node's parent, or to the text node
// itself when it ends up as a fragment root.
func (e *Engine) bindText(root, marker *dom.Node, cell reactive.Source) {
	text := dom.NewText(displayText(cell.Value()))
	marker.ReplaceWith(text)

	owner := text.Parent()
	if owner == nil || owner == root {
		owner = text
	}
	e.registry.Record(owner, cell.WatchValue(func(v any) {
		text.SetTextContent(displayText(v))
	}))
}
