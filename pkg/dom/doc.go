// Package dom provides the live document tree that templates render into.
//
// Unlike a virtual DOM, these nodes are the document: bindings mutate them in
// place and nothing is ever diffed. A Node is an element, a text node or a
// comment, linked to its parent and ordered children.
//
// # Elements
//
// Elements carry ordered attributes (the markup view), properties (the live
// view, e.g. an input's current "value") and event listeners:
//
//	input := dom.NewElement("input", dom.Attribute{Key: "value", Val: "hi"})
//	input.Property("value")           // "hi", reflected from the attribute
//	input.SetProperty("value", "bye") // attribute untouched
//	input.AddEventListener("input", func(e *dom.Event) { ... })
//	input.DispatchEvent(dom.NewEvent("input"))
//
// # Markup
//
// Parse turns HTML into detached root nodes and Render writes nodes back out,
// both through golang.org/x/net/html.
//
// # Threading
//
// Nodes are not safe for concurrent use.
package dom
