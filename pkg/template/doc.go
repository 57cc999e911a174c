// Package template compiles markup with embedded live values into document
// nodes that update in place.
//
// A template is a list of literal parts interleaved with values, the way a
// tagged template literal splits. Values are classified once per compile:
//
//   - string: concatenated verbatim, never escaped
//   - *Fragment or *Chain: spliced in as nodes
//   - func value: an event callback, bound by an on:<event> attribute
//   - *Factory: a component tag name
//   - *reactive.Cell: a text binding in content position, a property binding
//     in attribute position (bind:<prop> makes it two-way)
//   - anything else: fmt.Sprint
//
// Example:
//
//	name := reactive.New("")
//	frag := e.Compile([]string{
//	    `<input bind:value=`, `></input><p>Hello `, `</p><button on:click=`, `>x</button>`,
//	}, name, name, func() { name.Set("") })
//	doc.Body().AppendChild(frag.Nodes()...)
//
// # How it works
//
// Each non-string value is replaced by a marker carrying a random identifier
// (an attribute, a tag name, or an empty element). The resulting markup is
// parsed as HTML and the markers are then found and replaced by live
// bindings, in a fixed order: fragments, components, callbacks, cells.
//
// # Lifetime
//
// Every subscription a binding creates is recorded in the engine's
// cleanup.Registry against the node it lives on. Unmount drains a subtree's
// entries and detaches it. Nodes dropped without Unmount leak their
// subscriptions.
//
// # Errors
//
// Compile never fails. A marker the parser dropped, a callback with an
// unsupported signature, or a factory that cannot build its component is
// reported through the engine's logger, metrics and error handler, and the
// render continues without that binding.
//
// # Threading
//
// An Engine, its document and its cells must be used from one goroutine.
package template
