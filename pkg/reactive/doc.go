// Package reactive provides the mutable value cells that drive template
// bindings.
//
// A Cell holds one value and an ordered list of subscribers:
//
//	name := reactive.New("")
//	stop := name.Watch(func(v string) { fmt.Println("name is", v) })
//	name.Set("ada")                                   // prints "name is ada"
//	name.Update(func(v string) string { return v + "!" })
//	stop()
//
// Every subscriber runs exactly once per Set or Update, in the order it was
// registered, after the new value is already stored. There is no equality
// check, no deduplication and no batching: N writes produce N fan-outs.
//
// # Threading
//
// Cells are not safe for concurrent use. The template engine runs on a single
// goroutine and hosts that touch cells from several goroutines must serialize
// access themselves.
package reactive
