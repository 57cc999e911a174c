package template

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/vango-dev/cellbind/pkg/dom"
	"github.com/vango-dev/cellbind/pkg/reactive"
)

// valueKind is the tagged-union discriminator for embedded values.
type valueKind uint8

const (
	kindString valueKind = iota
	kindFragment
	kindCallback
	kindFactory
	kindCell
	kindScalar
)

// String returns the kind name used in logs and metrics.
func (k valueKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindFragment:
		return "fragment"
	case kindCallback:
		return "callback"
	case kindFactory:
		return "factory"
	case kindCell:
		return "cell"
	default:
		return "scalar"
	}
}

// value is one classified embedded value. Only the field for its kind is set.
type value struct {
	kind     valueKind
	text     string
	fragment Renderable
	callback any
	factory  *Factory
	cell     reactive.Source
}

// classify resolves the kind of v once, at compile time.
func classify(v any) value {
	switch x := v.(type) {
	case string:
		return value{kind: kindString, text: x}
	case Renderable:
		return value{kind: kindFragment, fragment: x}
	case *Factory:
		return value{kind: kindFactory, factory: x}
	case reactive.Source:
		return value{kind: kindCell, cell: x}
	case nil:
		return value{kind: kindScalar}
	}
	if reflect.TypeOf(v).Kind() == reflect.Func {
		return value{kind: kindCallback, callback: v}
	}
	return value{kind: kindScalar, text: fmt.Sprint(v)}
}

// funcIdentity returns the closure pointer behind a func value held in an
// interface. References to one closure share it, distinct closures of the
// same literal do not, which is what reference identity means for funcs.
func funcIdentity(fn any) unsafe.Pointer {
	type eface struct {
		typ  unsafe.Pointer
		data unsafe.Pointer
	}
	return (*eface)(unsafe.Pointer(&fn)).data
}

// domListener adapts a callback to a native listener.
func domListener(fn any) (dom.Listener, bool) {
	switch f := fn.(type) {
	case dom.Listener:
		return f, true
	case func(*dom.Event):
		return f, true
	case func():
		return func(*dom.Event) { f() }, true
	case func(any):
		return func(e *dom.Event) { f(e) }, true
	}
	return nil, false
}

// componentListener adapts a callback to a component event listener.
func componentListener(event string, fn any) (func(any), bool) {
	switch f := fn.(type) {
	case func(any):
		return f, true
	case func():
		return func(any) { f() }, true
	case dom.Listener:
		return func(data any) { f(asEvent(event, data)) }, true
	case func(*dom.Event):
		return func(data any) { f(asEvent(event, data)) }, true
	}
	return nil, false
}

func asEvent(event string, data any) *dom.Event {
	if ev, ok := data.(*dom.Event); ok {
		return ev
	}
	return &dom.Event{Type: event, Data: data}
}

// displayText renders a cell value for a text binding.
func displayText(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}
