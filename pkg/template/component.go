package template

import (
	"fmt"

	"github.com/vango-dev/cellbind/internal/errors"
)

// ChildrenProp is the prop that carries the content written between a
// component's open and close tags.
const ChildrenProp = "children"

// Props are the attributes of a component tag. Values are strings, or the
// callback when the attribute held one.
type Props map[string]any

// String returns the prop as a string, or "" if absent or not a string.
func (p Props) String(name string) string {
	s, _ := p[name].(string)
	return s
}

// Children returns the content fragment, or nil.
func (p Props) Children() *Fragment {
	f, _ := p[ChildrenProp].(*Fragment)
	return f
}

// Component is a stateful UI unit mounted through a template tag.
type Component interface {
	// Render produces the component's nodes for the given props.
	Render(props Props) *Fragment

	// AddEventListener appends a listener for a component event.
	AddEventListener(event string, fn func(any))

	// Emit calls every listener for event, in registration order.
	Emit(event string, data any)
}

// engineBinder is implemented by components that embed Emitter.
type engineBinder interface {
	bindEngine(e *Engine)
}

// Emitter is the embeddable base for components. It implements the event
// half of Component and gives Render access to the mounting engine.
type Emitter struct {
	listeners map[string][]func(any)
	engine    *Engine
}

// AddEventListener appends fn; listeners are never replaced.
func (em *Emitter) AddEventListener(event string, fn func(any)) {
	if em.listeners == nil {
		em.listeners = make(map[string][]func(any))
	}
	em.listeners[event] = append(em.listeners[event], fn)
}

// Emit calls the listeners for event synchronously, in registration order.
func (em *Emitter) Emit(event string, data any) {
	for _, fn := range em.listeners[event] {
		fn(data)
	}
}

// ListenerCount returns the number of listeners for event.
func (em *Emitter) ListenerCount(event string) int {
	return len(em.listeners[event])
}

// Engine returns the engine that mounted the component, or Default when it
// was built outside a mount.
func (em *Emitter) Engine() *Engine {
	if em.engine == nil {
		return Default()
	}
	return em.engine
}

func (em *Emitter) bindEngine(e *Engine) {
	em.engine = e
}

// Factory constructs a component. Factories are compared by pointer, so use
// one Factory value for both the open and the close tag of a component.
type Factory struct {
	name  string
	build func(*Engine) Component
}

// Define creates a factory from a constructor.
func Define(name string, build func(*Engine) Component) *Factory {
	return &Factory{name: name, build: build}
}

// DefineType creates a factory that allocates a zero T per mount. T's
// pointer must implement Component, typically by embedding Emitter.
func DefineType[T any, PT interface {
	*T
	Component
}](name string) *Factory {
	return Define(name, func(*Engine) Component { return PT(new(T)) })
}

// Name returns the factory name used in diagnostics.
func (f *Factory) Name() string {
	if f == nil {
		return ""
	}
	return f.name
}

// construct builds a component. A nil factory, a nil result or a panic in
// the constructor is a malformed factory.
func (f *Factory) construct(e *Engine) (c Component, err error) {
	if f == nil || f.build == nil {
		return nil, errors.New("E002").WithDetail("factory has no constructor")
	}
	defer func() {
		if r := recover(); r != nil {
			c = nil
			err = errors.New("E002").
				WithDetailf("factory %q panicked", f.name).
				Wrap(fmt.Errorf("%v", r))
		}
	}()

	c = f.build(e)
	if c == nil {
		return nil, errors.New("E002").WithDetailf("factory %q returned nil", f.name)
	}
	if b, ok := c.(engineBinder); ok {
		b.bindEngine(e)
	}
	return c, nil
}
