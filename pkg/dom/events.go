package dom

// Event is a dispatched event.
type Event struct {
	Type string

	// Target is the node the event was dispatched on.
	Target *Node

	// CurrentTarget is the node whose listeners are running.
	CurrentTarget *Node

	// Data carries an optional payload, e.g. a key name.
	Data any

	stopped bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// StopPropagation keeps the event from bubbling past the current node.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Listener handles an event.
type Listener func(*Event)

// AddEventListener appends a listener for typ. Listeners are never replaced.
func (n *Node) AddEventListener(typ string, fn Listener) {
	if n.listeners == nil {
		n.listeners = make(map[string][]Listener)
	}
	n.listeners[typ] = append(n.listeners[typ], fn)
}

// ListenerCount returns the number of listeners registered for typ.
func (n *Node) ListenerCount(typ string) int {
	return len(n.listeners[typ])
}

// EventTypes returns the event types that have listeners on n.
func (n *Node) EventTypes() []string {
	out := make([]string, 0, len(n.listeners))
	for typ, ls := range n.listeners {
		if len(ls) > 0 {
			out = append(out, typ)
		}
	}
	return out
}

// DispatchEvent runs the listeners of n and then of each ancestor, in
// registration order, until one calls StopPropagation.
func (n *Node) DispatchEvent(e *Event) {
	e.Target = n
	for cur := n; cur != nil && !e.stopped; cur = cur.parent {
		ls := cur.listeners[e.Type]
		if len(ls) == 0 {
			continue
		}
		e.CurrentTarget = cur
		snapshot := make([]Listener, len(ls))
		copy(snapshot, ls)
		for _, fn := range snapshot {
			fn(e)
		}
	}
	e.CurrentTarget = nil
}
