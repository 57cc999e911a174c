package reactive

// watcher is one subscription entry. The pointer identity is what Cancel
// removes, so the same func registered twice stays two entries.
type watcher[T any] struct {
	fn func(T)
}

// Cell is a reactive value container.
type Cell[T any] struct {
	id       uint64
	value    T
	watchers []*watcher[T]
}

// New creates a cell holding initial.
func New[T any](initial T) *Cell[T] {
	return &Cell[T]{
		id:    nextID(),
		value: initial,
	}
}

// ID returns the cell's process-unique identifier.
func (c *Cell[T]) ID() uint64 {
	return c.id
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	return c.value
}

// Set replaces the value and notifies every subscriber in registration order.
func (c *Cell[T]) Set(value T) {
	c.value = value
	c.notify()
}

// Update replaces the value with fn applied to the previous value, then
// notifies like Set.
func (c *Cell[T]) Update(fn func(T) T) {
	c.value = fn(c.value)
	c.notify()
}

// Watch registers fn to be called with the new value after every change.
// The returned func removes exactly this registration; calling it again is a
// no-op.
func (c *Cell[T]) Watch(fn func(T)) (cancel func()) {
	w := &watcher[T]{fn: fn}
	c.watchers = append(c.watchers, w)

	done := false
	return func() {
		if done {
			return
		}
		done = true
		c.unwatch(w)
	}
}

// Len returns the number of live subscriptions.
func (c *Cell[T]) Len() int {
	return len(c.watchers)
}

func (c *Cell[T]) unwatch(w *watcher[T]) {
	for i, existing := range c.watchers {
		if existing == w {
			// Order matters here, unlike a swap-remove.
			c.watchers = append(c.watchers[:i:i], c.watchers[i+1:]...)
			return
		}
	}
}

// notify fans the current value out to a snapshot of the subscriber list, so
// subscribers that cancel or register during the fan-out do not disturb it.
func (c *Cell[T]) notify() {
	if len(c.watchers) == 0 {
		return
	}
	subs := make([]*watcher[T], len(c.watchers))
	copy(subs, c.watchers)

	for _, w := range subs {
		w.fn(c.value)
	}
}
