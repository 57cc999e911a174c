package dom

// Document is the hosting environment for a live tree: the body root, the
// focused element and a queue of deferred tasks.
type Document struct {
	body     *Node
	active   *Node
	deferred []func()
}

// NewDocument creates a document with an empty body.
func NewDocument() *Document {
	return &Document{body: NewElement("body")}
}

// Body returns the root element.
func (d *Document) Body() *Node {
	return d.body
}

// Focus makes n the active element. Nodes outside the body are ignored.
func (d *Document) Focus(n *Node) {
	if n == nil || !d.body.Contains(n) {
		return
	}
	d.active = n
	n.DispatchEvent(NewEvent("focus"))
}

// ActiveElement returns the focused element, or nil once it has left the
// body.
func (d *Document) ActiveElement() *Node {
	if d.active == nil || !d.body.Contains(d.active) {
		return nil
	}
	return d.active
}

// Defer schedules fn to run on the next RunDeferred. There is no cancellation
// and no ordering against mutations made in between.
func (d *Document) Defer(fn func()) {
	d.deferred = append(d.deferred, fn)
}

// Pending returns the number of queued tasks.
func (d *Document) Pending() int {
	return len(d.deferred)
}

// RunDeferred drains the task queue, including tasks queued while draining,
// and returns how many ran.
func (d *Document) RunDeferred() int {
	ran := 0
	for len(d.deferred) > 0 {
		tasks := d.deferred
		d.deferred = nil
		for _, fn := range tasks {
			fn()
			ran++
		}
	}
	return ran
}
