package dom

import "strings"

// NodeType is the node kind discriminator.
type NodeType uint8

const (
	ElementNode NodeType = iota // <div>, <input>, custom tags
	TextNode                    // character data
	CommentNode                 // <!-- ... -->
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Node is a live document node.
type Node struct {
	Type NodeType
	Tag  string // lowercase tag name, elements only
	Data string // text or comment content

	attrs     []Attribute
	props     map[string]any
	listeners map[string][]Listener

	parent   *Node
	children []*Node
}

// NewElement creates a detached element.
func NewElement(tag string, attrs ...Attribute) *Node {
	n := &Node{Type: ElementNode, Tag: strings.ToLower(tag)}
	for _, a := range attrs {
		n.SetAttribute(a.Key, a.Val)
	}
	return n
}

// NewText creates a detached text node.
func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// NewComment creates a detached comment node.
func NewComment(data string) *Node {
	return &Node{Type: CommentNode, Data: data}
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return n != nil && n.Type == ElementNode
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// ChildNodes returns a copy of the children.
func (n *Node) ChildNodes() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// AppendChild appends nodes in order. A node that already has a parent is
// moved.
func (n *Node) AppendChild(nodes ...*Node) {
	for _, c := range nodes {
		c.detach()
		c.parent = n
		n.children = append(n.children, c)
	}
}

// InsertBefore inserts nodes before ref. A nil ref appends.
func (n *Node) InsertBefore(ref *Node, nodes ...*Node) {
	if ref == nil || ref.parent != n {
		n.AppendChild(nodes...)
		return
	}
	for _, c := range nodes {
		if c == ref {
			continue
		}
		c.detach()
		i := n.indexOf(ref)
		c.parent = n
		n.children = append(n.children, nil)
		copy(n.children[i+1:], n.children[i:])
		n.children[i] = c
	}
}

// ReplaceWith puts nodes where n is and detaches n. Like the browser API it
// does nothing when n has no parent.
func (n *Node) ReplaceWith(nodes ...*Node) {
	p := n.parent
	if p == nil {
		return
	}
	// Anchor on the next sibling that is not being inserted, since the
	// replacements may include n's own siblings.
	var next *Node
	moving := make(map[*Node]bool, len(nodes))
	for _, c := range nodes {
		moving[c] = true
	}
	for i := p.indexOf(n) + 1; i < len(p.children); i++ {
		if !moving[p.children[i]] {
			next = p.children[i]
			break
		}
	}
	if !moving[n] {
		n.detach()
	}
	for _, c := range nodes {
		c.detach()
	}
	if next == nil {
		p.AppendChild(nodes...)
		return
	}
	p.InsertBefore(next, nodes...)
}

// Remove detaches n from its parent. Children stay attached to n.
func (n *Node) Remove() {
	n.detach()
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for c := other; c != nil; c = c.parent {
		if c == n {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	switch n.Type {
	case TextNode, CommentNode:
		return n.Data
	}
	var b strings.Builder
	n.Walk(func(c *Node) bool {
		if c.Type == TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// SetTextContent replaces the content of n. For elements all children are
// replaced by a single text node.
func (n *Node) SetTextContent(s string) {
	if n.Type != ElementNode {
		n.Data = s
		return
	}
	for _, c := range n.ChildNodes() {
		c.detach()
	}
	if s != "" {
		n.AppendChild(NewText(s))
	}
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.ChildNodes() {
		c.Walk(fn)
	}
}

// Find returns the first node in document order, starting with n, for which
// match returns true.
func (n *Node) Find(match func(*Node) bool) *Node {
	if match(n) {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every matching node in document order.
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if match(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// ByTag matches elements with the given tag name.
func ByTag(tag string) func(*Node) bool {
	tag = strings.ToLower(tag)
	return func(n *Node) bool {
		return n.Type == ElementNode && n.Tag == tag
	}
}

// ByAttr matches elements carrying the named attribute.
func ByAttr(key string) func(*Node) bool {
	key = strings.ToLower(key)
	return func(n *Node) bool {
		return n.Type == ElementNode && n.HasAttribute(key)
	}
}

// ByAttrValue matches elements whose attribute key equals val.
func ByAttrValue(key, val string) func(*Node) bool {
	key = strings.ToLower(key)
	return func(n *Node) bool {
		if n.Type != ElementNode {
			return false
		}
		v, ok := n.GetAttribute(key)
		return ok && v == val
	}
}

func (n *Node) indexOf(c *Node) int {
	for i, existing := range n.children {
		if existing == c {
			return i
		}
	}
	return -1
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := p.indexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}
