package dom

import "strings"

// Attribute is one markup attribute. Keys are stored lowercase, as the HTML
// parser produces them.
type Attribute struct {
	Key string
	Val string
}

// Attributes returns a copy of the element's attributes in source order.
func (n *Node) Attributes() []Attribute {
	out := make([]Attribute, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// AttributeNames returns the attribute keys in source order.
func (n *Node) AttributeNames() []string {
	out := make([]string, len(n.attrs))
	for i, a := range n.attrs {
		out[i] = a.Key
	}
	return out
}

// GetAttribute returns the attribute value and whether it is present.
func (n *Node) GetAttribute(key string) (string, bool) {
	key = strings.ToLower(key)
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(key string) bool {
	_, ok := n.GetAttribute(key)
	return ok
}

// SetAttribute sets or replaces an attribute, keeping its position.
func (n *Node) SetAttribute(key, val string) {
	key = strings.ToLower(key)
	for i, a := range n.attrs {
		if a.Key == key {
			n.attrs[i].Val = val
			return
		}
	}
	n.attrs = append(n.attrs, Attribute{Key: key, Val: val})
}

// RemoveAttribute removes an attribute if present.
func (n *Node) RemoveAttribute(key string) {
	key = strings.ToLower(key)
	for i, a := range n.attrs {
		if a.Key == key {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}
