package dom

// booleanProps reflect attribute presence rather than the attribute value.
var booleanProps = map[string]bool{
	"checked":  true,
	"disabled": true,
	"selected": true,
	"hidden":   true,
	"readonly": true,
	"required": true,
	"multiple": true,
	"open":     true,
}

// Property returns the live property. An element property that was never set
// reflects its attribute: presence for boolean properties, the attribute
// string otherwise, nil when absent.
func (n *Node) Property(name string) any {
	if v, ok := n.props[name]; ok {
		return v
	}
	if n.Type != ElementNode {
		return nil
	}
	if booleanProps[name] {
		return n.HasAttribute(name)
	}
	if v, ok := n.GetAttribute(name); ok {
		return v
	}
	return nil
}

// SetProperty sets a live property. Attributes are not touched, except that
// "textContent" replaces the element's children.
func (n *Node) SetProperty(name string, v any) {
	if name == "textContent" {
		n.SetTextContent(toString(v))
		return
	}
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = v
}

// Properties returns a copy of the explicitly set properties.
func (n *Node) Properties() map[string]any {
	out := make(map[string]any, len(n.props))
	for k, v := range n.props {
		out[k] = v
	}
	return out
}
