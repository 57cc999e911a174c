package dom

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Render writes nodes as HTML. Scalar properties are reflected into
// attributes so the output shows live state: a true bool becomes a boolean
// attribute, false removes it, other scalars are stringified. Listeners are
// not rendered.
func Render(w io.Writer, nodes ...*Node) error {
	for _, n := range nodes {
		if err := html.Render(w, toHTML(n)); err != nil {
			return err
		}
	}
	return nil
}

// OuterHTML renders n to a string.
func OuterHTML(n *Node) string {
	var b strings.Builder
	_ = Render(&b, n)
	return b.String()
}

// InnerHTML renders the children of n to a string.
func InnerHTML(n *Node) string {
	var b strings.Builder
	_ = Render(&b, n.children...)
	return b.String()
}

func toHTML(n *Node) *html.Node {
	var hn *html.Node
	switch n.Type {
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Data}
	case CommentNode:
		return &html.Node{Type: html.CommentNode, Data: n.Data}
	default:
		hn = &html.Node{Type: html.ElementNode, Data: n.Tag}
	}

	for _, a := range reflectedAttrs(n) {
		hn.Attr = append(hn.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	for _, c := range n.children {
		hn.AppendChild(toHTML(c))
	}
	return hn
}

func reflectedAttrs(n *Node) []Attribute {
	attrs := n.Attributes()
	if len(n.props) == 0 {
		return attrs
	}

	names := make([]string, 0, len(n.props))
	for k := range n.props {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, name := range names {
		key := strings.ToLower(name)
		switch v := n.props[name].(type) {
		case bool:
			if v {
				attrs = setAttr(attrs, key, "")
			} else {
				attrs = removeAttr(attrs, key)
			}
		case string, int, int64, float64, uint, uint64:
			attrs = setAttr(attrs, key, toString(v))
		}
	}
	return attrs
}

func setAttr(attrs []Attribute, key, val string) []Attribute {
	for i := range attrs {
		if attrs[i].Key == key {
			attrs[i].Val = val
			return attrs
		}
	}
	return append(attrs, Attribute{Key: key, Val: val})
}

func removeAttr(attrs []Attribute, key string) []Attribute {
	for i := range attrs {
		if attrs[i].Key == key {
			return append(attrs[:i], attrs[i+1:]...)
		}
	}
	return attrs
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}
