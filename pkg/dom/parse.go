package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses markup as the content of a <body> element and returns the
// detached root nodes. The HTML5 algorithm applies: unknown tags become
// elements, void elements ignore their end tags, and misplaced content may
// be moved or dropped.
func Parse(markup string) ([]*Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, err
	}

	out := make([]*Node, 0, len(parsed))
	for _, hn := range parsed {
		if n := fromHTML(hn); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// fromHTML converts a parsed subtree. Doctypes are dropped.
func fromHTML(hn *html.Node) *Node {
	var n *Node
	switch hn.Type {
	case html.ElementNode:
		n = &Node{Type: ElementNode, Tag: hn.Data}
		for _, a := range hn.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			n.attrs = append(n.attrs, Attribute{Key: key, Val: a.Val})
		}
	case html.TextNode:
		n = NewText(hn.Data)
	case html.CommentNode:
		n = NewComment(hn.Data)
	default:
		return nil
	}

	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if child := fromHTML(c); child != nil {
			n.AppendChild(child)
		}
	}
	return n
}
