package template

import "github.com/vango-dev/cellbind/pkg/dom"

// Chain is one link of a conditional. Every link resolves to the result of
// the whole chain up to and including itself: the first branch, in
// construction order, whose condition is true. Links are never mutated after
// construction, so ElseIf and Else return new links.
type Chain struct {
	e    *Engine
	prev *Chain
	cond bool
	tmpl Template

	resolved bool
	nodes    []*dom.Node
}

// If starts a conditional. t is compiled only if its branch wins.
func (e *Engine) If(cond bool, t Template) *Chain {
	return &Chain{e: e, cond: cond, tmpl: t}
}

// ElseIf appends a branch taken when no earlier branch matched and cond is
// true.
func (c *Chain) ElseIf(cond bool, t Template) *Chain {
	return &Chain{e: c.e, prev: c, cond: cond, tmpl: t}
}

// Else appends a branch taken when no earlier branch matched.
func (c *Chain) Else(t Template) *Chain {
	return c.ElseIf(true, t)
}

// Nodes resolves the chain on first use and returns the winning branch's
// nodes. With no true branch the result is empty.
func (c *Chain) Nodes() []*dom.Node {
	if !c.resolved {
		c.nodes = c.resolve()
		c.resolved = true
	}
	out := make([]*dom.Node, len(c.nodes))
	copy(out, c.nodes)
	return out
}

func (c *Chain) resolve() []*dom.Node {
	var links []*Chain
	for l := c; l != nil; l = l.prev {
		links = append(links, l)
	}
	for i := len(links) - 1; i >= 0; i-- {
		if links[i].cond {
			return c.e.Render(links[i].tmpl).Nodes()
		}
	}
	return nil
}

func (c *Chain) renderable() {}
