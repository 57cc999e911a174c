package template

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/cellbind/pkg/dom"
	"github.com/vango-dev/cellbind/pkg/reactive"
)

func texts(n *dom.Node) []string {
	var out []string
	for _, c := range n.ChildNodes() {
		out = append(out, dom.OuterHTML(c))
	}
	return out
}

func TestEachStatic(t *testing.T) {
	e, _ := testEngine(t)

	tests := []struct {
		name  string
		items []string
		fn    func(string, int) any
		want  string
	}{
		{
			name:  "fragments",
			items: []string{"a", "b"},
			fn: func(s string, i int) any {
				return e.Compile([]string{"<li>", ":", "</li>"}, i, s)
			},
			want: "<li>0:a</li><li>1:b</li>",
		},
		{
			name:  "markup strings",
			items: []string{"x"},
			fn:    func(s string, _ int) any { return "<b>" + s + "</b>" },
			want:  "<b>x</b>",
		},
		{
			name:  "text",
			items: []string{"x", "y"},
			fn:    func(s string, i int) any { return i },
			want:  "01",
		},
		{
			name:  "empty",
			items: nil,
			fn:    func(s string, _ int) any { return s },
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer(Each(e, tt.items, tt.fn)); got != tt.want {
				t.Errorf("html = %q, want %q", got, tt.want)
			}
		})
	}
}

func item(e *Engine) func(string, int) any {
	return func(s string, _ int) any {
		return e.Compile([]string{"<li>", "</li>"}, s)
	}
}

func TestEachCellFullReplace(t *testing.T) {
	e, _ := testEngine(t)
	items := reactive.New([]string{"a", "b"})

	ul := mountIn(e, "ul", EachCell(e, items, item(e)))
	old := ul.ChildNodes()

	if e.Registry().Len() != 1 || !e.Registry().Has(old[0]) {
		t.Fatal("list subscription not owned by the first node")
	}

	items.Set([]string{"x", "y", "z"})

	if diff := cmp.Diff([]string{"<li>x</li>", "<li>y</li>", "<li>z</li>"}, texts(ul)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	for _, n := range old {
		if n.Parent() != nil {
			t.Errorf("old node %s still attached", dom.OuterHTML(n))
		}
	}
	if items.Len() != 1 {
		t.Errorf("cell has %d watchers, want the list subscription only", items.Len())
	}
	if e.Registry().Len() != 1 || !e.Registry().Has(ul.FirstChild()) {
		t.Errorf("subscription not moved to the new first node")
	}
}

func TestEachCellEmptyAnchor(t *testing.T) {
	e, _ := testEngine(t)
	items := reactive.New([]string(nil))

	f := EachCell(e, items, item(e))
	if got := outer(f); got != "<template></template>" {
		t.Fatalf("html = %q, want a template anchor", got)
	}

	ul := mountIn(e, "ul", f)
	items.Set([]string{"a"})
	items.Set(nil)

	if diff := cmp.Diff([]string{"<template></template>"}, texts(ul)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	items.Set([]string{"b"})
	if diff := cmp.Diff([]string{"<li>b</li>"}, texts(ul)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
}

func TestEachCellDrainsRowBindings(t *testing.T) {
	e, _ := testEngine(t)
	done := reactive.New(false)
	rows := reactive.New([]int{1, 2})

	ul := mountIn(e, "ul", EachCell(e, rows, func(n int, _ int) any {
		return e.Compile([]string{`<li><input type="checkbox" bind:checked=`, `></li>`}, done)
	}))

	if done.Len() != 2 {
		t.Fatalf("row cell has %d watchers, want 2", done.Len())
	}

	rows.Set([]int{3})
	if done.Len() != 1 {
		t.Errorf("row cell has %d watchers after rerender, want 1", done.Len())
	}
	// list subscription on <li> plus one row binding on <input>
	if e.Registry().Len() != 2 {
		t.Errorf("Registry().Len() = %d, want 2", e.Registry().Len())
	}

	e.Unmount(ul)
	if done.Len() != 0 || rows.Len() != 0 {
		t.Errorf("watchers after Unmount: row=%d list=%d, want 0", done.Len(), rows.Len())
	}
	if e.Registry().Len() != 0 {
		t.Errorf("Registry().Len() = %d after Unmount, want 0", e.Registry().Len())
	}
}

func TestEachCellStopsAfterUnmount(t *testing.T) {
	e, _ := testEngine(t)
	items := reactive.New([]string{"a"})
	renders := 0

	ul := mountIn(e, "ul", EachCell(e, items, func(s string, i int) any {
		renders++
		return item(e)(s, i)
	}))
	items.Set([]string{"b"})
	e.Unmount(ul)
	items.Set([]string{"c"})

	if renders != 2 {
		t.Errorf("rendered %d times, want 2", renders)
	}
}

func TestEachCellRestoresFocus(t *testing.T) {
	e, _ := testEngine(t)
	doc := e.Document()
	items := reactive.New([]string{"a"})

	input := dom.NewElement("input")
	doc.Body().AppendChild(input)
	mountIn(e, "ul", EachCell(e, items, item(e)))

	doc.Focus(input)
	focused := 0
	input.AddEventListener("focus", func(*dom.Event) { focused++ })

	items.Set([]string{"b"})
	if doc.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", doc.Pending())
	}
	doc.RunDeferred()

	if doc.ActiveElement() != input || focused != 1 {
		t.Errorf("focus not restored: active=%v focus events=%d", doc.ActiveElement(), focused)
	}
}

func TestEachCellFocusedRowGone(t *testing.T) {
	e, _ := testEngine(t)
	doc := e.Document()
	items := reactive.New([]string{"a"})

	ul := mountIn(e, "ul", EachCell(e, items, item(e)))
	doc.Focus(ul.FirstChild())

	items.Set([]string{"b"})
	if doc.Pending() != 0 {
		t.Errorf("Pending() = %d, want no restore for a removed element", doc.Pending())
	}
}
