package todo

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/cellbind/pkg/dom"
	"github.com/vango-dev/cellbind/pkg/template"
)

type page struct {
	app  *App
	e    *template.Engine
	body *dom.Node
}

func newPage(t *testing.T, logger *slog.Logger) *page {
	t.Helper()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e := template.New(template.WithLogger(logger))
	app := New(e)
	body := e.Document().Body()
	body.AppendChild(app.Render().Nodes()...)
	return &page{app: app, e: e, body: body}
}

func (p *page) byID(t *testing.T, id string) *dom.Node {
	t.Helper()
	n := p.body.Find(dom.ByAttrValue("id", id))
	if n == nil {
		t.Fatalf("no element with id %q", id)
	}
	return n
}

func (p *page) add(t *testing.T, text string) {
	t.Helper()
	input := p.byID(t, "draft")
	input.SetProperty("value", text)
	input.DispatchEvent(dom.NewEvent("input"))
	p.byID(t, "add").DispatchEvent(dom.NewEvent("click"))
}

func (p *page) rows(t *testing.T) []string {
	t.Helper()
	var out []string
	for _, li := range p.byID(t, "items").FindAll(dom.ByTag("li")) {
		out = append(out, strings.TrimSuffix(li.TextContent(), "X"))
	}
	return out
}

func click(n *dom.Node) {
	n.DispatchEvent(dom.NewEvent("click"))
}

func TestRenderEmpty(t *testing.T) {
	p := newPage(t, nil)

	ul := p.byID(t, "items")
	if got := dom.InnerHTML(ul); got != "<template></template>" {
		t.Errorf("empty list html = %q", got)
	}
	if h1 := p.body.Find(dom.ByTag("h1")); h1 == nil || h1.TextContent() != "Todos" {
		t.Error("toolbar title not rendered")
	}
}

func TestAddAndRemove(t *testing.T) {
	p := newPage(t, nil)

	p.add(t, "milk")
	p.add(t, "eggs")
	p.add(t, "<b>bread</b>")

	if diff := cmp.Diff([]string{"milk", "eggs", "<b>bread</b>"}, p.rows(t)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	first := p.app.Items.Get()[0]
	remove := p.byID(t, "items").FindAll(dom.ByAttrValue("class", "remove"))
	click(remove[0])

	if diff := cmp.Diff([]string{"eggs", "<b>bread</b>"}, p.rows(t)); diff != "" {
		t.Errorf("rows after remove mismatch (-want +got):\n%s", diff)
	}
	if first.Completed.Len() != 0 {
		t.Errorf("removed item's cell has %d watchers, want 0", first.Completed.Len())
	}
}

func TestToggleAndClear(t *testing.T) {
	p := newPage(t, nil)
	p.add(t, "a")
	p.add(t, "b")

	box := p.byID(t, "items").Find(dom.ByAttrValue("type", "checkbox"))
	box.SetProperty("checked", true)
	box.DispatchEvent(dom.NewEvent("input"))

	want := []State{{Text: "a", Completed: true}, {Text: "b"}}
	if diff := cmp.Diff(want, p.app.States()); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}

	click(p.byID(t, "clear"))
	if diff := cmp.Diff([]string{"b"}, p.rows(t)); diff != "" {
		t.Errorf("rows after clear mismatch (-want +got):\n%s", diff)
	}
}

func TestRestore(t *testing.T) {
	p := newPage(t, nil)

	p.app.Restore([]State{{Text: "x", Completed: true}, {Text: "y"}})

	if diff := cmp.Diff([]string{"x", "y"}, p.rows(t)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	box := p.byID(t, "items").Find(dom.ByAttrValue("type", "checkbox"))
	if box.Property("checked") != true {
		t.Error("restored item not checked")
	}
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	p := newPage(t, slog.New(slog.NewTextHandler(&buf, nil)))
	p.add(t, "milk")

	click(p.byID(t, "log"))

	if !strings.Contains(buf.String(), "msg=todos") || !strings.Contains(buf.String(), "milk") {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestUnmountReleasesEverything(t *testing.T) {
	p := newPage(t, nil)
	p.add(t, "a")

	item := p.app.Items.Get()[0]
	main := p.body.FirstChild()
	p.e.Unmount(main)

	if p.e.Registry().Len() != 0 {
		t.Errorf("Registry().Len() = %d, want 0", p.e.Registry().Len())
	}
	if p.app.Items.Len() != 0 || p.app.Draft.Len() != 0 || item.Completed.Len() != 0 {
		t.Errorf("watchers left: items=%d draft=%d completed=%d",
			p.app.Items.Len(), p.app.Draft.Len(), item.Completed.Len())
	}
}
