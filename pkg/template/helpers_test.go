package template

import (
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/cellbind/internal/errors"
	"github.com/vango-dev/cellbind/pkg/dom"
)

// testEngine returns an engine with a silent logger and the list of codes it
// reported.
func testEngine(t *testing.T) (*Engine, *[]string) {
	t.Helper()
	var codes []string
	e := New(
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithErrorHandler(func(err error) {
			codes = append(codes, errors.Code(err))
		}),
	)
	return e, &codes
}

// outer renders a fragment's roots.
func outer(f Renderable) string {
	var out string
	for _, n := range f.Nodes() {
		out += dom.OuterHTML(n)
	}
	return out
}

// mountIn puts a fragment's roots into a fresh element in the engine's body.
func mountIn(e *Engine, tag string, f Renderable) *dom.Node {
	host := dom.NewElement(tag)
	host.AppendChild(f.Nodes()...)
	e.Document().Body().AppendChild(host)
	return host
}
