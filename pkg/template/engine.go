package template

import (
	"log/slog"
	"sync"

	"github.com/vango-dev/cellbind/internal/errors"
	"github.com/vango-dev/cellbind/internal/telemetry"
	"github.com/vango-dev/cellbind/pkg/cleanup"
	"github.com/vango-dev/cellbind/pkg/dom"
)

// Engine compiles templates and owns the state their bindings share: the
// document, the cleanup registry, and the reporting sinks.
type Engine struct {
	doc      *dom.Document
	registry *cleanup.Registry
	logger   *slog.Logger
	metrics  *telemetry.Metrics
	onError  func(error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithDocument sets the document used for focus and deferred tasks.
func WithDocument(doc *dom.Document) Option {
	return func(e *Engine) {
		e.doc = doc
	}
}

// WithRegistry sets the cleanup registry.
func WithRegistry(r *cleanup.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMetrics sets the Prometheus collectors.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithErrorHandler sets a func that receives every reported diagnostic.
func WithErrorHandler(fn func(error)) Option {
	return func(e *Engine) {
		e.onError = fn
	}
}

// New creates an engine. Without options it gets a fresh document, an empty
// registry and slog.Default.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.doc == nil {
		e.doc = dom.NewDocument()
	}
	if e.registry == nil {
		e.registry = cleanup.NewRegistry()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.metrics != nil && e.registry.OnChange == nil {
		e.registry.OnChange = e.metrics.SetCleanupEntries
	}
	return e
}

var defaultEngine = sync.OnceValue(func() *Engine { return New() })

// Default returns the process-wide engine, created empty on first use.
func Default() *Engine {
	return defaultEngine()
}

// Document returns the engine's document.
func (e *Engine) Document() *dom.Document {
	return e.doc
}

// Registry returns the engine's cleanup registry.
func (e *Engine) Registry() *cleanup.Registry {
	return e.registry
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

// Render compiles a deferred template.
func (e *Engine) Render(t Template) *Fragment {
	return e.Compile(t.Parts, t.Values...)
}

// report logs, counts and forwards a non-fatal diagnostic.
func (e *Engine) report(err *errors.Error) {
	e.metrics.RecordDiagnostic(err.Code)
	e.logger.Warn("template diagnostic", "err", err)
	if e.onError != nil {
		e.onError(err)
	}
}
