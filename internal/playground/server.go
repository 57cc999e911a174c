// Package playground serves the to-do demo's live document over HTTP. The
// browser shows the server-side tree, forwards its events over a WebSocket
// (or POST /events) and receives the re-rendered markup after every event.
//
// The document is owned by one engine and is not safe for concurrent use, so
// every access goes through a single mutex.
package playground

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"

	cberrors "github.com/vango-dev/cellbind/internal/errors"
	"github.com/vango-dev/cellbind/internal/snapshot"
	"github.com/vango-dev/cellbind/internal/telemetry"
	"github.com/vango-dev/cellbind/internal/todo"
	"github.com/vango-dev/cellbind/pkg/dom"
	"github.com/vango-dev/cellbind/pkg/template"
)

// Event is a browser event forwarded to the document.
type Event struct {
	// Target is "#id" or a slash-separated child index path from the body,
	// e.g. "0/3/1". Empty targets the body.
	Target string `json:"target"`

	// Type is the DOM event type.
	Type string `json:"type"`

	// Property, when set, is assigned Value before dispatch, so an input
	// event carries the element's new value or checked state.
	Property string `json:"property,omitempty"`
	Value    any    `json:"value,omitempty"`

	// Data is passed as the event payload.
	Data any `json:"data,omitempty"`
}

// Options configures a Server.
type Options struct {
	Title       string
	Logger      *slog.Logger
	MetricsPath string

	// Registry receives the engine collectors and backs the metrics
	// endpoint. Nil disables metrics.
	Registry *prometheus.Registry

	// Store enables the snapshot endpoints.
	Store snapshot.Store
}

// Server hosts one live document.
type Server struct {
	opts    Options
	logger  *slog.Logger
	metrics *telemetry.Metrics
	hub     *hub

	mu     sync.Mutex
	engine *template.Engine
	app    *todo.App
}

// New creates a server with a freshly rendered to-do app.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Title == "" {
		opts.Title = "cellbind playground"
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	var metrics *telemetry.Metrics
	if opts.Registry != nil {
		metrics = telemetry.NewMetrics(telemetry.WithRegistry(opts.Registry))
	}

	engine := template.New(
		template.WithLogger(opts.Logger),
		template.WithMetrics(metrics),
	)
	app := todo.New(engine)
	engine.Document().Body().AppendChild(app.Render().Nodes()...)

	return &Server{
		opts:    opts,
		logger:  opts.Logger.With("component", "playground"),
		metrics: metrics,
		hub:     newHub(metrics),
		engine:  engine,
		app:     app,
	}
}

// App returns the demo app. Callers must not touch it while the server is
// handling requests.
func (s *Server) App() *todo.App {
	return s.app
}

// Clients returns the number of connected WebSocket clients.
func (s *Server) Clients() int {
	return s.hub.count()
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/body", s.handleBody)
	r.Post("/events", s.handleEvent)
	r.Get("/ws", s.handleWebSocket)

	if s.opts.Registry != nil {
		r.Handle(s.opts.MetricsPath, promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{}))
	}
	if s.opts.Store != nil {
		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", s.handleListSnapshots)
			r.Post("/", s.handleCreateSnapshot)
			r.Get("/{id}", s.handleGetSnapshot)
		})
	}
	return r
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("playground listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.hub.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Body renders the document body.
func (s *Server) Body() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dom.InnerHTML(s.engine.Document().Body())
}

// Dispatch applies ev to the document, runs deferred tasks and returns the
// new body markup.
func (s *Server) Dispatch(ctx context.Context, ev Event) (html string, err error) {
	_, span := telemetry.StartSpan(ctx, "playground.dispatch",
		attribute.String("event.type", ev.Type),
		attribute.String("event.target", ev.Target))
	defer func() {
		s.metrics.RecordEvent(ev.Type, err)
		telemetry.EndSpan(span, err)
	}()

	if ev.Type == "" {
		return "", cberrors.New("E141").WithDetail("event type is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.engine.Document()
	el, err := resolve(doc.Body(), ev.Target)
	if err != nil {
		return "", err
	}

	if ev.Property != "" {
		el.SetProperty(ev.Property, ev.Value)
	}
	if ev.Type == "focus" {
		doc.Focus(el)
	} else {
		e := dom.NewEvent(ev.Type)
		e.Data = ev.Data
		el.DispatchEvent(e)
	}
	doc.RunDeferred()

	s.logger.Debug("event dispatched", "type", ev.Type, "target", ev.Target)
	return dom.InnerHTML(doc.Body()), nil
}

// resolve finds the node an event target names.
func resolve(body *dom.Node, target string) (*dom.Node, error) {
	if id, ok := strings.CutPrefix(target, "#"); ok {
		if n := body.Find(dom.ByAttrValue("id", id)); n != nil {
			return n, nil
		}
		return nil, cberrors.New("E140").WithDetailf("no element with id %q", id)
	}

	n := body
	if target == "" {
		return n, nil
	}
	for _, part := range strings.Split(target, "/") {
		i, err := strconv.Atoi(part)
		if err != nil {
			return nil, cberrors.New("E141").WithDetailf("bad path segment %q", part)
		}
		kids := n.ChildNodes()
		if i < 0 || i >= len(kids) {
			return nil, cberrors.New("E140").WithDetailf("path %s leaves the tree", target)
		}
		n = kids[i]
	}
	return n, nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(Page(s.opts.Title, s.Body())))
}

func (s *Server) handleBody(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(s.Body()))
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, cberrors.New("E141").Wrap(err))
		return
	}

	html, err := s.Dispatch(r.Context(), ev)
	if err != nil {
		writeError(w, err)
		return
	}
	s.hub.broadcast(Message{Type: TypeRender, HTML: html})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// handleWebSocket reads events until the client disconnects. Each event's
// result is broadcast to every client; errors go back to the sender only.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.hub.add(conn)
	defer s.hub.remove(conn)

	if err := s.hub.send(conn, Message{Type: TypeRender, HTML: s.Body()}); err != nil {
		return
	}

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				_ = s.hub.send(conn, errorMessage(cberrors.New("E141").Wrap(err)))
				continue
			}
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read failed", "err", err)
			}
			return
		}

		html, err := s.Dispatch(r.Context(), ev)
		if err != nil {
			s.logger.Warn("event failed", "err", err)
			_ = s.hub.send(conn, errorMessage(err))
			continue
		}
		s.hub.broadcast(Message{Type: TypeRender, HTML: html})
	}
}

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := snapshot.Capture(s.engine, s.app)
	s.mu.Unlock()

	if err := s.opts.Store.Put(r.Context(), snap); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": snap.ID})
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	ids, err := s.opts.Store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.opts.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func errorMessage(err error) Message {
	return Message{Type: TypeError, Error: err.Error(), Code: cberrors.Code(err)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps coded errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch cberrors.Code(err) {
	case "E140":
		status = http.StatusNotFound
	case "E141":
		status = http.StatusBadRequest
	case "E130", "E131":
		status = http.StatusBadGateway
	}
	if errors.Is(err, fs.ErrNotExist) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorMessage(err))
}
