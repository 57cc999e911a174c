package playground

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/cellbind/internal/snapshot"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	store, err := snapshot.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := New(Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registry: prometheus.NewRegistry(),
		Store:    store,
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postEvent(t *testing.T, ts *httptest.Server, ev Event) (int, string) {
	t.Helper()
	data, _ := json.Marshal(ev)
	resp, err := http.Post(ts.URL+"/events", "application/json", strings.NewReader(string(data)))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestPage(t *testing.T) {
	_, ts := newTestServer(t)

	code, body := get(t, ts.URL+"/")
	if code != http.StatusOK {
		t.Fatalf("GET / status = %d", code)
	}
	for _, want := range []string{"<title>cellbind playground</title>", "Add Todo", "new WebSocket"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestEvents(t *testing.T) {
	s, ts := newTestServer(t)

	code, _ := postEvent(t, ts, Event{Target: "#draft", Type: "input", Property: "value", Value: "milk"})
	if code != http.StatusOK {
		t.Fatalf("input status = %d", code)
	}
	code, body := postEvent(t, ts, Event{Target: "#add", Type: "click"})
	if code != http.StatusOK {
		t.Fatalf("click status = %d", code)
	}
	if !strings.Contains(body, "milk") {
		t.Errorf("body after add = %q", body)
	}
	if got := s.App().States(); len(got) != 1 || got[0].Text != "milk" {
		t.Errorf("States() = %+v", got)
	}
}

func TestEventErrors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name string
		ev   Event
		code int
		err  string
	}{
		{"unknown id", Event{Target: "#nope", Type: "click"}, http.StatusNotFound, "E140"},
		{"path out of range", Event{Target: "0/99", Type: "click"}, http.StatusNotFound, "E140"},
		{"bad path", Event{Target: "0/x", Type: "click"}, http.StatusBadRequest, "E141"},
		{"no type", Event{Target: "#add"}, http.StatusBadRequest, "E141"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := postEvent(t, ts, tt.ev)
			if code != tt.code {
				t.Errorf("status = %d, want %d", code, tt.code)
			}
			var msg Message
			if err := json.Unmarshal([]byte(body), &msg); err != nil {
				t.Fatalf("body %q: %v", body, err)
			}
			if msg.Code != tt.err {
				t.Errorf("code = %q, want %q", msg.Code, tt.err)
			}
		})
	}
}

func TestEventInvalidJSON(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/events", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestResolvePath(t *testing.T) {
	s, _ := newTestServer(t)

	html, err := s.Dispatch(context.Background(), Event{Target: "0/1", Type: "input", Property: "value", Value: "via path"})
	if err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}
	if s.App().Draft.Get() != "via path" {
		t.Errorf("Draft = %q, want the value set through the path", s.App().Draft.Get())
	}
	if !strings.Contains(html, `value="via path"`) {
		t.Errorf("html does not reflect the value: %q", html)
	}
}

func TestMetrics(t *testing.T) {
	_, ts := newTestServer(t)
	postEvent(t, ts, Event{Target: "#add", Type: "click"})

	code, body := get(t, ts.URL+"/metrics")
	if code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d", code)
	}
	for _, want := range []string{"cellbind_compiles_total", "cellbind_playground_events_total", "cellbind_list_rerenders_total"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestSnapshots(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/snapshots", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	var created map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated || created["id"] == "" {
		t.Fatalf("create status = %d, body = %v", resp.StatusCode, created)
	}

	_, body := get(t, ts.URL+"/snapshots")
	if !strings.Contains(body, created["id"]) {
		t.Errorf("list = %q, want %s", body, created["id"])
	}

	code, body := get(t, ts.URL+"/snapshots/"+created["id"])
	if code != http.StatusOK || !strings.Contains(body, "Add Todo") {
		t.Errorf("get status = %d, body = %q", code, body)
	}

	if code, _ := get(t, ts.URL+"/snapshots/missing"); code != http.StatusNotFound {
		t.Errorf("missing snapshot status = %d, want 404", code)
	}
}

func TestWebSocket(t *testing.T) {
	s, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != TypeRender || !strings.Contains(msg.HTML, "Add Todo") {
		t.Fatalf("initial message = %+v", msg)
	}
	if s.Clients() != 1 {
		t.Errorf("Clients() = %d, want 1", s.Clients())
	}

	for _, ev := range []Event{
		{Target: "#draft", Type: "input", Property: "value", Value: "eggs"},
		{Target: "#add", Type: "click"},
	} {
		if err := conn.WriteJSON(ev); err != nil {
			t.Fatal(err)
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatal(err)
		}
	}
	if msg.Type != TypeRender || !strings.Contains(msg.HTML, "eggs") {
		t.Errorf("render after add = %+v", msg)
	}

	if err := conn.WriteJSON(Event{Target: "#missing", Type: "click"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != TypeError || msg.Code != "E140" {
		t.Errorf("error message = %+v", msg)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != TypeError || msg.Code != "E141" {
		t.Errorf("error message = %+v", msg)
	}
}
