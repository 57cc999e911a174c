// Package snapshot archives the state of a live document: the rendered
// markup, the demo's items and the size of the cleanup registry. Archives
// are msgpack encoded and kept on disk or in S3.
package snapshot

import (
	"context"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vango-dev/cellbind/internal/errors"
	"github.com/vango-dev/cellbind/internal/todo"
	"github.com/vango-dev/cellbind/internal/uid"
	"github.com/vango-dev/cellbind/pkg/dom"
	"github.com/vango-dev/cellbind/pkg/template"
)

// Version is the archive format version written by Encode.
const Version = 1

// Ext is the file extension of an encoded snapshot.
const Ext = ".cbsnap"

// Snapshot is one archived document state.
type Snapshot struct {
	Version   int          `msgpack:"v"`
	ID        string       `msgpack:"id"`
	CreatedAt time.Time    `msgpack:"created_at"`
	HTML      string       `msgpack:"html"`
	Items     []todo.State `msgpack:"items,omitempty"`

	// CleanupEntries is the registry size at capture time. A value that
	// keeps growing across snapshots of the same page points to a leak.
	CleanupEntries int `msgpack:"cleanup_entries"`
}

// Store persists snapshots.
type Store interface {
	// Put stores s under s.ID.
	Put(ctx context.Context, s *Snapshot) error

	// Get loads the snapshot with the given ID.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// List returns the stored IDs, sorted.
	List(ctx context.Context) ([]string, error)
}

// Capture records the engine's document and, if app is non-nil, its items.
func Capture(e *template.Engine, app *todo.App) *Snapshot {
	s := &Snapshot{
		Version:        Version,
		ID:             uid.New(),
		CreatedAt:      time.Now().UTC(),
		HTML:           dom.InnerHTML(e.Document().Body()),
		CleanupEntries: e.Registry().Len(),
	}
	if app != nil {
		s.Items = app.States()
	}
	return s
}

// Encode serializes s.
func Encode(s *Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return nil, errors.New("E130").WithDetail("encode snapshot").Wrap(err)
	}
	return data, nil
}

// Decode parses an archive produced by Encode.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, errors.New("E131").Wrap(err)
	}
	if s.Version != Version || s.ID == "" {
		return nil, errors.New("E131").
			WithDetailf("version %d, id %q", s.Version, s.ID)
	}
	return &s, nil
}
