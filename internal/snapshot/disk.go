package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/cellbind/internal/errors"
	"github.com/vango-dev/cellbind/internal/telemetry"
)

// DiskStore keeps snapshots as files in a directory.
type DiskStore struct {
	dir string
	mu  sync.RWMutex
}

// NewDiskStore creates the directory if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New("E130").WithDetail("create " + dir).Wrap(err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the snapshot directory.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) path(id string) string {
	return filepath.Join(s.dir, id+Ext)
}

// Put implements Store.
func (s *DiskStore) Put(ctx context.Context, snap *Snapshot) (err error) {
	_, span := telemetry.StartSpan(ctx, "snapshot.disk.put", attribute.String("snapshot.id", snap.ID))
	defer func() { telemetry.EndSpan(span, err) }()

	data, err := Encode(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path(snap.ID), data, 0644); err != nil {
		return errors.New("E130").WithDetail("write snapshot").Wrap(err)
	}
	return nil
}

// Get implements Store.
func (s *DiskStore) Get(ctx context.Context, id string) (snap *Snapshot, err error) {
	_, span := telemetry.StartSpan(ctx, "snapshot.disk.get", attribute.String("snapshot.id", id))
	defer func() { telemetry.EndSpan(span, err) }()

	s.mu.RLock()
	data, err := os.ReadFile(s.path(id))
	s.mu.RUnlock()
	if err != nil {
		return nil, errors.New("E130").WithDetailf("read snapshot %s", id).Wrap(err)
	}
	return Decode(data)
}

// List implements Store.
func (s *DiskStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.New("E130").WithDetail("list snapshots").Wrap(err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id, ok := strings.CutSuffix(e.Name(), Ext); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
