// Package store keeps the live hbnb objects and persists them as a single
// JSON document keyed by "<Class>.<id>".
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joss/hbnb/internal/domain"
	"github.com/joss/hbnb/internal/logging"
)

// Repository is what the console needs from storage.
type Repository interface {
	domain.Registrar
	// All returns the live object map. Deleting from it is visible to Save.
	All() map[string]domain.Entity
	// Reload replaces the live map with the contents of the backing file.
	Reload() error
}

// Reader provides class-scoped queries over the live objects.
type Reader interface {
	// Get retrieves an entity by kind and id.
	Get(kind domain.Kind, id string) (domain.Entity, error)
	// Filter returns the entities of kind in insertion order.
	Filter(kind domain.Kind) []domain.Entity
	// Count returns the number of entities of kind.
	Count(kind domain.Kind) int
}

// FileStore is an in-memory object map backed by one JSON file.
// It is not safe for concurrent use.
type FileStore struct {
	path     string
	registry *domain.Registry
	logger   *logging.Logger
	objects  map[string]domain.Entity
	order    []string
}

var (
	_ Repository = (*FileStore)(nil)
	_ Reader     = (*FileStore)(nil)
)

// NewFileStore creates an empty store persisting to path. Reload must be
// called to pick up existing contents.
func NewFileStore(path string, registry *domain.Registry, logger *logging.Logger) *FileStore {
	if logger == nil {
		logger = logging.New("storage")
	}
	return &FileStore{
		path:     path,
		registry: registry,
		logger:   logger,
		objects:  make(map[string]domain.Entity),
	}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// All returns the live object map.
func (s *FileStore) All() map[string]domain.Entity {
	return s.objects
}

// New inserts or overwrites e at its key.
func (s *FileStore) New(e domain.Entity) {
	key := domain.Key(e)
	if _, ok := s.objects[key]; !ok {
		// a key deleted through All may still hold its old slot
		if len(s.order) > len(s.objects) {
			s.keys()
		}
		s.order = append(s.order, key)
	}
	s.objects[key] = e
}

// Delete removes the entity of kind with id. It does not persist.
func (s *FileStore) Delete(kind domain.Kind, id string) error {
	key := domain.KeyOf(kind, id)
	if _, ok := s.objects[key]; !ok {
		return NewNotFoundError(kind, id)
	}
	delete(s.objects, key)
	return nil
}

// Get retrieves an entity by kind and id.
func (s *FileStore) Get(kind domain.Kind, id string) (domain.Entity, error) {
	e, ok := s.objects[domain.KeyOf(kind, id)]
	if !ok {
		return nil, NewNotFoundError(kind, id)
	}
	return e, nil
}

// Filter returns the entities of kind in insertion order. An empty kind
// returns every entity.
func (s *FileStore) Filter(kind domain.Kind) []domain.Entity {
	var out []domain.Entity
	for _, key := range s.keys() {
		e := s.objects[key]
		if kind == "" || e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of entities whose variant tag is kind.
func (s *FileStore) Count(kind domain.Kind) int {
	n := 0
	for _, e := range s.objects {
		if e.Kind() == kind {
			n++
		}
	}
	return n
}

// keys returns the live keys in insertion order, dropping entries that
// were deleted through All.
func (s *FileStore) keys() []string {
	seen := make(map[string]bool, len(s.objects))
	live := s.order[:0]
	for _, key := range s.order {
		if _, ok := s.objects[key]; ok && !seen[key] {
			seen[key] = true
			live = append(live, key)
		}
	}
	s.order = live
	out := make([]string, len(live))
	copy(out, live)
	return out
}

// Save writes every object to the backing file. The document is fully
// encoded before the file is touched, then swapped in by rename.
func (s *FileStore) Save() error {
	start := time.Now()

	doc := domain.NewRecord()
	for _, key := range s.keys() {
		doc.Set(key, domain.ToRecord(s.objects[key]))
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}

	if err := writeAtomic(s.path, data); err != nil {
		return err
	}

	s.logger.TimedEvent("saved", start, map[string]interface{}{
		"path":    s.path,
		"objects": doc.Len(),
	})
	return nil
}

// writeAtomic writes to a temp file in the target directory, then renames
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".hbnb-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	// Preserve permissions
	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	os.Chmod(tmpPath, mode)

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Reload replaces the live map with the backing file's contents. A missing
// file leaves the store empty. Records with an unknown __class__ or a
// malformed timestamp are skipped and logged.
func (s *FileStore) Reload() error {
	s.objects = make(map[string]domain.Entity)
	s.order = nil

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc domain.Record
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}

	skipped := 0
	for _, key := range doc.Keys() {
		v, _ := doc.Get(key)
		rec, ok := v.(*domain.Record)
		if !ok {
			skipped++
			s.logger.Warn("record_skipped", map[string]interface{}{"key": key}, errors.New("record is not an object"))
			continue
		}
		e, err := s.registry.FromRecord(rec)
		if err != nil {
			skipped++
			s.logger.Warn("record_skipped", map[string]interface{}{"key": key}, err)
			continue
		}
		s.New(e)
	}

	s.logger.Info("reloaded", map[string]interface{}{
		"path":    s.path,
		"objects": len(s.objects),
		"skipped": skipped,
	})
	return nil
}
