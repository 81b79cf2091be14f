// Package registry keeps loaded models addressable by handle for serving
// and tooling. Inserts and removals are serialized; lookups run concurrently.
package registry

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mojo-runtime/mojo/internal/model"
)

// ErrNotFound is returned for unknown handles.
var ErrNotFound = errors.New("model not found")

// Entry is a registered model.
type Entry struct {
	ID     uuid.UUID
	Name   string
	Model  *model.Ensemble
	Loaded time.Time
}

// Store is a concurrency-safe set of loaded models.
type Store struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*Entry
}

// New returns an empty store.
func New() *Store {
	return &Store{entries: make(map[uuid.UUID]*Entry)}
}

// Add registers m under name and returns its handle.
func (s *Store) Add(name string, m *model.Ensemble) uuid.UUID {
	e := &Entry{ID: uuid.New(), Name: name, Model: m, Loaded: time.Now()}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = e
	return e.ID
}

// Get returns the model registered under id.
func (s *Store) Get(id uuid.UUID) (*model.Ensemble, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.Model, nil
}

// Lookup resolves a handle given as text.
func (s *Store) Lookup(id string) (*model.Ensemble, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.Get(u)
}

// Remove unregisters id and reports whether it was present.
func (s *Store) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// List returns the registered entries ordered by name, then load time.
func (s *Store) List() []Entry {
	s.mu.RLock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Loaded.Before(out[j].Loaded)
	})
	return out
}

// Len returns the number of registered models.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
