// Package cache holds the session's last-known view of ledger state: the
// full task list and the single focused task. Only the lifecycle engine's
// refreshes (and the initial bulk load) write here; readers get copies.
package cache

import (
	"sync"

	"github.com/neartasks/platform/internal/models"
)

// Store is a last-write-wins mirror of ledger reads. Racing refreshes are
// fine: the ledger is authoritative and repeated reads are idempotent, so
// whichever response lands last is kept.
type Store struct {
	mu      sync.RWMutex
	tasks   []models.Task
	loaded  bool
	focused *models.Task
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// SetAll replaces the task list with a fresh ledger listing.
func (s *Store) SetAll(tasks []models.Task) {
	cp := append([]models.Task(nil), tasks...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = cp
	s.loaded = true
}

// All returns a copy of the cached list and whether a listing has been
// loaded at all (an empty ledger is a valid loaded state).
func (s *Store) All() ([]models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Task(nil), s.tasks...), s.loaded
}

// SetFocused replaces the focused task.
func (s *Store) SetFocused(t models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := t
	s.focused = &cp
}

// Focused returns the focused task, if any.
func (s *Store) Focused() (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.focused == nil {
		return models.Task{}, false
	}
	return *s.focused, true
}

// Get returns the cached task with the given id, preferring the focused
// copy (it is usually fresher than the listing).
func (s *Store) Get(id uint64) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.focused != nil && s.focused.ID == id {
		return *s.focused, true
	}
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// Drop removes the task from the cached list and clears the focused task if
// it matches. Used after a successful delete, ahead of the list refresh.
func (s *Store) Drop(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.focused != nil && s.focused.ID == id {
		s.focused = nil
	}
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
}
