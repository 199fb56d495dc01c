// Package memstore keeps templates in memory, for tests and ephemeral runs
// without a configured DSN.
package memstore

import (
	"context"
	"sync"

	"github.com/tochi-dev/docmatch/internal/template"
)

type Store struct {
	mu        sync.RWMutex
	templates []template.Template
}

var _ template.DocumentStore = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Insert(_ context.Context, t template.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates = append(s.templates, t)
	return nil
}

func (s *Store) SearchBroad(_ context.Context, _ string, limit int) ([]template.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.templates)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]template.Template, n)
	copy(out, s.templates[:n])
	return out, nil
}

// Len reports how many templates are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates)
}
