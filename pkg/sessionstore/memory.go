package sessionstore

import (
	"context"
	"sync"

	"github.com/openlms/courseflow/pkg/designer"
)

// MemoryStore is an in-process session store for single-node deployments and
// tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*designer.Editor
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*designer.Editor),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*designer.Editor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	editor, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return editor, nil
}

func (s *MemoryStore) Put(_ context.Context, editor *designer.Editor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[editor.Session.ID] = editor

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)

	return nil
}

func (s *MemoryStore) Close(_ context.Context) error {
	return nil
}
