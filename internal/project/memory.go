package project

import (
	"context"
	"sync"

	"github.com/credify/editor/internal/editor"
	"github.com/credify/editor/internal/layout"
)

// MemoryStore is an in-process editor.Store keyed by project id.
type MemoryStore struct {
	mu       sync.RWMutex
	seed     editor.Project
	projects map[string]editor.Project
}

var _ editor.Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store where every unknown id loads as seed.
func NewMemoryStore(seed editor.Project) *MemoryStore {
	return &MemoryStore{seed: seed, projects: make(map[string]editor.Project)}
}

func (m *MemoryStore) Load(_ context.Context, projectID string) (editor.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[projectID]
	if !ok {
		p = m.seed
	}
	p.ID = projectID
	p.Layout = p.Layout.Clone()
	return p, nil
}

func (m *MemoryStore) Save(_ context.Context, projectID string, doc layout.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		p = m.seed
	}
	p.ID = projectID
	p.Layout = doc.Clone()
	m.projects[projectID] = p
	return nil
}
