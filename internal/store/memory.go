package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of the Store interface.
// It uses a map for storage and RWMutex for thread-safe concurrent access.
// This implementation is suitable for development, testing, or single-instance deployments.
type MemoryStore struct {
	mu    sync.RWMutex
	forms map[string]Form // name -> Form
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		forms: make(map[string]Form),
	}
}

// ListForms retrieves every form ordered by name.
func (m *MemoryStore) ListForms(ctx context.Context) ([]Form, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Form, 0, len(m.forms))
	for _, form := range m.forms {
		form.Fields = ensureFieldsInitialized(form.Fields)
		result = append(result, form)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// GetForm retrieves a single form by name.
func (m *MemoryStore) GetForm(ctx context.Context, name string) (*Form, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	form, exists := m.forms[name]
	if !exists {
		return nil, ErrNotFound
	}
	form.Fields = ensureFieldsInitialized(form.Fields)
	return &form, nil
}

// UpsertForm creates or replaces a form in memory.
func (m *MemoryStore) UpsertForm(ctx context.Context, params UpsertParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forms[params.Name] = Form{
		Name:        params.Name,
		Description: params.Description,
		Engine:      params.Engine,
		Fields:      ensureFieldsInitialized(params.Fields),
		UpdatedAt:   time.Now().UTC(),
	}
	return nil
}

// DeleteForm removes a form from memory.
func (m *MemoryStore) DeleteForm(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Idempotent: no error if the form doesn't exist
	delete(m.forms, name)
	return nil
}

// Close is a no-op for MemoryStore as there are no resources to release.
func (m *MemoryStore) Close() error {
	return nil
}
