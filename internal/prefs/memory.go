package prefs

import "sync"

// MemoryStore is a process-local store, used by tests and the memory backend.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string

	// GetErr and SetErr, when set, are returned instead of touching items.
	GetErr error
	SetErr error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]string{}}
}

func (s *MemoryStore) GetItem(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.GetErr != nil {
		return "", false, s.GetErr
	}
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *MemoryStore) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	s.items[key] = value
	return nil
}

func (s *MemoryStore) Close() error { return nil }
