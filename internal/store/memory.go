package store

import (
	"sync"

	"github.com/tartampluch/go-lifeweeks/internal/config"
)

// MemoryStore is a process-local store. Nothing survives a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Load() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[config.StorageKeyBirthDate], nil
}

func (s *MemoryStore) Save(value string) error {
	if value == "" {
		return errEmptyValue
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[config.StorageKeyBirthDate] = value
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, config.StorageKeyBirthDate)
	return nil
}
