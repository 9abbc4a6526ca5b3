package cache

import "sync"

// Store is a process-lifetime in-memory key/value cache. There is no
// eviction: entries live as long as the process, which suits slow-changing
// lookups like employee display names. Callers that mutate the underlying
// data are responsible for calling Delete.
type Store struct {
	mu      sync.RWMutex
	entries map[string]string
}

func New() *Store {
	return &Store{entries: make(map[string]string)}
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok
}

func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
