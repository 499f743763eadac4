package ui

import "sync"

// LoadingStore tracks named loading flags. Multiple keys may be active
// concurrently; each is set and cleared independently.
type LoadingStore struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewLoadingStore creates an empty loading store
func NewLoadingStore() *LoadingStore {
	return &LoadingStore{flags: make(map[string]bool)}
}

// Start sets the flag for the given key
func (s *LoadingStore) Start(key string) {
	s.mu.Lock()
	s.flags[key] = true
	s.mu.Unlock()
}

// Stop clears the flag for the given key
func (s *LoadingStore) Stop(key string) {
	s.mu.Lock()
	delete(s.flags, key)
	s.mu.Unlock()
}

// IsLoading reports whether the given key is active
func (s *LoadingStore) IsLoading(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags[key]
}

// IsAnyLoading reports whether any key is active
func (s *LoadingStore) IsAnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.flags) > 0
}

// ActiveKeys returns the currently active keys, unordered
func (s *LoadingStore) ActiveKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.flags))
	for key := range s.flags {
		keys = append(keys, key)
	}
	return keys
}
