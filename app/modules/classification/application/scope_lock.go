package classificationservice

import "sync"

// scopeLocks serializes recomputation per scope key within this process.
// Concurrent recomputes for different scopes proceed in parallel; two for the
// same scope run one after the other, so the later one always observes the
// earlier one's write.
type scopeLocks struct {
	mu    sync.Mutex
	locks map[string]*scopeLock
}

type scopeLock struct {
	mu   sync.Mutex
	refs int
}

func newScopeLocks() *scopeLocks {
	return &scopeLocks{locks: make(map[string]*scopeLock)}
}

// Lock acquires the lock for key and returns the matching unlock. Entries are
// reference counted and removed once the last holder releases, so the map
// stays bounded by the number of in-flight recomputes.
func (s *scopeLocks) Lock(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &scopeLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}
