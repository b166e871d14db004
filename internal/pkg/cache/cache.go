// Package cache holds the process-local TTL store used for inventory listings.
package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is a key/value cache with per-entry expiry.
//
// Every Delete or Flush advances the generation. A loader reads Generation
// before querying and stores with SetIfGeneration, so rows read before a
// write never land in the cache after that write invalidated it.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string)
	Flush()
	Generation() uint64
	SetIfGeneration(key string, value any, gen uint64) bool
}

type memoryStore struct {
	mu  sync.Mutex
	gen uint64
	c   *gocache.Cache
}

// NewMemory returns a store whose entries expire after ttl.
func NewMemory(ttl time.Duration) Store {
	cleanup := ttl * 2
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &memoryStore{c: gocache.New(ttl, cleanup)}
}

func (s *memoryStore) Get(key string) (any, bool) { return s.c.Get(key) }

func (s *memoryStore) Set(key string, value any) {
	s.c.Set(key, value, gocache.DefaultExpiration)
}

func (s *memoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.c.Delete(key)
}

func (s *memoryStore) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.c.Flush()
}

func (s *memoryStore) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// SetIfGeneration stores value only if no invalidation happened since gen
// was read.
func (s *memoryStore) SetIfGeneration(key string, value any, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.c.Set(key, value, gocache.DefaultExpiration)
	return true
}

type noopStore struct{}

// NewNoop returns a store that never holds anything.
func NewNoop() Store { return noopStore{} }

func (noopStore) Get(string) (any, bool) { return nil, false }
func (noopStore) Set(string, any)        {}
func (noopStore) Delete(string)          {}
func (noopStore) Flush()                 {}
func (noopStore) Generation() uint64     { return 0 }

func (noopStore) SetIfGeneration(string, any, uint64) bool { return false }
