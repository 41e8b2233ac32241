package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryService implements CacheService in process, for single-instance deployments
type MemoryService struct {
	cache *gocache.Cache
}

// NewMemoryService creates an in-process cache purging expired keys every cleanupInterval
func NewMemoryService(cleanupInterval time.Duration) *MemoryService {
	return &MemoryService{
		cache: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (m *MemoryService) Get(key string) ([]byte, error) {
	value, ok := m.cache.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	return value.([]byte), nil
}

// Set stores a copy of value with an expiration time
func (m *MemoryService) Set(key string, value []byte, expiration time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	m.cache.Set(key, stored, expiration)
	return nil
}

// Delete removes a value from the cache
func (m *MemoryService) Delete(key string) error {
	m.cache.Delete(key)
	return nil
}
