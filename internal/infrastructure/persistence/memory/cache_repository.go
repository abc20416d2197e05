// Package memory provides an in-process cache repository used when Redis
// is not configured, and as a lightweight substitute in tests.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fridgechef/api/internal/ports/outbound"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: key not found")

const defaultTTL = 24 * time.Hour

type entry struct {
	value     []byte
	expiresAt time.Time
}

// CacheRepository is a mutex-guarded map with per-key expiry.
type CacheRepository struct {
	mu   sync.RWMutex
	data map[string]entry
}

// NewCacheRepository creates an in-memory cache repository and starts a
// background sweep for expired entries.
func NewCacheRepository() outbound.CacheRepository {
	repo := &CacheRepository{
		data: make(map[string]entry),
	}
	go repo.sweep()
	return repo
}

// Get retrieves a value from cache.
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	e, ok := r.data[key]
	r.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return nil, ErrCacheMiss
	}
	return e.value, nil
}

// Set stores a value with the given TTL. A zero TTL falls back to 24 hours.
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a key from cache.
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data, key)
	return nil
}

// Exists reports whether the key is present and unexpired.
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.data[key]
	if !ok || time.Now().After(e.expiresAt) {
		return false, nil
	}
	return true, nil
}

func (r *CacheRepository) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		r.mu.Lock()
		for key, e := range r.data {
			if now.After(e.expiresAt) {
				delete(r.data, key)
			}
		}
		r.mu.Unlock()
	}
}
