package db

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryClient is an in-process RedisClient. It backs the series cache when
// no Redis server is configured and stands in for Redis in tests.
type MemoryClient struct {
	data    map[string]memoryEntry
	mu      sync.RWMutex
	context context.Context
	now     func() time.Time
}

// NewMemoryClient initializes an empty MemoryClient.
func NewMemoryClient(ctx context.Context) *MemoryClient {
	return NewMemoryClientWithClock(ctx, time.Now)
}

// NewMemoryClientWithClock uses now to decide expiry.
func NewMemoryClientWithClock(ctx context.Context, now func() time.Time) *MemoryClient {
	return &MemoryClient{
		data:    make(map[string]memoryEntry),
		context: ctx,
		now:     now,
	}
}

func (m *MemoryClient) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}

// Set stores a key-value pair.
func (m *MemoryClient) Set(key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.data[key] = e
	return nil
}

// Get retrieves a value for a given key.
func (m *MemoryClient) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.data[key]
	if !exists || m.expired(e) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return e.value, nil
}

func (m *MemoryClient) GetContext() context.Context {
	return m.context
}

func (m *MemoryClient) Ping() error {
	return nil
}

// Keys lists live keys matching a glob pattern, sorted.
func (m *MemoryClient) Keys(pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := []string{}
	for k, e := range m.data {
		if m.expired(e) {
			continue
		}
		ok, err := path.Match(pattern, k)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryClient) Del(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
