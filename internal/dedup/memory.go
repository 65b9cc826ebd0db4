package dedup

import (
	"context"
	"sync"
	"time"
)

const (
	defaultTTL        = 6 * time.Hour
	defaultMaxEntries = 10000
)

// Memory keeps delivery IDs in process memory. Entries age out after a
// TTL, and the oldest entries are evicted once maxEntries is reached,
// so a long-lived server does not grow without bound.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]time.Time
	order      []string
	ttl        time.Duration
	maxEntries int
}

func NewMemory() *Memory {
	return &Memory{
		entries:    make(map[string]time.Time),
		ttl:        defaultTTL,
		maxEntries: defaultMaxEntries,
	}
}

func (m *Memory) Seen(ctx context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	at, ok := m.entries[key]
	if !ok {
		return false
	}
	if time.Since(at) > m.ttl {
		delete(m.entries, key)
		return false
	}
	return true
}

func (m *Memory) Mark(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; !ok {
		m.order = append(m.order, key)
	}
	m.entries[key] = time.Now()

	for len(m.entries) > m.maxEntries && len(m.order) > 0 {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.entries, oldest)
	}

	return nil
}
