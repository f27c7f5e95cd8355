package cache

import (
	"context"
	"sync"
	"time"
)

// Cache stores opaque values under string keys with a time to live.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Memory is an in-process Cache used when Redis is not configured.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
	max     int
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

const defaultMemoryEntries = 1024

// NewMemory builds a memory cache holding at most maxEntries values.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = defaultMemoryEntries
	}
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		max:     maxEntries,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.max {
		m.evictLocked(now)
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}
	m.entries[key] = memoryEntry{value: append([]byte(nil), value...), expiresAt: expiresAt}
	return nil
}

func (m *Memory) Close() error { return nil }

// evictLocked drops expired entries, then the entry closest to expiry if still full.
func (m *Memory) evictLocked(now time.Time) {
	var (
		victim    string
		victimExp time.Time
	)
	for k, e := range m.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(m.entries, k)
			continue
		}
		if victim == "" || (!e.expiresAt.IsZero() && (victimExp.IsZero() || e.expiresAt.Before(victimExp))) {
			victim, victimExp = k, e.expiresAt
		}
	}
	if len(m.entries) >= m.max && victim != "" {
		delete(m.entries, victim)
	}
}

var _ Cache = (*Memory)(nil)
