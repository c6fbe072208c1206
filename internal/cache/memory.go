package cache

import (
	"context"
	"sync"
	"time"
)

const defaultSweep = time.Minute

type item struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a thread-safe in-process Store with a background expiry sweep.
type Memory struct {
	mu    sync.RWMutex
	items map[string]item
	stop  chan struct{}
	once  sync.Once
	now   func() time.Time
}

// NewMemory creates a Memory store that sweeps expired entries every sweep
// interval (one minute when zero).
func NewMemory(sweep time.Duration) *Memory {
	if sweep <= 0 {
		sweep = defaultSweep
	}
	m := &Memory{
		items: make(map[string]item),
		stop:  make(chan struct{}),
		now:   time.Now,
	}
	go m.cleanup(sweep)
	return m
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, ok := m.items[key]
	if !ok || m.now().After(it.expiresAt) {
		return nil, false, nil
	}
	out := make([]byte, len(it.value))
	copy(out, it.value)
	return out, true, nil
}

// Set implements Store. A non-positive ttl is a no-op.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	v := make([]byte, len(value))
	copy(v, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = item{value: v, expiresAt: m.now().Add(ttl)}
	return nil
}

// Len returns the number of entries, including expired ones not yet swept.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Close stops the sweep goroutine. It is safe to call more than once.
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.removeExpired()
		case <-m.stop:
			return
		}
	}
}

func (m *Memory) removeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, it := range m.items {
		if now.After(it.expiresAt) {
			delete(m.items, key)
		}
	}
}
