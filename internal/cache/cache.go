package cache

import (
	"fmt"
	"sync"
	"time"
)

type Cache interface {
	Get(kind Kind, id int) ([]byte, bool)
	Put(kind Kind, id int, value []byte, ttl time.Duration)
	Evict(kind Kind, id int)
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process TTL cache. Expired entries are invisible to Get
// immediately; a janitor reclaims their memory in the background.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	done    chan struct{}
}

func NewMemory() *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		done:    make(chan struct{}),
	}
	go m.janitor(time.Minute)
	return m
}

func key(kind Kind, id int) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

func (m *Memory) Get(kind Kind, id int) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key(kind, id)]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Put(kind Kind, id int, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key(kind, id)] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

func (m *Memory) Evict(kind Kind, id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key(kind, id))
}

func (m *Memory) Close() {
	close(m.done)
}

func (m *Memory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for k, e := range m.entries {
				if now.After(e.expiresAt) {
					delete(m.entries, k)
				}
			}
			m.mu.Unlock()
		}
	}
}
