package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memory is an in-process Cache with the same generation rules as Redis.
// Entries never expire.
type Memory struct {
	mu          sync.Mutex
	entries     map[string][]byte
	generations map[string]int64
	group       singleflight.Group
}

func NewMemory() *Memory {
	return &Memory{entries: map[string][]byte{}, generations: map[string]int64{}}
}

var _ Cache = (*Memory)(nil)

func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	raw, ok := m.entries[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed unmarshaling cache key=%s with error=%w", key, err)
	}
	return true, nil
}

func (m *Memory) Generation(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[key], nil
}

func (m *Memory) SetAt(_ context.Context, key string, gen int64, value any) (bool, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("failed marshaling cache key=%s with error=%w", key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generations[key] != gen {
		return false, nil
	}
	m.entries[key] = raw
	return true, nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		m.generations[k]++
		delete(m.entries, k)
	}
	return nil
}

func (m *Memory) Publish(context.Context, string, any) error { return nil }

func (m *Memory) Load(c context.Context, key string, fn func() (any, error)) (any, error) {
	return waitShared(c, &m.group, key, fn)
}

// Len reports the number of stored values.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
