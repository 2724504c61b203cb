package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store. Watch callbacks fire synchronously on the
// writer's goroutine, which makes it the cross-context race stand-in for
// tests: two engines sharing one Memory store behave like two tabs sharing
// one profile store.
type Memory struct {
	mu       sync.Mutex
	data     map[string][]byte
	watchers map[int]ChangeFunc
	nextID   int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data:     map[string][]byte{},
		watchers: map[int]ChangeFunc{},
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	fns := m.watcherList()
	m.mu.Unlock()

	for _, fn := range fns {
		fn(key, stored)
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	_, existed := m.data[key]
	delete(m.data, key)
	fns := m.watcherList()
	m.mu.Unlock()

	if existed {
		for _, fn := range fns {
			fn(key, nil)
		}
	}
	return nil
}

func (m *Memory) Watch(fn ChangeFunc) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.watchers, id)
	}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchers = map[int]ChangeFunc{}
	return nil
}

// watcherList snapshots the watcher set; callers must hold mu.
func (m *Memory) watcherList() []ChangeFunc {
	fns := make([]ChangeFunc, 0, len(m.watchers))
	for _, fn := range m.watchers {
		fns = append(fns, fn)
	}
	return fns
}
