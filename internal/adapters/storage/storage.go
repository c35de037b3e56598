package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ObjectStorage is a key-addressed binary store for generated artifacts.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, overwrite bool) error
	PublicURL(key string) string
}

// Memory is an in-process store used by tests and previews.
type Memory struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemory(baseURL string) *Memory {
	return &Memory{
		BaseURL: baseURL,
		objects: make(map[string][]byte),
	}
}

func (m *Memory) Upload(_ context.Context, key string, data []byte, overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.objects[key]; exists && !overwrite {
		return fmt.Errorf("object %q already exists", key)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[key] = buf
	return nil
}

func (m *Memory) PublicURL(key string) string {
	return strings.TrimSuffix(m.BaseURL, "/") + "/" + key
}

func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	return data, ok
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
