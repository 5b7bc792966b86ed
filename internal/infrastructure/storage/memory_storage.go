package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// MemoryObjectStorage keeps objects in memory. Used when storage is
// disabled in configuration, and in tests.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryObjectStorage creates a new MemoryObjectStorage
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{objects: make(map[string][]byte)}
}

// Upload stores the object in memory and returns a mem:// URL
func (s *MemoryObjectStorage) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	key = strings.TrimPrefix(key, "/")
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()
	return "mem://" + key, nil
}

// Delete removes the object
func (s *MemoryObjectStorage) Delete(ctx context.Context, key string) error {
	key = strings.TrimPrefix(key, "/")
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// PresignGet returns a fake time-limited URL
func (s *MemoryObjectStorage) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	key = strings.TrimPrefix(key, "/")
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("storage: object %s not found", key)
	}
	return "mem://" + key + "?presigned=1", nil
}

// Get returns a stored object's bytes, for test assertions
func (s *MemoryObjectStorage) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[strings.TrimPrefix(key, "/")]
	return data, ok
}

var _ ObjectStorage = (*MemoryObjectStorage)(nil)
