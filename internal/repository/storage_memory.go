package repository

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

type memoryStorageRepository struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStorageRepository() StorageRepository {
	return &memoryStorageRepository{objects: make(map[string][]byte)}
}

func (r *memoryStorageRepository) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload body: %w", err)
	}

	r.mu.Lock()
	r.objects[key] = data
	r.mu.Unlock()

	return "memory://" + key, nil
}

func (r *memoryStorageRepository) PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.objects[key]; !ok {
		return "", ErrNotFound
	}
	return "memory://" + key, nil
}

func (r *memoryStorageRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.objects, key)
	return nil
}
