package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	catalogapp "github.com/retailops/backend/internal/application/catalog"
)

// Ensure LocalImageStorage implements ImageStorage
var _ catalogapp.ImageStorage = (*LocalImageStorage)(nil)

// LocalImageStorage keeps uploaded objects in memory. It stands in for a
// real bucket in development and tests, when no S3 credentials are
// configured.
type LocalImageStorage struct {
	// BaseURL is the base URL returned for stored objects.
	// Defaults to "https://storage.example.com" if not set.
	BaseURL string

	mu      sync.RWMutex
	objects map[string]localObject
}

type localObject struct {
	contentType string
	data        []byte
}

// NewLocalImageStorage creates a new LocalImageStorage
func NewLocalImageStorage() *LocalImageStorage {
	return &LocalImageStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string]localObject),
	}
}

// Put stores the object in memory and returns its URL.
func (s *LocalImageStorage) Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.objects[key] = localObject{contentType: contentType, data: data}
	s.mu.Unlock()

	return strings.TrimRight(s.BaseURL, "/") + "/" + key, nil
}

// Delete removes the object if present.
func (s *LocalImageStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Get returns the stored object, for inspection in tests.
func (s *LocalImageStorage) Get(key string) (contentType string, data []byte, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return "", nil, false
	}
	return obj.contentType, obj.data, true
}
