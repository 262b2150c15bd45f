package storage

import (
	"context"
	"strings"
	"sync"
)

// Mock is an in-memory Storage for testing. It is safe for concurrent use.
type Mock struct {
	mu      sync.Mutex
	BaseURL string
	Objects map[string][]byte

	UploadFunc func(ctx context.Context, key, contentType string, body []byte) (string, error)
	DeleteFunc func(ctx context.Context, key string) error

	UploadCalls []string
	DeleteCalls []string
}

var _ Storage = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{
		BaseURL: "https://cdn.test",
		Objects: make(map[string][]byte),
	}
}

func (m *Mock) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UploadCalls = append(m.UploadCalls, key)
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, key, contentType, body)
	}
	m.Objects[key] = body
	return m.BaseURL + "/" + key, nil
}

func (m *Mock) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, key)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	delete(m.Objects, key)
	return nil
}

func (m *Mock) KeyFromURL(url string) (string, bool) {
	prefix := m.BaseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// Has reports whether key is currently stored.
func (m *Mock) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[key]
	return ok
}
