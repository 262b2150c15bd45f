package storage

import "context"

// Storage is the blob store holding profile photos.
type Storage interface {
	// Upload stores body under key and returns the object's public URL.
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL maps a public URL produced by Upload back to its object key.
	KeyFromURL(url string) (string, bool)
}
