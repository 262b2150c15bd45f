package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mauv0809/padel-connect/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	body   string
}

func newFakeBucket(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func TestS3_UploadAndDelete(t *testing.T) {
	server, requests := newFakeBucket(t)

	store, err := NewS3(context.Background(), config.StorageConfig{
		Bucket:          "photos",
		Endpoint:        server.URL,
		Region:          "auto",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		PublicBaseURL:   "https://cdn.example.com",
	})
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), "profile-photos/u1-1.png", "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/profile-photos/u1-1.png", url)

	require.NoError(t, store.Delete(context.Background(), "profile-photos/u1-1.png"))

	reqs := requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPut, reqs[0].method)
	assert.Equal(t, "/photos/profile-photos/u1-1.png", reqs[0].path)
	assert.Equal(t, http.MethodDelete, reqs[1].method)
}

func TestS3_KeyFromURL(t *testing.T) {
	store := &S3{baseURL: "https://cdn.example.com"}

	tests := []struct {
		name    string
		url     string
		wantKey string
		wantOK  bool
	}{
		{"own object", "https://cdn.example.com/profile-photos/a.png", "profile-photos/a.png", true},
		{"foreign host", "https://elsewhere.com/profile-photos/a.png", "", false},
		{"bare base", "https://cdn.example.com/", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := store.KeyFromURL(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}
