package auth

import (
	"context"
	"sync"
)

// Mock is a Directory that treats the token as the user ID. Tokens listed in
// Invalid are rejected. It is safe for concurrent use.
type Mock struct {
	mu      sync.Mutex
	Invalid map[string]bool

	VerifyCalls []string
}

func NewMock() *Mock {
	return &Mock{Invalid: map[string]bool{}}
}

func (m *Mock) Verify(ctx context.Context, token string) (Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VerifyCalls = append(m.VerifyCalls, token)
	if token == "" || m.Invalid[token] {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: token}, nil
}
