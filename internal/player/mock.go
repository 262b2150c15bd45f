package player

import (
	"context"
	"sync"
)

// MockStore is a mock implementation of the PlayerStore interface for testing.
// Unset funcs return zero values. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	GetByUserIDFunc     func(ctx context.Context, userID string) (*Player, error)
	GetByUserIDsFunc    func(ctx context.Context, userIDs []string) (map[string]*Player, error)
	CreateFunc          func(ctx context.Context, p *Player) error
	UpdateProfileFunc   func(ctx context.Context, userID string, update ProfileUpdate) error
	SetOnlineFunc       func(ctx context.Context, userID string, online bool) error
	SetPhotoURLFunc     func(ctx context.Context, userID, url string) error
	ListOnlineFunc      func(ctx context.Context, excludeUserID string) ([]Player, error)
	FindCompatibleFunc  func(ctx context.Context, skill SkillLevel, city, excludeUserID string) ([]Player, error)
	CountOnlineFunc     func(ctx context.Context) (int, error)
	IsNicknameTakenFunc func(ctx context.Context, nickname, exceptUserID string) (bool, error)

	// Call records
	CreateCalls    []*Player
	SetOnlineCalls []struct {
		UserID string
		Online bool
	}
	SetPhotoURLCalls []string
}

var _ PlayerStore = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) GetByUserID(ctx context.Context, userID string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetByUserIDsFunc != nil {
		return m.GetByUserIDsFunc(ctx, userIDs)
	}
	return map[string]*Player{}, nil
}

func (m *MockStore) Create(ctx context.Context, p *Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, p)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *MockStore) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, update)
	}
	return nil
}

func (m *MockStore) SetOnline(ctx context.Context, userID string, online bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetOnlineCalls = append(m.SetOnlineCalls, struct {
		UserID string
		Online bool
	}{userID, online})
	if m.SetOnlineFunc != nil {
		return m.SetOnlineFunc(ctx, userID, online)
	}
	return nil
}

func (m *MockStore) SetPhotoURL(ctx context.Context, userID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetPhotoURLCalls = append(m.SetPhotoURLCalls, url)
	if m.SetPhotoURLFunc != nil {
		return m.SetPhotoURLFunc(ctx, userID, url)
	}
	return nil
}

func (m *MockStore) ListOnline(ctx context.Context, excludeUserID string) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListOnlineFunc != nil {
		return m.ListOnlineFunc(ctx, excludeUserID)
	}
	return nil, nil
}

func (m *MockStore) FindCompatible(ctx context.Context, skill SkillLevel, city, excludeUserID string) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindCompatibleFunc != nil {
		return m.FindCompatibleFunc(ctx, skill, city, excludeUserID)
	}
	return nil, nil
}

func (m *MockStore) CountOnline(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountOnlineFunc != nil {
		return m.CountOnlineFunc(ctx)
	}
	return 0, nil
}

func (m *MockStore) IsNicknameTaken(ctx context.Context, nickname, exceptUserID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsNicknameTakenFunc != nil {
		return m.IsNicknameTakenFunc(ctx, nickname, exceptUserID)
	}
	return false, nil
}
