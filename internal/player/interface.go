package player

import "context"

// PlayerStore defines the interface for interacting with player profiles.
type PlayerStore interface {
	GetByUserID(ctx context.Context, userID string) (*Player, error)
	GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*Player, error)
	Create(ctx context.Context, p *Player) error
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error
	SetOnline(ctx context.Context, userID string, online bool) error
	SetPhotoURL(ctx context.Context, userID, url string) error
	ListOnline(ctx context.Context, excludeUserID string) ([]Player, error)
	FindCompatible(ctx context.Context, skill SkillLevel, city, excludeUserID string) ([]Player, error)
	CountOnline(ctx context.Context) (int, error)
	IsNicknameTaken(ctx context.Context, nickname, exceptUserID string) (bool, error)
}
