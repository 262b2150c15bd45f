package player

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/mauv0809/padel-connect/internal/auth"
	"github.com/mauv0809/padel-connect/internal/database"
	"github.com/mauv0809/padel-connect/internal/outcome"
	"github.com/mauv0809/padel-connect/internal/pubsub"
	"github.com/mauv0809/padel-connect/internal/storage"
)

const (
	// MaxPhotoSize is the largest accepted profile photo.
	MaxPhotoSize = 5 * 1024 * 1024

	nicknameMinLen = 3
	nicknameMaxLen = 20

	photoPrefix = "profile-photos/"
)

// Service implements the profile and presence operations.
type Service struct {
	store     PlayerStore
	storage   storage.Storage
	publisher pubsub.Publisher
	now       func() time.Time
}

// NewService wires the player operations. blobs may be nil when object
// storage is not configured; photo uploads are then rejected.
func NewService(store PlayerStore, blobs storage.Storage, publisher pubsub.Publisher) *Service {
	return &Service{
		store:     store,
		storage:   blobs,
		publisher: publisher,
		now:       time.Now,
	}
}

// EnsurePlayer returns the caller's profile, creating it on first authentication.
func (s *Service) EnsurePlayer(ctx context.Context, caller auth.Identity) (*Player, error) {
	if caller.IsZero() {
		return nil, outcome.ErrNotAuthenticated
	}
	p, err := s.store.GetByUserID(ctx, caller.UserID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	p = &Player{
		ID:         uuid.NewString(),
		UserID:     caller.UserID,
		SkillLevel: SkillBeginner,
		Location:   DefaultLocation,
		IsOnline:   true,
		CreatedAt:  s.now().UTC().Truncate(time.Second),
	}
	if name, _, ok := strings.Cut(caller.Email, "@"); ok && name != "" {
		p.Name = &name
	}
	if err := s.store.Create(ctx, p); err != nil {
		if database.IsUniqueViolation(err) {
			// A concurrent first login created the profile.
			return s.profile(ctx, caller.UserID)
		}
		return nil, err
	}
	log.Info("Created player profile", "user_id", caller.UserID)
	s.publish(ctx, pubsub.EventInsert, p.UserID, "online")
	return p, nil
}

// StartSession marks the caller online, creating the profile if needed.
func (s *Service) StartSession(ctx context.Context, caller auth.Identity) (*Player, error) {
	p, err := s.EnsurePlayer(ctx, caller)
	if err != nil {
		return nil, err
	}
	if p.IsOnline {
		return p, nil
	}
	return s.TogglePresence(ctx, caller, true)
}

// EndSession marks the caller offline. A missing profile is not an error.
func (s *Service) EndSession(ctx context.Context, caller auth.Identity) error {
	if caller.IsZero() {
		return outcome.ErrNotAuthenticated
	}
	err := s.store.SetOnline(ctx, caller.UserID, false)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.publish(ctx, pubsub.EventUpdate, caller.UserID, "offline")
	return nil
}

// TogglePresence sets the caller's online flag. Pending requests involving the
// caller are left untouched; they are re-checked when accepted.
func (s *Service) TogglePresence(ctx context.Context, caller auth.Identity, online bool) (*Player, error) {
	if caller.IsZero() {
		return nil, outcome.ErrNotAuthenticated
	}
	err := s.store.SetOnline(ctx, caller.UserID, online)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	status := "offline"
	if online {
		status = "online"
	}
	log.Info("Presence changed", "user_id", caller.UserID, "status", status)
	s.publish(ctx, pubsub.EventUpdate, caller.UserID, status)
	return s.profile(ctx, caller.UserID)
}

// ValidateNickname trims raw and checks its length.
func ValidateNickname(raw string) (string, error) {
	nickname := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(nickname)
	switch {
	case n == 0:
		return "", ErrNicknameRequired
	case n < nicknameMinLen:
		return "", ErrNicknameTooShort
	case n > nicknameMaxLen:
		return "", ErrNicknameTooLong
	}
	return nickname, nil
}

// UpdateProfile validates and applies the caller's profile edits.
func (s *Service) UpdateProfile(ctx context.Context, caller auth.Identity, update ProfileUpdate) (*Player, error) {
	if caller.IsZero() {
		return nil, outcome.ErrNotAuthenticated
	}
	if update.Nickname != nil {
		nickname, err := ValidateNickname(*update.Nickname)
		if err != nil {
			return nil, err
		}
		taken, err := s.store.IsNicknameTaken(ctx, nickname, caller.UserID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrNicknameTaken
		}
		update.Nickname = &nickname
	}
	if update.SkillLevel != nil && !update.SkillLevel.Valid() {
		return nil, ErrInvalidSkill
	}
	if update.Location != nil {
		loc := strings.TrimSpace(*update.Location)
		if loc == "" {
			loc = DefaultLocation
		}
		update.Location = &loc
	}

	// The unique index still decides races between two concurrent edits.
	err := s.store.UpdateProfile(ctx, caller.UserID, update)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	s.publish(ctx, pubsub.EventUpdate, caller.UserID, "")
	return s.profile(ctx, caller.UserID)
}

func (s *Service) profile(ctx context.Context, userID string) (*Player, error) {
	p, err := s.store.GetByUserID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

// UploadPhoto stores a new profile photo and points the profile at it. The
// previous photo is removed best-effort.
func (s *Service) UploadPhoto(ctx context.Context, caller auth.Identity, photo Photo) (string, error) {
	if caller.IsZero() {
		return "", outcome.ErrNotAuthenticated
	}
	if s.storage == nil {
		return "", ErrStorageDisabled
	}
	if len(photo.Data) == 0 {
		return "", ErrNoFile
	}
	if !strings.HasPrefix(photo.ContentType, "image/") {
		return "", ErrNotAnImage
	}
	if len(photo.Data) > MaxPhotoSize {
		return "", ErrFileTooLarge
	}

	current, err := s.store.GetByUserID(ctx, caller.UserID)
	if errors.Is(err, ErrNotFound) {
		return "", ErrProfileNotFound
	}
	if err != nil {
		return "", err
	}

	key := PhotoKey(caller.UserID, photo.Filename, s.now())
	url, err := s.storage.Upload(ctx, key, photo.ContentType, photo.Data)
	if err != nil {
		return "", err
	}

	if err := s.store.SetPhotoURL(ctx, caller.UserID, url); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			log.Error("Failed to remove orphaned photo", "key", key, "error", delErr)
		}
		log.Error("Failed to update profile with photo URL", "user_id", caller.UserID, "error", err)
		return "", ErrPhotoUpdateFailed
	}

	if current.PhotoURL != nil && *current.PhotoURL != url {
		if oldKey, ok := s.storage.KeyFromURL(*current.PhotoURL); ok {
			if err := s.storage.Delete(ctx, oldKey); err != nil {
				log.Warn("Failed to delete previous photo", "key", oldKey, "error", err)
			}
		}
	}

	s.publish(ctx, pubsub.EventUpdate, caller.UserID, "")
	return url, nil
}

// PhotoKey names the object for a photo uploaded by userID at t.
func PhotoKey(userID, filename string, t time.Time) string {
	ext := slug.Make(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s%s-%d.%s", photoPrefix, userID, t.UnixMilli(), ext)
}

// OnlinePlayers lists the other players currently online.
func (s *Service) OnlinePlayers(ctx context.Context, caller auth.Identity) ([]Player, error) {
	if caller.IsZero() {
		return nil, outcome.ErrNotAuthenticated
	}
	return s.store.ListOnline(ctx, caller.UserID)
}

// CompatiblePlayers lists online players of the given tier around city. An
// empty skill uses the caller's own tier.
func (s *Service) CompatiblePlayers(ctx context.Context, caller auth.Identity, skill SkillLevel, city string) ([]Player, error) {
	if caller.IsZero() {
		return nil, outcome.ErrNotAuthenticated
	}
	if skill == "" {
		me, err := s.store.GetByUserID(ctx, caller.UserID)
		if errors.Is(err, ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		if err != nil {
			return nil, err
		}
		skill = me.SkillLevel
	}
	if !skill.Valid() {
		return nil, ErrInvalidSkill
	}
	return s.store.FindCompatible(ctx, skill, strings.TrimSpace(city), caller.UserID)
}

func (s *Service) publish(ctx context.Context, typ pubsub.EventType, userID, status string) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, pubsub.Event{
		Type:       typ,
		Table:      pubsub.TablePlayers,
		RecordID:   userID,
		UserIDs:    []string{userID},
		Status:     status,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		log.Warn("Failed to publish player change", "user_id", userID, "error", err)
	}
}
