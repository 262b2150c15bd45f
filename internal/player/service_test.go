package player_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/padel-connect/internal/auth"
	"github.com/mauv0809/padel-connect/internal/outcome"
	"github.com/mauv0809/padel-connect/internal/player"
	"github.com/mauv0809/padel-connect/internal/pubsub"
	"github.com/mauv0809/padel-connect/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   player.PlayerStore
	blobs   *storage.Mock
	events  *pubsub.Mock
	service *player.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := setupTestDB(t)
	blobs := storage.NewMock()
	events := pubsub.NewMock()
	return fixture{
		store:   store,
		blobs:   blobs,
		events:  events,
		service: player.NewService(store, blobs, events),
	}
}

func TestService_EnsurePlayerCreatesDefaultProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	caller := auth.Identity{UserID: "alice", Email: "alice@example.com"}

	p, err := f.service.EnsurePlayer(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, player.SkillBeginner, p.SkillLevel)
	assert.Equal(t, player.DefaultLocation, p.Location)
	assert.True(t, p.IsOnline)
	assert.Nil(t, p.Nickname)
	require.NotNil(t, p.Name)
	assert.Equal(t, "alice", *p.Name)

	again, err := f.service.EnsurePlayer(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
	assert.Len(t, f.events.Events(pubsub.TablePlayers), 1)
}

func TestService_EnsurePlayerConcurrentFirstLogin(t *testing.T) {
	existing := &player.Player{ID: "p-1", UserID: "alice"}
	created := false
	store := player.NewMock()
	store.GetByUserIDFunc = func(context.Context, string) (*player.Player, error) {
		if !created {
			return nil, player.ErrNotFound
		}
		return existing, nil
	}
	store.CreateFunc = func(context.Context, *player.Player) error {
		created = true
		return errors.New("failed to create player alice: UNIQUE constraint failed: players.user_id")
	}
	events := pubsub.NewMock()
	svc := player.NewService(store, nil, events)

	p, err := svc.EnsurePlayer(context.Background(), auth.Identity{UserID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "p-1", p.ID)
	assert.Empty(t, events.Events(pubsub.TablePlayers))
}

func TestService_UpdateProfileWithoutProfile(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.UpdateProfile(context.Background(), auth.Identity{UserID: "ghost"}, player.ProfileUpdate{})
	assert.ErrorIs(t, err, player.ErrProfileNotFound)
}

func TestService_RequiresCaller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.EnsurePlayer(ctx, auth.Identity{})
	assert.ErrorIs(t, err, outcome.ErrNotAuthenticated)
	_, err = f.service.TogglePresence(ctx, auth.Identity{}, true)
	assert.ErrorIs(t, err, outcome.ErrNotAuthenticated)
	assert.ErrorIs(t, f.service.EndSession(ctx, auth.Identity{}), outcome.ErrNotAuthenticated)
}

func TestService_SessionLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	caller := auth.Identity{UserID: "alice"}

	_, err := f.service.StartSession(ctx, caller)
	require.NoError(t, err)
	require.NoError(t, f.service.EndSession(ctx, caller))

	p, err := f.store.GetByUserID(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, p.IsOnline)

	p, err = f.service.StartSession(ctx, caller)
	require.NoError(t, err)
	assert.True(t, p.IsOnline)

	require.NoError(t, f.service.EndSession(ctx, auth.Identity{UserID: "ghost"}), "logging out without a profile is fine")
}

func TestService_TogglePresence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	caller := auth.Identity{UserID: "alice"}

	_, err := f.service.TogglePresence(ctx, caller, true)
	assert.ErrorIs(t, err, player.ErrProfileNotFound)

	_, err = f.service.EnsurePlayer(ctx, caller)
	require.NoError(t, err)
	p, err := f.service.TogglePresence(ctx, caller, false)
	require.NoError(t, err)
	assert.False(t, p.IsOnline)

	events := f.events.Events(pubsub.TablePlayers)
	assert.Equal(t, "offline", events[len(events)-1].Status)
}

func TestValidateNickname(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"  ace  ", "ace", nil},
		{"", "", player.ErrNicknameRequired},
		{"   ", "", player.ErrNicknameRequired},
		{"ab", "", player.ErrNicknameTooShort},
		{strings.Repeat("x", 20), strings.Repeat("x", 20), nil},
		{strings.Repeat("x", 21), "", player.ErrNicknameTooLong},
		{"Søren", "Søren", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := player.ValidateNickname(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := auth.Identity{UserID: "alice"}
	bob := auth.Identity{UserID: "bob"}
	_, err := f.service.EnsurePlayer(ctx, alice)
	require.NoError(t, err)
	_, err = f.service.EnsurePlayer(ctx, bob)
	require.NoError(t, err)

	nick := " Smasher "
	skill := player.SkillAdvanced
	p, err := f.service.UpdateProfile(ctx, alice, player.ProfileUpdate{Nickname: &nick, SkillLevel: &skill})
	require.NoError(t, err)
	assert.Equal(t, "Smasher", *p.Nickname)
	assert.Equal(t, player.SkillAdvanced, p.SkillLevel)

	taken := "smasher"
	_, err = f.service.UpdateProfile(ctx, bob, player.ProfileUpdate{Nickname: &taken})
	assert.ErrorIs(t, err, player.ErrNicknameTaken)

	bad := player.SkillLevel("Wizard")
	_, err = f.service.UpdateProfile(ctx, bob, player.ProfileUpdate{SkillLevel: &bad})
	assert.ErrorIs(t, err, player.ErrInvalidSkill)

	same := "Smasher"
	_, err = f.service.UpdateProfile(ctx, alice, player.ProfileUpdate{Nickname: &same})
	assert.NoError(t, err, "keeping one's own nickname is allowed")
}

func TestService_UploadPhoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := auth.Identity{UserID: "alice"}
	_, err := f.service.EnsurePlayer(ctx, alice)
	require.NoError(t, err)

	first, err := f.service.UploadPhoto(ctx, alice, player.Photo{Filename: "me.PNG", ContentType: "image/png", Data: []byte("one")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "https://cdn.test/profile-photos/alice-"))
	assert.True(t, strings.HasSuffix(first, ".png"))

	time.Sleep(2 * time.Millisecond)
	second, err := f.service.UploadPhoto(ctx, alice, player.Photo{Filename: "me.jpg", ContentType: "image/jpeg", Data: []byte("two")})
	require.NoError(t, err)

	firstKey, _ := f.blobs.KeyFromURL(first)
	secondKey, _ := f.blobs.KeyFromURL(second)
	assert.False(t, f.blobs.Has(firstKey), "previous photo is removed")
	assert.True(t, f.blobs.Has(secondKey))

	p, err := f.store.GetByUserID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, second, *p.PhotoURL)
}

func TestService_UploadPhotoValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := auth.Identity{UserID: "alice"}
	_, err := f.service.EnsurePlayer(ctx, alice)
	require.NoError(t, err)

	tests := []struct {
		name    string
		photo   player.Photo
		wantErr error
	}{
		{"empty", player.Photo{ContentType: "image/png"}, player.ErrNoFile},
		{"not an image", player.Photo{ContentType: "application/pdf", Data: []byte("x")}, player.ErrNotAnImage},
		{"too large", player.Photo{ContentType: "image/png", Data: make([]byte, player.MaxPhotoSize+1)}, player.ErrFileTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.UploadPhoto(ctx, alice, tt.photo)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.blobs.UploadCalls)
}

func TestService_UploadPhotoRemovesBlobWhenProfileUpdateFails(t *testing.T) {
	store := player.NewMock()
	store.GetByUserIDFunc = func(ctx context.Context, userID string) (*player.Player, error) {
		return &player.Player{UserID: userID}, nil
	}
	store.SetPhotoURLFunc = func(ctx context.Context, userID, url string) error {
		return errors.New("disk full")
	}
	blobs := storage.NewMock()
	svc := player.NewService(store, blobs, pubsub.NewMock())

	_, err := svc.UploadPhoto(context.Background(), auth.Identity{UserID: "alice"}, player.Photo{Filename: "a.png", ContentType: "image/png", Data: []byte("x")})
	assert.ErrorIs(t, err, player.ErrPhotoUpdateFailed)
	require.Len(t, blobs.UploadCalls, 1)
	assert.Equal(t, blobs.UploadCalls, blobs.DeleteCalls)
	assert.Empty(t, blobs.Objects)
}

func TestService_UploadPhotoWithoutStorage(t *testing.T) {
	svc := player.NewService(player.NewMock(), nil, nil)
	_, err := svc.UploadPhoto(context.Background(), auth.Identity{UserID: "alice"}, player.Photo{ContentType: "image/png", Data: []byte("x")})
	assert.ErrorIs(t, err, player.ErrStorageDisabled)
}

func TestPhotoKey(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "profile-photos/u1-1700000000123.png", player.PhotoKey("u1", "Holiday Pic.PNG", at))
	assert.Equal(t, "profile-photos/u1-1700000000123.jpg", player.PhotoKey("u1", "noext", at))
}
