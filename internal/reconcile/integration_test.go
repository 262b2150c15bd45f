package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/padel-connect/internal/auth"
	"github.com/mauv0809/padel-connect/internal/database"
	"github.com/mauv0809/padel-connect/internal/matchmaking"
	"github.com/mauv0809/padel-connect/internal/metrics"
	"github.com/mauv0809/padel-connect/internal/player"
	"github.com/mauv0809/padel-connect/internal/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconciler_ExpiresStaleRequests(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)
	ctx := context.Background()

	players := player.New(db)
	for _, id := range []string{"a", "b"} {
		require.NoError(t, players.Create(ctx, &player.Player{
			ID: id + "-id", UserID: id, SkillLevel: player.SkillBeginner,
			Location: player.DefaultLocation, IsOnline: true, CreatedAt: time.Now().UTC().Truncate(time.Second),
		}))
	}

	now := time.Now().UTC().Truncate(time.Second)
	clock := func() time.Time { return now }
	m := metrics.NewMock()
	svc := matchmaking.NewService(matchmaking.NewStore(db), players, nil, nil, m, matchmaking.WithClock(clock))

	req, err := svc.SendMatchRequest(ctx, auth.Identity{UserID: "a"}, "b")
	require.NoError(t, err)

	now = now.Add(matchmaking.DefaultRequestTTL + time.Second)
	report, err := reconcile.New(svc, time.Minute).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.RequestsExpired)
	assert.Equal(t, 1, m.RequestsExpired())

	stored, err := matchmaking.NewStore(db).GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, matchmaking.StatusExpired, stored.Status)
}
