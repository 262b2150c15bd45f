package matchmaking_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mauv0809/padel-connect/internal/database"
	"github.com/mauv0809/padel-connect/internal/matchmaking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (matchmaking.MatchStore, *sql.DB) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return matchmaking.NewStore(db), db
}

func insertPlayer(t *testing.T, db *sql.DB, userID string, online bool) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO players (id, user_id, nickname, is_online, created_at) VALUES (?, ?, ?, ?, 0)`,
		"p-"+userID, userID, userID, online)
	require.NoError(t, err)
}

func setOnline(t *testing.T, db *sql.DB, userID string, online bool) {
	t.Helper()
	_, err := db.Exec(`UPDATE players SET is_online = ? WHERE user_id = ?`, online, userID)
	require.NoError(t, err)
}

func newRequest(id, sender, receiver string, created time.Time) *matchmaking.MatchRequest {
	return &matchmaking.MatchRequest{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Status:     matchmaking.StatusPending,
		CreatedAt:  created,
		ExpiresAt:  created.Add(30 * time.Minute),
		UpdatedAt:  created,
	}
}

func TestStore_InsertAndGetRequest(t *testing.T) {
	store, db := setupTestDB(t)
	ctx := context.Background()
	insertPlayer(t, db, "s", true)
	insertPlayer(t, db, "r", true)
	created := time.Unix(1700000000, 0).UTC()

	require.NoError(t, store.InsertRequest(ctx, newRequest("req1", "s", "r", created)))

	got, err := store.GetRequest(ctx, "req1")
	require.NoError(t, err)
	assert.Equal(t, matchmaking.StatusPending, got.Status)
	assert.True(t, created.Add(30*time.Minute).Equal(got.ExpiresAt))
	assert.Nil(t, got.MatchID)

	_, err = store.GetRequest(ctx, "missing")
	assert.ErrorIs(t, err, matchmaking.ErrNotFound)
}

func TestStore_InsertRequestDuplicate(t *testing.T) {
	store, db := setupTestDB(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		insertPlayer(t, db, id, true)
	}
	now := time.Now()

	require.NoError(t, store.InsertRequest(ctx, newRequest("r1", "a", "b", now)))
	assert.ErrorIs(t, store.InsertRequest(ctx, newRequest("r2", "a", "c", now)), matchmaking.ErrDuplicateRequest)
	assert.ErrorIs(t, store.InsertRequest(ctx, newRequest("r3", "b", "a", now)), matchmaking.ErrDuplicateRequest)
}

func TestStore_TransitionRequestIsConditional(t *testing.T) {
	store, db := setupTestDB(t)
	ctx := context.Background()
	insertPlayer(t, db, "a", true)
	insertPlayer(t, db, "b", true)
	now := time.Now()
	require.NoError(t, store.InsertRequest(ctx, newRequest("r1", "a", "b", now)))

	ok, err := store.TransitionRequest(ctx, "r1", matchmaking.StatusRejected, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.TransitionRequest(ctx, "r1", matchmaking.StatusCancelled, now)
	require.NoError(t, err)
	assert.False(t, ok, "terminal requests do not change")

	got, err := store.GetRequest(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, matchmaking.StatusRejected, got.Status)
}

func TestStore_CancelPendingInvolving(t *testing.T) {
	store, db := setupTestDB(t)
	ctx := context.Background()
	for _, id := range []string{"s", "r", "x", "y", "z"} {
		insertPlayer(t, db, id, true)
	}
	now := time.Unix(1700000000, 0)
	require.NoError(t, store.InsertRequest(ctx, newRequest("keep", "s", "r", now)))
	require.NoError(t, store.InsertRequest(ctx, newRequest("to-s", "x", "s", now)))
	require.NoError(t, store.InsertRequest(ctx, newRequest("from-r", "r", "y", now)))
	require.NoError(t, store.InsertRequest(ctx, newRequest("other", "z", "x", now.Add(-time.Hour))))

	cancelled, err := store.CancelPendingInvolving(ctx, []string{"s", "r"}, "keep", now)
	require.NoError(t, err)
	var ids []string
	for _, r := range cancelled {
		ids = append(ids, r.ID)
		assert.Equal(t, matchmaking.StatusCancelled, r.Status)
	}
	assert.ElementsMatch(t, []string{"to-s", "from-r"}, ids)

	for id, want := range map[string]matchmaking.RequestStatus{
		"keep":   matchmaking.StatusPending,
		"to-s":   matchmaking.StatusCancelled,
		"from-r": matchmaking.StatusCancelled,
		"other":  matchmaking.StatusPending,
	} {
		got, err := store.GetRequest(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status, id)
	}
}

func TestStore_ListIncomingAndOutgoing(t *testing.T) {
	store, db := setupTestDB(t)
	ctx := context.Background()
	for _, id := range []string{"me", "a", "b", "c"} {
		insertPlayer(t, db, id, true)
	}
	base := time.Unix(1700000000, 0)
	require.NoError(t, store.InsertRequest(ctx, newRequest("in-old", "a", "me", base)))
	require.NoError(t, store.InsertRequest(ctx, newRequest("in-new", "b", "me", base.Add(time.Minute))))
	require.NoError(t, store.InsertRequest(ctx, newRequest("out-rejected", "me", "c", base)))
	_, err := store.TransitionRequest(ctx, "out-rejected", matchmaking.StatusRejected, base)
	require.NoError(t, err)
	require.NoError(t, store.InsertRequest(ctx, newRequest("out-cancelled", "me", "c", base.Add(time.Second))))
	_, err = store.TransitionRequest(ctx, "out-cancelled", matchmaking.StatusCancelled, base)
	require.NoError(t, err)

	incoming, err := store.ListIncoming(ctx, "me")
	require.NoError(t, err)
	require.Len(t, incoming, 2)
	assert.Equal(t, "in-new", incoming[0].ID)
	assert.Equal(t, "in-old", incoming[1].ID)

	outgoing, err := store.ListOutgoing(ctx, "me")
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, "out-rejected", outgoing[0].ID)
}

func TestStore_OrphanMatches(t *testing.T) {
	store, db := setupTestDB(t)
	ctx := context.Background()
	insertPlayer(t, db, "a", true)
	insertPlayer(t, db, "b", true)
	old := time.Unix(1700000000, 0)

	for _, id := range []string{"linked", "orphan"} {
		require.NoError(t, store.InsertMatch(ctx, &matchmaking.Match{
			ID: id, Player1ID: "a", Player2ID: "b", Status: matchmaking.MatchWaiting,
			StartedAt: old, CreatedAt: old, UpdatedAt: old,
		}))
	}
	require.NoError(t, store.InsertRequest(ctx, newRequest("r1", "a", "b", old)))
	ok, err := store.MarkAccepted(ctx, "r1", "linked", old)
	require.NoError(t, err)
	require.True(t, ok)

	orphans, err := store.OrphanMatches(ctx, old.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "orphan", orphans[0].ID)

	orphans, err = store.OrphanMatches(ctx, old)
	require.NoError(t, err)
	assert.Empty(t, orphans, "matches inside the grace period are left alone")

	require.NoError(t, store.DeleteMatch(ctx, "orphan"))
	n, err := store.CountMatchesSince(ctx, old)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_WithTxRollsBack(t *testing.T) {
	store, db := setupTestDB(t)
	ctx := context.Background()
	insertPlayer(t, db, "a", true)
	insertPlayer(t, db, "b", true)
	now := time.Now()

	err := store.WithTx(ctx, func(tx matchmaking.MatchStore) error {
		if err := tx.InsertRequest(ctx, newRequest("r1", "a", "b", now)); err != nil {
			return err
		}
		return matchmaking.ErrRequestNotActive
	})
	assert.ErrorIs(t, err, matchmaking.ErrRequestNotActive)

	_, err = store.GetRequest(ctx, "r1")
	assert.ErrorIs(t, err, matchmaking.ErrNotFound)
}

func TestStore_OnlineStatus(t *testing.T) {
	store, db := setupTestDB(t)
	insertPlayer(t, db, "a", true)
	insertPlayer(t, db, "b", false)

	online, err := store.OnlineStatus(context.Background(), "a", "b", "ghost")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"a": true, "b": false}, online)
}
