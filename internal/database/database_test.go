package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"players", "match_requests", "matches"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "Querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func seedPlayers(t *testing.T, db *sql.DB, userIDs ...string) {
	t.Helper()
	for _, id := range userIDs {
		_, err := db.Exec(`INSERT INTO players (id, user_id, created_at) VALUES (?, ?, 0)`, "p-"+id, id)
		require.NoError(t, err)
	}
}

func TestSchema_PendingRequestUniqueness(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()
	seedPlayers(t, db, "a", "b", "c")

	insert := func(id, sender, receiver, status string) error {
		_, err := db.Exec(`INSERT INTO match_requests (id, sender_id, receiver_id, status, created_at, expires_at, updated_at)
			VALUES (?, ?, ?, ?, 0, 1800, 0)`, id, sender, receiver, status)
		return err
	}

	require.NoError(t, insert("r1", "a", "b", "pending"))

	err = insert("r2", "a", "c", "pending")
	assert.True(t, IsUniqueViolation(err), "a sender cannot hold two pending requests: %v", err)

	err = insert("r3", "b", "a", "pending")
	assert.True(t, IsUniqueViolation(err), "a pair cannot hold two pending requests: %v", err)

	require.NoError(t, insert("r4", "a", "b", "rejected"), "terminal rows are not constrained")
	require.NoError(t, insert("r5", "c", "b", "pending"))

	err = insert("r6", "a", "a", "rejected")
	assert.Error(t, err, "self requests are rejected by the schema")
	assert.False(t, IsUniqueViolation(err))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	boom := errors.New("boom")
	err = WithTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO players (id, user_id, created_at) VALUES ('p1', 'u1', 0)`)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM players`).Scan(&count))
	assert.Equal(t, 0, count)

	err = WithTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO players (id, user_id, created_at) VALUES ('p1', 'u1', 0)`)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM players`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("disk I/O error")))
	assert.True(t, IsUniqueViolation(errors.New("SQLITE_CONSTRAINT: UNIQUE constraint failed: players.nickname")))
}
