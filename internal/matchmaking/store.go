package matchmaking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mauv0809/padel-connect/internal/database"
)

// NewStore creates a new matchmaking store.
func NewStore(db *sql.DB) MatchStore {
	return &store{
		db: db,
		q:  db,
	}
}

func (s *store) WithTx(ctx context.Context, fn func(tx MatchStore) error) error {
	if s.inTx {
		return fn(s)
	}
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(&store{db: s.db, q: tx, inTx: true})
	})
}

const requestColumns = `id, sender_id, receiver_id, status, created_at, expires_at, updated_at, match_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*MatchRequest, error) {
	var (
		r                               MatchRequest
		createdAt, expiresAt, updatedAt int64
		matchID                         sql.NullString
	)
	if err := row.Scan(&r.ID, &r.SenderID, &r.ReceiverID, &r.Status, &createdAt, &expiresAt, &updatedAt, &matchID); err != nil {
		return nil, err
	}
	r.CreatedAt = time.Unix(createdAt, 0).UTC()
	r.ExpiresAt = time.Unix(expiresAt, 0).UTC()
	r.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	if matchID.Valid {
		r.MatchID = &matchID.String
	}
	return &r, nil
}

func (s *store) queryRequests(ctx context.Context, query string, args ...any) ([]MatchRequest, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query match requests: %w", err)
	}
	defer rows.Close()

	var out []MatchRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match request: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *store) GetRequest(ctx context.Context, id string) (*MatchRequest, error) {
	r, err := scanRequest(s.q.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM match_requests WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match request %s: %w", id, err)
	}
	return r, nil
}

// InsertRequest creates a request. A write rejected by one of the pending
// uniqueness indexes is reported as ErrDuplicateRequest.
func (s *store) InsertRequest(ctx context.Context, r *MatchRequest) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO match_requests (id, sender_id, receiver_id, status, created_at, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SenderID, r.ReceiverID, string(r.Status), r.CreatedAt.Unix(), r.ExpiresAt.Unix(), r.UpdatedAt.Unix())
	if database.IsUniqueViolation(err) {
		return ErrDuplicateRequest
	}
	if err != nil {
		return fmt.Errorf("failed to create match request: %w", err)
	}
	return nil
}

func (s *store) PendingFromSender(ctx context.Context, senderID string) ([]MatchRequest, error) {
	return s.queryRequests(ctx, `SELECT `+requestColumns+` FROM match_requests
		WHERE sender_id = ? AND status = 'pending'`, senderID)
}

// PendingBetween returns pending requests between a and b in either direction.
func (s *store) PendingBetween(ctx context.Context, a, b string) ([]MatchRequest, error) {
	return s.queryRequests(ctx, `SELECT `+requestColumns+` FROM match_requests
		WHERE status = 'pending'
		  AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))`,
		a, b, b, a)
}

func (s *store) ListPending(ctx context.Context) ([]MatchRequest, error) {
	return s.queryRequests(ctx, `SELECT `+requestColumns+` FROM match_requests WHERE status = 'pending'`)
}

func (s *store) ListIncoming(ctx context.Context, receiverID string) ([]MatchRequest, error) {
	return s.queryRequests(ctx, `SELECT `+requestColumns+` FROM match_requests
		WHERE receiver_id = ? AND status = 'pending'
		ORDER BY created_at DESC, id`, receiverID)
}

func (s *store) ListOutgoing(ctx context.Context, senderID string) ([]MatchRequest, error) {
	return s.queryRequests(ctx, `SELECT `+requestColumns+` FROM match_requests
		WHERE sender_id = ? AND status IN ('pending', 'accepted', 'rejected')
		ORDER BY created_at DESC, id`, senderID)
}

// TransitionRequest moves a pending request to a terminal status.
func (s *store) TransitionRequest(ctx context.Context, id string, to RequestStatus, now time.Time) (bool, error) {
	res, err := s.q.ExecContext(ctx, `UPDATE match_requests SET status = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'`, string(to), now.Unix(), id)
	if err != nil {
		return false, fmt.Errorf("failed to move request %s to %s: %w", id, to, err)
	}
	return changed(res)
}

// MarkExpired expires the listed requests that are still pending and past
// their expiry at now.
func (s *store) MarkExpired(ctx context.Context, ids []string, now time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := []any{now.Unix()}
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, now.Unix())

	res, err := s.q.ExecContext(ctx, `UPDATE match_requests SET status = 'expired', updated_at = ?
		WHERE id IN (`+placeholders(len(ids))+`) AND status = 'pending' AND expires_at < ?`, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to expire requests: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *store) MarkAccepted(ctx context.Context, id, matchID string, now time.Time) (bool, error) {
	res, err := s.q.ExecContext(ctx, `UPDATE match_requests SET status = 'accepted', match_id = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'`, matchID, now.Unix(), id)
	if err != nil {
		return false, fmt.Errorf("failed to accept request %s: %w", id, err)
	}
	return changed(res)
}

// CancelPendingInvolving cancels every pending request other than excludeID
// in which any of userIDs is sender or receiver, and returns them.
func (s *store) CancelPendingInvolving(ctx context.Context, userIDs []string, excludeID string, now time.Time) ([]MatchRequest, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	in := placeholders(len(userIDs))
	args := []any{excludeID}
	for _, id := range userIDs {
		args = append(args, id)
	}
	for _, id := range userIDs {
		args = append(args, id)
	}
	filter := `status = 'pending' AND id <> ? AND (sender_id IN (` + in + `) OR receiver_id IN (` + in + `))`

	affected, err := s.queryRequests(ctx, `SELECT `+requestColumns+` FROM match_requests WHERE `+filter, args...)
	if err != nil {
		return nil, err
	}
	if len(affected) == 0 {
		return nil, nil
	}
	if _, err := s.q.ExecContext(ctx, `UPDATE match_requests SET status = 'cancelled', updated_at = ? WHERE `+filter,
		append([]any{now.Unix()}, args...)...); err != nil {
		return nil, fmt.Errorf("failed to cancel pending requests: %w", err)
	}
	for i := range affected {
		affected[i].Status = StatusCancelled
		affected[i].UpdatedAt = now.UTC().Truncate(time.Second)
	}
	return affected, nil
}

const matchColumns = `id, player1_id, player2_id, status, started_at, created_at, updated_at`

func scanMatch(row rowScanner) (*Match, error) {
	var (
		m                               Match
		startedAt, createdAt, updatedAt int64
	)
	if err := row.Scan(&m.ID, &m.Player1ID, &m.Player2ID, &m.Status, &startedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	m.StartedAt = time.Unix(startedAt, 0).UTC()
	m.CreatedAt = time.Unix(createdAt, 0).UTC()
	m.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &m, nil
}

func (s *store) InsertMatch(ctx context.Context, m *Match) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO matches (id, player1_id, player2_id, status, started_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Player1ID, m.Player2ID, string(m.Status), m.StartedAt.Unix(), m.CreatedAt.Unix(), m.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (s *store) GetMatch(ctx context.Context, id string) (*Match, error) {
	m, err := scanMatch(s.q.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %s: %w", id, err)
	}
	return m, nil
}

func (s *store) TransitionMatch(ctx context.Context, id string, from, to MatchStatus, now time.Time) (bool, error) {
	res, err := s.q.ExecContext(ctx, `UPDATE matches SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(to), now.Unix(), id, string(from))
	if err != nil {
		return false, fmt.Errorf("failed to move match %s to %s: %w", id, to, err)
	}
	return changed(res)
}

func (s *store) DeleteMatch(ctx context.Context, id string) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete match %s: %w", id, err)
	}
	return nil
}

// OrphanMatches returns matches created before createdBefore that no accepted
// request references.
func (s *store) OrphanMatches(ctx context.Context, createdBefore time.Time) ([]Match, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+matchColumns+` FROM matches m
		WHERE m.created_at < ?
		  AND NOT EXISTS (
			SELECT 1 FROM match_requests r WHERE r.match_id = m.id AND r.status = 'accepted'
		  )`, createdBefore.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query orphan matches: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (s *store) CountMatchesSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE created_at >= ?`, since.Unix()).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return n, nil
}

func (s *store) OnlineStatus(ctx context.Context, userIDs ...string) (map[string]bool, error) {
	out := make(map[string]bool, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}
	rows, err := s.q.QueryContext(ctx, `SELECT user_id, is_online FROM players WHERE user_id IN (`+placeholders(len(userIDs))+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read presence: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id     string
			online bool
		)
		if err := rows.Scan(&id, &online); err != nil {
			return nil, err
		}
		out[id] = online
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func changed(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
