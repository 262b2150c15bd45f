package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mauv0809/padel-connect/internal/database"
)

// New creates a new PlayerStore.
func New(db *sql.DB) PlayerStore {
	return &store{
		db: db,
	}
}

const playerColumns = `id, user_id, nickname, name, skill_level, location, is_online, photo_url, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*Player, error) {
	var (
		p         Player
		nickname  sql.NullString
		name      sql.NullString
		photoURL  sql.NullString
		createdAt int64
	)
	if err := row.Scan(&p.ID, &p.UserID, &nickname, &name, &p.SkillLevel, &p.Location, &p.IsOnline, &photoURL, &createdAt); err != nil {
		return nil, err
	}
	if nickname.Valid {
		p.Nickname = &nickname.String
	}
	if name.Valid {
		p.Name = &name.String
	}
	if photoURL.Valid {
		p.PhotoURL = &photoURL.String
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &p, nil
}

func (s *store) GetByUserID(ctx context.Context, userID string) (*Player, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE user_id = ?`, userID)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", userID, err)
	}
	return p, nil
}

// GetByUserIDs returns the profiles that exist for userIDs, keyed by user ID.
func (s *store) GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*Player, error) {
	out := make(map[string]*Player, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	placeholders := strings.Repeat("?,", len(userIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM players WHERE user_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out[p.UserID] = p
	}
	return out, rows.Err()
}

func (s *store) Create(ctx context.Context, p *Player) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, user_id, nickname, name, skill_level, location, is_online, photo_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Nickname, p.Name, p.SkillLevel, p.Location, p.IsOnline, p.PhotoURL, p.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create player %s: %w", p.UserID, err)
	}
	return nil
}

// UpdateProfile writes the non-nil fields of update. A nickname collision is
// reported as ErrNicknameTaken.
func (s *store) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error {
	var (
		sets []string
		args []any
	)
	if update.Nickname != nil {
		sets = append(sets, "nickname = ?")
		args = append(args, *update.Nickname)
	}
	if update.SkillLevel != nil {
		sets = append(sets, "skill_level = ?")
		args = append(args, string(*update.SkillLevel))
	}
	if update.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *update.Location)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, userID)

	res, err := s.db.ExecContext(ctx, `UPDATE players SET `+strings.Join(sets, ", ")+` WHERE user_id = ?`, args...)
	if database.IsUniqueViolation(err) {
		return ErrNicknameTaken
	}
	if err != nil {
		return fmt.Errorf("failed to update player %s: %w", userID, err)
	}
	return requireRow(res)
}

func (s *store) SetOnline(ctx context.Context, userID string, online bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE players SET is_online = ? WHERE user_id = ?`, online, userID)
	if err != nil {
		return fmt.Errorf("failed to set presence for %s: %w", userID, err)
	}
	return requireRow(res)
}

func (s *store) SetPhotoURL(ctx context.Context, userID, url string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE players SET photo_url = ? WHERE user_id = ?`, url, userID)
	if err != nil {
		return fmt.Errorf("failed to set photo for %s: %w", userID, err)
	}
	return requireRow(res)
}

// ListOnline returns online players other than excludeUserID, newest first.
func (s *store) ListOnline(ctx context.Context, excludeUserID string) ([]Player, error) {
	return s.query(ctx, `SELECT `+playerColumns+` FROM players
		WHERE is_online = 1 AND user_id <> ?
		ORDER BY created_at DESC`, excludeUserID)
}

// FindCompatible returns online players of the same tier whose location
// contains city, case-insensitively.
func (s *store) FindCompatible(ctx context.Context, skill SkillLevel, city, excludeUserID string) ([]Player, error) {
	return s.query(ctx, `SELECT `+playerColumns+` FROM players
		WHERE is_online = 1 AND skill_level = ? AND location LIKE ? AND user_id <> ?
		ORDER BY created_at DESC`, string(skill), "%"+city+"%", excludeUserID)
}

func (s *store) CountOnline(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players WHERE is_online = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count online players: %w", err)
	}
	return n, nil
}

func (s *store) IsNicknameTaken(ctx context.Context, nickname, exceptUserID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players WHERE nickname = ? AND user_id <> ?`, nickname, exceptUserID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check nickname: %w", err)
	}
	return n > 0, nil
}

func (s *store) query(ctx context.Context, query string, args ...any) ([]Player, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
