package matchmaking

import (
	"context"
	"time"

	"github.com/mauv0809/padel-connect/internal/player"
)

// MatchStore defines the persistence operations for requests and matches.
// Conditional updates report whether a row was changed.
type MatchStore interface {
	// WithTx runs fn against a store bound to a single transaction.
	WithTx(ctx context.Context, fn func(tx MatchStore) error) error

	GetRequest(ctx context.Context, id string) (*MatchRequest, error)
	InsertRequest(ctx context.Context, r *MatchRequest) error
	PendingFromSender(ctx context.Context, senderID string) ([]MatchRequest, error)
	PendingBetween(ctx context.Context, a, b string) ([]MatchRequest, error)
	ListPending(ctx context.Context) ([]MatchRequest, error)
	ListIncoming(ctx context.Context, receiverID string) ([]MatchRequest, error)
	ListOutgoing(ctx context.Context, senderID string) ([]MatchRequest, error)
	TransitionRequest(ctx context.Context, id string, to RequestStatus, now time.Time) (bool, error)
	MarkExpired(ctx context.Context, ids []string, now time.Time) (int, error)
	MarkAccepted(ctx context.Context, id, matchID string, now time.Time) (bool, error)
	CancelPendingInvolving(ctx context.Context, userIDs []string, excludeID string, now time.Time) ([]MatchRequest, error)

	InsertMatch(ctx context.Context, m *Match) error
	GetMatch(ctx context.Context, id string) (*Match, error)
	TransitionMatch(ctx context.Context, id string, from, to MatchStatus, now time.Time) (bool, error)
	DeleteMatch(ctx context.Context, id string) error
	OrphanMatches(ctx context.Context, createdBefore time.Time) ([]Match, error)
	CountMatchesSince(ctx context.Context, since time.Time) (int, error)

	// OnlineStatus returns the presence flag of each existing player in userIDs.
	OnlineStatus(ctx context.Context, userIDs ...string) (map[string]bool, error)
}

// Profiles is the part of the player store matchmaking reads from.
type Profiles interface {
	GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*player.Player, error)
}

// Notifier defines the notification operations required by matchmaking.
// This keeps the matchmaking package decoupled from the main notifier interface.
type Notifier interface {
	NotifyMatchCreated(match *Match, player1, player2 *player.Player, dryRun bool) error
}
