package matchmaking

import (
	"database/sql"
	"time"

	"github.com/mauv0809/padel-connect/internal/database"
	"github.com/mauv0809/padel-connect/internal/player"
)

// store handles database operations for matchmaking. q is either the pool or
// the transaction the store was bound to by WithTx.
type store struct {
	db   *sql.DB
	q    database.DBTX
	inTx bool
}

// RequestStatus is the state of a match request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusRejected  RequestStatus = "rejected"
	StatusExpired   RequestStatus = "expired"
	StatusCancelled RequestStatus = "cancelled"
)

// Terminal reports whether no further transition is possible from s.
func (s RequestStatus) Terminal() bool {
	return s != StatusPending
}

// MatchStatus is the state of a match.
type MatchStatus string

const (
	MatchWaiting    MatchStatus = "waiting"
	MatchInProgress MatchStatus = "in_progress"
	MatchFinished   MatchStatus = "finished"
)

// Valid reports whether s is a known match status.
func (s MatchStatus) Valid() bool {
	switch s {
	case MatchWaiting, MatchInProgress, MatchFinished:
		return true
	}
	return false
}

// CanTransition reports whether a match may move from one status to another.
// Matches only move forward: waiting, in_progress, finished.
func CanTransition(from, to MatchStatus) bool {
	switch from {
	case MatchWaiting:
		return to == MatchInProgress || to == MatchFinished
	case MatchInProgress:
		return to == MatchFinished
	}
	return false
}

// MatchRequest is a directional invitation from a sender to a receiver.
type MatchRequest struct {
	ID         string        `json:"id"`
	SenderID   string        `json:"sender_id"`
	ReceiverID string        `json:"receiver_id"`
	Status     RequestStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	ExpiresAt  time.Time     `json:"expires_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	MatchID    *string       `json:"match_id,omitempty"`
}

// ExpiredAt reports whether the request's expiry is strictly before now.
func (r *MatchRequest) ExpiredAt(now time.Time) bool {
	return r.ExpiresAt.Before(now)
}

// Active reports whether the request still blocks new requests at now.
func (r *MatchRequest) Active(now time.Time) bool {
	return r.Status == StatusPending && !r.ExpiredAt(now)
}

// Involves reports whether userID is the sender or the receiver.
func (r *MatchRequest) Involves(userID string) bool {
	return r.SenderID == userID || r.ReceiverID == userID
}

// Match is a game between two players created by an accepted request.
type Match struct {
	ID        string      `json:"id"`
	Player1ID string      `json:"player1_id"`
	Player2ID string      `json:"player2_id"`
	Status    MatchStatus `json:"status"`
	StartedAt time.Time   `json:"started_at"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// HasPlayer reports whether userID plays in the match.
func (m *Match) HasPlayer(userID string) bool {
	return m.Player1ID == userID || m.Player2ID == userID
}

// RequestView is a request together with the profile of the other party.
type RequestView struct {
	MatchRequest
	Counterpart *player.Player `json:"counterpart,omitempty"`
}

// MatchView is a match together with both players' profiles.
type MatchView struct {
	Match
	Player1 *player.Player `json:"player1,omitempty"`
	Player2 *player.Player `json:"player2,omitempty"`
}

// Acceptance is the outcome of accepting a request.
type Acceptance struct {
	Request   *MatchRequest  `json:"request"`
	Match     *Match         `json:"match"`
	Cancelled []MatchRequest `json:"cancelled,omitempty"`
}
