package playtomic

// SportPadel is the Playtomic sport identifier for padel.
const SportPadel = "PADEL"

// SearchMatchesParams defines the parameters for searching for matches.
type SearchMatchesParams struct {
	SportID       string
	HasPlayers    bool
	Sort          string
	TenantIDs     []string
	FromStartDate string
}

// MatchSummary contains the essential details of a match from a search result.
type MatchSummary struct {
	MatchID string
	OwnerID *string
}

// GameStatus defines the status of a game.
type GameStatus string

const (
	GameStatusPending    GameStatus = "PENDING"
	GameStatusPlayed     GameStatus = "PLAYED"
	GameStatusUnknown    GameStatus = "UNKNOWN"
	GameStatusCanceled   GameStatus = "CANCELED"
	GameStatusWaitingFor GameStatus = "WAITING_FOR"
	GameStatusExpired    GameStatus = "EXPIRED"
	GameStatusInProgress GameStatus = "IN_PROGRESS"
)

// Upcoming reports whether a game in this status has not been played yet.
func (s GameStatus) Upcoming() bool {
	switch s {
	case GameStatusPending, GameStatusWaitingFor, GameStatusInProgress:
		return true
	}
	return false
}

// ClubGame is a single game booked at the club.
type ClubGame struct {
	MatchID      string
	OwnerID      string
	OwnerName    string
	Start        int64
	End          int64
	Status       string
	GameStatus   GameStatus
	ResourceName string
	Tenant       Tenant
	Players      []Player
	OpenSlots    int
}

// Player represents a player registered in a club game.
type Player struct {
	UserID string
	Name   string
	Level  float64
}

// Tenant represents a Playtomic tenant (club).
type Tenant struct {
	ID   string
	Name string
}

type playtomicMatchResponse struct {
	OwnerID      string                  `json:"owner_id"`
	StartDate    string                  `json:"start_date"`
	EndDate      string                  `json:"end_date"`
	Status       string                  `json:"status"`
	GameStatus   string                  `json:"game_status"`
	Teams        []playtomicTeamResponse `json:"teams"`
	ResourceName string                  `json:"resource_name"`
	Tenant       playtomicTenant         `json:"tenant"`
}

type playtomicTenant struct {
	ID   string `json:"tenant_id"`
	Name string `json:"tenant_name"`
}

type playtomicTeamResponse struct {
	TeamID     string                    `json:"team_id"`
	Players    []playtomicPlayerResponse `json:"players"`
	MaxPlayers *int                      `json:"max_players"`
}

type playtomicPlayerResponse struct {
	UserID     string   `json:"user_id"`
	Name       string   `json:"name"`
	LevelValue *float64 `json:"level_value"`
}
