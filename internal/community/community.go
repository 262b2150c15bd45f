package community

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-connect/internal/playtomic"
)

// PulseWindow is how far back the weekly match count looks.
const PulseWindow = 7 * 24 * time.Hour

// Pulse is a snapshot of community activity.
type Pulse struct {
	OnlinePlayers   int       `json:"online_players"`
	MatchesThisWeek int       `json:"matches_this_week"`
	UpcomingGames   int       `json:"upcoming_club_games"`
	ClubConnected   bool      `json:"club_connected"`
	NextGame        *NextGame `json:"next_club_game,omitempty"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// NextGame is the soonest upcoming game at the club.
type NextGame struct {
	MatchID   string    `json:"match_id"`
	Court     string    `json:"court"`
	Organizer string    `json:"organizer,omitempty"`
	StartsAt  time.Time `json:"starts_at"`
	OpenSlots int       `json:"open_slots"`
}

// OnlineCounter counts players currently online.
type OnlineCounter interface {
	CountOnline(ctx context.Context) (int, error)
}

// MatchCounter counts matches created since a point in time.
type MatchCounter interface {
	CountMatchesSince(ctx context.Context, since time.Time) (int, error)
}

// Service builds community pulses.
type Service struct {
	players  OnlineCounter
	matches  MatchCounter
	club     playtomic.PlaytomicClient
	tenantID string
	now      func() time.Time
}

// NewService creates a pulse service. club may be nil, or tenantID empty, when
// no club is configured; upcoming games are then reported as zero.
func NewService(players OnlineCounter, matches MatchCounter, club playtomic.PlaytomicClient, tenantID string) *Service {
	return &Service{
		players:  players,
		matches:  matches,
		club:     club,
		tenantID: tenantID,
		now:      time.Now,
	}
}

// Pulse gathers the current community numbers. Local counts must succeed; the
// club lookup degrades to zero on failure.
func (s *Service) Pulse(ctx context.Context) (Pulse, error) {
	now := s.now().UTC()
	pulse := Pulse{GeneratedAt: now}

	online, err := s.players.CountOnline(ctx)
	if err != nil {
		return Pulse{}, fmt.Errorf("failed to count online players: %w", err)
	}
	pulse.OnlinePlayers = online

	weekly, err := s.matches.CountMatchesSince(ctx, now.Add(-PulseWindow))
	if err != nil {
		return Pulse{}, fmt.Errorf("failed to count recent matches: %w", err)
	}
	pulse.MatchesThisWeek = weekly

	if s.club == nil || s.tenantID == "" {
		return pulse, nil
	}
	games, err := s.club.GetMatches(ctx, playtomic.UpcomingParams(s.tenantID, now))
	if err != nil {
		log.Warn("Failed to fetch upcoming club games", "tenant_id", s.tenantID, "error", err)
		return pulse, nil
	}
	pulse.ClubConnected = true
	pulse.UpcomingGames = len(games)
	if len(games) == 0 {
		return pulse, nil
	}

	// Search results are sorted by start date, so the first is the next game.
	game, err := s.club.GetSpecificMatch(ctx, games[0].MatchID)
	if err != nil {
		log.Warn("Failed to fetch next club game", "match_id", games[0].MatchID, "error", err)
		return pulse, nil
	}
	pulse.NextGame = &NextGame{
		MatchID:   game.MatchID,
		Court:     game.ResourceName,
		Organizer: game.OwnerName,
		StartsAt:  time.Unix(game.Start, 0).UTC(),
		OpenSlots: game.OpenSlots,
	}
	return pulse, nil
}
