package notifier

import (
	"github.com/mauv0809/padel-connect/internal/community"
	"github.com/mauv0809/padel-connect/internal/matchmaking"
	"github.com/mauv0809/padel-connect/internal/player"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// NotifyMatchCreated announces a freshly accepted match to the community channel.
	NotifyMatchCreated(match *matchmaking.Match, player1, player2 *player.Player, dryRun bool) error

	// For formatting responses for slash commands
	FormatOnlinePlayersResponse(players []player.Player) (any, error)
	FormatPulseResponse(pulse community.Pulse) (any, error)
}

var _ matchmaking.Notifier = (Notifier)(nil)
