package notifier

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-connect/internal/community"
	"github.com/mauv0809/padel-connect/internal/matchmaking"
	"github.com/mauv0809/padel-connect/internal/player"
)

// LogNotifier writes notifications to the log. It is used when no Slack
// workspace is configured.
type LogNotifier struct{}

var _ Notifier = LogNotifier{}

func NewLogNotifier() LogNotifier { return LogNotifier{} }

func (LogNotifier) NotifyMatchCreated(match *matchmaking.Match, player1, player2 *player.Player, dryRun bool) error {
	log.Info("Match created",
		"match_id", match.ID,
		"player1", displayName(player1, match.Player1ID),
		"player2", displayName(player2, match.Player2ID),
		"dry_run", dryRun,
	)
	return nil
}

func (LogNotifier) FormatOnlinePlayersResponse(players []player.Player) (any, error) {
	lines := make([]string, 0, len(players))
	for _, p := range players {
		lines = append(lines, fmt.Sprintf("%s (%s, %s)", p.DisplayName(), p.SkillLevel, p.Location))
	}
	return map[string]any{"online": lines}, nil
}

func (LogNotifier) FormatPulseResponse(pulse community.Pulse) (any, error) {
	return pulse, nil
}

func displayName(p *player.Player, fallback string) string {
	if p == nil {
		return fallback
	}
	return p.DisplayName()
}
