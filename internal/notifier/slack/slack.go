package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-connect/internal/community"
	"github.com/mauv0809/padel-connect/internal/matchmaking"
	"github.com/mauv0809/padel-connect/internal/metrics"
	"github.com/mauv0809/padel-connect/internal/notifier"
	"github.com/mauv0809/padel-connect/internal/player"
	"github.com/slack-go/slack"
)

// maxListedPlayers caps the /online response; Slack rejects messages with more than 50 blocks.
const maxListedPlayers = 40

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionText(message.Text, false),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// NotifyMatchCreated posts the new pairing to the community channel.
func (s *Notifier) NotifyMatchCreated(match *matchmaking.Match, player1, player2 *player.Player, dryRun bool) error {
	msg := s.formatMatchCreated(match, player1, player2)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatOnlinePlayersResponse formats the /online slash command response.
func (s *Notifier) FormatOnlinePlayersResponse(players []player.Player) (any, error) {
	return s.formatOnlinePlayers(players), nil
}

// FormatPulseResponse formats a community pulse for a slash command response.
func (s *Notifier) FormatPulseResponse(pulse community.Pulse) (any, error) {
	return s.formatPulse(pulse), nil
}

func (s *Notifier) formatMatchCreated(match *matchmaking.Match, player1, player2 *player.Player) slack.Message {
	name1 := nameOr(player1, match.Player1ID)
	name2 := nameOr(player2, match.Player2ID)

	blocks := make([]slack.Block, 0, 3)
	headerText := slack.NewTextBlockObject("plain_text", "🎾 New match on! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s vs %s", name1, name2)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	var contextElements []slack.MixedElement
	if player1 != nil && player2 != nil && player1.Location == player2.Location && player1.Location != player.DefaultLocation {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", "📍 "+player1.Location, true, false))
	}
	contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", "Started "+formatTime(match.StartedAt), true, false))
	blocks = append(blocks, slack.NewContextBlock("", contextElements...))

	msg := slack.NewBlockMessage(blocks...)
	msg.Text = fmt.Sprintf("New match: %s vs %s", name1, name2)
	return msg
}

func (s *Notifier) formatOnlinePlayers(players []player.Player) slack.Message {
	blocks := make([]slack.Block, 0)
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🟢 %d players online", len(players)), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Nobody is online right now. Be the first!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, p := range players {
		if i == maxListedPlayers {
			more := fmt.Sprintf("…and %d more", len(players)-maxListedPlayers)
			blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", more, true, false)))
			break
		}
		line := fmt.Sprintf("• %s | %s | %s", p.DisplayName(), skillLabel(p.SkillLevel), p.Location)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", line, true, false), nil, nil))
	}
	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatPulse(pulse community.Pulse) slack.Message {
	blocks := make([]slack.Block, 0, 3)
	headerText := slack.NewTextBlockObject("plain_text", "📈 Community pulse", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	lines := []string{
		fmt.Sprintf("Players online: %d", pulse.OnlinePlayers),
		fmt.Sprintf("Matches this week: %d", pulse.MatchesThisWeek),
	}
	if pulse.ClubConnected {
		lines = append(lines, fmt.Sprintf("Upcoming club games: %d", pulse.UpcomingGames))
	}
	if next := pulse.NextGame; next != nil {
		lines = append(lines, fmt.Sprintf("Next up: %s at %s, %s", next.Court, formatTime(next.StartsAt), slotsLabel(next.OpenSlots)))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", "As of "+formatTime(pulse.GeneratedAt), true, false)))
	return slack.NewBlockMessage(blocks...)
}

func slotsLabel(open int) string {
	switch open {
	case 0:
		return "full"
	case 1:
		return "1 spot open"
	}
	return fmt.Sprintf("%d spots open", open)
}

func nameOr(p *player.Player, fallback string) string {
	if p == nil {
		return fallback
	}
	return p.DisplayName()
}

func skillLabel(level player.SkillLevel) string {
	if level == "" {
		return "Unrated"
	}
	return string(level)
}

func formatTime(t time.Time) string {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		return t.Format("Monday 02 Jan, 15:04")
	}
	return t.In(loc).Format("Monday 02 Jan, 15:04")
}
