package notifier

import (
	"sync"

	"github.com/mauv0809/padel-connect/internal/community"
	"github.com/mauv0809/padel-connect/internal/matchmaking"
	"github.com/mauv0809/padel-connect/internal/player"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	NotifyMatchCreatedFunc          func(match *matchmaking.Match, player1, player2 *player.Player, dryRun bool) error
	FormatOnlinePlayersResponseFunc func(players []player.Player) (any, error)
	FormatPulseResponseFunc         func(pulse community.Pulse) (any, error)

	// Call records
	NotifyMatchCreatedCalls []struct {
		Match            *matchmaking.Match
		Player1, Player2 *player.Player
		DryRun           bool
	}
	FormatOnlinePlayersResponseCalls [][]player.Player
	FormatPulseResponseCalls         []community.Pulse
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) NotifyMatchCreated(match *matchmaking.Match, player1, player2 *player.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifyMatchCreatedCalls = append(m.NotifyMatchCreatedCalls, struct {
		Match            *matchmaking.Match
		Player1, Player2 *player.Player
		DryRun           bool
	}{match, player1, player2, dryRun})
	if m.NotifyMatchCreatedFunc != nil {
		return m.NotifyMatchCreatedFunc(match, player1, player2, dryRun)
	}
	return nil
}

func (m *Mock) FormatOnlinePlayersResponse(players []player.Player) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatOnlinePlayersResponseCalls = append(m.FormatOnlinePlayersResponseCalls, players)
	if m.FormatOnlinePlayersResponseFunc != nil {
		return m.FormatOnlinePlayersResponseFunc(players)
	}
	return map[string]int{"online": len(players)}, nil
}

func (m *Mock) FormatPulseResponse(pulse community.Pulse) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatPulseResponseCalls = append(m.FormatPulseResponseCalls, pulse)
	if m.FormatPulseResponseFunc != nil {
		return m.FormatPulseResponseFunc(pulse)
	}
	return pulse, nil
}
