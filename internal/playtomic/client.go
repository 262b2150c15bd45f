package playtomic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rafa-garcia/go-playtomic-api/client"
	"github.com/rafa-garcia/go-playtomic-api/models"
)

const (
	pageSize       = 300
	dateLayout     = "2006-01-02T15:04:05"
	teamSize       = 2
	defaultBaseURL = "https://api.playtomic.io"
)

// APIClient is a custom Playtomic API client that implements the PlaytomicClient interface.
type APIClient struct {
	httpClient *http.Client
	apiClient  *client.Client
	BaseURL    string
}

// NewClient creates a new custom Playtomic client.
func NewClient() PlaytomicClient {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiClient: client.NewClient(
			client.WithTimeout(10*time.Second),
			client.WithRetries(3),
		),
		BaseURL: defaultBaseURL,
	}
}

var _ PlaytomicClient = (*APIClient)(nil)

// GetMatches fetches every page of matches matching params.
func (c *APIClient) GetMatches(ctx context.Context, params *SearchMatchesParams) ([]MatchSummary, error) {
	var (
		all  []MatchSummary
		page = 0
	)
	for {
		external := &models.SearchMatchesParams{
			SportID:       params.SportID,
			HasPlayers:    params.HasPlayers,
			Sort:          params.Sort,
			TenantIDs:     params.TenantIDs,
			FromStartDate: params.FromStartDate,
			Size:          pageSize,
			Page:          page,
		}

		log.Debug("Fetching matches from Playtomic API", "params", external)
		matches, err := c.apiClient.GetMatches(ctx, external)
		if err != nil {
			return nil, fmt.Errorf("error fetching matches from playtomic api: %w", err)
		}
		for _, m := range matches {
			all = append(all, MatchSummary{
				MatchID: m.MatchID,
				OwnerID: m.OwnerID,
			})
		}
		if len(matches) < pageSize {
			break
		}
		page++
	}
	log.Debug("Fetched club matches", "count", len(all), "pages", page+1)
	return all, nil
}

// GetSpecificMatch fetches a single game by its ID.
func (c *APIClient) GetSpecificMatch(ctx context.Context, matchID string) (ClubGame, error) {
	url := fmt.Sprintf("%s/v1/matches/%s", c.BaseURL, matchID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ClubGame{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "PlaytomicGoClient/1.0")

	log.Debug("Requesting specific match from Playtomic API", "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ClubGame{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from Playtomic API", "status", resp.StatusCode, "body", string(body))
		return ClubGame{}, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	var body playtomicMatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ClubGame{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return toClubGame(matchID, body)
}

func toClubGame(matchID string, body playtomicMatchResponse) (ClubGame, error) {
	start, err := time.Parse(dateLayout, body.StartDate)
	if err != nil {
		return ClubGame{}, fmt.Errorf("failed to parse start time: %w", err)
	}
	end, err := time.Parse(dateLayout, body.EndDate)
	if err != nil {
		return ClubGame{}, fmt.Errorf("failed to parse end time: %w", err)
	}

	game := ClubGame{
		MatchID:      matchID,
		OwnerID:      body.OwnerID,
		Start:        start.Unix(),
		End:          end.Unix(),
		Status:       body.Status,
		GameStatus:   parseGameStatus(body.GameStatus),
		ResourceName: body.ResourceName,
		Tenant:       Tenant{ID: body.Tenant.ID, Name: body.Tenant.Name},
	}
	for _, team := range body.Teams {
		capacity := teamSize
		if team.MaxPlayers != nil {
			capacity = *team.MaxPlayers
		}
		if open := capacity - len(team.Players); open > 0 {
			game.OpenSlots += open
		}
		for _, p := range team.Players {
			level := 0.0
			if p.LevelValue != nil {
				level = *p.LevelValue
			}
			game.Players = append(game.Players, Player{UserID: p.UserID, Name: p.Name, Level: level})
			if p.UserID == body.OwnerID {
				game.OwnerName = p.Name
			}
		}
	}
	return game, nil
}

func parseGameStatus(raw string) GameStatus {
	switch s := GameStatus(raw); s {
	case GameStatusPending, GameStatusPlayed, GameStatusCanceled,
		GameStatusWaitingFor, GameStatusExpired, GameStatusInProgress:
		return s
	}
	log.Warn("Unknown game status received from Playtomic API", "status", raw)
	return GameStatusUnknown
}

// UpcomingParams builds the search for padel games at tenantID starting from now.
func UpcomingParams(tenantID string, now time.Time) *SearchMatchesParams {
	return &SearchMatchesParams{
		SportID:       SportPadel,
		HasPlayers:    true,
		Sort:          "start_date,ASC",
		TenantIDs:     []string{tenantID},
		FromStartDate: now.Format(dateLayout),
	}
}
