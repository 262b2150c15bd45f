package matchmaking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStaleRequests(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reqs := []MatchRequest{
		{ID: "past", Status: StatusPending, ExpiresAt: now.Add(-time.Second)},
		{ID: "exact", Status: StatusPending, ExpiresAt: now},
		{ID: "future", Status: StatusPending, ExpiresAt: now.Add(time.Minute)},
		{ID: "accepted", Status: StatusAccepted, ExpiresAt: now.Add(-time.Hour)},
		{ID: "cancelled", Status: StatusCancelled, ExpiresAt: now.Add(-time.Hour)},
	}

	stale := StaleRequests(now, reqs)
	assert.Len(t, stale, 1)
	assert.Equal(t, "past", stale[0].ID)

	assert.Empty(t, StaleRequests(now, nil))
}

func TestStaleRequests_SweepIsIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reqs := []MatchRequest{
		{ID: "a", Status: StatusPending, ExpiresAt: now.Add(-time.Minute)},
		{ID: "b", Status: StatusPending, ExpiresAt: now.Add(time.Minute)},
	}
	apply := func(in []MatchRequest) []MatchRequest {
		out := append([]MatchRequest(nil), in...)
		for _, s := range StaleRequests(now, out) {
			for i := range out {
				if out[i].ID == s.ID {
					out[i].Status = StatusExpired
				}
			}
		}
		return out
	}

	once := apply(reqs)
	assert.Equal(t, once, apply(once))
	assert.Equal(t, StatusExpired, once[0].Status)
	assert.Equal(t, StatusPending, once[1].Status)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to MatchStatus
		want     bool
	}{
		{MatchWaiting, MatchInProgress, true},
		{MatchWaiting, MatchFinished, true},
		{MatchInProgress, MatchFinished, true},
		{MatchInProgress, MatchWaiting, false},
		{MatchFinished, MatchInProgress, false},
		{MatchWaiting, MatchWaiting, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestRequestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	for _, s := range []RequestStatus{StatusAccepted, StatusRejected, StatusExpired, StatusCancelled} {
		assert.True(t, s.Terminal(), s)
	}
}
