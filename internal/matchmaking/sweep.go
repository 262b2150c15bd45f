package matchmaking

import "time"

// StaleRequests returns the requests that a sweep at now moves to expired:
// those still pending whose expiry is strictly before now.
func StaleRequests(now time.Time, requests []MatchRequest) []MatchRequest {
	var stale []MatchRequest
	for _, r := range requests {
		if r.Status == StatusPending && r.ExpiredAt(now) {
			stale = append(stale, r)
		}
	}
	return stale
}
