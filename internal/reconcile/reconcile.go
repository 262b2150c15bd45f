package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultOrphanGrace is how old a match must be before it counts as orphaned.
const DefaultOrphanGrace = 2 * time.Minute

// Lifecycle is the part of the matchmaking service the reconciler drives.
type Lifecycle interface {
	ExpireStaleRequests(ctx context.Context) (int, error)
	RemoveOrphanMatches(ctx context.Context, grace time.Duration) (int, error)
}

// Report summarises one reconciliation pass.
type Report struct {
	RequestsExpired int           `json:"requests_expired"`
	OrphansRemoved  int           `json:"orphans_removed"`
	Duration        time.Duration `json:"duration"`
}

// Reconciler repairs state that the request lifecycle only fixes lazily.
type Reconciler struct {
	lifecycle Lifecycle
	grace     time.Duration
}

// New creates a Reconciler. A non-positive grace uses DefaultOrphanGrace.
func New(lifecycle Lifecycle, grace time.Duration) *Reconciler {
	if grace <= 0 {
		grace = DefaultOrphanGrace
	}
	return &Reconciler{lifecycle: lifecycle, grace: grace}
}

// Run expires stale requests and then removes orphaned matches. Both steps run
// even if the first fails; the errors are joined.
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	var report Report

	expired, expireErr := r.lifecycle.ExpireStaleRequests(ctx)
	if expireErr != nil {
		expireErr = fmt.Errorf("failed to expire stale requests: %w", expireErr)
	}
	report.RequestsExpired = expired

	removed, orphanErr := r.lifecycle.RemoveOrphanMatches(ctx, r.grace)
	if orphanErr != nil {
		orphanErr = fmt.Errorf("failed to remove orphan matches: %w", orphanErr)
	}
	report.OrphansRemoved = removed
	report.Duration = time.Since(start)

	err := errors.Join(expireErr, orphanErr)
	if err != nil {
		log.Error("Reconciliation finished with errors", "error", err, "expired", expired, "orphans", removed)
		return report, err
	}
	log.Debug("Reconciliation finished", "expired", expired, "orphans", removed, "duration", report.Duration)
	return report, nil
}
