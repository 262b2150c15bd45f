package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
)

// Scheduler runs a Reconciler on a fixed interval in process.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler registers r to run every interval. Overlapping runs are skipped.
func NewScheduler(r *Reconciler, interval time.Duration) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			if _, err := r.Run(ctx); err != nil {
				log.Warn("Scheduled reconciliation failed", "error", err)
			}
		}),
		gocron.WithName("reconcile"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule reconciliation: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

func (s *Scheduler) Start() {
	log.Info("Starting reconciliation scheduler")
	s.scheduler.Start()
}

// Stop waits for a running pass to finish.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}
