package inngest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"
	"github.com/mauv0809/padel-connect/internal/config"
	"github.com/mauv0809/padel-connect/internal/reconcile"
)

// NewProvider builds the Inngest SDK client from configuration.
func NewProvider(cfg config.InngestConfig) (inngestgo.Client, error) {
	dev := cfg.Dev
	opts := inngestgo.ClientOpts{
		AppID:      cfg.AppID,
		SigningKey: &cfg.SigningKey,
		Dev:        &dev,
	}
	if cfg.EventKey != "" {
		opts.EventKey = &cfg.EventKey
	}
	return inngestgo.NewClient(opts)
}

// New registers the reconciliation function on inngestClient.
func New(inngestClient inngestgo.Client, reconciler *reconcile.Reconciler) (InngestClient, error) {
	c := &client{
		inngestClient: inngestClient,
		reconciler:    reconciler,
	}
	if _, err := c.createReconcileFunction(); err != nil {
		return nil, err
	}
	return c, nil
}

func (i *client) createReconcileFunction() (inngestgo.ServableFunction, error) {
	f, err := inngestgo.CreateFunction(
		i.inngestClient,
		inngestgo.FunctionOpts{
			ID:   "reconcile-matchmaking",
			Name: "Reconcile match requests",
		},
		inngestgo.CronTrigger(reconcileCron),
		func(ctx context.Context, input inngestgo.Input[map[string]any]) (any, error) {
			return i.reconcile(ctx)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reconcile function: %w", err)
	}
	return f, nil
}

// reconcile wraps the pass in a step so Inngest retries it on failure.
func (i *client) reconcile(ctx context.Context) (ReconcileResult, error) {
	report, err := step.Run(ctx, "run-reconciler", func(ctx context.Context) (reconcile.Report, error) {
		return i.reconciler.Run(ctx)
	})
	if err != nil {
		return ReconcileResult{}, err
	}
	log.Info("Inngest reconciliation finished", "expired", report.RequestsExpired, "orphans", report.OrphansRemoved)
	return ReconcileResult{
		RequestsExpired: report.RequestsExpired,
		OrphansRemoved:  report.OrphansRemoved,
	}, nil
}

func (i *client) Serve() http.Handler {
	return i.inngestClient.Serve()
}
