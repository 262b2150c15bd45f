package inngest

import (
	"github.com/inngest/inngestgo"
	"github.com/mauv0809/padel-connect/internal/reconcile"
)

const reconcileCron = "*/5 * * * *"

type client struct {
	inngestClient inngestgo.Client
	reconciler    *reconcile.Reconciler
}

// ReconcileResult is the function output shown in the Inngest dashboard.
type ReconcileResult struct {
	RequestsExpired int `json:"requestsExpired"`
	OrphansRemoved  int `json:"orphansRemoved"`
}
