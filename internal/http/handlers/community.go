package handlers

import (
	"net/http"

	"github.com/mauv0809/padel-connect/internal/auth"
	"github.com/mauv0809/padel-connect/internal/community"
	"github.com/mauv0809/padel-connect/internal/outcome"
	"github.com/mauv0809/padel-connect/internal/reconcile"
)

func PulseHandler(svc *community.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.FromContext(r.Context()).IsZero() {
			respondError(w, outcome.ErrNotAuthenticated)
			return
		}
		pulse, err := svc.Pulse(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, pulse)
	}
}

func ReconcileHandler(reconciler *reconcile.Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.FromContext(r.Context()).IsZero() {
			respondError(w, outcome.ErrNotAuthenticated)
			return
		}
		report, err := reconciler.Run(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, report)
	}
}
