package handlers

import (
	"net/http"

	"github.com/mauv0809/padel-connect/internal/auth"
	"github.com/mauv0809/padel-connect/internal/matchmaking"
	"github.com/mauv0809/padel-connect/internal/outcome"
)

func SendRequestHandler(svc *matchmaking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ReceiverID string `json:"receiver_id"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		req, err := svc.SendMatchRequest(r.Context(), auth.FromContext(r.Context()), body.ReceiverID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusCreated, req)
	}
}

func IncomingRequestsHandler(svc *matchmaking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := svc.IncomingRequests(r.Context(), auth.FromContext(r.Context()))
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, nonNil(views))
	}
}

func OutgoingRequestsHandler(svc *matchmaking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := svc.OutgoingRequests(r.Context(), auth.FromContext(r.Context()))
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, nonNil(views))
	}
}

func AcceptRequestHandler(svc *matchmaking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.AcceptMatchRequest(r.Context(), auth.FromContext(r.Context()), r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, result)
	}
}

func DeclineRequestHandler(svc *matchmaking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := svc.DeclineMatchRequest(r.Context(), auth.FromContext(r.Context()), r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, req)
	}
}

func CancelRequestHandler(svc *matchmaking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := svc.CancelMatchRequest(r.Context(), auth.FromContext(r.Context()), r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, req)
	}
}

func ExpireRequestsHandler(svc *matchmaking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.FromContext(r.Context()).IsZero() {
			respondError(w, outcome.ErrNotAuthenticated)
			return
		}
		n, err := svc.ExpireStaleRequests(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, map[string]int{"expired": n})
	}
}
