package handlers

import (
	"net/http"

	"github.com/mauv0809/padel-connect/internal/auth"
	"github.com/mauv0809/padel-connect/internal/matchmaking"
)

func GetMatchHandler(svc *matchmaking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.GetMatch(r.Context(), auth.FromContext(r.Context()), r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, view)
	}
}

func UpdateMatchStatusHandler(svc *matchmaking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Status matchmaking.MatchStatus `json:"status"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		m, err := svc.UpdateMatchStatus(r.Context(), auth.FromContext(r.Context()), r.PathValue("id"), body.Status)
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, m)
	}
}
