package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-connect/internal/community"
	"github.com/mauv0809/padel-connect/internal/notifier"
	"github.com/mauv0809/padel-connect/internal/player"
)

// OnlineCommandHandler answers the /online slash command with everyone online.
func OnlineCommandHandler(store player.PlayerStore, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.ListOnline(r.Context(), "")
		if err != nil {
			http.Error(w, "Failed to get online players", http.StatusInternalServerError)
			log.Error("Failed to list online players", "error", err)
			return
		}

		msg, err := notifier.FormatOnlinePlayersResponse(players)
		if err != nil {
			http.Error(w, "Failed to format online players", http.StatusInternalServerError)
			log.Error("Failed to format online players", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// PulseCommandHandler answers the /pulse slash command.
func PulseCommandHandler(svc *community.Service, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pulse, err := svc.Pulse(r.Context())
		if err != nil {
			http.Error(w, "Failed to build community pulse", http.StatusInternalServerError)
			log.Error("Failed to build community pulse", "error", err)
			return
		}

		msg, err := notifier.FormatPulseResponse(pulse)
		if err != nil {
			http.Error(w, "Failed to format community pulse", http.StatusInternalServerError)
			log.Error("Failed to format community pulse", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}
