package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-connect/internal/pubsub"
)

// pushEnvelope is the body Pub/Sub POSTs to a push subscription.
type pushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data       string            `json:"data"`
		Attributes map[string]string `json:"attributes"`
		MessageID  string            `json:"messageId"`
	} `json:"message"`
}

// ChangeFeedPushHandler receives change events back from a push subscription
// on our own topic. It decodes and logs them, which makes it easy to check the
// feed end to end in a deployed environment.
func ChangeFeedPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}

		var envelope pushEnvelope
		if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
			log.Error("Failed to unmarshal push envelope", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		rawData, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var event pubsub.Event
		if err := pubsub.Decode(rawData, &event); err != nil {
			// Acknowledge anyway; redelivering a malformed message never helps.
			log.Warn("Dropping undecodable change event", "message_id", envelope.Message.MessageID, "error", err)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		log.Info("Change event received",
			"subscription", envelope.Subscription,
			"type", event.Type,
			"table", event.Table,
			"record_id", event.RecordID,
			"status", event.Status,
		)
		w.WriteHeader(http.StatusNoContent)
	}
}
