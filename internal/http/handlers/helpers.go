package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-connect/internal/outcome"
	"github.com/slack-go/slack"
)

const maxJSONBody = 64 << 10

// StatusFor maps a rejection kind to its HTTP status code.
func StatusFor(kind outcome.Kind) int {
	switch kind {
	case outcome.Unauthenticated:
		return http.StatusUnauthorized
	case outcome.Forbidden:
		return http.StatusForbidden
	case outcome.NotFound:
		return http.StatusNotFound
	case outcome.Validation:
		return http.StatusUnprocessableEntity
	case outcome.Expired:
		return http.StatusGone
	case outcome.Duplicate, outcome.Conflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondOK writes data wrapped in a successful result.
func respondOK(w http.ResponseWriter, status int, data any) {
	writeResult(w, status, outcome.OK(data))
}

// respondError writes err as a failed result. Rejections keep their message;
// anything else is logged and reported generically.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if r, ok := outcome.AsRejection(err); ok {
		status = StatusFor(r.Kind)
	} else {
		log.Error("Request failed", "error", err)
	}
	writeResult(w, status, outcome.Failed(err))
}

func writeResult(w http.ResponseWriter, status int, result outcome.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// decodeJSON reads a small JSON body into v. It writes a validation failure
// and returns false when the body is malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		log.FromContext(r.Context()).Debug("Invalid request body", "error", err)
		respondError(w, outcome.Reject(outcome.Validation, "Invalid request body"))
		return false
	}
	return true
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(slackMsg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}
