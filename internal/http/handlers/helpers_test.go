package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mauv0809/padel-connect/internal/outcome"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind outcome.Kind
		want int
	}{
		{outcome.Unauthenticated, http.StatusUnauthorized},
		{outcome.Forbidden, http.StatusForbidden},
		{outcome.NotFound, http.StatusNotFound},
		{outcome.Validation, http.StatusUnprocessableEntity},
		{outcome.Expired, http.StatusGone},
		{outcome.Duplicate, http.StatusConflict},
		{outcome.Conflict, http.StatusConflict},
		{outcome.Kind("mystery"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.kind))
		})
	}
}

func TestRespondError_HidesInternalErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	respondError(rr, errors.New("sql: database is locked"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "locked")
	assert.Contains(t, rr.Body.String(), `"success":false`)
}
