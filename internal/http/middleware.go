package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-connect/internal/auth"
	"github.com/mauv0809/padel-connect/internal/matchmaking"
	"github.com/mauv0809/padel-connect/internal/outcome"
	"github.com/slack-go/slack"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		ctx := r.Context()
		if r.URL.Query().Get("verbose") == "true" {
			// Only this request logs at debug level.
			logger := log.Default().With("method", r.Method, "path", r.URL.Path)
			logger.SetLevel(log.DebugLevel)
			ctx = log.WithContext(ctx, logger)
		}

		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx = matchmaking.WithDryRun(ctx, isDryRun)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

var errInvalidToken = outcome.Reject(outcome.Unauthenticated, "Invalid or expired session")

// authMiddleware resolves the bearer token into the caller identity. Requests
// without a token pass through anonymously and are rejected by the operations
// that need a caller.
func authMiddleware(directory auth.Directory) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				writeUnauthorized(w)
				return
			}
			id, err := directory.Verify(r.Context(), strings.TrimSpace(token))
			if err != nil {
				log.Debug("Rejected bearer token", "error", err)
				writeUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(outcome.Failed(errInvalidToken))
}

// slackVerifyMiddleware checks the Slack request signature before the body is
// handed to the command handler.
func slackVerifyMiddleware(signingSecret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if signingSecret == "" {
				log.Warn("Slack command received but no signing secret is configured")
				http.Error(w, "Slack commands are not configured", http.StatusServiceUnavailable)
				return
			}
			verifier, err := slack.NewSecretsVerifier(r.Header, signingSecret)
			if err != nil {
				log.Warn("Missing or stale Slack signature headers", "error", err)
				http.Error(w, "Invalid signature", http.StatusUnauthorized)
				return
			}
			body, err := io.ReadAll(io.TeeReader(r.Body, &verifier))
			if err != nil {
				http.Error(w, "Failed to read request body", http.StatusBadRequest)
				return
			}
			if err := verifier.Ensure(); err != nil {
				log.Warn("Slack signature verification failed", "error", err)
				http.Error(w, "Invalid signature", http.StatusUnauthorized)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
