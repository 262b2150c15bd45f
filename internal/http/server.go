package http

import (
	"net/http"

	"github.com/mauv0809/padel-connect/internal/auth"
	"github.com/mauv0809/padel-connect/internal/config"
	"github.com/mauv0809/padel-connect/internal/http/handlers"
	"github.com/mauv0809/padel-connect/internal/inngest"
	"github.com/mauv0809/padel-connect/internal/notifier"
)

func NewServer(services Services, directory auth.Directory, notifier notifier.Notifier, metricsHandler http.Handler, cfg config.Config, inngestClient inngest.InngestClient) *Server {
	server := &Server{
		Services:       services,
		Directory:      directory,
		Notifier:       notifier,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		InngestClient:  inngestClient,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	api := func(h http.Handler) http.Handler {
		return Chain(h, paramsMiddleware, authMiddleware(s.Directory))
	}
	slackCmd := func(h http.Handler) http.Handler {
		return Chain(h, paramsMiddleware, slackVerifyMiddleware(s.Cfg.Slack.SigningSecret))
	}

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(s.DB), paramsMiddleware))

	s.Router.Handle("POST /session/start", api(handlers.StartSessionHandler(s.Players)))
	s.Router.Handle("POST /session/end", api(handlers.EndSessionHandler(s.Players)))
	s.Router.Handle("GET /players/me", api(handlers.GetProfileHandler(s.Players)))
	s.Router.Handle("PUT /players/me", api(handlers.UpdateProfileHandler(s.Players)))
	s.Router.Handle("POST /players/me/presence", api(handlers.PresenceHandler(s.Players)))
	s.Router.Handle("POST /players/me/photo", api(handlers.UploadPhotoHandler(s.Players)))
	s.Router.Handle("GET /players/online", api(handlers.OnlinePlayersHandler(s.Players)))
	s.Router.Handle("GET /players/compatible", api(handlers.CompatiblePlayersHandler(s.Players)))

	s.Router.Handle("POST /requests", api(handlers.SendRequestHandler(s.Matchmaking)))
	s.Router.Handle("GET /requests/incoming", api(handlers.IncomingRequestsHandler(s.Matchmaking)))
	s.Router.Handle("GET /requests/outgoing", api(handlers.OutgoingRequestsHandler(s.Matchmaking)))
	s.Router.Handle("POST /requests/{id}/accept", api(handlers.AcceptRequestHandler(s.Matchmaking)))
	s.Router.Handle("POST /requests/{id}/decline", api(handlers.DeclineRequestHandler(s.Matchmaking)))
	s.Router.Handle("POST /requests/{id}/cancel", api(handlers.CancelRequestHandler(s.Matchmaking)))
	s.Router.Handle("POST /requests/expire", api(handlers.ExpireRequestsHandler(s.Matchmaking)))

	s.Router.Handle("GET /matches/{id}", api(handlers.GetMatchHandler(s.Matchmaking)))
	s.Router.Handle("POST /matches/{id}/status", api(handlers.UpdateMatchStatusHandler(s.Matchmaking)))

	s.Router.Handle("GET /community/pulse", api(handlers.PulseHandler(s.Community)))
	s.Router.Handle("POST /reconcile", api(handlers.ReconcileHandler(s.Reconciler)))

	s.Router.Handle("POST /slack/command/online", slackCmd(handlers.OnlineCommandHandler(s.PlayerStore, s.Notifier)))
	s.Router.Handle("POST /slack/command/pulse", slackCmd(handlers.PulseCommandHandler(s.Community, s.Notifier)))
	s.Router.Handle("POST /pubsub/changes", Chain(handlers.ChangeFeedPushHandler(), paramsMiddleware))

	if s.InngestClient != nil {
		s.Router.Handle("/api/inngest", s.InngestClient.Serve())
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
