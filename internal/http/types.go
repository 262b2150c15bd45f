package http

import (
	"database/sql"
	"net/http"

	"github.com/mauv0809/padel-connect/internal/auth"
	"github.com/mauv0809/padel-connect/internal/community"
	"github.com/mauv0809/padel-connect/internal/config"
	"github.com/mauv0809/padel-connect/internal/inngest"
	"github.com/mauv0809/padel-connect/internal/matchmaking"
	"github.com/mauv0809/padel-connect/internal/notifier"
	"github.com/mauv0809/padel-connect/internal/player"
	"github.com/mauv0809/padel-connect/internal/reconcile"
)

// Services groups the application services the routes dispatch to.
type Services struct {
	DB          *sql.DB
	PlayerStore player.PlayerStore
	Players     *player.Service
	Matchmaking *matchmaking.Service
	Community   *community.Service
	Reconciler  *reconcile.Reconciler
}

type Server struct {
	Services
	Directory      auth.Directory
	Notifier       notifier.Notifier
	MetricsHandler http.Handler
	Cfg            config.Config
	// InngestClient is nil unless Inngest is configured.
	InngestClient inngest.InngestClient
	Router        *http.ServeMux
}
