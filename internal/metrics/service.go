package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RequestsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_match_requests_sent_total",
			Help: "The total number of match requests created.",
		}),
		RequestsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padel_operations_rejected_total",
			Help: "The total number of operations rejected, by rejection kind.",
		}, []string{"kind"}),
		RequestTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padel_match_request_transitions_total",
			Help: "The total number of match request state transitions, by target status.",
		}, []string{"status"}),
		MatchesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_matches_created_total",
			Help: "The total number of matches created from accepted requests.",
		}),
		RequestsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_match_requests_expired_total",
			Help: "The total number of pending requests moved to expired by sweeps.",
		}),
		OrphanMatchesRepaired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_orphan_matches_repaired_total",
			Help: "The total number of matches deleted because no accepted request references them.",
		}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "padel_operation_duration_seconds",
			Help:    "The duration of matchmaking operations.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_change_events_published_total",
			Help: "The total number of change events published to the feed.",
		}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_change_events_failed_total",
			Help: "The total number of change events that failed to publish.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "padel_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RequestsSent,
		s.RequestsRejected,
		s.RequestTransitions,
		s.MatchesCreated,
		s.RequestsExpired,
		s.OrphanMatchesRepaired,
		s.OperationDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.EventsPublished,
		s.EventsFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRequestsSent() {
	s.RequestsSent.Inc()
}

func (s *Service) IncRequestsRejected(kind string) {
	s.RequestsRejected.WithLabelValues(kind).Inc()
}

func (s *Service) IncRequestTransition(status string) {
	s.RequestTransitions.WithLabelValues(status).Inc()
}

func (s *Service) IncMatchesCreated() {
	s.MatchesCreated.Inc()
}

func (s *Service) AddRequestsExpired(n int) {
	s.RequestsExpired.Add(float64(n))
}

func (s *Service) AddOrphanMatchesRepaired(n int) {
	s.OrphanMatchesRepaired.Add(float64(n))
}

func (s *Service) ObserveOperationDuration(operation string, seconds float64) {
	s.OperationDuration.WithLabelValues(operation).Observe(seconds)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) IncEventsPublished() {
	s.EventsPublished.Inc()
}

func (s *Service) IncEventsFailed() {
	s.EventsFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
