package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	RequestsSent          prometheus.Counter
	RequestsRejected      *prometheus.CounterVec
	RequestTransitions    *prometheus.CounterVec
	MatchesCreated        prometheus.Counter
	RequestsExpired       prometheus.Counter
	OrphanMatchesRepaired prometheus.Counter
	OperationDuration     *prometheus.HistogramVec
	SlackNotifSent        prometheus.Counter
	SlackNotifFailed      prometheus.Counter
	EventsPublished       prometheus.Counter
	EventsFailed          prometheus.Counter
	StartupTimeSeconds    prometheus.Gauge
}
