package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncRequestsSent()
	IncRequestsRejected(kind string)
	IncRequestTransition(status string)
	IncMatchesCreated()
	AddRequestsExpired(n int)
	AddOrphanMatchesRepaired(n int)
	ObserveOperationDuration(operation string, seconds float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	IncEventsPublished()
	IncEventsFailed()
	SetStartupTime(duration float64)
}
