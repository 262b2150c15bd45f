package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	requestsSent       int
	rejected           map[string]int
	transitions        map[string]int
	matchesCreated     int
	requestsExpired    int
	orphansRepaired    int
	operationDurations map[string][]float64
	slackNotifSent     int
	slackNotifFailed   int
	eventsPublished    int
	eventsFailed       int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		rejected:           make(map[string]int),
		transitions:        make(map[string]int),
		operationDurations: make(map[string][]float64),
	}
}

func (m *Mock) IncRequestsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsSent++
}

func (m *Mock) IncRequestsRejected(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[kind]++
}

func (m *Mock) IncRequestTransition(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions[status]++
}

func (m *Mock) IncMatchesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCreated++
}

func (m *Mock) AddRequestsExpired(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsExpired += n
}

func (m *Mock) AddOrphanMatchesRepaired(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orphansRepaired += n
}

func (m *Mock) ObserveOperationDuration(operation string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operationDurations[operation] = append(m.operationDurations[operation], seconds)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) IncEventsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished++
}

func (m *Mock) IncEventsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// RequestsSent returns the number of times IncRequestsSent was called.
func (m *Mock) RequestsSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestsSent
}

// Rejected returns how many rejections of the given kind were recorded.
func (m *Mock) Rejected(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rejected[kind]
}

// Transitions returns how many transitions into status were recorded.
func (m *Mock) Transitions(status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitions[status]
}

func (m *Mock) MatchesCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCreated
}

func (m *Mock) RequestsExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestsExpired
}

func (m *Mock) OrphanMatchesRepaired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orphansRepaired
}

// Observations returns the number of durations recorded for operation.
func (m *Mock) Observations(operation string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.operationDurations[operation])
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

func (m *Mock) EventsPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsPublished
}

func (m *Mock) EventsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsFailed
}
