package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)

	svc.IncRequestsSent()
	svc.IncRequestsSent()
	svc.IncRequestsRejected("validation")
	svc.IncRequestTransition("accepted")
	svc.AddRequestsExpired(3)
	svc.ObserveOperationDuration("accept", 0.02)

	assert.Equal(t, float64(2), testutil.ToFloat64(svc.RequestsSent))
	assert.Equal(t, float64(1), testutil.ToFloat64(svc.RequestsRejected.WithLabelValues("validation")))
	assert.Equal(t, float64(1), testutil.ToFloat64(svc.RequestTransitions.WithLabelValues("accepted")))
	assert.Equal(t, float64(3), testutil.ToFloat64(svc.RequestsExpired))
}

func TestMetricsHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)
	svc.IncMatchesCreated()

	rr := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "padel_matches_created_total 1")
}
