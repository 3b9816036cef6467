package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	m := NewMetrics()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/deals/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/deals/d1", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), req)

	count := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/deals/{id}", "200"))
	assert.Equal(t, float64(2), count)
}

func TestObserveDecision(t *testing.T) {
	m := NewMetrics()

	m.ObserveDecision("billing.read", "direct", true)
	m.ObserveDecision("billing.read", "direct", true)
	m.ObserveDecision("deal.approve", "denied", false)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.decisionsTotal.WithLabelValues("billing.read", "direct", "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.decisionsTotal.WithLabelValues("deal.approve", "denied", "false")))
}

func TestObserveMaskedResponse(t *testing.T) {
	m := NewMetrics()

	m.ObserveMaskedResponse()
	m.ObserveMaskedResponse()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.maskedTotal))
}

func TestMetricsHandlerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.ObserveDecision("billing.read", "direct", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fundbridge_authz_decisions_total")
}

func TestNilMetricsAreInert(t *testing.T) {
	var m *Metrics

	m.ObserveDecision("billing.read", "direct", true)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	rec := httptest.NewRecorder()
	m.Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
