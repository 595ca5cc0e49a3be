package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "storefront_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Add(3)

	handler := Handler(&config.Config{Metrics: &config.MetricsConfig{Enabled: true}}, reg)
	require.NotNil(t, handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_test_total 3")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestHandler_Disabled(t *testing.T) {
	assert.Nil(t, Handler(&config.Config{}, NewRegistry()))
	assert.Equal(t, "/metrics", Path(&config.Config{}))
	assert.Equal(t, "/internal/metrics", Path(&config.Config{Metrics: &config.MetricsConfig{Path: "/internal/metrics"}}))
}
