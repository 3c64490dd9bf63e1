package ops

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botwright/teleflow/core/metrics"
)

func TestHealthz(t *testing.T) {
	reg, _ := metrics.NewRegistry()
	srv := NewServer(":0", reg)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetricsEndpointExposesPipelineCounters(t *testing.T) {
	reg, m := metrics.NewRegistry()
	m.RecordUpdate("text")
	m.DispatchHandled("ok", 1, 5*time.Millisecond)

	srv := NewServer(":0", reg)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "teleflow_updates_received_total"), "metrics body should carry update counter")
	assert.True(t, strings.Contains(body, "teleflow_dispatch_handled_total"), "metrics body should carry dispatch counter")
}

func TestUnknownRouteIs404(t *testing.T) {
	reg, _ := metrics.NewRegistry()
	srv := NewServer(":0", reg)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
