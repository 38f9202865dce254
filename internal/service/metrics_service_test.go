package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/v3/cursos", http.StatusOK, 10*time.Millisecond)
	m.ObserveStoreCall("courses.find_all", 4*time.Millisecond, nil)
	m.ObserveStoreCall("courses.save", 2*time.Millisecond, errors.New("boom"))
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(false)

	stats := m.Snapshot()
	assert.Equal(t, uint64(1), stats.RequestsTotal)
	assert.InDelta(t, 10.0, stats.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(2), stats.StoreCalls)
	assert.Equal(t, uint64(1), stats.StoreFailures)
	assert.InDelta(t, 3.0, stats.AverageStoreDurationMs, 0.001)
	assert.InDelta(t, 1.0/3.0, stats.CacheHitRatio, 0.001)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeFailures.WithLabelValues("courses.save")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
}

func TestMetricsServiceHandler(t *testing.T) {
	m := NewMetricsService()
	m.ObserveStoreCall("courses.find_all", time.Millisecond, nil)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "course_store_duration_seconds")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.ObserveStoreCall("courses.find_all", time.Millisecond, nil)
	m.RecordCacheLookup(true)
	assert.Zero(t, m.Snapshot().RequestsTotal)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
