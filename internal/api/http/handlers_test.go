package http

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/simple-nfs/internal/infrastructure/config"
	"github.com/GriffinCanCode/simple-nfs/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/simple-nfs/internal/infrastructure/resilience"
)

func setupRouter(t *testing.T, breaker *resilience.Breaker) (*gin.Engine, *monitoring.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics := monitoring.NewMetrics(nil)
	h := NewHandlers(metrics, breaker, "/srv/export")
	return NewRouter(config.Default().Admin, h, zap.NewNop(), true), metrics
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	breaker := resilience.New("accept", resilience.Settings{})
	router, metrics := setupRouter(t, breaker)

	metrics.IncConnections()
	metrics.RecordRequest("list", "success", time.Millisecond)
	metrics.RecordRequest("delete", "failure", time.Millisecond)
	metrics.RecordUpload(42, "text/plain; charset=utf-8")

	w := get(router, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status  string              `json:"status"`
		Root    string              `json:"root"`
		Breaker map[string]any      `json:"breaker"`
		Stats   monitoring.Snapshot `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "/srv/export", body.Root)
	assert.Equal(t, "accept", body.Breaker["name"])
	assert.Equal(t, "closed", body.Breaker["state"])
	assert.Equal(t, int64(1), body.Stats.Connections)
	assert.Equal(t, int64(2), body.Stats.Requests)
	assert.Equal(t, int64(1), body.Stats.Failures)
	assert.Equal(t, int64(42), body.Stats.BytesUploaded)
}

func TestHealthDegradedWhileBreakerOpen(t *testing.T) {
	breaker := resilience.New("accept", resilience.Settings{
		Timeout: time.Minute,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	})
	_ = breaker.Execute(func() error { return net.ErrClosed })
	require.Equal(t, resilience.StateOpen, breaker.State())

	router, _ := setupRouter(t, breaker)

	w := get(router, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	assert.Contains(t, w.Body.String(), `"state":"open"`)
}

func TestHealthWithoutBreaker(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w := get(router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"none"`)
}

func TestMetricsEndpoints(t *testing.T) {
	router, metrics := setupRouter(t, nil)
	metrics.RecordRequest("upload", "success", 3*time.Millisecond)

	w := get(router, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `nfs_requests_total{command="upload",status="success"} 1`)
	assert.Contains(t, w.Body.String(), "nfs_uptime_seconds")

	w = get(router, "/metrics/json")
	require.Equal(t, http.StatusOK, w.Code)
	var snap monitoring.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, int64(1), snap.Requests)
}

func TestRoot(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w := get(router, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "simple-nfs")
}

func TestNoFileOperations(t *testing.T) {
	router, _ := setupRouter(t, nil)

	for _, method := range []string{"POST", "PUT", "DELETE"} {
		req := httptest.NewRequest(method, "/health", strings.NewReader("x"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.NotEqual(t, http.StatusOK, w.Code, method)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	router, _ := setupRouter(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, router, zap.NewNop()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return")
	}
}
