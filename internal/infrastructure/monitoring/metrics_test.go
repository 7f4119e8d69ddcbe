package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRequest(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordRequest("list", "success", time.Millisecond)
	m.RecordRequest("list", "success", time.Millisecond)
	m.RecordRequest("delete", "failure", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("list", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("delete", "failure")))

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.Requests)
	assert.Equal(t, int64(1), snap.Failures)
}

func TestTimer(t *testing.T) {
	m := NewMetrics(nil)

	timer := NewTimer(m, "create")
	d := timer.Stop("success")

	assert.GreaterOrEqual(t, d, time.Duration(0))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("create", "success")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestConnectionAndPayloadCounters(t *testing.T) {
	m := NewMetrics(nil)

	m.IncConnections()
	m.RecordConnectionError("read")
	m.RecordUpload(1024, "text/plain; charset=utf-8")
	m.RecordUpload(1, "")
	m.IncListingsTruncated()
	m.SetBreakerOpen(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Connections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConnectionErrors.WithLabelValues("read")))
	assert.Equal(t, 1025.0, testutil.ToFloat64(m.UploadBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Uploads.WithLabelValues("text/plain")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Uploads.WithLabelValues("none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ListingsTruncated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BreakerOpen))

	m.SetBreakerOpen(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.BreakerOpen))

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.Connections)
	assert.Equal(t, int64(1025), snap.BytesUploaded)
}

func TestSeparateRegistries(t *testing.T) {
	// Two collectors must not clash on registration.
	assert.NotPanics(t, func() {
		NewMetrics(nil)
		NewMetrics(nil)
	})
}

func TestHandler(t *testing.T) {
	m := NewMetrics(nil)
	m.RecordRequest("upload", "success", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `nfs_requests_total{command="upload",status="success"} 1`)
	assert.Contains(t, body, "nfs_uptime_seconds")
}
