package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/simple-nfs/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/simple-nfs/internal/infrastructure/resilience"
)

// Handlers serves the admin endpoint of a file server
type Handlers struct {
	metrics *monitoring.Metrics
	breaker *resilience.Breaker
	root    string
	started time.Time
}

// NewHandlers creates admin handlers. breaker may be nil.
func NewHandlers(metrics *monitoring.Metrics, breaker *resilience.Breaker, root string) *Handlers {
	return &Handlers{
		metrics: metrics,
		breaker: breaker,
		root:    root,
		started: time.Now(),
	}
}

// Root describes the service
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   "simple-nfs",
		"started":   h.started.UTC().Format(time.RFC3339),
		"endpoints": []string{"/health", "/metrics", "/metrics/json"},
	})
}

// Health reports whether the accept loop is serving. An open accept breaker
// means the listener is failing and answers 503.
func (h *Handlers) Health(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	breaker := gin.H{"state": "none"}
	if h.breaker != nil {
		state := h.breaker.State()
		breaker = gin.H{
			"name":        h.breaker.Name(),
			"state":       state.String(),
			"retry_in_ms": h.breaker.Remaining().Milliseconds(),
			"failures":    h.breaker.Counts().ConsecutiveFailures,
		}
		if state == resilience.StateOpen {
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status":  status,
		"root":    h.root,
		"breaker": breaker,
		"stats":   h.metrics.Snapshot(),
	})
}

// MetricsJSON returns the counter snapshot as JSON
func (h *Handlers) MetricsJSON(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}
