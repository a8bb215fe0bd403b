package http

import (
	"net/http"
	"time"

	"github.com/nbsync/notebook-order/internal/api/respond"
	"github.com/nbsync/notebook-order/internal/health"
)

// ReadinessHandler reports the cached aggregate health the background
// checkers maintain, unlike HealthHandler which probes the store live on
// every request.
type ReadinessHandler struct {
	checker *health.ServiceHealthChecker
}

// NewReadinessHandler creates a new readiness handler.
func NewReadinessHandler(checker *health.ServiceHealthChecker) *ReadinessHandler {
	return &ReadinessHandler{checker: checker}
}

// CheckReady handles GET /api/ready
func (h *ReadinessHandler) CheckReady(w http.ResponseWriter, r *http.Request) {
	if !h.checker.IsHealthy() {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "NOT_READY",
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "READY",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
