package http

import (
	"context"
	"net/http"
	"time"

	"github.com/nbsync/notebook-order/internal/api/respond"
	"github.com/nbsync/notebook-order/internal/health"
	"github.com/nbsync/notebook-order/internal/store"
)

// HealthHandler reports the store's reachability.
type HealthHandler struct {
	store store.Store
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(s store.Store) *HealthHandler { return &HealthHandler{store: s} }

// CheckHealth handles GET /api/health
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if pinger, ok := h.store.(health.HealthPinger); ok {
		if err := pinger.HealthPing(ctx); err != nil {
			respond.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"status":    "DOWN",
				"message":   err.Error(),
				"timestamp": time.Now().Format(time.RFC3339),
			})
			return
		}
	}

	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "UP",
		"message":   "store reachable",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
