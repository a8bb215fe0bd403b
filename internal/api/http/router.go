package http

import (
	"github.com/gorilla/mux"

	"github.com/nbsync/notebook-order/internal/api/recovery"
	"github.com/nbsync/notebook-order/internal/health"
	"github.com/nbsync/notebook-order/internal/store"
)

// NewRouter builds the read-only query surface over s: cellReferences,
// outputsForCell, executionQueueForCell, runtimeSessions and
// notebookMetadata from spec section 4.6, plus health/readiness endpoints.
// It is deliberately read-only; writes only ever happen through the event
// log. readiness may be nil, in which case /api/ready is not registered
// (used by tests that only care about the query surface).
func NewRouter(s store.Store, readiness *health.ServiceHealthChecker) *mux.Router {
	r := mux.NewRouter()
	r.Use(recovery.Middleware)

	healthHandler := NewHealthHandler(s)
	r.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	if readiness != nil {
		r.HandleFunc("/api/ready", NewReadinessHandler(readiness).CheckReady).Methods("GET")
	}

	q := NewQueryHandler(s)
	r.HandleFunc("/api/cells", q.Cells).Methods("GET")
	r.HandleFunc("/api/cells/{cellId}", q.Cell).Methods("GET")
	r.HandleFunc("/api/cells/{cellId}/outputs", q.OutputsForCell).Methods("GET")
	r.HandleFunc("/api/cells/{cellId}/execution-queue", q.ExecutionQueueForCell).Methods("GET")
	r.HandleFunc("/api/runtime-sessions", q.RuntimeSessions).Methods("GET")
	r.HandleFunc("/api/notebook-metadata", q.NotebookMetadata).Methods("GET")

	return r
}
