package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nbsync/notebook-order/internal/api/respond"
	"github.com/nbsync/notebook-order/internal/store"
)

// QueryHandler exposes the read-only projection as JSON, thin over
// store.Store. It never accepts writes: mutation only ever happens
// through the event log and the materializer.
type QueryHandler struct {
	store store.Store
}

// NewQueryHandler constructs a QueryHandler.
func NewQueryHandler(s store.Store) *QueryHandler {
	return &QueryHandler{store: s}
}

// Cells handles GET /api/cells
func (h *QueryHandler) Cells(w http.ResponseWriter, r *http.Request) {
	cells, err := h.store.Cells(r.Context())
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, cells)
}

// Cell handles GET /api/cells/{cellId}
func (h *QueryHandler) Cell(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["cellId"]
	cell, ok, err := h.store.Cell(r.Context(), id)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if !ok {
		respond.WriteNotFound(w, "cell not found")
		return
	}
	respond.WriteJSON(w, http.StatusOK, cell)
}

// OutputsForCell handles GET /api/cells/{cellId}/outputs
func (h *QueryHandler) OutputsForCell(w http.ResponseWriter, r *http.Request) {
	cellID := mux.Vars(r)["cellId"]
	outputs, err := h.store.OutputsForCell(r.Context(), cellID)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, outputs)
}

// ExecutionQueueForCell handles GET /api/cells/{cellId}/execution-queue
func (h *QueryHandler) ExecutionQueueForCell(w http.ResponseWriter, r *http.Request) {
	cellID := mux.Vars(r)["cellId"]
	entries, err := h.store.ExecutionQueueForCell(r.Context(), cellID)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, entries)
}

// RuntimeSessions handles GET /api/runtime-sessions
func (h *QueryHandler) RuntimeSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.RuntimeSessions(r.Context())
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, sessions)
}

// NotebookMetadata handles GET /api/notebook-metadata
func (h *QueryHandler) NotebookMetadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.store.NotebookMetadata(r.Context())
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, meta)
}
