package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/tables"
)

func TestCellsEndpointReturnsSeededCells(t *testing.T) {
	st := newTestHandlerStore(t)
	ctx := context.Background()
	require.NoError(t, st.Apply(ctx, []tables.Op{
		tables.UpsertCell{Cell: model.Cell{ID: "c1", CellType: model.CellTypeCode, FractionalIndex: "m", CreatedBy: "u1"}},
	}))

	r := NewRouter(st, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/cells", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)
	var cells []model.Cell
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cells))
	require.Len(t, cells, 1)
	require.Equal(t, "c1", cells[0].ID)
}

func TestCellEndpointReturnsNotFound(t *testing.T) {
	st := newTestHandlerStore(t)
	r := NewRouter(st, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/cells/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestExecutionQueueForCellEndpoint(t *testing.T) {
	st := newTestHandlerStore(t)
	ctx := context.Background()
	require.NoError(t, st.Apply(ctx, []tables.Op{
		tables.UpsertCell{Cell: model.Cell{ID: "c1", CellType: model.CellTypeCode, FractionalIndex: "m", CreatedBy: "u1"}},
		tables.UpsertExecutionQueueEntry{Entry: model.ExecutionQueueEntry{
			ID: "q1", CellID: "c1", ExecutionCount: 1, RequestedBy: "u1", Status: model.ExecutionQueuePending,
		}},
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cells/c1/execution-queue", nil)
	req = mux.SetURLVars(req, map[string]string{"cellId": "c1"})
	w := httptest.NewRecorder()
	NewQueryHandler(st).ExecutionQueueForCell(w, req)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)
	var entries []model.ExecutionQueueEntry
	require.NoError(t, json.NewDecoder(w.Body).Decode(&entries))
	require.Len(t, entries, 1)
	require.Equal(t, "q1", entries[0].ID)
}
