package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nbsync/notebook-order/internal/store/sqlite"
)

func newTestHandlerStore(t *testing.T) *sqlite.Store {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlite.Bootstrap(context.Background(), db))
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewWithDB(db)
}

func TestCheckHealthReportsUpForReachableStore(t *testing.T) {
	st := newTestHandlerStore(t)
	h := NewHealthHandler(st)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	h.CheckHealth(w, req)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)
}

func TestCheckHealthReportsDownAfterClose(t *testing.T) {
	st := newTestHandlerStore(t)
	require.NoError(t, st.Close())
	h := NewHealthHandler(st)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	h.CheckHealth(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
}
