package execqueue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/store/sqlite"
	"github.com/nbsync/notebook-order/internal/tables"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlite.Bootstrap(context.Background(), db))
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewWithDB(db)
}

func TestDispatchAssignsPendingRowToReadySession(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Apply(ctx, []tables.Op{
		tables.UpsertCell{Cell: model.Cell{ID: "c1", CellType: model.CellTypeCode, FractionalIndex: "m", CreatedBy: "u1"}},
		tables.UpsertExecutionQueueEntry{Entry: model.ExecutionQueueEntry{
			ID: "q1", CellID: "c1", ExecutionCount: 1, RequestedBy: "u1", Status: model.ExecutionQueuePending,
		}},
		tables.UpsertRuntimeSession{Session: model.RuntimeSession{
			SessionID: "s1", RuntimeID: "r1", RuntimeType: "python",
			Status: model.RuntimeSessionReady, IsActive: true, CanExecuteCode: true,
		}},
	}))

	entry, ok, err := st.ExecutionQueueEntry(ctx, "q1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, model.ExecutionQueuePending, entry.Status)
	require.Nil(t, entry.AssignedRuntimeSession)

	w := NewWorker(st.DB().(DB), st, Config{BatchSize: 5, Interval: time.Millisecond}, zerolog.Nop())
	require.NoError(t, w.dispatchBatch(ctx))

	entry, ok, err = st.ExecutionQueueEntry(ctx, "q1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, model.ExecutionQueueAssigned, entry.Status)
	require.NotNil(t, entry.AssignedRuntimeSession)
	require.Equal(t, "s1", *entry.AssignedRuntimeSession)
}

func TestDispatchIsNoOpWhenNoSessionReady(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Apply(ctx, []tables.Op{
		tables.UpsertCell{Cell: model.Cell{ID: "c1", CellType: model.CellTypeCode, FractionalIndex: "m", CreatedBy: "u1"}},
		tables.UpsertExecutionQueueEntry{Entry: model.ExecutionQueueEntry{
			ID: "q1", CellID: "c1", ExecutionCount: 1, RequestedBy: "u1", Status: model.ExecutionQueuePending,
		}},
	}))

	w := NewWorker(st.DB().(DB), st, Config{BatchSize: 5, Interval: time.Millisecond}, zerolog.Nop())
	require.NoError(t, w.dispatchBatch(ctx))

	entry, ok, err := st.ExecutionQueueEntry(ctx, "q1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, model.ExecutionQueuePending, entry.Status)
}

func TestWorkerDefaultsConfig(t *testing.T) {
	w := NewWorker(nil, nil, Config{}, zerolog.Nop())
	require.Equal(t, 10, w.cfg.BatchSize)
	require.Equal(t, time.Second, w.cfg.Interval)
}

func TestNilHandlePanicsOnUse(t *testing.T) {
	var h nilHandle
	require.Panics(t, func() { _, _ = h.Cell("x") })
}
