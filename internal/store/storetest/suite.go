// Package storetest is a backend-agnostic conformance suite run against
// every store.Store implementation (sqlite, postgres) so both honor the
// same contract the materializer relies on.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/store"
	"github.com/nbsync/notebook-order/internal/tables"
)

// Run exercises a representative slice of every table operation against a
// freshly bootstrapped store.Store and checks the resulting read-side
// state. Implementations should provide a clean, isolated store and
// return it from makeStore; the suite takes care of cleanup via t.Cleanup.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()
	s := makeStore(t)
	ctx := context.Background()

	t.Run("CellLifecycle", func(t *testing.T) { testCellLifecycle(t, ctx, s) })
	t.Run("OutputsAndDeltas", func(t *testing.T) { testOutputsAndDeltas(t, ctx, s) })
	t.Run("PendingClear", func(t *testing.T) { testPendingClear(t, ctx, s) })
	t.Run("RuntimeSessions", func(t *testing.T) { testRuntimeSessions(t, ctx, s) })
	t.Run("ExecutionQueue", func(t *testing.T) { testExecutionQueue(t, ctx, s) })
	t.Run("PresenceActorsMetadata", func(t *testing.T) { testPresenceActorsMetadata(t, ctx, s) })
	t.Run("ToolApprovalAndUiState", func(t *testing.T) { testToolApprovalAndUiState(t, ctx, s) })
}

func testCellLifecycle(t *testing.T, ctx context.Context, s store.Store) {
	require.NoError(t, s.Apply(ctx, []tables.Op{
		tables.UpsertCell{Cell: model.Cell{
			ID: "cell-1", CellType: model.CellTypeCode, FractionalIndex: "m",
			Source: "print(1)", CreatedBy: "user-1", SourceVisible: true, OutputVisible: true, AIContextVisible: true,
		}},
	}))

	cell, ok, err := s.Cell(ctx, "cell-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "print(1)", cell.Source)

	cells, err := s.Cells(ctx)
	require.NoError(t, err)
	require.Len(t, cells, 1)

	newSource := "print(2)"
	require.NoError(t, s.Apply(ctx, []tables.Op{
		tables.UpdateCell{ID: "cell-1", Fields: tables.CellFields{Source: &newSource}},
	}))
	cell, _, err = s.Cell(ctx, "cell-1")
	require.NoError(t, err)
	require.Equal(t, newSource, cell.Source)

	require.NoError(t, s.Apply(ctx, []tables.Op{tables.DeleteCell{ID: "cell-1"}}))
	_, ok, err = s.Cell(ctx, "cell-1")
	require.NoError(t, err)
	require.False(t, ok)
}

func testOutputsAndDeltas(t *testing.T, ctx context.Context, s store.Store) {
	require.NoError(t, s.Apply(ctx, []tables.Op{
		tables.UpsertCell{Cell: model.Cell{ID: "cell-2", CellType: model.CellTypeCode, FractionalIndex: "n", CreatedBy: "user-1"}},
		tables.UpsertOutput{Output: model.Output{ID: "out-1", CellID: "cell-2", OutputType: model.OutputTypeTerminal, Position: 0}},
		tables.UpsertOutputDelta{Delta: model.OutputDelta{ID: "d1", OutputID: "out-1", Delta: "hello ", SequenceNumber: 0}},
		tables.AppendTerminalData{OutputID: "out-1", Delta: "hello "},
		tables.UpsertOutputDelta{Delta: model.OutputDelta{ID: "d2", OutputID: "out-1", Delta: "world", SequenceNumber: 1}},
		tables.AppendTerminalData{OutputID: "out-1", Delta: "world"},
	}))

	out, ok, err := s.Output(ctx, "out-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, out.Data)
	require.Equal(t, "hello world", *out.Data)

	deltas, err := s.OutputDeltasForOutput(ctx, "out-1")
	require.NoError(t, err)
	require.Len(t, deltas, 2)

	outputs, err := s.OutputsForCell(ctx, "cell-2")
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	require.NoError(t, s.Apply(ctx, []tables.Op{tables.DeleteOutputsForCell{CellID: "cell-2"}}))
	outputs, err = s.OutputsForCell(ctx, "cell-2")
	require.NoError(t, err)
	require.Empty(t, outputs)
	deltas, err = s.OutputDeltasForOutput(ctx, "out-1")
	require.NoError(t, err)
	require.Empty(t, deltas)
}

func testPendingClear(t *testing.T, ctx context.Context, s store.Store) {
	require.NoError(t, s.Apply(ctx, []tables.Op{
		tables.UpsertCell{Cell: model.Cell{ID: "cell-3", CellType: model.CellTypeCode, FractionalIndex: "o", CreatedBy: "user-1"}},
		tables.UpsertPendingClear{PendingClear: model.PendingClear{CellID: "cell-3", ClearedBy: "user-1"}},
	}))
	pc, ok, err := s.PendingClear(ctx, "cell-3")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "user-1", pc.ClearedBy)

	require.NoError(t, s.Apply(ctx, []tables.Op{tables.DeletePendingClear{CellID: "cell-3"}}))
	_, ok, err = s.PendingClear(ctx, "cell-3")
	require.NoError(t, err)
	require.False(t, ok)
}

func testRuntimeSessions(t *testing.T, ctx context.Context, s store.Store) {
	require.NoError(t, s.Apply(ctx, []tables.Op{
		tables.UpsertRuntimeSession{Session: model.RuntimeSession{
			SessionID: "sess-1", RuntimeID: "rt-1", RuntimeType: "python",
			Status: model.RuntimeSessionStarting, IsActive: true, CanExecuteCode: true,
		}},
	}))
	sess, ok, err := s.RuntimeSession(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, model.RuntimeSessionStarting, sess.Status)

	ready := model.RuntimeSessionReady
	require.NoError(t, s.Apply(ctx, []tables.Op{
		tables.UpdateRuntimeSession{SessionID: "sess-1", Fields: tables.RuntimeSessionFields{Status: &ready}},
	}))
	sess, _, err = s.RuntimeSession(ctx, "sess-1")
	require.NoError(t, err)
	require.Equal(t, model.RuntimeSessionReady, sess.Status)

	sessions, err := s.RuntimeSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
}

func testExecutionQueue(t *testing.T, ctx context.Context, s store.Store) {
	require.NoError(t, s.Apply(ctx, []tables.Op{
		tables.UpsertCell{Cell: model.Cell{ID: "cell-4", CellType: model.CellTypeCode, FractionalIndex: "p", CreatedBy: "user-1"}},
		tables.UpsertExecutionQueueEntry{Entry: model.ExecutionQueueEntry{
			ID: "q1", CellID: "cell-4", ExecutionCount: 1, RequestedBy: "user-1", Status: model.ExecutionQueuePending,
		}},
	}))
	entries, err := s.ExecutionQueueForCell(ctx, "cell-4")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assigned := model.ExecutionQueueAssigned
	session := "sess-1"
	sessionPtr := &session
	require.NoError(t, s.Apply(ctx, []tables.Op{
		tables.UpdateExecutionQueueEntry{ID: "q1", Fields: tables.ExecutionQueueFields{
			Status: &assigned, AssignedRuntimeSession: &sessionPtr,
		}},
	}))
	entry, ok, err := s.ExecutionQueueEntry(ctx, "q1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, model.ExecutionQueueAssigned, entry.Status)
	require.NotNil(t, entry.AssignedRuntimeSession)
	require.Equal(t, "sess-1", *entry.AssignedRuntimeSession)
}

func testPresenceActorsMetadata(t *testing.T, ctx context.Context, s store.Store) {
	cellID := "cell-5"
	require.NoError(t, s.Apply(ctx, []tables.Op{
		tables.UpsertCell{Cell: model.Cell{ID: cellID, CellType: model.CellTypeCode, FractionalIndex: "q", CreatedBy: "user-1"}},
		tables.UpsertPresence{Presence: model.Presence{UserID: "user-1", CellID: &cellID}},
		tables.UpsertActor{Actor: model.Actor{ID: "user-1", Type: model.ActorTypeHuman, DisplayName: "Ada"}},
		tables.UpsertNotebookMetadata{Key: "title", Value: "My Notebook"},
	}))

	presences, err := s.Presences(ctx)
	require.NoError(t, err)
	require.Len(t, presences, 1)

	actor, ok, err := s.Actor(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Ada", actor.DisplayName)

	meta, err := s.NotebookMetadata(ctx)
	require.NoError(t, err)
	require.Equal(t, "My Notebook", meta["title"])
}

func testToolApprovalAndUiState(t *testing.T, ctx context.Context, s store.Store) {
	require.NoError(t, s.Apply(ctx, []tables.Op{
		tables.UpsertCell{Cell: model.Cell{ID: "cell-6", CellType: model.CellTypeAI, FractionalIndex: "r", CreatedBy: "user-1"}},
		tables.UpsertToolApproval{Approval: model.ToolApproval{
			ID: "ta1", CellID: "cell-6", ToolName: "run_sql", Status: model.ToolApprovalPending,
		}},
		tables.UpsertUiState{State: model.UiState{Key: "sidebarOpen", Value: true}},
	}))

	approvals, err := s.ToolApprovalsForCell(ctx, "cell-6")
	require.NoError(t, err)
	require.Len(t, approvals, 1)

	require.NoError(t, s.Apply(ctx, []tables.Op{
		tables.UpdateToolApproval{ID: "ta1", Status: model.ToolApprovalApproved, RespondedBy: "user-1"},
	}))
	approval, ok, err := s.ToolApproval(ctx, "ta1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, model.ToolApprovalApproved, approval.Status)

	uiState, err := s.UiState(ctx)
	require.NoError(t, err)
	require.Len(t, uiState, 1)
}
