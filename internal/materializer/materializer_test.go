package materializer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbsync/notebook-order/internal/events"
	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/query"
	"github.com/nbsync/notebook-order/internal/tables"
)

func apply(t *testing.T, store *tables.Store, h query.Handle, evts ...events.Event) {
	t.Helper()
	for _, ev := range evts {
		ops, err := Reduce(h, ev)
		require.NoError(t, err)
		require.NoError(t, store.Apply(ops))
	}
}

func TestCellCreatedV2ThenSourceChanged(t *testing.T) {
	store := tables.NewStore()
	apply(t, store, store,
		events.New(events.NameCellCreatedV2, events.CellCreatedV2Args{
			ID: "c1", FractionalIndex: "m", CellType: model.CellTypeCode, CreatedBy: "user-1",
		}),
		events.New(events.NameCellSourceChanged, events.CellSourceChangedArgs{ID: "c1", Source: "print(1)"}),
	)

	cell, ok := store.Cell("c1")
	require.True(t, ok)
	assert.Equal(t, "print(1)", cell.Source)
	assert.Equal(t, "m", cell.FractionalIndex)
	assert.True(t, cell.SourceVisible)
}

func TestCellDeletedDoesNotCascadeOutputs(t *testing.T) {
	store := tables.NewStore()
	apply(t, store, store,
		events.New(events.NameCellCreatedV2, events.CellCreatedV2Args{ID: "c1", FractionalIndex: "m", CellType: model.CellTypeCode, CreatedBy: "u"}),
		events.New(events.NameTerminalOutputAdded, events.TerminalOutputAddedArgs{
			ID: "o1", CellID: "c1", StreamName: "stdout",
			Content: model.RepresentationPayload{Data: "hi"}, Position: 0,
		}),
	)
	actor := "u"
	apply(t, store, store, events.New(events.NameCellDeleted, events.CellDeletedArgs{ID: "c1", ActorID: &actor}))

	_, ok := store.Cell("c1")
	assert.False(t, ok)
	outs := store.OutputsForCell("c1")
	assert.Len(t, outs, 1)
}

func TestPendingClearWaitSemantics(t *testing.T) {
	store := tables.NewStore()
	apply(t, store, store,
		events.New(events.NameCellCreatedV2, events.CellCreatedV2Args{ID: "C", FractionalIndex: "m", CellType: model.CellTypeCode, CreatedBy: "u"}),
		events.New(events.NameTerminalOutputAdded, events.TerminalOutputAddedArgs{
			ID: "P", CellID: "C", StreamName: "stdout", Content: model.RepresentationPayload{Data: "old"}, Position: 0,
		}),
	)
	clearedBy := "u"
	apply(t, store, store, events.New(events.NameCellOutputsCleared, events.CellOutputsClearedArgs{CellID: "C", Wait: true, ClearedBy: &clearedBy}))

	// Clear{wait=true} alone does not remove the prior output yet.
	assert.Len(t, store.OutputsForCell("C"), 1)
	_, hasPending := store.PendingClear("C")
	assert.True(t, hasPending)

	apply(t, store, store,
		events.New(events.NameTerminalOutputAdded, events.TerminalOutputAddedArgs{
			ID: "X", CellID: "C", StreamName: "stdout", Content: model.RepresentationPayload{Data: "hi"}, Position: 0,
		}),
		events.New(events.NameTerminalOutputAdded, events.TerminalOutputAddedArgs{
			ID: "Y", CellID: "C", StreamName: "stdout", Content: model.RepresentationPayload{Data: "there"}, Position: 1,
		}),
	)

	outs := store.OutputsForCell("C")
	ids := map[string]bool{}
	for _, o := range outs {
		ids[o.ID] = true
	}
	assert.Equal(t, map[string]bool{"X": true, "Y": true}, ids)
	_, hasPending = store.PendingClear("C")
	assert.False(t, hasPending)
}

func TestDisplayIDUpdateInPlace(t *testing.T) {
	store := tables.NewStore()
	apply(t, store, store,
		events.New(events.NameCellCreatedV2, events.CellCreatedV2Args{ID: "c1", FractionalIndex: "m", CellType: model.CellTypeCode, CreatedBy: "u"}),
	)
	displayID := "d"
	r1 := model.Representations{{MimeType: "text/plain", Payload: model.RepresentationPayload{Data: "v1"}}}
	r2 := model.Representations{{MimeType: "text/plain", Payload: model.RepresentationPayload{Data: "v2"}}}
	r3 := model.Representations{{MimeType: "text/plain", Payload: model.RepresentationPayload{Data: "v3"}}}

	apply(t, store, store,
		events.New(events.NameMultimediaDisplayOutputAdded, events.MultimediaDisplayOutputAddedArgs{
			ID: "o1", CellID: "c1", DisplayID: &displayID, Representations: r1, Position: 0,
		}),
		events.New(events.NameMultimediaDisplayOutputAdded, events.MultimediaDisplayOutputAddedArgs{
			ID: "o2", CellID: "c1", DisplayID: &displayID, Representations: r2, Position: 1,
		}),
	)

	outs := store.OutputsForCell("c1")
	require.Len(t, outs, 2)
	for _, o := range outs {
		assert.Equal(t, "v2", *o.Data)
	}

	apply(t, store, store, events.New(events.NameMultimediaDisplayOutputUpdated, events.MultimediaDisplayOutputUpdatedArgs{
		DisplayID: displayID, Representations: r3,
	}))

	outs = store.OutputsForCell("c1")
	require.Len(t, outs, 2)
	for _, o := range outs {
		assert.Equal(t, "v3", *o.Data)
	}
}

func TestTerminalDeltaReconstruction(t *testing.T) {
	store := tables.NewStore()
	apply(t, store, store,
		events.New(events.NameCellCreatedV2, events.CellCreatedV2Args{ID: "c1", FractionalIndex: "m", CellType: model.CellTypeCode, CreatedBy: "u"}),
		events.New(events.NameTerminalOutputAdded, events.TerminalOutputAddedArgs{
			ID: "o", CellID: "c1", StreamName: "stdout", Content: model.RepresentationPayload{Data: "D0"}, Position: 0,
		}),
		events.New(events.NameTerminalOutputAppendedV2, events.TerminalOutputAppendedV2Args{OutputID: "o", Delta: "a", SequenceNumber: 1}),
		events.New(events.NameTerminalOutputAppendedV2, events.TerminalOutputAppendedV2Args{OutputID: "o", Delta: "b", SequenceNumber: 2}),
	)

	out, ok := store.Output("o")
	require.True(t, ok)
	deltas := query.OutputDeltasForOutput(store, "o")
	reconstructed := query.ApplyDeltas(*out.Data, deltas)
	assert.Equal(t, "D0ab", reconstructed)
}

func TestTerminalAppendV1UnknownOutputIsSoftFail(t *testing.T) {
	store := tables.NewStore()
	ops, err := Reduce(store, events.New(events.NameTerminalOutputAppendedV1, events.TerminalOutputAppendedV1Args{
		OutputID: "missing", Delta: "x",
	}))
	require.NoError(t, err)
	assert.Nil(t, ops)
}

func TestExecutionLifecycle(t *testing.T) {
	store := tables.NewStore()
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(50 * time.Millisecond)

	apply(t, store, store,
		events.New(events.NameCellCreatedV2, events.CellCreatedV2Args{ID: "C", FractionalIndex: "m", CellType: model.CellTypeCode, CreatedBy: "u"}),
		events.New(events.NameExecutionRequested, events.ExecutionRequestedArgs{QueueID: "Q", CellID: "C", ExecutionCount: 1, RequestedBy: "u"}),
		events.New(events.NameExecutionAssigned, events.ExecutionAssignedArgs{QueueID: "Q", AssignedRuntimeSession: "S"}),
		events.New(events.NameExecutionStarted, events.ExecutionStartedArgs{QueueID: "Q", CellID: "C", AssignedRuntimeSession: "S", StartedAt: t1}),
		events.New(events.NameExecutionCompleted, events.ExecutionCompletedArgs{QueueID: "Q", CellID: "C", Status: events.ExecutionResultSuccess, CompletedAt: t2, DurationMs: 50}),
	)

	entry, ok := store.ExecutionQueueEntry("Q")
	require.True(t, ok)
	assert.Equal(t, model.ExecutionQueueCompleted, entry.Status)
	assert.Equal(t, int64(50), *entry.ExecutionDurationMs)

	cell, ok := store.Cell("C")
	require.True(t, ok)
	assert.Equal(t, model.ExecutionStateCompleted, cell.ExecutionState)
	assert.Equal(t, int64(50), *cell.LastExecutionDurationMs)
	assert.Equal(t, 1, *cell.ExecutionCount)
}

func TestExecutionCancelledResetsCellFromQueueLookup(t *testing.T) {
	store := tables.NewStore()
	apply(t, store, store,
		events.New(events.NameCellCreatedV2, events.CellCreatedV2Args{ID: "C", FractionalIndex: "m", CellType: model.CellTypeCode, CreatedBy: "u"}),
		events.New(events.NameExecutionRequested, events.ExecutionRequestedArgs{QueueID: "Q", CellID: "C", ExecutionCount: 1, RequestedBy: "u"}),
	)
	actor := "u"
	apply(t, store, store, events.New(events.NameExecutionCancelled, events.ExecutionCancelledArgs{QueueID: "Q", ActorID: &actor}))

	entry, ok := store.ExecutionQueueEntry("Q")
	require.True(t, ok)
	assert.Equal(t, model.ExecutionQueueCancelled, entry.Status)

	cell, ok := store.Cell("C")
	require.True(t, ok)
	assert.Equal(t, model.ExecutionStateIdle, cell.ExecutionState)
}

func TestReplayEquivalenceRegardlessOfBatching(t *testing.T) {
	evts := []events.Event{
		events.New(events.NameCellCreatedV2, events.CellCreatedV2Args{ID: "c1", FractionalIndex: "m", CellType: model.CellTypeCode, CreatedBy: "u"}),
		events.New(events.NameCellSourceChanged, events.CellSourceChangedArgs{ID: "c1", Source: "x"}),
		events.New(events.NameCellVisibilityToggled, events.CellVisibilityToggledArgs{ID: "c1", Field: events.VisibilityOutput, Visible: false}),
	}

	oneByOne := tables.NewStore()
	for _, ev := range evts {
		ops, err := Reduce(oneByOne, ev)
		require.NoError(t, err)
		require.NoError(t, oneByOne.Apply(ops))
	}

	batched := tables.NewStore()
	var allOps []tables.Op
	for _, ev := range evts {
		ops, err := Reduce(batched, ev)
		require.NoError(t, err)
		allOps = append(allOps, ops...)
	}
	require.NoError(t, batched.Apply(allOps))

	c1, _ := oneByOne.Cell("c1")
	c2, _ := batched.Cell("c1")
	assert.Equal(t, c1, c2)
}
