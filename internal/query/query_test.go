package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/tables"
)

func seedCells(t *testing.T, store *tables.Store, cells ...model.Cell) {
	t.Helper()
	var ops []tables.Op
	for _, c := range cells {
		ops = append(ops, tables.UpsertCell{Cell: c})
	}
	require.NoError(t, store.Apply(ops))
}

func TestCellOrderingBreaksTiesByID(t *testing.T) {
	store := tables.NewStore()
	seedCells(t, store,
		model.Cell{ID: "b", FractionalIndex: "m"},
		model.Cell{ID: "a", FractionalIndex: "m"},
		model.Cell{ID: "c", FractionalIndex: "z"},
	)
	ordered := CellOrdering(store)
	require.Len(t, ordered, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{ordered[0].ID, ordered[1].ID, ordered[2].ID})
}

func TestFirstAndLastCell(t *testing.T) {
	store := tables.NewStore()
	seedCells(t, store,
		model.Cell{ID: "mid", FractionalIndex: "m"},
		model.Cell{ID: "first", FractionalIndex: "a"},
		model.Cell{ID: "last", FractionalIndex: "z"},
	)
	first, ok := FirstCell(store)
	require.True(t, ok)
	assert.Equal(t, "first", first.ID)

	last, ok := LastCell(store)
	require.True(t, ok)
	assert.Equal(t, "last", last.ID)
}

func TestCellsBeforeAfterAndRange(t *testing.T) {
	store := tables.NewStore()
	seedCells(t, store,
		model.Cell{ID: "a", FractionalIndex: "a"},
		model.Cell{ID: "m", FractionalIndex: "m"},
		model.Cell{ID: "z", FractionalIndex: "z"},
	)

	before := CellsBefore(store, "m", 0)
	require.Len(t, before, 1)
	assert.Equal(t, "a", before[0].ID)

	after := CellsAfter(store, "m", 0)
	require.Len(t, after, 1)
	assert.Equal(t, "z", after[0].ID)

	start, end := "a", "z"
	inRange := CellsInRange(store, &start, &end)
	require.Len(t, inRange, 2)
	assert.Equal(t, "a", inRange[0].ID)
	assert.Equal(t, "m", inRange[1].ID)
}

func TestAdjacentCells(t *testing.T) {
	store := tables.NewStore()
	seedCells(t, store,
		model.Cell{ID: "a", FractionalIndex: "a"},
		model.Cell{ID: "m", FractionalIndex: "m"},
		model.Cell{ID: "z", FractionalIndex: "z"},
	)
	before, after := AdjacentCells(store, "m")
	require.NotNil(t, before)
	require.NotNil(t, after)
	assert.Equal(t, "a", before.ID)
	assert.Equal(t, "z", after.ID)

	before, after = AdjacentCells(store, "a")
	assert.Nil(t, before)
	require.NotNil(t, after)
}

func TestNotebookMetadataDefaults(t *testing.T) {
	store := tables.NewStore()
	md := NotebookMetadata(store)
	assert.Equal(t, "Untitled", md.Title)
	assert.Equal(t, "anonymous", md.OwnerID)
	assert.Equal(t, "python3", md.RuntimeType)
	assert.False(t, md.IsPublic)

	require.NoError(t, store.Apply([]tables.Op{
		tables.UpsertNotebookMetadata{Key: "title", Value: "My Notebook"},
		tables.UpsertNotebookMetadata{Key: "isPublic", Value: "true"},
	}))
	md = NotebookMetadata(store)
	assert.Equal(t, "My Notebook", md.Title)
	assert.True(t, md.IsPublic)
}

func TestExecutionQueueForCellSortsDescending(t *testing.T) {
	store := tables.NewStore()
	require.NoError(t, store.Apply([]tables.Op{
		tables.UpsertExecutionQueueEntry{Entry: model.ExecutionQueueEntry{ID: "Q1", CellID: "c1"}},
		tables.UpsertExecutionQueueEntry{Entry: model.ExecutionQueueEntry{ID: "Q3", CellID: "c1"}},
		tables.UpsertExecutionQueueEntry{Entry: model.ExecutionQueueEntry{ID: "Q2", CellID: "c1"}},
	}))
	entries := ExecutionQueueForCell(store, "c1")
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"Q3", "Q2", "Q1"}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestRuntimeSessionsSortDescending(t *testing.T) {
	store := tables.NewStore()
	require.NoError(t, store.Apply([]tables.Op{
		tables.UpsertRuntimeSession{Session: model.RuntimeSession{SessionID: "S1"}},
		tables.UpsertRuntimeSession{Session: model.RuntimeSession{SessionID: "S3"}},
		tables.UpsertRuntimeSession{Session: model.RuntimeSession{SessionID: "S2"}},
	}))
	sessions := RuntimeSessions(store)
	require.Len(t, sessions, 3)
	assert.Equal(t, []string{"S3", "S2", "S1"}, []string{sessions[0].SessionID, sessions[1].SessionID, sessions[2].SessionID})
}

func TestPrimaryRepresentationPriority(t *testing.T) {
	reps := model.Representations{
		{MimeType: "text/plain", Payload: model.RepresentationPayload{Data: "plain"}},
		{MimeType: "text/html", Payload: model.RepresentationPayload{Data: "<p>hi</p>"}},
	}
	primary, ok := PrimaryRepresentation(model.OutputTypeMultimediaResult, reps)
	require.True(t, ok)
	assert.Equal(t, "text/html", primary.MimeType)
}
