package replay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nbsync/notebook-order/internal/events"
	"github.com/nbsync/notebook-order/internal/importer"
	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/store/sqlite"
)

func newSQLiteStore(t *testing.T) *sqlite.Store {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlite.Bootstrap(context.Background(), db))
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewWithDB(db)
}

func TestEventsAppliesCellCreationAgainstPersistedStore(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()

	evs := []events.Event{
		events.New(events.NameCellCreatedV2, events.CellCreatedV2Args{
			ID: "c1", FractionalIndex: "m", CellType: model.CellTypeCode, CreatedBy: "u1",
		}),
		events.New(events.NameCellSourceChanged, events.CellSourceChangedArgs{ID: "c1", Source: "print(1)"}),
	}

	require.NoError(t, Events(ctx, st, evs))

	cell, ok, err := st.Cell(ctx, "c1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "print(1)", cell.Source)
}

func TestEventsDropsOpsForUnknownCell(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()

	evs := []events.Event{
		events.New(events.NameCellSourceChanged, events.CellSourceChangedArgs{ID: "ghost", Source: "x"}),
	}
	require.NoError(t, Events(ctx, st, evs))

	_, ok, err := st.Cell(ctx, "ghost")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEventsReplaysFullImportedNotebook(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()

	nb := importer.Notebook{
		Cells: []importer.NotebookCell{
			{CellType: "code", Source: importer.MultilineString("print(1)")},
		},
		Metadata:      importer.NotebookMeta{},
		NBFormat:      4,
		NBFormatMinor: 5,
	}

	evs, err := importer.ImportNotebook(nb, importer.Options{
		ActorID:    "actor-1",
		ImportedAt: time.Unix(0, 0).UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, Events(ctx, st, evs))

	cells, err := st.Cells(ctx)
	require.NoError(t, err)
	require.Len(t, cells, 1)
	require.Equal(t, "print(1)", cells[0].Source)
}
