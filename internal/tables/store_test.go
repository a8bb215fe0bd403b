package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbsync/notebook-order/internal/model"
)

func TestApplyCellFieldsPartialUpdate(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Apply([]Op{UpsertCell{Cell: model.Cell{ID: "c1", Source: "a", SourceVisible: true}}}))

	newSource := "b"
	require.NoError(t, store.Apply([]Op{UpdateCell{ID: "c1", Fields: CellFields{Source: &newSource}}}))

	cell, ok := store.Cell("c1")
	require.True(t, ok)
	assert.Equal(t, "b", cell.Source)
	assert.True(t, cell.SourceVisible, "fields left nil in the update must be untouched")
}

func TestUpdateUnknownCellIsNoOp(t *testing.T) {
	store := NewStore()
	newSource := "x"
	require.NoError(t, store.Apply([]Op{UpdateCell{ID: "missing", Fields: CellFields{Source: &newSource}}}))
	_, ok := store.Cell("missing")
	assert.False(t, ok)
}

func TestDeleteOutputsForCellClearsDeltasToo(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Apply([]Op{
		UpsertOutput{Output: model.Output{ID: "o1", CellID: "c1"}},
		UpsertOutputDelta{Delta: model.OutputDelta{ID: "d1", OutputID: "o1", Delta: "x", SequenceNumber: 1}},
	}))
	require.NoError(t, store.Apply([]Op{DeleteOutputsForCell{CellID: "c1"}}))

	_, ok := store.Output("o1")
	assert.False(t, ok)
	assert.Empty(t, store.OutputDeltasForOutput("o1"))
}

func TestAppendTerminalDataConcatenates(t *testing.T) {
	store := NewStore()
	data := "hello"
	require.NoError(t, store.Apply([]Op{UpsertOutput{Output: model.Output{ID: "o1", Data: &data}}}))
	require.NoError(t, store.Apply([]Op{AppendTerminalData{OutputID: "o1", Delta: " world"}}))

	out, ok := store.Output("o1")
	require.True(t, ok)
	assert.Equal(t, "hello world", *out.Data)
}
