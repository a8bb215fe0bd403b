package cellops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbsync/notebook-order/internal/events"
	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/rebalance"
)

func TestCreateCellBetweenEmptyNotebook(t *testing.T) {
	result, err := CreateCellBetween(
		NewCellData{ID: "c1", CellType: model.CellTypeCode, CreatedBy: "user-1"},
		nil, nil, nil, Options{ActorID: "user-1"},
	)
	require.NoError(t, err)
	require.Len(t, result.Events, 1)

	created := result.Events[0].Args.(events.CellCreatedV2Args)
	assert.Equal(t, "c1", created.ID)
	assert.Equal(t, "m", created.FractionalIndex)
	assert.False(t, result.NeedsRebalancing)
}

func TestCreateCellBetweenInsertsInOrder(t *testing.T) {
	allCells := []rebalance.IndexedCell{
		{ID: "c1", FractionalIndex: "a"},
		{ID: "c2", FractionalIndex: "z"},
	}
	before := &CellReference{ID: "c1", FractionalIndex: "a"}
	after := &CellReference{ID: "c2", FractionalIndex: "z"}

	result, err := CreateCellBetween(
		NewCellData{ID: "c3", CellType: model.CellTypeMarkdown, CreatedBy: "user-1"},
		before, after, allCells, Options{ActorID: "user-1"},
	)
	require.NoError(t, err)
	created := result.Events[len(result.Events)-1].Args.(events.CellCreatedV2Args)
	assert.Greater(t, created.FractionalIndex, "a")
	assert.Less(t, created.FractionalIndex, "z")
}

func TestCreateCellBetweenTriggersRebalance(t *testing.T) {
	allCells := []rebalance.IndexedCell{
		{ID: "c1", FractionalIndex: "m"},
		{ID: "c2", FractionalIndex: "m0"},
	}
	before := &CellReference{ID: "c1", FractionalIndex: "m"}
	after := &CellReference{ID: "c2", FractionalIndex: "m0"}

	result, err := CreateCellBetween(
		NewCellData{ID: "c3", CellType: model.CellTypeCode, CreatedBy: "user-1"},
		before, after, allCells, Options{ActorID: "user-1"},
	)
	require.NoError(t, err)
	assert.True(t, result.NeedsRebalancing)
	assert.Greater(t, result.RebalanceCount, 0)

	last := result.Events[len(result.Events)-1]
	assert.Equal(t, events.NameCellCreatedV2, last.Name)
}

func TestMoveCellBetweenNoopWhenAlreadyBetween(t *testing.T) {
	cell := CellReference{ID: "c1", FractionalIndex: "m"}
	before := &CellReference{ID: "before", FractionalIndex: "a"}
	after := &CellReference{ID: "after", FractionalIndex: "z"}

	ev, err := MoveCellBetween(cell, before, after, Options{ActorID: "user-1"})
	require.NoError(t, err)
	assert.Nil(t, ev)
}

func TestMoveCellBetweenProducesMove(t *testing.T) {
	cell := CellReference{ID: "c1", FractionalIndex: "z"}
	before := &CellReference{ID: "before", FractionalIndex: "a"}
	after := &CellReference{ID: "after", FractionalIndex: "b"}

	ev, err := MoveCellBetween(cell, before, after, Options{ActorID: "user-1"})
	require.NoError(t, err)
	require.NotNil(t, ev)
	args := ev.Args.(events.CellMovedV2Args)
	assert.Equal(t, "c1", args.ID)
	assert.Greater(t, args.FractionalIndex, "a")
	assert.Less(t, args.FractionalIndex, "b")
}

func TestMoveCellBetweenRequiresExistingIndex(t *testing.T) {
	cell := CellReference{ID: "c1", FractionalIndex: ""}
	ev, err := MoveCellBetween(cell, nil, nil, Options{})
	require.NoError(t, err)
	assert.Nil(t, ev)
}
