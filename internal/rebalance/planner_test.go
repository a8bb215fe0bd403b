package rebalance

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbsync/notebook-order/internal/algebra"
)

func TestNeedsRebalancingDetectsAdjacentPair(t *testing.T) {
	cells := []IndexedCell{{ID: "a", FractionalIndex: "m"}, {ID: "b", FractionalIndex: "m0"}}
	assert.True(t, NeedsRebalancing(cells, nil))
}

func TestNeedsRebalancingFalseWithRoom(t *testing.T) {
	cells := []IndexedCell{{ID: "a", FractionalIndex: "a"}, {ID: "b", FractionalIndex: "z"}}
	assert.False(t, NeedsRebalancing(cells, nil))
}

func TestRebalancePreservesRelativeOrder(t *testing.T) {
	cells := []IndexedCell{
		{ID: "c1", FractionalIndex: "m"},
		{ID: "c2", FractionalIndex: "m0"},
		{ID: "c3", FractionalIndex: "m00"},
		{ID: "c4", FractionalIndex: "m000"},
	}
	result, err := Rebalance(cells, Options{BufferCells: 1, ActorID: "user-1"})
	require.NoError(t, err)

	oldOrder := sortedByIndex(cells)
	newOrder := make([]IndexedCell, len(cells))
	for i, c := range oldOrder {
		newOrder[i] = IndexedCell{ID: c.ID, FractionalIndex: result.NewIndices[c.ID]}
	}
	sort.SliceStable(newOrder, func(i, j int) bool { return newOrder[i].FractionalIndex < newOrder[j].FractionalIndex })

	for i := range oldOrder {
		assert.Equal(t, oldOrder[i].ID, newOrder[i].ID)
	}
}

func TestRebalanceRestoresHeadroom(t *testing.T) {
	cells := []IndexedCell{
		{ID: "c1", FractionalIndex: "m"},
		{ID: "c2", FractionalIndex: "m0"},
		{ID: "c3", FractionalIndex: "m00"},
	}
	result, err := Rebalance(cells, Options{BufferCells: 1})
	require.NoError(t, err)

	indices := make([]string, 0, len(cells))
	for _, c := range cells {
		indices = append(indices, result.NewIndices[c.ID])
	}
	sort.Strings(indices)

	for i := 1; i < len(indices); i++ {
		a, b := indices[i-1], indices[i]
		_, err := algebra.Between(&a, &b, nil)
		assert.NoError(t, err)
	}
	first := indices[0]
	_, err = algebra.Between(nil, &first, nil)
	assert.NoError(t, err)
	last := indices[len(indices)-1]
	_, err = algebra.Between(&last, nil, nil)
	assert.NoError(t, err)
}

func TestRebalanceNoOpSkipsUnchangedCells(t *testing.T) {
	// A single cell with ample room on both sides should already sit at the
	// midpoint Rebalance would assign it, so no event is emitted.
	cells := []IndexedCell{{ID: "only", FractionalIndex: "m"}}
	result, err := Rebalance(cells, Options{BufferCells: 0})
	require.NoError(t, err)
	assert.Empty(t, result.Events)
	assert.Equal(t, "m", result.NewIndices["only"])
}

func TestBetweenWithFallbackTriggersRebalance(t *testing.T) {
	cells := []IndexedCell{
		{ID: "c1", FractionalIndex: "m"},
		{ID: "c2", FractionalIndex: "m0"},
	}
	a, b := "m", "m0"
	fb, err := BetweenWithFallback(&a, &b, &FallbackContext{
		AllCells:  cells,
		InsertPos: 1,
		ActorID:   "user-1",
	})
	require.NoError(t, err)
	assert.True(t, fb.NeedsRebalancing)
	require.NotNil(t, fb.Rebalance)
	assert.NotEmpty(t, fb.Rebalance.Events)
	assert.NotEmpty(t, fb.Index)
}

func TestBetweenWithFallbackPropagatesWithoutContext(t *testing.T) {
	a, b := "m", "m0"
	_, err := BetweenWithFallback(&a, &b, nil)
	require.Error(t, err)
	assert.True(t, algebra.IsEmptyIntervalError(err))
}
