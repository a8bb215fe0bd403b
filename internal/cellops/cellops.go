// Package cellops implements the writer-facing operations that produce new
// order positions: CreateCellBetween and MoveCellBetween. CreateCellBetween
// and MoveCellBetweenWithRebalancing fall back to the rebalance planner when
// the index algebra fails; MoveCellBetween calls the algebra directly and
// returns its error.
package cellops

import (
	"sort"

	"github.com/nbsync/notebook-order/internal/algebra"
	"github.com/nbsync/notebook-order/internal/events"
	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/rebalance"
)

// CellReference is the minimal identity of a cell used to bound an
// insertion or move: its id, type, and current fractional index.
type CellReference struct {
	ID              string
	CellType        model.CellType
	FractionalIndex string
}

// NewCellData is the caller-supplied payload for a new cell. ID must already
// be populated by the caller (e.g. a freshly generated uuid); cellops never
// mints ids itself.
type NewCellData struct {
	ID        string
	CellType  model.CellType
	CreatedBy string
}

// Options configures CreateCellBetween and MoveCellBetween.
type Options struct {
	Jitter  algebra.Source
	ActorID string
}

// CreateResult is the outcome of CreateCellBetween.
type CreateResult struct {
	Events           []events.Event
	NewCellID        string
	NeedsRebalancing bool
	RebalanceCount   int
}

func sortedRefs(cells []rebalance.IndexedCell) []rebalance.IndexedCell {
	out := make([]rebalance.IndexedCell, len(cells))
	copy(out, cells)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FractionalIndex == out[j].FractionalIndex {
			return out[i].ID < out[j].ID
		}
		return out[i].FractionalIndex < out[j].FractionalIndex
	})
	return out
}

// CreateCellBetween resolves (prev, next) bounds from cellBefore/cellAfter,
// computes the insertion position within allCells, and synthesizes a new
// fractional index — rebalancing first if the direct computation fails.
func CreateCellBetween(data NewCellData, cellBefore, cellAfter *CellReference, allCells []rebalance.IndexedCell, opts Options) (CreateResult, error) {
	sorted := sortedRefs(allCells)

	var prev, next *string
	if cellBefore != nil {
		v := cellBefore.FractionalIndex
		prev = &v
	}
	if cellAfter != nil {
		v := cellAfter.FractionalIndex
		next = &v
	}

	if cellBefore == nil && cellAfter == nil && len(sorted) > 0 {
		last := sorted[len(sorted)-1]
		v := last.FractionalIndex
		prev = &v
	}

	insertPos := resolveInsertPos(sorted, cellBefore, cellAfter)

	fb, err := rebalance.BetweenWithFallback(prev, next, &rebalance.FallbackContext{
		AllCells:  allCells,
		InsertPos: insertPos,
		Jitter:    opts.Jitter,
		ActorID:   opts.ActorID,
	})
	if err != nil {
		return CreateResult{}, err
	}

	result := CreateResult{NewCellID: data.ID, NeedsRebalancing: fb.NeedsRebalancing}
	if fb.Rebalance != nil {
		result.Events = append(result.Events, fb.Rebalance.Events...)
		result.RebalanceCount = len(fb.Rebalance.Events)
	}
	result.Events = append(result.Events, events.New(events.NameCellCreatedV2, events.CellCreatedV2Args{
		ID:              data.ID,
		FractionalIndex: fb.Index,
		CellType:        data.CellType,
		CreatedBy:       data.CreatedBy,
	}))

	return result, nil
}

// resolveInsertPos finds the slot in sorted where the new cell belongs, by
// id match against cellBefore/cellAfter, defaulting to the tail.
func resolveInsertPos(sorted []rebalance.IndexedCell, cellBefore, cellAfter *CellReference) int {
	if cellBefore != nil {
		for i, c := range sorted {
			if c.ID == cellBefore.ID {
				return i + 1
			}
		}
	}
	if cellAfter != nil {
		for i, c := range sorted {
			if c.ID == cellAfter.ID {
				return i
			}
		}
	}
	return len(sorted)
}

// MoveCellBetween computes a CellMoved(v2) event placing cell strictly
// between cellBefore and cellAfter. It returns (nil, nil) if cell has no
// fractional index yet, or if the cell's current position
// already straddles the requested bounds (a no-op).
func MoveCellBetween(cell CellReference, cellBefore, cellAfter *CellReference, opts Options) (*events.Event, error) {
	if cell.FractionalIndex == "" {
		return nil, nil
	}

	var prev, next *string
	if cellBefore != nil {
		v := cellBefore.FractionalIndex
		prev = &v
	}
	if cellAfter != nil {
		v := cellAfter.FractionalIndex
		next = &v
	}

	if straddles(cell.FractionalIndex, prev, next) {
		return nil, nil
	}

	idx, err := algebra.Between(prev, next, opts.Jitter)
	if err != nil {
		return nil, err
	}

	var actor *string
	if opts.ActorID != "" {
		a := opts.ActorID
		actor = &a
	}
	ev := events.New(events.NameCellMovedV2, events.CellMovedV2Args{
		ID:              cell.ID,
		FractionalIndex: idx,
		ActorID:         actor,
	})
	return &ev, nil
}

func straddles(current string, prev, next *string) bool {
	if prev != nil && !(*prev < current) {
		return false
	}
	if next != nil && !(current < *next) {
		return false
	}
	return true
}

// MoveCellBetweenWithRebalancing wraps MoveCellBetween with the same
// fallback strategy CreateCellBetween uses: if the direct computation fails,
// it rebalances allCells and recomputes the move target from the new
// indices.
func MoveCellBetweenWithRebalancing(cell CellReference, cellBefore, cellAfter *CellReference, allCells []rebalance.IndexedCell, opts Options) (CreateResult, error) {
	if cell.FractionalIndex == "" {
		return CreateResult{}, nil
	}

	sorted := sortedRefs(allCells)

	var prev, next *string
	if cellBefore != nil {
		v := cellBefore.FractionalIndex
		prev = &v
	}
	if cellAfter != nil {
		v := cellAfter.FractionalIndex
		next = &v
	}
	if straddles(cell.FractionalIndex, prev, next) {
		return CreateResult{}, nil
	}

	insertPos := resolveInsertPos(sorted, cellBefore, cellAfter)

	fb, err := rebalance.BetweenWithFallback(prev, next, &rebalance.FallbackContext{
		AllCells:  allCells,
		InsertPos: insertPos,
		Jitter:    opts.Jitter,
		ActorID:   opts.ActorID,
	})
	if err != nil {
		return CreateResult{}, err
	}

	result := CreateResult{NeedsRebalancing: fb.NeedsRebalancing}
	if fb.Rebalance != nil {
		result.Events = append(result.Events, fb.Rebalance.Events...)
		result.RebalanceCount = len(fb.Rebalance.Events)
	}

	var actor *string
	if opts.ActorID != "" {
		a := opts.ActorID
		actor = &a
	}
	result.Events = append(result.Events, events.New(events.NameCellMovedV2, events.CellMovedV2Args{
		ID:              cell.ID,
		FractionalIndex: fb.Index,
		ActorID:         actor,
	}))

	return result, nil
}
