// Package rebalance detects when the index algebra can no longer find room
// between existing cells and computes a minimal reassignment that restores
// insertion headroom, preserving relative order.
package rebalance

import (
	"sort"

	"github.com/nbsync/notebook-order/internal/algebra"
	"github.com/nbsync/notebook-order/internal/events"
	"github.com/nbsync/notebook-order/internal/model"
)

// IndexedCell is the minimal shape the planner needs from a cell: an id and
// its current fractional index.
type IndexedCell struct {
	ID              string
	FractionalIndex string
}

func sortedByIndex(cells []IndexedCell) []IndexedCell {
	out := make([]IndexedCell, len(cells))
	copy(out, cells)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FractionalIndex == out[j].FractionalIndex {
			return out[i].ID < out[j].ID
		}
		return out[i].FractionalIndex < out[j].FractionalIndex
	})
	return out
}

// NeedsRebalancing reports whether between(a,b) would fail (EmptyInterval or
// InvalidRange) for any consecutive pair of cells, or for the bounding pair
// at insertPos if given (insertPos in [0, len(cells)]).
func NeedsRebalancing(cells []IndexedCell, insertPos *int) bool {
	sorted := sortedByIndex(cells)

	check := func(a, b *string) bool {
		_, err := algebra.Between(a, b, nil)
		if err == nil {
			return false
		}
		return algebra.IsEmptyIntervalError(err) || algebra.IsInvalidRangeError(err)
	}

	for i := 1; i < len(sorted); i++ {
		a, b := sorted[i-1].FractionalIndex, sorted[i].FractionalIndex
		if check(&a, &b) {
			return true
		}
	}

	if insertPos != nil {
		pos := *insertPos
		var a, b *string
		if pos > 0 && pos-1 < len(sorted) {
			v := sorted[pos-1].FractionalIndex
			a = &v
		}
		if pos < len(sorted) {
			v := sorted[pos].FractionalIndex
			b = &v
		}
		if check(a, b) {
			return true
		}
	}

	return false
}

// Options configures Rebalance.
type Options struct {
	Jitter      algebra.Source
	ActorID     string
	BufferCells int
}

// Result is the outcome of a rebalance: the events needed to apply it and
// the new index assigned to every cell (by id), including ones whose index
// did not change.
type Result struct {
	Events     []events.Event
	NewIndices map[string]string
}

// Rebalance reassigns fractional indices across cells to restore insertion
// headroom. It generates len(cells) + 2*BufferCells evenly distributed
// indices and assigns cells to the middle slice, reserving BufferCells of
// headroom on each side for future insertions. Buffer positions are never
// emitted as events. Relative order is preserved by construction.
func Rebalance(cells []IndexedCell, opts Options) (Result, error) {
	sorted := sortedByIndex(cells)

	buffer := opts.BufferCells
	if buffer < 0 {
		buffer = 0
	}
	total := len(sorted) + 2*buffer

	generated, err := algebra.Generate(nil, nil, total, opts.Jitter)
	if err != nil {
		return Result{}, err
	}

	newIndices := make([]string, len(sorted))
	copy(newIndices, generated[buffer:buffer+len(sorted)])

	if err := algebra.ValidateOrder(generated); err != nil {
		return Result{}, err
	}

	result := Result{NewIndices: make(map[string]string, len(sorted))}
	actorID := opts.ActorID
	if actorID != "" {
		actorID += "-rebalance"
	}

	for i, cell := range sorted {
		result.NewIndices[cell.ID] = newIndices[i]
		if newIndices[i] == cell.FractionalIndex {
			continue
		}
		var actor *string
		if actorID != "" {
			a := actorID
			actor = &a
		}
		result.Events = append(result.Events, events.New(events.NameCellMovedV2, events.CellMovedV2Args{
			ID:              cell.ID,
			FractionalIndex: newIndices[i],
			ActorID:         actor,
		}))
	}

	return result, nil
}

// FallbackContext supplies the extra information BetweenWithFallback needs
// to rebalance when the direct between(a,b) call fails.
type FallbackContext struct {
	AllCells  []IndexedCell
	InsertPos int
	Jitter    algebra.Source
	ActorID   string
}

// FallbackResult is what BetweenWithFallback returns.
type FallbackResult struct {
	Index            string
	NeedsRebalancing bool
	Rebalance        *Result
}

// BetweenWithFallback attempts algebra.Between(a, b); on EmptyInterval or
// InvalidRange it rebalances allCells (if ctx is non-nil) and recomputes the
// insertion index from the new indices at the corresponding slot. Without a
// context, the error propagates unchanged.
func BetweenWithFallback(a, b *string, ctx *FallbackContext) (FallbackResult, error) {
	idx, err := algebra.Between(a, b, jitterOf(ctx))
	if err == nil {
		return FallbackResult{Index: idx}, nil
	}
	if !algebra.IsEmptyIntervalError(err) && !algebra.IsInvalidRangeError(err) {
		return FallbackResult{}, err
	}
	if ctx == nil {
		return FallbackResult{}, err
	}
	if !NeedsRebalancing(ctx.AllCells, &ctx.InsertPos) {
		// Rebalancing context was supplied but the failure wasn't a
		// rebalanceable adjacency problem; propagate the original error.
		return FallbackResult{}, err
	}

	rb, rerr := Rebalance(ctx.AllCells, Options{Jitter: ctx.Jitter, ActorID: ctx.ActorID, BufferCells: 1})
	if rerr != nil {
		return FallbackResult{}, rerr
	}

	sorted := sortedByIndex(ctx.AllCells)
	var newA, newB *string
	if ctx.InsertPos > 0 && ctx.InsertPos-1 < len(sorted) {
		v := rb.NewIndices[sorted[ctx.InsertPos-1].ID]
		newA = &v
	}
	if ctx.InsertPos < len(sorted) {
		v := rb.NewIndices[sorted[ctx.InsertPos].ID]
		newB = &v
	}

	newIdx, nerr := algebra.Between(newA, newB, jitterOf(ctx))
	if nerr != nil {
		return FallbackResult{}, nerr
	}

	return FallbackResult{Index: newIdx, NeedsRebalancing: true, Rebalance: &rb}, nil
}

func jitterOf(ctx *FallbackContext) algebra.Source {
	if ctx == nil {
		return nil
	}
	return ctx.Jitter
}

// ModelCellsToIndexed adapts []model.Cell to the planner's minimal shape.
func ModelCellsToIndexed(cells []model.Cell) []IndexedCell {
	out := make([]IndexedCell, len(cells))
	for i, c := range cells {
		out[i] = IndexedCell{ID: c.ID, FractionalIndex: c.FractionalIndex}
	}
	return out
}
