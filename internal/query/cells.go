package query

import (
	"sort"

	"github.com/nbsync/notebook-order/internal/model"
)

// CellOrdering returns every cell sorted by FractionalIndex ascending, ties
// broken by ID ascending — the canonical order every other cell query
// builds on.
func CellOrdering(s Store) []model.Cell {
	cells := s.Cells()
	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].FractionalIndex == cells[j].FractionalIndex {
			return cells[i].ID < cells[j].ID
		}
		return cells[i].FractionalIndex < cells[j].FractionalIndex
	})
	return cells
}

// FirstCell returns the cell with the smallest FractionalIndex, if any.
func FirstCell(s Store) (model.Cell, bool) {
	ordered := CellOrdering(s)
	if len(ordered) == 0 {
		return model.Cell{}, false
	}
	return ordered[0], true
}

// LastCell returns the cell with the largest FractionalIndex, if any.
func LastCell(s Store) (model.Cell, bool) {
	ordered := CellOrdering(s)
	if len(ordered) == 0 {
		return model.Cell{}, false
	}
	return ordered[len(ordered)-1], true
}

// CellsBefore returns up to limit cells whose FractionalIndex is strictly
// less than idx: the limit cells nearest to idx, in ascending index order. A
// non-positive limit returns every matching cell, in ascending index order.
func CellsBefore(s Store, idx string, limit int) []model.Cell {
	ordered := CellOrdering(s)
	var before []model.Cell
	for _, c := range ordered {
		if c.FractionalIndex < idx {
			before = append(before, c)
		}
	}
	if limit <= 0 || limit >= len(before) {
		return before
	}
	return before[len(before)-limit:]
}

// CellsAfter returns up to limit cells whose FractionalIndex is strictly
// greater than idx, nearest first. A non-positive limit returns every
// matching cell.
func CellsAfter(s Store, idx string, limit int) []model.Cell {
	ordered := CellOrdering(s)
	var after []model.Cell
	for _, c := range ordered {
		if c.FractionalIndex > idx {
			after = append(after, c)
		}
	}
	if limit <= 0 || limit >= len(after) {
		return after
	}
	return after[:limit]
}

// CellsInRange returns every cell whose FractionalIndex falls in [start,
// end), in ascending order. A nil start/end leaves that bound open.
func CellsInRange(s Store, start, end *string) []model.Cell {
	ordered := CellOrdering(s)
	var out []model.Cell
	for _, c := range ordered {
		if start != nil && c.FractionalIndex < *start {
			continue
		}
		if end != nil && !(c.FractionalIndex < *end) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// AdjacentCells returns the cells immediately before and after cellID in the
// canonical ordering, either of which may be absent at the ends of the
// notebook.
func AdjacentCells(s Store, cellID string) (before, after *model.Cell) {
	ordered := CellOrdering(s)
	for i, c := range ordered {
		if c.ID != cellID {
			continue
		}
		if i > 0 {
			b := ordered[i-1]
			before = &b
		}
		if i+1 < len(ordered) {
			a := ordered[i+1]
			after = &a
		}
		return before, after
	}
	return nil, nil
}

// CellReference adapts the canonical ordering to the minimal id/index pairs
// the rebalance planner and cellops need, without pulling in package model
// at their call sites.
type CellReference struct {
	ID              string
	FractionalIndex string
}

// CellReferencesInOrder returns CellReferences in canonical order.
func CellReferencesInOrder(s Store) []CellReference {
	ordered := CellOrdering(s)
	out := make([]CellReference, len(ordered))
	for i, c := range ordered {
		out[i] = CellReference{ID: c.ID, FractionalIndex: c.FractionalIndex}
	}
	return out
}
