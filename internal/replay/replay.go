// Package replay drives an event sequence through the pure materializer
// against a persisted store.Store, bridging the synchronous, context-free
// query.Handle the materializer expects with the context-aware, I/O-bound
// store. It is the only place a ctx gets threaded down into a query.Handle
// call: every other query.Handle is the in-memory tables.Store or
// execqueue's nilHandle, neither of which does I/O.
package replay

import (
	"context"
	"fmt"

	"github.com/nbsync/notebook-order/internal/events"
	"github.com/nbsync/notebook-order/internal/materializer"
	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/store"
)

// handle adapts a store.Store bound to ctx into a query.Handle for a
// single Reduce call. Read errors are swallowed into "not found": the
// materializer's UnknownReference contract already treats a missing row
// as silently-drop-the-op, and a store read failure should fail the same
// way rather than panic the reducer.
type handle struct {
	ctx context.Context
	s   store.Store
}

func (h handle) PendingClear(cellID string) (model.PendingClear, bool) {
	v, ok, err := h.s.PendingClear(h.ctx, cellID)
	if err != nil {
		return model.PendingClear{}, false
	}
	return v, ok
}

func (h handle) Output(outputID string) (model.Output, bool) {
	v, ok, err := h.s.Output(h.ctx, outputID)
	if err != nil {
		return model.Output{}, false
	}
	return v, ok
}

func (h handle) OutputsByDisplayID(displayID string) []model.Output {
	v, err := h.s.OutputsByDisplayID(h.ctx, displayID)
	if err != nil {
		return nil
	}
	return v
}

func (h handle) Cell(id string) (model.Cell, bool) {
	v, ok, err := h.s.Cell(h.ctx, id)
	if err != nil {
		return model.Cell{}, false
	}
	return v, ok
}

func (h handle) ExecutionQueueEntry(id string) (model.ExecutionQueueEntry, bool) {
	v, ok, err := h.s.ExecutionQueueEntry(h.ctx, id)
	if err != nil {
		return model.ExecutionQueueEntry{}, false
	}
	return v, ok
}

// Events reduces evs in order and applies each event's resulting ops to s
// as its own batch, the way a live event-sync transport would apply one
// incoming event at a time. Callers importing a whole notebook in one shot
// get the same end state as a server that persisted each event as it
// arrived.
func Events(ctx context.Context, s store.Store, evs []events.Event) error {
	h := handle{ctx: ctx, s: s}
	for _, ev := range evs {
		ops, err := materializer.Reduce(h, ev)
		if err != nil {
			return fmt.Errorf("reduce %s: %w", ev.Name, err)
		}
		if len(ops) == 0 {
			continue
		}
		if err := s.Apply(ctx, ops); err != nil {
			return fmt.Errorf("apply %s: %w", ev.Name, err)
		}
	}
	return nil
}
