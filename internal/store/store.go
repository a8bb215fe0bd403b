// Package store defines the persisted table API behind the materializer's
// table operations. Drivers (postgres, sqlite) live under internal/store/<driver>
// and implement Store against their own schema; the algebra, rebalancer,
// cellops and materializer packages never import this package.
package store

import (
	"context"

	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/tables"
)

// Store is the persisted backend for a single notebook. It applies batches
// of table operations produced by the materializer and answers the read
// queries in internal/query. Drivers (e.g. Postgres, SQLite) live under
// internal/store/<driver>/ and implement this interface.
type Store interface {
	// Apply commits ops atomically: either every op in the batch lands or
	// none do. Implementations replay each op in order, since a later op
	// in a batch may observe a row upserted earlier in the same batch
	// (display-id in-place updates rely on this).
	Apply(ctx context.Context, ops []tables.Op) error

	Cells(ctx context.Context) ([]model.Cell, error)
	Cell(ctx context.Context, id string) (model.Cell, bool, error)
	OutputsForCell(ctx context.Context, cellID string) ([]model.Output, error)
	Output(ctx context.Context, id string) (model.Output, bool, error)
	OutputsByDisplayID(ctx context.Context, displayID string) ([]model.Output, error)
	OutputDeltasForOutput(ctx context.Context, outputID string) ([]model.OutputDelta, error)
	PendingClear(ctx context.Context, cellID string) (model.PendingClear, bool, error)
	ExecutionQueueForCell(ctx context.Context, cellID string) ([]model.ExecutionQueueEntry, error)
	ExecutionQueueEntry(ctx context.Context, id string) (model.ExecutionQueueEntry, bool, error)
	RuntimeSessions(ctx context.Context) ([]model.RuntimeSession, error)
	RuntimeSession(ctx context.Context, sessionID string) (model.RuntimeSession, bool, error)
	Presences(ctx context.Context) ([]model.Presence, error)
	Actors(ctx context.Context) ([]model.Actor, error)
	Actor(ctx context.Context, id string) (model.Actor, bool, error)
	ToolApproval(ctx context.Context, id string) (model.ToolApproval, bool, error)
	ToolApprovalsForCell(ctx context.Context, cellID string) ([]model.ToolApproval, error)
	UiState(ctx context.Context) ([]model.UiState, error)
	NotebookMetadata(ctx context.Context) (map[string]string, error)

	Close() error
}
