// Package query is the read surface consumed by the materializer mid-reduce
// and by external callers assembling a notebook view: parameterized,
// memoizable lookups over the table rows package tables maintains, plus the
// ordering and default-filling rules that keep that logic out of storage
// adapters.
package query

import "github.com/nbsync/notebook-order/internal/model"

// Handle is the narrow read slice the materializer consults while reducing
// a single event: whether a cell has a pending clear, what output a
// terminal-append or display-update event targets.
type Handle interface {
	PendingClear(cellID string) (model.PendingClear, bool)
	Output(outputID string) (model.Output, bool)
	OutputsByDisplayID(displayID string) []model.Output
	Cell(id string) (model.Cell, bool)
	ExecutionQueueEntry(id string) (model.ExecutionQueueEntry, bool)
}

// Store is the full read surface the query descriptors in this package
// operate over. The in-memory tables.Store implements it; the persisted
// store adapters implement store.Store instead, whose methods take a
// context and return errors.
type Store interface {
	Handle
	Cells() []model.Cell
	OutputsForCell(cellID string) []model.Output
	OutputDeltasForOutput(outputID string) []model.OutputDelta
	ExecutionQueueForCell(cellID string) []model.ExecutionQueueEntry
	ExecutionQueueEntry(id string) (model.ExecutionQueueEntry, bool)
	RuntimeSessions() []model.RuntimeSession
	RuntimeSession(sessionID string) (model.RuntimeSession, bool)
	Presences() []model.Presence
	Actors() []model.Actor
	Actor(id string) (model.Actor, bool)
	ToolApproval(id string) (model.ToolApproval, bool)
	ToolApprovalsForCell(cellID string) []model.ToolApproval
	UiState() map[string]interface{}
	NotebookMetadata() map[string]string
}
