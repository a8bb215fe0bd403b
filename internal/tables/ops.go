// Package tables defines the table-operation batches the materializer
// produces and an in-memory reference Store that applies them. The
// materializer itself never touches SQL: it only ever emits these typed,
// serializable operations, which is what spec.md means by treating the
// backing store as an "opaque table API".
package tables

import (
	"time"

	"github.com/nbsync/notebook-order/internal/model"
)

// Op is the interface every table operation implements. It is a closed,
// exhaustively-switched sum type rather than an open plugin interface.
type Op interface {
	isTableOp()
}

// UpsertCell inserts cell, or replaces it entirely if ID already exists.
type UpsertCell struct{ Cell model.Cell }

// CellFields is a partial update to a cell row: nil pointers are left
// untouched.
type CellFields struct {
	Source                  *string
	CellType                *model.CellType
	FractionalIndex         *string
	ExecutionCount          **int
	ExecutionState          *model.ExecutionState
	AssignedRuntimeSession  **string
	SQLConnectionID         **string
	SQLResultVariable       **string
	AIProvider              **string
	AIModel                 **string
	AISettings              *map[string]interface{}
	SourceVisible           *bool
	OutputVisible           *bool
	AIContextVisible        *bool
	LastExecutionDurationMs **int64
}

// UpdateCell applies Fields to the cell identified by ID.
type UpdateCell struct {
	ID     string
	Fields CellFields
}

// DeleteCell removes the cell row by id. Outputs are not cascaded.
type DeleteCell struct{ ID string }

// UpsertOutput inserts or replaces an output row.
type UpsertOutput struct{ Output model.Output }

// UpdateOutputRepresentation replaces the primary representation fields of
// every output matching DisplayID, without creating a new row.
type UpdateOutputRepresentation struct {
	DisplayID       string
	Representations model.Representations
	Data            *string
	MimeType        *string
}

// DeleteOutputsForCell removes every output belonging to cellID.
type DeleteOutputsForCell struct{ CellID string }

// UpsertOutputDelta appends a streaming-output delta row.
type UpsertOutputDelta struct{ Delta model.OutputDelta }

// AppendTerminalData concatenates delta onto the target output's Data
// field in place (the deprecated v1 append path).
type AppendTerminalData struct {
	OutputID string
	Delta    string
}

// UpsertPendingClear replaces any prior pending-clear entry for CellID.
type UpsertPendingClear struct{ PendingClear model.PendingClear }

// DeletePendingClear removes the pending-clear entry for cellID, if any.
type DeletePendingClear struct{ CellID string }

// UpsertRuntimeSession inserts or replaces a runtime session row.
type UpsertRuntimeSession struct{ Session model.RuntimeSession }

// RuntimeSessionFields is a partial update to a runtime session row.
type RuntimeSessionFields struct {
	Status   *model.RuntimeSessionStatus
	IsActive *bool
}

// UpdateRuntimeSession applies Fields to the session identified by SessionID.
type UpdateRuntimeSession struct {
	SessionID string
	Fields    RuntimeSessionFields
}

// UpsertExecutionQueueEntry inserts or replaces an execution queue row.
type UpsertExecutionQueueEntry struct{ Entry model.ExecutionQueueEntry }

// ExecutionQueueFields is a partial update to an execution queue row.
type ExecutionQueueFields struct {
	Status                 *model.ExecutionQueueStatus
	AssignedRuntimeSession **string
	StartedAt              **time.Time
	CompletedAt            **time.Time
	ExecutionDurationMs    **int64
}

// UpdateExecutionQueueEntry applies Fields to the queue row identified by ID.
type UpdateExecutionQueueEntry struct {
	ID     string
	Fields ExecutionQueueFields
}

// UpsertPresence replaces the presence row for Presence.UserID.
type UpsertPresence struct{ Presence model.Presence }

// UpsertActor inserts or replaces an actor profile row.
type UpsertActor struct{ Actor model.Actor }

// UpsertNotebookMetadata sets a single metadata key/value pair.
type UpsertNotebookMetadata struct {
	Key   string
	Value string
}

// UpsertToolApproval inserts or replaces a tool-approval row.
type UpsertToolApproval struct{ Approval model.ToolApproval }

// UpdateToolApproval applies a response to an existing tool-approval row.
type UpdateToolApproval struct {
	ID          string
	Status      model.ToolApprovalStatus
	RespondedBy string
}

// UpsertUiState sets an opaque per-notebook UI state key.
type UpsertUiState struct{ State model.UiState }

func (UpsertCell) isTableOp()                 {}
func (UpdateCell) isTableOp()                 {}
func (DeleteCell) isTableOp()                 {}
func (UpsertOutput) isTableOp()               {}
func (UpdateOutputRepresentation) isTableOp() {}
func (DeleteOutputsForCell) isTableOp()       {}
func (UpsertOutputDelta) isTableOp()          {}
func (AppendTerminalData) isTableOp()         {}
func (UpsertPendingClear) isTableOp()         {}
func (DeletePendingClear) isTableOp()         {}
func (UpsertRuntimeSession) isTableOp()       {}
func (UpdateRuntimeSession) isTableOp()       {}
func (UpsertExecutionQueueEntry) isTableOp()  {}
func (UpdateExecutionQueueEntry) isTableOp()  {}
func (UpsertPresence) isTableOp()             {}
func (UpsertActor) isTableOp()                {}
func (UpsertNotebookMetadata) isTableOp()     {}
func (UpsertToolApproval) isTableOp()         {}
func (UpdateToolApproval) isTableOp()         {}
func (UpsertUiState) isTableOp()              {}
