package events

import (
	"time"

	"github.com/nbsync/notebook-order/internal/model"
)

// NotebookMetadataSetArgs sets a single metadata key/value pair.
type NotebookMetadataSetArgs struct {
	Key   string
	Value string
}

// NotebookTitleChangedArgs renames the notebook.
type NotebookTitleChangedArgs struct {
	Title string
}

// CellCreatedV1Args is the deprecated positional cell-creation event, kept
// only so historical logs remain replayable. New writers must use
// CellCreatedV2Args.
type CellCreatedV1Args struct {
	ID        string
	Position  float64
	CellType  model.CellType
	CreatedBy string
	ActorID   *string
}

// CellCreatedV2Args is the current fractional-index cell-creation event.
type CellCreatedV2Args struct {
	ID              string
	FractionalIndex string
	CellType        model.CellType
	CreatedBy       string
}

// CellSourceChangedArgs updates a cell's source text.
type CellSourceChangedArgs struct {
	ID      string
	Source  string
	ActorID *string
}

// CellTypeChangedArgs changes a cell's type.
type CellTypeChangedArgs struct {
	ID       string
	CellType model.CellType
	ActorID  *string
}

// CellDeletedArgs deletes a cell row. Outputs are not cascaded.
type CellDeletedArgs struct {
	ID      string
	ActorID *string
}

// CellMovedV1Args is the deprecated positional move event.
type CellMovedV1Args struct {
	ID       string
	Position float64
	ActorID  *string
}

// CellMovedV2Args is the current fractional-index move event.
type CellMovedV2Args struct {
	ID              string
	FractionalIndex string
	ActorID         *string
}

// VisibilityField names which boolean visibility flag a toggle event targets.
type VisibilityField string

const (
	VisibilitySource     VisibilityField = "source"
	VisibilityOutput     VisibilityField = "output"
	VisibilityAIContext  VisibilityField = "aiContext"
)

// CellVisibilityToggledArgs flips one of a cell's visibility flags.
type CellVisibilityToggledArgs struct {
	ID      string
	Field   VisibilityField
	Visible bool
	ActorID *string
}

// CellAISettingsChangedArgs updates a cell's AI provider/model/settings.
type CellAISettingsChangedArgs struct {
	ID       string
	Provider string
	Model    string
	Settings map[string]interface{}
	ActorID  *string
}

// CellSQLConnectionSetArgs binds a SQL cell to a connection.
type CellSQLConnectionSetArgs struct {
	ID           string
	ConnectionID string
	ActorID      *string
}

// CellSQLResultVariableArgs names the variable a SQL cell's result is bound to.
type CellSQLResultVariableArgs struct {
	ID             string
	ResultVariable string
	ActorID        *string
}

// RuntimeSessionStartedArgs records a new compute backend attaching.
type RuntimeSessionStartedArgs struct {
	SessionID         string
	RuntimeID         string
	RuntimeType       string
	CanExecuteCode    bool
	CanExecuteSQL     bool
	CanExecuteAI      bool
	AvailableAIModels []string
}

// RuntimeSessionStatusChangedArgs transitions a runtime session's status.
type RuntimeSessionStatusChangedArgs struct {
	SessionID string
	Status    model.RuntimeSessionStatus
}

// RuntimeSessionTerminatedArgs marks a runtime session as gone.
type RuntimeSessionTerminatedArgs struct {
	SessionID string
}

// ExecutionRequestedArgs enqueues a new execution.
type ExecutionRequestedArgs struct {
	QueueID        string
	CellID         string
	ExecutionCount int
	RequestedBy    string
}

// ExecutionAssignedArgs hands a queued execution to a runtime session.
type ExecutionAssignedArgs struct {
	QueueID                string
	AssignedRuntimeSession string
}

// ExecutionStartedArgs marks an execution as running.
type ExecutionStartedArgs struct {
	QueueID                string
	CellID                 string
	AssignedRuntimeSession string
	StartedAt              time.Time
}

// ExecutionResult is the terminal outcome of an execution.
type ExecutionResult string

const (
	ExecutionResultSuccess ExecutionResult = "success"
	ExecutionResultError   ExecutionResult = "error"
)

// ExecutionCompletedArgs records the terminal outcome of an execution.
type ExecutionCompletedArgs struct {
	QueueID     string
	CellID      string
	Status      ExecutionResult
	CompletedAt time.Time
	DurationMs  int64
}

// ExecutionCancelledArgs cancels a queued or in-flight execution.
type ExecutionCancelledArgs struct {
	QueueID string
	ActorID *string
}

// MultimediaDisplayOutputAddedArgs adds a display() style output, optionally
// tagged with a DisplayID for later in-place updates.
type MultimediaDisplayOutputAddedArgs struct {
	ID              string
	CellID          string
	DisplayID       *string
	Representations model.Representations
	Position        float64
}

// MultimediaDisplayOutputUpdatedArgs replaces the representations of every
// existing output sharing DisplayID, in place, without creating a new row.
type MultimediaDisplayOutputUpdatedArgs struct {
	DisplayID       string
	Representations model.Representations
}

// MultimediaResultOutputAddedArgs adds an execute_result style output.
type MultimediaResultOutputAddedArgs struct {
	ID              string
	CellID          string
	Representations model.Representations
	ExecutionCount  int
	Position        float64
}

// TerminalOutputAddedArgs adds a new stdout/stderr stream output.
type TerminalOutputAddedArgs struct {
	ID         string
	CellID     string
	StreamName string
	Content    model.RepresentationPayload
	Position   float64
}

// TerminalOutputAppendedV1Args is the deprecated delta-append event that
// concatenated directly into the target output's Data field.
type TerminalOutputAppendedV1Args struct {
	OutputID string
	Delta    string
}

// TerminalOutputAppendedV2Args appends a sequenced delta row, reconstructed
// by consumers via OriginalData ⊕ sorted(deltas).
type TerminalOutputAppendedV2Args struct {
	OutputID       string
	Delta          string
	SequenceNumber int64
}

// MarkdownOutputAddedArgs adds a markdown output.
type MarkdownOutputAddedArgs struct {
	ID       string
	CellID   string
	Content  model.RepresentationPayload
	Position float64
}

// MarkdownOutputAppendedV1Args is the deprecated markdown delta-append event.
type MarkdownOutputAppendedV1Args struct {
	OutputID string
	Delta    string
}

// MarkdownOutputAppendedV2Args is the sequenced markdown delta-append event.
type MarkdownOutputAppendedV2Args struct {
	OutputID       string
	Delta          string
	SequenceNumber int64
}

// ErrorOutputAddedArgs adds an error (exception) output.
type ErrorOutputAddedArgs struct {
	ID       string
	CellID   string
	Content  model.RepresentationPayload
	Position float64
}

// CellOutputsClearedArgs clears a cell's outputs, optionally deferring the
// actual removal to the next output-add (ipynb clear_output(wait=True)).
type CellOutputsClearedArgs struct {
	CellID    string
	Wait      bool
	ClearedBy *string
}

// ActorProfileSetArgs registers or updates an actor's display profile.
type ActorProfileSetArgs struct {
	ID          string
	Type        model.ActorType
	DisplayName string
}

// ToolApprovalRequestedArgs requests human sign-off for an AI tool call.
type ToolApprovalRequestedArgs struct {
	ID       string
	CellID   string
	ToolName string
	ToolArgs map[string]interface{}
}

// ToolApprovalRespondedArgs records the human's approve/deny decision.
type ToolApprovalRespondedArgs struct {
	ID          string
	Status      model.ToolApprovalStatus
	RespondedBy string
}

// PresenceSetArgs replaces a user's presence wholesale.
type PresenceSetArgs struct {
	UserID string
	CellID *string
}

// UiStateSetArgs sets an opaque client UI state key.
type UiStateSetArgs struct {
	Key   string
	Value interface{}
}

// DebugArgs carries free-form diagnostic data; the materializer ignores it.
type DebugArgs struct {
	Message string
	Data    map[string]interface{}
}
