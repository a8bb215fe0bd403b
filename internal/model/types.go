// Package model holds the relational row types materialized from the event log.
//
// These are deliberately plain structs with no behavior: the event log owns the
// lifetime of every entity, and rows are deterministic projections that may be
// rebuilt from scratch by replay.
package model

import "time"

// CellType enumerates the kinds of cell a notebook can contain.
type CellType string

const (
	CellTypeCode     CellType = "code"
	CellTypeMarkdown CellType = "markdown"
	CellTypeSQL      CellType = "sql"
	CellTypeRaw      CellType = "raw"
	CellTypeAI       CellType = "ai"
)

// ExecutionState is the lifecycle state of a cell's most recent execution.
type ExecutionState string

const (
	ExecutionStateIdle      ExecutionState = "idle"
	ExecutionStateQueued    ExecutionState = "queued"
	ExecutionStateRunning   ExecutionState = "running"
	ExecutionStateCompleted ExecutionState = "completed"
	ExecutionStateError     ExecutionState = "error"
)

// Cell is a single notebook cell, ordered by FractionalIndex ascending with
// ties broken by ID ascending.
type Cell struct {
	ID                      string
	CellType                CellType
	Source                  string
	FractionalIndex         string
	ExecutionCount          *int
	ExecutionState          ExecutionState
	AssignedRuntimeSession  *string
	SQLConnectionID         *string
	SQLResultVariable       *string
	AIProvider              *string
	AIModel                 *string
	AISettings              map[string]interface{}
	SourceVisible           bool
	OutputVisible           bool
	AIContextVisible        bool
	CreatedBy               string
	LastExecutionDurationMs *int64
}

// NewCell returns a Cell with the spec's documented defaults applied.
func NewCell(id string, cellType CellType, createdBy string) Cell {
	return Cell{
		ID:               id,
		CellType:         cellType,
		Source:           "",
		ExecutionState:   ExecutionStateIdle,
		SourceVisible:    true,
		OutputVisible:    true,
		AIContextVisible: true,
		CreatedBy:        createdBy,
	}
}

// OutputType enumerates the kinds of output a cell can produce.
type OutputType string

const (
	OutputTypeMultimediaDisplay OutputType = "multimedia_display"
	OutputTypeMultimediaResult  OutputType = "multimedia_result"
	OutputTypeTerminal          OutputType = "terminal"
	OutputTypeMarkdown          OutputType = "markdown"
	OutputTypeError             OutputType = "error"
)

// RepresentationPayload is the tagged union described in spec.md §6: exactly
// one of Data (inline) or ArtifactID (by-reference) is set.
type RepresentationPayload struct {
	Data       string
	ArtifactID string
	Metadata   map[string]interface{}
}

// IsInline reports whether this representation carries inline data rather
// than an artifact reference.
func (r RepresentationPayload) IsInline() bool {
	return r.ArtifactID == ""
}

// Representations is an ordered, keyless map from MIME type to payload: a
// slice of pairs so insertion order (and therefore priority scans) is
// preserved, unlike a Go map.
type Representations []Representation

// Representation pairs a MIME type with its payload.
type Representation struct {
	MimeType string
	Payload  RepresentationPayload
}

// Get returns the payload for mimeType and whether it was present.
func (r Representations) Get(mimeType string) (RepresentationPayload, bool) {
	for _, rep := range r {
		if rep.MimeType == mimeType {
			return rep.Payload, true
		}
	}
	return RepresentationPayload{}, false
}

// Clone returns a deep-enough copy safe to store independently of the input slice.
func (r Representations) Clone() Representations {
	out := make(Representations, len(r))
	copy(out, r)
	return out
}

// Output is a single cell output row.
type Output struct {
	ID              string
	CellID          string
	OutputType      OutputType
	Position        float64
	StreamName      *string
	ExecutionCount  *int
	DisplayID       *string
	Data            *string
	ArtifactID      *string
	MimeType        *string
	Metadata        map[string]interface{}
	Representations Representations
}

// OutputDelta is an append-only streaming-output fragment.
type OutputDelta struct {
	ID             string
	OutputID       string
	Delta          string
	SequenceNumber int64
}

// PendingClear is the deferred clear_output(wait=True) marker, at most one
// per CellID.
type PendingClear struct {
	CellID    string
	ClearedBy string
}

// RuntimeSessionStatus enumerates the lifecycle of a runtime session.
type RuntimeSessionStatus string

const (
	RuntimeSessionStarting   RuntimeSessionStatus = "starting"
	RuntimeSessionReady      RuntimeSessionStatus = "ready"
	RuntimeSessionBusy       RuntimeSessionStatus = "busy"
	RuntimeSessionRestarting RuntimeSessionStatus = "restarting"
	RuntimeSessionTerminated RuntimeSessionStatus = "terminated"
)

// RuntimeSession is a compute backend attached to the notebook.
type RuntimeSession struct {
	SessionID         string
	RuntimeID         string
	RuntimeType       string
	Status            RuntimeSessionStatus
	IsActive          bool
	CanExecuteCode    bool
	CanExecuteSQL     bool
	CanExecuteAI      bool
	AvailableAIModels []string
}

// ExecutionQueueStatus enumerates the lifecycle of a queued execution.
type ExecutionQueueStatus string

const (
	ExecutionQueuePending   ExecutionQueueStatus = "pending"
	ExecutionQueueAssigned  ExecutionQueueStatus = "assigned"
	ExecutionQueueExecuting ExecutionQueueStatus = "executing"
	ExecutionQueueCompleted ExecutionQueueStatus = "completed"
	ExecutionQueueFailed    ExecutionQueueStatus = "failed"
	ExecutionQueueCancelled ExecutionQueueStatus = "cancelled"
)

// ExecutionQueueEntry is a single queued or in-flight execution request.
type ExecutionQueueEntry struct {
	ID                     string
	CellID                 string
	ExecutionCount         int
	RequestedBy            string
	Status                 ExecutionQueueStatus
	AssignedRuntimeSession *string
	StartedAt              *time.Time
	CompletedAt            *time.Time
	ExecutionDurationMs    *int64
}

// Presence maps a user to the cell they are currently focused on, if any.
// Replaced wholesale on every subsequent write by the same UserID.
type Presence struct {
	UserID string
	CellID *string
}

// ActorType distinguishes human from automated actors.
type ActorType string

const (
	ActorTypeHuman ActorType = "human"
	ActorTypeAI    ActorType = "ai"
)

// Actor is a named participant in the event log.
type Actor struct {
	ID          string
	Type        ActorType
	DisplayName string
}

// ToolApprovalStatus enumerates the lifecycle of an AI tool-use approval.
type ToolApprovalStatus string

const (
	ToolApprovalPending  ToolApprovalStatus = "pending"
	ToolApprovalApproved ToolApprovalStatus = "approved"
	ToolApprovalDenied   ToolApprovalStatus = "denied"
)

// ToolApproval records an AI tool-call awaiting (or having received) human
// sign-off.
type ToolApproval struct {
	ID          string
	CellID      string
	ToolName    string
	ToolArgs    map[string]interface{}
	Status      ToolApprovalStatus
	RespondedBy *string
}

// UiState is an opaque, per-notebook client UI state blob.
type UiState struct {
	Key   string
	Value interface{}
}

// NotebookMetadataDefaults are the canonical fields the query surface
// returns when the underlying metadata key/value pairs are absent.
type NotebookMetadataDefaults struct {
	Title       string
	OwnerID     string
	RuntimeType string
	IsPublic    bool
}

// DefaultNotebookMetadata returns the spec-documented defaults.
func DefaultNotebookMetadata() NotebookMetadataDefaults {
	return NotebookMetadataDefaults{
		Title:       "Untitled",
		OwnerID:     "anonymous",
		RuntimeType: "python3",
		IsPublic:    false,
	}
}
