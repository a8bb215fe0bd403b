package events

// Versioned event names. Names are immutable once shipped; a changed
// argument shape gets a new version rather than mutating the old one.
const (
	NameNotebookInitialized  = "v1.NotebookInitialized"
	NameNotebookMetadataSet  = "v1.NotebookMetadataSet"
	NameNotebookTitleChanged = "v1.NotebookTitleChanged"

	NameCellCreatedV1          = "v1.CellCreated"
	NameCellCreatedV2          = "v2.CellCreated"
	NameCellSourceChanged      = "v1.CellSourceChanged"
	NameCellTypeChanged        = "v1.CellTypeChanged"
	NameCellDeleted            = "v1.CellDeleted"
	NameCellMovedV1            = "v1.CellMoved"
	NameCellMovedV2            = "v2.CellMoved"
	NameCellVisibilityToggled  = "v1.CellVisibilityToggled"
	NameCellAISettingsChanged  = "v1.CellAISettingsChanged"
	NameCellSQLConnectionSet   = "v1.CellSQLConnectionSet"
	NameCellSQLResultVariable  = "v1.CellSQLResultVariableSet"

	NameRuntimeSessionStarted      = "v1.RuntimeSessionStarted"
	NameRuntimeSessionStatusChange = "v1.RuntimeSessionStatusChanged"
	NameRuntimeSessionTerminated   = "v1.RuntimeSessionTerminated"

	NameExecutionRequested = "v1.ExecutionRequested"
	NameExecutionAssigned  = "v1.ExecutionAssigned"
	NameExecutionStarted   = "v1.ExecutionStarted"
	NameExecutionCompleted = "v1.ExecutionCompleted"
	NameExecutionCancelled = "v1.ExecutionCancelled"

	NameMultimediaDisplayOutputAdded   = "v1.MultimediaDisplayOutputAdded"
	NameMultimediaDisplayOutputUpdated = "v1.MultimediaDisplayOutputUpdated"
	NameMultimediaResultOutputAdded    = "v1.MultimediaResultOutputAdded"
	NameTerminalOutputAdded            = "v1.TerminalOutputAdded"
	NameTerminalOutputAppendedV1       = "v1.TerminalOutputAppended"
	NameTerminalOutputAppendedV2       = "v2.TerminalOutputAppended"
	NameMarkdownOutputAdded            = "v1.MarkdownOutputAdded"
	NameMarkdownOutputAppendedV1       = "v1.MarkdownOutputAppended"
	NameMarkdownOutputAppendedV2       = "v2.MarkdownOutputAppended"
	NameErrorOutputAdded               = "v1.ErrorOutputAdded"
	NameCellOutputsCleared             = "v1.CellOutputsCleared"

	NameActorProfileSet       = "v1.ActorProfileSet"
	NameToolApprovalRequested = "v1.ToolApprovalRequested"
	NameToolApprovalResponded = "v1.ToolApprovalResponded"
	NamePresenceSet           = "v1.PresenceSet"
	NameUiStateSet            = "v1.UiStateSet"
	NameDebug                 = "v1.Debug"
)
