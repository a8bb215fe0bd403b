// Package materializer is the pure event→state reducer: Reduce maps one
// event to the batch of table operations package tables must apply to keep
// the relational projection consistent with the log. It never performs I/O,
// reads the wall clock, or draws randomness — every input it needs beyond
// the event itself comes through the injected query.Handle.
package materializer

import (
	"fmt"

	"github.com/nbsync/notebook-order/internal/events"
	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/query"
	"github.com/nbsync/notebook-order/internal/tables"
)

// Reduce dispatches ev to the arm matching its Name and returns the table
// operations it produces. An event whose precondition rows are missing
// (UnknownReference, per the error-handling taxonomy) yields a nil, nil
// result rather than an error: dependent work is silently dropped, not
// treated as a materializer fault.
func Reduce(h query.Handle, ev events.Event) ([]tables.Op, error) {
	switch ev.Name {
	case events.NameNotebookInitialized:
		return nil, nil
	case events.NameNotebookMetadataSet:
		return reduceNotebookMetadataSet(ev)
	case events.NameNotebookTitleChanged:
		return reduceNotebookTitleChanged(ev)

	case events.NameCellCreatedV1:
		return reduceCellCreatedV1(ev)
	case events.NameCellCreatedV2:
		return reduceCellCreatedV2(ev)
	case events.NameCellSourceChanged:
		return reduceCellSourceChanged(ev)
	case events.NameCellTypeChanged:
		return reduceCellTypeChanged(ev)
	case events.NameCellDeleted:
		return reduceCellDeleted(ev)
	case events.NameCellMovedV1:
		return reduceCellMovedV1(ev)
	case events.NameCellMovedV2:
		return reduceCellMovedV2(ev)
	case events.NameCellVisibilityToggled:
		return reduceCellVisibilityToggled(ev)
	case events.NameCellAISettingsChanged:
		return reduceCellAISettingsChanged(ev)
	case events.NameCellSQLConnectionSet:
		return reduceCellSQLConnectionSet(ev)
	case events.NameCellSQLResultVariable:
		return reduceCellSQLResultVariable(ev)

	case events.NameRuntimeSessionStarted:
		return reduceRuntimeSessionStarted(ev)
	case events.NameRuntimeSessionStatusChange:
		return reduceRuntimeSessionStatusChanged(ev)
	case events.NameRuntimeSessionTerminated:
		return reduceRuntimeSessionTerminated(ev)

	case events.NameExecutionRequested:
		return reduceExecutionRequested(ev)
	case events.NameExecutionAssigned:
		return reduceExecutionAssigned(ev)
	case events.NameExecutionStarted:
		return reduceExecutionStarted(h, ev)
	case events.NameExecutionCompleted:
		return reduceExecutionCompleted(h, ev)
	case events.NameExecutionCancelled:
		return reduceExecutionCancelled(h, ev)

	case events.NameMultimediaDisplayOutputAdded:
		return reduceMultimediaDisplayOutputAdded(h, ev)
	case events.NameMultimediaDisplayOutputUpdated:
		return reduceMultimediaDisplayOutputUpdated(ev)
	case events.NameMultimediaResultOutputAdded:
		return reduceMultimediaResultOutputAdded(h, ev)
	case events.NameTerminalOutputAdded:
		return reduceTerminalOutputAdded(h, ev)
	case events.NameTerminalOutputAppendedV1:
		return reduceTerminalOutputAppendedV1(h, ev)
	case events.NameTerminalOutputAppendedV2:
		return reduceTerminalOutputAppendedV2(h, ev)
	case events.NameMarkdownOutputAdded:
		return reduceMarkdownOutputAdded(h, ev)
	case events.NameMarkdownOutputAppendedV1:
		return reduceMarkdownOutputAppendedV1(h, ev)
	case events.NameMarkdownOutputAppendedV2:
		return reduceMarkdownOutputAppendedV2(h, ev)
	case events.NameErrorOutputAdded:
		return reduceErrorOutputAdded(h, ev)
	case events.NameCellOutputsCleared:
		return reduceCellOutputsCleared(ev)

	case events.NameActorProfileSet:
		return reduceActorProfileSet(ev)
	case events.NameToolApprovalRequested:
		return reduceToolApprovalRequested(ev)
	case events.NameToolApprovalResponded:
		return reduceToolApprovalResponded(ev)
	case events.NamePresenceSet:
		return reducePresenceSet(ev)
	case events.NameUiStateSet:
		return reduceUiStateSet(ev)
	case events.NameDebug:
		return nil, nil
	}
	return nil, fmt.Errorf("materializer: unknown event name %q", ev.Name)
}

// presenceOp builds the presence upsert every cell-touching event with a
// non-nil actor must also emit, or nil if no actor is present.
func presenceOp(actorID *string, cellID *string) tables.Op {
	if actorID == nil || *actorID == "" {
		return nil
	}
	return tables.UpsertPresence{Presence: model.Presence{UserID: *actorID, CellID: cellID}}
}

// appendIf appends op to ops when op is non-nil; used for the optional
// presence upsert that tags along with most cell/output events.
func appendIf(ops []tables.Op, op tables.Op) []tables.Op {
	if op == nil {
		return ops
	}
	return append(ops, op)
}
