package materializer

import (
	"github.com/nbsync/notebook-order/internal/events"
	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/query"
	"github.com/nbsync/notebook-order/internal/tables"
)

func reduceExecutionRequested(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.ExecutionRequestedArgs)
	state := model.ExecutionStateQueued

	ops := []tables.Op{
		tables.UpsertExecutionQueueEntry{Entry: model.ExecutionQueueEntry{
			ID:             args.QueueID,
			CellID:         args.CellID,
			ExecutionCount: args.ExecutionCount,
			RequestedBy:    args.RequestedBy,
			Status:         model.ExecutionQueuePending,
		}},
		tables.UpdateCell{ID: args.CellID, Fields: tables.CellFields{
			ExecutionCount: intPtrPtr(args.ExecutionCount),
			ExecutionState: &state,
		}},
	}
	return appendIf(ops, presenceOp(&args.RequestedBy, &args.CellID)), nil
}

func reduceExecutionAssigned(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.ExecutionAssignedArgs)
	status := model.ExecutionQueueAssigned
	session := args.AssignedRuntimeSession
	return []tables.Op{tables.UpdateExecutionQueueEntry{ID: args.QueueID, Fields: tables.ExecutionQueueFields{
		Status:                 &status,
		AssignedRuntimeSession: ptrPtr(session),
	}}}, nil
}

func reduceExecutionStarted(h query.Handle, ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.ExecutionStartedArgs)
	status := model.ExecutionQueueExecuting
	startedAt := args.StartedAt
	state := model.ExecutionStateRunning
	session := args.AssignedRuntimeSession

	return []tables.Op{
		tables.UpdateExecutionQueueEntry{ID: args.QueueID, Fields: tables.ExecutionQueueFields{
			Status:    &status,
			StartedAt: timePtrPtr(startedAt),
		}},
		tables.UpdateCell{ID: args.CellID, Fields: tables.CellFields{
			ExecutionState:         &state,
			AssignedRuntimeSession: ptrPtr(session),
		}},
	}, nil
}

func reduceExecutionCompleted(h query.Handle, ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.ExecutionCompletedArgs)

	queueStatus := model.ExecutionQueueCompleted
	cellState := model.ExecutionStateCompleted
	if args.Status == events.ExecutionResultError {
		queueStatus = model.ExecutionQueueFailed
		cellState = model.ExecutionStateError
	}
	duration := args.DurationMs
	completedAt := args.CompletedAt

	return []tables.Op{
		tables.UpdateExecutionQueueEntry{ID: args.QueueID, Fields: tables.ExecutionQueueFields{
			Status:              &queueStatus,
			CompletedAt:         timePtrPtr(completedAt),
			ExecutionDurationMs: int64PtrPtr(duration),
		}},
		tables.UpdateCell{ID: args.CellID, Fields: tables.CellFields{
			ExecutionState:          &cellState,
			LastExecutionDurationMs: int64PtrPtr(duration),
		}},
	}, nil
}

// reduceExecutionCancelled looks up the queue entry to recover its cellId:
// the event itself only carries the queue id.
func reduceExecutionCancelled(h query.Handle, ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.ExecutionCancelledArgs)
	entry, ok := h.ExecutionQueueEntry(args.QueueID)
	if !ok {
		return nil, nil
	}

	status := model.ExecutionQueueCancelled
	idle := model.ExecutionStateIdle
	ops := []tables.Op{
		tables.UpdateExecutionQueueEntry{ID: args.QueueID, Fields: tables.ExecutionQueueFields{Status: &status}},
		tables.UpdateCell{ID: entry.CellID, Fields: tables.CellFields{ExecutionState: &idle}},
	}
	return appendIf(ops, presenceOp(args.ActorID, &entry.CellID)), nil
}

func reduceRuntimeSessionStarted(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.RuntimeSessionStartedArgs)
	return []tables.Op{tables.UpsertRuntimeSession{Session: model.RuntimeSession{
		SessionID:         args.SessionID,
		RuntimeID:         args.RuntimeID,
		RuntimeType:       args.RuntimeType,
		Status:            model.RuntimeSessionStarting,
		IsActive:          true,
		CanExecuteCode:    args.CanExecuteCode,
		CanExecuteSQL:     args.CanExecuteSQL,
		CanExecuteAI:      args.CanExecuteAI,
		AvailableAIModels: args.AvailableAIModels,
	}}}, nil
}

func reduceRuntimeSessionStatusChanged(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.RuntimeSessionStatusChangedArgs)
	status := args.Status
	return []tables.Op{tables.UpdateRuntimeSession{SessionID: args.SessionID, Fields: tables.RuntimeSessionFields{
		Status: &status,
	}}}, nil
}

func reduceRuntimeSessionTerminated(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.RuntimeSessionTerminatedArgs)
	status := model.RuntimeSessionTerminated
	inactive := false
	return []tables.Op{tables.UpdateRuntimeSession{SessionID: args.SessionID, Fields: tables.RuntimeSessionFields{
		Status:   &status,
		IsActive: &inactive,
	}}}, nil
}
