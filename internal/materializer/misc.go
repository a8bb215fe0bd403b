package materializer

import (
	"github.com/nbsync/notebook-order/internal/events"
	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/tables"
)

func reduceActorProfileSet(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.ActorProfileSetArgs)
	return []tables.Op{tables.UpsertActor{Actor: model.Actor{
		ID:          args.ID,
		Type:        args.Type,
		DisplayName: args.DisplayName,
	}}}, nil
}

func reduceToolApprovalRequested(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.ToolApprovalRequestedArgs)
	return []tables.Op{tables.UpsertToolApproval{Approval: model.ToolApproval{
		ID:       args.ID,
		CellID:   args.CellID,
		ToolName: args.ToolName,
		ToolArgs: args.ToolArgs,
		Status:   model.ToolApprovalPending,
	}}}, nil
}

func reduceToolApprovalResponded(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.ToolApprovalRespondedArgs)
	return []tables.Op{tables.UpdateToolApproval{
		ID:          args.ID,
		Status:      args.Status,
		RespondedBy: args.RespondedBy,
	}}, nil
}

func reducePresenceSet(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.PresenceSetArgs)
	return []tables.Op{tables.UpsertPresence{Presence: model.Presence{
		UserID: args.UserID,
		CellID: args.CellID,
	}}}, nil
}

func reduceUiStateSet(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.UiStateSetArgs)
	return []tables.Op{tables.UpsertUiState{State: model.UiState{
		Key:   args.Key,
		Value: args.Value,
	}}}, nil
}
