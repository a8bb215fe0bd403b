package materializer

import (
	"github.com/nbsync/notebook-order/internal/algebra"
	"github.com/nbsync/notebook-order/internal/events"
	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/tables"
)

func reduceNotebookMetadataSet(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.NotebookMetadataSetArgs)
	return []tables.Op{tables.UpsertNotebookMetadata{Key: args.Key, Value: args.Value}}, nil
}

func reduceNotebookTitleChanged(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.NotebookTitleChangedArgs)
	return []tables.Op{tables.UpsertNotebookMetadata{Key: "title", Value: args.Title}}, nil
}

// reduceCellCreatedV1 replays the deprecated positional cell-creation event:
// position is coerced into a pseudo fractional index "a" ⊕ base36(floor(position)).
// New writers must never emit this event; it exists only so historical logs
// stay replayable.
func reduceCellCreatedV1(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.CellCreatedV1Args)
	idx := "a" + algebra.Base36(int(args.Position))
	cell := model.NewCell(args.ID, args.CellType, args.CreatedBy)
	cell.FractionalIndex = idx

	ops := []tables.Op{tables.UpsertCell{Cell: cell}}
	actor := args.ActorID
	if actor == nil {
		actor = &args.CreatedBy
	}
	return appendIf(ops, presenceOp(actor, &args.ID)), nil
}

func reduceCellCreatedV2(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.CellCreatedV2Args)
	cell := model.NewCell(args.ID, args.CellType, args.CreatedBy)
	cell.FractionalIndex = args.FractionalIndex

	ops := []tables.Op{tables.UpsertCell{Cell: cell}}
	return appendIf(ops, presenceOp(&args.CreatedBy, &args.ID)), nil
}

func reduceCellSourceChanged(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.CellSourceChangedArgs)
	source := args.Source
	ops := []tables.Op{tables.UpdateCell{ID: args.ID, Fields: tables.CellFields{Source: &source}}}
	return appendIf(ops, presenceOp(args.ActorID, &args.ID)), nil
}

func reduceCellTypeChanged(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.CellTypeChangedArgs)
	cellType := args.CellType
	ops := []tables.Op{tables.UpdateCell{ID: args.ID, Fields: tables.CellFields{CellType: &cellType}}}
	return appendIf(ops, presenceOp(args.ActorID, &args.ID)), nil
}

func reduceCellDeleted(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.CellDeletedArgs)
	ops := []tables.Op{tables.DeleteCell{ID: args.ID}}
	return appendIf(ops, presenceOp(args.ActorID, nil)), nil
}

func reduceCellMovedV1(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.CellMovedV1Args)
	idx := "a" + algebra.Base36(int(args.Position))
	ops := []tables.Op{tables.UpdateCell{ID: args.ID, Fields: tables.CellFields{FractionalIndex: &idx}}}
	return appendIf(ops, presenceOp(args.ActorID, &args.ID)), nil
}

func reduceCellMovedV2(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.CellMovedV2Args)
	idx := args.FractionalIndex
	ops := []tables.Op{tables.UpdateCell{ID: args.ID, Fields: tables.CellFields{FractionalIndex: &idx}}}
	return appendIf(ops, presenceOp(args.ActorID, &args.ID)), nil
}

func reduceCellVisibilityToggled(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.CellVisibilityToggledArgs)
	fields := tables.CellFields{}
	visible := args.Visible
	switch args.Field {
	case events.VisibilitySource:
		fields.SourceVisible = &visible
	case events.VisibilityOutput:
		fields.OutputVisible = &visible
	case events.VisibilityAIContext:
		fields.AIContextVisible = &visible
	}
	ops := []tables.Op{tables.UpdateCell{ID: args.ID, Fields: fields}}
	return appendIf(ops, presenceOp(args.ActorID, &args.ID)), nil
}

func reduceCellAISettingsChanged(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.CellAISettingsChangedArgs)
	provider, model_, settings := args.Provider, args.Model, args.Settings
	ops := []tables.Op{tables.UpdateCell{ID: args.ID, Fields: tables.CellFields{
		AIProvider: ptrPtr(provider),
		AIModel:    ptrPtr(model_),
		AISettings: &settings,
	}}}
	return appendIf(ops, presenceOp(args.ActorID, &args.ID)), nil
}

func reduceCellSQLConnectionSet(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.CellSQLConnectionSetArgs)
	ops := []tables.Op{tables.UpdateCell{ID: args.ID, Fields: tables.CellFields{
		SQLConnectionID: ptrPtr(args.ConnectionID),
	}}}
	return appendIf(ops, presenceOp(args.ActorID, &args.ID)), nil
}

func reduceCellSQLResultVariable(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.CellSQLResultVariableArgs)
	ops := []tables.Op{tables.UpdateCell{ID: args.ID, Fields: tables.CellFields{
		SQLResultVariable: ptrPtr(args.ResultVariable),
	}}}
	return appendIf(ops, presenceOp(args.ActorID, &args.ID)), nil
}

// ptrPtr lifts a plain string value into the **string shape CellFields uses
// to distinguish "leave untouched" (nil) from "set to this value" (non-nil
// pointer to a pointer to the value).
func ptrPtr(s string) **string {
	v := &s
	return &v
}
