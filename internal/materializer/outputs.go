package materializer

import (
	"fmt"

	"github.com/nbsync/notebook-order/internal/events"
	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/query"
	"github.com/nbsync/notebook-order/internal/tables"
)

// consumePendingClear returns the ops that clear a cell's prior outputs if a
// PendingClear is waiting on it, per the ipynb clear_output(wait=True)
// protocol: outputs only disappear when the next real output arrives.
func consumePendingClear(h query.Handle, cellID string) []tables.Op {
	if _, ok := h.PendingClear(cellID); !ok {
		return nil
	}
	return []tables.Op{
		tables.DeleteOutputsForCell{CellID: cellID},
		tables.DeletePendingClear{CellID: cellID},
	}
}

func payloadToOutput(p model.RepresentationPayload) (data, artifactID *string, metadata map[string]interface{}) {
	if p.IsInline() {
		d := p.Data
		return &d, nil, p.Metadata
	}
	a := p.ArtifactID
	return nil, &a, p.Metadata
}

func reduceMultimediaDisplayOutputAdded(h query.Handle, ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.MultimediaDisplayOutputAddedArgs)
	ops := consumePendingClear(h, args.CellID)

	primary, _ := query.PrimaryRepresentation(model.OutputTypeMultimediaDisplay, args.Representations)
	data, artifactID, metadata := payloadToOutput(primary.Payload)
	mime := primary.MimeType

	ops = append(ops, tables.UpsertOutput{Output: model.Output{
		ID:              args.ID,
		CellID:          args.CellID,
		OutputType:      model.OutputTypeMultimediaDisplay,
		Position:        args.Position,
		DisplayID:       args.DisplayID,
		Data:            data,
		ArtifactID:      artifactID,
		MimeType:        &mime,
		Metadata:        metadata,
		Representations: args.Representations.Clone(),
	}})

	if args.DisplayID != nil {
		ops = append(ops, tables.UpdateOutputRepresentation{
			DisplayID:       *args.DisplayID,
			Representations: args.Representations.Clone(),
			Data:            data,
			MimeType:        &mime,
		})
	}
	return ops, nil
}

func reduceMultimediaDisplayOutputUpdated(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.MultimediaDisplayOutputUpdatedArgs)
	primary, _ := query.PrimaryRepresentation(model.OutputTypeMultimediaDisplay, args.Representations)
	data, _, _ := payloadToOutput(primary.Payload)
	mime := primary.MimeType

	return []tables.Op{tables.UpdateOutputRepresentation{
		DisplayID:       args.DisplayID,
		Representations: args.Representations.Clone(),
		Data:            data,
		MimeType:        &mime,
	}}, nil
}

func reduceMultimediaResultOutputAdded(h query.Handle, ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.MultimediaResultOutputAddedArgs)
	ops := consumePendingClear(h, args.CellID)

	primary, _ := query.PrimaryRepresentation(model.OutputTypeMultimediaResult, args.Representations)
	data, artifactID, metadata := payloadToOutput(primary.Payload)
	mime := primary.MimeType
	execCount := args.ExecutionCount

	ops = append(ops, tables.UpsertOutput{Output: model.Output{
		ID:              args.ID,
		CellID:          args.CellID,
		OutputType:      model.OutputTypeMultimediaResult,
		Position:        args.Position,
		ExecutionCount:  &execCount,
		Data:            data,
		ArtifactID:      artifactID,
		MimeType:        &mime,
		Metadata:        metadata,
		Representations: args.Representations.Clone(),
	}})
	return ops, nil
}

func reduceTerminalOutputAdded(h query.Handle, ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.TerminalOutputAddedArgs)
	ops := consumePendingClear(h, args.CellID)

	data, artifactID, metadata := payloadToOutput(args.Content)
	streamName := args.StreamName
	ops = append(ops, tables.UpsertOutput{Output: model.Output{
		ID:         args.ID,
		CellID:     args.CellID,
		OutputType: model.OutputTypeTerminal,
		Position:   args.Position,
		StreamName: &streamName,
		Data:       data,
		ArtifactID: artifactID,
		Metadata:   metadata,
	}})
	return ops, nil
}

// reduceTerminalOutputAppendedV1 is the deprecated delta-append path that
// concatenates directly into the output's Data field. An unknown outputId
// is an UnknownReference: the dependent append is silently dropped.
func reduceTerminalOutputAppendedV1(h query.Handle, ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.TerminalOutputAppendedV1Args)
	if _, ok := h.Output(args.OutputID); !ok {
		return nil, nil
	}
	return []tables.Op{tables.AppendTerminalData{OutputID: args.OutputID, Delta: args.Delta}}, nil
}

func reduceTerminalOutputAppendedV2(h query.Handle, ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.TerminalOutputAppendedV2Args)
	if _, ok := h.Output(args.OutputID); !ok {
		return nil, nil
	}
	return []tables.Op{tables.UpsertOutputDelta{Delta: model.OutputDelta{
		ID:             fmt.Sprintf("%s-delta-%d", args.OutputID, args.SequenceNumber),
		OutputID:       args.OutputID,
		Delta:          args.Delta,
		SequenceNumber: args.SequenceNumber,
	}}}, nil
}

func reduceMarkdownOutputAdded(h query.Handle, ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.MarkdownOutputAddedArgs)
	ops := consumePendingClear(h, args.CellID)

	data, artifactID, metadata := payloadToOutput(args.Content)
	ops = append(ops, tables.UpsertOutput{Output: model.Output{
		ID:         args.ID,
		CellID:     args.CellID,
		OutputType: model.OutputTypeMarkdown,
		Position:   args.Position,
		Data:       data,
		ArtifactID: artifactID,
		Metadata:   metadata,
	}})
	return ops, nil
}

func reduceMarkdownOutputAppendedV1(h query.Handle, ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.MarkdownOutputAppendedV1Args)
	if _, ok := h.Output(args.OutputID); !ok {
		return nil, nil
	}
	return []tables.Op{tables.AppendTerminalData{OutputID: args.OutputID, Delta: args.Delta}}, nil
}

func reduceMarkdownOutputAppendedV2(h query.Handle, ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.MarkdownOutputAppendedV2Args)
	if _, ok := h.Output(args.OutputID); !ok {
		return nil, nil
	}
	return []tables.Op{tables.UpsertOutputDelta{Delta: model.OutputDelta{
		ID:             fmt.Sprintf("%s-delta-%d", args.OutputID, args.SequenceNumber),
		OutputID:       args.OutputID,
		Delta:          args.Delta,
		SequenceNumber: args.SequenceNumber,
	}}}, nil
}

func reduceErrorOutputAdded(h query.Handle, ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.ErrorOutputAddedArgs)
	ops := consumePendingClear(h, args.CellID)

	data, artifactID, metadata := payloadToOutput(args.Content)
	ops = append(ops, tables.UpsertOutput{Output: model.Output{
		ID:         args.ID,
		CellID:     args.CellID,
		OutputType: model.OutputTypeError,
		Position:   args.Position,
		Data:       data,
		ArtifactID: artifactID,
		Metadata:   metadata,
	}})
	return ops, nil
}

func reduceCellOutputsCleared(ev events.Event) ([]tables.Op, error) {
	args := ev.Args.(events.CellOutputsClearedArgs)

	var ops []tables.Op
	if args.Wait {
		clearedBy := ""
		if args.ClearedBy != nil {
			clearedBy = *args.ClearedBy
		}
		ops = append(ops, tables.UpsertPendingClear{PendingClear: model.PendingClear{
			CellID:    args.CellID,
			ClearedBy: clearedBy,
		}})
	} else {
		ops = append(ops, tables.DeleteOutputsForCell{CellID: args.CellID})
	}
	return appendIf(ops, presenceOp(args.ClearedBy, &args.CellID)), nil
}
