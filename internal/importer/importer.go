// Package importer converts a Jupyter nbformat 4 notebook document into the
// event sequence that, replayed through the materializer, reconstructs it:
// the same createCellBetween contract every interactive cell insertion uses,
// exercised end to end against externally authored content.
package importer

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nbsync/notebook-order/internal/algebra"
	"github.com/nbsync/notebook-order/internal/cellops"
	"github.com/nbsync/notebook-order/internal/events"
	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/rebalance"
)

// Options configures ImportNotebook.
type Options struct {
	// ActorID, if set, is used as the importing actor's id instead of
	// minting a fresh uuid; tests pass a fixed value for reproducibility.
	ActorID string
	// ImportedAt stamps the generated title; callers pass the current time
	// in production and a fixed instant in tests, since the importer must
	// not read the wall clock itself to stay deterministic.
	ImportedAt time.Time
	// Jitter is forwarded to cellops.CreateCellBetween for every inserted
	// cell. Nil disables jitter.
	Jitter algebra.Source
}

// ImportNotebook produces the ordered event sequence described in spec.md
// §4.7: one ActorProfileSet, one NotebookTitleChanged, optional kernelspec
// NotebookMetadataSet events, then per input cell a createCellBetween batch,
// a CellSourceChanged, and — for code cells carrying outputs — a
// CellOutputsCleared{wait:false} followed by one event per output.
func ImportNotebook(nb Notebook, opts Options) ([]events.Event, error) {
	actorID := opts.ActorID
	if actorID == "" {
		actorID = uuid.New().String()
	}

	var out []events.Event
	out = append(out, events.New(events.NameActorProfileSet, events.ActorProfileSetArgs{
		ID:          actorID,
		Type:        model.ActorTypeHuman,
		DisplayName: "Notebook Importer",
	}))

	out = append(out, events.New(events.NameNotebookTitleChanged, events.NotebookTitleChangedArgs{
		Title: "Imported Notebook - " + opts.ImportedAt.Format("Jan 2, 2006"),
	}))

	if ks := nb.Metadata.KernelSpec; ks != nil {
		if ks.DisplayName != "" {
			out = append(out, events.New(events.NameNotebookMetadataSet, events.NotebookMetadataSetArgs{
				Key: "kernelspec_display_name", Value: ks.DisplayName,
			}))
		}
		if ks.Language != "" {
			out = append(out, events.New(events.NameNotebookMetadataSet, events.NotebookMetadataSetArgs{
				Key: "language", Value: ks.Language,
			}))
		}
	}

	var allCells []rebalance.IndexedCell
	var cellBefore *cellops.CellReference

	for _, cell := range nb.Cells {
		cellType := model.CellTypeMarkdown
		if cell.CellType == "code" {
			cellType = model.CellTypeCode
		}

		id := uuid.New().String()
		result, err := cellops.CreateCellBetween(
			cellops.NewCellData{ID: id, CellType: cellType, CreatedBy: actorID},
			cellBefore, nil, allCells,
			cellops.Options{Jitter: opts.Jitter, ActorID: actorID},
		)
		if err != nil {
			return nil, err
		}
		out = append(out, result.Events...)

		fractionalIndex, _ := createdIndex(result.Events, id)
		allCells = append(allCells, rebalance.IndexedCell{ID: id, FractionalIndex: fractionalIndex})

		out = append(out, events.New(events.NameCellSourceChanged, events.CellSourceChangedArgs{
			ID:     id,
			Source: cell.Source.String(),
		}))

		if cellType == model.CellTypeCode && len(cell.Outputs) > 0 {
			clearedBy := actorID
			out = append(out, events.New(events.NameCellOutputsCleared, events.CellOutputsClearedArgs{
				CellID: id, Wait: false, ClearedBy: &clearedBy,
			}))
			for i, output := range cell.Outputs {
				ev, err := importOutput(id, float64(i), output)
				if err != nil {
					return nil, err
				}
				if ev.Name != "" {
					out = append(out, ev)
				}
			}
		}

		cellBefore = &cellops.CellReference{ID: id, CellType: cellType, FractionalIndex: fractionalIndex}
	}

	return out, nil
}

// createdIndex scans evts for the CellCreated(v2) event minted for id and
// returns its fractional index.
func createdIndex(evts []events.Event, id string) (string, bool) {
	for _, ev := range evts {
		if ev.Name != events.NameCellCreatedV2 {
			continue
		}
		args := ev.Args.(events.CellCreatedV2Args)
		if args.ID == id {
			return args.FractionalIndex, true
		}
	}
	return "", false
}

func representationsFromData(data map[string]MultilineString) model.Representations {
	mimes := make([]string, 0, len(data))
	for mime := range data {
		mimes = append(mimes, mime)
	}
	sort.Strings(mimes)

	reps := make(model.Representations, 0, len(data))
	for _, mime := range mimes {
		reps = append(reps, model.Representation{
			MimeType: mime,
			Payload:  model.RepresentationPayload{Data: data[mime].String()},
		})
	}
	return reps
}

func importOutput(cellID string, position float64, output NotebookOutput) (events.Event, error) {
	switch output.OutputType {
	case "stream":
		return events.New(events.NameTerminalOutputAdded, events.TerminalOutputAddedArgs{
			ID:         uuid.New().String(),
			CellID:     cellID,
			StreamName: output.Name,
			Content:    model.RepresentationPayload{Data: output.Text.String()},
			Position:   position,
		}), nil

	case "execute_result":
		execCount := 0
		if output.ExecutionCount != nil {
			execCount = *output.ExecutionCount
		}
		return events.New(events.NameMultimediaResultOutputAdded, events.MultimediaResultOutputAddedArgs{
			ID:              uuid.New().String(),
			CellID:          cellID,
			Representations: representationsFromData(output.Data),
			ExecutionCount:  execCount,
			Position:        position,
		}), nil

	case "display_data":
		return events.New(events.NameMultimediaDisplayOutputAdded, events.MultimediaDisplayOutputAddedArgs{
			ID:              uuid.New().String(),
			CellID:          cellID,
			Representations: representationsFromData(output.Data),
			Position:        position,
		}), nil

	case "error":
		payload, err := json.Marshal(struct {
			EName     string   `json:"ename"`
			EValue    string   `json:"evalue"`
			Traceback []string `json:"traceback"`
		}{output.EName, output.EValue, output.Traceback})
		if err != nil {
			return events.Event{}, err
		}
		return events.New(events.NameErrorOutputAdded, events.ErrorOutputAddedArgs{
			ID:       uuid.New().String(),
			CellID:   cellID,
			Content:  model.RepresentationPayload{Data: string(payload)},
			Position: position,
		}), nil
	}

	return events.Event{}, nil
}
