package query

import (
	"sort"

	"github.com/nbsync/notebook-order/internal/model"
)

// OutputsForCell returns a cell's outputs sorted by Position ascending, ties
// broken by ID ascending.
func OutputsForCell(s Store, cellID string) []model.Output {
	outs := s.OutputsForCell(cellID)
	sort.SliceStable(outs, func(i, j int) bool {
		if outs[i].Position == outs[j].Position {
			return outs[i].ID < outs[j].ID
		}
		return outs[i].Position < outs[j].Position
	})
	return outs
}

// OutputDeltasForOutput returns an output's delta rows sorted by
// SequenceNumber ascending.
func OutputDeltasForOutput(s Store, outputID string) []model.OutputDelta {
	deltas := s.OutputDeltasForOutput(outputID)
	sort.SliceStable(deltas, func(i, j int) bool {
		return deltas[i].SequenceNumber < deltas[j].SequenceNumber
	})
	return deltas
}

// ApplyDeltas folds an output's original inline data with its sequenced
// delta rows, reconstructing the current content the way a consumer of the
// v2 terminal/markdown append events must: original ⊕ sorted(deltas).
func ApplyDeltas(original string, deltas []model.OutputDelta) string {
	sorted := make([]model.OutputDelta, len(deltas))
	copy(sorted, deltas)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SequenceNumber < sorted[j].SequenceNumber
	})
	out := original
	for _, d := range sorted {
		out += d.Delta
	}
	return out
}

// primaryMimePriority is the general-purpose preference order: interactive
// widget and chart formats first, then generic structured data, then
// progressively coarser renderable formats, plain text last.
var primaryMimePriority = []string{
	"application/vnd.plotly.v1+json",
	"application/vnd.vega.v5+json",
	"application/vnd.jupyter.widget-view+json",
	"application/vnd.dataresource+json",
	"application/vdom.v1+json",
	"application/geo+json",
	"application/json",
	"application/javascript",
	"text/html",
	"image/svg+xml",
	"image/png",
	"image/jpeg",
	"image/gif",
	"text/latex",
	"text/markdown",
	"text/plain",
}

// resultOutputMimePriority narrows the general list for
// MultimediaResultOutputAdded, where HTML and image renderers outrank the
// generic structured formats outright.
var resultOutputMimePriority = []string{
	"text/html",
	"image/png",
	"image/jpeg",
	"image/svg+xml",
	"application/json",
	"text/plain",
}

// PrimaryRepresentation picks the highest-priority representation present
// on reps, using priority appropriate to outputType. It returns false if
// reps is empty.
func PrimaryRepresentation(outputType model.OutputType, reps model.Representations) (model.Representation, bool) {
	if len(reps) == 0 {
		return model.Representation{}, false
	}
	priority := primaryMimePriority
	if outputType == model.OutputTypeMultimediaResult {
		priority = resultOutputMimePriority
	}
	for _, mime := range priority {
		if payload, ok := reps.Get(mime); ok {
			return model.Representation{MimeType: mime, Payload: payload}, true
		}
	}
	// None of the known mime types matched; fall back to the first
	// representation in insertion order rather than dropping the output.
	return reps[0], true
}
