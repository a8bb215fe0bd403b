package tables

import (
	"sort"
	"sync"

	"github.com/nbsync/notebook-order/internal/model"
)

// Store is an in-memory reference implementation of the table rows the
// materializer writes. It is the backing store the materializer's own tests
// replay against, and it satisfies query.Store (and the narrower
// query.Handle the materializer consults mid-reduce) by duck typing: nothing
// in this package imports package query, keeping the dependency edge
// pointed the other way.
type Store struct {
	mu sync.RWMutex

	cells             map[string]model.Cell
	outputs           map[string]model.Output
	outputDeltas      map[string][]model.OutputDelta
	pendingClears     map[string]model.PendingClear
	runtimeSessions   map[string]model.RuntimeSession
	executionQueue    map[string]model.ExecutionQueueEntry
	presence          map[string]model.Presence
	actors            map[string]model.Actor
	toolApprovals     map[string]model.ToolApproval
	uiState           map[string]interface{}
	notebookMetadata  map[string]string
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		cells:            make(map[string]model.Cell),
		outputs:          make(map[string]model.Output),
		outputDeltas:     make(map[string][]model.OutputDelta),
		pendingClears:    make(map[string]model.PendingClear),
		runtimeSessions:  make(map[string]model.RuntimeSession),
		executionQueue:   make(map[string]model.ExecutionQueueEntry),
		presence:         make(map[string]model.Presence),
		actors:           make(map[string]model.Actor),
		toolApprovals:    make(map[string]model.ToolApproval),
		uiState:          make(map[string]interface{}),
		notebookMetadata: make(map[string]string),
	}
}

// Apply applies ops in order, within a single write lock. A later op in the
// same batch observes the effects of earlier ones.
func (s *Store) Apply(ops []Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range ops {
		s.applyOne(op)
	}
	return nil
}

func (s *Store) applyOne(op Op) {
	switch o := op.(type) {
	case UpsertCell:
		s.cells[o.Cell.ID] = o.Cell
	case UpdateCell:
		c, ok := s.cells[o.ID]
		if !ok {
			return
		}
		applyCellFields(&c, o.Fields)
		s.cells[o.ID] = c
	case DeleteCell:
		delete(s.cells, o.ID)
	case UpsertOutput:
		s.outputs[o.Output.ID] = o.Output
	case UpdateOutputRepresentation:
		for id, out := range s.outputs {
			if out.DisplayID == nil || *out.DisplayID != o.DisplayID {
				continue
			}
			out.Representations = o.Representations.Clone()
			out.Data = o.Data
			out.MimeType = o.MimeType
			s.outputs[id] = out
		}
	case DeleteOutputsForCell:
		for id, out := range s.outputs {
			if out.CellID == o.CellID {
				delete(s.outputs, id)
				delete(s.outputDeltas, id)
			}
		}
	case UpsertOutputDelta:
		s.outputDeltas[o.Delta.OutputID] = append(s.outputDeltas[o.Delta.OutputID], o.Delta)
	case AppendTerminalData:
		out, ok := s.outputs[o.OutputID]
		if !ok {
			return
		}
		merged := ""
		if out.Data != nil {
			merged = *out.Data
		}
		merged += o.Delta
		out.Data = &merged
		s.outputs[o.OutputID] = out
	case UpsertPendingClear:
		s.pendingClears[o.PendingClear.CellID] = o.PendingClear
	case DeletePendingClear:
		delete(s.pendingClears, o.CellID)
	case UpsertRuntimeSession:
		s.runtimeSessions[o.Session.SessionID] = o.Session
	case UpdateRuntimeSession:
		rs, ok := s.runtimeSessions[o.SessionID]
		if !ok {
			return
		}
		if o.Fields.Status != nil {
			rs.Status = *o.Fields.Status
		}
		if o.Fields.IsActive != nil {
			rs.IsActive = *o.Fields.IsActive
		}
		s.runtimeSessions[o.SessionID] = rs
	case UpsertExecutionQueueEntry:
		s.executionQueue[o.Entry.ID] = o.Entry
	case UpdateExecutionQueueEntry:
		e, ok := s.executionQueue[o.ID]
		if !ok {
			return
		}
		applyQueueFields(&e, o.Fields)
		s.executionQueue[o.ID] = e
	case UpsertPresence:
		s.presence[o.Presence.UserID] = o.Presence
	case UpsertActor:
		s.actors[o.Actor.ID] = o.Actor
	case UpsertNotebookMetadata:
		s.notebookMetadata[o.Key] = o.Value
	case UpsertToolApproval:
		s.toolApprovals[o.Approval.ID] = o.Approval
	case UpdateToolApproval:
		a, ok := s.toolApprovals[o.ID]
		if !ok {
			return
		}
		a.Status = o.Status
		respondedBy := o.RespondedBy
		a.RespondedBy = &respondedBy
		s.toolApprovals[o.ID] = a
	case UpsertUiState:
		s.uiState[o.State.Key] = o.State.Value
	}
}

func applyCellFields(c *model.Cell, f CellFields) {
	if f.Source != nil {
		c.Source = *f.Source
	}
	if f.CellType != nil {
		c.CellType = *f.CellType
	}
	if f.FractionalIndex != nil {
		c.FractionalIndex = *f.FractionalIndex
	}
	if f.ExecutionCount != nil {
		c.ExecutionCount = *f.ExecutionCount
	}
	if f.ExecutionState != nil {
		c.ExecutionState = *f.ExecutionState
	}
	if f.AssignedRuntimeSession != nil {
		c.AssignedRuntimeSession = *f.AssignedRuntimeSession
	}
	if f.SQLConnectionID != nil {
		c.SQLConnectionID = *f.SQLConnectionID
	}
	if f.SQLResultVariable != nil {
		c.SQLResultVariable = *f.SQLResultVariable
	}
	if f.AIProvider != nil {
		c.AIProvider = *f.AIProvider
	}
	if f.AIModel != nil {
		c.AIModel = *f.AIModel
	}
	if f.AISettings != nil {
		c.AISettings = *f.AISettings
	}
	if f.SourceVisible != nil {
		c.SourceVisible = *f.SourceVisible
	}
	if f.OutputVisible != nil {
		c.OutputVisible = *f.OutputVisible
	}
	if f.AIContextVisible != nil {
		c.AIContextVisible = *f.AIContextVisible
	}
	if f.LastExecutionDurationMs != nil {
		c.LastExecutionDurationMs = *f.LastExecutionDurationMs
	}
}

func applyQueueFields(e *model.ExecutionQueueEntry, f ExecutionQueueFields) {
	if f.Status != nil {
		e.Status = *f.Status
	}
	if f.AssignedRuntimeSession != nil {
		e.AssignedRuntimeSession = *f.AssignedRuntimeSession
	}
	if f.StartedAt != nil {
		e.StartedAt = *f.StartedAt
	}
	if f.CompletedAt != nil {
		e.CompletedAt = *f.CompletedAt
	}
	if f.ExecutionDurationMs != nil {
		e.ExecutionDurationMs = *f.ExecutionDurationMs
	}
}

// --- read accessors: the query.Store / query.Handle surface ---

// Cells returns every cell row, in no particular order; callers that care
// about ordering use package query.
func (s *Store) Cells() []model.Cell {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Cell, 0, len(s.cells))
	for _, c := range s.cells {
		out = append(out, c)
	}
	return out
}

// Cell looks up a single cell by id.
func (s *Store) Cell(id string) (model.Cell, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cells[id]
	return c, ok
}

// OutputsForCell returns every output row belonging to cellID, unsorted.
func (s *Store) OutputsForCell(cellID string) []model.Output {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Output
	for _, o := range s.outputs {
		if o.CellID == cellID {
			out = append(out, o)
		}
	}
	return out
}

// Output looks up a single output by id.
func (s *Store) Output(outputID string) (model.Output, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.outputs[outputID]
	return o, ok
}

// OutputsByDisplayID returns every output row sharing displayID, across
// every cell: MultimediaDisplayOutputUpdated is not scoped to one cell.
func (s *Store) OutputsByDisplayID(displayID string) []model.Output {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Output
	for _, o := range s.outputs {
		if o.DisplayID != nil && *o.DisplayID == displayID {
			out = append(out, o)
		}
	}
	return out
}

// OutputDeltasForOutput returns every delta row for outputID, unsorted.
func (s *Store) OutputDeltasForOutput(outputID string) []model.OutputDelta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deltas := s.outputDeltas[outputID]
	out := make([]model.OutputDelta, len(deltas))
	copy(out, deltas)
	return out
}

// PendingClear returns the pending-clear marker for cellID, if any.
func (s *Store) PendingClear(cellID string) (model.PendingClear, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pc, ok := s.pendingClears[cellID]
	return pc, ok
}

// ExecutionQueueForCell returns every queue entry for cellID, unsorted.
func (s *Store) ExecutionQueueForCell(cellID string) []model.ExecutionQueueEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.ExecutionQueueEntry
	for _, e := range s.executionQueue {
		if e.CellID == cellID {
			out = append(out, e)
		}
	}
	return out
}

// ExecutionQueueEntry looks up a single queue entry by id.
func (s *Store) ExecutionQueueEntry(id string) (model.ExecutionQueueEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.executionQueue[id]
	return e, ok
}

// RuntimeSessions returns every runtime session row, unsorted.
func (s *Store) RuntimeSessions() []model.RuntimeSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.RuntimeSession, 0, len(s.runtimeSessions))
	for _, rs := range s.runtimeSessions {
		out = append(out, rs)
	}
	return out
}

// RuntimeSession looks up a single runtime session by id.
func (s *Store) RuntimeSession(sessionID string) (model.RuntimeSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.runtimeSessions[sessionID]
	return rs, ok
}

// Presences returns every presence row, unsorted.
func (s *Store) Presences() []model.Presence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Presence, 0, len(s.presence))
	for _, p := range s.presence {
		out = append(out, p)
	}
	return out
}

// Actors returns every actor row, unsorted.
func (s *Store) Actors() []model.Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Actor, 0, len(s.actors))
	for _, a := range s.actors {
		out = append(out, a)
	}
	return out
}

// Actor looks up a single actor by id.
func (s *Store) Actor(id string) (model.Actor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.actors[id]
	return a, ok
}

// ToolApproval looks up a single tool-approval row by id.
func (s *Store) ToolApproval(id string) (model.ToolApproval, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.toolApprovals[id]
	return a, ok
}

// ToolApprovalsForCell returns every tool-approval row for cellID, unsorted.
func (s *Store) ToolApprovalsForCell(cellID string) []model.ToolApproval {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.ToolApproval
	for _, a := range s.toolApprovals {
		if a.CellID == cellID {
			out = append(out, a)
		}
	}
	return out
}

// UiState returns every UI state entry as a plain map.
func (s *Store) UiState() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]interface{}, len(s.uiState))
	for k, v := range s.uiState {
		out[k] = v
	}
	return out
}

// NotebookMetadata returns the raw stored key/value pairs, with no defaults
// applied; package query layers DefaultNotebookMetadata on top.
func (s *Store) NotebookMetadata() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.notebookMetadata))
	for k, v := range s.notebookMetadata {
		out[k] = v
	}
	return out
}

// SortedCellIDs is a small test/debug helper returning cell ids in index
// order; production ordering lives in package query.
func (s *Store) SortedCellIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.cells))
	for id := range s.cells {
		ids = append(ids, id)
	}
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := s.cells[ids[i]], s.cells[ids[j]]
		if a.FractionalIndex == b.FractionalIndex {
			return a.ID < b.ID
		}
		return a.FractionalIndex < b.FractionalIndex
	})
	return ids
}
