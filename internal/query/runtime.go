package query

import (
	"sort"

	"github.com/nbsync/notebook-order/internal/model"
)

// ExecutionQueueForCell returns a cell's queue entries sorted by ID
// descending, so the most recently requested execution sorts first.
func ExecutionQueueForCell(s Store, cellID string) []model.ExecutionQueueEntry {
	entries := s.ExecutionQueueForCell(cellID)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ID > entries[j].ID
	})
	return entries
}

// PendingExecutionsForCell narrows ExecutionQueueForCell to entries still
// awaiting or undergoing execution.
func PendingExecutionsForCell(s Store, cellID string) []model.ExecutionQueueEntry {
	entries := ExecutionQueueForCell(s, cellID)
	var out []model.ExecutionQueueEntry
	for _, e := range entries {
		switch e.Status {
		case model.ExecutionQueuePending, model.ExecutionQueueAssigned, model.ExecutionQueueExecuting:
			out = append(out, e)
		}
	}
	return out
}

// RuntimeSessions returns every runtime session sorted by SessionID
// descending.
func RuntimeSessions(s Store) []model.RuntimeSession {
	sessions := s.RuntimeSessions()
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].SessionID > sessions[j].SessionID
	})
	return sessions
}

// ActiveRuntimeSessions narrows RuntimeSessions to sessions still marked
// active.
func ActiveRuntimeSessions(s Store) []model.RuntimeSession {
	sessions := RuntimeSessions(s)
	var out []model.RuntimeSession
	for _, rs := range sessions {
		if rs.IsActive {
			out = append(out, rs)
		}
	}
	return out
}

// Presences returns every presence row sorted by UserID ascending.
func Presences(s Store) []model.Presence {
	presences := s.Presences()
	sort.SliceStable(presences, func(i, j int) bool {
		return presences[i].UserID < presences[j].UserID
	})
	return presences
}

// Actors returns every actor row sorted by ID ascending.
func Actors(s Store) []model.Actor {
	actors := s.Actors()
	sort.SliceStable(actors, func(i, j int) bool {
		return actors[i].ID < actors[j].ID
	})
	return actors
}
