// Package events defines the versioned event catalog that the materializer
// consumes. Events are append-only, immutable, and replay-safe: a name is
// never reused for a changed argument shape, a new version is added instead.
package events

// Event is the logical envelope every event is carried in: a version-tagged
// Name (e.g. "v2.CellCreated") and its typed Args.
type Event struct {
	Name string
	Args interface{}
}

// New constructs an Event, a small convenience over the struct literal so
// call sites read as `events.New(events.NameCellCreatedV2, args)`.
func New(name string, args interface{}) Event {
	return Event{Name: name, Args: args}
}
