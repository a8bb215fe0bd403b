package query

import "github.com/nbsync/notebook-order/internal/model"

// NotebookMetadata layers the canonical defaults on top of whatever
// key/value pairs have actually been set, so callers never have to special
// case an uninitialized notebook.
func NotebookMetadata(s Store) model.NotebookMetadataDefaults {
	defaults := model.DefaultNotebookMetadata()
	stored := s.NotebookMetadata()

	if v, ok := stored["title"]; ok {
		defaults.Title = v
	}
	if v, ok := stored["ownerId"]; ok {
		defaults.OwnerID = v
	}
	if v, ok := stored["runtimeType"]; ok {
		defaults.RuntimeType = v
	}
	if v, ok := stored["isPublic"]; ok {
		defaults.IsPublic = v == "true"
	}
	return defaults
}
