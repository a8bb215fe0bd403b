package importer

import "encoding/json"

// Notebook is the subset of Jupyter nbformat 4 this importer consumes:
// {cells[], metadata, nbformat, nbformat_minor}.
type Notebook struct {
	Cells         []NotebookCell `json:"cells"`
	Metadata      NotebookMeta   `json:"metadata"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
}

// NotebookMeta is the metadata object nbformat 4 attaches to a notebook.
// Only the fields this importer maps to NotebookMetadataSet events are
// modeled explicitly.
type NotebookMeta struct {
	KernelSpec *KernelSpec `json:"kernelspec,omitempty"`
}

// KernelSpec names the language and display name of the kernel a notebook
// was authored against.
type KernelSpec struct {
	DisplayName string `json:"display_name,omitempty"`
	Language    string `json:"language,omitempty"`
}

// NotebookCell is one entry in Notebook.Cells. Source and the outputs'
// per-field text may be encoded as either a single string or an array of
// line fragments, per nbformat 4; MultilineString absorbs that ambiguity.
type NotebookCell struct {
	CellType       string           `json:"cell_type"`
	Source         MultilineString  `json:"source"`
	Metadata       json.RawMessage  `json:"metadata,omitempty"`
	ExecutionCount *int             `json:"execution_count,omitempty"`
	Outputs        []NotebookOutput `json:"outputs,omitempty"`
}

// NotebookOutput is one entry in NotebookCell.Outputs, nbformat 4's tagged
// union over output_type.
type NotebookOutput struct {
	OutputType     string                     `json:"output_type"`
	Name           string                     `json:"name,omitempty"`
	Text           MultilineString            `json:"text,omitempty"`
	Data           map[string]MultilineString `json:"data,omitempty"`
	ExecutionCount *int                       `json:"execution_count,omitempty"`
	EName          string                     `json:"ename,omitempty"`
	EValue         string                     `json:"evalue,omitempty"`
	Traceback      []string                   `json:"traceback,omitempty"`
}

// MultilineString unmarshals either a JSON string or a JSON array of
// strings (nbformat 4's "source" convention) into a single joined string.
type MultilineString string

// UnmarshalJSON implements json.Unmarshaler for MultilineString.
func (m *MultilineString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = MultilineString(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	joined := ""
	for _, l := range lines {
		joined += l
	}
	*m = MultilineString(joined)
	return nil
}

// String returns the joined text.
func (m MultilineString) String() string {
	return string(m)
}
