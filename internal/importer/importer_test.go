package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbsync/notebook-order/internal/events"
)

func TestImportSmallNotebook(t *testing.T) {
	nb := Notebook{
		Cells: []NotebookCell{
			{CellType: "markdown", Source: "# T"},
			{
				CellType: "code",
				Source:   "print('x')",
				Outputs: []NotebookOutput{
					{OutputType: "stream", Name: "stdout", Text: "x"},
				},
			},
		},
	}

	evts, err := ImportNotebook(nb, Options{
		ActorID:    "actor-1",
		ImportedAt: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, evts, 8)

	names := make([]string, len(evts))
	for i, ev := range evts {
		names[i] = ev.Name
	}
	assert.Equal(t, []string{
		events.NameActorProfileSet,
		events.NameNotebookTitleChanged,
		events.NameCellCreatedV2,
		events.NameCellSourceChanged,
		events.NameCellCreatedV2,
		events.NameCellSourceChanged,
		events.NameCellOutputsCleared,
		events.NameTerminalOutputAdded,
	}, names)

	markdownCreated := evts[2].Args.(events.CellCreatedV2Args)
	assert.Equal(t, "markdown", string(markdownCreated.CellType))

	codeCreated := evts[4].Args.(events.CellCreatedV2Args)
	assert.Equal(t, "code", string(codeCreated.CellType))
	assert.Greater(t, codeCreated.FractionalIndex, markdownCreated.FractionalIndex)

	sourceChanged := evts[3].Args.(events.CellSourceChangedArgs)
	assert.Equal(t, "# T", sourceChanged.Source)

	cleared := evts[6].Args.(events.CellOutputsClearedArgs)
	assert.False(t, cleared.Wait)

	term := evts[7].Args.(events.TerminalOutputAddedArgs)
	assert.Equal(t, "stdout", term.StreamName)
	assert.Equal(t, "x", term.Content.Data)
}

func TestImportHonorsKernelSpecMetadata(t *testing.T) {
	nb := Notebook{
		Metadata: NotebookMeta{KernelSpec: &KernelSpec{DisplayName: "Python 3", Language: "python"}},
		Cells:    []NotebookCell{{CellType: "markdown", Source: "hi"}},
	}
	evts, err := ImportNotebook(nb, Options{ActorID: "a", ImportedAt: time.Now()})
	require.NoError(t, err)

	var sawDisplayName, sawLanguage bool
	for _, ev := range evts {
		if ev.Name != events.NameNotebookMetadataSet {
			continue
		}
		args := ev.Args.(events.NotebookMetadataSetArgs)
		if args.Key == "kernelspec_display_name" && args.Value == "Python 3" {
			sawDisplayName = true
		}
		if args.Key == "language" && args.Value == "python" {
			sawLanguage = true
		}
	}
	assert.True(t, sawDisplayName)
	assert.True(t, sawLanguage)
}

func TestMultilineStringJoinsArray(t *testing.T) {
	var m MultilineString
	err := m.UnmarshalJSON([]byte(`["line1\n", "line2"]`))
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2", m.String())
}
