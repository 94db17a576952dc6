package tree

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectSpec() Spec {
	return Spec{
		"data": Folder(Spec{
			"raw":     Folder(nil),
			"interim": Folder(nil),
		}),
		"docs": Folder(Spec{
			"assets":    Folder(nil),
			"notes.txt": File(),
		}),
		"notebooks": Folder(Spec{
			"demo.ipynb": NotebookFile(),
		}),
		"README.md": File(),
	}
}

func TestMaterialize_CreatesTree(t *testing.T) {
	base := filepath.Join(t.TempDir(), "demo")

	require.NoError(t, Materialize(base, projectSpec()))

	for _, dir := range []string{"data/raw", "data/interim", "docs/assets", "notebooks"} {
		info, err := os.Stat(filepath.Join(base, dir))
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}

	notes, err := os.ReadFile(filepath.Join(base, "docs", "notes.txt"))
	require.NoError(t, err)
	assert.Empty(t, notes)

	readme, err := os.Stat(filepath.Join(base, "README.md"))
	require.NoError(t, err)
	assert.False(t, readme.IsDir())
}

func TestMaterialize_NotebookDocument(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, Materialize(base, projectSpec()))

	data, err := os.ReadFile(filepath.Join(base, "notebooks", "demo.ipynb"))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.EqualValues(t, 4, doc["nbformat"])
	assert.EqualValues(t, 5, doc["nbformat_minor"])

	cells, ok := doc["cells"].([]any)
	require.True(t, ok)
	require.Len(t, cells, 1)
	cell := cells[0].(map[string]any)
	assert.Equal(t, "code", cell["cell_type"])
	assert.Nil(t, cell["execution_count"])
	assert.Len(t, cell["id"], 8)
	assert.Empty(t, cell["source"])
	assert.Empty(t, cell["outputs"])
}

func TestMaterialize_Idempotent(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, Materialize(base, projectSpec()))

	notesPath := filepath.Join(base, "docs", "notes.txt")
	require.NoError(t, os.WriteFile(notesPath, []byte("keep me"), 0o644))
	nbPath := filepath.Join(base, "notebooks", "demo.ipynb")
	before, err := os.ReadFile(nbPath)
	require.NoError(t, err)
	extra := filepath.Join(base, "data", "raw", "sales.csv")
	require.NoError(t, os.WriteFile(extra, []byte("a,b\n"), 0o644))

	require.NoError(t, Materialize(base, projectSpec()))

	notes, err := os.ReadFile(notesPath)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(notes))

	after, err := os.ReadFile(nbPath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "notebook must not be rewritten")

	_, err = os.Stat(extra)
	assert.NoError(t, err, "unrelated files must survive")
}

func TestMaterialize_InvalidSpecTouchesNothing(t *testing.T) {
	base := filepath.Join(t.TempDir(), "never")

	err := Materialize(base, Spec{"ok": Folder(nil), "bad": File()})
	require.ErrorIs(t, err, ErrInvalidSpec)

	_, statErr := os.Stat(base)
	assert.True(t, os.IsNotExist(statErr))
}

func TestMaterialize_FilesystemErrorKeepsSiblings(t *testing.T) {
	base := t.TempDir()
	// a file where a folder is expected blocks "docs/..."
	require.NoError(t, os.WriteFile(filepath.Join(base, "docs"), nil, 0o644))

	err := Materialize(base, projectSpec())
	require.ErrorIs(t, err, ErrFilesystem)
	assert.Contains(t, err.Error(), "docs")

	// "data" sorts before "docs" and stays on disk
	info, statErr := os.Stat(filepath.Join(base, "data", "raw"))
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}
