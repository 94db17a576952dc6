package project

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_Provision(t *testing.T) {
	h := New(newProjectDir(t))

	require.NoError(t, h.ProvisionDataFolders())
	require.NoError(t, h.ProvisionAuxiliaryFiles())

	for _, dir := range []string{
		"data/raw", "data/interim", "data/processed", "data/external",
		"docs/assets", "reports/figures",
	} {
		assert.DirExists(t, filepath.Join(h.Path(), dir))
	}
	for _, file := range []string{
		"docs/notes.txt", "notebooks/acme-sales.ipynb", "references/sources.txt", "README.md", ".locked",
	} {
		assert.FileExists(t, filepath.Join(h.Path(), file))
	}
	assert.NoDirExists(t, h.DBPath())

	locked, err := h.IsLocked()
	require.NoError(t, err)
	assert.True(t, locked)

	data, err := os.ReadFile(h.NotebookPath())
	require.NoError(t, err)
	var nb map[string]any
	require.NoError(t, json.Unmarshal(data, &nb))
	assert.EqualValues(t, 4, nb["nbformat"])
}

func TestHandle_ProvisionKeepsExistingContent(t *testing.T) {
	h := New(newProjectDir(t))
	require.NoError(t, os.WriteFile(filepath.Join(h.Path(), ReadmeFile), []byte("# Acme\n"), 0644))

	require.NoError(t, h.ProvisionAuxiliaryFiles())

	data, err := os.ReadFile(filepath.Join(h.Path(), ReadmeFile))
	require.NoError(t, err)
	assert.Equal(t, "# Acme\n", string(data))
}

func TestHandle_ProvisionDatabaseFolder(t *testing.T) {
	h := New(newProjectDir(t))
	require.NoError(t, h.ProvisionDatabaseFolder())
	assert.DirExists(t, h.DBPath())
}

func TestHandle_AppendSource(t *testing.T) {
	ctx := context.Background()
	h := New(newProjectDir(t))
	const url = "https://platform.example/datasets/alice/widgets"

	require.NoError(t, h.AppendSource(ctx, url))
	require.NoError(t, h.AppendSource(ctx, url))

	data, err := os.ReadFile(h.SourcesPath())
	require.NoError(t, err)
	assert.Equal(t, url+"\n"+url+"\n", string(data))
}
