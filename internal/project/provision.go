package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fyrsmithlabs/dpx/internal/tree"
)

// DataSpec is the data skeleton every project receives.
func DataSpec() tree.Spec {
	stages := make(tree.Spec, len(Stages))
	for _, s := range Stages {
		stages[s] = tree.Folder(nil)
	}
	return tree.Spec{DataDir: tree.Folder(stages)}
}

// AuxiliarySpec is the documentation, notebook, reference and report
// skeleton of the named project. It includes the lock marker, so a freshly
// provisioned project starts locked.
func AuxiliarySpec(name string) tree.Spec {
	return tree.Spec{
		DocsDir: tree.Folder(tree.Spec{
			"assets":    tree.Folder(nil),
			"notes.txt": tree.File(),
		}),
		NotebooksDir: tree.Folder(tree.Spec{
			NotebookName(name): tree.NotebookFile(),
		}),
		ReferencesDir: tree.Folder(tree.Spec{
			SourcesFile: tree.File(),
		}),
		ReportsDir: tree.Folder(tree.Spec{
			"figures": tree.Folder(nil),
		}),
		ReadmeFile: tree.File(),
		LockFile:   tree.File(),
	}
}

// ProvisionDataFolders creates data/{raw,interim,processed,external}.
func (h *Handle) ProvisionDataFolders() error {
	return tree.Materialize(h.path, DataSpec())
}

// ProvisionDatabaseFolder creates data/db.
func (h *Handle) ProvisionDatabaseFolder() error {
	return tree.Materialize(h.path, tree.Spec{
		DataDir: tree.Folder(tree.Spec{StageDB: tree.Folder(nil)}),
	})
}

// ProvisionAuxiliaryFiles creates the non-data skeleton and locks the
// project. Existing files are left untouched.
func (h *Handle) ProvisionAuxiliaryFiles() error {
	return tree.Materialize(h.path, AuxiliarySpec(h.Name()))
}

// AppendSource appends text and a newline to references/sources.txt,
// creating it if needed. Duplicates are kept.
func (h *Handle) AppendSource(ctx context.Context, text string) error {
	path := h.SourcesPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open sources of %s: %w", h.Name(), err)
	}
	if _, err := f.WriteString(text + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to record source for %s: %w", h.Name(), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to record source for %s: %w", h.Name(), err)
	}

	h.logger.Debug(h.ctx(ctx), "source recorded")
	return nil
}

// AcquireFromURL fetches rawURL into the project's raw and external folders
// and returns the path holding the payload.
func (h *Handle) AcquireFromURL(ctx context.Context, rawURL string) (string, error) {
	if h.fetcher == nil {
		return "", fmt.Errorf("%w: cannot acquire %s", ErrNoFetcher, rawURL)
	}
	return h.fetcher.Fetch(h.ctx(ctx), rawURL, h.RawPath(), h.ExternalPath())
}
