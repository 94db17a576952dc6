package tree

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Materialize creates spec under base. Folders are created before files at
// every level. Existing folders and files are left untouched. There is no
// rollback: entries created before a failure remain on disk.
func Materialize(base string, spec Spec) error {
	if err := Validate(spec); err != nil {
		return err
	}
	if err := os.MkdirAll(base, dirPerm); err != nil {
		return fmt.Errorf("%w: create base %s: %w", ErrFilesystem, base, err)
	}
	return materialize(base, spec)
}

func materialize(dir string, spec Spec) error {
	for _, name := range sortedNames(spec) {
		node := spec[name]
		path := filepath.Join(dir, name)

		if node.folder {
			if err := os.MkdirAll(path, dirPerm); err != nil {
				return fmt.Errorf("%w: create folder %s: %w", ErrFilesystem, path, err)
			}
			if err := materialize(path, node.children); err != nil {
				return err
			}
			continue
		}

		if err := touch(path, node.kind); err != nil {
			return fmt.Errorf("%w: create file %s: %w", ErrFilesystem, path, err)
		}
	}
	return nil
}

// touch creates path exclusively; an existing file is not an error.
func touch(path string, kind FileKind) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}

	if kind == Notebook {
		data, err := emptyNotebook()
		if err != nil {
			f.Close()
			return err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

type notebookCell struct {
	CellType       string         `json:"cell_type"`
	ExecutionCount *int           `json:"execution_count"`
	ID             string         `json:"id"`
	Metadata       map[string]any `json:"metadata"`
	Outputs        []any          `json:"outputs"`
	Source         []string       `json:"source"`
}

type notebookDocument struct {
	Cells         []notebookCell `json:"cells"`
	Metadata      map[string]any `json:"metadata"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
}

// emptyNotebook renders an nbformat 4.5 document with one empty code cell.
func emptyNotebook() ([]byte, error) {
	doc := notebookDocument{
		Cells: []notebookCell{{
			CellType: "code",
			ID:       uuid.New().String()[:8],
			Metadata: map[string]any{},
			Outputs:  []any{},
			Source:   []string{},
		}},
		Metadata:      map[string]any{},
		NBFormat:      4,
		NBFormatMinor: 5,
	}
	data, err := json.MarshalIndent(doc, "", " ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
