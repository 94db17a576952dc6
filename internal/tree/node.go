package tree

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrInvalidSpec is returned when a spec entry disagrees with its name.
	ErrInvalidSpec = errors.New("invalid directory spec")
	// ErrFilesystem wraps every filesystem failure during materialization.
	ErrFilesystem = errors.New("filesystem error")
)

// FileKind selects the initial content of a file node.
type FileKind int

const (
	// Empty files are created with zero bytes.
	Empty FileKind = iota
	// Notebook files receive a minimal valid notebook document.
	Notebook
)

// NotebookExt is the extension of structured notebook documents.
const NotebookExt = ".ipynb"

// Node is a folder or a file in a Spec.
type Node struct {
	folder   bool
	kind     FileKind
	children Spec
}

// Spec maps entry names to nodes.
type Spec map[string]Node

// Folder returns a folder node. children may be nil.
func Folder(children Spec) Node {
	return Node{folder: true, children: children}
}

// File returns an empty file node.
func File() Node {
	return Node{kind: Empty}
}

// NotebookFile returns a file node holding an empty notebook document.
func NotebookFile() Node {
	return Node{kind: Notebook}
}

// IsFolder reports whether the node is a folder.
func (n Node) IsFolder() bool { return n.folder }

// Kind returns the file kind. Meaningless for folders.
func (n Node) Kind() FileKind { return n.kind }

// Children returns the folder's entries.
func (n Node) Children() Spec { return n.children }

// IsFileName reports whether name denotes a file: it must contain a "."
// followed by a non-empty suffix.
func IsFileName(name string) bool {
	i := strings.LastIndex(name, ".")
	return i >= 0 && i < len(name)-1
}

// Infer returns the node a bare name implies: a file (notebook for
// NotebookExt) or an empty folder.
func Infer(name string) Node {
	if !IsFileName(name) {
		return Folder(nil)
	}
	if strings.EqualFold(filepath.Ext(name), NotebookExt) {
		return NotebookFile()
	}
	return File()
}

// Validate checks every entry of the spec recursively.
func Validate(spec Spec) error {
	return validate("", spec)
}

func validate(prefix string, spec Spec) error {
	for _, name := range sortedNames(spec) {
		node := spec[name]
		rel := filepath.Join(prefix, name)

		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%w: %q is not a single path segment", ErrInvalidSpec, rel)
		}
		if node.folder && IsFileName(name) {
			return fmt.Errorf("%w: %q looks like a file but is declared as a folder", ErrInvalidSpec, rel)
		}
		if !node.folder && !IsFileName(name) {
			return fmt.Errorf("%w: %q has no extension but is declared as a file", ErrInvalidSpec, rel)
		}
		if node.folder {
			if err := validate(rel, node.children); err != nil {
				return err
			}
		}
	}
	return nil
}

// sortedNames returns folders first, then files, each in lexical order.
func sortedNames(spec Spec) []string {
	names := make([]string, 0, len(spec))
	for name := range spec {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		fi, fj := spec[names[i]].folder, spec[names[j]].folder
		if fi != fj {
			return fi
		}
		return names[i] < names[j]
	})
	return names
}
