package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/fyrsmithlabs/dpx/internal/logging"
)

// Groups answers questions about the groups under a root.
type Groups struct {
	root   string
	logger *logging.Logger
}

// NewGroups creates a group registry over root.
func NewGroups(root string, logger *logging.Logger) *Groups {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Groups{root: filepath.Clean(root), logger: logger}
}

// Root returns the registry root.
func (g *Groups) Root() string { return g.root }

// Path returns the directory of the named group. The group need not exist.
func (g *Groups) Path(name string) string {
	return filepath.Join(g.root, name)
}

// IsGroup reports whether path is an immediate, non-hidden child directory
// of the root.
func (g *Groups) IsGroup(path string) bool {
	path = filepath.Clean(path)
	if filepath.Dir(path) != g.root || strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// List returns the reserved groups that exist, in fixed order, followed by
// every other group in lexical order.
func (g *Groups) List() ([]string, error) {
	entries, err := os.ReadDir(g.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, g.root)
		}
		return nil, fmt.Errorf("failed to read registry root: %w", err)
	}

	present := make(map[string]bool, len(entries))
	var others []string
	for _, e := range entries {
		name := e.Name()
		if !g.IsGroup(filepath.Join(g.root, name)) {
			continue
		}
		present[name] = true
		if !slices.Contains(ReservedGroups, name) {
			others = append(others, name)
		}
	}
	sort.Strings(others)

	groups := make([]string, 0, len(present))
	for _, name := range ReservedGroups {
		if present[name] {
			groups = append(groups, name)
		}
	}
	return append(groups, others...), nil
}

// Verify fails with ErrInvalidGroup unless name is an existing group.
func (g *Groups) Verify(name string) error {
	if !isSegment(name) || !g.IsGroup(g.Path(name)) {
		return fmt.Errorf("%w: %q is not a group under %s", ErrInvalidGroup, name, g.root)
	}
	return nil
}

// IsReserved reports whether name is a reserved group or archive.
func IsReserved(name string) bool {
	return slices.Contains(ReservedGroups, name) || slices.Contains(ReservedArchives, name)
}

// CanCreate checks that a group called name could be created.
func (g *Groups) CanCreate(name string) error {
	if IsReserved(name) {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if strings.HasPrefix(name, "~") {
		return fmt.Errorf("%w: group %q cannot use the temporary prefix", ErrInvalidName, name)
	}
	if _, err := os.Lstat(g.Path(name)); err == nil {
		return fmt.Errorf("%w: group %q", ErrAlreadyExists, name)
	}
	return nil
}

// Create makes a new group directory.
func (g *Groups) Create(ctx context.Context, name string) error {
	if err := g.CanCreate(name); err != nil {
		return err
	}
	if _, err := os.Stat(g.root); err != nil {
		return fmt.Errorf("%w: %s", ErrRootNotFound, g.root)
	}
	if err := os.Mkdir(g.Path(name), 0755); err != nil {
		return fmt.Errorf("failed to create group %q: %w", name, err)
	}

	g.logger.Info(logging.WithGroup(ctx, name), "group created")
	return nil
}

// Remove deletes an empty, non-reserved group.
func (g *Groups) Remove(ctx context.Context, name string) error {
	if slices.Contains(ReservedGroups, name) {
		return fmt.Errorf("%w: group %q cannot be removed", ErrReservedName, name)
	}
	if err := g.Verify(name); err != nil {
		return err
	}

	n, err := g.countProjects(name)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: group %q holds %d project(s)", ErrGroupNotEmpty, name, n)
	}

	// Only stray files remain at this point.
	if err := os.RemoveAll(g.Path(name)); err != nil {
		return fmt.Errorf("failed to remove group %q: %w", name, err)
	}

	g.logger.Info(logging.WithGroup(ctx, name), "group removed")
	return nil
}

func (g *Groups) countProjects(name string) (int, error) {
	entries, err := os.ReadDir(g.Path(name))
	if err != nil {
		return 0, fmt.Errorf("failed to read group %q: %w", name, err)
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			n++
		}
	}
	return n, nil
}
