package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fyrsmithlabs/dpx/internal/logging"
	"github.com/fyrsmithlabs/dpx/internal/project"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// tempNameLength is the number of random characters after the "~".
const tempNameLength = 6

// Projects answers questions about projects across all groups. Project
// names are unique across the whole root, so every lookup is by name alone.
type Projects struct {
	groups  *Groups
	logger  *logging.Logger
	fetcher project.Fetcher
}

// NewProjects creates a project registry over groups. fetcher may be nil.
func NewProjects(groups *Groups, logger *logging.Logger, fetcher project.Fetcher) *Projects {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Projects{groups: groups, logger: logger, fetcher: fetcher}
}

// TempName returns a fresh temporary project name: "~" followed by six
// lowercase alphanumeric characters.
func TempName() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return project.TempPrefix + hex[:tempNameLength]
}

// ListPaths returns the project directories of the given groups. Within
// each group temporary projects come first, then the others, each sorted
// by name. A nil groups slice means every group.
func (p *Projects) ListPaths(groups []string, includeTemps, includeNonTemps bool) ([]string, error) {
	if groups == nil {
		all, err := p.groups.List()
		if err != nil {
			return nil, err
		}
		groups = all
	}

	var paths []string
	for _, g := range groups {
		if err := p.groups.Verify(g); err != nil {
			return nil, err
		}

		entries, err := os.ReadDir(p.groups.Path(g))
		if err != nil {
			return nil, fmt.Errorf("failed to read group %q: %w", g, err)
		}

		var temps, others []string
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if project.IsTemporary(e.Name()) {
				temps = append(temps, e.Name())
			} else {
				others = append(others, e.Name())
			}
		}
		sort.Strings(temps)
		sort.Strings(others)

		if includeTemps {
			for _, name := range temps {
				paths = append(paths, filepath.Join(p.groups.Path(g), name))
			}
		}
		if includeNonTemps {
			for _, name := range others {
				paths = append(paths, filepath.Join(p.groups.Path(g), name))
			}
		}
	}
	return paths, nil
}

// List is ListPaths projected to project names.
func (p *Projects) List(groups []string, includeTemps, includeNonTemps bool) ([]string, error) {
	paths, err := p.ListPaths(groups, includeTemps, includeNonTemps)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(paths))
	for i, path := range paths {
		names[i] = filepath.Base(path)
	}
	return names, nil
}

// All returns every project directory in every group.
func (p *Projects) All() ([]string, error) {
	return p.ListPaths(nil, true, true)
}

// find returns the group holding a project called name, or "".
func (p *Projects) find(name string) (string, error) {
	if !isSegment(name) {
		return "", nil
	}
	groups, err := p.groups.List()
	if err != nil {
		return "", err
	}
	for _, g := range groups {
		info, err := os.Stat(filepath.Join(p.groups.Path(g), name))
		if err == nil && info.IsDir() {
			return g, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to check project %q: %w", name, err)
		}
	}
	return "", nil
}

// Verify fails with ErrInvalidProject unless a project called name exists.
func (p *Projects) Verify(name string) error {
	g, err := p.find(name)
	if err != nil {
		return err
	}
	if g == "" {
		return fmt.Errorf("%w: no project named %q", ErrInvalidProject, name)
	}
	return nil
}

// ResolveGroup returns the group owning the project called name.
func (p *Projects) ResolveGroup(name string) (string, error) {
	g, err := p.find(name)
	if err != nil {
		return "", err
	}
	if g == "" {
		return "", fmt.Errorf("%w: %q", ErrProjectNotFound, name)
	}
	return g, nil
}

// CanCreate checks that name is free in every group. Temporary names are
// allowed with a warning.
func (p *Projects) CanCreate(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	g, err := p.find(name)
	if err != nil {
		return err
	}
	if g != "" {
		return &ExistsError{Name: name, Group: g}
	}
	if project.IsTemporary(name) {
		p.logger.Warn(ctx, "creating a temporary project; it may be cleaned up at any time",
			zap.String("project", name))
	}
	return nil
}

// Create makes, provisions and locks a new project in group.
func (p *Projects) Create(ctx context.Context, group, name string) (*project.Handle, error) {
	if err := p.groups.Verify(group); err != nil {
		return nil, err
	}
	if err := p.CanCreate(ctx, name); err != nil {
		return nil, err
	}

	path := filepath.Join(p.groups.Path(group), name)
	if err := os.Mkdir(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create project %q in group %q: %w", name, group, err)
	}

	h := p.handle(path)
	if err := h.ProvisionDataFolders(); err != nil {
		return h, err
	}
	if err := h.ProvisionAuxiliaryFiles(); err != nil {
		return h, err
	}

	p.logger.Info(logging.WithProject(ctx, group, name), "project created")
	return h, nil
}

// Open returns a handle for the existing project called name.
func (p *Projects) Open(name string) (*project.Handle, error) {
	g, err := p.ResolveGroup(name)
	if err != nil {
		return nil, err
	}
	return p.handle(filepath.Join(p.groups.Path(g), name)), nil
}

func (p *Projects) handle(path string) *project.Handle {
	opts := []project.Option{project.WithLogger(p.logger)}
	if p.fetcher != nil {
		opts = append(opts, project.WithFetcher(p.fetcher))
	}
	return project.New(path, opts...)
}

// openUnlocked opens name and fails with ErrProjectLocked if it is locked.
func (p *Projects) openUnlocked(name string) (*project.Handle, error) {
	h, err := p.Open(name)
	if err != nil {
		return nil, err
	}
	locked, err := h.IsLocked()
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, fmt.Errorf("%w: unlock %q in group %q first", ErrProjectLocked, name, h.Group())
	}
	return h, nil
}

// Remove deletes an unlocked project and everything in it.
func (p *Projects) Remove(ctx context.Context, name string) error {
	h, err := p.openUnlocked(name)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(h.Path()); err != nil {
		return fmt.Errorf("failed to remove project %q: %w", name, err)
	}

	p.logger.Info(logging.WithProject(ctx, h.Group(), name), "project removed")
	return nil
}

// Move relocates an unlocked project to another group, keeping its name.
func (p *Projects) Move(ctx context.Context, name, group string) error {
	h, err := p.openUnlocked(name)
	if err != nil {
		return err
	}
	if err := p.groups.Verify(group); err != nil {
		return err
	}

	ctx = logging.WithProject(ctx, h.Group(), name)
	if h.Group() == group {
		p.logger.Info(ctx, "project already in target group")
		return nil
	}

	dest := filepath.Join(p.groups.Path(group), name)
	if err := os.Rename(h.Path(), dest); err != nil {
		return fmt.Errorf("failed to move project %q to group %q: %w", name, group, err)
	}

	p.logger.Info(ctx, "project moved", zap.String("to", group))
	return nil
}

// Rename gives an unlocked project a new, globally unique name and renames
// its notebook to match.
func (p *Projects) Rename(ctx context.Context, name, newName string) error {
	h, err := p.openUnlocked(name)
	if err != nil {
		return err
	}
	if err := p.CanCreate(ctx, newName); err != nil {
		return err
	}

	dest := filepath.Join(filepath.Dir(h.Path()), newName)
	if err := os.Rename(h.Path(), dest); err != nil {
		return fmt.Errorf("failed to rename project %q to %q: %w", name, newName, err)
	}

	renamed := p.handle(dest)
	oldNotebook := filepath.Join(renamed.Path(), project.NotebooksDir, project.NotebookName(name))
	if err := os.Rename(oldNotebook, renamed.NotebookPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to rename notebook of %q: %w", newName, err)
	}

	p.logger.Info(logging.WithProject(ctx, h.Group(), newName), "project renamed", zap.String("from", name))
	return nil
}
