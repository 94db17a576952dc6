// Package registry manages the groups and projects found under a registry
// root.
//
// Directory structure:
//
//	<root>/
//	├── .git/                 ← optional, created by InitRoot
//	├── .gitignore            ← excludes project data payloads
//	├── main/                 ← reserved group
//	│   └── {project}/
//	├── playground/           ← reserved group
//	│   └── ~{temp project}/
//	└── {group}/
//	    └── {project}/
//
// Nothing is cached: every query reads the filesystem. Registries are built
// per invocation from an explicit root and are not safe for concurrent
// mutation across processes.
package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/dpx/internal/logging"
	"github.com/fyrsmithlabs/dpx/internal/project"
)

// Errors for registry operations.
var (
	ErrRootNotFound    = errors.New("registry root not found")
	ErrInvalidGroup    = errors.New("invalid group")
	ErrInvalidProject  = errors.New("invalid project")
	ErrProjectNotFound = errors.New("project not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrReservedName    = errors.New("reserved name")
	ErrInvalidName     = errors.New("invalid name: must be alphanumeric with dots, hyphens or underscores")
	ErrGroupNotEmpty   = errors.New("group not empty")
	ErrProjectLocked   = errors.New("project is locked")
)

// Reserved group names, in listing order.
const (
	MainGroup       = "main"
	PlaygroundGroup = "playground"
)

// ReservedGroups are always listed first, in this order.
var ReservedGroups = []string{MainGroup, PlaygroundGroup}

// ReservedArchives can never be created as groups.
var ReservedArchives = []string{".hidden", ".trash"}

// namePattern validates group and project names. A leading "~" marks a
// temporary project.
var namePattern = regexp.MustCompile(`^~?[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateName checks that name is a single safe path segment.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if len(name) > 255 {
		return fmt.Errorf("%w: name too long (max 255)", ErrInvalidName)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if filepath.Clean(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// isSegment reports whether name refers to a single entry of its parent
// directory. Lookups of existing groups and projects accept any such name;
// ValidateName applies only when creating.
func isSegment(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// ExistsError reports a project name already taken, and by which group.
type ExistsError struct {
	Name  string
	Group string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("project %q already exists in group %q", e.Name, e.Group)
}

// Unwrap makes errors.Is(err, ErrAlreadyExists) hold.
func (e *ExistsError) Unwrap() error { return ErrAlreadyExists }

// Registry bundles the group and project registries of one root.
type Registry struct {
	Groups   *Groups
	Projects *Projects
}

// Option configures a Registry.
type Option func(*options)

type options struct {
	logger  *logging.Logger
	fetcher project.Fetcher
}

// WithLogger sets the logger shared by the registries and their handles.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFetcher sets the dataset fetcher handed to project handles.
func WithFetcher(f project.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// New builds the registries for root.
func New(root string, opts ...Option) *Registry {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.Nop()
	}

	groups := NewGroups(root, o.logger)
	return &Registry{
		Groups:   groups,
		Projects: NewProjects(groups, o.logger, o.fetcher),
	}
}
