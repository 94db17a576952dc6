package project

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/fyrsmithlabs/dpx/internal/logging"
	"github.com/fyrsmithlabs/dpx/internal/tree"
)

// TempPrefix marks a project name as temporary.
const TempPrefix = "~"

// Names of entries inside a project directory.
const (
	LockFile      = ".locked"
	ReadmeFile    = "README.md"
	DataDir       = "data"
	DocsDir       = "docs"
	NotebooksDir  = "notebooks"
	ReferencesDir = "references"
	ReportsDir    = "reports"
	SourcesFile   = "sources.txt"
)

// Data stages under DataDir.
const (
	StageRaw       = "raw"
	StageInterim   = "interim"
	StageProcessed = "processed"
	StageExternal  = "external"
	StageDB        = "db"
)

// Stages lists the data stages provisioned for every project, in display
// order.
var Stages = []string{StageRaw, StageInterim, StageProcessed, StageExternal}

// ErrNoFetcher is returned by AcquireFromURL on a handle built without
// WithFetcher.
var ErrNoFetcher = errors.New("no dataset fetcher configured")

// Fetcher acquires a remote dataset into a project's data folders.
// *source.Dispatcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL, rawDest, externalDest string) (string, error)
}

// Handle operates on one project directory.
type Handle struct {
	path    string
	fetcher Fetcher
	logger  *logging.Logger
}

// Option configures a Handle.
type Option func(*Handle)

// WithFetcher sets the dataset fetcher used by AcquireFromURL.
func WithFetcher(f Fetcher) Option {
	return func(h *Handle) { h.fetcher = f }
}

// WithLogger sets the handle's logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Handle) { h.logger = l }
}

// New returns a handle for the project at path. The directory is not
// touched.
func New(path string, opts ...Option) *Handle {
	h := &Handle{path: filepath.Clean(path)}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logging.Nop()
	}
	return h
}

// IsTemporary reports whether name denotes a temporary project.
func IsTemporary(name string) bool {
	return strings.HasPrefix(name, TempPrefix)
}

// Name returns the project name.
func (h *Handle) Name() string { return filepath.Base(h.path) }

// Group returns the owning group name.
func (h *Handle) Group() string { return filepath.Base(filepath.Dir(h.path)) }

// Path returns the project directory.
func (h *Handle) Path() string { return h.path }

// IsTemporary reports whether the project is temporary.
func (h *Handle) IsTemporary() bool { return IsTemporary(h.Name()) }

// DataPath returns the folder holding every data stage.
func (h *Handle) DataPath() string { return filepath.Join(h.path, DataDir) }

// RawPath returns the folder of downloaded, untouched data.
func (h *Handle) RawPath() string { return h.StagePath(StageRaw) }

// InterimPath returns the folder of working copies made from raw data.
func (h *Handle) InterimPath() string { return h.StagePath(StageInterim) }

// ProcessedPath returns the folder of final, cleaned data.
func (h *Handle) ProcessedPath() string { return h.StagePath(StageProcessed) }

// ExternalPath returns the folder of third-party reference data.
func (h *Handle) ExternalPath() string { return h.StagePath(StageExternal) }

// DBPath returns the folder of the optional project database.
func (h *Handle) DBPath() string { return h.StagePath(StageDB) }

// StagePath returns the folder of a data stage.
func (h *Handle) StagePath(stage string) string {
	return filepath.Join(h.path, DataDir, stage)
}

// SourcesPath returns references/sources.txt.
func (h *Handle) SourcesPath() string {
	return filepath.Join(h.path, ReferencesDir, SourcesFile)
}

// NotebookPath returns notebooks/<name>.ipynb.
func (h *Handle) NotebookPath() string {
	return filepath.Join(h.path, NotebooksDir, NotebookName(h.Name()))
}

// LockPath returns the lock marker path.
func (h *Handle) LockPath() string {
	return filepath.Join(h.path, LockFile)
}

// NotebookName returns the notebook file name of a project.
func NotebookName(project string) string {
	return project + tree.NotebookExt
}

// ctx decorates ctx with the project's identity for logging.
func (h *Handle) ctx(ctx context.Context) context.Context {
	return logging.WithProject(ctx, h.Group(), h.Name())
}
