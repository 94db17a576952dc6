package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fyrsmithlabs/dpx/internal/logging"
	"github.com/go-git/go-git/v5"
	"go.uber.org/zap"
)

// GitignoreFile keeps project data out of version control.
const GitignoreFile = ".gitignore"

// gitignoreContent excludes the data folder of every project.
const gitignoreContent = "*/*/data/\n"

// InitRoot prepares a registry root: the directory itself, the reserved
// groups, a .gitignore excluding project data and a git repository. Existing
// pieces are left as they are.
func InitRoot(ctx context.Context, root string, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.Nop()
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("failed to create registry root: %w", err)
	}
	for _, g := range ReservedGroups {
		if err := os.MkdirAll(filepath.Join(root, g), 0755); err != nil {
			return fmt.Errorf("failed to create group %q: %w", g, err)
		}
	}

	ignore := filepath.Join(root, GitignoreFile)
	f, err := os.OpenFile(ignore, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	switch {
	case errors.Is(err, fs.ErrExist):
	case err != nil:
		return fmt.Errorf("failed to create %s: %w", ignore, err)
	default:
		_, werr := f.WriteString(gitignoreContent)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return fmt.Errorf("failed to write %s: %w", ignore, werr)
		}
	}

	if _, err := git.PlainOpen(root); err == nil {
		logger.Debug(ctx, "registry root already under version control", zap.String("root", root))
		return nil
	} else if !errors.Is(err, git.ErrRepositoryNotExists) {
		return fmt.Errorf("failed to open repository at %s: %w", root, err)
	}

	if _, err := git.PlainInit(root, false); err != nil {
		return fmt.Errorf("failed to initialize repository at %s: %w", root, err)
	}

	logger.Info(ctx, "registry root initialized", zap.String("root", root))
	return nil
}
