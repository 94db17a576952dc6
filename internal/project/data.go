package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// CopySuffix is inserted between stem and extension of interim copies.
const CopySuffix = "-copy"

// CopyName returns the interim name of a raw file: "name.ext" becomes
// "name-copy.ext". Leading dots belong to the stem, so ".env" becomes
// ".env-copy".
func CopyName(name string) string {
	stem, ext := splitExt(name)
	return stem + CopySuffix + ext
}

func splitExt(name string) (string, string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 || strings.Trim(name[:i], ".") == "" {
		return name, ""
	}
	return name[:i], name[i:]
}

// CopyRawToInterim copies every regular file of data/raw into data/interim
// under its CopyName. Existing copies are skipped unless overwrite is set.
// Sub-directories of raw are skipped. It returns the paths written.
func (h *Handle) CopyRawToInterim(ctx context.Context, overwrite bool) ([]string, error) {
	ctx = h.ctx(ctx)

	entries, err := os.ReadDir(h.RawPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read raw data of %s: %w", h.Name(), err)
	}
	if err := os.MkdirAll(h.InterimPath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", h.InterimPath(), err)
	}

	var created []string
	for _, e := range entries {
		src := filepath.Join(h.RawPath(), e.Name())
		if e.IsDir() {
			h.logger.Info(ctx, "skipping directory in raw data", zap.String("path", src))
			continue
		}

		dst := filepath.Join(h.InterimPath(), CopyName(e.Name()))
		if _, err := os.Lstat(dst); err == nil && !overwrite {
			h.logger.Info(ctx, "interim copy exists, skipping", zap.String("path", dst))
			continue
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return created, fmt.Errorf("failed to check %s: %w", dst, err)
		}

		if err := copyFile(src, dst); err != nil {
			return created, err
		}
		created = append(created, dst)
		h.logger.Trace(ctx, "copied raw file", zap.String("from", src), zap.String("to", dst))
	}

	h.logger.Debug(ctx, "raw data copied", zap.Int("files", len(created)))
	return created, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

// DataListing holds the entry names of each data stage.
type DataListing struct {
	Stages []string
	Files  map[string][]string
}

// Rows arranges the listing column-wise: row i holds the i-th entry of each
// stage, or "" where a stage has fewer entries.
func (l *DataListing) Rows() [][]string {
	height := 0
	for _, s := range l.Stages {
		height = max(height, len(l.Files[s]))
	}

	rows := make([][]string, height)
	for i := range rows {
		row := make([]string, len(l.Stages))
		for j, s := range l.Stages {
			if files := l.Files[s]; i < len(files) {
				row[j] = files[i]
			}
		}
		rows[i] = row
	}
	return rows
}

// Empty reports whether no stage holds any entry.
func (l *DataListing) Empty() bool {
	for _, s := range l.Stages {
		if len(l.Files[s]) > 0 {
			return false
		}
	}
	return true
}

// ListDataFiles lists each data stage, creating stages that are missing.
func (h *Handle) ListDataFiles() (*DataListing, error) {
	listing := &DataListing{
		Stages: append([]string(nil), Stages...),
		Files:  make(map[string][]string, len(Stages)),
	}

	for _, stage := range Stages {
		dir := h.StagePath(stage)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", dir, err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		sort.Strings(names)
		listing.Files[stage] = names
	}
	return listing, nil
}
