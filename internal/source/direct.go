package source

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fyrsmithlabs/dpx/internal/logging"
	"go.uber.org/zap"
)

// fallbackFileName names downloads whose URL carries no usable basename.
const fallbackFileName = "download"

// DirectDownloadHandler fetches plain files over HTTP(S).
type DirectDownloadHandler struct {
	client     *http.Client
	extensions []string
	logger     *logging.Logger
}

var _ Handler = (*DirectDownloadHandler)(nil)

// NewDirectDownloadHandler creates a handler accepting URLs whose path ends
// in one of extensions (compared case-insensitively) or that contain
// "download".
func NewDirectDownloadHandler(client *http.Client, extensions []string, logger *logging.Logger) *DirectDownloadHandler {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = logging.Nop()
	}
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		exts = append(exts, strings.ToLower(e))
	}
	return &DirectDownloadHandler{client: client, extensions: exts, logger: logger}
}

// Name implements Handler.
func (h *DirectDownloadHandler) Name() string { return "direct" }

// CanHandle implements Handler.
func (h *DirectDownloadHandler) CanHandle(rawURL string) bool {
	if strings.Contains(rawURL, "download") {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	p := strings.ToLower(u.Path)
	for _, ext := range h.extensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// Fetch implements Handler. The body is written to rawDest under the name
// given by Content-Disposition, else the URL basename, else "download".
// A 404 is logged and rawDest returned without error.
func (h *DirectDownloadHandler) Fetch(ctx context.Context, rawURL, rawDest, _ string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download of %s failed: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		h.logger.Error(ctx, "file not found, verify the URL is correct",
			zap.String("url", rawURL),
			zap.Error(ErrRemoteNotFound),
		)
		return rawDest, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("download of %s failed: HTTP %d", rawURL, resp.StatusCode)
	}

	if err := os.MkdirAll(rawDest, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", rawDest, err)
	}

	target := filepath.Join(rawDest, downloadName(resp, req.URL))
	if err := writeAtomic(target, resp.Body); err != nil {
		return "", err
	}

	h.logger.Info(ctx, "file downloaded", zap.String("url", rawURL), zap.String("path", target))
	return target, nil
}

func downloadName(resp *http.Response, u *url.URL) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := safeBase(params["filename"]); name != "" {
				return name
			}
		}
	}
	if name := safeBase(path.Base(u.Path)); name != "" {
		return name
	}
	return fallbackFileName
}

// safeBase reduces name to a single usable path segment, or "".
func safeBase(name string) string {
	name = filepath.Base(filepath.FromSlash(name))
	switch name {
	case "", ".", "..", string(filepath.Separator):
		return ""
	}
	return name
}

// writeAtomic streams r into a temp file beside target and renames it into
// place, so a failed download never leaves a partial file.
func writeAtomic(target string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", target, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move download into %s: %w", target, err)
	}
	return nil
}
