package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/fyrsmithlabs/dpx/internal/logging"
	"go.uber.org/zap"
)

// PlatformAPI is the hosted dataset platform as seen by PlatformHandler.
type PlatformAPI interface {
	// Authenticate loads and checks credentials.
	Authenticate(ctx context.Context) error

	// FetchFiles downloads and unpacks the dataset files into dest.
	FetchFiles(ctx context.Context, identifier, dest string) error

	// FetchMetadata writes the dataset metadata document into dest.
	FetchMetadata(ctx context.Context, identifier, dest string) error
}

// PlatformHandler handles dataset pages on a hosted dataset platform.
type PlatformHandler struct {
	api    PlatformAPI
	host   string
	logger *logging.Logger
}

var _ Handler = (*PlatformHandler)(nil)

// NewPlatformHandler creates a handler for URLs on host, with or without a
// leading "www.".
func NewPlatformHandler(api PlatformAPI, host string, logger *logging.Logger) *PlatformHandler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &PlatformHandler{
		api:    api,
		host:   strings.TrimPrefix(strings.ToLower(host), "www."),
		logger: logger,
	}
}

// Name implements Handler.
func (h *PlatformHandler) Name() string { return "platform" }

// CanHandle implements Handler.
func (h *PlatformHandler) CanHandle(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	return host != "" && host == h.host
}

// Identifier extracts "owner/dataset" from a dataset URL such as
// https://www.kaggle.com/datasets/owner/dataset/data?select=file.csv.
// Trailing view segments and the query string are dropped.
func Identifier(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	segments := make([]string, 0, 4)
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 3 || segments[0] != "datasets" {
		return "", fmt.Errorf("%w: expected /datasets/<owner>/<dataset> in %s", ErrInvalidURL, rawURL)
	}

	return segments[1] + "/" + segments[2], nil
}

// Fetch implements Handler. A dataset the platform does not know is logged
// and skipped: the raw destination is returned without error and no
// metadata is fetched.
func (h *PlatformHandler) Fetch(ctx context.Context, rawURL, rawDest, externalDest string) (string, error) {
	id, err := Identifier(rawURL)
	if err != nil {
		return "", err
	}

	if err := h.api.Authenticate(ctx); err != nil {
		return "", fmt.Errorf("failed to authenticate with %s: %w", h.host, err)
	}

	if err := h.api.FetchFiles(ctx, id, rawDest); err != nil {
		if errors.Is(err, ErrRemoteNotFound) {
			h.logger.Error(ctx, "dataset not found, verify the URL is correct",
				zap.String("dataset", id),
				zap.Error(err),
			)
			return rawDest, nil
		}
		return "", fmt.Errorf("failed to download dataset %s: %w", id, err)
	}

	if err := h.api.FetchMetadata(ctx, id, externalDest); err != nil {
		return "", fmt.Errorf("failed to fetch metadata for dataset %s: %w", id, err)
	}

	h.logger.Info(ctx, "dataset downloaded", zap.String("dataset", id), zap.String("path", rawDest))
	return rawDest, nil
}
