package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fyrsmithlabs/dpx/internal/config"
	"github.com/fyrsmithlabs/dpx/internal/logging"
	"go.uber.org/zap"
)

// Common errors.
var (
	ErrNoHandlerFound     = errors.New("no handler found for URL")
	ErrRemoteNotFound     = errors.New("remote resource not found")
	ErrInvalidURL         = errors.New("invalid dataset URL")
	ErrMissingCredentials = errors.New("platform credentials not configured")
	ErrUnsafeArchive      = errors.New("archive entry escapes destination")
)

// Handler fetches datasets from one kind of source.
type Handler interface {
	// Name identifies the handler in logs.
	Name() string

	// CanHandle reports whether this handler recognizes the URL.
	CanHandle(rawURL string) bool

	// Fetch downloads the resource into rawDest, writing any metadata into
	// externalDest, and returns the path holding the payload.
	Fetch(ctx context.Context, rawURL, rawDest, externalDest string) (string, error)
}

// Dispatcher selects a handler by trying each in registration order.
type Dispatcher struct {
	handlers []Handler
	logger   *logging.Logger
}

// NewDispatcher creates a dispatcher over handlers, in priority order.
func NewDispatcher(logger *logging.Logger, handlers ...Handler) *Dispatcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Dispatcher{handlers: handlers, logger: logger}
}

// DefaultDispatcher wires the platform handler followed by the direct
// download handler from configuration.
func DefaultDispatcher(cfg *config.Config, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Nop()
	}
	client := &http.Client{Timeout: cfg.Download.Timeout.Duration()}

	platform := NewPlatformHandler(NewKaggleClient(cfg.Platform, client), cfg.Platform.Host, logger)
	direct := NewDirectDownloadHandler(client, cfg.Download.Extensions, logger)

	return NewDispatcher(logger, platform, direct)
}

// Handlers returns the registered handlers in order.
func (d *Dispatcher) Handlers() []Handler {
	return append([]Handler(nil), d.handlers...)
}

// Resolve returns the first handler accepting rawURL.
func (d *Dispatcher) Resolve(rawURL string) (Handler, error) {
	for _, h := range d.handlers {
		if h.CanHandle(rawURL) {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoHandlerFound, rawURL)
}

// Fetch resolves a handler for rawURL and runs it.
func (d *Dispatcher) Fetch(ctx context.Context, rawURL, rawDest, externalDest string) (string, error) {
	h, err := d.Resolve(rawURL)
	if err != nil {
		return "", err
	}

	d.logger.Info(ctx, "acquiring dataset",
		zap.String("handler", h.Name()),
		zap.String("url", rawURL),
	)

	return h.Fetch(ctx, rawURL, rawDest, externalDest)
}
