package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fyrsmithlabs/dpx/internal/config"
)

// MetadataFileName is the sidecar written by FetchMetadata.
const MetadataFileName = "dataset-metadata.json"

// Environment variables consulted when no credentials are configured.
const (
	EnvKaggleUsername = "KAGGLE_USERNAME"
	EnvKaggleKey      = "KAGGLE_KEY"
)

// KaggleClient talks to a Kaggle API compatible platform over HTTP.
type KaggleClient struct {
	baseURL         string
	credentialsFile string
	httpClient      *http.Client

	username string
	key      config.Secret
}

var _ PlatformAPI = (*KaggleClient)(nil)

// NewKaggleClient creates a client from platform configuration. A nil
// httpClient uses http.DefaultClient.
func NewKaggleClient(cfg config.PlatformConfig, httpClient *http.Client) *KaggleClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &KaggleClient{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		credentialsFile: cfg.CredentialsFile,
		httpClient:      httpClient,
		username:        cfg.Username,
		key:             cfg.Key,
	}
}

type kaggleCredentials struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

// Authenticate resolves credentials in order: configuration, the
// KAGGLE_USERNAME/KAGGLE_KEY environment variables, then the credentials
// file.
func (c *KaggleClient) Authenticate(_ context.Context) error {
	if c.username != "" && c.key.IsSet() {
		return nil
	}

	if u, k := os.Getenv(EnvKaggleUsername), os.Getenv(EnvKaggleKey); u != "" && k != "" {
		c.username, c.key = u, config.Secret(k)
		return nil
	}

	if c.credentialsFile == "" {
		return ErrMissingCredentials
	}
	path, err := config.ExpandHome(c.credentialsFile)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s does not exist", ErrMissingCredentials, path)
		}
		return fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds kaggleCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}
	if creds.Username == "" || creds.Key == "" {
		return fmt.Errorf("%w: %s lacks username or key", ErrMissingCredentials, path)
	}

	c.username, c.key = creds.Username, config.Secret(creds.Key)
	return nil
}

// FetchFiles downloads the dataset archive and unpacks it into dest.
func (c *KaggleClient) FetchFiles(ctx context.Context, identifier, dest string) error {
	resp, err := c.get(ctx, "/datasets/download/"+identifier)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	// zip needs random access, so spool the body first.
	tmp, err := os.CreateTemp(dest, ".download-*.zip")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	size, err := io.Copy(tmp, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", identifier, err)
	}

	if _, err := extractZip(tmp, size, dest); err != nil {
		return fmt.Errorf("failed to extract %s: %w", identifier, err)
	}
	return nil
}

// FetchMetadata writes the dataset metadata document to
// dest/dataset-metadata.json.
func (c *KaggleClient) FetchMetadata(ctx context.Context, identifier, dest string) error {
	resp, err := c.get(ctx, "/datasets/metadata/"+identifier)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode metadata for %s: %w", identifier, err)
	}
	if info, ok := doc["info"].(map[string]any); ok {
		doc = info
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	path := filepath.Join(dest, MetadataFileName)
	if err := os.WriteFile(path, append(out, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// get issues an authenticated GET and maps 404 to ErrRemoteNotFound. The
// caller closes the body of a successful response.
func (c *KaggleClient) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.username, c.key.Value())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrRemoteNotFound, endpoint)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		resp.Body.Close()
		return nil, fmt.Errorf("platform rejected credentials for %s: HTTP %d", endpoint, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected response from %s: HTTP %d", endpoint, resp.StatusCode)
	}
	return resp, nil
}
