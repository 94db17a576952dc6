package source

import (
	"context"
	"testing"

	"github.com/fyrsmithlabs/dpx/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHandler accepts URLs with a fixed prefix and records fetches.
type stubHandler struct {
	name    string
	prefix  string
	fetched []string
}

func (s *stubHandler) Name() string { return s.name }

func (s *stubHandler) CanHandle(rawURL string) bool {
	return len(rawURL) >= len(s.prefix) && rawURL[:len(s.prefix)] == s.prefix
}

func (s *stubHandler) Fetch(_ context.Context, rawURL, rawDest, _ string) (string, error) {
	s.fetched = append(s.fetched, rawURL)
	return rawDest, nil
}

func TestDispatcher_FirstMatchWins(t *testing.T) {
	first := &stubHandler{name: "first", prefix: "https://a"}
	second := &stubHandler{name: "second", prefix: "https://"}
	d := NewDispatcher(nil, first, second)

	h, err := d.Resolve("https://a.example/x.csv")
	require.NoError(t, err)
	assert.Equal(t, "first", h.Name())

	h, err = d.Resolve("https://b.example/x.csv")
	require.NoError(t, err)
	assert.Equal(t, "second", h.Name())
}

func TestDispatcher_Fetch(t *testing.T) {
	h := &stubHandler{name: "only", prefix: "https://"}
	d := NewDispatcher(nil, h)

	got, err := d.Fetch(context.Background(), "https://x.example/a.csv", "/raw", "/external")
	require.NoError(t, err)
	assert.Equal(t, "/raw", got)
	assert.Equal(t, []string{"https://x.example/a.csv"}, h.fetched)
}

func TestDispatcher_NoHandlerFound(t *testing.T) {
	d := NewDispatcher(nil, &stubHandler{name: "only", prefix: "https://"})

	_, err := d.Fetch(context.Background(), "ftp://host/file", "/raw", "/external")
	require.ErrorIs(t, err, ErrNoHandlerFound)
	assert.Contains(t, err.Error(), "ftp://host/file")
}

func TestDefaultDispatcher_Order(t *testing.T) {
	d := DefaultDispatcher(config.Default(), nil)

	handlers := d.Handlers()
	require.Len(t, handlers, 2)
	assert.Equal(t, "platform", handlers[0].Name())
	assert.Equal(t, "direct", handlers[1].Name())

	// A platform page that also mentions "download" still goes to the platform.
	h, err := d.Resolve("https://www.kaggle.com/datasets/alice/widgets/download")
	require.NoError(t, err)
	assert.Equal(t, "platform", h.Name())

	h, err = d.Resolve("https://files.example.com/data/table.tsv")
	require.NoError(t, err)
	assert.Equal(t, "direct", h.Name())

	_, err = d.Resolve("https://example.com/readme.html")
	assert.ErrorIs(t, err, ErrNoHandlerFound)
}
