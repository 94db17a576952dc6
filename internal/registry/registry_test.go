package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fyrsmithlabs/dpx/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid alphanumeric", "myproject", false},
		{"valid with hyphen", "acme-sales", false},
		{"valid with underscore", "my_project", false},
		{"valid with dot", "my.project", false},
		{"valid temporary", "~a1b2c3", false},
		{"empty", "", true},
		{"starts with hyphen", "-project", true},
		{"starts with dot", ".project", true},
		{"double temp prefix", "~~x", true},
		{"bare temp prefix", "~", true},
		{"path traversal dotdot", "..", true},
		{"contains slash", "my/project", true},
		{"contains backslash", `my\project`, true},
		{"contains space", "my project", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExistsError(t *testing.T) {
	var err error = &ExistsError{Name: "acme-sales", Group: "main"}

	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Contains(t, err.Error(), `"main"`)

	var exists *ExistsError
	require.True(t, errors.As(err, &exists))
	assert.Equal(t, "main", exists.Group)
}

func TestTempName(t *testing.T) {
	name := TempName()
	assert.Regexp(t, `^~[a-z0-9]{6}$`, name)
	assert.NoError(t, ValidateName(name))
	assert.NotEqual(t, name, TempName())
}

// newRoot bootstraps a registry root under a temp dir.
func newRoot(t *testing.T) (string, *Registry, *logging.TestLogger) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "dp-projects")
	require.NoError(t, InitRoot(context.Background(), root, nil))

	tl := logging.NewTestLogger()
	return root, New(root, WithLogger(tl.Logger)), tl
}

func mkdirs(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, os.MkdirAll(p, 0755))
	}
}
