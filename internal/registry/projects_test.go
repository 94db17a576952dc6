package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestProjects_CreateProvisionsAndLocks(t *testing.T) {
	root, reg, _ := newRoot(t)

	h, err := reg.Projects.Create(context.Background(), "main", "acme-sales")
	require.NoError(t, err)

	base := filepath.Join(root, "main", "acme-sales")
	assert.Equal(t, base, h.Path())
	for _, dir := range []string{
		"data/raw", "data/interim", "data/processed", "data/external", "docs/assets", "reports/figures",
	} {
		assert.DirExists(t, filepath.Join(base, dir))
	}
	for _, file := range []string{
		"docs/notes.txt", "notebooks/acme-sales.ipynb", "references/sources.txt", "README.md", ".locked",
	} {
		assert.FileExists(t, filepath.Join(base, file))
	}

	locked, err := h.IsLocked()
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestProjects_NamesAreGloballyUnique(t *testing.T) {
	ctx := context.Background()
	_, reg, _ := newRoot(t)

	_, err := reg.Projects.Create(ctx, "main", "acme-sales")
	require.NoError(t, err)

	_, err = reg.Projects.Create(ctx, "playground", "acme-sales")
	require.ErrorIs(t, err, ErrAlreadyExists)

	var exists *ExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, "main", exists.Group)
	assert.NoDirExists(t, reg.Groups.Path("playground")+"/acme-sales")
}

func TestProjects_CreateValidation(t *testing.T) {
	ctx := context.Background()
	_, reg, _ := newRoot(t)

	_, err := reg.Projects.Create(ctx, "nope", "x")
	assert.ErrorIs(t, err, ErrInvalidGroup)

	_, err = reg.Projects.Create(ctx, "main", "../escape")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestProjects_TemporaryNameWarns(t *testing.T) {
	_, reg, tl := newRoot(t)

	require.NoError(t, reg.Projects.CanCreate(context.Background(), "~abc123"))
	tl.AssertLogged(t, zapcore.WarnLevel, "temporary project")

	tl.Reset()
	require.NoError(t, reg.Projects.CanCreate(context.Background(), "durable"))
	tl.AssertNotLogged(t, zapcore.WarnLevel, "temporary project")
}

func TestProjects_ListOrdering(t *testing.T) {
	root, reg, _ := newRoot(t)
	mkdirs(t,
		filepath.Join(root, "main", "zebra"),
		filepath.Join(root, "main", "~tmp2"),
		filepath.Join(root, "main", "apple"),
		filepath.Join(root, "main", "~tmp1"),
		filepath.Join(root, "playground", "~scratch"),
		filepath.Join(root, "playground", "sandbox"),
	)
	require.NoError(t, os.WriteFile(filepath.Join(root, "main", "stray.txt"), nil, 0644))

	tests := []struct {
		name          string
		groups        []string
		temps, others bool
		want          []string
	}{
		{"both", []string{"main"}, true, true, []string{"~tmp1", "~tmp2", "apple", "zebra"}},
		{"temps only", []string{"main"}, true, false, []string{"~tmp1", "~tmp2"}},
		{"non-temps only", []string{"main"}, false, true, []string{"apple", "zebra"}},
		{"neither", []string{"main"}, false, false, []string{}},
		{"union in group order", []string{"playground", "main"}, true, true,
			[]string{"~scratch", "sandbox", "~tmp1", "~tmp2", "apple", "zebra"}},
		{"all groups", nil, false, true, []string{"apple", "zebra", "sandbox"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Projects.List(tt.groups, tt.temps, tt.others)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	all, err := reg.Projects.All()
	require.NoError(t, err)
	assert.Len(t, all, 6)
	assert.Equal(t, filepath.Join(root, "main", "~tmp1"), all[0])

	_, err = reg.Projects.List([]string{"main", "missing"}, true, true)
	assert.ErrorIs(t, err, ErrInvalidGroup)
}

func TestProjects_VerifyAndResolve(t *testing.T) {
	root, reg, _ := newRoot(t)
	mkdirs(t, filepath.Join(root, "playground", "sandbox"))

	assert.NoError(t, reg.Projects.Verify("sandbox"))
	assert.ErrorIs(t, reg.Projects.Verify("ghost"), ErrInvalidProject)

	g, err := reg.Projects.ResolveGroup("sandbox")
	require.NoError(t, err)
	assert.Equal(t, "playground", g)

	_, err = reg.Projects.ResolveGroup("ghost")
	assert.ErrorIs(t, err, ErrProjectNotFound)

	h, err := reg.Projects.Open("sandbox")
	require.NoError(t, err)
	assert.Equal(t, "playground", h.Group())
}

func TestProjects_ExistingNamesOutsideCreatePattern(t *testing.T) {
	root, reg, _ := newRoot(t)
	mkdirs(t,
		filepath.Join(root, "client work", "acme sales"),
		filepath.Join(root, "main", "q3 report"),
	)

	assert.NoError(t, reg.Projects.Verify("acme sales"))
	assert.NoError(t, reg.Projects.Verify("q3 report"))

	g, err := reg.Projects.ResolveGroup("acme sales")
	require.NoError(t, err)
	assert.Equal(t, "client work", g)

	h, err := reg.Projects.Open("acme sales")
	require.NoError(t, err)
	assert.Equal(t, "client work", h.Group())
	assert.Equal(t, filepath.Join(root, "client work", "acme sales"), h.Path())

	all, err := reg.Projects.All()
	require.NoError(t, err)
	assert.Contains(t, all, filepath.Join(root, "client work", "acme sales"))
	assert.Contains(t, all, filepath.Join(root, "main", "q3 report"))

	names, err := reg.Projects.List([]string{"client work"}, true, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme sales"}, names)

	assert.ErrorIs(t, reg.Projects.Verify("acme sales/.."), ErrInvalidProject)
	_, err = reg.Projects.ResolveGroup("../main")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjects_DestructiveOperationsRequireUnlock(t *testing.T) {
	ctx := context.Background()
	_, reg, _ := newRoot(t)

	h, err := reg.Projects.Create(ctx, "main", "acme-sales")
	require.NoError(t, err)

	assert.ErrorIs(t, reg.Projects.Remove(ctx, "acme-sales"), ErrProjectLocked)
	assert.ErrorIs(t, reg.Projects.Move(ctx, "acme-sales", "playground"), ErrProjectLocked)
	assert.ErrorIs(t, reg.Projects.Rename(ctx, "acme-sales", "acme"), ErrProjectLocked)
	assert.DirExists(t, h.Path())

	_, err = h.Unlock(ctx)
	require.NoError(t, err)
	require.NoError(t, reg.Projects.Remove(ctx, "acme-sales"))
	assert.NoDirExists(t, h.Path())

	assert.ErrorIs(t, reg.Projects.Remove(ctx, "acme-sales"), ErrProjectNotFound)
}

func TestProjects_Move(t *testing.T) {
	ctx := context.Background()
	root, reg, _ := newRoot(t)

	h, err := reg.Projects.Create(ctx, "playground", "~abc123")
	require.NoError(t, err)
	_, err = h.Unlock(ctx)
	require.NoError(t, err)

	require.NoError(t, reg.Projects.Move(ctx, "~abc123", "main"))
	assert.DirExists(t, filepath.Join(root, "main", "~abc123"))
	assert.NoDirExists(t, filepath.Join(root, "playground", "~abc123"))

	// Moving into the current group is a no-op.
	require.NoError(t, reg.Projects.Move(ctx, "~abc123", "main"))
	assert.ErrorIs(t, reg.Projects.Move(ctx, "~abc123", "missing"), ErrInvalidGroup)
}

func TestProjects_Rename(t *testing.T) {
	ctx := context.Background()
	root, reg, _ := newRoot(t)

	h, err := reg.Projects.Create(ctx, "main", "~abc123")
	require.NoError(t, err)
	_, err = reg.Projects.Create(ctx, "playground", "taken")
	require.NoError(t, err)
	_, err = h.Unlock(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, reg.Projects.Rename(ctx, "~abc123", "taken"), ErrAlreadyExists)

	require.NoError(t, reg.Projects.Rename(ctx, "~abc123", "churn-model"))
	base := filepath.Join(root, "main", "churn-model")
	assert.DirExists(t, base)
	assert.FileExists(t, filepath.Join(base, "notebooks", "churn-model.ipynb"))
	assert.NoFileExists(t, filepath.Join(base, "notebooks", "~abc123.ipynb"))
}
