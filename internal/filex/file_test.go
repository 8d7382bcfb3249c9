package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "a", "b")

	require.NoError(t, EnsureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// idempotent
	require.NoError(t, EnsureDir(dir))
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "f")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	assert.Error(t, EnsureDir(path))
}

func TestEnsureParentDir(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "nested", "records.db")

	require.NoError(t, EnsureParentDir(path))
	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, EnsureParentDir("records.db"))
}
