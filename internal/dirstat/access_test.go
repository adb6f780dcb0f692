package dirstat

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAccessible(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.True(t, IsAccessible(dir))
	assert.False(t, IsAccessible(filepath.Join(dir, "missing")))

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(empty, 0o755))
	assert.True(t, IsAccessible(empty))

	if runtime.GOOS != "windows" && os.Geteuid() != 0 {
		locked := filepath.Join(dir, "locked")
		require.NoError(t, os.Mkdir(locked, 0o000))
		t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

		assert.False(t, IsAccessible(locked))
	}
}

func TestFileSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.bin")
	writeFile(t, path, 1234)

	assert.Equal(t, int64(1234), FileSize(path))
	assert.Zero(t, FileSize(filepath.Join(dir, "vanished.bin")))
}

func TestIsHidden(t *testing.T) {
	t.Parallel()

	assert.True(t, IsHidden("/a/.git", nil))
	assert.True(t, IsHidden(".config", nil))
	assert.False(t, IsHidden("/a/visible", nil))
}

func TestIsFileFollowsSymlinks(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "target.bin"), 10)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "target.bin"), filepath.Join(dir, "link.bin")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "sub"), filepath.Join(dir, "link-dir")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "dangling")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	files := map[string]bool{}
	for _, e := range entries {
		files[e.Name()] = isFile(filepath.Join(dir, e.Name()), e)
	}

	assert.Equal(t, map[string]bool{
		"target.bin": true,
		"link.bin":   true,
		"link-dir":   false,
		"dangling":   false,
		"sub":        false,
	}, files)
}
