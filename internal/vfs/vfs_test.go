package vfs

import (
	"testing"

	"zipvfs/internal/archive"
	"zipvfs/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestFS(t *testing.T) *FileSystem {
	t.Helper()
	fs, err := Open(testutil.WriteSampleZip(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = fs.Close()
	})
	return fs
}

func TestOpenInvalidArchive(t *testing.T) {
	path := testutil.WriteFile(t, "broken.zip", []byte("PK but not really"))
	_, err := Open(path)
	require.ErrorIs(t, err, archive.ErrInvalidArchive)
}

func TestInitialPath(t *testing.T) {
	fs := setupTestFS(t)
	assert.Equal(t, "/", fs.CurrentPath())
}

func TestListRoot(t *testing.T) {
	fs := setupTestFS(t)
	assert.Equal(t,
		[]string{"dir1/", "empty_dir/", "file1.txt", "file2.txt"},
		names(fs.ListDirectory()))
}

func TestListIsIdempotent(t *testing.T) {
	fs := setupTestFS(t)
	require.True(t, fs.ChangeDirectory("dir1"))
	assert.Equal(t, fs.ListDirectory(), fs.ListDirectory())
}

func TestChangeDirectory(t *testing.T) {
	t.Run("into subdirectory", func(t *testing.T) {
		fs := setupTestFS(t)
		require.True(t, fs.ChangeDirectory("dir1"))
		assert.Equal(t, "/dir1", fs.CurrentPath())
		assert.Equal(t, []string{"dir2/", "file3.txt"}, names(fs.ListDirectory()))
	})

	t.Run("nonexistent leaves path unchanged", func(t *testing.T) {
		fs := setupTestFS(t)
		require.True(t, fs.ChangeDirectory("dir1"))
		assert.False(t, fs.ChangeDirectory("nonexistent"))
		assert.Equal(t, "/dir1", fs.CurrentPath())
	})

	t.Run("file is not a directory", func(t *testing.T) {
		fs := setupTestFS(t)
		assert.False(t, fs.ChangeDirectory("file1.txt"))
		assert.Equal(t, "/", fs.CurrentPath())
	})

	t.Run("parent at root", func(t *testing.T) {
		fs := setupTestFS(t)
		assert.True(t, fs.ChangeDirectory(".."))
		assert.Equal(t, "/", fs.CurrentPath())
	})

	t.Run("parent restores root", func(t *testing.T) {
		fs := setupTestFS(t)
		require.True(t, fs.ChangeDirectory("dir1"))
		assert.True(t, fs.ChangeDirectory(".."))
		assert.Equal(t, "/", fs.CurrentPath())
	})

	t.Run("nested then parent", func(t *testing.T) {
		fs := setupTestFS(t)
		require.True(t, fs.ChangeDirectory("dir1/dir2"))
		assert.Equal(t, "/dir1/dir2", fs.CurrentPath())
		require.True(t, fs.ChangeDirectory(".."))
		assert.Equal(t, "/dir1", fs.CurrentPath())
	})

	t.Run("root jump", func(t *testing.T) {
		fs := setupTestFS(t)
		require.True(t, fs.ChangeDirectory("dir1/dir2"))
		assert.True(t, fs.ChangeDirectory("/"))
		assert.Equal(t, "/", fs.CurrentPath())
	})

	t.Run("trailing slash target", func(t *testing.T) {
		fs := setupTestFS(t)
		require.True(t, fs.ChangeDirectory("dir1/"))
		assert.Equal(t, "/dir1", fs.CurrentPath())
	})

	t.Run("empty target", func(t *testing.T) {
		fs := setupTestFS(t)
		assert.False(t, fs.ChangeDirectory(""))
		assert.Equal(t, "/", fs.CurrentPath())
	})
}

func TestListEmptyDirectory(t *testing.T) {
	fs := setupTestFS(t)
	require.True(t, fs.ChangeDirectory("empty_dir"))
	children := fs.ListDirectory()
	assert.NotNil(t, children)
	assert.Empty(t, children)
}

func TestReadFile(t *testing.T) {
	fs := setupTestFS(t)

	data, err := fs.ReadFile("file1.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\nhello", string(data))

	_, err = fs.ReadFile("missing.txt")
	require.ErrorIs(t, err, ErrFileNotFound)

	var vfsErr *Error
	require.ErrorAs(t, err, &vfsErr)
	assert.Equal(t, OpRead, vfsErr.Op)
	assert.Equal(t, "missing.txt", vfsErr.Path)
}

func TestReadFileRelativeToCurrent(t *testing.T) {
	fs := setupTestFS(t)
	require.True(t, fs.ChangeDirectory("dir1"))

	data, err := fs.ReadFile("file3.txt")
	require.NoError(t, err)
	assert.Equal(t, "apple\nbanana\napple", string(data))

	data, err = fs.ReadFile("dir2/file4.txt")
	require.NoError(t, err)
	assert.Equal(t, "bar", string(data))

	_, err = fs.ReadFile("file1.txt")
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestReadFileDirectory(t *testing.T) {
	fs := setupTestFS(t)

	for _, name := range []string{"dir1", "dir1/", "empty_dir", "empty_dir/", ""} {
		_, err := fs.ReadFile(name)
		require.ErrorIs(t, err, ErrFileNotFound, name)
	}
}

func TestClose(t *testing.T) {
	fs, err := Open(testutil.WriteSampleZip(t))
	require.NoError(t, err)

	require.NoError(t, fs.Close())
	require.ErrorIs(t, fs.Close(), archive.ErrClosed)
}
