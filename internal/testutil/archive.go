// Package testutil builds ZIP fixtures for tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// Entry is one member written into a fixture archive. Names ending in "/"
// become directory markers and their Data is ignored.
type Entry struct {
	Name string
	Data string
}

// SampleEntries is the layout most tests share: two root files, a nested
// directory tree and an explicit empty directory marker.
func SampleEntries() []Entry {
	return []Entry{
		{Name: "file1.txt", Data: "hello\nworld\nhello"},
		{Name: "file2.txt", Data: "foo\nbar\nfoo"},
		{Name: "dir1/file3.txt", Data: "apple\nbanana\napple"},
		{Name: "dir1/dir2/file4.txt", Data: "bar"},
		{Name: "empty_dir/"},
	}
}

// WriteZip writes entries in order into a new archive under t.TempDir and
// returns its path.
func WriteZip(t testing.TB, entries []Entry) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.zip")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		require.NoError(t, err)
		if strings.HasSuffix(e.Name, "/") {
			continue
		}
		_, err = w.Write([]byte(e.Data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

// WriteSampleZip writes SampleEntries and returns the archive path.
func WriteSampleZip(t testing.TB) string {
	t.Helper()
	return WriteZip(t, SampleEntries())
}

// WriteFile writes arbitrary bytes under t.TempDir, for invalid-archive cases.
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
