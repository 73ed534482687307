// Package archive exposes the entries of a ZIP file as an immutable,
// read-only index.
package archive

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"zipvfs/internal/logging"

	"github.com/klauspost/compress/zip"
)

var (
	indexLogger = logging.GetLogger().WithPrefix("archive")

	// ErrInvalidArchive indicates the source is not a readable ZIP container
	ErrInvalidArchive = errors.New("invalid archive")

	// ErrEntryNotFound indicates no file entry has the requested name
	ErrEntryNotFound = errors.New("entry not found")

	// ErrClosed indicates the index was used after Close
	ErrClosed = errors.New("archive closed")
)

// EntryInfo describes one archive member.
type EntryInfo struct {
	Name     string
	Size     uint64
	Modified time.Time
}

// Index wraps an opened ZIP archive. Entry names are fixed at Open and
// never change for the lifetime of the Index.
type Index struct {
	path   string
	rc     *zip.ReadCloser
	names  []string
	files  map[string]*zip.File
	closed bool
}

// Open validates and opens the ZIP archive at path.
func Open(path string) (*Index, error) {
	indexLogger.Debug("Opening archive: %s", path)

	rc, err := zip.OpenReader(path)
	if err != nil {
		indexLogger.Error("Failed to open archive %s: %v", path, err)
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidArchive, path, err)
	}

	idx := &Index{
		path:  path,
		rc:    rc,
		names: make([]string, 0, len(rc.File)),
		files: make(map[string]*zip.File, len(rc.File)),
	}
	for _, f := range rc.File {
		idx.names = append(idx.names, f.Name)
		// first occurrence wins for duplicated names
		if _, dup := idx.files[f.Name]; !dup {
			idx.files[f.Name] = f
		}
	}

	indexLogger.Info("Opened archive %s with %d entries", path, len(idx.names))
	return idx, nil
}

// Path returns the filesystem path the index was opened from.
func (idx *Index) Path() string {
	return idx.path
}

// Entries returns a copy of the entry names in archive order.
func (idx *Index) Entries() []string {
	out := make([]string, len(idx.names))
	copy(out, idx.names)
	return out
}

// lookup returns the file entry with exactly the given name. Directory
// markers are not file entries.
func (idx *Index) lookup(name string) (*zip.File, error) {
	if idx.closed {
		return nil, ErrClosed
	}
	if name == "" || strings.HasSuffix(name, "/") {
		return nil, fmt.Errorf("%w: %q", ErrEntryNotFound, name)
	}
	f, ok := idx.files[name]
	if !ok || f.FileInfo().IsDir() {
		return nil, fmt.Errorf("%w: %q", ErrEntryNotFound, name)
	}
	return f, nil
}

// Read decompresses and returns the content of one entry. The name must
// match an entry exactly; no normalization is performed.
func (idx *Index) Read(name string) ([]byte, error) {
	f, err := idx.lookup(name)
	if err != nil {
		indexLogger.Debug("Read of %q failed: %v", name, err)
		return nil, err
	}

	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %q: %w", name, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		indexLogger.Error("Failed to decompress %q: %v", name, err)
		return nil, fmt.Errorf("read entry %q: %w", name, err)
	}

	indexLogger.Trace("Read %d bytes from %q", len(data), name)
	return data, nil
}

// Stat returns metadata for one file entry.
func (idx *Index) Stat(name string) (EntryInfo, error) {
	f, err := idx.lookup(name)
	if err != nil {
		return EntryInfo{}, err
	}
	return EntryInfo{
		Name:     f.Name,
		Size:     f.UncompressedSize64,
		Modified: f.Modified,
	}, nil
}

// Close releases the underlying file handle. Calling Close more than once
// returns ErrClosed.
func (idx *Index) Close() error {
	if idx.closed {
		return ErrClosed
	}
	idx.closed = true
	indexLogger.Debug("Closing archive: %s", idx.path)
	return idx.rc.Close()
}
