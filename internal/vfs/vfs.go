package vfs

import (
	"errors"
	"strings"

	"zipvfs/internal/archive"
	"zipvfs/internal/logging"
)

var (
	vfsLogger = logging.GetLogger().WithPrefix("vfs")
)

// FileSystem is a navigable, read-only view of one archive. It owns the
// archive index and tracks the current directory.
//
// A FileSystem is not safe for concurrent use; callers serialize access.
type FileSystem struct {
	index   *archive.Index
	entries []string
	current string
}

// Open opens the archive at path and returns a FileSystem positioned at
// the root. Errors match archive.ErrInvalidArchive.
func Open(path string) (*FileSystem, error) {
	idx, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	return New(idx), nil
}

// New wraps an already opened index. The FileSystem takes ownership of idx
// and releases it on Close.
func New(idx *archive.Index) *FileSystem {
	vfsLogger.Debug("Creating filesystem over %s", idx.Path())
	return &FileSystem{
		index:   idx,
		entries: idx.Entries(),
		current: Root,
	}
}

// CurrentPath returns the current directory, always "/"-prefixed.
func (fs *FileSystem) CurrentPath() string {
	return fs.current
}

// ListDirectory returns the children of the current directory.
func (fs *FileSystem) ListDirectory() []Child {
	vfsLogger.Trace("Listing %q", fs.current)
	return ListChildren(fs.current, fs.entries)
}

// ChangeDirectory moves to target, which may be "/", "..", or a path
// relative to the current directory. It reports whether the move happened;
// a false result leaves the current directory unchanged.
func (fs *FileSystem) ChangeDirectory(target string) bool {
	candidate, err := Resolve(fs.current, target)
	if err != nil {
		vfsLogger.Debug("Rejected cd target %q: %v", target, err)
		return false
	}

	if target != Root && target != ".." && !Exists(candidate, fs.entries) {
		vfsLogger.Debug("No such directory: %q", candidate)
		return false
	}

	vfsLogger.Debug("Changed directory: %q -> %q", fs.current, candidate)
	fs.current = candidate
	return true
}

// ReadFile returns the content of the file name in the current directory.
// Missing files and directories fail with ErrFileNotFound.
func (fs *FileSystem) ReadFile(name string) ([]byte, error) {
	if name == "" || strings.HasSuffix(name, "/") {
		return nil, newError(OpRead, name, ErrFileNotFound)
	}

	entry := archivePrefix(fs.current) + name
	data, err := fs.index.Read(entry)
	if err != nil {
		if errors.Is(err, archive.ErrEntryNotFound) {
			return nil, newError(OpRead, name, ErrFileNotFound)
		}
		return nil, newError(OpRead, name, err)
	}
	return data, nil
}

// Close releases the underlying archive. The FileSystem must not be used
// afterwards.
func (fs *FileSystem) Close() error {
	vfsLogger.Debug("Closing filesystem")
	if err := fs.index.Close(); err != nil {
		return newError(OpClose, fs.index.Path(), err)
	}
	return nil
}
