package mount

import (
	"context"
	"fmt"
	"os"
	"strings"

	"zipvfs/internal/logging"
	"zipvfs/internal/vfs"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var (
	dirLogger = logging.GetLogger().WithPrefix("dir")
)

// Dir is a directory of the mounted archive, either explicit (a marker
// entry) or implied by deeper entries.
type Dir struct {
	fs   *FS
	path string // normalized, "/"-prefixed
}

// Attr implements the Node interface, returning directory attributes.
func (d *Dir) Attr(_ context.Context, a *fuse.Attr) error {
	dirLogger.Trace("Getting attributes for directory: %q", d.path)
	a.Mode = os.ModeDir | 0o555
	a.Uid = d.fs.uid
	a.Gid = d.fs.gid
	return nil
}

// Lookup implements the NodeStringLookuper interface, finding a child node.
// A name that is both a directory and a file entry resolves to the directory.
func (d *Dir) Lookup(_ context.Context, name string) (fusefs.Node, error) {
	dirLogger.Debug("Looking up %q in directory %q", name, d.path)
	childPath := vfs.Normalize(d.path + "/" + name)

	if vfs.Exists(childPath, d.fs.entries) {
		dirLogger.Trace("Found directory: %q", childPath)
		return &Dir{fs: d.fs, path: childPath}, nil
	}

	entry := strings.TrimPrefix(childPath, "/")
	if _, err := d.fs.stat(entry); err == nil {
		dirLogger.Trace("Found file: %q", childPath)
		return &File{fs: d.fs, path: childPath, entry: entry}, nil
	}

	dirLogger.Debug("Path not found: %q", childPath)
	return nil, ToFuseError(fmt.Errorf("lookup %s: %w", childPath, ErrPathNotFound))
}

// ReadDirAll implements the HandleReadDirAller interface, listing directory contents.
func (d *Dir) ReadDirAll(_ context.Context) ([]fuse.Dirent, error) {
	dirLogger.Debug("Reading directory contents: %q", d.path)

	children := vfs.ListChildren(d.path, d.fs.entries)
	entries := make([]fuse.Dirent, 0, len(children))
	for _, c := range children {
		typ := fuse.DT_File
		if c.IsDir {
			typ = fuse.DT_Dir
		}
		entries = append(entries, fuse.Dirent{Name: c.Name, Type: typ})
	}

	dirLogger.Debug("Directory %q contains %d entries", d.path, len(entries))
	return entries, nil
}
