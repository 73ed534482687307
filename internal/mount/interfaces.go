package mount

import (
	fusefs "bazil.org/fuse/fs"
)

// Directory is a read-only directory node.
type Directory interface {
	fusefs.Node
	fusefs.NodeStringLookuper
	fusefs.HandleReadDirAller
}

// FileNode is a read-only file node.
type FileNode interface {
	fusefs.Node
	fusefs.NodeOpener
}

// FileHandleInterface represents an open file handle
type FileHandleInterface interface {
	fusefs.Handle
	fusefs.HandleReader
	fusefs.HandleReleaser
}

var (
	_ fusefs.FS           = (*FS)(nil)
	_ Directory           = (*Dir)(nil)
	_ FileNode            = (*File)(nil)
	_ FileHandleInterface = (*FileHandle)(nil)
)
