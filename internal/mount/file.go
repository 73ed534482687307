package mount

import (
	"context"
	"fmt"
	"sync"

	"zipvfs/internal/logging"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var (
	fileLogger = logging.GetLogger().WithPrefix("file")
)

// File is a file entry of the mounted archive.
type File struct {
	fs    *FS
	path  string // mounted path, for logging
	entry string // exact archive entry name
}

// Attr implements the Node interface, returning the file's attributes.
func (f *File) Attr(_ context.Context, a *fuse.Attr) error {
	fileLogger.Trace("Getting attributes for file: %q", f.path)

	info, err := f.fs.stat(f.entry)
	if err != nil {
		fileLogger.Warn("Failed to stat %q: %v", f.entry, err)
		return ToFuseError(err)
	}

	a.Mode = 0o444
	a.Size = info.Size
	a.Mtime = info.Modified
	a.Atime = info.Modified // We don't track access time
	a.Ctime = info.Modified // We don't track creation time
	a.Uid = f.fs.uid
	a.Gid = f.fs.gid
	a.BlockSize = 4096
	a.Blocks = (info.Size + 511) / 512

	fileLogger.Trace("File attributes: mode=%v, size=%d, mtime=%v", a.Mode, a.Size, a.Mtime)
	return nil
}

// Open implements the NodeOpener interface. The entry is decompressed once
// into memory and served from the returned handle.
func (f *File) Open(_ context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fusefs.Handle, error) {
	fileLogger.Debug("Opening file %q with flags %v", f.path, req.Flags)

	if !req.Flags.IsReadOnly() {
		fileLogger.Warn("Attempted write access to read-only file: %q", f.path)
		return nil, ToFuseError(fmt.Errorf("open %s: %w", f.path, ErrReadOnly))
	}

	data, err := f.fs.read(f.entry)
	if err != nil {
		fileLogger.Error("Failed to read entry %q: %v", f.entry, err)
		return nil, ToFuseError(err)
	}

	// Archive content never changes while mounted
	resp.Flags |= fuse.OpenKeepCache

	fileLogger.Debug("Successfully opened file %q (%d bytes)", f.path, len(data))
	return &FileHandle{data: data, path: f.path}, nil
}

// FileHandle is an open file whose content is held in memory.
type FileHandle struct {
	data []byte
	path string // For logging purposes
	mu   sync.RWMutex
}

// Read implements the HandleReader interface, reading data from the file.
func (fh *FileHandle) Read(_ context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	fh.mu.RLock()
	defer fh.mu.RUnlock()

	fileLogger.Trace("Reading %d bytes from file %q at offset %d", req.Size, fh.path, req.Offset)

	size := int64(len(fh.data))
	if req.Offset < 0 || req.Offset >= size {
		resp.Data = resp.Data[:0]
		return nil
	}
	end := req.Offset + int64(req.Size)
	if end > size {
		end = size
	}

	resp.Data = fh.data[req.Offset:end]
	fileLogger.Trace("Successfully read %d bytes", len(resp.Data))
	return nil
}

// Release implements the HandleReleaser interface, dropping the buffer.
func (fh *FileHandle) Release(_ context.Context, _ *fuse.ReleaseRequest) error {
	fh.mu.Lock()
	defer fh.mu.Unlock()

	fileLogger.Debug("Closing file %q", fh.path)
	fh.data = nil
	return nil
}
