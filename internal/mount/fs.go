package mount

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"zipvfs/internal/archive"
	"zipvfs/internal/logging"
	"zipvfs/internal/vfs"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
	"golang.org/x/sync/errgroup"
)

var (
	fsLogger = logging.GetLogger().WithPrefix("mount")
)

// FS is a read-only FUSE filesystem backed by an archive index. The index
// is not reentrant, so every access to it goes through mu.
type FS struct {
	index      *archive.Index
	entries    []string
	fsName     string
	allowOther bool
	uid        uint32 // User ID reported for every node
	gid        uint32 // Group ID reported for every node
	mu         sync.Mutex
}

// Option configures an FS.
type Option func(*FS)

// WithFSName sets the filesystem name shown in the mount table.
func WithFSName(name string) Option {
	return func(f *FS) {
		if name != "" {
			f.fsName = name
		}
	}
}

// WithAllowOther lets users other than the mounting user access the mount.
func WithAllowOther(allow bool) Option {
	return func(f *FS) {
		f.allowOther = allow
	}
}

// WithOwner overrides the uid and gid reported for every node.
func WithOwner(uid, gid uint32) Option {
	return func(f *FS) {
		f.uid = uid
		f.gid = gid
	}
}

// New creates a filesystem over idx. The caller keeps ownership of idx and
// must not close it while the filesystem is served.
func New(idx *archive.Index, opts ...Option) *FS {
	fsLogger.Info("Creating read-only filesystem for %s", idx.Path())

	// Get UID/GID from environment if set
	uid := safeIntToUint32(os.Getuid())
	gid := safeIntToUint32(os.Getgid())

	if puidStr := os.Getenv("PUID"); puidStr != "" {
		if puid, err := strconv.ParseUint(puidStr, 10, 32); err == nil {
			uid = uint32(puid)
			fsLogger.Debug("Using PUID from environment: %d", uid)
		}
	}
	if pgidStr := os.Getenv("PGID"); pgidStr != "" {
		if pgid, err := strconv.ParseUint(pgidStr, 10, 32); err == nil {
			gid = uint32(pgid)
			fsLogger.Debug("Using PGID from environment: %d", gid)
		}
	}

	f := &FS{
		index:   idx,
		entries: idx.Entries(),
		fsName:  "zipvfs",
		uid:     uid,
		gid:     gid,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Root implements the fusefs.FS interface, returning the root directory node.
func (f *FS) Root() (fusefs.Node, error) {
	fsLogger.Trace("Getting root directory node")
	return &Dir{fs: f, path: vfs.Root}, nil
}

func (f *FS) read(entry string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.index.Read(entry)
}

func (f *FS) stat(entry string) (archive.EntryInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.index.Stat(entry)
}

func (f *FS) mountOptions() []fuse.MountOption {
	opts := []fuse.MountOption{
		fuse.FSName(f.fsName),
		fuse.Subtype("zipvfs"),
		fuse.ReadOnly(),
		fuse.DefaultPermissions(),
	}
	if f.allowOther {
		opts = append(opts, fuse.AllowOther())
	}
	return opts
}

// Serve mounts the filesystem at mountPoint and serves requests until ctx
// is cancelled or the mount is removed externally.
func (f *FS) Serve(ctx context.Context, mountPoint string) error {
	fsLogger.Info("Mounting %s at %s", f.index.Path(), mountPoint)
	fsLogger.Debug("UID: %d, GID: %d", f.uid, f.gid)

	c, err := fuse.Mount(mountPoint, f.mountOptions()...)
	if err != nil {
		return fmt.Errorf("mount failed: %w", err)
	}
	defer c.Close()

	served := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(served)
		fsLogger.Info("Serving filesystem...")
		if err := fusefs.Serve(c, f); err != nil {
			return fmt.Errorf("fuse server: %w", err)
		}
		fsLogger.Debug("FUSE server stopped")
		return nil
	})

	g.Go(func() error {
		select {
		case <-served:
			return nil
		case <-gctx.Done():
		}
		fsLogger.Info("Unmounting filesystem from: %s", mountPoint)
		if err := fuse.Unmount(mountPoint); err != nil {
			fsLogger.Error("Unmount failed: %v", err)
			return fmt.Errorf("unmount %s: %w", mountPoint, err)
		}
		return nil
	})

	return g.Wait()
}
