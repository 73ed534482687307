// Package mount serves an archive as a read-only FUSE filesystem.
//
// This file contains error types and error handling utilities.
package mount

import (
	"errors"

	"zipvfs/internal/archive"
	"zipvfs/internal/logging"
	"zipvfs/internal/vfs"

	"bazil.org/fuse"
	"golang.org/x/sys/unix"
)

var (
	errLogger = logging.GetLogger().WithPrefix("error")

	// ErrPathNotFound indicates no directory or file exists at a mounted path
	ErrPathNotFound = errors.New("path not found")

	// ErrReadOnly indicates an attempt to modify the read-only mount
	ErrReadOnly = errors.New("filesystem is read-only")
)

// ToFuseError converts an error to the errno FUSE reports to the kernel.
func ToFuseError(err error) error {
	if err == nil {
		return nil
	}

	errLogger.Trace("Converting error to FUSE errno: %v", err)
	switch {
	case errors.Is(err, ErrPathNotFound),
		errors.Is(err, archive.ErrEntryNotFound),
		errors.Is(err, vfs.ErrFileNotFound):
		return fuse.Errno(unix.ENOENT)
	case errors.Is(err, vfs.ErrInvalidPath):
		return fuse.Errno(unix.EINVAL)
	case errors.Is(err, ErrReadOnly):
		return fuse.Errno(unix.EROFS)
	default:
		errLogger.Debug("Unmapped error, returning EIO: %v", err)
		return fuse.Errno(unix.EIO)
	}
}
