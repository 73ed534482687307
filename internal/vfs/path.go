package vfs

import (
	"path"
	"strings"

	"zipvfs/internal/logging"
)

var (
	pathLogger = logging.GetLogger().WithPrefix("path")
)

// Root is the normalized path of the archive root.
const Root = "/"

// Normalize returns the canonical absolute form of p: a leading "/" is
// implied, repeated separators are collapsed, "." and ".." are resolved
// lexically and there is no trailing "/" except for the root.
func Normalize(p string) string {
	cleaned := path.Clean("/" + p)
	pathLogger.Trace("Normalized path: %q -> %q", p, cleaned)
	return cleaned
}

// Resolve computes the candidate path reached by navigating from current to
// target. It never consults the archive; the caller decides whether the
// candidate exists.
func Resolve(current, target string) (string, error) {
	switch {
	case target == Root:
		return Root, nil
	case target == "..":
		return Parent(current), nil
	case strings.TrimSpace(target) == "":
		return "", newError(OpChdir, target, ErrInvalidPath)
	}

	candidate := Normalize(current + "/" + target)
	pathLogger.Trace("Resolved %q against %q -> %q", target, current, candidate)
	return candidate, nil
}

// Parent returns the parent of a normalized path. The parent of the root is
// the root itself.
func Parent(p string) string {
	if p == Root || p == "" {
		return Root
	}
	return path.Dir(Normalize(p))
}

// archivePrefix converts a normalized directory path into the prefix its
// entries carry inside the archive: "" for the root, "a/b/" otherwise.
func archivePrefix(dir string) string {
	trimmed := strings.TrimPrefix(dir, "/")
	if trimmed == "" {
		return ""
	}
	return trimmed + "/"
}
