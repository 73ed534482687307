package vfs

import (
	"slices"
	"strings"

	"zipvfs/internal/logging"
)

var (
	dirLogger = logging.GetLogger().WithPrefix("dir")
)

// Child is an immediate descendant of a directory.
type Child struct {
	Name  string
	IsDir bool
}

// String renders a directory child with a trailing "/".
func (c Child) String() string {
	if c.IsDir {
		return c.Name + "/"
	}
	return c.Name
}

// Exists reports whether dir is a directory in the archive namespace. The
// root always exists; any other directory exists when at least one entry
// lies strictly below it, including its own empty-directory marker.
func Exists(dir string, entries []string) bool {
	if dir == Root {
		return true
	}
	prefix := archivePrefix(dir)
	for _, e := range entries {
		if strings.HasPrefix(strings.TrimPrefix(e, "/"), prefix) {
			dirLogger.Trace("Directory %q exists (matched %q)", dir, e)
			return true
		}
	}
	dirLogger.Trace("Directory %q does not exist", dir)
	return false
}

// ListChildren derives the immediate children of dir from the flat entry
// list. Directories implied by several descendants appear once. The result
// is sorted by rendered name with files and directories interleaved.
func ListChildren(dir string, entries []string) []Child {
	prefix := archivePrefix(dir)
	seen := make(map[string]bool)
	children := make([]Child, 0)

	for _, e := range entries {
		e = strings.TrimPrefix(e, "/")
		if !strings.HasPrefix(e, prefix) || e == prefix {
			continue
		}
		remainder := strings.TrimPrefix(e, prefix)

		var child Child
		if name, _, isDir := strings.Cut(remainder, "/"); isDir {
			child = Child{Name: name, IsDir: true}
		} else {
			child = Child{Name: remainder}
		}
		if child.Name == "" {
			continue
		}

		key := child.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		children = append(children, child)
	}

	slices.SortFunc(children, func(a, b Child) int {
		return strings.Compare(a.String(), b.String())
	})

	dirLogger.Debug("Directory %q contains %d children", dir, len(children))
	return children
}
