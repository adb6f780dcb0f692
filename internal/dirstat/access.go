package dirstat

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// IsAccessible reports whether the directory at path can be listed.
// Any failure yields false.
func IsAccessible(path string) bool {
	dir, err := os.Open(path)
	if err != nil {
		return false
	}
	defer dir.Close()

	if _, err := dir.ReadDir(1); err != nil && err != io.EOF {
		return false
	}

	return true
}

// FileSize returns the size of the file at path, following symlinks.
// Any failure, including the file vanishing since it was listed, yields 0.
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}

	return info.Size()
}

// IsHidden reports whether the entry at path is hidden: its name starts with
// a dot or, on Windows, it carries the hidden attribute.
// entry may be nil, in which case the attribute is read from path.
func IsHidden(path string, entry fs.DirEntry) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}

	return hasHiddenAttribute(path, entry)
}

// isFile reports whether entry is a regular file or a symlink to one.
func isFile(path string, entry fs.DirEntry) bool {
	typ := entry.Type()
	if typ.IsRegular() {
		return true
	}

	if typ&fs.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
