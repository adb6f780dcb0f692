//go:build !windows

package dirstat

import "io/fs"

func hasHiddenAttribute(string, fs.DirEntry) bool {
	return false
}
