//go:build windows

package dirstat

import (
	"io/fs"
	"os"
	"syscall"
)

func hasHiddenAttribute(path string, entry fs.DirEntry) bool {
	var (
		info fs.FileInfo
		err  error
	)

	if entry != nil {
		info, err = entry.Info()
	} else {
		info, err = os.Lstat(path)
	}

	if err != nil {
		return false
	}

	data, ok := info.Sys().(*syscall.Win32FileAttributeData)

	return ok && data.FileAttributes&syscall.FILE_ATTRIBUTE_HIDDEN != 0
}
