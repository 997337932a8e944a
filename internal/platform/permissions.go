package platform

import (
	"io/fs"
	"os"
	"runtime"
)

// Modes of the files and directories bx generates.
const (
	DirPerm    fs.FileMode = 0755
	FilePerm   fs.FileMode = 0644
	ScriptPerm fs.FileMode = 0700 // build and run scripts, owner only
)

// Chmod sets file permissions. On Windows, which has no Unix permission
// bits, it only checks that path exists.
func Chmod(path string, mode fs.FileMode) error {
	if runtime.GOOS == "windows" {
		_, err := os.Stat(path)
		return err
	}
	return os.Chmod(path, mode)
}

// IsExecutable reports whether the owner of a regular file may run it. On
// Windows every regular file qualifies.
func IsExecutable(info fs.FileInfo) bool {
	if !info.Mode().IsRegular() {
		return false
	}
	return runtime.GOOS == "windows" || info.Mode().Perm()&0100 != 0
}
