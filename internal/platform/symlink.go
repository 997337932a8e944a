package platform

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// sidecarExt is appended to a copied install on Windows to record what it
// was copied from.
const sidecarExt = ".target"

// symlink points link at target. Windows needs developer mode for real
// symlinks; without it target is copied and the sidecar remembers it.
func symlink(target, link string) error {
	err := os.Symlink(target, link)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}

	if err := copyExecutable(target, link); err != nil {
		return fmt.Errorf("copying %s in place of a symlink: %w", target, err)
	}
	// The copy runs without the sidecar; only LinkTarget reads it.
	_ = os.WriteFile(link+sidecarExt, []byte(target), FilePerm)
	return nil
}

// Unlink removes an installed file, whichever way Link placed it. A missing
// file is not an error.
func Unlink(path string) error {
	_ = os.Remove(path + sidecarExt)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// LinkTarget returns the file a symlinked install points at. Hard links
// have no target to report and yield an error.
func LinkTarget(path string) (string, error) {
	target, err := os.Readlink(path)
	if err == nil || runtime.GOOS != "windows" {
		return target, err
	}

	data, readErr := os.ReadFile(path + sidecarExt)
	if readErr != nil {
		return "", fmt.Errorf("%s is neither a symlink nor a copied install: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// copyExecutable copies src to dst with the permissions of src. A relative
// src is taken relative to the directory of dst, as a symlink would be.
func copyExecutable(src, dst string) error {
	if !filepath.IsAbs(src) {
		src = filepath.Join(filepath.Dir(dst), src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
