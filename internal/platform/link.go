package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// LinkKind tells how Link placed a file.
type LinkKind int

const (
	HardLinked LinkKind = iota
	SymLinked
)

func (k LinkKind) String() string {
	if k == SymLinked {
		return "symbolic link"
	}
	return "hard link"
}

// hardLink is os.Link, replaceable in tests that need a cross-device error.
var hardLink = os.Link

// Link makes link refer to target. A hard link is preferred; when target
// and link are on different filesystems a symlink to the absolute target
// is created instead. link must not exist.
func Link(target, link string) (LinkKind, error) {
	err := hardLink(target, link)
	if err == nil {
		return HardLinked, nil
	}
	if !isCrossDevice(err) {
		return HardLinked, fmt.Errorf("linking %s to %s: %w", link, target, err)
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return SymLinked, fmt.Errorf("resolving %s: %w", target, err)
	}
	if err := symlink(abs, link); err != nil {
		return SymLinked, fmt.Errorf("linking %s to %s: %w", link, abs, err)
	}
	return SymLinked, nil
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
