package platform

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

// crossDevice makes Link behave as if target and link sat on different
// filesystems.
func crossDevice(t *testing.T) {
	t.Helper()
	prev := hardLink
	hardLink = func(oldname, newname string) error {
		return &os.LinkError{Op: "link", Old: oldname, New: newname, Err: syscall.EXDEV}
	}
	t.Cleanup(func() { hardLink = prev })
}

func writeExecutable(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatal(err)
	}
}

func TestLinkCrossDeviceFallsBackToSymlink(t *testing.T) {
	crossDevice(t)
	tmp := t.TempDir()
	t.Chdir(tmp)
	writeExecutable(t, "app", "#!/bin/sh\necho hi\n")

	link := filepath.Join(t.TempDir(), "app")
	kind, err := Link("app", link)
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	if kind != SymLinked {
		t.Errorf("kind = %v, want %v", kind, SymLinked)
	}

	// The symlink must not depend on the working directory at install time.
	got, err := LinkTarget(link)
	if err != nil {
		t.Fatalf("LinkTarget failed: %v", err)
	}
	if !filepath.IsAbs(got) || filepath.Base(got) != "app" {
		t.Errorf("LinkTarget = %q, want an absolute path to app", got)
	}

	data, err := os.ReadFile(link)
	if err != nil {
		t.Fatalf("reading through link: %v", err)
	}
	if string(data) != "#!/bin/sh\necho hi\n" {
		t.Errorf("content = %q", data)
	}
}

func TestLinkTargetOfHardLink(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "app")
	writeExecutable(t, target, "x")

	link := filepath.Join(tmp, "installed")
	if _, err := Link(target, link); err != nil {
		t.Fatal(err)
	}
	if _, err := LinkTarget(link); err == nil {
		t.Error("LinkTarget of a hard link should fail")
	}
}

func TestUnlink(t *testing.T) {
	crossDevice(t)
	tmp := t.TempDir()
	target := filepath.Join(tmp, "app")
	writeExecutable(t, target, "x")

	link := filepath.Join(tmp, "installed")
	if _, err := Link(target, link); err != nil {
		t.Fatal(err)
	}
	if err := Unlink(link); err != nil {
		t.Fatalf("Unlink failed: %v", err)
	}
	if _, err := os.Lstat(link); !os.IsNotExist(err) {
		t.Error("link still exists after Unlink")
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("target removed with the link: %v", err)
	}

	if err := Unlink(link); err != nil {
		t.Errorf("Unlink of a missing file: %v", err)
	}
}

func TestCopyExecutable(t *testing.T) {
	tmp := t.TempDir()
	writeExecutable(t, filepath.Join(tmp, "app-1.2"), "binary")

	dst := filepath.Join(tmp, "current")
	if err := copyExecutable("app-1.2", dst); err != nil {
		t.Fatalf("copyExecutable failed: %v", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !IsExecutable(info) {
		t.Error("copy lost the execute bit")
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "binary" {
		t.Errorf("content = %q, want %q", data, "binary")
	}

	if err := copyExecutable("app-1.2", dst); err == nil {
		t.Error("copyExecutable over an existing file succeeded")
	}
}
