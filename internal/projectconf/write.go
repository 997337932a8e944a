package projectconf

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const filePerm os.FileMode = 0644

// Format renders c in the conf.ini layout.
func Format(c *Config) []byte {
	var b bytes.Buffer
	fmt.Fprintln(&b, headerBuildx)
	fmt.Fprintf(&b, "%s = %s\n", KeyVersion, c.Version)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, headerProject)
	fmt.Fprintf(&b, "%s = %s\n", KeyProjectDirectory, c.ProjectDirectory)
	fmt.Fprintf(&b, "%s = %s\n", KeyExecutable, c.Executable)
	fmt.Fprintf(&b, "%s = %s\n", KeyOutputDirectory, c.OutputDirectory)
	fmt.Fprintf(&b, "%s = %s\n", KeySourceDirectory, c.SourceDirectory)
	fmt.Fprintf(&b, "%s = %s\n", KeyDialect, c.Dialect)
	return b.Bytes()
}

// Write creates a new config file at path. If the file already exists it is
// left untouched, a warning is logged, and Write reports success. Any other
// failure to create the file is returned.
func Write(path string, c *Config) error {
	if err := Validate(c); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			slog.Warn("config already exists, leaving it unchanged", "path", path)
			return nil
		}
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if _, err := f.Write(Format(c)); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Save writes c to path, replacing any existing file. The new content is
// written to a temporary file in the same directory and renamed into place.
func Save(path string, c *Config) error {
	if err := Validate(c); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+FileName+"-*")
	if err != nil {
		return fmt.Errorf("creating temporary config: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(Format(c)); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temporary config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing temporary config: %w", err)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		return fmt.Errorf("setting permissions on temporary config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
