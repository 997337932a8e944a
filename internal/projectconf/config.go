package projectconf

import (
	"fmt"
	"path/filepath"

	"github.com/buildx-labs/buildx/internal/branding"
)

// FileName is the name of the config file inside the project directory.
const FileName = "conf.ini"

// LegacyDir is the build directory used by releases before .buildx existed.
const LegacyDir = "build"

// Keys accepted in conf.ini.
const (
	KeyVersion          = "version"
	KeyProjectDirectory = "project_directory"
	KeyExecutable       = "executable"
	KeyOutputDirectory  = "output_directory"
	KeySourceDirectory  = "source_directory"
	KeyDialect          = "dialect"
)

// ProjectKeys lists the [project] keys in the order they are written.
var ProjectKeys = []string{
	KeyProjectDirectory,
	KeyExecutable,
	KeyOutputDirectory,
	KeySourceDirectory,
	KeyDialect,
}

// Config is the persisted configuration of one project.
type Config struct {
	Version          Version
	ProjectDirectory string
	Executable       string
	OutputDirectory  string
	SourceDirectory  string
	Dialect          Dialect
}

// Dir returns the hidden tool directory of a project.
func Dir(projectDir string) string {
	return filepath.Join(projectDir, branding.ProjectDir())
}

// Path returns the location of conf.ini for a project.
func Path(projectDir string) string {
	return filepath.Join(Dir(projectDir), FileName)
}

// Get returns the textual value of key as it would appear in conf.ini.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case KeyVersion:
		return c.Version.String(), nil
	case KeyProjectDirectory:
		return c.ProjectDirectory, nil
	case KeyExecutable:
		return c.Executable, nil
	case KeyOutputDirectory:
		return c.OutputDirectory, nil
	case KeySourceDirectory:
		return c.SourceDirectory, nil
	case KeyDialect:
		return c.Dialect.String(), nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
}

// Set changes one [project] setting. The version is owned by the tool and
// cannot be set this way. The record is not validated as a whole; callers
// run Validate (or Save, which does) afterwards.
func (c *Config) Set(key, value string) error {
	if value == "" {
		return fmt.Errorf("setting %s: value cannot be empty", key)
	}

	switch key {
	case KeyVersion:
		return fmt.Errorf("%w: %s is managed by the tool; use `project upgrade`", ErrNotSettable, key)
	case KeyProjectDirectory:
		c.ProjectDirectory = value
	case KeyExecutable:
		c.Executable = value
	case KeyOutputDirectory:
		c.OutputDirectory = value
	case KeySourceDirectory:
		c.SourceDirectory = value
	case KeyDialect:
		d, err := ParseDialect(value)
		if err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
		c.Dialect = d
	default:
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	return nil
}
