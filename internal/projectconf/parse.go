package projectconf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type section int

const (
	sectionOpen section = iota
	sectionBuildx
	sectionProject
)

const (
	headerBuildx  = "[buildx]"
	headerProject = "[project]"
)

// field is a presence bit for one config field.
type field uint8

const (
	fieldVersion field = 1 << iota
	fieldProjectDirectory
	fieldExecutable
	fieldOutputDirectory
	fieldSourceDirectory
	fieldDialect

	allFields = fieldVersion | fieldProjectDirectory | fieldExecutable |
		fieldOutputDirectory | fieldSourceDirectory | fieldDialect
)

var fieldKeys = []struct {
	bit field
	key string
}{
	{fieldVersion, KeyVersion},
	{fieldProjectDirectory, KeyProjectDirectory},
	{fieldExecutable, KeyExecutable},
	{fieldOutputDirectory, KeyOutputDirectory},
	{fieldSourceDirectory, KeySourceDirectory},
	{fieldDialect, KeyDialect},
}

func (f field) keys() []string {
	var keys []string
	for _, fk := range fieldKeys {
		if f&fk.bit != 0 {
			keys = append(keys, fk.key)
		}
	}
	return keys
}

// Read opens and parses the config file at path.
func Read(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse reads a config from r. name is used in error messages.
//
// The parser is a line state machine. A blank line always leaves the
// current section; outside a section only the two headers are accepted.
func Parse(r io.Reader, name string) (*Config, error) {
	var (
		c    Config
		seen field
		sec  = sectionOpen
		n    int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		n++
		line := strings.TrimSuffix(sc.Text(), "\r")
		fail := func(msg string, err error) error {
			return &ParseError{Path: name, Line: n, Text: line, Msg: msg, Err: err}
		}

		if strings.TrimSpace(line) == "" {
			sec = sectionOpen
			continue
		}

		switch sec {
		case sectionOpen:
			switch line {
			case headerBuildx:
				sec = sectionBuildx
			case headerProject:
				sec = sectionProject
			default:
				return nil, fail("unexpected line outside of a section", nil)
			}

		case sectionBuildx:
			key, value, err := splitKeyValue(line)
			if err != nil || key != KeyVersion {
				return nil, fail("unexpected line in [buildx] section", err)
			}
			v, err := ParseVersion(value)
			if err != nil {
				return nil, fail("unable to parse version", err)
			}
			c.Version = v
			seen |= fieldVersion

		case sectionProject:
			key, value, err := splitKeyValue(line)
			if err != nil {
				return nil, fail("unexpected line in [project] section", err)
			}
			switch key {
			case KeyProjectDirectory:
				c.ProjectDirectory = value
				seen |= fieldProjectDirectory
			case KeyExecutable:
				c.Executable = value
				seen |= fieldExecutable
			case KeyOutputDirectory:
				c.OutputDirectory = value
				seen |= fieldOutputDirectory
			case KeySourceDirectory:
				c.SourceDirectory = value
				seen |= fieldSourceDirectory
			case KeyDialect:
				d, err := ParseDialect(value)
				if err != nil {
					return nil, fail("unable to parse dialect", err)
				}
				c.Dialect = d
				seen |= fieldDialect
			default:
				return nil, fail("unexpected line in [project] section", fmt.Errorf("%w %q", ErrUnknownKey, key))
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	if missing := allFields &^ seen; missing != 0 {
		return nil, fmt.Errorf("%s: %w: missing %s", name, ErrIncomplete, strings.Join(missing.keys(), ", "))
	}
	return &c, nil
}

// splitKeyValue splits "key = value". The value runs to the end of the
// line; only the blanks right after '=' are dropped.
func splitKeyValue(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", errors.New("expected `key = value`")
	}
	key = strings.TrimSpace(key)
	value = strings.TrimLeft(value, " \t")
	if key == "" {
		return "", "", errors.New("missing key")
	}
	if value == "" {
		return "", "", fmt.Errorf("missing value for %s", key)
	}
	return key, value, nil
}
