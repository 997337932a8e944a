package projectconf

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is the major.minor.patch triple of the tool that wrote a config.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a strict "X.Y.Z" string. Prerelease and build
// metadata suffixes are rejected because the config format has no room for
// them.
func ParseVersion(s string) (Version, error) {
	sv, err := semver.StrictNewVersion(strings.TrimSpace(s))
	if err != nil {
		return Version{}, fmt.Errorf("parsing version %q: %w", s, err)
	}
	if sv.Prerelease() != "" || sv.Metadata() != "" {
		return Version{}, fmt.Errorf("parsing version %q: expected MAJOR.MINOR.PATCH", s)
	}
	return Version{
		Major: int(sv.Major()),
		Minor: int(sv.Minor()),
		Patch: int(sv.Patch()),
	}, nil
}

// String returns the "X.Y.Z" form used in conf.ini.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compatible reports whether a config written by v can be used by the tool
// running at version tool: major and minor must match.
func (v Version) Compatible(tool Version) bool {
	return v.Major == tool.Major && v.Minor == tool.Minor
}

// Current reports whether v is exactly the tool version.
func (v Version) Current(tool Version) bool {
	return v == tool
}

// Compare returns -1, 0 or 1 when v is older than, equal to or newer than o.
func (v Version) Compare(o Version) int {
	return v.semver().Compare(o.semver())
}

func (v Version) semver() *semver.Version {
	return semver.New(uint64(max(v.Major, 0)), uint64(max(v.Minor, 0)), uint64(max(v.Patch, 0)), "", "")
}
