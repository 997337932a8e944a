package projectconf

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Dialect is the language standard a project is compiled with.
type Dialect int

const (
	C99 Dialect = iota
	C11
	C17
	CXX11
	CXX14
	CXX17
)

var dialectNames = [...]string{
	C99:   "c99",
	C11:   "c11",
	C17:   "c17",
	CXX11: "c++11",
	CXX14: "c++14",
	CXX17: "c++17",
}

var upper = cases.Upper(language.Und)

// Dialects returns the canonical dialect names in declaration order.
func Dialects() []string {
	names := make([]string, len(dialectNames))
	copy(names, dialectNames[:])
	return names
}

// ParseDialect maps a dialect name to its Dialect, ignoring case.
func ParseDialect(s string) (Dialect, error) {
	for d, name := range dialectNames {
		if strings.EqualFold(s, name) {
			return Dialect(d), nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid dialect (one of %s)", s, strings.Join(dialectNames[:], ", "))
}

// Valid reports whether d is one of the declared dialects.
func (d Dialect) Valid() bool {
	return d >= C99 && int(d) < len(dialectNames)
}

func (d Dialect) String() string {
	if !d.Valid() {
		return fmt.Sprintf("dialect(%d)", int(d))
	}
	return dialectNames[d]
}

// IsCXX reports whether d is a C++ standard.
func (d Dialect) IsCXX() bool {
	return d >= CXX11
}

// Language returns the premake language name, "C" or "C++".
func (d Dialect) Language() string {
	if d.IsCXX() {
		return "C++"
	}
	return "C"
}

// SourceExt returns the extension of the starter source file.
func (d Dialect) SourceExt() string {
	if d.IsCXX() {
		return "cpp"
	}
	return "c"
}

// PremakeKey returns the premake setting that selects the standard.
func (d Dialect) PremakeKey() string {
	if d.IsCXX() {
		return "cppdialect"
	}
	return "cdialect"
}

// PremakeName returns the standard as premake spells it, e.g. "C++17".
func (d Dialect) PremakeName() string {
	return upper.String(d.String())
}
