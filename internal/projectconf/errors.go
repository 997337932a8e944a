package projectconf

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIncomplete is returned when a file parsed cleanly but did not
	// provide every field.
	ErrIncomplete = errors.New("configuration incomplete")

	// ErrUnknownKey is returned by Get and Set for keys outside the format.
	ErrUnknownKey = errors.New("unknown setting")

	// ErrNotSettable is returned by Set for keys the user may not change.
	ErrNotSettable = errors.New("setting cannot be changed")
)

// ParseError describes a line of conf.ini that could not be parsed.
type ParseError struct {
	Path string
	Line int
	Text string
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s:%d: %s: %q", e.Path, e.Line, e.Msg, e.Text)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationIssue is a single schema violation of a config record.
type ValidationIssue struct {
	Key     string // conf.ini key, empty for record-level problems
	Message string
}

// ValidationError lists everything wrong with a config record.
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Key == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Key+": "+issue.Message)
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}
