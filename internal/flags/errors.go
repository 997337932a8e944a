package flags

import (
	"errors"
	"fmt"
)

// ErrHelp is returned by help handlers after they have printed usage. The
// caller must stop the whole invocation and exit successfully.
var ErrHelp = errors.New("help requested")

// MissingValueError reports a value-taking flag at the end of the input.
type MissingValueError struct {
	Flag string // e.g. "-o/--output_dir"
	What string // e.g. "a path"
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("expected %s after `%s` flag", e.What, e.Flag)
}

// InvalidValueError reports a flag value that failed validation.
type InvalidValueError struct {
	Flag   string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid value %q for `%s`", e.Value, e.Flag)
	}
	return fmt.Sprintf("invalid value %q for `%s`: %s", e.Value, e.Flag, e.Reason)
}

// UnexpectedArgumentError reports a token left over after flag processing
// that the command has no use for.
type UnexpectedArgumentError struct {
	Arg string
}

func (e *UnexpectedArgumentError) Error() string {
	return fmt.Sprintf("unexpected argument %q", e.Arg)
}

// IsUsageError reports whether err is an argument error, i.e. one that
// should be followed by the command's usage text.
func IsUsageError(err error) bool {
	var (
		missing    *MissingValueError
		invalid    *InvalidValueError
		unexpected *UnexpectedArgumentError
	)
	return errors.As(err, &missing) || errors.As(err, &invalid) || errors.As(err, &unexpected)
}
