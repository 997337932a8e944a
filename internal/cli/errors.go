package cli

import (
	"errors"
	"fmt"

	"github.com/buildx-labs/buildx/internal/flags"
)

// ExitError is an error that carries a specific process exit code.
type ExitError struct {
	Code    int
	Message string // empty when there is nothing to report
}

func (e *ExitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Message
}

// ExitCode maps an error returned by Execute to a process exit code: 0 for
// success and help, the carried code for an ExitError, 1 otherwise.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, flags.ErrHelp) {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// silent reports whether err has nothing left to tell the user.
func silent(err error) bool {
	if err == nil || errors.Is(err, flags.ErrHelp) {
		return true
	}
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Message == ""
}
