package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Runner starts a command and waits for it.
type Runner interface {
	// Run returns an error only when the process could not be started or
	// waited for. A non-zero exit status is reported in Output.ExitCode.
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// Command describes one child process.
type Command struct {
	Path string
	Args []string
	Dir  string
	Env  map[string]string // added to the inherited environment
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Output captures the result of a finished process.
type Output struct {
	ExitCode int
	Duration time.Duration
}

// ExecRunner runs commands with os/exec, connecting them to the configured
// streams.
type ExecRunner struct {
	// Stdin, Stdout and Stderr default to the process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes cmd and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Output, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = os.Environ()
	for k, v := range cmd.Env {
		c.Env = setEnv(c.Env, k, v)
	}

	c.Stdin = r.Stdin
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	c.Stdout = r.Stdout
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	c.Stderr = r.Stderr
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}

	start := time.Now()
	err := c.Run()
	out := &Output{Duration: time.Since(start)}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		return nil, fmt.Errorf("running %s: %w", cmd.Path, err)
	}
	return out, nil
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
