package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/buildx-labs/buildx/internal/runner"
)

type result struct {
	stdout string
	stderr string
	err    error
}

var configDirs = map[*testing.T]string{}

// configDir returns the user config directory of the running test, a temp
// dir shared by every execute call within it.
func configDir(t *testing.T) string {
	t.Helper()
	if dir, ok := configDirs[t]; ok {
		return dir
	}
	dir := t.TempDir()
	t.Setenv("BX_CONFIG_DIR", dir)
	configDirs[t] = dir
	t.Cleanup(func() { delete(configDirs, t) })
	return dir
}

// execute runs bx with args in an isolated user config directory.
func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	return executeVersion(t, "0.5.0", stdin, args...)
}

func executeVersion(t *testing.T, version, stdin string, args ...string) result {
	t.Helper()
	configDir(t)

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(append([]string{}, args...)) // non-nil: cobra falls back to os.Args on nil
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	err := Execute(version, "abc1234", "2026-01-01")
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

// newProject creates a project called name inside a temp dir and makes it
// the working directory.
func newProject(t *testing.T, name string, args ...string) string {
	t.Helper()
	t.Chdir(t.TempDir())

	res := execute(t, "", append([]string{"new"}, append(args, name)...)...)
	require.NoError(t, res.err, res.stderr)

	root, err := filepath.Abs(name)
	require.NoError(t, err)
	t.Chdir(root)
	return root
}

// touchExecutable creates a stand-in for a built executable.
func touchExecutable(t *testing.T, root, mode, name string) string {
	t.Helper()
	exe := filepath.Join(root, "bin", mode, name)
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755))
	return exe
}

type fakeRunner struct {
	calls []runner.Command
	code  int
	err   error
}

func (f *fakeRunner) Run(_ context.Context, c runner.Command) (*runner.Output, error) {
	f.calls = append(f.calls, c)
	if f.err != nil {
		return nil, f.err
	}
	return &runner.Output{ExitCode: f.code}, nil
}

func useRunner(t *testing.T, f *fakeRunner) {
	t.Helper()
	prev := newRunner
	newRunner = func(*cobra.Command) runner.Runner { return f }
	t.Cleanup(func() { newRunner = prev })
}
