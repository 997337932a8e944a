package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/buildx-labs/buildx/internal/argv"
	"github.com/buildx-labs/buildx/internal/branding"
	"github.com/buildx-labs/buildx/internal/flags"
	"github.com/buildx-labs/buildx/internal/runner"
	"github.com/buildx-labs/buildx/internal/scaffold"
)

func init() {
	runUsage.attach(runCmd)
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:                "run [-- args...]",
	Short:              "Run your already built project.",
	DisableFlagParsing: true,
	RunE:               runRun,
}

type runOptions struct {
	mode string
	args []string
}

func runMode(o *runOptions) *string { return &o.mode }

var runFlags = flags.Table[runOptions]{
	flags.HelpFlag[runOptions](),
	modeFlag("debug", "Run", runMode),
	modeFlag("release", "Run", runMode),
}

var runUsage = commandHelp{
	synopsis: []string{"run [-h] [-d|-r] [-- args...]"},
	summary:  "Run the built executable. Everything after `--` is passed to it, and its exit status becomes bx's.",
	options:  runFlags,
}

func parseRun(args []string) (*runOptions, error) {
	opts := &runOptions{mode: scaffold.ModeDebug}
	c := argv.New(args)
	if err := runFlags.Process(c, opts); err != nil {
		return nil, err
	}
	if c.Match("--") {
		opts.args = c.Rest()
		return opts, nil
	}
	if extra, ok := c.Peek(); ok {
		return nil, &flags.UnexpectedArgumentError{Arg: extra}
	}
	return opts, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	opts, err := parseRun(args)
	if err != nil {
		return withUsage(cmd, err)
	}

	root, conf, err := loadProject()
	if err != nil {
		return err
	}

	exe := filepath.Join(root, conf.OutputDirectory, opts.mode, conf.Executable)
	if _, err := os.Stat(exe); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no executable; use `%s build --%s` first", branding.CLIName(), opts.mode)
		}
		return fmt.Errorf("checking executable: %w", err)
	}

	out, err := newRunner(cmd).Run(cmd.Context(), runner.Command{Path: exe, Args: opts.args})
	if err != nil {
		return fmt.Errorf("failed to run executable '%s': %w", exe, err)
	}
	switch {
	case out.ExitCode < 0:
		return fmt.Errorf("%s was terminated by a signal", conf.Executable)
	case out.ExitCode > 0:
		return &ExitError{Code: out.ExitCode}
	}
	return nil
}
