package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/buildx-labs/buildx/internal/argv"
	"github.com/buildx-labs/buildx/internal/flags"
	"github.com/buildx-labs/buildx/internal/projectconf"
	"github.com/buildx-labs/buildx/internal/runner"
	"github.com/buildx-labs/buildx/internal/scaffold"
)

func init() {
	buildUsage.attach(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:                "build",
	Short:              "Build the project.",
	DisableFlagParsing: true,
	RunE:               runBuild,
}

type buildOptions struct {
	mode string
}

func buildMode(o *buildOptions) *string { return &o.mode }

// -d and -r may both be given; the last one wins. In a combined token such
// as -dr, -d comes first in the table and wins.
var buildFlags = flags.Table[buildOptions]{
	flags.HelpFlag[buildOptions](),
	modeFlag("debug", "Build", buildMode),
	modeFlag("release", "Build", buildMode),
}

var buildUsage = commandHelp{
	synopsis: []string{"build [-h] [-d|-r]"},
	summary:  "Run the project's generated build script. Builds debug unless -r is passed.",
	options:  buildFlags,
}

func parseBuild(args []string) (*buildOptions, error) {
	opts := &buildOptions{mode: scaffold.ModeDebug}
	c := argv.New(args)
	if err := buildFlags.Process(c, opts); err != nil {
		return nil, err
	}
	if extra, ok := c.Peek(); ok {
		return nil, &flags.UnexpectedArgumentError{Arg: extra}
	}
	return opts, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	opts, err := parseBuild(args)
	if err != nil {
		return withUsage(cmd, err)
	}

	root, _, err := loadProject()
	if err != nil {
		return err
	}

	script := filepath.Join(projectconf.Dir(root), scaffold.ScriptName("build", opts.mode))
	slog.Debug("running build script", "script", script)

	out, err := newRunner(cmd).Run(cmd.Context(), runner.Command{
		Path: script,
		Dir:  root,
		Env:  modeEnv(root, opts.mode),
	})
	if err != nil {
		return fmt.Errorf("failed to run build script '%s': %w", script, err)
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("%s build failed: %s exited with status %d", opts.mode, filepath.Base(script), out.ExitCode)
	}

	slog.Debug("build finished", "mode", opts.mode, "duration", out.Duration.Round(time.Millisecond))
	return nil
}
