package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/buildx-labs/buildx/internal/argv"
	"github.com/buildx-labs/buildx/internal/branding"
	"github.com/buildx-labs/buildx/internal/flags"
	"github.com/buildx-labs/buildx/internal/projectconf"
	"github.com/buildx-labs/buildx/internal/runner"
)

// newRunner returns the process runner used by a command.
var newRunner = func(cmd *cobra.Command) runner.Runner {
	return &runner.ExecRunner{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
}

// loadProject reads the config of the project rooted at the working
// directory. A config written by an incompatible version is still returned,
// with a warning.
func loadProject() (string, *projectconf.Config, error) {
	root, err := os.Getwd()
	if err != nil {
		return "", nil, fmt.Errorf("getting working directory: %w", err)
	}

	path := projectconf.Path(root)
	conf, err := projectconf.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("no project in %s: %s not found (create one with `%s new`, or convert an old one with `%s project upgrade`)",
				root, path, branding.CLIName(), branding.CLIName())
		}
		return "", nil, fmt.Errorf("couldn't read project config: %w", err)
	}

	if !conf.Version.Compatible(toolVersion) {
		slog.Warn("project config was written by a different version; run `"+branding.CLIName()+" project upgrade`",
			"config_version", conf.Version.String(), "version", toolVersion.String())
	}
	return root, conf, nil
}

// modeFlag is a -d/--debug or -r/--release entry storing mode through field.
func modeFlag[T any](mode string, verb string, field func(*T) *string) flags.Flag[T] {
	return flags.Flag[T]{
		Short: mode[0],
		Long:  mode,
		Help:  fmt.Sprintf("%s %s executable.", verb, mode),
		Handle: func(_ *argv.Cursor, o *T) error {
			*field(o) = mode
			return nil
		},
	}
}

// modeEnv is the environment passed to generated scripts.
func modeEnv(root, mode string) map[string]string {
	return map[string]string{
		branding.EnvVar("project_dir"): root,
		branding.EnvVar("build_mode"):  mode,
	}
}
