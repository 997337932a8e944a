package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/buildx-labs/buildx/internal/argv"
	"github.com/buildx-labs/buildx/internal/branding"
	"github.com/buildx-labs/buildx/internal/config"
	"github.com/buildx-labs/buildx/internal/flags"
	"github.com/buildx-labs/buildx/internal/platform"
	"github.com/buildx-labs/buildx/internal/scaffold"
)

func init() {
	installUsage.attach(installCmd)
	rootCmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:                "install",
	Short:              "Install the built executable.",
	DisableFlagParsing: true,
	RunE:               runInstall,
}

type installOptions struct {
	destination string
	name        string
	debug       bool
}

var installFlags = flags.Table[installOptions]{
	flags.HelpFlag[installOptions](),
	{
		Short: 'D',
		Long:  "destination",
		Arg:   "PATH",
		Help:  "Directory to install into. Default is `/usr/local/bin`.",
		Handle: func(c *argv.Cursor, o *installOptions) error {
			v, err := flags.Value(c, "-D/--destination", "a path")
			o.destination = v
			return err
		},
	},
	{
		Short: 'n',
		Long:  "name",
		Arg:   "NAME",
		Help:  "Override the name of the installed executable.",
		Handle: func(c *argv.Cursor, o *installOptions) error {
			v, err := flags.Value(c, "-n/--name", "an executable name")
			o.name = v
			return err
		},
	},
	{
		Short: 'd',
		Long:  "debug",
		Help:  "Install the debug executable. Adds a `-debug` suffix to the name unless -n is given.",
		Handle: func(_ *argv.Cursor, o *installOptions) error {
			o.debug = true
			return nil
		},
	},
}

var installUsage = commandHelp{
	synopsis: []string{"install [-h] [-D PATH] [-n NAME] [-d]"},
	summary:  "Link the release (or debug) executable into a directory on your PATH, replacing a previous install.",
	options:  installFlags,
}

func parseInstall(args []string, defaults installOptions) (*installOptions, error) {
	opts := defaults
	c := argv.New(args)
	if err := installFlags.Process(c, &opts); err != nil {
		return nil, err
	}
	if extra, ok := c.Peek(); ok {
		return nil, &flags.UnexpectedArgumentError{Arg: extra}
	}
	return &opts, nil
}

func (o *installOptions) mode() string {
	if o.debug {
		return scaffold.ModeDebug
	}
	return scaffold.ModeRelease
}

// linkName is the installed file name: the -n override, or the executable
// name with a -debug suffix for debug installs.
func (o *installOptions) linkName(executable string) string {
	if o.name != "" {
		return o.name
	}
	if o.debug {
		return executable + "-debug"
	}
	return executable
}

func runInstall(cmd *cobra.Command, args []string) error {
	opts, err := parseInstall(args, installOptions{destination: config.Get(config.KeyInstallDestination)})
	if err != nil {
		return withUsage(cmd, err)
	}

	root, conf, err := loadProject()
	if err != nil {
		return err
	}

	mode := opts.mode()
	exe := filepath.Join(root, conf.OutputDirectory, mode, conf.Executable)
	if _, err := os.Stat(exe); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no %s executable to install; use `%s build --%s` and try again", mode, branding.CLIName(), mode)
		}
		return fmt.Errorf("checking executable: %w", err)
	}

	link := filepath.Join(opts.destination, opts.linkName(conf.Executable))
	if err := removePreviousInstall(link); err != nil {
		return err
	}

	kind, err := platform.Link(exe, link)
	if err != nil {
		return fmt.Errorf("failed to create install: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Installed %s -> %s (%s)\n", link, exe, kind)
	return nil
}

func removePreviousInstall(link string) error {
	info, err := os.Lstat(link)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking previous install: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot install over directory %s", link)
	}

	if target, err := platform.LinkTarget(link); err == nil {
		slog.Debug("replacing previous install", "link", link, "target", target)
	} else {
		slog.Debug("replacing previous install", "path", link)
	}
	if err := platform.Unlink(link); err != nil {
		return fmt.Errorf("failed to delete previous install: %w", err)
	}
	return nil
}
