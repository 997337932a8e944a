package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buildx-labs/buildx/internal/argv"
	"github.com/buildx-labs/buildx/internal/branding"
	"github.com/buildx-labs/buildx/internal/config"
	"github.com/buildx-labs/buildx/internal/flags"
	"github.com/buildx-labs/buildx/internal/logging"
	"github.com/buildx-labs/buildx/internal/projectconf"
)

// fallbackVersion is stamped into configs by builds without a release
// version, such as "dev".
const fallbackVersion = "0.5.0"

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	// toolVersion is buildVersion as written to and compared against conf.ini.
	toolVersion projectconf.Version
)

// commandOrder is the order commands are listed in the root usage.
var commandOrder = []string{"new", "build", "run", "install", "project", "config", "doctor", "help", "version"}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds C and C++ projects built with premake, and wraps
building, running and installing them.`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	RunE:               runRoot,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetUsageFunc(func(c *cobra.Command) error {
		writeRootUsage(c.OutOrStdout())
		return nil
	})
}

type rootOptions struct {
	version bool
}

var rootFlags = flags.Table[rootOptions]{
	flags.HelpFlag[rootOptions](),
	{
		Short: 'V',
		Long:  "version",
		Help:  "Print the version and exit.",
		Handle: func(_ *argv.Cursor, o *rootOptions) error {
			o.version = true
			return nil
		},
	},
}

// Execute runs the root command with build info injected via ldflags.
// Errors are reported through the default logger before being returned;
// use ExitCode to turn them into a process exit code.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	v, err := projectconf.ParseVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		v, _ = projectconf.ParseVersion(fallbackVersion)
	}
	toolVersion = v

	err = rootCmd.ExecuteContext(context.Background())
	if !silent(err) {
		slog.Error(err.Error())
	}
	return err
}

// setup loads user config and installs the logger. It runs before every
// command.
func setup(cmd *cobra.Command, _ []string) error {
	cfgErr := config.Load()
	logger := logging.New(config.Get(config.KeyLogLevel), config.Get(config.KeyLogFormat), cmd.ErrOrStderr())
	slog.SetDefault(logger)
	if cfgErr != nil {
		slog.Warn("ignoring user config", "err", cfgErr)
	}
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	c := argv.New(args)
	if c.Done() {
		return cmd.Usage()
	}

	var opts rootOptions
	if err := rootFlags.Process(c, &opts); err != nil {
		return withUsage(cmd, err)
	}
	if opts.version {
		return writeVersion(cmd.OutOrStdout(), versionOptions{})
	}

	tok, _ := c.Peek()
	_ = cmd.Usage()
	return fmt.Errorf("'%s' is not a valid command", tok)
}

func writeRootUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s {%s} ...\n", branding.CLIName(), strings.Join(commandOrder, ","))
	fmt.Fprintf(w, "       %s [-h|--help] [-V|--version]\n\n", branding.CLIName())
	fmt.Fprintln(w, rootCmd.Long)
	fmt.Fprintln(w, "\nCommands:")

	width := 0
	for _, name := range commandOrder {
		width = max(width, len(name))
	}
	for _, name := range commandOrder {
		sub, _, err := rootCmd.Find([]string{name})
		if err != nil || sub == rootCmd {
			continue
		}
		fmt.Fprintf(w, "    %-*s  %s\n", width, name, sub.Short)
	}

	fmt.Fprintf(w, "\nUse `%s COMMAND --help` for more information about a command.\n", branding.CLIName())
}
