package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/buildx-labs/buildx/internal/argv"
	"github.com/buildx-labs/buildx/internal/branding"
	"github.com/buildx-labs/buildx/internal/flags"
)

func init() {
	versionUsage.attach(versionCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:                "version",
	Short:              "Print version information.",
	DisableFlagParsing: true,
	RunE:               runVersion,
}

type versionOptions struct {
	short bool
	json  bool
}

var versionFlags = flags.Table[versionOptions]{
	flags.HelpFlag[versionOptions](),
	{
		Short: 's',
		Long:  "short",
		Help:  "Print the version number only.",
		Handle: func(_ *argv.Cursor, o *versionOptions) error {
			o.short = true
			return nil
		},
	},
	{
		Short: 'j',
		Long:  "json",
		Help:  "Print version information as JSON.",
		Handle: func(_ *argv.Cursor, o *versionOptions) error {
			o.json = true
			return nil
		},
	},
}

var versionUsage = commandHelp{
	synopsis: []string{"version [-h] [-s|-j]"},
	summary:  "Print the version of bx and the config format version it writes.",
	options:  versionFlags,
}

func runVersion(cmd *cobra.Command, args []string) error {
	c := argv.New(args)
	var opts versionOptions
	if err := versionFlags.Process(c, &opts); err != nil {
		return withUsage(cmd, err)
	}
	if extra, ok := c.Peek(); ok {
		return withUsage(cmd, &flags.UnexpectedArgumentError{Arg: extra})
	}
	return writeVersion(cmd.OutOrStdout(), opts)
}

func writeVersion(w io.Writer, opts versionOptions) error {
	if opts.short {
		fmt.Fprintln(w, buildVersion)
		return nil
	}

	if opts.json {
		info := map[string]string{
			"version":        buildVersion,
			"config_version": toolVersion.String(),
			"commit":         buildCommit,
			"date":           buildDate,
		}
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling version info: %w", err)
		}
		fmt.Fprintln(w, string(out))
		return nil
	}

	fmt.Fprintf(w, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), buildVersion, buildCommit, buildDate)
	return nil
}
