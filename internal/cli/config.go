package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildx-labs/buildx/internal/argv"
	"github.com/buildx-labs/buildx/internal/branding"
	"github.com/buildx-labs/buildx/internal/config"
	"github.com/buildx-labs/buildx/internal/flags"
)

func init() {
	configUsage.attach(configCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:                "config {get,set,list} ...",
	Short:              "Manage user settings.",
	DisableFlagParsing: true,
	RunE:               runConfig,
}

type configOptions struct{}

var configFlags = flags.Table[configOptions]{
	flags.HelpFlag[configOptions](),
}

var configUsage = commandHelp{
	synopsis: []string{
		"config list",
		"config get KEY",
		"config set KEY VALUE",
	},
	summary: "Read and write the defaults stored in ~/" + branding.HomeDir() + "/config.yaml.",
	arguments: []argument{
		{"list", "Print every setting with its current value."},
		{"get KEY", "Print the value of one setting."},
		{"set KEY VALUE", "Change one setting."},
	},
	options: configFlags,
}

func runConfig(cmd *cobra.Command, args []string) error {
	c := argv.New(args)
	if err := configFlags.Process(c, &configOptions{}); err != nil {
		return withUsage(cmd, err)
	}

	out := cmd.OutOrStdout()
	sub, ok := c.Next()
	if !ok {
		sub = "list"
	}

	var operands []string
	switch sub {
	case "list":
	case "get":
		operands = make([]string, 1)
	case "set":
		operands = make([]string, 2)
	default:
		return withUsage(cmd, &flags.UnexpectedArgumentError{Arg: sub})
	}
	for i := range operands {
		v, err := flags.Value(c, sub, "a key")
		if err != nil {
			return withUsage(cmd, err)
		}
		operands[i] = v
	}
	if extra, ok := c.Peek(); ok {
		return withUsage(cmd, &flags.UnexpectedArgumentError{Arg: extra})
	}

	switch sub {
	case "get":
		if !config.Known(operands[0]) {
			return fmt.Errorf("unknown key %q", operands[0])
		}
		fmt.Fprintln(out, config.Get(operands[0]))
	case "set":
		key, value := operands[0], operands[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(out, "Set %s = %s\n", key, value)
	default:
		for _, key := range config.Keys() {
			fmt.Fprintf(out, "%s = %s\n", key, config.Get(key))
		}
	}
	return nil
}
