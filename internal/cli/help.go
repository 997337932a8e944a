package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildx-labs/buildx/internal/argv"
	"github.com/buildx-labs/buildx/internal/flags"
)

func init() {
	helpUsage.attach(helpCmd)
	rootCmd.SetHelpCommand(helpCmd)
}

var helpCmd = &cobra.Command{
	Use:                "help [COMMAND]",
	Short:              "Show this help message, or the usage of a command.",
	DisableFlagParsing: true,
	RunE:               runHelp,
}

type helpOptions struct{}

var helpFlags = flags.Table[helpOptions]{
	flags.HelpFlag[helpOptions](),
}

var helpUsage = commandHelp{
	synopsis: []string{"help [COMMAND]"},
	summary:  "Show the usage of bx, or of a single command.",
	arguments: []argument{
		{"COMMAND", "Command to describe."},
	},
	options: helpFlags,
}

func runHelp(cmd *cobra.Command, args []string) error {
	c := argv.New(args)
	if err := helpFlags.Process(c, &helpOptions{}); err != nil {
		return withUsage(cmd, err)
	}

	name, ok := c.Next()
	if !ok {
		return rootCmd.Usage()
	}
	if extra, ok := c.Peek(); ok {
		return withUsage(cmd, &flags.UnexpectedArgumentError{Arg: extra})
	}

	for _, sub := range rootCmd.Commands() {
		if sub.Name() == name {
			return sub.Usage()
		}
	}
	_ = rootCmd.Usage()
	return fmt.Errorf("'%s' is not a valid command", name)
}
