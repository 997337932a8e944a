package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buildx-labs/buildx/internal/branding"
	"github.com/buildx-labs/buildx/internal/flags"
)

type optionWriter interface {
	WriteOptions(w io.Writer)
}

type argument struct {
	name string
	help string
}

// commandHelp is the usage text of one command.
type commandHelp struct {
	synopsis  []string // invocations, without the CLI name
	summary   string
	arguments []argument
	options   optionWriter
}

func (h commandHelp) write(w io.Writer) {
	for i, s := range h.synopsis {
		prefix := "Usage:"
		if i > 0 {
			prefix = strings.Repeat(" ", len(prefix))
		}
		fmt.Fprintf(w, "%s %s %s\n", prefix, branding.CLIName(), s)
	}
	if h.summary != "" {
		fmt.Fprintf(w, "\n%s\n", h.summary)
	}
	if len(h.arguments) > 0 {
		width := 0
		for _, a := range h.arguments {
			width = max(width, len(a.name))
		}
		fmt.Fprintln(w, "\nArguments:")
		for _, a := range h.arguments {
			fmt.Fprintf(w, "    %-*s  %s\n", width, a.name, a.help)
		}
	}
	if h.options != nil {
		fmt.Fprintln(w)
		h.options.WriteOptions(w)
	}
}

// attach makes cmd.Usage print h on the command's standard output.
func (h commandHelp) attach(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		h.write(c.OutOrStdout())
		return nil
	})
}

// withUsage prints the usage of cmd when err calls for it and returns err.
func withUsage(cmd *cobra.Command, err error) error {
	if errors.Is(err, flags.ErrHelp) || flags.IsUsageError(err) {
		_ = cmd.Usage()
	}
	return err
}
