package flags

import (
	"fmt"
	"io"
	"strings"

	"github.com/buildx-labs/buildx/internal/argv"
)

// Handler applies one flag to the options record of a command. The flag
// token itself has already been consumed; handlers that take a value read
// it from c.
type Handler[T any] func(c *argv.Cursor, opts *T) error

// Flag describes one entry of a Table.
type Flag[T any] struct {
	Short  byte   // single letter, 0 when the flag has no short form
	Long   string // name without the leading dashes
	Arg    string // metavar shown in usage, empty for boolean flags
	Help   string
	Handle Handler[T]
}

// Name renders the flag the way diagnostics refer to it, e.g. "-o/--output_dir".
func (f Flag[T]) Name() string {
	if f.Short == 0 {
		return "--" + f.Long
	}
	return "-" + string(f.Short) + "/--" + f.Long
}

// Table is an ordered set of flags. Order decides precedence when more than
// one entry claims the same token.
type Table[T any] []Flag[T]

// Process dispatches tokens from c to the table until the current token is
// not a flag of this table or the input runs out.
//
// Each pass walks the table in order and stops at the first entry whose
// IsFlag matches. That entry's token is consumed, its handler runs, and the
// next pass starts again from the top of the table. A combined short token
// such as "-dr" therefore fires only the first matching entry.
func (t Table[T]) Process(c *argv.Cursor, opts *T) error {
	for !c.Done() {
		f, ok := t.lookup(c)
		if !ok {
			return nil
		}
		c.Next()
		if err := f.Handle(c, opts); err != nil {
			return err
		}
	}
	return nil
}

func (t Table[T]) lookup(c *argv.Cursor) (Flag[T], bool) {
	for _, f := range t {
		if c.IsFlag(f.Short, f.Long) {
			return f, true
		}
	}
	return Flag[T]{}, false
}

// WriteOptions renders the "Options:" block of a usage message.
func (t Table[T]) WriteOptions(w io.Writer) {
	fmt.Fprintln(w, "Options:")

	labels := make([]string, len(t))
	width := 0
	for i, f := range t {
		var b strings.Builder
		if f.Short != 0 {
			fmt.Fprintf(&b, "-%c, ", f.Short)
		}
		b.WriteString("--" + f.Long)
		if f.Arg != "" {
			b.WriteString(" " + f.Arg)
		}
		labels[i] = b.String()
		width = max(width, len(labels[i]))
	}

	for i, f := range t {
		fmt.Fprintf(w, "    %-*s  %s\n", width, labels[i], f.Help)
	}
}

// Value consumes the token following a value-taking flag. what describes
// the expected value in the error message ("a path", "a dialect").
func Value(c *argv.Cursor, flag, what string) (string, error) {
	v, ok := c.Next()
	if !ok {
		return "", &MissingValueError{Flag: flag, What: what}
	}
	return v, nil
}

// HelpFlag is the -h/--help entry shared by every command. Its handler
// only signals ErrHelp; printing usage is left to the command, which knows
// where its output goes.
func HelpFlag[T any]() Flag[T] {
	return Flag[T]{
		Short: 'h',
		Long:  "help",
		Help:  "Show this help message.",
		Handle: func(_ *argv.Cursor, _ *T) error {
			return ErrHelp
		},
	}
}
