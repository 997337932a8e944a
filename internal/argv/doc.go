// Package argv provides Cursor, a sequential, peekable view over the
// command-line tokens handed to a subcommand. A Cursor can undo exactly one
// Next call, and it knows how to recognize short (-abc) and long (--name)
// flag tokens. Every subcommand drives its flag table off a Cursor.
package argv
