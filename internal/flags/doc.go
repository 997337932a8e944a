// Package flags implements the per-subcommand flag table and the loop that
// dispatches command-line tokens to it. A Table is an ordered, read-only list
// of (short, long, handler) entries; Process keeps scanning it until no entry
// claims the current token, so flags may appear in any order and be repeated.
package flags
