// Package cli defines the Cobra command tree for bx. Cobra only routes on
// the first token: every command disables Cobra's flag parsing and runs its
// own flags.Table over an argv.Cursor, with a fresh options struct per
// invocation. Command implementations delegate to internal packages for the
// actual work and only handle argument resolution, output and prompts.
package cli
