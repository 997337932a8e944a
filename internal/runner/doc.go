// Package runner spawns the child processes bx delegates to: the generated
// build scripts and the project's own executable.
package runner
