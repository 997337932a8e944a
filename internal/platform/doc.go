// Package platform provides the filesystem operations that differ between
// operating systems: permission bits, symlinks and the hard links used to
// install executables. On Windows symlinks fall back to file copying with a
// .target sidecar when developer mode is unavailable.
package platform
