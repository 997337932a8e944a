// Package scaffold lays out a new C or C++ project from embedded templates:
// the output and source directories, a starter main file, premake5.lua and
// the build and run scripts kept in the project's .buildx directory.
//
// Nothing is ever overwritten. A file or directory that already exists is
// reported as a warning in the Result and generation carries on.
package scaffold
