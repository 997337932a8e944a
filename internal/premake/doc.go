// Package premake recovers project settings from an existing premake5.lua.
//
// The script is executed in a restricted Lua state where the premake DSL
// is stubbed out: the calls bx cares about are recorded and every other
// global resolves to an inert value, so scripts that use more of premake
// than bx generates still evaluate.
package premake
