// Package projectconf reads and writes the per-project configuration record
// stored at .buildx/conf.ini. The file is a small sectioned key/value format:
//
//	[buildx]
//	version = 0.5.0
//
//	[project]
//	project_directory = /home/me/hello
//	executable = hello
//	output_directory = bin
//	source_directory = src
//	dialect = c99
//
// Parsing is strict: unknown sections, unknown keys, malformed values and
// records with missing fields are all rejected. Writing a valid record and
// reading it back yields an identical record.
package projectconf
