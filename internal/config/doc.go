// Package config manages user-level defaults stored at ~/.buildx/config.yaml.
// Values can be overridden with BX_* environment variables, e.g.
// BX_NEW_DIALECT=c11 or BX_LOG_LEVEL=debug.
package config
