package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/buildx-labs/buildx/internal/branding"
	"github.com/buildx-labs/buildx/internal/projectconf"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by bx.
const (
	KeyNewDialect         = "new.dialect"
	KeyNewOutputDir       = "new.output_dir"
	KeyNewSourceDir       = "new.src_dir"
	KeyInstallDestination = "install.destination"
	KeyLogLevel           = "log.level"
	KeyLogFormat          = "log.format"
)

var defaults = map[string]string{
	KeyNewDialect:         "c99",
	KeyNewOutputDir:       "bin",
	KeyNewSourceDir:       "src",
	KeyInstallDestination: "/usr/local/bin",
	KeyLogLevel:           "info",
	KeyLogFormat:          "text",
}

// Keys returns every supported key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Known reports whether key is a supported setting.
func Known(key string) bool {
	_, ok := defaults[key]
	return ok
}

// Dir returns the path to the config directory (~/.buildx/). It can be
// moved with BX_CONFIG_DIR.
func Dir() string {
	if dir := os.Getenv(branding.EnvVar("config_dir")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.buildx/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// A missing file is not an error; a malformed one is.
func Load() error {
	viper.Reset()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", FilePath(), err)
	}
	return nil
}

// Get returns a config value by key, falling back to the built-in default.
func Get(key string) string {
	return viper.GetString(key)
}

// validators reject values the commands reading them would fail on. Keys
// without one accept any non-empty value.
var validators = map[string]func(string) error{
	KeyNewDialect: func(v string) error {
		_, err := projectconf.ParseDialect(v)
		return err
	},
	KeyLogLevel:  oneOf("debug", "info", "warn", "warning", "error"),
	KeyLogFormat: oneOf("text", "json"),
}

func oneOf(choices ...string) func(string) error {
	return func(v string) error {
		if !slices.Contains(choices, strings.ToLower(v)) {
			return fmt.Errorf("%q is not one of %s", v, strings.Join(choices, ", "))
		}
		return nil
	}
}

// Set checks value and saves it to the config file, creating the file and
// its directory when needed.
func Set(key, value string) error {
	if !Known(key) {
		return fmt.Errorf("unknown key %q (one of %s)", key, strings.Join(Keys(), ", "))
	}
	if value == "" {
		return fmt.Errorf("%s: value cannot be empty", key)
	}
	if validate, ok := validators[key]; ok {
		if err := validate(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)
	if err := viper.WriteConfigAs(FilePath()); err != nil {
		return fmt.Errorf("writing %s: %w", FilePath(), err)
	}
	return nil
}
