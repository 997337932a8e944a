// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed, so a fork only has to edit that one file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	ProjectDir  string `yaml:"project_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	GitHubRepo  string `yaml:"github_repo"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is empty or malformed.
		defaults = brand{
			CLIName:     "bx",
			DisplayName: "buildx",
			Description: "Scaffold, build, run and install C/C++ projects",
			HomeDir:     ".buildx",
			ProjectDir:  ".buildx",
			EnvPrefix:   "BX",
			GoModule:    "github.com/buildx-labs/buildx",
			GitHubRepo:  "buildx-labs/buildx",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "bx").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "buildx").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".buildx").
func HomeDir() string { load(); return defaults.HomeDir }

// ProjectDir returns the hidden directory created at the root of every
// project (e.g., ".buildx"). It holds conf.ini and the generated scripts.
func ProjectDir() string { load(); return defaults.ProjectDir }

// EnvPrefix returns the environment variable prefix (e.g., "BX").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// GitHubRepo returns the "owner/repo" string.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("log_level") → "BX_LOG_LEVEL".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
