package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buildx-labs/buildx/internal/argv"
	"github.com/buildx-labs/buildx/internal/branding"
	"github.com/buildx-labs/buildx/internal/flags"
	"github.com/buildx-labs/buildx/internal/premake"
	"github.com/buildx-labs/buildx/internal/projectconf"
	"github.com/buildx-labs/buildx/internal/scaffold"
)

func init() {
	projectUsage.attach(projectCmd)
	rootCmd.AddCommand(projectCmd)
}

var projectCmd = &cobra.Command{
	Use:                "project [SETTING=VALUE | upgrade]",
	Short:              "Show or change project settings, or upgrade an old project.",
	DisableFlagParsing: true,
	RunE:               runProject,
}

type projectOptions struct{}

var projectFlags = flags.Table[projectOptions]{
	flags.HelpFlag[projectOptions](),
}

var projectUsage = commandHelp{
	synopsis: []string{
		"project [-h]",
		"project SETTING=VALUE",
		"project upgrade [-h]",
	},
	summary: "Print the project config, change one setting, or upgrade the project to this version of bx.",
	arguments: []argument{
		{"SETTING=VALUE", "One of " + strings.Join(projectconf.ProjectKeys, ", ") + "."},
		{"upgrade", "Upgrade the project to the latest version of bx."},
	},
	options: projectFlags,
}

func runProject(cmd *cobra.Command, args []string) error {
	c := argv.New(args)
	upgrade := c.Match("upgrade")

	if err := projectFlags.Process(c, &projectOptions{}); err != nil {
		return withUsage(cmd, err)
	}

	if upgrade {
		if extra, ok := c.Peek(); ok {
			return withUsage(cmd, &flags.UnexpectedArgumentError{Arg: extra})
		}
		return upgradeProject(cmd)
	}

	tok, ok := c.Next()
	if !ok {
		return showProject(cmd)
	}
	key, value, found := strings.Cut(tok, "=")
	if !found {
		return withUsage(cmd, &flags.UnexpectedArgumentError{Arg: tok})
	}
	if extra, ok := c.Peek(); ok {
		return withUsage(cmd, &flags.UnexpectedArgumentError{Arg: extra})
	}
	return setProjectSetting(cmd, strings.TrimSpace(key), strings.TrimSpace(value))
}

func showProject(cmd *cobra.Command) error {
	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	path := projectconf.Path(root)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("could not find %s file at '%s'", projectconf.FileName, path)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func setProjectSetting(cmd *cobra.Command, key, value string) error {
	root, conf, err := loadProject()
	if err != nil {
		return err
	}

	if err := conf.Set(key, value); err != nil {
		return err
	}
	if err := projectconf.Save(projectconf.Path(root), conf); err != nil {
		return err
	}

	if key != projectconf.KeyProjectDirectory {
		slog.Warn("premake5.lua and the generated scripts are not updated; edit them to match", "setting", key)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

// upgradeProject converts the project in the working directory to the
// current layout and config version. The old config is read from .buildx or
// the legacy build directory; when neither has a usable one it is rebuilt
// from premake5.lua.
func upgradeProject(cmd *cobra.Command) error {
	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	toolDir := projectconf.Dir(root)

	oldDir, err := findBuildDir(root)
	if err != nil {
		return err
	}

	var conf *projectconf.Config
	if oldDir != "" {
		c, err := projectconf.Read(filepath.Join(oldDir, projectconf.FileName))
		if err != nil {
			slog.Warn("couldn't use the existing config; rebuilding it from "+premake.FileName, "err", err)
		} else {
			conf = c
		}
	}

	rebuilt := conf == nil
	if rebuilt {
		s, err := premake.ReadFile(cmd.Context(), filepath.Join(root, premake.FileName))
		if err != nil {
			return fmt.Errorf("rebuilding config: %w", err)
		}
		conf = s.Config(toolVersion, root)
	}

	if !rebuilt && oldDir == toolDir && conf.Version.Current(toolVersion) {
		fmt.Fprintf(cmd.OutOrStdout(), "Project is already up to date (%s).\n", toolVersion)
		return nil
	}

	if oldDir != "" {
		name, _ := filepath.Rel(root, oldDir)
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete old build directory '%s'", name))
		if err != nil {
			return err
		}
		if !ok {
			slog.Info("Stopping upgrade because of user response. To upgrade, either preserve the old build directory and rerun, or let upgrade replace it.")
			return errors.New("upgrade cancelled")
		}
		if err := os.RemoveAll(oldDir); err != nil {
			return fmt.Errorf("failed to delete old build directory: %w", err)
		}
	}

	canonical, err := filepath.EvalSymlinks(root)
	if err != nil {
		return fmt.Errorf("resolving project directory: %w", err)
	}
	conf.ProjectDirectory = canonical
	conf.Version = toolVersion

	p := scaffold.NewProject(root, scaffold.NewData(filepath.Base(canonical), conf))
	err = runSteps([]step{
		{"creating " + branding.ProjectDir(), func() error { return p.Result.CreateDir(toolDir) }},
		{"writing config", func() error { return projectconf.Write(projectconf.Path(root), conf) }},
		{"writing scripts", p.Scripts},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Upgraded project to %s.\n", toolVersion)
	return nil
}

// findBuildDir returns the directory holding the project's config: .buildx
// when present, otherwise the legacy build directory, otherwise "".
func findBuildDir(root string) (string, error) {
	toolDir := projectconf.Dir(root)
	info, err := os.Stat(toolDir)
	if err == nil {
		if !info.IsDir() {
			return "", fmt.Errorf("non-directory item called '%s' found in project; rename it and run `%s project upgrade` again",
				branding.ProjectDir(), branding.CLIName())
		}
		return toolDir, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking %s: %w", toolDir, err)
	}

	legacy := filepath.Join(root, projectconf.LegacyDir)
	if info, err := os.Stat(legacy); err == nil && info.IsDir() {
		return legacy, nil
	}
	return "", nil
}
