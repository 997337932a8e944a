package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/spf13/cobra"

	"github.com/buildx-labs/buildx/internal/argv"
	"github.com/buildx-labs/buildx/internal/config"
	"github.com/buildx-labs/buildx/internal/flags"
	"github.com/buildx-labs/buildx/internal/projectconf"
	"github.com/buildx-labs/buildx/internal/scaffold"
)

func init() {
	newUsage.attach(newCmd)
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:                "new [project_path]",
	Short:              "Initialize a new project.",
	DisableFlagParsing: true,
	RunE:               runNew,
}

type newOptions struct {
	outputDir string
	sourceDir string
	dialect   projectconf.Dialect
	name      string
	git       bool
	path      string
}

var newFlags = flags.Table[newOptions]{
	flags.HelpFlag[newOptions](),
	{
		Short: 'o',
		Long:  "output_dir",
		Arg:   "DIR",
		Help:  "Set the output directory. Default is `bin`.",
		Handle: func(c *argv.Cursor, o *newOptions) error {
			v, err := flags.Value(c, "-o/--output_dir", "a path")
			o.outputDir = v
			return err
		},
	},
	{
		Short: 's',
		Long:  "src_dir",
		Arg:   "DIR",
		Help:  "Set the source directory. Default is `src`.",
		Handle: func(c *argv.Cursor, o *newOptions) error {
			v, err := flags.Value(c, "-s/--src_dir", "a path")
			o.sourceDir = v
			return err
		},
	},
	{
		Short: 'd',
		Long:  "dialect",
		Arg:   "NAME",
		Help:  "Set the language standard, one of c99, c11, c17, c++11, c++14, c++17. Default is `c99`.",
		Handle: func(c *argv.Cursor, o *newOptions) error {
			v, err := flags.Value(c, "-d/--dialect", "a dialect")
			if err != nil {
				return err
			}
			d, err := projectconf.ParseDialect(v)
			if err != nil {
				return &flags.InvalidValueError{Flag: "-d/--dialect", Value: v, Reason: "not a valid dialect variant"}
			}
			o.dialect = d
			return nil
		},
	},
	{
		Long: "cpp",
		Help: "Make a C++ project. Alias for `-d c++17`.",
		Handle: func(_ *argv.Cursor, o *newOptions) error {
			o.dialect = projectconf.CXX17
			return nil
		},
	},
	{
		Short: 'n',
		Long:  "name",
		Arg:   "NAME",
		Help:  "Override the name of the executable. Defaults to the project name.",
		Handle: func(c *argv.Cursor, o *newOptions) error {
			v, err := flags.Value(c, "-n/--name", "an identifier")
			o.name = v
			return err
		},
	},
	{
		Short: 'g',
		Long:  "git",
		Help:  "Also write a .gitignore and initialize a git repository.",
		Handle: func(_ *argv.Cursor, o *newOptions) error {
			o.git = true
			return nil
		},
	},
}

var newUsage = commandHelp{
	synopsis: []string{"new [-h] [-o DIR] [-s DIR] [-d NAME] [--cpp] [-n NAME] [-g] [project_path]"},
	summary:  "Create the directory layout, config, starter source, premake5.lua and build scripts of a project.",
	arguments: []argument{
		{"project_path", "Directory of the project; its base name names the project (and the executable if `-n` is not passed). Defaults to the current directory."},
	},
	options: newFlags,
}

// newDefaults returns the options record before flags are applied, seeded
// from user config.
func newDefaults() (newOptions, error) {
	d, err := projectconf.ParseDialect(config.Get(config.KeyNewDialect))
	if err != nil {
		return newOptions{}, fmt.Errorf("user config %s: %w", config.KeyNewDialect, err)
	}
	return newOptions{
		outputDir: config.Get(config.KeyNewOutputDir),
		sourceDir: config.Get(config.KeyNewSourceDir),
		dialect:   d,
	}, nil
}

func parseNew(args []string, defaults newOptions) (*newOptions, error) {
	opts := defaults
	c := argv.New(args)
	if err := newFlags.Process(c, &opts); err != nil {
		return nil, err
	}
	if path, ok := c.Next(); ok {
		opts.path = path
	}
	if extra, ok := c.Peek(); ok {
		return nil, &flags.UnexpectedArgumentError{Arg: extra}
	}
	return &opts, nil
}

func runNew(cmd *cobra.Command, args []string) error {
	defaults, err := newDefaults()
	if err != nil {
		return err
	}
	opts, err := parseNew(args, defaults)
	if err != nil {
		return withUsage(cmd, err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	root := cwd
	create := opts.path != "" && opts.path != "."
	if create {
		root = opts.path
		if !filepath.IsAbs(root) {
			root = filepath.Join(cwd, root)
		}
	}

	projectName := filepath.Base(root)
	conf := &projectconf.Config{
		Version:          toolVersion,
		ProjectDirectory: root,
		Executable:       opts.name,
		OutputDirectory:  opts.outputDir,
		SourceDirectory:  opts.sourceDir,
		Dialect:          opts.dialect,
	}
	if conf.Executable == "" {
		conf.Executable = projectName
	}
	if err := projectconf.Validate(conf); err != nil {
		return err
	}

	p := scaffold.NewProject(root, scaffold.NewData(projectName, conf))
	if create {
		if err := p.Result.CreateDir(root); err != nil {
			return err
		}
	}
	if conf.ProjectDirectory, err = filepath.EvalSymlinks(root); err != nil {
		return fmt.Errorf("resolving project directory: %w", err)
	}

	steps := []step{
		{"creating directories", p.Directories},
		{"writing config", func() error { return projectconf.Write(projectconf.Path(root), conf) }},
		{"writing starter source", p.MainSource},
		{"writing premake5.lua", p.Premake},
		{"writing scripts", p.Scripts},
	}
	if opts.git {
		steps = append(steps,
			step{"writing .gitignore", p.Gitignore},
			step{"initializing git repository", func() error { return initRepository(root) }},
		)
	}

	if err := runSteps(steps); err != nil {
		return err
	}

	for _, w := range p.Result.Warnings {
		slog.Warn(w)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s project '%s' in %s\n", conf.Dialect.Language(), projectName, conf.ProjectDirectory)
	return nil
}

// step is one stage of a multi-stage command. Stages run in order and the
// first failure stops the rest.
type step struct {
	what string
	run  func() error
}

func runSteps(steps []step) error {
	for _, s := range steps {
		slog.Debug(s.what)
		if err := s.run(); err != nil {
			return fmt.Errorf("%s: %w", s.what, err)
		}
	}
	return nil
}

// initRepository creates a git repository at root unless one exists.
func initRepository(root string) error {
	_, err := git.PlainInit(root, false)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		slog.Warn("git repository already exists", "path", root)
		return nil
	}
	return err
}
