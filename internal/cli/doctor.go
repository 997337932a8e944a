package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/buildx-labs/buildx/internal/argv"
	"github.com/buildx-labs/buildx/internal/flags"
	"github.com/buildx-labs/buildx/internal/platform"
	"github.com/buildx-labs/buildx/internal/premake"
	"github.com/buildx-labs/buildx/internal/projectconf"
	"github.com/buildx-labs/buildx/internal/scaffold"
)

func init() {
	doctorUsage.attach(doctorCmd)
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:                "doctor",
	Short:              "Check the toolchain and the current project.",
	DisableFlagParsing: true,
	RunE:               runDoctor,
}

type doctorOptions struct{}

var doctorFlags = flags.Table[doctorOptions]{
	flags.HelpFlag[doctorOptions](),
}

var doctorUsage = commandHelp{
	synopsis: []string{"doctor [-h]"},
	summary:  "Look for the programs generated projects need and, inside a project, check its config, premake5.lua and scripts.",
	options:  doctorFlags,
}

// lookPath finds programs on PATH.
var lookPath = exec.LookPath

// toolchain lists the programs a generated project needs. Each entry is
// satisfied by any one of its candidates.
var toolchain = []struct {
	what       string
	candidates []string
}{
	{"premake", []string{"premake5"}},
	{"make", []string{"make", "gmake"}},
	{"C compiler", []string{"cc", "gcc", "clang"}},
	{"C++ compiler", []string{"c++", "g++", "clang++"}},
}

// report counts failed checks while printing them.
type report struct {
	w        io.Writer
	failures int
}

func (r *report) ok(format string, args ...any)   { r.line("[ OK ]", format, args...) }
func (r *report) warn(format string, args ...any) { r.line("[WARN]", format, args...) }
func (r *report) info(format string, args ...any) { r.line("[INFO]", format, args...) }

func (r *report) fail(format string, args ...any) {
	r.failures++
	r.line("[FAIL]", format, args...)
}

func (r *report) miss(format string, args ...any) {
	r.failures++
	r.line("[MISS]", format, args...)
}

func (r *report) line(tag, format string, args ...any) {
	fmt.Fprintf(r.w, "  %s %s\n", tag, fmt.Sprintf(format, args...))
}

func runDoctor(cmd *cobra.Command, args []string) error {
	c := argv.New(args)
	if err := doctorFlags.Process(c, &doctorOptions{}); err != nil {
		return withUsage(cmd, err)
	}
	if extra, ok := c.Peek(); ok {
		return withUsage(cmd, &flags.UnexpectedArgumentError{Arg: extra})
	}

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	r := &report{w: cmd.OutOrStdout()}
	checkToolchain(r)
	checkProject(cmd, r, root)

	if r.failures > 0 {
		return &ExitError{Code: 1, Message: fmt.Sprintf("%d check(s) failed", r.failures)}
	}
	return nil
}

func checkToolchain(r *report) {
	fmt.Fprintln(r.w, "Toolchain check:")
	for _, tool := range toolchain {
		found := false
		for _, name := range tool.candidates {
			if path, err := lookPath(name); err == nil {
				r.ok("%s found at %s", tool.what, path)
				found = true
				break
			}
		}
		if !found {
			r.miss("%s not found (looked for %v)", tool.what, tool.candidates)
		}
	}
}

func checkProject(cmd *cobra.Command, r *report, root string) {
	fmt.Fprintln(r.w, "Project check:")

	path := projectconf.Path(root)
	conf, err := projectconf.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		if dir, _ := findBuildDir(root); dir != "" {
			r.warn("found an old project layout; run `project upgrade`")
			return
		}
		r.info("not inside a project")
		return
	}
	if err != nil {
		r.fail("cannot read %s: %v", projectconf.FileName, err)
		return
	}
	if err := projectconf.Validate(conf); err != nil {
		r.fail("%v", err)
		return
	}
	r.ok("%s is valid", projectconf.FileName)

	if !conf.Version.Compatible(toolVersion) {
		r.warn("config written by %s, this is %s; run `project upgrade`", conf.Version, toolVersion)
	}
	if conf.ProjectDirectory != root {
		if canonical, err := filepath.EvalSymlinks(root); err != nil || canonical != conf.ProjectDirectory {
			r.warn("project_directory is %s but the project is at %s", conf.ProjectDirectory, root)
		}
	}

	settings, err := premake.ReadFile(cmd.Context(), filepath.Join(root, premake.FileName))
	switch {
	case err != nil:
		r.fail("cannot read %s: %v", premake.FileName, err)
	case settings.Project != conf.Executable:
		r.warn("%s builds %q, config says %q", premake.FileName, settings.Project, conf.Executable)
	case settings.Dialect != conf.Dialect:
		r.warn("%s uses %s, config says %s", premake.FileName, settings.Dialect, conf.Dialect)
	default:
		r.ok("%s matches the config", premake.FileName)
	}

	for _, kind := range []string{"build", "run"} {
		for _, mode := range scaffold.Modes {
			name := scaffold.ScriptName(kind, mode)
			info, err := os.Stat(filepath.Join(projectconf.Dir(root), name))
			switch {
			case err != nil:
				r.fail("script %s is missing", name)
			case !platform.IsExecutable(info):
				r.fail("script %s is not executable", name)
			}
		}
	}
}
