package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/buildx-labs/buildx/internal/branding"
	"github.com/buildx-labs/buildx/internal/platform"
	"github.com/buildx-labs/buildx/internal/projectconf"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Build modes. Each one has its own output subdirectory and scripts.
const (
	ModeDebug   = "debug"
	ModeRelease = "release"
)

// Modes lists the build modes in the order their files are generated.
var Modes = []string{ModeDebug, ModeRelease}

// sourceExts are the file patterns premake5.lua compiles from the source
// directory.
var sourceExts = []string{"h", "c", "hpp", "cpp", "hxx", "cxx", "cc"}

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"lua": luaString,
		"sh":  shellWord,
	}).ParseFS(templateFS, "templates/*.tmpl"),
)

// Data holds the template variables of one project.
type Data struct {
	ProjectName string
	Executable  string
	OutputDir   string
	SourceDir   string
	Dialect     projectconf.Dialect

	ToolDir string // hidden per-project directory, e.g. ".buildx"
	CLIName string
	Backend string // premake action the build scripts run
	Mode    string // set per script
}

// NewData derives template variables from a project config. projectName
// is the workspace name written to premake5.lua.
func NewData(projectName string, c *projectconf.Config) *Data {
	return &Data{
		ProjectName: projectName,
		Executable:  c.Executable,
		OutputDir:   c.OutputDirectory,
		SourceDir:   c.SourceDirectory,
		Dialect:     c.Dialect,
		ToolDir:     branding.ProjectDir(),
		CLIName:     branding.CLIName(),
		Backend:     "gmake2",
	}
}

// SourceGlobs returns the premake file patterns under the source directory.
func (d *Data) SourceGlobs() []string {
	globs := make([]string, len(sourceExts))
	for i, ext := range sourceExts {
		globs[i] = d.SourceDir + "/**." + ext
	}
	return globs
}

func (d *Data) withMode(mode string) *Data {
	c := *d
	c.Mode = mode
	return &c
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

func (r *Result) warnExists(path string) {
	r.Warnings = append(r.Warnings, fmt.Sprintf("'%s' already exists.", path))
}

// CreateDir makes a single directory. An existing directory is recorded as
// a warning; an existing non-directory is an error.
func (r *Result) CreateDir(path string) error {
	err := os.Mkdir(path, platform.DirPerm)
	if err == nil {
		r.Files = append(r.Files, path+string(filepath.Separator))
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		info, statErr := os.Stat(path)
		if statErr == nil && info.IsDir() {
			r.warnExists(path)
			return nil
		}
		return fmt.Errorf("creating directory %s: path exists and is not a directory", path)
	}
	return fmt.Errorf("creating directory %s: %w", path, err)
}

// CreateFile writes content to a new file and sets its permissions. An
// existing file is recorded as a warning and left untouched.
func (r *Result) CreateFile(path string, content []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			r.warnExists(path)
			return nil
		}
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	// The mode passed to OpenFile is filtered by the umask.
	if err := platform.Chmod(path, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}

	r.Files = append(r.Files, path)
	return nil
}

// Render executes one embedded template.
func Render(name string, data *Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Project generates the files of one project rooted at Root. Each step is
// independent so callers can interleave their own work between them.
type Project struct {
	Root   string
	Data   *Data
	Result Result
}

// NewProject prepares generation into root.
func NewProject(root string, data *Data) *Project {
	return &Project{
		Root:   root,
		Data:   data,
		Result: Result{OutputDir: root},
	}
}

func (p *Project) path(elem ...string) string {
	return filepath.Join(append([]string{p.Root}, elem...)...)
}

// Directories creates the output directory with one subdirectory per build
// mode, the source directory and the tool directory.
func (p *Project) Directories() error {
	dirs := []string{p.path(p.Data.OutputDir)}
	for _, mode := range Modes {
		dirs = append(dirs, p.path(p.Data.OutputDir, mode))
	}
	dirs = append(dirs, p.path(p.Data.SourceDir), p.path(p.Data.ToolDir))

	for _, dir := range dirs {
		if err := p.mkdirParents(dir); err != nil {
			return err
		}
		if err := p.Result.CreateDir(dir); err != nil {
			return err
		}
	}
	return nil
}

// mkdirParents creates the intermediate directories of a nested output or
// source directory such as "build/out".
func (p *Project) mkdirParents(dir string) error {
	parent := filepath.Dir(dir)
	if parent == p.Root || !strings.HasPrefix(parent, p.Root) {
		return nil
	}
	if err := os.MkdirAll(parent, platform.DirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", parent, err)
	}
	return nil
}

// MainSource writes the hello-world starter file into the source directory.
func (p *Project) MainSource() error {
	name := "main." + p.Data.Dialect.SourceExt()
	content, err := Render(name, p.Data)
	if err != nil {
		return err
	}
	return p.Result.CreateFile(p.path(p.Data.SourceDir, name), content, platform.FilePerm)
}

// Premake writes premake5.lua at the project root.
func (p *Project) Premake() error {
	content, err := Render("premake5.lua", p.Data)
	if err != nil {
		return err
	}
	return p.Result.CreateFile(p.path("premake5.lua"), content, platform.FilePerm)
}

// Scripts writes the build and run scripts for every mode into the tool
// directory. They are executable by the owner only.
func (p *Project) Scripts() error {
	for _, kind := range []string{"build", "run"} {
		for _, mode := range Modes {
			content, err := Render(kind+".sh", p.Data.withMode(mode))
			if err != nil {
				return err
			}
			if err := p.Result.CreateFile(p.path(p.Data.ToolDir, ScriptName(kind, mode)), content, platform.ScriptPerm); err != nil {
				return err
			}
		}
	}
	return nil
}

// Gitignore writes a .gitignore covering build products.
func (p *Project) Gitignore() error {
	content, err := Render("gitignore", p.Data)
	if err != nil {
		return err
	}
	return p.Result.CreateFile(p.path(".gitignore"), content, platform.FilePerm)
}

// ScriptName returns the file name of a generated script, e.g.
// ScriptName("build", "debug") is "build_debug.sh".
func ScriptName(kind, mode string) string {
	return kind + "_" + mode + ".sh"
}

// luaString quotes s as a single-quoted Lua string literal.
func luaString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)
	return "'" + r.Replace(s) + "'"
}

// shellWord quotes s for a POSIX shell when it contains anything beyond a
// conservative set of safe characters.
func shellWord(s string) string {
	safe := s != ""
	for _, c := range s {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || strings.ContainsRune("-_./+", c)) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
