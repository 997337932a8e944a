package premake

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/buildx-labs/buildx/internal/projectconf"
)

// FileName is the premake script at the root of a project.
const FileName = "premake5.lua"

// DefaultTimeout bounds evaluation of a script.
const DefaultTimeout = 2 * time.Second

// ErrIncomplete is returned when the script ran but did not declare every
// setting needed to rebuild a config.
var ErrIncomplete = errors.New("premake file is incomplete")

// Settings are the values recorded while evaluating a premake script.
type Settings struct {
	Workspace string
	Project   string
	Dialect   projectconf.Dialect
	SourceDir string
	OutputDir string

	hasDialect bool
}

// Config builds a project config from s. The version is stamped with tool
// and the project directory with projectDir.
func (s *Settings) Config(tool projectconf.Version, projectDir string) *projectconf.Config {
	return &projectconf.Config{
		Version:          tool,
		ProjectDirectory: projectDir,
		Executable:       s.Project,
		OutputDirectory:  s.OutputDir,
		SourceDirectory:  s.SourceDir,
		Dialect:          s.Dialect,
	}
}

// ReadFile evaluates the premake script at p.
func ReadFile(ctx context.Context, p string) (*Settings, error) {
	src, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return Parse(ctx, string(src), p)
}

// Parse evaluates src and returns the recorded settings. name labels the
// chunk in Lua error messages. Evaluation stops when ctx is done or after
// DefaultTimeout, whichever comes first.
func Parse(ctx context.Context, src, name string) (*Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	L := newState()
	defer L.Close()
	L.SetContext(ctx)

	rec := &recorder{}
	rec.install(L)

	fn, err := L.Load(strings.NewReader(src), name)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, 0, nil); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("evaluating %s: %w", name, ctxErr)
		}
		return nil, fmt.Errorf("evaluating %s: %w", name, err)
	}
	if rec.err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", name, rec.err)
	}

	if missing := rec.s.missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w: no %s", name, ErrIncomplete, strings.Join(missing, ", "))
	}
	return &rec.s, nil
}

func (s *Settings) missing() []string {
	var m []string
	if s.Project == "" {
		m = append(m, "project")
	}
	if !s.hasDialect {
		m = append(m, "cdialect or cppdialect")
	}
	if s.SourceDir == "" {
		m = append(m, "includedirs")
	}
	if s.OutputDir == "" {
		m = append(m, "targetdir")
	}
	return m
}

func newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	// No file or process access from a project script.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

type recorder struct {
	s   Settings
	err error
}

func (r *recorder) install(L *lua.LState) {
	// Unknown globals, and anything reached through them, resolve to a
	// callable table that absorbs every use.
	inert := L.NewTable()
	self := L.NewFunction(func(L *lua.LState) int {
		L.Push(inert)
		return 1
	})
	meta := L.NewTable()
	meta.RawSetString("__index", self)
	meta.RawSetString("__call", self)
	L.SetMetatable(inert, meta)

	globalsMeta := L.NewTable()
	globalsMeta.RawSetString("__index", self)
	L.SetMetatable(L.G.Global, globalsMeta)

	r.set(L, "workspace", func(v string) {
		if r.s.Workspace == "" {
			r.s.Workspace = v
		}
	})
	r.set(L, "project", func(v string) {
		if r.s.Project == "" {
			r.s.Project = v
		}
	})
	dialect := func(v string) {
		if r.s.hasDialect {
			return
		}
		d, err := projectconf.ParseDialect(v)
		if err != nil {
			r.err = err
			return
		}
		r.s.Dialect = d
		r.s.hasDialect = true
	}
	r.set(L, "cdialect", dialect)
	r.set(L, "cppdialect", dialect)
	r.set(L, "includedirs", func(v string) {
		if r.s.SourceDir == "" {
			r.s.SourceDir = v
		}
	})
	r.set(L, "targetdir", func(v string) {
		if r.s.OutputDir == "" {
			r.s.OutputDir = outputDir(v)
		}
	})
}

// set registers a DSL function that hands its first string argument to fn.
// Like premake, the argument may be a bare string or a list.
func (r *recorder) set(L *lua.LState, name string, fn func(string)) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		if v, ok := firstString(L.Get(1)); ok {
			fn(v)
		}
		return 0
	}))
}

func firstString(v lua.LValue) (string, bool) {
	switch v := v.(type) {
	case lua.LString:
		return string(v), true
	case *lua.LTable:
		if s, ok := v.RawGetInt(1).(lua.LString); ok {
			return string(s), true
		}
	}
	return "", false
}

// outputDir strips the per-mode subdirectory from a targetdir.
func outputDir(targetdir string) string {
	targetdir = strings.TrimRight(path.Clean(targetdir), "/")
	switch path.Base(targetdir) {
	case "debug", "release":
		if dir := path.Dir(targetdir); dir != "." {
			return dir
		}
	}
	return targetdir
}
