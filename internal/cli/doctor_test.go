package cli

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildx-labs/buildx/internal/projectconf"
)

// fakePath makes lookPath find exactly the named programs.
func fakePath(t *testing.T, found ...string) {
	t.Helper()
	prev := lookPath
	lookPath = func(name string) (string, error) {
		for _, f := range found {
			if f == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { lookPath = prev })
}

func TestDoctorHealthyProject(t *testing.T) {
	newProject(t, "hello")
	fakePath(t, "premake5", "make", "gcc", "clang++")

	res := execute(t, "", "doctor")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "[ OK ] premake found at /usr/bin/premake5")
	assert.Contains(t, res.stdout, "[ OK ] C compiler found at /usr/bin/gcc")
	assert.Contains(t, res.stdout, "[ OK ] C++ compiler found at /usr/bin/clang++")
	assert.Contains(t, res.stdout, "[ OK ] conf.ini is valid")
	assert.Contains(t, res.stdout, "[ OK ] premake5.lua matches the config")
	assert.NotContains(t, res.stdout, "[FAIL]")
}

func TestDoctorMissingTools(t *testing.T) {
	t.Chdir(t.TempDir())
	fakePath(t, "cc")

	res := execute(t, "", "doctor")
	var exitErr *ExitError
	require.ErrorAs(t, res.err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Equal(t, "3 check(s) failed", exitErr.Message)
	assert.Contains(t, res.stdout, "[MISS] premake not found")
	assert.Contains(t, res.stdout, "[INFO] not inside a project")
}

func TestDoctorLegacyLayout(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.Mkdir("build", 0755))
	fakePath(t, "premake5", "make", "cc", "c++")

	res := execute(t, "", "doctor")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "[WARN] found an old project layout")
}

func TestDoctorBrokenProject(t *testing.T) {
	root := newProject(t, "hello")
	fakePath(t, "premake5", "make", "cc", "c++")

	conf, err := projectconf.Read(projectconf.Path(root))
	require.NoError(t, err)
	conf.Executable = "renamed"
	require.NoError(t, projectconf.Save(projectconf.Path(root), conf))
	require.NoError(t, os.Remove(filepath.Join(root, ".buildx", "run_release.sh")))
	require.NoError(t, os.Chmod(filepath.Join(root, ".buildx", "build_debug.sh"), 0600))

	res := execute(t, "", "doctor")
	require.Error(t, res.err)
	assert.Contains(t, res.stdout, `[WARN] premake5.lua builds "hello", config says "renamed"`)
	assert.Contains(t, res.stdout, "[FAIL] script run_release.sh is missing")
	assert.Contains(t, res.stdout, "[FAIL] script build_debug.sh is not executable")
	assert.Equal(t, "2 check(s) failed", res.err.Error())
}

func TestDoctorUnreadableConfig(t *testing.T) {
	root := newProject(t, "hello")
	fakePath(t, "premake5", "make", "cc", "c++")
	require.NoError(t, os.WriteFile(projectconf.Path(root), []byte("[buildx]\n"), 0644))

	res := execute(t, "", "doctor")
	require.Error(t, res.err)
	assert.Contains(t, res.stdout, "[FAIL] cannot read conf.ini")
	assert.Equal(t, "1 check(s) failed", res.err.Error())
}
