package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildx-labs/buildx/internal/flags"
	"github.com/buildx-labs/buildx/internal/projectconf"
)

func TestProjectPrintsConfig(t *testing.T) {
	root := newProject(t, "hello")
	want, err := os.ReadFile(projectconf.Path(root))
	require.NoError(t, err)

	res := execute(t, "", "project")
	require.NoError(t, res.err)
	assert.Equal(t, string(want), res.stdout)
}

func TestProjectPrintOutsideProject(t *testing.T) {
	t.Chdir(t.TempDir())
	res := execute(t, "", "project")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "could not find conf.ini file")
}

func TestProjectSet(t *testing.T) {
	root := newProject(t, "hello")

	res := execute(t, "", "project", "executable=tool")
	require.NoError(t, res.err)
	assert.Equal(t, "Set executable = tool\n", res.stdout)
	assert.Contains(t, res.stderr, "not updated")

	res = execute(t, "", "project", "dialect=C++17")
	require.NoError(t, res.err)

	conf, err := projectconf.Read(projectconf.Path(root))
	require.NoError(t, err)
	assert.Equal(t, "tool", conf.Executable)
	assert.Equal(t, projectconf.CXX17, conf.Dialect)
}

func TestProjectSetErrors(t *testing.T) {
	root := newProject(t, "hello")
	before, err := os.ReadFile(projectconf.Path(root))
	require.NoError(t, err)

	res := execute(t, "", "project", "version=9.9.9")
	assert.ErrorIs(t, res.err, projectconf.ErrNotSettable)

	res = execute(t, "", "project", "colour=blue")
	assert.ErrorIs(t, res.err, projectconf.ErrUnknownKey)

	res = execute(t, "", "project", "output_directory=/abs")
	var verr *projectconf.ValidationError
	assert.ErrorAs(t, res.err, &verr)

	res = execute(t, "", "project", "executable")
	var unexpected *flags.UnexpectedArgumentError
	assert.ErrorAs(t, res.err, &unexpected)

	after, err := os.ReadFile(projectconf.Path(root))
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestUpgradeUpToDate(t *testing.T) {
	newProject(t, "hello")

	res := execute(t, "", "project", "upgrade")
	require.NoError(t, res.err)
	assert.Equal(t, "Project is already up to date (0.5.0).\n", res.stdout)
}

// moveToLegacy turns a fresh project into the pre-.buildx layout, with a
// config written by an older release.
func moveToLegacy(t *testing.T, root string) string {
	t.Helper()
	legacy := filepath.Join(root, "build")
	require.NoError(t, os.Mkdir(legacy, 0755))

	conf, err := projectconf.Read(projectconf.Path(root))
	require.NoError(t, err)
	conf.Version = projectconf.Version{Major: 0, Minor: 4, Patch: 1}
	require.NoError(t, projectconf.Write(filepath.Join(legacy, projectconf.FileName), conf))

	require.NoError(t, os.RemoveAll(filepath.Join(root, ".buildx")))
	return legacy
}

func TestUpgradeLegacyLayout(t *testing.T) {
	root := newProject(t, "hello")
	legacy := moveToLegacy(t, root)

	res := execute(t, "y\n", "project", "upgrade")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Delete old build directory 'build' [y/n]: ")
	assert.Contains(t, res.stdout, "Upgraded project to 0.5.0.")

	assert.NoDirExists(t, legacy)
	conf, err := projectconf.Read(projectconf.Path(root))
	require.NoError(t, err)
	assert.Equal(t, projectconf.Version{Major: 0, Minor: 5, Patch: 0}, conf.Version)
	assert.Equal(t, "hello", conf.Executable)
	assert.FileExists(t, filepath.Join(root, ".buildx", "build_release.sh"))
	assert.FileExists(t, filepath.Join(root, ".buildx", "run_debug.sh"))
}

func TestUpgradeDeclined(t *testing.T) {
	root := newProject(t, "hello")
	legacy := moveToLegacy(t, root)

	for _, answer := range []string{"n\n", "", "x\n"} {
		res := execute(t, answer, "project", "upgrade")
		require.Error(t, res.err, "answer %q", answer)
		assert.Equal(t, "upgrade cancelled", res.err.Error())
		assert.DirExists(t, legacy)
		assert.NoDirExists(t, filepath.Join(root, ".buildx"))
	}
}

func TestUpgradeOldBuildxDirectory(t *testing.T) {
	root := newProject(t, "hello")
	conf, err := projectconf.Read(projectconf.Path(root))
	require.NoError(t, err)
	conf.Version = projectconf.Version{Major: 0, Minor: 4, Patch: 0}
	require.NoError(t, projectconf.Save(projectconf.Path(root), conf))

	res := execute(t, "Y", "project", "upgrade")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Delete old build directory '.buildx'")

	conf, err = projectconf.Read(projectconf.Path(root))
	require.NoError(t, err)
	assert.Equal(t, projectconf.Version{Major: 0, Minor: 5, Patch: 0}, conf.Version)
}

func TestUpgradeRebuildsFromPremake(t *testing.T) {
	root := newProject(t, "hello", "-d", "c11", "-n", "greeter")
	require.NoError(t, os.RemoveAll(filepath.Join(root, ".buildx")))

	res := execute(t, "", "project", "upgrade")
	require.NoError(t, res.err)
	assert.NotContains(t, res.stdout, "[y/n]")

	canonical, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	conf, err := projectconf.Read(projectconf.Path(root))
	require.NoError(t, err)
	assert.Equal(t, &projectconf.Config{
		Version:          projectconf.Version{Major: 0, Minor: 5, Patch: 0},
		ProjectDirectory: canonical,
		Executable:       "greeter",
		OutputDirectory:  "bin",
		SourceDirectory:  "src",
		Dialect:          projectconf.C11,
	}, conf)
}

func TestUpgradeUnreadableConfig(t *testing.T) {
	root := newProject(t, "hello")
	require.NoError(t, os.WriteFile(projectconf.Path(root), []byte("garbage\n"), 0644))

	res := execute(t, "y", "project", "upgrade")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "rebuilding it from premake5.lua")

	conf, err := projectconf.Read(projectconf.Path(root))
	require.NoError(t, err)
	assert.Equal(t, "hello", conf.Executable)
}

func TestUpgradeToolDirIsFile(t *testing.T) {
	root := newProject(t, "hello")
	require.NoError(t, os.RemoveAll(filepath.Join(root, ".buildx")))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".buildx"), nil, 0644))

	res := execute(t, "", "project", "upgrade")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "non-directory item called '.buildx'")
}

func TestUpgradeWithoutAnything(t *testing.T) {
	t.Chdir(t.TempDir())

	res := execute(t, "", "project", "upgrade")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "rebuilding config")
}

func TestUpgradeUnexpectedArgument(t *testing.T) {
	t.Chdir(t.TempDir())

	res := execute(t, "", "project", "upgrade", "now")
	var unexpected *flags.UnexpectedArgumentError
	require.ErrorAs(t, res.err, &unexpected)
	assert.Equal(t, "now", unexpected.Arg)
}
