package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjacorg/bayanat-cli/internal/appdir"
)

// chdir is a stand-in for testing.T.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("test")
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd("1.0.0")
	require.NotNil(t, root)
	assert.Equal(t, "bayanat-cli", root.Use)
	assert.Equal(t, "1.0.0", root.Version)

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"install", "update", "backup", "restore", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmdPersistentFlags(t *testing.T) {
	root := NewRootCmd("test")
	assert.NotNil(t, root.PersistentFlags().Lookup("debug"))
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestUpdateCmdFlags(t *testing.T) {
	root := NewRootCmd("test")
	update, _, err := root.Find([]string{"update"})
	require.NoError(t, err)

	for _, name := range []string{"skip-git", "skip-deps", "skip-migrations", "skip-restart", "force", "service-name"} {
		flag := update.Flags().Lookup(name)
		require.NotNil(t, flag, "missing flag %s", name)
	}
	assert.Equal(t, "false", update.Flags().Lookup("force").DefValue)
}

func TestUpdateCmdAcceptsExplicitPath(t *testing.T) {
	// The positional path targets that installation; here it fails
	// validation rather than being rejected as an unknown argument.
	target := t.TempDir()

	_, err := executeCommand(t, "update", target)
	require.Error(t, err)

	var verr *appdir.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, target, verr.Path)
}

func TestUpdateCmdRejectsExtraArgs(t *testing.T) {
	_, err := executeCommand(t, "update", "one", "two")
	require.Error(t, err)
}

func TestUpdateCmdOutsideInstallation(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := executeCommand(t, "update")
	require.Error(t, err)

	var verr *appdir.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBackupCmdOutsideInstallation(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := executeCommand(t, "backup")
	require.Error(t, err)

	var verr *appdir.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBackupCmdAcceptsExplicitPath(t *testing.T) {
	target := t.TempDir()

	_, err := executeCommand(t, "backup", target)
	require.Error(t, err)

	var verr *appdir.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, target, verr.Path)
}

func TestRestoreCmdRequiresBackupFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := executeCommand(t, "restore", "missing.dump")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRestoreCmdRequiresArg(t *testing.T) {
	_, err := executeCommand(t, "restore")
	require.Error(t, err)
}

func TestRestoreCmdOutsideInstallation(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	dump := filepath.Join(dir, "x.dump")
	require.NoError(t, os.WriteFile(dump, []byte("dump"), 0644))

	// The backup file exists, but directory validation still runs
	// before any restore command is issued.
	_, err := executeCommand(t, "restore", dump)
	require.Error(t, err)

	var verr *appdir.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestVersionCmdOutsideInstallation(t *testing.T) {
	chdir(t, t.TempDir())

	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bayanat-cli version")
	assert.Contains(t, out, "test")
	assert.NotContains(t, out, "Installed Bayanat version")
}

func TestVersionCmdAcceptsExplicitPath(t *testing.T) {
	// A path that is not an installation still reports the CLI
	// version and omits the application panel.
	out, err := executeCommand(t, "version", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "bayanat-cli version")
	assert.NotContains(t, out, "Installed Bayanat version")
}

func TestRestoreCmdPathFlag(t *testing.T) {
	root := NewRootCmd("test")
	restore, _, err := root.Find([]string{"restore"})
	require.NoError(t, err)
	require.NotNil(t, restore.Flags().Lookup("path"))

	// --path targets that installation instead of the detected one.
	dir := t.TempDir()
	chdir(t, dir)
	dump := filepath.Join(dir, "x.dump")
	require.NoError(t, os.WriteFile(dump, []byte("dump"), 0644))
	target := t.TempDir()

	_, err = executeCommand(t, "restore", dump, "--path", target)
	require.Error(t, err)

	var verr *appdir.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, target, verr.Path)
}

func TestInstallCmdAcceptsAtMostOneArg(t *testing.T) {
	root := NewRootCmd("test")
	install, _, err := root.Find([]string{"install"})
	require.NoError(t, err)
	assert.Error(t, install.Args(&cobra.Command{}, []string{"a", "b"}))
	assert.NoError(t, install.Args(&cobra.Command{}, nil))
}
