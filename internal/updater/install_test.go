package updater

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjacorg/bayanat-cli/internal/appdir"
	"github.com/sjacorg/bayanat-cli/internal/command/commandtest"
	"github.com/sjacorg/bayanat-cli/internal/flaskcli"
)

type installHarness struct {
	b        *Bootstrap
	app      *fakeApp
	code     *fakeCode
	deps     *fakeDeps
	reporter *recordingReporter
	events   []string
	network  int
	netErr   error
}

func newInstallHarness(t *testing.T) *installHarness {
	t.Helper()
	h := &installHarness{reporter: &recordingReporter{}}
	h.app = &fakeApp{
		events:    &h.events,
		migResult: flaskcli.MigrationResult{Outcome: flaskcli.MigrationApplied, Message: "ok"},
	}
	h.code = &fakeCode{events: &h.events}
	h.deps = &fakeDeps{events: &h.events}

	runner := commandtest.New()
	h.b = &Bootstrap{
		Runner:   runner,
		RepoURL:  "https://github.com/sjacorg/bayanat.git",
		Branch:   "master",
		Reporter: h.reporter,
		Resolve:  func(context.Context, string) string { return "1.2.0" },
		NewCode: func(string) CodeSyncer {
			// A successful clone leaves a repository behind.
			h.code.hasRepo = h.code.syncCalls > 0 && h.code.syncErr == nil
			return h.code
		},
		NewDeps: func(string) DepInstaller { return h.deps },
		NewApp:  func(string) AppClient { return h.app },
		Network: func(string) error { h.network++; return h.netErr },
	}
	return h
}

func TestInstallHappyPath(t *testing.T) {
	h := newInstallHarness(t)
	dir := t.TempDir()

	err := h.b.Install(context.Background(), InstallOptions{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, 1, h.network)
	assert.Equal(t, 1, h.code.syncCalls)
	assert.Equal(t, []bool{true}, h.code.forced, "bootstrap clone always forces")
	assert.Equal(t, 1, h.deps.calls)
	assert.Equal(t, 1, h.app.migCalls)

	meta, err := appdir.ReadMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", meta.Version)
	assert.Equal(t, "production", meta.InstallationType)
	assert.False(t, meta.InstalledAt.IsZero())

	info, err := os.Stat(filepath.Join(dir, AppSubdir))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInstallMetadataIsValidJSON(t *testing.T) {
	h := newInstallHarness(t)
	dir := t.TempDir()
	require.NoError(t, h.b.Install(context.Background(), InstallOptions{Dir: dir}))

	raw, err := os.ReadFile(filepath.Join(dir, appdir.MetadataFile))
	require.NoError(t, err)
	assert.True(t, json.Valid(raw))
}

func TestInstallRefusesNonEmptyDirectory(t *testing.T) {
	h := newInstallHarness(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leftover.txt"), []byte("x"), 0644))

	err := h.b.Install(context.Background(), InstallOptions{Dir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
	assert.Zero(t, h.code.syncCalls)
}

func TestInstallForceOverridesEmptinessCheck(t *testing.T) {
	h := newInstallHarness(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leftover.txt"), []byte("x"), 0644))

	err := h.b.Install(context.Background(), InstallOptions{Dir: dir, Force: true})
	require.NoError(t, err)
	assert.Equal(t, 1, h.code.syncCalls)
}

func TestInstallNetworkFailureHaltsBeforeMutation(t *testing.T) {
	h := newInstallHarness(t)
	h.netErr = errors.New("repository unreachable")
	dir := t.TempDir()

	err := h.b.Install(context.Background(), InstallOptions{Dir: dir})
	require.Error(t, err)
	assert.Zero(t, h.code.syncCalls)
	assert.Zero(t, h.deps.calls)

	_, statErr := os.Stat(filepath.Join(dir, AppSubdir))
	assert.True(t, os.IsNotExist(statErr))
}

func TestInstallCloneFailureRollsBack(t *testing.T) {
	h := newInstallHarness(t)
	h.code.syncErr = errors.New("clone failed")
	dir := t.TempDir()

	err := h.b.Install(context.Background(), InstallOptions{Dir: dir})
	require.Error(t, err)
	assert.Zero(t, h.deps.calls)
	assert.NotEmpty(t, h.reporter.warns)

	_, metaErr := appdir.ReadMetadata(dir)
	assert.ErrorIs(t, metaErr, appdir.ErrMetadataNotFound)
}

func TestInstallDepFailureRevertsCheckout(t *testing.T) {
	h := newInstallHarness(t)
	h.deps.err = errors.New("pip exploded")
	dir := t.TempDir()

	err := h.b.Install(context.Background(), InstallOptions{Dir: dir})
	require.Error(t, err)
	assert.Equal(t, 1, h.code.revertCalls, "checkout exists by now, so it is reverted")
}

func TestInstallInitialMigrationFailureIsWarning(t *testing.T) {
	// Before the database is configured, initial migrations can fail;
	// setup completes them later.
	h := newInstallHarness(t)
	h.app.migErr = errors.New("could not connect to database")
	dir := t.TempDir()

	err := h.b.Install(context.Background(), InstallOptions{Dir: dir})
	require.NoError(t, err)
	assert.NotEmpty(t, h.reporter.warns)

	meta, err := appdir.ReadMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", meta.Version)
}
