package sysreq

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjacorg/bayanat-cli/internal/command/commandtest"
)

func TestCheckBinaries(t *testing.T) {
	runner := commandtest.New()
	require.NoError(t, CheckBinaries(runner, "git", "python3"))

	runner.Missing["git"] = true
	err := CheckBinaries(runner, "git", "python3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git is not installed")
}

func TestCheckNetwork(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()
		assert.NoError(t, CheckNetwork(srv.URL))
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		err := CheckNetwork(srv.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 503")
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()
		assert.Error(t, CheckNetwork(url))
	})
}

func TestCheckWritable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, CheckWritable(dir))

	// The probe file must not linger.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCheckWritableReadOnlyDir(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	dir := t.TempDir()
	ro := filepath.Join(dir, "ro")
	require.NoError(t, os.Mkdir(ro, 0555))

	err := CheckWritable(ro)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient permissions")
}
