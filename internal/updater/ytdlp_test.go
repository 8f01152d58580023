package updater

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeYTDLP(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestYTDLPUpdater_Version(t *testing.T) {
	exe := fakeYTDLP(t, "echo 2024.08.06\n")
	u := NewYTDLPUpdater(exe, 0, nil)

	version, err := u.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024.08.06", version)
}

func TestYTDLPUpdater_VersionFailure(t *testing.T) {
	exe := fakeYTDLP(t, "exit 2\n")
	u := NewYTDLPUpdater(exe, 0, nil)

	_, err := u.Version(context.Background())
	assert.Error(t, err)
}

func TestYTDLPUpdater_EnsureInstalledUsesExisting(t *testing.T) {
	exe := fakeYTDLP(t, "echo 2024.08.06\n")
	u := NewYTDLPUpdater(exe, 0, nil)
	u.install = func(context.Context) (string, string, error) {
		t.Fatal("install must not run when yt-dlp exists")
		return "", "", nil
	}

	path, err := u.EnsureInstalled(context.Background())
	require.NoError(t, err)
	assert.Equal(t, exe, path)
}

func TestYTDLPUpdater_EnsureInstalledDownloads(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	u := NewYTDLPUpdater(filepath.Join(t.TempDir(), "missing-yt-dlp"), 0, nil)
	u.install = func(context.Context) (string, string, error) {
		return "/cache/yt-dlp", "2024.08.06", nil
	}

	path, err := u.EnsureInstalled(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/cache/yt-dlp", path)
	assert.Equal(t, "/cache/yt-dlp", u.Executable())

	u.install = func(context.Context) (string, string, error) {
		return "", "", errors.New("offline")
	}
	u.executable = filepath.Join(t.TempDir(), "gone")
	_, err = u.EnsureInstalled(context.Background())
	assert.ErrorContains(t, err, "offline")
}
