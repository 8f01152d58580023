package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNewer(t *testing.T) {
	tests := []struct {
		latest, current string
		want            bool
	}{
		{"1.0.0", "1.0.0", false},
		{"v1.2.0", "1.1.9", true},
		{"1.0.1", "1.0", true},
		{"1.10.0", "1.9.0", true},
		{"2024.08.06", "2023.12.30", true},
		{"2023.12.30", "v2024.08.06", false},
		{"1.0.0", "1.0.0-beta", true},
		{"0.0.1", "", true},
	}

	for _, tt := range tests {
		got, err := IsNewer(tt.latest, tt.current)
		require.NoError(t, err)
		if got != tt.want {
			t.Errorf("IsNewer(%q, %q) = %v, want %v", tt.latest, tt.current, got, tt.want)
		}
	}

	_, err := IsNewer("nightly", "1.0.0")
	assert.Error(t, err)
}

func TestPickInstallerAsset(t *testing.T) {
	assets := []Asset{
		{Name: "SHTxd-Clip-1.2.0.zip"},
		{Name: "SHTxd-Clip-portable.exe"},
		{Name: "SHTxd-Clip-Setup-1.2.0.exe"},
		{Name: "SHTxd-Clip-1.2.0.AppImage"},
	}

	assert.Equal(t, "SHTxd-Clip-Setup-1.2.0.exe", PickInstallerAsset(assets, "windows").Name)
	assert.Equal(t, "SHTxd-Clip-1.2.0.AppImage", PickInstallerAsset(assets, "linux").Name)
	assert.Equal(t, "SHTxd-Clip-1.2.0.zip", PickInstallerAsset(assets, "darwin").Name)
	assert.Nil(t, PickInstallerAsset(assets, "plan9"))
}

func newTestChecker(t *testing.T, handler http.HandlerFunc) *ReleaseChecker {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewReleaseChecker("owner/repo", "1.0.0", 0, nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	c.client.BaseURL = base
	c.goos = "windows"
	return c
}

func TestReleaseChecker_UpdateAvailable(t *testing.T) {
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/releases/latest", r.URL.Path)
		assert.Equal(t, "shtxd-clip/1.0.0", r.UserAgent())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"tag_name": "v1.1.0",
			"html_url": "https://github.com/owner/repo/releases/tag/v1.1.0",
			"body": "Bug fixes",
			"assets": [{"name": "Clip-Setup.exe", "browser_download_url": "https://example.com/Clip-Setup.exe"}]
		}`))
	})

	info, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, info.Available)
	assert.Equal(t, "1.1.0", info.LatestVersion)
	assert.Equal(t, "1.0.0", info.CurrentVersion)
	assert.Equal(t, "https://example.com/Clip-Setup.exe", info.DownloadURL)
	assert.Equal(t, "Bug fixes", info.Notes)
}

func TestReleaseChecker_UpToDate(t *testing.T) {
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name": "1.0.0", "assets": []}`))
	})

	info, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, info.Available)
	assert.Empty(t, info.DownloadURL)
}

func TestReleaseChecker_Errors(t *testing.T) {
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	_, err := c.Check(context.Background())
	assert.ErrorIs(t, err, ErrNoReleases)

	c = newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	_, err = c.Check(context.Background())
	assert.ErrorContains(t, err, "403")

	c = newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	_, err = c.Check(context.Background())
	assert.Error(t, err)

	c = newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name": "latest-build"}`))
	})
	_, err = c.Check(context.Background())
	assert.ErrorContains(t, err, "invalid release version")

	c = NewReleaseChecker("no-slash", "1.0.0", 0, nil)
	_, err = c.Check(context.Background())
	assert.ErrorIs(t, err, ErrInvalidRepo)
}
