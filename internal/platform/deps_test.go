package platform

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubLookPath(t *testing.T, available map[string]string) {
	t.Helper()
	orig := lookPath
	lookPath = func(file string) (string, error) {
		if p, ok := available[file]; ok {
			return p, nil
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestCheckDependencies_AllPresent(t *testing.T) {
	stubLookPath(t, map[string]string{"yt-dlp": "/usr/bin/yt-dlp", "ffmpeg": "/usr/bin/ffmpeg"})

	deps, err := CheckDependencies(Binaries{})
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, "ffmpeg", deps[0].Name)
	assert.True(t, deps[0].Found)
	assert.Equal(t, "/usr/bin/yt-dlp", deps[1].Path)
}

func TestCheckDependencies_Missing(t *testing.T) {
	stubLookPath(t, map[string]string{"yt-dlp": "/usr/bin/yt-dlp"})

	deps, err := CheckDependencies(Binaries{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingDependency))

	var missing *MissingDependenciesError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"ffmpeg"}, missing.Missing)
	assert.True(t, strings.Contains(err.Error(), "ffmpeg: Download from https://ffmpeg.org/"))
	assert.False(t, deps[0].Found)
}

func TestResolveBinary_PrefersConfigured(t *testing.T) {
	stubLookPath(t, map[string]string{"/opt/yt-dlp": "/opt/yt-dlp", "yt-dlp": "/usr/bin/yt-dlp"})

	p, err := ResolveBinary("/opt/yt-dlp", YTDLPName)
	require.NoError(t, err)
	assert.Equal(t, "/opt/yt-dlp", p)

	// broken configured path falls back to PATH
	p, err = ResolveBinary("/missing/yt-dlp", YTDLPName)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/yt-dlp", p)
}
