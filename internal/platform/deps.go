package platform

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// External tool names
const (
	YTDLPName   = "yt-dlp"
	FFmpegName  = "ffmpeg"
	FFprobeName = "ffprobe"
)

// InstallHints tells the user how to get a missing tool
var InstallHints = map[string]string{
	YTDLPName:  "pip install yt-dlp (or use Settings > Install yt-dlp)",
	FFmpegName: "Download from https://ffmpeg.org/",
}

// ErrMissingDependency is wrapped by MissingDependenciesError
var ErrMissingDependency = errors.New("missing dependency")

// Binaries holds configured tool paths. Empty fields are looked up in PATH.
type Binaries struct {
	YTDLP   string
	FFmpeg  string
	FFprobe string
}

// Dependency is the check result for one tool
type Dependency struct {
	Name  string
	Path  string
	Found bool
}

// MissingDependenciesError lists the tools that could not be found
type MissingDependenciesError struct {
	Missing []string
}

func (e *MissingDependenciesError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Missing dependencies: %s\n\nPlease install:", strings.Join(e.Missing, ", "))
	for _, name := range e.Missing {
		if hint, ok := InstallHints[name]; ok {
			fmt.Fprintf(&b, "\n• %s: %s", name, hint)
		}
	}
	return b.String()
}

func (e *MissingDependenciesError) Unwrap() error {
	return ErrMissingDependency
}

// lookPath is replaced in tests
var lookPath = exec.LookPath

// ResolveBinary returns the configured path when it exists, otherwise looks up name in PATH
func ResolveBinary(configured, name string) (string, error) {
	if configured != "" {
		if p, err := lookPath(configured); err == nil {
			return p, nil
		}
	}
	p, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingDependency, name)
	}
	return p, nil
}

// CheckDependencies verifies yt-dlp and ffmpeg are available.
// The returned error is a *MissingDependenciesError when anything is missing.
func CheckDependencies(bins Binaries) ([]Dependency, error) {
	required := map[string]string{
		YTDLPName:  bins.YTDLP,
		FFmpegName: bins.FFmpeg,
	}

	names := make([]string, 0, len(required))
	for name := range required {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		result  []Dependency
		missing []string
	)
	for _, name := range names {
		p, err := ResolveBinary(required[name], name)
		result = append(result, Dependency{Name: name, Path: p, Found: err == nil})
		if err != nil {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return result, &MissingDependenciesError{Missing: missing}
	}
	return result, nil
}

// InstallYTDLP downloads a yt-dlp build into the user cache when none is usable,
// returning the executable path and version
func InstallYTDLP(ctx context.Context) (string, string, error) {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	return resolved.Executable, resolved.Version, nil
}
