package updater

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/shtxd/clip/internal/platform"
)

// DefaultYTDLPTimeout bounds version and update calls
const DefaultYTDLPTimeout = 30 * time.Second

// YTDLPUpdater reports, updates and installs the yt-dlp binary
type YTDLPUpdater struct {
	mu         sync.Mutex
	executable string
	timeout    time.Duration
	logger     *zap.Logger

	// install is replaced in tests
	install func(ctx context.Context) (string, string, error)
}

// NewYTDLPUpdater creates an updater. An empty executable is resolved from PATH.
func NewYTDLPUpdater(executable string, timeout time.Duration, logger *zap.Logger) *YTDLPUpdater {
	if timeout <= 0 {
		timeout = DefaultYTDLPTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YTDLPUpdater{
		executable: executable,
		timeout:    timeout,
		logger:     logger,
		install:    platform.InstallYTDLP,
	}
}

// Executable returns the yt-dlp path in use, "" when PATH lookup is used
func (u *YTDLPUpdater) Executable() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.executable
}

func (u *YTDLPUpdater) command() *ytdlp.Command {
	cmd := ytdlp.New()
	if exe := u.Executable(); exe != "" {
		cmd = cmd.SetExecutable(exe)
	}
	return cmd
}

// Version returns the output of yt-dlp --version
func (u *YTDLPUpdater) Version(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	res, err := u.command().Version(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get yt-dlp version: %w", err)
	}
	version := strings.TrimSpace(res.Stdout)
	if version == "" {
		return "", fmt.Errorf("yt-dlp printed no version")
	}
	return version, nil
}

// Update runs yt-dlp -U and returns the version afterwards
func (u *YTDLPUpdater) Update(ctx context.Context) (string, error) {
	before, _ := u.Version(ctx)

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.command().Update(ctx); err != nil {
		return "", fmt.Errorf("failed to update yt-dlp: %w", err)
	}

	after, err := u.Version(ctx)
	if err != nil {
		return "", err
	}
	u.logger.Info("yt-dlp update finished", zap.String("from", before), zap.String("to", after))
	return after, nil
}

// EnsureInstalled returns a usable yt-dlp path, downloading a build when none is found
func (u *YTDLPUpdater) EnsureInstalled(ctx context.Context) (string, error) {
	if path, err := platform.ResolveBinary(u.Executable(), platform.YTDLPName); err == nil {
		return path, nil
	}

	u.logger.Info("yt-dlp not found, installing")
	path, version, err := u.install(ctx)
	if err != nil {
		return "", err
	}

	u.mu.Lock()
	u.executable = path
	u.mu.Unlock()

	u.logger.Info("yt-dlp installed", zap.String("path", path), zap.String("version", version))
	return path, nil
}
