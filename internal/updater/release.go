package updater

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/hashicorp/go-version"
	"go.uber.org/zap"
)

// AppVersion is the running application version, overridden at build time with
// -ldflags "-X github.com/shtxd/clip/internal/updater.AppVersion=..."
var AppVersion = "1.0.0"

// Release check settings
const (
	DefaultReleaseTimeout = 10 * time.Second
	UserAgentPrefix       = "shtxd-clip/"
)

var (
	// ErrNoReleases is returned when the repository has no published release
	ErrNoReleases = errors.New("no releases published")
	// ErrInvalidRepo is returned when the repository is not in owner/name form
	ErrInvalidRepo = errors.New("repository must be owner/name")
)

// Asset is a downloadable file attached to a release
type Asset struct {
	Name               string
	BrowserDownloadURL string
	Size               int64
}

// UpdateInfo is the result of a release check
type UpdateInfo struct {
	Available      bool
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
	DownloadURL    string // installer for this OS, "" when none matches
	Notes          string
}

// ReleaseChecker queries GitHub for the latest application release
type ReleaseChecker struct {
	repo           string
	currentVersion string
	goos           string
	client         *github.Client
	logger         *zap.Logger
}

// NewReleaseChecker creates a checker for owner/name
func NewReleaseChecker(repo, currentVersion string, timeout time.Duration, logger *zap.Logger) *ReleaseChecker {
	if timeout <= 0 {
		timeout = DefaultReleaseTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client := github.NewClient(&http.Client{Timeout: timeout})
	client.UserAgent = UserAgentPrefix + currentVersion
	return &ReleaseChecker{
		repo:           repo,
		currentVersion: currentVersion,
		goos:           runtime.GOOS,
		client:         client,
		logger:         logger,
	}
}

// Check fetches the latest release and compares it with the running version
func (c *ReleaseChecker) Check(ctx context.Context) (*UpdateInfo, error) {
	owner, name, ok := strings.Cut(c.repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRepo, c.repo)
	}

	release, _, err := c.client.Repositories.GetLatestRelease(ctx, owner, name)
	if err != nil {
		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound {
			return nil, ErrNoReleases
		}
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}

	latest := strings.TrimPrefix(release.GetTagName(), "v")
	available, err := IsNewer(latest, c.currentVersion)
	if err != nil {
		return nil, err
	}

	info := &UpdateInfo{
		Available:      available,
		CurrentVersion: c.currentVersion,
		LatestVersion:  latest,
		ReleaseURL:     release.GetHTMLURL(),
		Notes:          release.GetBody(),
	}
	if asset := PickInstallerAsset(releaseAssets(release), c.goos); asset != nil {
		info.DownloadURL = asset.BrowserDownloadURL
	}

	c.logger.Info("release check finished",
		zap.String("current", info.CurrentVersion),
		zap.String("latest", info.LatestVersion),
		zap.Bool("available", info.Available))
	return info, nil
}

func releaseAssets(release *github.RepositoryRelease) []Asset {
	assets := make([]Asset, 0, len(release.Assets))
	for _, a := range release.Assets {
		assets = append(assets, Asset{
			Name:               a.GetName(),
			BrowserDownloadURL: a.GetBrowserDownloadURL(),
			Size:               int64(a.GetSize()),
		})
	}
	return assets
}

// IsNewer reports whether latest is a higher version than current. Both accept an optional
// "v" prefix and dated tags such as "2024.08.06". An unparsable current version is treated
// as outdated.
func IsNewer(latest, current string) (bool, error) {
	lv, err := version.NewVersion(strings.TrimSpace(latest))
	if err != nil {
		return false, fmt.Errorf("invalid release version %q: %w", latest, err)
	}
	cv, err := version.NewVersion(strings.TrimSpace(current))
	if err != nil {
		return true, nil
	}
	return lv.GreaterThan(cv), nil
}

// installerSuffixes lists the asset extensions accepted per OS, best first
var installerSuffixes = map[string][]string{
	"windows": {".exe", ".msi"},
	"darwin":  {".dmg", ".pkg", ".zip"},
	"linux":   {".appimage", ".deb", ".tar.xz", ".tar.gz"},
}

// PickInstallerAsset chooses the release asset for goos.
// Names containing "setup" or "installer" win over other matches.
func PickInstallerAsset(assets []Asset, goos string) *Asset {
	var fallback *Asset
	for _, suffix := range installerSuffixes[goos] {
		for i := range assets {
			name := strings.ToLower(assets[i].Name)
			if !strings.HasSuffix(name, suffix) {
				continue
			}
			if strings.Contains(name, "setup") || strings.Contains(name, "installer") {
				return &assets[i]
			}
			if fallback == nil {
				fallback = &assets[i]
			}
		}
	}
	return fallback
}
