package ui

import (
	"context"

	"go.uber.org/zap"

	"github.com/shtxd/clip/internal/download"
	"github.com/shtxd/clip/internal/history"
	"github.com/shtxd/clip/internal/logging"
	"github.com/shtxd/clip/internal/model"
	"github.com/shtxd/clip/internal/platform"
	"github.com/shtxd/clip/internal/transcode"
	"github.com/shtxd/clip/internal/updater"
)

// MetadataSource loads preview information
type MetadataSource interface {
	VideoInfo(ctx context.Context, url string) (*model.VideoInfo, error)
	Playlist(ctx context.Context, url string) (*model.Playlist, error)
}

// HistorySource lists and clears finished downloads
type HistorySource interface {
	List() ([]*history.Entry, error)
	Clear() error
}

// YTDLPManager reports and updates the yt-dlp binary
type YTDLPManager interface {
	Version(ctx context.Context) (string, error)
	Update(ctx context.Context) (string, error)
	EnsureInstalled(ctx context.Context) (string, error)
}

// ReleaseSource checks for application updates
type ReleaseSource interface {
	Check(ctx context.Context) (*updater.UpdateInfo, error)
}

// Services bundles what the UI drives. Nil optional services hide their controls.
type Services struct {
	Downloads  download.Downloader
	Metadata   MetadataSource
	Transcoder transcode.Transcoder // optional
	History    HistorySource        // optional
	YTDLP      YTDLPManager         // optional
	Releases   ReleaseSource        // optional
	Binaries   platform.Binaries
	Sink       *logging.Sink // optional
	Logger     *zap.Logger
}
