package cli

import (
	"github.com/shtxd/clip/internal/download"
	"github.com/shtxd/clip/internal/history"
	"github.com/shtxd/clip/internal/platform"
	"github.com/shtxd/clip/internal/transcode"
	"github.com/shtxd/clip/internal/updater"
)

func (e *env) binaries() platform.Binaries {
	return platform.Binaries{
		YTDLP:   e.cfg.Binaries.YTDLP,
		FFmpeg:  e.cfg.Binaries.FFmpeg,
		FFprobe: e.cfg.Binaries.FFprobe,
	}
}

func (e *env) metadataService() *platform.MetadataService {
	return platform.NewMetadataService(e.cfg.Binaries.YTDLP, e.cfg.Timeouts.VideoInfo, e.cfg.Timeouts.PlaylistInfo, e.logger)
}

// downloadService wires the yt-dlp runner, playlist lister and history into the queue.
// store may be nil.
func (e *env) downloadService(maxParallel int, store *history.Store) *download.Service {
	runner := download.NewYTDLPRunner(e.cfg.Binaries.YTDLP, e.cfg.Binaries.FFmpeg, e.logger)
	opts := download.Options{
		MaxParallel: maxParallel,
		MaxRetries:  e.cfg.Download.MaxRetries,
		RetryDelay:  e.cfg.Download.RetryDelay,
		Playlists:   e.metadataService(),
		Logger:      e.logger,
	}
	if store != nil {
		opts.History = store
	}
	return download.NewService(runner, opts)
}

func (e *env) transcodeService() *transcode.Service {
	return transcode.NewService(e.cfg.Binaries.FFmpeg, e.cfg.Binaries.FFprobe, e.logger)
}

func (e *env) ytdlpUpdater() *updater.YTDLPUpdater {
	return updater.NewYTDLPUpdater(e.cfg.Binaries.YTDLP, e.cfg.Timeouts.UpdateInstall, e.logger)
}

func (e *env) releaseChecker() *updater.ReleaseChecker {
	return updater.NewReleaseChecker(e.cfg.Update.Repo, updater.AppVersion, e.cfg.Timeouts.UpdateCheck, e.logger)
}
