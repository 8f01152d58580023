package download

import (
	"context"

	"github.com/shtxd/clip/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(model.DownloadTask))
	Submit(ctx context.Context, job model.DownloadJob) ([]model.DownloadTask, error)
	GetTask(id string) (model.DownloadTask, bool)
	GetAllTasks() []model.DownloadTask
	Cancel(id string) error
	CancelAll()
	Retry(id string) error
	Remove(id string) error
	Wait(ctx context.Context) error

	// SetMaxParallelDownloads sets the maximum number of parallel downloads
	SetMaxParallelDownloads(max int)
}

// Runner performs one yt-dlp run for a single-video job
type Runner interface {
	Run(ctx context.Context, job model.DownloadJob, onProgress func(model.Progress)) (*RunResult, error)
}

// RunResult describes what a run produced
type RunResult struct {
	Files []string
	Title string
}

// PlaylistSource enumerates playlist entries
type PlaylistSource interface {
	Playlist(ctx context.Context, url string) (*model.Playlist, error)
}

// HistoryRecorder stores finished downloads
type HistoryRecorder interface {
	RecordDownload(task model.DownloadTask) error
}
