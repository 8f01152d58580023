package download

import (
	"fmt"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/shtxd/clip/internal/model"
)

// Status lines shown while yt-dlp works
const (
	StatusDownloading  = "Downloading..."
	StatusMerging      = "Merging video and audio..."
	StatusExtracting   = "Extracting audio..."
	StatusPreparing    = "Preparing download..."
	StatusFinishedFile = "Finishing..."
)

// progressFromUpdate converts a go-ytdlp progress report into model.Progress
func progressFromUpdate(update ytdlp.ProgressUpdate, audioOnly bool, now time.Time) model.Progress {
	p := model.Progress{
		Filename: update.Filename,
		ETASec:   -1,
	}

	if update.TotalBytes > 0 {
		p.Percent = min(float64(update.DownloadedBytes)/float64(update.TotalBytes)*100, 100)
	}

	if !update.Started.IsZero() {
		if elapsed := now.Sub(update.Started).Seconds(); elapsed > 0 {
			p.Speed = FormatSpeed(float64(update.DownloadedBytes) / elapsed)
		}
	}

	if eta := update.ETA(); eta > 0 {
		p.ETASec = int(eta.Seconds())
	}

	if update.Info != nil && update.Info.Title != nil {
		p.Title = *update.Info.Title
	}

	switch update.Status {
	case ytdlp.ProgressStatusPostProcessing:
		p.Percent = 100
		p.Status = StatusMerging
		if audioOnly {
			p.Status = StatusExtracting
		}
	case ytdlp.ProgressStatusStarting:
		p.Status = StatusPreparing
	case ytdlp.ProgressStatusFinished:
		p.Percent = 100
		p.Status = StatusFinishedFile
	default:
		p.Status = StatusDownloading
	}

	return p
}

// FormatSpeed renders bytes per second as MiB/s or KiB/s
func FormatSpeed(bytesPerSecond float64) string {
	if bytesPerSecond <= 0 {
		return ""
	}
	if bytesPerSecond >= 1024*1024 {
		return fmt.Sprintf("%.2f MiB/s", bytesPerSecond/1024/1024)
	}
	return fmt.Sprintf("%.1f KiB/s", bytesPerSecond/1024)
}

// isPostProcessing reports whether a status line comes from the ffmpeg stage
func isPostProcessing(status string) bool {
	return status == StatusMerging || status == StatusExtracting
}
