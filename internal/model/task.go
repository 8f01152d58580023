package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DownloadTask is the runtime record of one download job entry
type DownloadTask struct {
	ID     string
	Job    DownloadJob
	Status TaskStatus

	Percent    float64 // 0 to 100
	Speed      string  // human readable speed (e.g., "1.2 MiB/s")
	ETASec     int     // ETA in seconds, -1 if unknown
	StatusText string  // last status line from the extractor
	Filename   string  // file currently being written

	Title       string   // video title once known
	OutputFiles []string // files written by the run
	LastError   string   // last error message if any
	Attempts    int

	// PlaylistIndex is the 1-based entry position for playlist jobs, 0 otherwise
	PlaylistIndex int

	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

// URL returns the job URL
func (dt *DownloadTask) URL() string {
	return dt.Job.URL
}

// OutputPath returns the primary output file, or "" when nothing was written
func (dt *DownloadTask) OutputPath() string {
	if len(dt.OutputFiles) == 0 {
		return ""
	}
	return dt.OutputFiles[len(dt.OutputFiles)-1]
}

// ApplyProgress copies a progress report into the task
func (dt *DownloadTask) ApplyProgress(p Progress) {
	// yt-dlp restarts at 0 for the audio stream of a merged download
	if p.Percent > dt.Percent {
		dt.Percent = p.Percent
	}
	dt.Speed = p.Speed
	dt.ETASec = p.ETASec
	if p.Status != "" {
		dt.StatusText = p.Status
	}
	if p.Filename != "" {
		dt.Filename = p.Filename
	}
	if p.Title != "" {
		dt.Title = p.Title
	}
}

// Snapshot returns a copy safe to hand to another goroutine
func (dt *DownloadTask) Snapshot() DownloadTask {
	cp := *dt
	cp.OutputFiles = append([]string(nil), dt.OutputFiles...)
	return cp
}

// GetETAString returns ETA formatted as hh:mm:ss, or a dash placeholder if unknown
func (dt *DownloadTask) GetETAString() string {
	if dt.ETASec <= 0 {
		return "—"
	}

	hours := dt.ETASec / 3600
	minutes := (dt.ETASec % 3600) / 60
	seconds := dt.ETASec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// GetDisplayTitle returns title, output file name, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	name := dt.OutputPath()
	if name == "" {
		name = dt.Filename
	}
	if name != "" {
		// support both / and \ separators
		parts := strings.FieldsFunc(name, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			base := parts[len(parts)-1]
			return strings.TrimSuffix(base, filepath.Ext(base))
		}
	}

	return dt.Job.URL
}

// TranscodeKind selects the ffmpeg operation
type TranscodeKind string

const (
	TranscodeRemux        TranscodeKind = "remux"
	TranscodeCompress     TranscodeKind = "compress"
	TranscodeExtractAudio TranscodeKind = "extract_audio"
)

// TranscodeTask represents a single ffmpeg job
type TranscodeTask struct {
	ID         string
	Kind       TranscodeKind
	InputPath  string
	OutputPath string
	Status     TaskStatus
	Percent    int    // 0 to 100
	LastError  string // last error message if any
	StartedAt  time.Time
	FinishedAt time.Time
}
