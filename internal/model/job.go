package model

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultFilenameTemplate is the yt-dlp output template used under the destination directory
const DefaultFilenameTemplate = "%(uploader)s - %(title)s.%(ext)s"

var (
	// ErrEmptyURL is returned when the job has no URL
	ErrEmptyURL = errors.New("URL is empty")
	// ErrInvalidURL is returned for URLs that are not YouTube video or playlist links
	ErrInvalidURL = errors.New("invalid YouTube URL")
	// ErrEmptyOutputDir is returned when no destination directory is set
	ErrEmptyOutputDir = errors.New("download directory is not set")
	// ErrInvalidQuality is returned for unknown quality presets
	ErrInvalidQuality = errors.New("unknown quality")
)

// DownloadJob is one user request: a video or a playlist slice
type DownloadJob struct {
	URL       string
	Quality   Quality
	OutputDir string

	// Playlist enables playlist mode; Range selects which entries are downloaded
	Playlist bool
	Range    PlaylistRange

	Subtitles bool
	Thumbnail bool

	// FilenameTemplate overrides DefaultFilenameTemplate when set
	FilenameTemplate string
}

// Normalize trims user input and fills defaults in place
func (j *DownloadJob) Normalize() {
	j.URL = strings.TrimSpace(j.URL)
	j.OutputDir = strings.TrimSpace(j.OutputDir)
	if j.Quality == "" {
		j.Quality = DefaultQuality
	}
	if strings.TrimSpace(j.FilenameTemplate) == "" {
		j.FilenameTemplate = DefaultFilenameTemplate
	}
}

// Validate checks the job before anything is started.
// Writability of OutputDir is checked by the download service, not here.
func (j *DownloadJob) Validate() error {
	if strings.TrimSpace(j.URL) == "" {
		return ErrEmptyURL
	}
	if !IsValidYouTubeURL(j.URL) {
		return fmt.Errorf("%w: %s", ErrInvalidURL, j.URL)
	}
	if !j.Quality.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidQuality, j.Quality)
	}
	if strings.TrimSpace(j.OutputDir) == "" {
		return ErrEmptyOutputDir
	}
	if j.Playlist {
		if err := j.Range.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsPlaylistJob reports whether the job should be expanded into playlist entries
func (j *DownloadJob) IsPlaylistJob() bool {
	return j.Playlist && IsPlaylistURL(j.URL)
}

// ForEntry returns a single-video copy of the job for one playlist entry
func (j *DownloadJob) ForEntry(videoURL string) DownloadJob {
	entry := *j
	entry.URL = videoURL
	entry.Playlist = false
	entry.Range = PlaylistRange{}
	return entry
}

// Progress is the transient state reported while a job runs
type Progress struct {
	Percent  float64 // 0 to 100
	Filename string
	Speed    string // human readable, e.g. "1.25 MiB/s"
	ETASec   int    // -1 if unknown
	Status   string // status line, e.g. "Merging video and audio..."
	Title    string
}
