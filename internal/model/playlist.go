package model

import (
	"fmt"
	"time"
)

// PreviewTitlesCount is how many titles the playlist preview shows
const PreviewTitlesCount = 3

// PlaylistVideo represents a single entry of a playlist
type PlaylistVideo struct {
	ID          string `json:"id"`
	Index       int    `json:"index"` // 1-based position in the playlist
	Title       string `json:"title"`
	URL         string `json:"url"`
	DurationSec int    `json:"duration_sec,omitempty"` // 0 if unknown
}

// Playlist represents a YouTube playlist with its entries
type Playlist struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Uploader  string           `json:"uploader,omitempty"`
	URL       string           `json:"url"`
	Videos    []*PlaylistVideo `json:"videos"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(url string) *Playlist {
	return &Playlist{
		URL:       url,
		Videos:    make([]*PlaylistVideo, 0),
		CreatedAt: time.Now(),
	}
}

// AddVideo appends an entry, assigning its 1-based index when unset
func (p *Playlist) AddVideo(video *PlaylistVideo) {
	if video.Index == 0 {
		video.Index = len(p.Videos) + 1
	}
	if video.URL == "" && video.ID != "" {
		video.URL = VideoURL(video.ID)
	}
	p.Videos = append(p.Videos, video)
}

// Count returns the number of entries
func (p *Playlist) Count() int {
	return len(p.Videos)
}

// TotalDurationSec sums the known entry durations
func (p *Playlist) TotalDurationSec() int {
	total := 0
	for _, v := range p.Videos {
		total += v.DurationSec
	}
	return total
}

// EstimatedDurationSec extrapolates the average known duration over all entries.
// Returns 0 when no entry has a known duration.
func (p *Playlist) EstimatedDurationSec() int {
	known, total := 0, 0
	for _, v := range p.Videos {
		if v.DurationSec > 0 {
			known++
			total += v.DurationSec
		}
	}
	if known == 0 {
		return 0
	}
	return total / known * len(p.Videos)
}

// EstimatedDurationString renders the estimate as "~1h 5m", or "Duration unknown"
func (p *Playlist) EstimatedDurationString() string {
	est := p.EstimatedDurationSec()
	if est <= 0 {
		return "Duration unknown"
	}
	h := est / 3600
	m := (est % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("~%dh %dm", h, m)
	}
	return fmt.Sprintf("~%dm", m)
}

// PreviewTitles returns up to PreviewTitlesCount entry titles
func (p *Playlist) PreviewTitles() []string {
	n := min(len(p.Videos), PreviewTitlesCount)
	titles := make([]string, 0, n)
	for _, v := range p.Videos[:n] {
		titles = append(titles, v.Title)
	}
	return titles
}

// Select returns the entries covered by r
func (p *Playlist) Select(r PlaylistRange) []*PlaylistVideo {
	lo, hi := r.Bounds(len(p.Videos))
	return p.Videos[lo:hi]
}
