package model

import (
	"time"
)

// VideoInfo is the preview metadata of a single video
type VideoInfo struct {
	ID           string
	URL          string
	Title        string
	Uploader     string
	Description  string
	Thumbnail    string
	DurationSec  int
	ViewCount    int64
	UploadDate   time.Time // zero if unknown
	IsLive       bool
	WebpageURL   string
	Extractor    string
	FormatsCount int
}

// DurationString renders the duration as M:SS, or "Unknown"
func (v *VideoInfo) DurationString() string {
	if v.DurationSec <= 0 {
		return "Unknown"
	}
	return FormatClock(v.DurationSec)
}

// UploadDateString renders the upload date as YYYY-MM-DD, or "Unknown"
func (v *VideoInfo) UploadDateString() string {
	if v.UploadDate.IsZero() {
		return "Unknown"
	}
	return v.UploadDate.Format("2006-01-02")
}

// ViewCountString renders the view count with thousands separators
func (v *VideoInfo) ViewCountString() string {
	return FormatCount(v.ViewCount)
}

// ShortDescription returns the first part of the description for previews
func (v *VideoInfo) ShortDescription() string {
	return TruncateText(v.Description, 200)
}
