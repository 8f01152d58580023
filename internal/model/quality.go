package model

import (
	"fmt"
	"strings"
)

// Quality is a user-facing format preset handed to yt-dlp
type Quality string

const (
	QualityBest  Quality = "best"
	Quality1080p Quality = "1080p"
	Quality720p  Quality = "720p"
	QualityWorst Quality = "worst"
	QualityAudio Quality = "audio"
)

// DefaultQuality is used when no preset was chosen
const DefaultQuality = QualityBest

// Container and codec defaults for the presets
const (
	MergeContainerMP4 = "mp4"
	AudioFormatMP3    = "mp3"
)

// AllQualities lists the presets in the order the UI shows them
var AllQualities = []Quality{QualityBest, Quality1080p, Quality720p, QualityWorst, QualityAudio}

// FormatSpec describes how a preset is passed to yt-dlp
type FormatSpec struct {
	// Selector is the -f value
	Selector string
	// MergeFormat is the --merge-output-format value, empty when no merge is needed
	MergeFormat string
	// ExtractAudio enables -x with AudioFormat
	ExtractAudio bool
	AudioFormat  string
}

// String returns the string representation of Quality
func (q Quality) String() string {
	return string(q)
}

// IsValid reports whether q is one of the known presets
func (q Quality) IsValid() bool {
	for _, known := range AllQualities {
		if q == known {
			return true
		}
	}
	return false
}

// IsAudioOnly reports whether the preset produces an audio file
func (q Quality) IsAudioOnly() bool {
	return q == QualityAudio
}

// Spec returns the yt-dlp format parameters for the preset
func (q Quality) Spec() FormatSpec {
	switch q {
	case Quality1080p:
		return FormatSpec{
			Selector:    "bv*[height<=1080]+ba[ext=m4a]/best[height<=1080]",
			MergeFormat: MergeContainerMP4,
		}
	case Quality720p:
		return FormatSpec{
			Selector:    "bv*[height<=720]+ba[ext=m4a]/best[height<=720]",
			MergeFormat: MergeContainerMP4,
		}
	case QualityWorst:
		return FormatSpec{Selector: "worst[ext=mp4]"}
	case QualityAudio:
		return FormatSpec{
			Selector:     "bestaudio",
			ExtractAudio: true,
			AudioFormat:  AudioFormatMP3,
		}
	default:
		return FormatSpec{
			Selector:    "bv*+ba[ext=m4a]/best[ext=mp4]",
			MergeFormat: MergeContainerMP4,
		}
	}
}

// ParseQuality converts user input (case-insensitive) into a Quality
func ParseQuality(s string) (Quality, error) {
	q := Quality(strings.ToLower(strings.TrimSpace(s)))
	if q == "" {
		return DefaultQuality, nil
	}
	if !q.IsValid() {
		return "", fmt.Errorf("unknown quality %q", s)
	}
	return q, nil
}
