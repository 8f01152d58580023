package model

import (
	"net/url"
	"regexp"
	"strings"
)

// Host patterns are anchored so a YouTube link embedded in another site's URL does not match
var (
	youtubeVideoPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.|music\.)?youtube\.com/watch\?(?:.*&)?v=([\w-]+)`),
		regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtu\.be/([\w-]+)`),
		regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/embed/([\w-]+)`),
		regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/v/([\w-]+)`),
		regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/shorts/([\w-]+)`),
	}
	youtubePlaylistPattern = regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.|music\.)?youtube\.com/playlist\?(?:.*&)?list=([\w-]+)`)
	listParamPattern       = regexp.MustCompile(`[?&]list=([\w-]+)`)
)

// IsValidYouTubeURL reports whether s looks like a YouTube video or playlist link
func IsValidYouTubeURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if youtubePlaylistPattern.MatchString(s) {
		return true
	}
	for _, re := range youtubeVideoPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// IsPlaylistURL reports whether s refers to a playlist (a playlist page or a video with a list parameter)
func IsPlaylistURL(s string) bool {
	return strings.Contains(s, "playlist?list=") || strings.Contains(s, "&list=")
}

// ExtractVideoID returns the video ID from a YouTube URL, or "" when none is present
func ExtractVideoID(s string) string {
	s = strings.TrimSpace(s)
	for _, re := range youtubeVideoPatterns {
		if m := re.FindStringSubmatch(s); len(m) == 2 {
			return m[1]
		}
	}
	return ""
}

// ExtractPlaylistID returns the list parameter of a YouTube URL, or "" when none is present
func ExtractPlaylistID(s string) string {
	s = strings.TrimSpace(s)
	if u, err := url.Parse(s); err == nil {
		if id := u.Query().Get("list"); id != "" {
			return id
		}
	}
	if m := listParamPattern.FindStringSubmatch(s); len(m) == 2 {
		return m[1]
	}
	return ""
}

// VideoURL builds a canonical watch URL for a video ID
func VideoURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// PlaylistURL builds a canonical playlist URL for a playlist ID
func PlaylistURL(playlistID string) string {
	return "https://www.youtube.com/playlist?list=" + playlistID
}
