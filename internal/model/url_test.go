package model

import "testing"

func TestIsValidYouTubeURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtube.com/watch?feature=share&v=dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", true},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", true},
		{"https://www.youtube.com/shorts/abcDEF12345", true},
		{"https://www.youtube.com/playlist?list=PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf", true},
		{"youtube.com/watch?v=abc", true},
		{"", false},
		{"https://vimeo.com/123", false},
		{"not a url", false},
		{"https://evil.example.com/redirect?to=youtube.com/watch?v=abc123", false},
		{"notyoutube.com/watch?v=abc123", false},
		{"https://example.org/youtu.be/abc", false},
		{"https://example.com/x?youtube.com/playlist?list=PL1", false},
	}

	for _, test := range tests {
		if got := IsValidYouTubeURL(test.url); got != test.expected {
			t.Errorf("IsValidYouTubeURL(%q) = %v, expected %v", test.url, got, test.expected)
		}
	}
}

func TestIsPlaylistURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/playlist?list=PL123", true},
		{"https://www.youtube.com/watch?v=abc&list=PL123", true},
		{"https://www.youtube.com/watch?v=abc", false},
		{"https://youtu.be/abc", false},
	}

	for _, test := range tests {
		if got := IsPlaylistURL(test.url); got != test.expected {
			t.Errorf("IsPlaylistURL(%q) = %v, expected %v", test.url, got, test.expected)
		}
	}
}

func TestExtractIDs(t *testing.T) {
	if id := ExtractVideoID("https://youtu.be/dQw4w9WgXcQ?t=10"); id != "dQw4w9WgXcQ" {
		t.Errorf("ExtractVideoID(youtu.be) = %q", id)
	}
	if id := ExtractVideoID("https://www.youtube.com/watch?v=abc_-1&list=PL9"); id != "abc_-1" {
		t.Errorf("ExtractVideoID(watch) = %q", id)
	}
	if id := ExtractVideoID("https://www.youtube.com/playlist?list=PL9"); id != "" {
		t.Errorf("ExtractVideoID(playlist) = %q, expected empty", id)
	}
	if id := ExtractVideoID("https://example.org/youtu.be/abc"); id != "" {
		t.Errorf("ExtractVideoID(foreign host) = %q, expected empty", id)
	}
	if id := ExtractPlaylistID("https://www.youtube.com/watch?v=abc&list=PL9x"); id != "PL9x" {
		t.Errorf("ExtractPlaylistID = %q", id)
	}
	if id := ExtractPlaylistID("https://www.youtube.com/watch?v=abc"); id != "" {
		t.Errorf("ExtractPlaylistID without list = %q", id)
	}
}
