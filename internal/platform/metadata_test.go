package platform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shtxd/clip/internal/model"
)

const videoJSON = `{
	"id": "dQw4w9WgXcQ",
	"title": "Never Gonna Give You Up",
	"uploader": "Rick Astley",
	"description": "The official video",
	"thumbnail": "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
	"webpage_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	"upload_date": "20091025",
	"duration": 212.0,
	"view_count": 1500000000,
	"extractor": "youtube",
	"formats": [{}, {}, {}]
}`

const playlistJSON = `{
	"_type": "playlist",
	"id": "PL123",
	"title": "My Mix",
	"uploader": "Someone",
	"webpage_url": "https://www.youtube.com/playlist?list=PL123",
	"entries": [
		{"id": "a1", "title": "First", "duration": 60},
		{"id": "", "title": "Broken"},
		{"id": "b2", "title": "Second", "duration": null},
		{"id": "c3", "title": "Third", "duration": 120}
	]
}`

func newTestMetadataService() *MetadataService {
	return NewMetadataService("", time.Second, time.Second, nil)
}

func TestParseVideoJSON(t *testing.T) {
	info, err := ParseVideoJSON([]byte(videoJSON))
	require.NoError(t, err)

	assert.Equal(t, "dQw4w9WgXcQ", info.ID)
	assert.Equal(t, "Rick Astley", info.Uploader)
	assert.Equal(t, "3:32", info.DurationString())
	assert.Equal(t, "2009-10-25", info.UploadDateString())
	assert.Equal(t, "1,500,000,000", info.ViewCountString())
	assert.Equal(t, 3, info.FormatsCount)
}

func TestParseVideoJSON_Errors(t *testing.T) {
	_, err := ParseVideoJSON([]byte("not json"))
	assert.Error(t, err)

	_, err = ParseVideoJSON([]byte(`{}`))
	assert.Error(t, err)
}

func TestParseUploadDate_TimestampFallback(t *testing.T) {
	got := parseUploadDate("", 1256428800)
	assert.Equal(t, "2009-10-25", got.Format("2006-01-02"))
	assert.True(t, parseUploadDate("", 0).IsZero())
}

func TestParsePlaylistJSON(t *testing.T) {
	playlist, err := ParsePlaylistJSON([]byte(playlistJSON))
	require.NoError(t, err)

	assert.Equal(t, "PL123", playlist.ID)
	assert.Equal(t, "My Mix", playlist.Title)
	require.Equal(t, 3, playlist.Count())
	assert.Equal(t, 3, playlist.Videos[2].Index)
	assert.Equal(t, "https://www.youtube.com/watch?v=b2", playlist.Videos[1].URL)
	assert.Equal(t, 180, playlist.TotalDurationSec())

	_, err = ParsePlaylistJSON([]byte(`{"_type":"playlist","entries":[]}`))
	assert.ErrorIs(t, err, ErrEmptyPlaylist)
}

func TestMetadataService_VideoInfo(t *testing.T) {
	svc := newTestMetadataService()
	svc.dumpJSON = func(ctx context.Context, url string, flat bool) ([]byte, error) {
		assert.False(t, flat)
		return []byte(videoJSON), nil
	}

	info, err := svc.VideoInfo(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Never Gonna Give You Up", info.Title)

	_, err = svc.VideoInfo(context.Background(), "https://example.com/x")
	assert.ErrorIs(t, err, model.ErrInvalidURL)
}

func TestMetadataService_VideoInfoTimeout(t *testing.T) {
	svc := NewMetadataService("", 20*time.Millisecond, time.Second, nil)
	svc.dumpJSON = func(ctx context.Context, url string, flat bool) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	_, err := svc.VideoInfo(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestMetadataService_PlaylistFromYTDLP(t *testing.T) {
	svc := newTestMetadataService()
	svc.dumpJSON = func(ctx context.Context, url string, flat bool) ([]byte, error) {
		assert.True(t, flat)
		assert.Equal(t, "https://www.youtube.com/playlist?list=PL123", url)
		return []byte(playlistJSON), nil
	}
	svc.listPlaylist = func(ctx context.Context, id string) ([]PlaylistItem, error) {
		t.Fatal("fallback should not be used")
		return nil, nil
	}

	playlist, err := svc.Playlist(context.Background(), "https://www.youtube.com/watch?v=a1&list=PL123")
	require.NoError(t, err)
	assert.Equal(t, 3, playlist.Count())
	assert.Equal(t, "https://www.youtube.com/watch?v=a1&list=PL123", playlist.URL)
}

func TestMetadataService_PlaylistFallback(t *testing.T) {
	svc := newTestMetadataService()
	svc.dumpJSON = func(ctx context.Context, url string, flat bool) ([]byte, error) {
		return nil, errors.New("yt-dlp not found")
	}
	svc.listPlaylist = func(ctx context.Context, id string) ([]PlaylistItem, error) {
		assert.Equal(t, "PL9", id)
		return []PlaylistItem{
			{VideoID: "v1", Title: "Lecture Series Part 1"},
			{VideoID: "v2", Title: "Lecture Series Part 2"},
		}, nil
	}

	playlist, err := svc.Playlist(context.Background(), "https://www.youtube.com/playlist?list=PL9")
	require.NoError(t, err)
	assert.Equal(t, 2, playlist.Count())
	assert.Equal(t, "Lecture Series Part" + PlaylistSuffix, playlist.Title)
	assert.Equal(t, "Duration unknown", playlist.EstimatedDurationString())
}

func TestMetadataService_PlaylistErrors(t *testing.T) {
	svc := newTestMetadataService()

	_, err := svc.Playlist(context.Background(), "https://www.youtube.com/watch?v=abc")
	assert.ErrorIs(t, err, model.ErrInvalidURL)

	svc.dumpJSON = func(ctx context.Context, url string, flat bool) ([]byte, error) {
		return nil, errors.New("boom")
	}
	svc.listPlaylist = func(ctx context.Context, id string) ([]PlaylistItem, error) {
		return nil, errors.New("also boom")
	}
	_, err = svc.Playlist(context.Background(), "https://www.youtube.com/playlist?list=PL9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "also boom")
}

func TestGuessPlaylistTitle(t *testing.T) {
	tests := []struct {
		name     string
		videos   []*model.PlaylistVideo
		expected string
	}{
		{"empty", nil, DefaultPlaylistName},
		{"single", []*model.PlaylistVideo{{Title: "Solo"}}, "Solo" + PlaylistSuffix},
		{"short prefix", []*model.PlaylistVideo{{Title: "First Video"}, {Title: "Second Video"}}, "First Video" + PlaylistSuffix},
		{"long prefix", []*model.PlaylistVideo{{Title: "Go Tutorial Episode 1"}, {Title: "Go Tutorial Episode 2"}}, "Go Tutorial Episode" + PlaylistSuffix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, guessPlaylistTitle(tt.videos))
		})
	}
}
