package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/lrstanley/go-ytdlp"
	ytget "github.com/ytget/ytdlp/v2"
	"go.uber.org/zap"

	"github.com/shtxd/clip/internal/model"
)

// Default timeouts for metadata requests
const (
	DefaultVideoInfoTimeout    = 30 * time.Second
	DefaultPlaylistInfoTimeout = 30 * time.Second
)

// Playlist title fallback
const (
	DefaultPlaylistName = "Unknown Playlist"
	PlaylistSuffix      = " Playlist"
	MinPrefixLength     = 10
)

// ErrEmptyPlaylist is returned when a playlist has no entries
var ErrEmptyPlaylist = errors.New("playlist has no videos")

// PlaylistItem is one entry returned by a playlist lister
type PlaylistItem struct {
	VideoID string
	Title   string
}

// MetadataService reads video and playlist metadata for the preview
type MetadataService struct {
	ytdlpPath       string
	videoTimeout    time.Duration
	playlistTimeout time.Duration
	logger          *zap.Logger

	// dumpJSON runs yt-dlp --dump-single-json; flat limits playlists to their entry list
	dumpJSON func(ctx context.Context, url string, flat bool) ([]byte, error)
	// listPlaylist enumerates a playlist without yt-dlp
	listPlaylist func(ctx context.Context, playlistID string) ([]PlaylistItem, error)
}

// NewMetadataService creates a metadata service. ytdlpPath may be empty to use PATH.
func NewMetadataService(ytdlpPath string, videoTimeout, playlistTimeout time.Duration, logger *zap.Logger) *MetadataService {
	if videoTimeout <= 0 {
		videoTimeout = DefaultVideoInfoTimeout
	}
	if playlistTimeout <= 0 {
		playlistTimeout = DefaultPlaylistInfoTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &MetadataService{
		ytdlpPath:       ytdlpPath,
		videoTimeout:    videoTimeout,
		playlistTimeout: playlistTimeout,
		logger:          logger,
		listPlaylist:    listPlaylistItems,
	}
	m.dumpJSON = m.runDumpJSON
	return m
}

// VideoInfo fetches metadata of a single video without downloading it
func (m *MetadataService) VideoInfo(ctx context.Context, url string) (*model.VideoInfo, error) {
	if !model.IsValidYouTubeURL(url) {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidURL, url)
	}

	ctx, cancel := context.WithTimeout(ctx, m.videoTimeout)
	defer cancel()

	data, err := m.dumpJSON(ctx, url, false)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("timed out fetching video info after %s", m.videoTimeout)
		}
		return nil, fmt.Errorf("failed to fetch video info: %w", err)
	}

	info, err := ParseVideoJSON(data)
	if err != nil {
		return nil, err
	}
	if info.URL == "" {
		info.URL = url
	}
	return info, nil
}

// Playlist fetches the entry list of a playlist. yt-dlp is tried first since it reports
// durations; the pure-Go lister is the fallback.
func (m *MetadataService) Playlist(ctx context.Context, url string) (*model.Playlist, error) {
	playlistID := model.ExtractPlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("%w: no playlist id in %s", model.ErrInvalidURL, url)
	}

	ctx, cancel := context.WithTimeout(ctx, m.playlistTimeout)
	defer cancel()

	data, err := m.dumpJSON(ctx, model.PlaylistURL(playlistID), true)
	if err == nil {
		playlist, perr := ParsePlaylistJSON(data)
		if perr == nil {
			playlist.URL = url
			return playlist, nil
		}
		err = perr
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("failed to fetch playlist: %w", ctx.Err())
	}
	m.logger.Warn("yt-dlp playlist listing failed, falling back", zap.String("playlist", playlistID), zap.Error(err))

	items, lerr := m.listPlaylist(ctx, playlistID)
	if lerr != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", errors.Join(err, lerr))
	}

	playlist := model.NewPlaylist(url)
	playlist.ID = playlistID
	for _, it := range items {
		playlist.AddVideo(&model.PlaylistVideo{ID: it.VideoID, Title: it.Title})
	}
	if playlist.Count() == 0 {
		return nil, ErrEmptyPlaylist
	}
	playlist.Title = guessPlaylistTitle(playlist.Videos)
	return playlist, nil
}

func (m *MetadataService) runDumpJSON(ctx context.Context, url string, flat bool) ([]byte, error) {
	cmd := ytdlp.New().
		DumpSingleJSON().
		SkipDownload().
		NoWarnings()
	if flat {
		cmd = cmd.FlatPlaylist()
	} else {
		cmd = cmd.NoPlaylist()
	}
	if m.ytdlpPath != "" {
		cmd = cmd.SetExecutable(m.ytdlpPath)
	}

	res, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, err
	}
	return []byte(res.Stdout), nil
}

func listPlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	items, err := ytget.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}
	out := make([]PlaylistItem, 0, len(items))
	for _, it := range items {
		out = append(out, PlaylistItem{VideoID: it.VideoID, Title: it.Title})
	}
	return out, nil
}

// infoJSON is the subset of yt-dlp's info dict we read
type infoJSON struct {
	Type        string      `json:"_type"`
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Uploader    string      `json:"uploader"`
	Channel     string      `json:"channel"`
	Description string      `json:"description"`
	Thumbnail   string      `json:"thumbnail"`
	WebpageURL  string      `json:"webpage_url"`
	URL         string      `json:"url"`
	UploadDate  string      `json:"upload_date"`
	Timestamp   float64     `json:"timestamp"`
	Duration    float64     `json:"duration"`
	ViewCount   int64       `json:"view_count"`
	IsLive      bool        `json:"is_live"`
	Extractor   string      `json:"extractor"`
	Formats     []any       `json:"formats"`
	Entries     []*infoJSON `json:"entries"`
}

// ParseVideoJSON converts yt-dlp --dump-single-json output into VideoInfo
func ParseVideoJSON(data []byte) (*model.VideoInfo, error) {
	var raw infoJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}
	if raw.ID == "" && raw.Title == "" {
		return nil, fmt.Errorf("yt-dlp output has no video id")
	}

	uploader := raw.Uploader
	if uploader == "" {
		uploader = raw.Channel
	}

	return &model.VideoInfo{
		ID:           raw.ID,
		URL:          raw.WebpageURL,
		Title:        raw.Title,
		Uploader:     uploader,
		Description:  raw.Description,
		Thumbnail:    raw.Thumbnail,
		DurationSec:  int(raw.Duration),
		ViewCount:    raw.ViewCount,
		UploadDate:   parseUploadDate(raw.UploadDate, raw.Timestamp),
		IsLive:       raw.IsLive,
		WebpageURL:   raw.WebpageURL,
		Extractor:    raw.Extractor,
		FormatsCount: len(raw.Formats),
	}, nil
}

// ParsePlaylistJSON converts yt-dlp --flat-playlist --dump-single-json output into a Playlist
func ParsePlaylistJSON(data []byte) (*model.Playlist, error) {
	var raw infoJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}

	playlist := model.NewPlaylist(raw.WebpageURL)
	playlist.ID = raw.ID
	playlist.Title = raw.Title
	playlist.Uploader = raw.Uploader
	if playlist.Uploader == "" {
		playlist.Uploader = raw.Channel
	}

	for _, e := range raw.Entries {
		if e == nil || e.ID == "" {
			continue
		}
		playlist.AddVideo(&model.PlaylistVideo{
			ID:          e.ID,
			Title:       e.Title,
			URL:         model.VideoURL(e.ID),
			DurationSec: int(e.Duration),
		})
	}

	if playlist.Count() == 0 {
		return nil, ErrEmptyPlaylist
	}
	if playlist.Title == "" {
		playlist.Title = guessPlaylistTitle(playlist.Videos)
	}
	return playlist, nil
}

// parseUploadDate reads yt-dlp's YYYYMMDD upload_date, falling back to the unix timestamp
func parseUploadDate(s string, timestamp float64) time.Time {
	if s = strings.TrimSpace(s); s != "" {
		if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
			return t
		}
	}
	if timestamp > 0 {
		return time.Unix(int64(timestamp), 0).UTC()
	}
	return time.Time{}
}

// guessPlaylistTitle derives a title from the common prefix of the first entries
func guessPlaylistTitle(videos []*model.PlaylistVideo) string {
	if len(videos) == 0 {
		return DefaultPlaylistName
	}
	if len(videos) > 1 {
		prefix := commonPrefix(videos[0].Title, videos[1].Title)
		if len(prefix) > MinPrefixLength {
			return strings.TrimSpace(prefix) + PlaylistSuffix
		}
	}
	return videos[0].Title + PlaylistSuffix
}

func commonPrefix(s1, s2 string) string {
	r1, r2 := []rune(s1), []rune(s2)
	n := min(len(r1), len(r2))
	for i := 0; i < n; i++ {
		if r1[i] != r2[i] {
			return string(r1[:i])
		}
	}
	return string(r1[:n])
}
