package config

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"

	"github.com/shtxd/clip/internal/model"
	"github.com/shtxd/clip/internal/platform"
)

// Theme variants
const (
	ThemeDark   = "dark"
	ThemeLight  = "light"
	ThemeSystem = "system"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_path"
	KeyTheme              = "theme"
	KeyDefaultQuality     = "default_quality"
	KeyPlaylistQuantity   = "playlist_quantity"
	KeySubtitles          = "download_subtitles"
	KeyThumbnail          = "download_thumbnail"
	KeyMaxParallel        = "max_parallel_downloads"
	KeyFilenameTemplate   = "filename_template"
	KeyLanguage           = "app_language"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
)

// Default values
const (
	DefaultTheme              = ThemeDark
	DefaultMaxParallel        = 2
	DefaultLanguage           = "system"
	DefaultAutoRevealComplete = false
	MinParallel               = 1
	MaxParallel               = 10
)

// Settings manages user preferences that the UI edits
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		// system Downloads folder
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = filepath.Join(os.TempDir(), "downloads")
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetTheme returns the theme variant (dark, light or system)
func (s *Settings) GetTheme() string {
	theme := s.app.Preferences().String(KeyTheme)
	if !isKnownTheme(theme) {
		s.SetTheme(DefaultTheme)
		return DefaultTheme
	}
	return theme
}

// SetTheme sets the theme variant, ignoring unknown values
func (s *Settings) SetTheme(theme string) {
	if !isKnownTheme(theme) {
		theme = DefaultTheme
	}
	s.app.Preferences().SetString(KeyTheme, theme)
}

// GetThemeOptions returns available theme variants
func (s *Settings) GetThemeOptions() []string {
	return []string{ThemeDark, ThemeLight, ThemeSystem}
}

func isKnownTheme(theme string) bool {
	return theme == ThemeDark || theme == ThemeLight || theme == ThemeSystem
}

// GetDefaultQuality returns the preselected quality
func (s *Settings) GetDefaultQuality() model.Quality {
	q := model.Quality(s.app.Preferences().String(KeyDefaultQuality))
	if !q.IsValid() {
		s.SetDefaultQuality(model.DefaultQuality)
		return model.DefaultQuality
	}
	return q
}

// SetDefaultQuality sets the preselected quality
func (s *Settings) SetDefaultQuality(q model.Quality) {
	if !q.IsValid() {
		q = model.DefaultQuality
	}
	s.app.Preferences().SetString(KeyDefaultQuality, q.String())
}

// GetPlaylistQuantity returns the playlist quantity preset ("5", "10", "20", "50" or "All")
func (s *Settings) GetPlaylistQuantity() string {
	quantity := s.app.Preferences().String(KeyPlaylistQuantity)
	if _, err := model.RangeFromQuantity(quantity); quantity == "" || err != nil {
		s.SetPlaylistQuantity(model.DefaultPlaylistQuantity)
		return model.DefaultPlaylistQuantity
	}
	return quantity
}

// SetPlaylistQuantity sets the playlist quantity preset
func (s *Settings) SetPlaylistQuantity(quantity string) {
	s.app.Preferences().SetString(KeyPlaylistQuantity, quantity)
}

// GetSubtitles returns whether subtitles are requested by default
func (s *Settings) GetSubtitles() bool {
	return s.app.Preferences().Bool(KeySubtitles)
}

// SetSubtitles sets the subtitles default
func (s *Settings) SetSubtitles(enabled bool) {
	s.app.Preferences().SetBool(KeySubtitles, enabled)
}

// GetThumbnail returns whether thumbnails are requested by default
func (s *Settings) GetThumbnail() bool {
	return s.app.Preferences().Bool(KeyThumbnail)
}

// SetThumbnail sets the thumbnail default
func (s *Settings) SetThumbnail(enabled bool) {
	s.app.Preferences().SetBool(KeyThumbnail, enabled)
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelDownloads(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	count = max(MinParallel, min(count, MaxParallel))
	s.app.Preferences().SetInt(KeyMaxParallel, count)
}

// GetFilenameTemplate returns the filename template
func (s *Settings) GetFilenameTemplate() string {
	template := s.app.Preferences().String(KeyFilenameTemplate)
	if template == "" {
		s.SetFilenameTemplate(model.DefaultFilenameTemplate)
		return model.DefaultFilenameTemplate
	}
	return template
}

// SetFilenameTemplate sets the filename template
func (s *Settings) SetFilenameTemplate(template string) {
	if template == "" {
		template = model.DefaultFilenameTemplate
	}
	s.app.Preferences().SetString(KeyFilenameTemplate, template)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// GetAutoRevealOnComplete returns whether to reveal completed downloads in the file manager
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to reveal completed downloads
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// NewJob builds a download job prefilled from the stored defaults
func (s *Settings) NewJob(url string) model.DownloadJob {
	r, _ := model.RangeFromQuantity(s.GetPlaylistQuantity())
	return model.DownloadJob{
		URL:              url,
		Quality:          s.GetDefaultQuality(),
		OutputDir:        s.GetDownloadDirectory(),
		Playlist:         model.IsPlaylistURL(url),
		Range:            r,
		Subtitles:        s.GetSubtitles(),
		Thumbnail:        s.GetThumbnail(),
		FilenameTemplate: s.GetFilenameTemplate(),
	}
}
