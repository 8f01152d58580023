package config

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/shtxd/clip/internal/model"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestDownloadDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	dir := settings.GetDownloadDirectory()
	if dir == "" {
		t.Error("Download directory should not be empty")
	}

	customDir := "/custom/downloads"
	settings.SetDownloadDirectory(customDir)

	retrievedDir := settings.GetDownloadDirectory()
	if retrievedDir != customDir {
		t.Errorf("Expected download directory %s, got %s", customDir, retrievedDir)
	}
}

func TestTheme(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if theme := settings.GetTheme(); theme != DefaultTheme {
		t.Errorf("Expected default theme %s, got %s", DefaultTheme, theme)
	}

	settings.SetTheme(ThemeLight)
	if theme := settings.GetTheme(); theme != ThemeLight {
		t.Errorf("Expected theme %s, got %s", ThemeLight, theme)
	}

	settings.SetTheme("neon")
	if theme := settings.GetTheme(); theme != DefaultTheme {
		t.Errorf("Unknown theme should fall back to %s, got %s", DefaultTheme, theme)
	}

	if len(settings.GetThemeOptions()) != 3 {
		t.Errorf("Expected 3 theme options, got %d", len(settings.GetThemeOptions()))
	}
}

func TestDefaultQuality(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if q := settings.GetDefaultQuality(); q != model.DefaultQuality {
		t.Errorf("Expected default quality %s, got %s", model.DefaultQuality, q)
	}

	settings.SetDefaultQuality(model.Quality720p)
	if q := settings.GetDefaultQuality(); q != model.Quality720p {
		t.Errorf("Expected quality %s, got %s", model.Quality720p, q)
	}

	settings.SetDefaultQuality("medium")
	if q := settings.GetDefaultQuality(); q != model.DefaultQuality {
		t.Errorf("Unknown quality should fall back to %s, got %s", model.DefaultQuality, q)
	}
}

func TestPlaylistQuantity(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if q := settings.GetPlaylistQuantity(); q != model.DefaultPlaylistQuantity {
		t.Errorf("Expected default quantity %s, got %s", model.DefaultPlaylistQuantity, q)
	}

	settings.SetPlaylistQuantity(model.QuantityAll)
	if q := settings.GetPlaylistQuantity(); q != model.QuantityAll {
		t.Errorf("Expected quantity All, got %s", q)
	}

	settings.SetPlaylistQuantity("lots")
	if q := settings.GetPlaylistQuantity(); q != model.DefaultPlaylistQuantity {
		t.Errorf("Invalid quantity should reset to default, got %s", q)
	}
}

func TestMaxParallelDownloads(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	maxParallel := settings.GetMaxParallelDownloads()
	if maxParallel != DefaultMaxParallel {
		t.Errorf("Expected default max parallel %d, got %d", DefaultMaxParallel, maxParallel)
	}

	settings.SetMaxParallelDownloads(5)
	if got := settings.GetMaxParallelDownloads(); got != 5 {
		t.Errorf("Expected max parallel 5, got %d", got)
	}

	settings.SetMaxParallelDownloads(0) // clamped to 1
	if settings.GetMaxParallelDownloads() != 1 {
		t.Error("Max parallel should be clamped to minimum 1")
	}

	settings.SetMaxParallelDownloads(15) // clamped to 10
	if settings.GetMaxParallelDownloads() != 10 {
		t.Error("Max parallel should be clamped to maximum 10")
	}
}

func TestFilenameTemplate(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	template := settings.GetFilenameTemplate()
	if template != model.DefaultFilenameTemplate {
		t.Errorf("Expected default template %s, got %s", model.DefaultFilenameTemplate, template)
	}

	customTemplate := "%(title)s [%(id)s].%(ext)s"
	settings.SetFilenameTemplate(customTemplate)
	if got := settings.GetFilenameTemplate(); got != customTemplate {
		t.Errorf("Expected template %s, got %s", customTemplate, got)
	}

	// empty template defaults back
	settings.SetFilenameTemplate("")
	if got := settings.GetFilenameTemplate(); got != model.DefaultFilenameTemplate {
		t.Errorf("Empty template should default to %s, got %s", model.DefaultFilenameTemplate, got)
	}
}

func TestLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if lang := settings.GetLanguage(); lang != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, lang)
	}

	settings.SetLanguage("en")
	if lang := settings.GetLanguage(); lang != "en" {
		t.Errorf("Expected language 'en', got %s", lang)
	}

	options := settings.GetLanguageOptions()
	for _, lang := range []string{"system", "en", "ru", "pt"} {
		if _, exists := options[lang]; !exists {
			t.Errorf("Expected language option '%s' to exist", lang)
		}
	}
}

func TestNewJob(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)
	settings.SetDownloadDirectory("/data/videos")
	settings.SetDefaultQuality(model.QualityAudio)
	settings.SetPlaylistQuantity("5")
	settings.SetSubtitles(true)

	job := settings.NewJob("https://www.youtube.com/playlist?list=PL1")

	if job.OutputDir != "/data/videos" || job.Quality != model.QualityAudio {
		t.Errorf("job defaults not applied: %+v", job)
	}
	if !job.Playlist || job.Range.Len() != 5 {
		t.Errorf("expected playlist job with 5 entries, got %+v", job.Range)
	}
	if !job.Subtitles || job.Thumbnail {
		t.Errorf("unexpected subtitle/thumbnail flags: %+v", job)
	}
}
