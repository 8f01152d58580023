package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the environment variable prefix, e.g. CLIP_LOGGING_LEVEL
const EnvPrefix = "CLIP"

// DefaultUpdateRepo is the GitHub repository checked for application releases
const DefaultUpdateRepo = "mialhazmi/shtxd-clip"

// AppConfig holds the process-level configuration loaded from file and environment.
// User-editable preferences live in Settings.
type AppConfig struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Binaries BinariesConfig `mapstructure:"binaries"`
	Timeouts TimeoutsConfig `mapstructure:"timeouts"`
	History  HistoryConfig  `mapstructure:"history"`
	Download DownloadConfig `mapstructure:"download"`
	Update   UpdateConfig   `mapstructure:"update"`
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// BinariesConfig points at the external tools. Empty values are resolved from PATH.
type BinariesConfig struct {
	YTDLP   string `mapstructure:"ytdlp"`
	FFmpeg  string `mapstructure:"ffmpeg"`
	FFprobe string `mapstructure:"ffprobe"`
}

// TimeoutsConfig bounds the short-lived yt-dlp and network calls
type TimeoutsConfig struct {
	VideoInfo     time.Duration `mapstructure:"video_info"`
	PlaylistInfo  time.Duration `mapstructure:"playlist_info"`
	UpdateCheck   time.Duration `mapstructure:"update_check"`
	UpdateInstall time.Duration `mapstructure:"update_install"`
}

// HistoryConfig contains download history storage configuration
type HistoryConfig struct {
	DatabasePath string `mapstructure:"database_path"`
	MaxEntries   int    `mapstructure:"max_entries"`
}

// DownloadConfig contains retry behaviour of the download service
type DownloadConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// UpdateConfig contains the application update source
type UpdateConfig struct {
	Repo string `mapstructure:"repo"`
}

// DefaultAppConfig returns a configuration with default values
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
		},
		Timeouts: TimeoutsConfig{
			VideoInfo:     30 * time.Second,
			PlaylistInfo:  30 * time.Second,
			UpdateCheck:   10 * time.Second,
			UpdateInstall: 30 * time.Second,
		},
		History: HistoryConfig{
			DatabasePath: "$HOME/.shtxd-clip/history.db",
			MaxEntries:   50,
		},
		Download: DownloadConfig{
			MaxRetries: 1,
			RetryDelay: 2 * time.Second,
		},
		Update: UpdateConfig{
			Repo: DefaultUpdateRepo,
		},
	}
}

// LoadAppConfig loads configuration from file and environment
func LoadAppConfig(configPath string) (*AppConfig, error) {
	config := DefaultAppConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.shtxd-clip")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// no config file, defaults and environment only
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateAppConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// bindEnvKeys registers every key so AutomaticEnv applies without a config file
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"logging.level", "logging.format", "logging.output_path",
		"binaries.ytdlp", "binaries.ffmpeg", "binaries.ffprobe",
		"timeouts.video_info", "timeouts.playlist_info", "timeouts.update_check", "timeouts.update_install",
		"history.database_path", "history.max_entries",
		"download.max_retries", "download.retry_delay",
		"update.repo",
	} {
		_ = v.BindEnv(key)
	}
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *AppConfig) *AppConfig {
	config.History.DatabasePath = ExpandPath(config.History.DatabasePath)
	config.Binaries.YTDLP = ExpandPath(config.Binaries.YTDLP)
	config.Binaries.FFmpeg = ExpandPath(config.Binaries.FFmpeg)
	config.Binaries.FFprobe = ExpandPath(config.Binaries.FFprobe)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = ExpandPath(config.Logging.OutputPath)
	}

	return config
}

// ExpandPath expands environment variables and ~ in paths
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	if strings.Contains(path, "$HOME") {
		if home, err := os.UserHomeDir(); err == nil {
			path = strings.ReplaceAll(path, "$HOME", home)
		}
	}

	return os.ExpandEnv(path)
}

// validateAppConfig validates the configuration
func validateAppConfig(config *AppConfig) error {
	if config.History.DatabasePath == "" {
		return fmt.Errorf("history database path not configured")
	}

	if config.History.MaxEntries < 1 {
		return fmt.Errorf("history max entries must be at least 1")
	}

	if config.Download.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}

	if config.Download.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative")
	}

	for name, d := range map[string]time.Duration{
		"video_info":     config.Timeouts.VideoInfo,
		"playlist_info":  config.Timeouts.PlaylistInfo,
		"update_check":   config.Timeouts.UpdateCheck,
		"update_install": config.Timeouts.UpdateInstall,
	} {
		if d <= 0 {
			return fmt.Errorf("timeout %s must be positive", name)
		}
	}

	switch config.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", config.Logging.Format)
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}

// SaveAppConfig writes configuration to a YAML file
func SaveAppConfig(config *AppConfig, path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("logging.level", config.Logging.Level)
	v.Set("logging.format", config.Logging.Format)
	v.Set("logging.output_path", config.Logging.OutputPath)
	v.Set("binaries.ytdlp", config.Binaries.YTDLP)
	v.Set("binaries.ffmpeg", config.Binaries.FFmpeg)
	v.Set("binaries.ffprobe", config.Binaries.FFprobe)
	v.Set("timeouts.video_info", config.Timeouts.VideoInfo.String())
	v.Set("timeouts.playlist_info", config.Timeouts.PlaylistInfo.String())
	v.Set("timeouts.update_check", config.Timeouts.UpdateCheck.String())
	v.Set("timeouts.update_install", config.Timeouts.UpdateInstall.String())
	v.Set("history.database_path", config.History.DatabasePath)
	v.Set("history.max_entries", config.History.MaxEntries)
	v.Set("download.max_retries", config.Download.MaxRetries)
	v.Set("download.retry_delay", config.Download.RetryDelay.String())
	v.Set("update.repo", config.Update.Repo)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
