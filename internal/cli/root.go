// Package cli defines the clip command tree. Without a subcommand it opens the desktop window;
// the subcommands run the same services headless.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shtxd/clip/internal/config"
	"github.com/shtxd/clip/internal/history"
	"github.com/shtxd/clip/internal/logging"
	"github.com/shtxd/clip/internal/updater"
)

// Application identity
const (
	AppID   = "com.shtxd.clip"
	AppName = "SHTxd Clip"
)

// env is what every command shares once flags are parsed
type env struct {
	configPath string
	logLevel   string

	cfg    *config.AppConfig
	logger *zap.Logger
	sink   *logging.Sink
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "clip",
		Short:         AppName + " - download YouTube videos and playlists with yt-dlp",
		Version:       updater.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(e)
		},
	}

	root.PersistentFlags().StringVar(&e.configPath, "config", "", "config file (default ./configs/config.yaml or ~/.shtxd-clip/config.yaml)")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newDownloadCommand(e),
		newInfoCommand(e),
		newConvertCommand(e),
		newDepsCommand(e),
		newUpdateYTDLPCommand(e),
		newHistoryCommand(e),
		newVersionCommand(e),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// load reads the config and builds the logger. The sink feeds the GUI activity log.
func (e *env) load() error {
	cfg, err := config.LoadAppConfig(e.configPath)
	if err != nil {
		return err
	}
	if e.logLevel != "" {
		cfg.Logging.Level = e.logLevel
	}

	e.sink = logging.NewSink(zapcore.InfoLevel)
	logger, err := logging.New(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	}, e.sink.Core())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	e.cfg = cfg
	e.logger = logger
	return nil
}

// openHistory opens the history database, logging instead of failing when it is unavailable
func (e *env) openHistory() *history.Store {
	store, err := history.Open(e.cfg.History.DatabasePath, e.cfg.History.MaxEntries, e.logger)
	if err != nil {
		e.logger.Warn("history disabled", zap.Error(err))
		return nil
	}
	return store
}
