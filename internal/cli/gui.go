package cli

import (
	"context"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/shtxd/clip/internal/config"
	"github.com/shtxd/clip/internal/ui"
	"github.com/shtxd/clip/internal/updater"
)

// ShutdownTimeout bounds how long closing the window waits for cancelled downloads
const ShutdownTimeout = 5 * time.Second

func runGUI(e *env) error {
	e.logger.Info("starting", zap.String("version", updater.AppVersion))

	fyneApp := app.NewWithID(AppID)
	if icon := ui.LoadLogoResource(); icon != nil {
		fyneApp.SetIcon(icon)
	}
	settings := config.NewSettings(fyneApp)

	window := fyneApp.NewWindow(AppName + " v" + updater.AppVersion)
	window.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	store := e.openHistory()
	downloads := e.downloadService(settings.GetMaxParallelDownloads(), store)
	transcoder := e.transcodeService()

	services := ui.Services{
		Downloads:  downloads,
		Metadata:   e.metadataService(),
		Transcoder: transcoder,
		YTDLP:      e.ytdlpUpdater(),
		Releases:   e.releaseChecker(),
		Binaries:   e.binaries(),
		Sink:       e.sink,
		Logger:     e.logger,
	}
	if store != nil {
		services.History = store
	}

	root := ui.NewRootUI(window, fyneApp, settings, services)
	window.Show()
	root.Start()
	fyneApp.Run()

	// window closed: stop what is still running
	downloads.CancelAll()
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := downloads.Wait(ctx); err != nil {
		e.logger.Warn("downloads did not stop in time", zap.Error(err))
	}
	converted := make(chan struct{})
	go func() {
		transcoder.Wait()
		close(converted)
	}()
	select {
	case <-converted:
	case <-ctx.Done():
		e.logger.Warn("conversions still running at exit")
	}
	if store != nil {
		if err := store.Close(); err != nil {
			e.logger.Warn("failed to close history", zap.Error(err))
		}
	}
	return nil
}
