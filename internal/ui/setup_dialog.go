package ui

import (
	"context"
	"errors"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/shtxd/clip/internal/platform"
)

// checkDependencies verifies yt-dlp and ffmpeg and shows the setup dialog when something is missing.
// onReady runs once everything is found.
func (ui *RootUI) checkDependencies(onReady func()) {
	_, err := platform.CheckDependencies(ui.services.Binaries)
	if err == nil {
		if onReady != nil {
			onReady()
		}
		return
	}

	var missing *platform.MissingDependenciesError
	if !errors.As(err, &missing) {
		ui.showError(err)
		return
	}
	ui.logger.Warn("missing dependencies", zap.Strings("missing", missing.Missing))
	ui.showSetupDialog(missing, onReady)
}

func (ui *RootUI) showSetupDialog(missing *platform.MissingDependenciesError, onReady func()) {
	loc := ui.localization

	message := widget.NewLabel(missing.Error())
	message.Wrapping = fyne.TextWrapWord
	progress := widget.NewProgressBarInfinite()
	progress.Hide()

	var d dialog.Dialog
	checkBtn := widget.NewButton(loc.GetText(KeyCheckAgain), func() {
		d.Hide()
		ui.checkDependencies(onReady)
	})

	buttons := container.NewHBox(checkBtn)
	if slices.Contains(missing.Missing, platform.YTDLPName) && ui.services.YTDLP != nil {
		var installBtn *widget.Button
		installBtn = widget.NewButton(loc.GetText(KeyInstallYTDLP), func() {
			installBtn.Disable()
			progress.Show()
			progress.Start()
			go func() {
				path, err := ui.services.YTDLP.EnsureInstalled(context.Background())
				fyne.Do(func() {
					progress.Stop()
					progress.Hide()
					installBtn.Enable()
					if err != nil {
						ui.showError(err)
						return
					}
					ui.logger.Info("yt-dlp installed", zap.String("path", path))
					ui.services.Binaries.YTDLP = path
					d.Hide()
					ui.checkDependencies(onReady)
				})
			}()
		})
		installBtn.Importance = widget.HighImportance
		buttons.Add(installBtn)
	}

	content := container.NewVBox(message, progress, buttons)
	d = dialog.NewCustomWithoutButtons(loc.GetText(KeyMissingDeps), content, ui.window)
	d.Resize(fyne.NewSize(WindowWidth/2, 0))
	d.Show()
}
