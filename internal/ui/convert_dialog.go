package ui

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/shtxd/clip/internal/model"
)

// convertKinds pairs each ffmpeg operation with its label key, in display order
var convertKinds = []struct {
	kind model.TranscodeKind
	key  string
}{
	{model.TranscodeRemux, KeyRemux},
	{model.TranscodeCompress, KeyCompress},
	{model.TranscodeExtractAudio, KeyExtractAudio},
}

// convertAction returns the row handler for Convert, nil when no transcoder is wired
func (ui *RootUI) convertAction() func(string) {
	if ui.services.Transcoder == nil {
		return nil
	}
	return ui.showConvertDialog
}

func (ui *RootUI) showConvertDialog(filePath string) {
	loc := ui.localization

	labels := make([]string, 0, len(convertKinds))
	for _, k := range convertKinds {
		labels = append(labels, loc.GetText(k.key))
	}
	choice := widget.NewRadioGroup(labels, nil)
	choice.Required = true
	choice.SetSelected(labels[0])

	items := []*widget.FormItem{
		widget.NewFormItem(loc.GetText(KeyFile), widget.NewLabel(filepath.Base(filePath))),
		widget.NewFormItem("", choice),
	}
	dialog.ShowForm(loc.GetText(KeyConvertTitle), loc.GetText(KeyConvert), loc.GetText(KeyCancel), items, func(ok bool) {
		if !ok {
			return
		}
		for i, label := range labels {
			if label == choice.Selected {
				ui.startConvert(convertKinds[i].kind, filePath)
				return
			}
		}
	}, ui.window)
}

func (ui *RootUI) startConvert(kind model.TranscodeKind, filePath string) {
	task, err := ui.services.Transcoder.Start(kind, filePath)
	if err != nil {
		ui.showError(err)
		return
	}
	ui.logger.Info("conversion started", zap.String("kind", string(kind)), zap.String("input", filePath))
	ui.downloadTab.setStatus(fmt.Sprintf("%s: %s", ui.localization.GetText(KeyConvertStarted), filepath.Base(task.OutputPath)))
}

// onTranscodeUpdate reflects ffmpeg progress in the status line. Must run on the UI goroutine.
func (ui *RootUI) onTranscodeUpdate(task model.TranscodeTask) {
	loc := ui.localization
	name := filepath.Base(task.OutputPath)
	switch task.Status {
	case model.TaskStatusDownloading, model.TaskStatusProcessing:
		ui.downloadTab.setStatus(fmt.Sprintf("%s: %s "+ProgressLabelFormat, loc.GetText(KeyConvert), name, task.Percent))
	case model.TaskStatusCompleted:
		ui.downloadTab.setStatus(fmt.Sprintf("%s: %s", loc.GetText(KeyConvertFinished), name))
		ui.app.SendNotification(fyne.NewNotification(loc.GetText(KeyConvertFinished), name))
	case model.TaskStatusError:
		ui.showError(fmt.Errorf("%s: %s", name, task.LastError))
	}
}
