package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/shtxd/clip/internal/model"
)

// TaskActions are the row button handlers. Nil handlers hide their button.
type TaskActions struct {
	OnCancel   func(taskID string)
	OnRetry    func(taskID string)
	OnRemove   func(taskID string)
	OnReveal   func(filePath string)
	OnOpen     func(filePath string)
	OnCopyPath func(filePath string)
	OnConvert  func(filePath string)
}

// TaskRow represents a compact task row widget
type TaskRow struct {
	widget.BaseWidget

	task         model.DownloadTask
	localization *Localization
	actions      TaskActions

	titleLabel    *widget.Label
	statusLabel   *widget.Label
	progressLabel *widget.Label
	speedEtaLabel *widget.Label
	progressBar   *widget.ProgressBar

	actionBtn  *widget.Button // cancel or retry
	revealBtn  *widget.Button
	openBtn    *widget.Button
	copyBtn    *widget.Button
	convertBtn *widget.Button
	removeBtn  *widget.Button
}

// NewTaskRow creates a new task row widget
func NewTaskRow(localization *Localization) *TaskRow {
	tr := &TaskRow{localization: localization}
	tr.ExtendBaseWidget(tr)
	tr.createUI()
	tr.updateFromTask()
	return tr
}

// SetCallbacks sets the action callbacks
func (tr *TaskRow) SetCallbacks(actions TaskActions) {
	tr.actions = actions
	tr.updateButtons()
}

// UpdateTask updates the row with new task data
func (tr *TaskRow) UpdateTask(task model.DownloadTask) {
	tr.task = task
	tr.updateFromTask()
	tr.Refresh()
}

// Task returns the task shown by the row
func (tr *TaskRow) Task() model.DownloadTask {
	return tr.task
}

func (tr *TaskRow) createUI() {
	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.Alignment = fyne.TextAlignTrailing
	tr.progressLabel = widget.NewLabel("")
	tr.progressLabel.Alignment = fyne.TextAlignTrailing
	tr.speedEtaLabel = widget.NewLabel("")
	tr.speedEtaLabel.TextStyle = fyne.TextStyle{Monospace: true}

	tr.progressBar = widget.NewProgressBar()
	tr.progressBar.TextFormatter = func() string { return "" }

	tr.actionBtn = widget.NewButton("", tr.onAction)
	tr.revealBtn = widget.NewButton(tr.localization.GetText(KeyReveal), func() {
		if tr.actions.OnReveal != nil {
			tr.actions.OnReveal(tr.task.OutputPath())
		}
	})
	tr.openBtn = widget.NewButton(tr.localization.GetText(KeyOpen), func() {
		if tr.actions.OnOpen != nil {
			tr.actions.OnOpen(tr.task.OutputPath())
		}
	})
	tr.copyBtn = widget.NewButton(tr.localization.GetText(KeyCopyPath), func() {
		if tr.actions.OnCopyPath != nil {
			tr.actions.OnCopyPath(tr.task.OutputPath())
		}
	})
	tr.convertBtn = widget.NewButton(tr.localization.GetText(KeyConvert), func() {
		if tr.actions.OnConvert != nil {
			tr.actions.OnConvert(tr.task.OutputPath())
		}
	})
	tr.removeBtn = widget.NewButton(IconClose, func() {
		if tr.actions.OnRemove != nil {
			tr.actions.OnRemove(tr.task.ID)
		}
	})
	tr.removeBtn.Importance = widget.LowImportance
}

// onAction cancels a running task or retries a stopped/failed one
func (tr *TaskRow) onAction() {
	switch {
	case tr.task.Status.CanRetry():
		if tr.actions.OnRetry != nil {
			tr.actions.OnRetry(tr.task.ID)
		}
	case !tr.task.Status.IsFinished():
		if tr.actions.OnCancel != nil {
			tr.actions.OnCancel(tr.task.ID)
		}
	}
}

// updateFromTask updates UI components based on task state
func (tr *TaskRow) updateFromTask() {
	title := tr.task.GetDisplayTitle()
	if tr.task.PlaylistIndex > 0 {
		title = fmt.Sprintf("%d. %s", tr.task.PlaylistIndex, title)
	}
	tr.titleLabel.SetText(title)

	tr.statusLabel.Importance = statusImportance(tr.task.Status)
	tr.statusLabel.SetText(statusText(tr.task, tr.localization))

	percent := int(tr.task.Percent)
	if tr.task.Status == model.TaskStatusCompleted {
		percent = 100
	}
	tr.progressBar.SetValue(float64(percent) / 100)
	tr.progressLabel.SetText(fmt.Sprintf(ProgressLabelFormat, percent))
	tr.speedEtaLabel.SetText(speedEtaText(tr.task))

	tr.updateButtons()
}

// updateButtons updates button states based on task status
func (tr *TaskRow) updateButtons() {
	switch {
	case tr.task.Status.CanRetry():
		tr.actionBtn.SetText(tr.localization.GetText(KeyRetry))
		tr.actionBtn.Importance = widget.HighImportance
		tr.actionBtn.Enable()
	case tr.task.Status == model.TaskStatusCompleted || tr.task.Status == model.TaskStatusStopping:
		tr.actionBtn.SetText(tr.localization.GetText(KeyCancel))
		tr.actionBtn.Importance = widget.MediumImportance
		tr.actionBtn.Disable()
	default:
		tr.actionBtn.SetText(tr.localization.GetText(KeyCancel))
		tr.actionBtn.Importance = widget.DangerImportance
		tr.actionBtn.Enable()
	}

	hasFile := tr.task.Status == model.TaskStatusCompleted && tr.task.OutputPath() != ""
	for _, btn := range []*widget.Button{tr.revealBtn, tr.openBtn, tr.copyBtn, tr.convertBtn} {
		if hasFile {
			btn.Enable()
		} else {
			btn.Disable()
		}
	}
	if tr.actions.OnConvert == nil {
		tr.convertBtn.Hide()
	} else {
		tr.convertBtn.Show()
	}
}

// statusText is the status column text, using the extractor's status line while running
func statusText(task model.DownloadTask, loc *Localization) string {
	switch task.Status {
	case model.TaskStatusError:
		return IconError + " " + loc.GetText(KeyError)
	case model.TaskStatusCompleted:
		return IconDone + " " + task.Status.String()
	case model.TaskStatusPending:
		return IconPending + " " + task.Status.String()
	case model.TaskStatusStopped:
		return IconStop + " " + task.Status.String()
	case model.TaskStatusDownloading, model.TaskStatusProcessing:
		if task.StatusText != "" {
			return task.StatusText
		}
		return IconPlay + " " + task.Status.String()
	}
	return task.Status.String()
}

func statusImportance(status model.TaskStatus) widget.Importance {
	switch status {
	case model.TaskStatusError:
		return widget.DangerImportance
	case model.TaskStatusCompleted:
		return widget.SuccessImportance
	case model.TaskStatusDownloading, model.TaskStatusProcessing:
		return widget.HighImportance
	}
	return widget.MediumImportance
}

// speedEtaText renders "speed · ETA" while downloading and the error line on failure
func speedEtaText(task model.DownloadTask) string {
	switch task.Status {
	case model.TaskStatusDownloading:
		text := task.Speed
		if task.ETASec > 0 {
			if text != "" {
				text += MiddleDotSeparator
			}
			text += task.GetETAString()
		}
		if text == "" {
			return DashPlaceholder
		}
		return text
	case model.TaskStatusError:
		return model.TruncateText(task.LastError, 0)
	}
	return ""
}

// CreateRenderer creates the widget renderer
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	// Helper to fix width using a transparent rectangle underneath
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	info := container.NewHBox(
		fixedWidth(SpeedLabelWidth, tr.speedEtaLabel),
		fixedWidth(PercentLabelWidth, tr.progressLabel),
		fixedWidth(StatusLabelWidth, tr.statusLabel),
	)
	actions := container.NewHBox(tr.actionBtn, tr.revealBtn, tr.openBtn, tr.copyBtn, tr.convertBtn, tr.removeBtn)

	top := container.NewBorder(nil, nil, nil, info, tr.titleLabel)
	bottom := container.NewBorder(nil, nil, nil, actions, tr.progressBar)
	content := container.NewVBox(top, bottom, widget.NewSeparator())

	return widget.NewSimpleRenderer(content)
}

// MinSize keeps rows readable in narrow windows
func (tr *TaskRow) MinSize() fyne.Size {
	size := tr.BaseWidget.MinSize()
	return fyne.NewSize(max(size.Width, RowMinWidth), max(size.Height, RowMinHeight))
}
