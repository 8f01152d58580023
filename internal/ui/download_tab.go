package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/shtxd/clip/internal/download"
	"github.com/shtxd/clip/internal/model"
)

// DownloadTab is the main screen: URL input, options, preview, queue and activity log
type DownloadTab struct {
	root *RootUI

	urlEntry     *widget.Entry
	previewBtn   *widget.Button
	preview      *PreviewPanel
	qualityRadio *widget.RadioGroup
	subtitles    *widget.Check
	thumbnail    *widget.Check
	playlistOpts *PlaylistOptions
	pathEntry    *widget.Entry

	downloadBtn   *widget.Button
	overallBar    *widget.ProgressBar
	statusLabel   *widget.Label
	speedEtaLabel *widget.Label

	tasks   *TaskList
	content fyne.CanvasObject

	submitting bool
}

// NewDownloadTab builds the download screen
func NewDownloadTab(root *RootUI) *DownloadTab {
	dt := &DownloadTab{root: root}
	loc := root.localization
	settings := root.settings

	dt.urlEntry = widget.NewEntry()
	dt.urlEntry.SetPlaceHolder(loc.GetText(KeyEnterURL))
	dt.urlEntry.Validator = validateURL
	dt.urlEntry.OnChanged = dt.onURLChanged
	dt.urlEntry.OnSubmitted = func(string) { dt.onDownloadClick() }

	dt.previewBtn = widget.NewButton(loc.GetText(KeyPreview), dt.onPreviewClick)
	if root.services.Metadata == nil {
		dt.previewBtn.Hide()
	}
	dt.preview = NewPreviewPanel(loc)

	labels := make([]string, 0, len(model.AllQualities))
	for _, q := range model.AllQualities {
		labels = append(labels, q.String())
	}
	dt.qualityRadio = widget.NewRadioGroup(labels, nil)
	dt.qualityRadio.Horizontal = true
	dt.qualityRadio.Required = true
	dt.qualityRadio.SetSelected(settings.GetDefaultQuality().String())

	dt.subtitles = widget.NewCheck(loc.GetText(KeySubtitles), settings.SetSubtitles)
	dt.subtitles.SetChecked(settings.GetSubtitles())
	dt.thumbnail = widget.NewCheck(loc.GetText(KeyThumbnail), settings.SetThumbnail)
	dt.thumbnail.SetChecked(settings.GetThumbnail())
	dt.playlistOpts = NewPlaylistOptions(loc, settings.GetPlaylistQuantity())

	dt.pathEntry = widget.NewEntry()
	dt.pathEntry.SetText(settings.GetDownloadDirectory())
	dt.pathEntry.OnChanged = func(dir string) {
		if strings.TrimSpace(dir) != "" {
			settings.SetDownloadDirectory(dir)
		}
	}
	browseBtn := widget.NewButton(loc.GetText(KeyBrowse), dt.onBrowse)

	dt.downloadBtn = widget.NewButton(loc.GetText(KeyDownload), dt.onDownloadClick)
	dt.downloadBtn.Importance = widget.HighImportance
	dt.overallBar = widget.NewProgressBar()
	dt.statusLabel = widget.NewLabel(loc.GetText(KeyReady))
	dt.statusLabel.Truncation = fyne.TextTruncateEllipsis
	dt.speedEtaLabel = widget.NewLabel("")

	dt.tasks = NewTaskList(loc, TaskActions{
		OnCancel:   root.onCancelTask,
		OnRetry:    root.onRetryTask,
		OnRemove:   root.onRemoveTask,
		OnReveal:   root.onRevealFile,
		OnOpen:     root.onOpenFile,
		OnCopyPath: root.onCopyPath,
		OnConvert:  root.convertAction(),
	})

	urlRow := container.NewBorder(nil, nil, nil, dt.previewBtn, dt.urlEntry)
	pathRow := container.NewBorder(nil, nil, widget.NewLabel(loc.GetText(KeyDownloadDirectory)), browseBtn, dt.pathEntry)
	options := widget.NewCard("", loc.GetText(KeyOptions), container.NewVBox(
		container.NewHBox(widget.NewLabel(loc.GetText(KeyQuality)), dt.qualityRadio),
		container.NewHBox(dt.subtitles, dt.thumbnail),
		dt.playlistOpts.Container(),
		pathRow,
	))
	progressRow := container.NewBorder(nil, nil, nil, dt.downloadBtn, dt.overallBar)
	statusRow := container.NewBorder(nil, nil, nil, dt.speedEtaLabel, dt.statusLabel)

	top := container.NewVBox(urlRow, dt.preview.Container(), options, progressRow, statusRow)
	dt.content = container.NewBorder(top, nil, nil, nil, dt.tasks.Widget())

	for _, task := range root.services.Downloads.GetAllTasks() {
		dt.tasks.Upsert(task)
	}
	dt.refreshSummary()
	return dt
}

// Content returns the tab content
func (dt *DownloadTab) Content() fyne.CanvasObject {
	return dt.content
}

// validateURL accepts an empty entry and YouTube video or playlist links
func validateURL(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	if !model.IsValidYouTubeURL(input) {
		return model.ErrInvalidURL
	}
	return nil
}

func (dt *DownloadTab) onURLChanged(input string) {
	dt.preview.Clear()
	dt.playlistOpts.SetPlaylist(model.IsPlaylistURL(strings.TrimSpace(input)))
}

func (dt *DownloadTab) onBrowse() {
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			dt.root.showError(err)
			return
		}
		if dir == nil {
			return
		}
		dt.pathEntry.SetText(dir.Path())
	}, dt.root.window)
}

// buildJob turns the form into a job; validation happens in the download service
func (dt *DownloadTab) buildJob() (model.DownloadJob, error) {
	job := dt.root.settings.NewJob(dt.urlEntry.Text)
	job.OutputDir = dt.pathEntry.Text
	job.Subtitles = dt.subtitles.Checked
	job.Thumbnail = dt.thumbnail.Checked
	if q, err := model.ParseQuality(dt.qualityRadio.Selected); err == nil {
		job.Quality = q
	}

	if dt.playlistOpts.Enabled() {
		r, err := dt.playlistOpts.Range()
		if err != nil {
			return job, err
		}
		job.Playlist = true
		job.Range = r
		dt.root.settings.SetPlaylistQuantity(dt.playlistOpts.Quantity())
	}
	return job, nil
}

// onDownloadClick starts a download, or cancels everything while tasks are running
func (dt *DownloadTab) onDownloadClick() {
	if dt.submitting {
		return
	}
	if active, _ := dt.tasks.Summary(); active > 0 {
		dt.root.services.Downloads.CancelAll()
		dt.statusLabel.SetText(dt.root.localization.GetText(KeyStoppingDownload))
		return
	}

	if strings.TrimSpace(dt.urlEntry.Text) == "" {
		dt.statusLabel.SetText(dt.root.localization.GetText(KeyPleaseEnterURL))
		return
	}

	job, err := dt.buildJob()
	if err != nil {
		dt.root.showError(err)
		return
	}

	dt.submitting = true
	dt.downloadBtn.Disable()
	if job.Playlist {
		dt.statusLabel.SetText(dt.root.localization.GetText(KeyFetchingInfo))
	}

	go func() {
		tasks, err := dt.root.services.Downloads.Submit(context.Background(), job)
		fyne.Do(func() {
			dt.submitting = false
			dt.downloadBtn.Enable()
			if err != nil {
				dt.onSubmitError(err)
				return
			}
			for _, task := range tasks {
				dt.tasks.Upsert(task)
			}
			dt.urlEntry.SetText("")
			dt.statusLabel.SetText(fmt.Sprintf("%s (%d)", dt.root.localization.GetText(KeyDownloadStarted), len(tasks)))
			dt.refreshSummary()
		})
	}()
}

func (dt *DownloadTab) onSubmitError(err error) {
	loc := dt.root.localization
	switch {
	case errors.Is(err, download.ErrDuplicateTask):
		dt.statusLabel.SetText(loc.GetText(KeyAlreadyInQueue))
	case errors.Is(err, model.ErrEmptyURL):
		dt.statusLabel.SetText(loc.GetText(KeyPleaseEnterURL))
	case errors.Is(err, model.ErrInvalidURL):
		dt.statusLabel.SetText(loc.GetText(KeyInvalidURL))
		dt.root.showError(err)
	default:
		dt.statusLabel.SetText(loc.GetText(KeyError))
		dt.root.showError(err)
	}
}

func (dt *DownloadTab) onPreviewClick() {
	url := strings.TrimSpace(dt.urlEntry.Text)
	if url == "" {
		dt.statusLabel.SetText(dt.root.localization.GetText(KeyPleaseEnterURL))
		return
	}
	if err := validateURL(url); err != nil {
		dt.preview.ShowError(err)
		return
	}

	dt.preview.ShowLoading()
	dt.previewBtn.Disable()
	metadata := dt.root.services.Metadata
	playlist := dt.playlistOpts.Enabled() && model.IsPlaylistURL(url)

	go func() {
		var (
			info *model.VideoInfo
			list *model.Playlist
			err  error
		)
		if playlist {
			list, err = metadata.Playlist(context.Background(), url)
		} else {
			info, err = metadata.VideoInfo(context.Background(), url)
		}

		fyne.Do(func() {
			dt.previewBtn.Enable()
			// the user may have typed another URL meanwhile
			if strings.TrimSpace(dt.urlEntry.Text) != url {
				return
			}
			switch {
			case err != nil:
				dt.root.logger.Warn("preview failed", zap.String("url", url), zap.Error(err))
				dt.preview.ShowError(err)
			case list != nil:
				dt.preview.ShowPlaylist(list)
			default:
				dt.preview.ShowVideo(info)
			}
		})
	}()
}

// onTaskUpdate applies a task snapshot. Must run on the UI goroutine.
func (dt *DownloadTab) onTaskUpdate(task model.DownloadTask) (model.DownloadTask, bool) {
	if _, known := dt.root.services.Downloads.GetTask(task.ID); !known {
		// removed while the update was queued
		dt.tasks.Remove(task.ID)
		dt.refreshSummary()
		return model.DownloadTask{}, false
	}
	prev, existed := dt.tasks.Upsert(task)
	if task.Status.IsActive() {
		dt.statusLabel.SetText(statusText(task, dt.root.localization) + MiddleDotSeparator + task.GetDisplayTitle())
		dt.speedEtaLabel.SetText(speedEtaText(task))
	}
	dt.refreshSummary()
	return prev, existed
}

// refreshSummary updates the overall bar and the Download/Cancel toggle
func (dt *DownloadTab) refreshSummary() {
	loc := dt.root.localization
	active, progress := dt.tasks.Summary()
	dt.overallBar.SetValue(progress)

	if active > 0 {
		dt.downloadBtn.SetText(loc.GetText(KeyCancel))
		dt.downloadBtn.Importance = widget.DangerImportance
	} else {
		dt.downloadBtn.SetText(loc.GetText(KeyDownload))
		dt.downloadBtn.Importance = widget.HighImportance
		dt.speedEtaLabel.SetText("")
	}
	dt.downloadBtn.Refresh()
}

// setStatus shows a one-line message under the progress bar
func (dt *DownloadTab) setStatus(text string) {
	dt.statusLabel.SetText(text)
}

// removeTask drops a row without touching the service
func (dt *DownloadTab) removeTask(id string) {
	dt.tasks.Remove(id)
	dt.refreshSummary()
}
