package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/shtxd/clip/internal/config"
	"github.com/shtxd/clip/internal/download"
	"github.com/shtxd/clip/internal/model"
	"github.com/shtxd/clip/internal/platform"
)

// Tab indexes
const (
	TabDownload = iota
	TabHistory
	TabSettings
)

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	settings     *config.Settings
	localization *Localization
	services     Services
	logger       *zap.Logger

	tabs        *container.AppTabs
	downloadTab *DownloadTab
	historyTab  *HistoryTab
	settingsTab *SettingsTab
	logPanel    *LogPanel
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, settings *config.Settings, services Services) *RootUI {
	if services.Logger == nil {
		services.Logger = zap.NewNop()
	}

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		app:          app,
		settings:     settings,
		localization: localization,
		services:     services,
		logger:       services.Logger,
		logPanel:     NewLogPanel(),
	}

	if err := platform.CreateDirectoryIfNotExists(settings.GetDownloadDirectory()); err != nil {
		ui.logger.Warn("failed to create download directory", zap.Error(err))
	}

	ui.applyTheme()
	services.Downloads.SetMaxParallelDownloads(settings.GetMaxParallelDownloads())
	services.Downloads.SetUpdateCallback(func(task model.DownloadTask) {
		fyne.Do(func() { ui.onTaskUpdate(task) })
	})
	if services.Transcoder != nil {
		services.Transcoder.SetUpdateCallback(func(task model.TranscodeTask) {
			fyne.Do(func() { ui.onTranscodeUpdate(task) })
		})
	}
	if services.Sink != nil {
		services.Sink.Subscribe(func(line string) {
			fyne.Do(func() { ui.logPanel.Append(line) })
		})
	}

	ui.setupUI()
	return ui
}

// Start checks external tools once the window is shown
func (ui *RootUI) Start() {
	ui.checkDependencies(func() {
		ui.logger.Info("ready")
	})
}

// setupUI builds (or rebuilds after a language change) the window content
func (ui *RootUI) setupUI() {
	loc := ui.localization
	ui.window.SetTitle(loc.GetText(KeyAppTitle))

	ui.downloadTab = NewDownloadTab(ui)
	ui.settingsTab = NewSettingsTab(ui)

	items := []*container.TabItem{
		container.NewTabItem(loc.GetText(KeyTabDownload), ui.downloadTab.Content()),
	}
	ui.historyTab = nil
	if ui.services.History != nil {
		ui.historyTab = NewHistoryTab(ui)
		items = append(items, container.NewTabItem(loc.GetText(KeyTabHistory), ui.historyTab.Content()))
	}
	items = append(items, container.NewTabItem(loc.GetText(KeyTabSettings), ui.settingsTab.Content()))

	ui.tabs = container.NewAppTabs(items...)
	ui.tabs.OnSelected = func(item *container.TabItem) {
		if ui.historyTab != nil && item.Content == ui.historyTab.Content() {
			ui.historyTab.Refresh()
		}
	}

	logTitle := widget.NewLabel(loc.GetText(KeyActivityLog))
	logTitle.TextStyle = fyne.TextStyle{Bold: true}
	clearLogBtn := widget.NewButton(IconClose, ui.logPanel.Clear)
	clearLogBtn.Importance = widget.LowImportance
	logBox := container.NewBorder(container.NewBorder(nil, nil, logTitle, clearLogBtn), nil, nil, nil, ui.logPanel.Container())

	split := container.NewVSplit(ui.tabs, logBox)
	split.SetOffset(0.78)
	ui.window.SetContent(split)
	ui.createMenu()
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	loc := ui.localization
	settingsItem := fyne.NewMenuItem(loc.GetText(KeyTabSettings), func() {
		ui.tabs.SelectIndex(len(ui.tabs.Items) - 1)
	})
	historyItem := fyne.NewMenuItem(loc.GetText(KeyTabHistory), func() {
		if ui.historyTab != nil {
			ui.tabs.SelectIndex(TabHistory)
		}
	})

	languageMenu := fyne.NewMenu(loc.GetText(KeyLanguage))
	names := ui.settings.GetLanguageOptions()
	current := ui.settings.GetLanguage()
	for _, code := range LanguageOrder {
		langCode := code
		item := fyne.NewMenuItem(names[code], func() {
			ui.onLanguageChange(langCode)
		})
		item.Checked = current == code
		languageMenu.Items = append(languageMenu.Items, item)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(loc.GetText(KeyFile), historyItem, settingsItem),
		languageMenu,
	))
}

// onLanguageChange stores the language and rebuilds every tab with the new texts
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.logger.Info("language changed", zap.String("language", ui.localization.GetCurrentLanguage()))

	selected := ui.tabs.SelectedIndex()
	ui.setupUI()
	ui.tabs.SelectIndex(selected)
}

// applyTheme installs the compact theme for the stored mode
func (ui *RootUI) applyTheme() {
	ui.app.Settings().SetTheme(NewCompactTheme(ui.settings.GetTheme()))
}

// showError surfaces an error to the user and the activity log
func (ui *RootUI) showError(err error) {
	if err == nil {
		return
	}
	ui.logger.Error(err.Error())
	dialog.ShowError(err, ui.window)
}

// onTaskUpdate handles task updates from the download service. Runs on the UI goroutine.
func (ui *RootUI) onTaskUpdate(task model.DownloadTask) {
	prev, existed := ui.downloadTab.onTaskUpdate(task)
	if existed && prev.Status == task.Status {
		return
	}

	loc := ui.localization
	switch task.Status {
	case model.TaskStatusCompleted:
		ui.logger.Info(loc.GetText(KeyDownloadCompleted), zap.String("title", task.GetDisplayTitle()), zap.String("file", task.OutputPath()))
		ui.sendCompletionNotification(task)
		if ui.settings.GetAutoRevealOnComplete() && task.OutputPath() != "" {
			ui.onRevealFile(task.OutputPath())
		}
		if ui.historyTab != nil {
			ui.historyTab.Refresh()
		}
	case model.TaskStatusError:
		ui.logger.Warn(loc.GetText(KeyDownloadFailed), zap.String("url", task.URL()), zap.String("error", task.LastError))
		ui.downloadTab.setStatus(loc.GetText(KeyDownloadFailed) + ": " + task.LastError)
		// playlist entries only go to the log; one dialog per entry would flood the window
		if task.PlaylistIndex == 0 {
			dialog.ShowError(fmt.Errorf("%s: %s", loc.GetText(KeyDownloadFailed), task.LastError), ui.window)
		}
	case model.TaskStatusStopped:
		ui.downloadTab.setStatus(loc.GetText(KeyDownloadCancelled))
	}
}

func (ui *RootUI) onCancelTask(taskID string) {
	if err := ui.services.Downloads.Cancel(taskID); err != nil && !errors.Is(err, download.ErrTaskNotActive) {
		ui.showError(err)
		return
	}
	ui.downloadTab.setStatus(ui.localization.GetText(KeyStoppingDownload))
}

func (ui *RootUI) onRetryTask(taskID string) {
	if err := ui.services.Downloads.Retry(taskID); err != nil {
		ui.showError(err)
	}
}

// onRemoveTask handles removing a task from the list
func (ui *RootUI) onRemoveTask(taskID string) {
	if err := ui.services.Downloads.Remove(taskID); err != nil && !errors.Is(err, download.ErrTaskNotFound) {
		ui.showError(err)
		return
	}
	ui.downloadTab.removeTask(taskID)
}

// checkFilePath rejects paths that are empty or look like URLs
func checkFilePath(filePath string) error {
	if filePath == "" {
		return errors.New("no file path provided")
	}
	if strings.HasPrefix(filePath, "http") {
		return fmt.Errorf("not a file path: %s", filePath)
	}
	return nil
}

// onRevealFile handles revealing a file in the system file manager
func (ui *RootUI) onRevealFile(filePath string) {
	if err := checkFilePath(filePath); err != nil {
		ui.showError(err)
		return
	}
	if err := platform.OpenFileInManager(filePath); err != nil {
		ui.showError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFile), err))
	}
}

// onOpenFile handles opening a downloaded file with the default application
func (ui *RootUI) onOpenFile(filePath string) {
	if err := checkFilePath(filePath); err != nil {
		ui.showError(err)
		return
	}
	if err := platform.OpenFileWithDefaultApp(filePath); err != nil {
		ui.showError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFile), err))
	}
}

// onCopyPath handles copying file path to clipboard
func (ui *RootUI) onCopyPath(filePath string) {
	if err := checkFilePath(filePath); err != nil {
		ui.showError(err)
		return
	}
	ui.app.Clipboard().SetContent(filePath)
	ui.downloadTab.setStatus(ui.localization.GetText(KeyPathCopied))
}

// sendCompletionNotification sends a system notification and an in-app toast
func (ui *RootUI) sendCompletionNotification(task model.DownloadTask) {
	ui.app.SendNotification(fyne.NewNotification(ui.localization.GetText(KeyDownloadCompleted), task.GetDisplayTitle()))
	ui.showToastNotification(task)
}

// showToastNotification shows an in-app toast notification with action buttons
func (ui *RootUI) showToastNotification(task model.DownloadTask) {
	loc := ui.localization
	path := task.OutputPath()

	titleLabel := widget.NewLabel(loc.GetText(KeyDownloadCompleted))
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	messageLabel := widget.NewLabel(task.GetDisplayTitle())
	messageLabel.Truncation = fyne.TextTruncateEllipsis

	var toastPopup *widget.PopUp
	hide := func() {
		if toastPopup != nil {
			toastPopup.Hide()
		}
	}

	revealBtn := widget.NewButton(loc.GetText(KeyReveal), func() {
		hide()
		ui.onRevealFile(path)
	})
	revealBtn.Importance = widget.HighImportance
	openBtn := widget.NewButton(loc.GetText(KeyOpen), func() {
		hide()
		ui.onOpenFile(path)
	})
	if path == "" {
		revealBtn.Disable()
		openBtn.Disable()
	}
	closeBtn := widget.NewButton(IconClose, hide)
	closeBtn.Importance = widget.LowImportance

	header := container.NewBorder(nil, nil, titleLabel, closeBtn)
	content := container.NewVBox(header, messageLabel, container.NewHBox(revealBtn, openBtn))

	toastPopup = widget.NewPopUp(content, ui.window.Canvas())
	canvasSize := ui.window.Canvas().Size()
	toastSize := fyne.NewSize(ToastWidth, ToastHeight)
	toastPopup.Resize(toastSize)
	toastPopup.Move(fyne.NewPos(canvasSize.Width-toastSize.Width-ToastMargin, ToastMargin))
	toastPopup.Show()

	time.AfterFunc(ToastAutoHide, func() {
		fyne.Do(hide)
	})
}
