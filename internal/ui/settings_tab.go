package ui

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/shtxd/clip/internal/config"
	"github.com/shtxd/clip/internal/model"
	"github.com/shtxd/clip/internal/updater"
)

// LanguageOrder is the order languages are offered in
var LanguageOrder = []string{LangSystem, LangEnglish, LangRussian, LangPortug}

// SettingsTab edits stored preferences and manages yt-dlp and app updates
type SettingsTab struct {
	root *RootUI

	themeSelect    *widget.Select
	qualitySelect  *widget.Select
	languageSelect *widget.Select
	parallelSelect *widget.Select
	dirEntry       *widget.Entry
	templateEntry  *widget.Entry
	autoReveal     *widget.Check

	ytdlpVersion *widget.Label
	ytdlpBtn     *widget.Button
	appUpdateBtn *widget.Button

	languageNames map[string]string
	content       fyne.CanvasObject
}

// NewSettingsTab builds the settings screen
func NewSettingsTab(root *RootUI) *SettingsTab {
	st := &SettingsTab{root: root}
	loc := root.localization
	settings := root.settings

	st.themeSelect = widget.NewSelect(settings.GetThemeOptions(), nil)
	st.themeSelect.SetSelected(settings.GetTheme())

	qualities := make([]string, 0, len(model.AllQualities))
	for _, q := range model.AllQualities {
		qualities = append(qualities, q.String())
	}
	st.qualitySelect = widget.NewSelect(qualities, nil)
	st.qualitySelect.SetSelected(settings.GetDefaultQuality().String())

	st.languageNames = settings.GetLanguageOptions()
	names := make([]string, 0, len(LanguageOrder))
	for _, code := range LanguageOrder {
		names = append(names, st.languageNames[code])
	}
	st.languageSelect = widget.NewSelect(names, nil)
	st.languageSelect.SetSelected(st.languageNames[settings.GetLanguage()])

	parallel := make([]string, 0, config.MaxParallel)
	for i := config.MinParallel; i <= config.MaxParallel; i++ {
		parallel = append(parallel, strconv.Itoa(i))
	}
	st.parallelSelect = widget.NewSelect(parallel, nil)
	st.parallelSelect.SetSelected(strconv.Itoa(settings.GetMaxParallelDownloads()))

	st.dirEntry = widget.NewEntry()
	st.dirEntry.SetText(settings.GetDownloadDirectory())
	st.templateEntry = widget.NewEntry()
	st.templateEntry.SetText(settings.GetFilenameTemplate())
	st.templateEntry.Validator = validateTemplate
	st.autoReveal = widget.NewCheck(loc.GetText(KeyAutoReveal), nil)
	st.autoReveal.SetChecked(settings.GetAutoRevealOnComplete())

	form := widget.NewForm(
		widget.NewFormItem(loc.GetText(KeyTheme), st.themeSelect),
		widget.NewFormItem(loc.GetText(KeyLanguage), st.languageSelect),
		widget.NewFormItem(loc.GetText(KeyDefaultQuality), st.qualitySelect),
		widget.NewFormItem(loc.GetText(KeyMaxParallel), st.parallelSelect),
		widget.NewFormItem(loc.GetText(KeyDownloadDirectory), st.dirEntry),
		widget.NewFormItem(loc.GetText(KeyFilenameTemplate), st.templateEntry),
		widget.NewFormItem("", st.autoReveal),
	)
	form.SubmitText = loc.GetText(KeySave)
	form.OnSubmit = st.onSave

	tools := container.NewVBox()
	if root.services.YTDLP != nil {
		st.ytdlpVersion = widget.NewLabel(loc.GetText(KeyYTDLPVersion) + ": " + DashPlaceholder)
		st.ytdlpBtn = widget.NewButton(loc.GetText(KeyUpdateYTDLP), st.onUpdateYTDLP)
		tools.Add(container.NewBorder(nil, nil, nil, st.ytdlpBtn, st.ytdlpVersion))
		st.refreshYTDLPVersion()
	}
	if root.services.Releases != nil {
		st.appUpdateBtn = widget.NewButton(loc.GetText(KeyCheckAppUpdates), st.onCheckAppUpdates)
		version := widget.NewLabel(fmt.Sprintf("%s %s", loc.GetText(KeyAppTitle), updater.AppVersion))
		tools.Add(container.NewBorder(nil, nil, nil, st.appUpdateBtn, version))
	}

	st.content = container.NewVScroll(container.NewVBox(form, widget.NewSeparator(), tools))
	return st
}

// Content returns the tab content
func (st *SettingsTab) Content() fyne.CanvasObject {
	return st.content
}

func validateTemplate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if !strings.Contains(s, "%(") {
		return fmt.Errorf("template must contain a yt-dlp field such as %%(title)s")
	}
	return nil
}

func (st *SettingsTab) languageCode(name string) string {
	for code, n := range st.languageNames {
		if n == name {
			return code
		}
	}
	return LangSystem
}

func (st *SettingsTab) onSave() {
	settings := st.root.settings

	settings.SetTheme(st.themeSelect.Selected)
	st.root.applyTheme()

	if q, err := model.ParseQuality(st.qualitySelect.Selected); err == nil {
		settings.SetDefaultQuality(q)
	}
	if n, err := strconv.Atoi(st.parallelSelect.Selected); err == nil {
		settings.SetMaxParallelDownloads(n)
		st.root.services.Downloads.SetMaxParallelDownloads(settings.GetMaxParallelDownloads())
	}
	if dir := strings.TrimSpace(st.dirEntry.Text); dir != "" {
		settings.SetDownloadDirectory(dir)
	}
	if st.templateEntry.Validate() == nil {
		settings.SetFilenameTemplate(strings.TrimSpace(st.templateEntry.Text))
	}
	settings.SetAutoRevealOnComplete(st.autoReveal.Checked)

	st.root.logger.Info("settings saved")
	langCode := st.languageCode(st.languageSelect.Selected)
	if langCode != settings.GetLanguage() {
		// rebuilds every tab, including this one
		st.root.onLanguageChange(langCode)
		return
	}
	st.root.downloadTab.setStatus(st.root.localization.GetText(KeySettingsSaved))
}

func (st *SettingsTab) refreshYTDLPVersion() {
	yt := st.root.services.YTDLP
	go func() {
		version, err := yt.Version(context.Background())
		fyne.Do(func() {
			loc := st.root.localization
			if err != nil {
				st.ytdlpVersion.SetText(loc.GetText(KeyYTDLPVersion) + ": " + DashPlaceholder)
				st.ytdlpBtn.SetText(loc.GetText(KeyInstallYTDLP))
				return
			}
			st.ytdlpVersion.SetText(loc.GetText(KeyYTDLPVersion) + ": " + version)
			st.ytdlpBtn.SetText(loc.GetText(KeyUpdateYTDLP))
		})
	}()
}

func (st *SettingsTab) onUpdateYTDLP() {
	loc := st.root.localization
	yt := st.root.services.YTDLP
	st.ytdlpBtn.Disable()
	st.ytdlpVersion.SetText(loc.GetText(KeyUpdating))

	go func() {
		ctx := context.Background()
		version, err := yt.Version(ctx)
		if err != nil {
			_, err = yt.EnsureInstalled(ctx)
		} else {
			version, err = yt.Update(ctx)
		}
		fyne.Do(func() {
			st.ytdlpBtn.Enable()
			if err != nil {
				st.root.showError(err)
			} else {
				st.root.logger.Info("yt-dlp ready", zap.String("version", version))
			}
			st.refreshYTDLPVersion()
		})
	}()
}

func (st *SettingsTab) onCheckAppUpdates() {
	st.appUpdateBtn.Disable()
	releases := st.root.services.Releases

	go func() {
		info, err := releases.Check(context.Background())
		fyne.Do(func() {
			st.appUpdateBtn.Enable()
			if err != nil {
				st.root.showError(err)
				return
			}
			st.showUpdateInfo(info)
		})
	}()
}

func (st *SettingsTab) showUpdateInfo(info *updater.UpdateInfo) {
	loc := st.root.localization
	if !info.Available {
		dialog.ShowInformation(loc.GetText(KeyCheckAppUpdates), loc.GetText(KeyUpToDate), st.root.window)
		return
	}

	content := container.NewVBox(
		widget.NewLabel(fmt.Sprintf("%s: %s → %s", loc.GetText(KeyUpdateAvailable), info.CurrentVersion, info.LatestVersion)),
	)
	link := info.DownloadURL
	if link == "" {
		link = info.ReleaseURL
	}
	if u, err := url.Parse(link); err == nil && link != "" {
		content.Add(widget.NewHyperlink(link, u))
	}
	if notes := strings.TrimSpace(info.Notes); notes != "" {
		label := widget.NewLabel(model.TruncateText(notes, PreviewDescriptionLength))
		label.Wrapping = fyne.TextWrapWord
		content.Add(label)
	}
	dialog.ShowCustom(loc.GetText(KeyCheckAppUpdates), loc.GetText(KeyClose), content, st.root.window)
}
