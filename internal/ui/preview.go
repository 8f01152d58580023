package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/shtxd/clip/internal/model"
)

// PreviewPanel shows video or playlist metadata before downloading
type PreviewPanel struct {
	localization *Localization

	title       *widget.Label
	details     *widget.Label
	description *widget.Label
	spinner     *widget.ProgressBarInfinite
	content     *fyne.Container
}

// NewPreviewPanel creates an empty preview panel
func NewPreviewPanel(localization *Localization) *PreviewPanel {
	p := &PreviewPanel{localization: localization}

	p.title = widget.NewLabel("")
	p.title.TextStyle = fyne.TextStyle{Bold: true}
	p.title.Truncation = fyne.TextTruncateEllipsis
	p.details = widget.NewLabel("")
	p.description = widget.NewLabel("")
	p.description.Wrapping = fyne.TextWrapWord
	p.spinner = widget.NewProgressBarInfinite()
	p.spinner.Hide()

	p.content = container.NewVBox(p.spinner, p.title, p.details, p.description)
	p.Clear()
	return p
}

// Container returns the panel
func (p *PreviewPanel) Container() fyne.CanvasObject {
	return p.content
}

// Clear hides all preview content
func (p *PreviewPanel) Clear() {
	p.spinner.Stop()
	p.spinner.Hide()
	p.title.SetText("")
	p.details.SetText("")
	p.description.SetText("")
	p.description.Hide()
}

// ShowLoading shows the spinner while metadata is fetched
func (p *PreviewPanel) ShowLoading() {
	p.Clear()
	p.title.SetText(p.localization.GetText(KeyFetchingInfo))
	p.spinner.Show()
	p.spinner.Start()
}

// ShowError shows a failed lookup
func (p *PreviewPanel) ShowError(err error) {
	p.Clear()
	p.title.SetText(p.localization.GetText(KeyPreviewFailed))
	p.details.SetText(err.Error())
}

// ShowVideo shows single video metadata
func (p *PreviewPanel) ShowVideo(info *model.VideoInfo) {
	p.Clear()
	p.title.SetText(model.TruncateText(info.Title, PreviewTitleLength))
	p.details.SetText(videoSummary(info, p.localization))
	if desc := info.ShortDescription(); desc != "" {
		p.description.SetText(desc)
		p.description.Show()
	}
}

// ShowPlaylist shows the playlist summary and its first titles
func (p *PreviewPanel) ShowPlaylist(playlist *model.Playlist) {
	p.Clear()
	p.title.SetText(model.TruncateText(playlist.Title, PreviewTitleLength))
	p.details.SetText(playlistSummary(playlist, p.localization))
	if titles := playlist.PreviewTitles(); len(titles) > 0 {
		lines := make([]string, 0, len(titles)+1)
		for i, t := range titles {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, model.TruncateText(t, 0)))
		}
		if rest := playlist.Count() - len(titles); rest > 0 {
			lines = append(lines, fmt.Sprintf("... +%d", rest))
		}
		p.description.SetText(strings.Join(lines, "\n"))
		p.description.Show()
	}
}

// videoSummary renders "Channel: X · Duration: 3:32 · Views: 1,234 · Uploaded: 2009-10-25"
func videoSummary(info *model.VideoInfo, loc *Localization) string {
	uploader := info.Uploader
	if uploader == "" {
		uploader = loc.GetText(KeyUnknown)
	}
	parts := []string{
		loc.GetText(KeyUploader) + ": " + uploader,
		loc.GetText(KeyDuration) + ": " + info.DurationString(),
		loc.GetText(KeyViews) + ": " + info.ViewCountString(),
		loc.GetText(KeyUploaded) + ": " + info.UploadDateString(),
	}
	return strings.Join(parts, MiddleDotSeparator)
}

// playlistSummary renders "12 videos · ~1h 0m"
func playlistSummary(playlist *model.Playlist, loc *Localization) string {
	summary := fmt.Sprintf("%d %s", playlist.Count(), loc.GetText(KeyVideos))
	if playlist.Uploader != "" {
		summary = playlist.Uploader + MiddleDotSeparator + summary
	}
	return summary + MiddleDotSeparator + playlist.EstimatedDurationString()
}
