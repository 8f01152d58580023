package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/shtxd/clip/internal/history"
	"github.com/shtxd/clip/internal/platform"
)

// HistoryTimeLayout is how entry timestamps are shown
const HistoryTimeLayout = "2006-01-02 15:04"

// HistoryTab lists finished downloads stored in the history database
type HistoryTab struct {
	root *RootUI

	entries  []*history.Entry
	selected int
	list     *widget.List
	empty    *widget.Label
	openBtn  *widget.Button
	content  fyne.CanvasObject
}

// NewHistoryTab builds the history screen and loads the entries
func NewHistoryTab(root *RootUI) *HistoryTab {
	ht := &HistoryTab{root: root, selected: -1}
	loc := root.localization

	ht.list = widget.NewList(
		func() int { return len(ht.entries) },
		func() fyne.CanvasObject {
			title := widget.NewLabel("")
			title.TextStyle = fyne.TextStyle{Bold: true}
			title.Truncation = fyne.TextTruncateEllipsis
			details := widget.NewLabel("")
			details.Truncation = fyne.TextTruncateEllipsis
			return container.NewVBox(title, details)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(ht.entries) {
				return
			}
			box := obj.(*fyne.Container)
			entry := ht.entries[id]
			box.Objects[0].(*widget.Label).SetText(entry.Title)
			box.Objects[1].(*widget.Label).SetText(historyDetails(entry))
		},
	)
	ht.list.OnSelected = func(id widget.ListItemID) {
		ht.selected = id
		ht.openBtn.Enable()
	}
	ht.list.OnUnselected = func(widget.ListItemID) {
		ht.selected = -1
		ht.openBtn.Disable()
	}

	ht.empty = widget.NewLabel(loc.GetText(KeyHistoryEmpty))
	ht.openBtn = widget.NewButton(loc.GetText(KeyOpenFolder), ht.onOpenFolder)
	ht.openBtn.Disable()
	refreshBtn := widget.NewButton(loc.GetText(KeyRefresh), ht.Refresh)
	clearBtn := widget.NewButton(loc.GetText(KeyClearHistory), ht.onClear)
	clearBtn.Importance = widget.DangerImportance

	toolbar := container.NewHBox(ht.openBtn, refreshBtn, clearBtn)
	ht.content = container.NewBorder(toolbar, nil, nil, nil, container.NewStack(ht.list, container.NewCenter(ht.empty)))

	ht.Refresh()
	return ht
}

// Content returns the tab content
func (ht *HistoryTab) Content() fyne.CanvasObject {
	return ht.content
}

// Refresh reloads entries from the store
func (ht *HistoryTab) Refresh() {
	entries, err := ht.root.services.History.List()
	if err != nil {
		ht.root.logger.Error("failed to load history", zap.Error(err))
		entries = nil
	}
	ht.entries = entries
	ht.selected = -1
	ht.list.UnselectAll()
	ht.openBtn.Disable()
	if len(entries) == 0 {
		ht.empty.Show()
	} else {
		ht.empty.Hide()
	}
	ht.list.Refresh()
}

func (ht *HistoryTab) onOpenFolder() {
	if ht.selected < 0 || ht.selected >= len(ht.entries) {
		return
	}
	entry := ht.entries[ht.selected]
	target := entry.OutputDir
	if entry.FilePath != "" {
		if err := platform.OpenFileInManager(entry.FilePath); err == nil {
			return
		}
	}
	if err := platform.OpenFolder(target); err != nil {
		ht.root.showError(fmt.Errorf("%s: %w", ht.root.localization.GetText(KeyErrorOpeningFile), err))
	}
}

func (ht *HistoryTab) onClear() {
	loc := ht.root.localization
	dialog.ShowConfirm(loc.GetText(KeyClearHistory), loc.GetText(KeyConfirmClear), func(ok bool) {
		if !ok {
			return
		}
		if err := ht.root.services.History.Clear(); err != nil {
			ht.root.showError(err)
			return
		}
		ht.root.logger.Info("history cleared")
		ht.Refresh()
	}, ht.root.window)
}

// historyDetails renders "2024-01-02 15:04 · 720p · completed · /path"
func historyDetails(entry *history.Entry) string {
	where := entry.FilePath
	if where == "" {
		where = entry.OutputDir
	}
	return entry.CreatedAt.Format(HistoryTimeLayout) + MiddleDotSeparator +
		entry.Quality + MiddleDotSeparator +
		entry.Status + MiddleDotSeparator + where
}
