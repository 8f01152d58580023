package ui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LogPanel is the read-only activity log fed by the logging sink
type LogPanel struct {
	lines  []string
	limit  int
	label  *widget.Label
	scroll *container.Scroll
}

// NewLogPanel creates an empty log panel
func NewLogPanel() *LogPanel {
	lp := &LogPanel{limit: MaxLogLines}
	lp.label = widget.NewLabel("")
	lp.label.TextStyle = fyne.TextStyle{Monospace: true}
	lp.label.Wrapping = fyne.TextWrapWord
	lp.scroll = container.NewVScroll(lp.label)
	lp.scroll.SetMinSize(fyne.NewSize(0, LogPanelHeight))
	return lp
}

// Container returns the scrollable log
func (lp *LogPanel) Container() fyne.CanvasObject {
	return lp.scroll
}

// Append adds a line, dropping the oldest above the limit. Must run on the UI goroutine.
func (lp *LogPanel) Append(line string) {
	lp.lines = append(lp.lines, strings.TrimRight(line, "\n"))
	if len(lp.lines) > lp.limit {
		lp.lines = lp.lines[len(lp.lines)-lp.limit:]
	}
	lp.label.SetText(strings.Join(lp.lines, "\n"))
	lp.scroll.ScrollToBottom()
}

// Clear empties the log
func (lp *LogPanel) Clear() {
	lp.lines = nil
	lp.label.SetText("")
}

// Lines returns the lines shown
func (lp *LogPanel) Lines() []string {
	return append([]string(nil), lp.lines...)
}
