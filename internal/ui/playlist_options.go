package ui

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/shtxd/clip/internal/model"
)

// PlaylistOptions lets the user pick which playlist entries to download:
// a quantity preset, or an explicit from/to range that overrides it
type PlaylistOptions struct {
	localization *Localization

	enabled  *widget.Check
	quantity *widget.Select
	start    *widget.Entry
	end      *widget.Entry
	content  *fyne.Container
}

// NewPlaylistOptions creates the playlist range controls
func NewPlaylistOptions(localization *Localization, quantity string) *PlaylistOptions {
	po := &PlaylistOptions{localization: localization}

	po.quantity = widget.NewSelect(model.PlaylistQuantities, nil)
	po.quantity.SetSelected(quantity)
	if po.quantity.Selected == "" {
		po.quantity.SetSelected(model.DefaultPlaylistQuantity)
	}

	po.start = widget.NewEntry()
	po.start.SetPlaceHolder("1")
	po.start.Validator = validateIndex
	po.end = widget.NewEntry()
	po.end.SetPlaceHolder("10")
	po.end.Validator = validateIndex

	po.enabled = widget.NewCheck(localization.GetText(KeyPlaylistMode), func(on bool) {
		po.setInputsEnabled(on)
	})

	po.content = container.NewHBox(
		po.enabled,
		widget.NewLabel(localization.GetText(KeyQuantity)), po.quantity,
		widget.NewLabel(localization.GetText(KeyRangeStart)), container.NewGridWrap(fyne.NewSize(60, po.start.MinSize().Height), po.start),
		widget.NewLabel(localization.GetText(KeyRangeEnd)), container.NewGridWrap(fyne.NewSize(60, po.end.MinSize().Height), po.end),
	)
	po.setInputsEnabled(false)
	return po
}

func validateIndex(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return model.ErrInvalidRange
	}
	return nil
}

func (po *PlaylistOptions) setInputsEnabled(on bool) {
	for _, w := range []fyne.Disableable{po.quantity, po.start, po.end} {
		if on {
			w.Enable()
		} else {
			w.Disable()
		}
	}
}

// Container returns the controls
func (po *PlaylistOptions) Container() fyne.CanvasObject {
	return po.content
}

// SetPlaylist turns playlist mode on or off, e.g. when the URL changes
func (po *PlaylistOptions) SetPlaylist(on bool) {
	po.enabled.SetChecked(on)
	po.setInputsEnabled(on)
}

// Enabled reports whether playlist mode is on
func (po *PlaylistOptions) Enabled() bool {
	return po.enabled.Checked
}

// Quantity returns the selected quantity preset
func (po *PlaylistOptions) Quantity() string {
	return po.quantity.Selected
}

// Range resolves the selected range. A complete from/to pair wins over the quantity.
func (po *PlaylistOptions) Range() (model.PlaylistRange, error) {
	start, _ := strconv.Atoi(strings.TrimSpace(po.start.Text))
	end, _ := strconv.Atoi(strings.TrimSpace(po.end.Text))
	if start > 0 && end > 0 && start > end {
		return model.PlaylistRange{}, model.ErrInvalidRange
	}
	return model.ResolveRange(start, end, po.quantity.Selected)
}
