package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// AppIcon is the logo file looked up next to the executable
const AppIcon = "shtxd-clip.png"

// LoadLogoResource loads the logo from disk, falling back to the theme download icon
func LoadLogoResource() fyne.Resource {
	if res, err := fyne.LoadResourceFromPath(AppIcon); err == nil {
		return res
	}
	return theme.DownloadIcon()
}
