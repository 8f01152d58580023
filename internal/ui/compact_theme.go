package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/shtxd/clip/internal/config"
)

// CompactTheme defines a compact theme for the UI with reduced padding and font sizes.
// Mode forces the dark or light variant; config.ThemeSystem follows the OS.
type CompactTheme struct {
	mode string
}

// NewCompactTheme creates a new compact theme for mode (dark, light or system)
func NewCompactTheme(mode string) fyne.Theme {
	switch mode {
	case config.ThemeDark, config.ThemeLight, config.ThemeSystem:
	default:
		mode = config.DefaultTheme
	}
	return &CompactTheme{mode: mode}
}

// Mode returns the configured theme mode
func (t *CompactTheme) Mode() string {
	return t.mode
}

func (t *CompactTheme) variant(requested fyne.ThemeVariant) fyne.ThemeVariant {
	switch t.mode {
	case config.ThemeDark:
		return theme.VariantDark
	case config.ThemeLight:
		return theme.VariantLight
	}
	return requested
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, requested fyne.ThemeVariant) color.Color {
	variant := t.variant(requested)

	switch name {
	case theme.ColorNameSuccess:
		return color.RGBA{R: 46, G: 160, B: 67, A: 255} // Green for completed
	case theme.ColorNameError:
		return color.RGBA{R: 183, G: 28, B: 28, A: 255} // Red for errors
	case theme.ColorNameWarning:
		return color.RGBA{R: 255, G: 193, B: 7, A: 255} // Amber for warnings
	case theme.ColorNamePrimary:
		return color.RGBA{R: 229, G: 57, B: 53, A: 255} // Red accent for primary actions
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return color.RGBA{R: 18, G: 18, B: 18, A: 255}
		}
		return color.RGBA{R: 250, G: 250, B: 250, A: 255}
	case theme.ColorNameForeground:
		if variant == theme.VariantDark {
			return color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.RGBA{R: 33, G: 33, B: 33, A: 255}
	}

	return theme.DefaultTheme().Color(name, variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 16
	case theme.SizeNameSubHeadingText:
		return 13
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameInputRadius:
		return 3
	case theme.SizeNameSelectionRadius:
		return 2
	}

	return theme.DefaultTheme().Size(name)
}
