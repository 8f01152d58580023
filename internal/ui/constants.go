package ui

import "time"

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconStop     = "⏹"
	IconPending  = "⏳"
	IconClose    = "×"
	IconError    = "❌"
	IconDone     = "✔"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Layout sizing (TaskRow / lists)
const (
	StatusLabelWidth  float32 = 110
	SpeedLabelWidth   float32 = 150
	PercentLabelWidth float32 = 48

	RowMinWidth  float32 = 400
	RowMinHeight float32 = 64

	WindowWidth  float32 = 900
	WindowHeight float32 = 720

	LogPanelHeight     float32 = 120
	PreviewThumbWidth  float32 = 160
	PreviewThumbHeight float32 = 90
)

// Toast notification sizing and behavior
const (
	ToastWidth    float32 = 300
	ToastHeight   float32 = 120
	ToastMargin   float32 = 20
	ToastAutoHide         = 5 * time.Second
)

// Activity log limits
const (
	MaxLogLines = 500
)

// Preview text limits
const (
	PreviewTitleLength       = 80
	PreviewDescriptionLength = 200
)
