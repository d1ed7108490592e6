package overlay

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

var (
	overlayBackground = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	overlayForeground = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
)

// overlayTheme is a plain light theme: black text on white, 12pt body text
// and tight padding so long answers fit.
type overlayTheme struct {
	base fyne.Theme
}

// NewTheme returns the theme the app should run with.
func NewTheme() fyne.Theme {
	return &overlayTheme{base: theme.LightTheme()}
}

func (t *overlayTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground, theme.ColorNameOverlayBackground, theme.ColorNameInputBackground:
		return overlayBackground
	case theme.ColorNameForeground:
		return overlayForeground
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x99}
	}
	return t.base.Color(name, variant)
}

func (t *overlayTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *overlayTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *overlayTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNamePadding:
		return 10
	case theme.SizeNameInnerPadding:
		return 4
	}
	return t.base.Size(name)
}
