package theme

import (
	"image/color"

	"fyne.io/fyne/v2"
	fynetheme "fyne.io/fyne/v2/theme"
)

// Dashboard adapts a Theme palette to fyne. The variant requested by fyne
// is ignored; DarkMode picks the palette.
type Dashboard struct {
	Theme    Theme
	DarkMode bool
}

var _ fyne.Theme = (*Dashboard)(nil)

// NewDashboard returns the fyne theme for key and dark.
func NewDashboard(key string, dark bool) *Dashboard {
	return &Dashboard{Theme: Resolve(key), DarkMode: dark}
}

// Palette returns the active palette.
func (dashboard *Dashboard) Palette() Palette {
	return dashboard.Theme.Palette(dashboard.DarkMode)
}

func (dashboard *Dashboard) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	palette := dashboard.Palette()
	variant := fynetheme.VariantLight
	if dashboard.DarkMode {
		variant = fynetheme.VariantDark
	}

	switch name {
	case fynetheme.ColorNameBackground:
		return palette.Gradient[1]
	case fynetheme.ColorNameForeground:
		return palette.Text
	case fynetheme.ColorNameForegroundOnPrimary:
		return onAccent(dashboard.DarkMode)
	case fynetheme.ColorNamePrimary:
		return palette.Accent
	case fynetheme.ColorNameFocus, fynetheme.ColorNameSelection:
		return WithAlpha(palette.Accent, 0x60)
	case fynetheme.ColorNameButton, fynetheme.ColorNameInputBackground, fynetheme.ColorNameMenuBackground, fynetheme.ColorNameOverlayBackground:
		return blend(palette.Gradient[1], palette.Card)
	case fynetheme.ColorNameInputBorder, fynetheme.ColorNameSeparator:
		return white(0.2)
	case fynetheme.ColorNamePlaceHolder:
		return WithAlpha(palette.Text, 0x60)
	case fynetheme.ColorNameHover, fynetheme.ColorNamePressed:
		return white(0.1)
	case fynetheme.ColorNameError:
		return color.NRGBA{R: 255, A: 0x80}
	}
	return fynetheme.DefaultTheme().Color(name, variant)
}

func (dashboard *Dashboard) Font(style fyne.TextStyle) fyne.Resource {
	return fynetheme.DefaultTheme().Font(style)
}

func (dashboard *Dashboard) Icon(name fyne.ThemeIconName) fyne.Resource {
	return fynetheme.DefaultTheme().Icon(name)
}

func (dashboard *Dashboard) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case fynetheme.SizeNameText:
		return 16
	case fynetheme.SizeNameInputRadius, fynetheme.SizeNameSelectionRadius:
		return 12
	case fynetheme.SizeNamePadding:
		return 8
	}
	return fynetheme.DefaultTheme().Size(name)
}

func onAccent(dark bool) color.NRGBA {
	if dark {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
}

// blend composites a translucent card over an opaque base.
func blend(base, over color.NRGBA) color.NRGBA {
	alpha := float64(over.A) / 255
	mix := func(b, o uint8) uint8 {
		return uint8(float64(o)*alpha + float64(b)*(1-alpha) + 0.5)
	}
	return color.NRGBA{R: mix(base.R, over.R), G: mix(base.G, over.G), B: mix(base.B, over.B), A: 255}
}
