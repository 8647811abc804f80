package theme

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// DefaultKey is the theme used when settings name none or an unknown one.
const DefaultKey = "sunset"

// Effect is the ambient background animation a theme carries.
type Effect int

const (
	EffectParticles Effect = iota
	EffectWaves
	EffectStars
)

// Palette is one light or dark variant of a theme.
type Palette struct {
	// Gradient runs top-left to bottom-right.
	Gradient [3]color.NRGBA
	Text     color.NRGBA
	Card     color.NRGBA
	Accent   color.NRGBA
}

// Theme is a named pair of palettes.
type Theme struct {
	Key    string
	Name   string
	Light  Palette
	Dark   Palette
	Effect Effect
	// Hue rotates the particle tint, in degrees.
	Hue float64
}

// Palette returns the variant for dark.
func (theme Theme) Palette(dark bool) Palette {
	if dark {
		return theme.Dark
	}
	return theme.Light
}

var themes = []Theme{
	{
		Key:  "sunset",
		Name: "Sunset Vibes",
		Light: Palette{
			Gradient: [3]color.NRGBA{hex("#FFA07A"), hex("#FF6B6B"), hex("#FF1493")},
			Text:     hex("#FFFFFF"),
			Card:     white(0.15),
			Accent:   hex("#FFD700"),
		},
		Dark: Palette{
			Gradient: [3]color.NRGBA{hex("#2C1810"), hex("#4A1942"), hex("#1A0A2E")},
			Text:     hex("#FFE4E1"),
			Card:     white(0.08),
			Accent:   hex("#FF6B9D"),
		},
		Effect: EffectParticles,
		Hue:    20,
	},
	{
		Key:  "ocean",
		Name: "Ocean Breeze",
		Light: Palette{
			Gradient: [3]color.NRGBA{hex("#00D4FF"), hex("#0099CC"), hex("#0066FF")},
			Text:     hex("#FFFFFF"),
			Card:     white(0.15),
			Accent:   hex("#00FFFF"),
		},
		Dark: Palette{
			Gradient: [3]color.NRGBA{hex("#001F3F"), hex("#002F5F"), hex("#001A33")},
			Text:     hex("#B3E5FC"),
			Card:     white(0.08),
			Accent:   hex("#00BCD4"),
		},
		Effect: EffectWaves,
		Hue:    180,
	},
	{
		Key:  "forest",
		Name: "Forest Calm",
		Light: Palette{
			Gradient: [3]color.NRGBA{hex("#66BB6A"), hex("#43A047"), hex("#2E7D32")},
			Text:     hex("#FFFFFF"),
			Card:     white(0.15),
			Accent:   hex("#C8E6C9"),
		},
		Dark: Palette{
			Gradient: [3]color.NRGBA{hex("#1B5E20"), hex("#0D3D14"), hex("#051A08")},
			Text:     hex("#C8E6C9"),
			Card:     white(0.08),
			Accent:   hex("#66BB6A"),
		},
		Effect: EffectParticles,
		Hue:    100,
	},
	{
		Key:  "neon",
		Name: "Neon City",
		Light: Palette{
			Gradient: [3]color.NRGBA{hex("#FF006E"), hex("#8338EC"), hex("#3A86FF")},
			Text:     hex("#FFFFFF"),
			Card:     white(0.15),
			Accent:   hex("#FFBE0B"),
		},
		Dark: Palette{
			Gradient: [3]color.NRGBA{hex("#0D0221"), hex("#1B0A2B"), hex("#0F0326")},
			Text:     hex("#FFFFFF"),
			Card:     white(0.08),
			Accent:   hex("#FF006E"),
		},
		Effect: EffectStars,
		Hue:    270,
	},
	{
		Key:  "lavender",
		Name: "Lavender Dream",
		Light: Palette{
			Gradient: [3]color.NRGBA{hex("#E8D5FF"), hex("#D4A5FF"), hex("#C77DFF")},
			Text:     hex("#4A148C"),
			Card:     white(0.25),
			Accent:   hex("#9C27B0"),
		},
		Dark: Palette{
			Gradient: [3]color.NRGBA{hex("#1A0033"), hex("#2D1B4E"), hex("#1F0A3C")},
			Text:     hex("#E1BEE7"),
			Card:     white(0.08),
			Accent:   hex("#BA68C8"),
		},
		Effect: EffectParticles,
		Hue:    280,
	},
}

// All returns every theme in menu order.
func All() []Theme {
	return append([]Theme(nil), themes...)
}

// Lookup finds a theme by key.
func Lookup(key string) (Theme, bool) {
	for _, theme := range themes {
		if theme.Key == key {
			return theme, true
		}
	}
	return Theme{}, false
}

// Resolve returns the theme for key, falling back to DefaultKey.
func Resolve(key string) Theme {
	if theme, ok := Lookup(key); ok {
		return theme
	}
	theme, _ := Lookup(DefaultKey)
	return theme
}

// ParseHex parses #RRGGBB or #RRGGBBAA.
func ParseHex(value string) (color.NRGBA, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(raw) != 6 && len(raw) != 8 {
		return color.NRGBA{}, fmt.Errorf("parse color %q: want 6 or 8 hex digits", value)
	}
	if len(raw) == 6 {
		raw += "ff"
	}
	parsed, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", value, err)
	}
	return color.NRGBA{
		R: uint8(parsed >> 24),
		G: uint8(parsed >> 16),
		B: uint8(parsed >> 8),
		A: uint8(parsed),
	}, nil
}

func hex(value string) color.NRGBA {
	parsed, err := ParseHex(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func white(alpha float64) color.NRGBA {
	return color.NRGBA{R: 255, G: 255, B: 255, A: uint8(alpha * 255)}
}

// WithAlpha returns c with its alpha replaced.
func WithAlpha(c color.NRGBA, alpha uint8) color.NRGBA {
	c.A = alpha
	return c
}

// RotateHue shifts the hue of c by degrees.
func RotateHue(c color.NRGBA, degrees float64) color.NRGBA {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	maxC := max(r, g, b)
	minC := min(r, g, b)
	lightness := (maxC + minC) / 2
	if maxC == minC {
		return c
	}
	delta := maxC - minC
	saturation := delta / (1 - math.Abs(2*lightness-1))
	var hue float64
	switch maxC {
	case r:
		hue = 60 * mod((g-b)/delta, 6)
	case g:
		hue = 60 * ((b-r)/delta + 2)
	default:
		hue = 60 * ((r-g)/delta + 4)
	}
	hue = mod(hue+degrees, 360)

	chroma := (1 - math.Abs(2*lightness-1)) * saturation
	x := chroma * (1 - math.Abs(mod(hue/60, 2)-1))
	m := lightness - chroma/2
	var rr, gg, bb float64
	switch {
	case hue < 60:
		rr, gg, bb = chroma, x, 0
	case hue < 120:
		rr, gg, bb = x, chroma, 0
	case hue < 180:
		rr, gg, bb = 0, chroma, x
	case hue < 240:
		rr, gg, bb = 0, x, chroma
	case hue < 300:
		rr, gg, bb = x, 0, chroma
	default:
		rr, gg, bb = chroma, 0, x
	}
	return color.NRGBA{
		R: channel(rr + m),
		G: channel(gg + m),
		B: channel(bb + m),
		A: c.A,
	}
}

func channel(value float64) uint8 {
	value = value*255 + 0.5
	if value < 0 {
		return 0
	}
	if value > 255 {
		return 255
	}
	return uint8(value)
}

func mod(value, by float64) float64 {
	result := math.Mod(value, by)
	if result < 0 {
		result += by
	}
	return result
}
