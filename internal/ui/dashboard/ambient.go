package dashboard

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"tabletdash/internal/ui/animation"
	"tabletdash/internal/ui/theme"
)

// ambientOpacity dims the whole background animation layer.
const ambientOpacity = 0.15

const waveHeight = float32(200)

// ambientLayer draws animation frames with plain canvas objects, reusing
// them between frames.
type ambientLayer struct {
	root      *fyne.Container
	particles []*canvas.RadialGradient
	stars     []*canvas.Circle
	waves     []*canvas.LinearGradient
	tint      color.NRGBA
	accent    color.NRGBA
}

func newAmbientLayer() *ambientLayer {
	return &ambientLayer{root: container.NewWithoutLayout()}
}

func (layer *ambientLayer) Object() fyne.CanvasObject {
	return layer.root
}

// SetPalette picks the tint for the given theme.
func (layer *ambientLayer) SetPalette(selected theme.Theme, palette theme.Palette) {
	layer.accent = palette.Accent
	layer.tint = theme.RotateHue(palette.Accent, selected.Hue)
	for _, particle := range layer.particles {
		particle.StartColor = theme.WithAlpha(layer.tint, 0x60)
	}
	for _, star := range layer.stars {
		star.FillColor = layer.accent
	}
	for _, wave := range layer.waves {
		wave.EndColor = theme.WithAlpha(layer.accent, 0x20)
	}
}

// Render applies frame to a canvas of size.
func (layer *ambientLayer) Render(frame animation.Frame, size fyne.Size) {
	layer.ensure(len(frame.Particles), len(frame.Stars), len(frame.Waves))

	for i, sprite := range frame.Particles {
		particle := layer.particles[i]
		particle.StartColor = scaleAlpha(theme.WithAlpha(layer.tint, 0x60), sprite.Opacity*ambientOpacity)
		particle.Move(fyne.NewPos(
			sprite.X*size.Width+sprite.OffsetX-sprite.Size/2,
			sprite.Y*size.Height+sprite.OffsetY-sprite.Size/2,
		))
		particle.Resize(fyne.NewSize(sprite.Size, sprite.Size))
		particle.Show()
	}
	for i := len(frame.Particles); i < len(layer.particles); i++ {
		layer.particles[i].Hide()
	}

	for i, sprite := range frame.Stars {
		star := layer.stars[i]
		star.FillColor = scaleAlpha(layer.accent, sprite.Opacity)
		star.Move(fyne.NewPos(sprite.X*size.Width, sprite.Y*size.Height))
		star.Resize(fyne.NewSize(sprite.Size, sprite.Size))
		star.Show()
	}
	for i := len(frame.Stars); i < len(layer.stars); i++ {
		layer.stars[i].Hide()
	}

	for i, pose := range frame.Waves {
		wave := layer.waves[i]
		wave.EndColor = scaleAlpha(theme.WithAlpha(layer.accent, 0x20), pose.Opacity)
		height := waveHeight * pose.ScaleY
		width := size.Width * 2
		y := size.Height - height - pose.Lift*waveHeight
		wave.Move(fyne.NewPos(pose.Shift*width, y))
		wave.Resize(fyne.NewSize(width, height))
		wave.Show()
	}
	for i := len(frame.Waves); i < len(layer.waves); i++ {
		layer.waves[i].Hide()
	}

	layer.root.Refresh()
}

func (layer *ambientLayer) ensure(particles, stars, waves int) {
	for len(layer.particles) < particles {
		particle := canvas.NewRadialGradient(theme.WithAlpha(layer.tint, 0x60), color.Transparent)
		layer.particles = append(layer.particles, particle)
		layer.root.Add(particle)
	}
	for len(layer.stars) < stars {
		star := canvas.NewCircle(layer.accent)
		layer.stars = append(layer.stars, star)
		layer.root.Add(star)
	}
	for len(layer.waves) < waves {
		wave := canvas.NewVerticalGradient(color.Transparent, theme.WithAlpha(layer.accent, 0x20))
		layer.waves = append(layer.waves, wave)
		layer.root.Add(wave)
	}
}

func sceneFor(selected theme.Theme) animation.Scene {
	return animation.Scene{
		Particles: true,
		Waves:     selected.Effect == theme.EffectWaves,
		Stars:     selected.Effect == theme.EffectStars,
	}
}

func scaleAlpha(c color.NRGBA, factor float32) color.NRGBA {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	c.A = uint8(float32(c.A) * factor)
	return c
}
