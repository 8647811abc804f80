package overlay

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	fynetheme "fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"tabletdash/internal/core/model"
	"tabletdash/internal/ui/theme"
	"tabletdash/resources"
)

const (
	cardMinWidth   = float32(400)
	cardCorner     = float32(30)
	cardStroke     = float32(3)
	bounceDuration = 500 * time.Millisecond
	scrimAlpha     = uint8(0x70)
	iconSide       = float32(72)
	dismissLabel   = "Got it!"
)

// Card shows the active notification centred over the dashboard.
type Card struct {
	root       *fyne.Container
	scrim      *canvas.Rectangle
	background *canvas.Rectangle
	icon       *widget.Icon
	kindLabel  *canvas.Text
	message    *widget.Label
	dismiss    *widget.Button
	layout     *popupLayout
	bounce     *fyne.Animation

	current   model.Notification
	visible   bool
	onDismiss func()
}

// New creates a hidden card styled with palette.
func New(palette theme.Palette) *Card {
	scrim := canvas.NewRectangle(color.NRGBA{A: scrimAlpha})

	background := canvas.NewRectangle(color.Transparent)
	background.CornerRadius = cardCorner
	background.StrokeWidth = cardStroke

	icon := widget.NewIcon(nil)

	kindLabel := canvas.NewText("", color.White)
	kindLabel.Alignment = fyne.TextAlignCenter
	kindLabel.TextSize = 14

	message := widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	message.Wrapping = fyne.TextWrapWord
	message.SizeName = fynetheme.SizeNameHeadingText

	dismiss := widget.NewButton(dismissLabel, nil)
	dismiss.Importance = widget.HighImportance

	popup := &popupLayout{scale: 1}
	body := container.New(popup, background, icon, kindLabel, message, dismiss)
	root := container.NewStack(scrim, body)
	root.Hide()

	card := &Card{
		root:       root,
		scrim:      scrim,
		background: background,
		icon:       icon,
		kindLabel:  kindLabel,
		message:    message,
		dismiss:    dismiss,
		layout:     popup,
	}
	dismiss.OnTapped = card.handleDismiss
	card.bounce = fyne.NewAnimation(bounceDuration, func(progress float32) {
		popup.scale = bounceScale(progress)
		body.Refresh()
	})
	card.bounce.Curve = fyne.AnimationLinear

	card.ApplyPalette(palette)
	return card
}

// Object returns the canvas object to stack above the dashboard.
func (card *Card) Object() fyne.CanvasObject {
	return card.root
}

// SetOnDismiss sets the "Got it!" handler.
func (card *Card) SetOnDismiss(handler func()) {
	card.onDismiss = handler
}

// Show displays notification, replacing any visible one.
func (card *Card) Show(notification model.Notification) {
	if card.visible && card.current == notification {
		return
	}
	card.current = notification
	card.visible = true

	card.icon.SetResource(resources.KindIcon(notification.Kind))
	card.kindLabel.Text = notification.Kind.Label()
	card.kindLabel.Refresh()
	card.message.SetText(notification.Message)

	card.root.Show()
	card.bounce.Stop()
	card.layout.scale = bounceScale(0)
	card.bounce.Start()
}

// Hide removes the card.
func (card *Card) Hide() {
	if !card.visible {
		return
	}
	card.visible = false
	card.current = model.Notification{}
	card.bounce.Stop()
	card.root.Hide()
}

// Visible reports whether a notification is showing.
func (card *Card) Visible() bool {
	return card.visible
}

// Current returns the notification on screen.
func (card *Card) Current() (model.Notification, bool) {
	return card.current, card.visible
}

// ApplyPalette restyles the card.
func (card *Card) ApplyPalette(palette theme.Palette) {
	card.background.FillColor = opaqueCard(palette)
	card.background.StrokeColor = palette.Accent
	card.kindLabel.Color = theme.WithAlpha(palette.Text, 0xB0)
	card.background.Refresh()
	card.kindLabel.Refresh()
}

func (card *Card) handleDismiss() {
	card.Hide()
	if card.onDismiss != nil {
		card.onDismiss()
	}
}

// opaqueCard darkens the translucent card colour enough to stay readable
// over the moving background.
func opaqueCard(palette theme.Palette) color.NRGBA {
	base := palette.Gradient[1]
	alpha := float32(palette.Card.A) / 255
	mix := func(b, o uint8) uint8 {
		return uint8(float32(o)*alpha + float32(b)*(1-alpha))
	}
	return color.NRGBA{
		R: mix(base.R, palette.Card.R),
		G: mix(base.G, palette.Card.G),
		B: mix(base.B, palette.Card.B),
		A: 0xF0,
	}
}

// bounceScale follows popup-bounce: 0.5 at the start, 1.1 halfway, 1 at
// the end.
func bounceScale(progress float32) float32 {
	if progress <= 0 {
		return 0.5
	}
	if progress >= 1 {
		return 1
	}
	if progress < 0.5 {
		return 0.5 + 0.6*(progress/0.5)
	}
	return 1.1 - 0.1*((progress-0.5)/0.5)
}

// popupLayout centres the card and stacks icon, kind, message and button.
type popupLayout struct {
	scale float32
}

func (layout *popupLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 5 {
		return
	}
	background := objects[0]
	icon := objects[1]
	kind := objects[2]
	message := objects[3]
	button := objects[4]

	full := layout.naturalSize(objects, size)
	scale := layout.scale
	if scale <= 0 {
		scale = 1
	}
	cardSize := fyne.NewSize(full.Width*scale, full.Height*scale)
	origin := fyne.NewPos((size.Width-cardSize.Width)/2, (size.Height-cardSize.Height)/2)
	background.Move(origin)
	background.Resize(cardSize)

	padX := 64 * scale
	padY := 48 * scale
	inner := cardSize.Width - padX*2
	if inner < 0 {
		inner = 0
	}
	y := origin.Y + padY

	side := iconSide * scale
	icon.Move(fyne.NewPos(origin.X+(cardSize.Width-side)/2, y))
	icon.Resize(fyne.NewSize(side, side))
	y += side + 8*scale

	kindHeight := kind.MinSize().Height
	kind.Move(fyne.NewPos(origin.X+padX, y))
	kind.Resize(fyne.NewSize(inner, kindHeight))
	y += kindHeight

	messageHeight := measureWrapped(message, inner)
	message.Move(fyne.NewPos(origin.X+padX, y))
	message.Resize(fyne.NewSize(inner, messageHeight))
	y += messageHeight + 24*scale

	buttonSize := button.MinSize()
	buttonWidth := buttonSize.Width * 1.6
	button.Move(fyne.NewPos(origin.X+(cardSize.Width-buttonWidth)/2, y))
	button.Resize(fyne.NewSize(buttonWidth, buttonSize.Height))
}

func (layout *popupLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 5 {
		return fyne.NewSize(0, 0)
	}
	return layout.naturalSize(objects, fyne.NewSize(cardMinWidth+128, 0))
}

// naturalSize is the unscaled card size for the given space.
func (layout *popupLayout) naturalSize(objects []fyne.CanvasObject, space fyne.Size) fyne.Size {
	width := space.Width * 0.6
	if width < cardMinWidth {
		width = cardMinWidth
	}
	if width > 720 {
		width = 720
	}
	inner := width - 128
	height := float32(48) + iconSide + 8 + objects[2].MinSize().Height +
		measureWrapped(objects[3], inner) + 24 + objects[4].MinSize().Height + 48
	return fyne.NewSize(width, height)
}

func measureWrapped(object fyne.CanvasObject, width float32) float32 {
	label, ok := object.(*widget.Label)
	if !ok || width <= 0 {
		return object.MinSize().Height
	}
	lineHeight := label.MinSize().Height
	textSize := fyne.MeasureText(label.Text, fynetheme.Size(label.SizeName), label.TextStyle)
	lines := int(textSize.Width/width) + 1
	return lineHeight * float32(lines)
}
