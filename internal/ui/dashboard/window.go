package dashboard

import (
	"context"
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	fynetheme "fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"tabletdash/internal/core/countdown"
	"tabletdash/internal/core/engine"
	"tabletdash/internal/core/model"
	"tabletdash/internal/core/reminder"
	"tabletdash/internal/ui/animation"
	"tabletdash/internal/ui/overlay"
	"tabletdash/internal/ui/theme"
	"tabletdash/internal/weather"
	"tabletdash/resources"
)

const (
	clockSize       = float32(120)
	clockSizeSmall  = float32(52)
	dateSize        = float32(34)
	stopwatchSize   = float32(150)
	weatherTempSize = float32(40)
	timerChipSize   = float32(32)
	defaultWidth    = float32(1280)
	defaultHeight   = float32(800)
)

// Controller is the engine surface the dashboard drives.
type Controller interface {
	AddCountdown(kind model.Kind, raw string) (countdown.Entry, bool)
	RemoveCountdown(kind model.Kind, id string)
	AddReminder(text, hhmm string) (reminder.Entry, bool)
	RemoveReminder(id string)
	DismissNotification()
	Snapshot() engine.Snapshot
}

// Callbacks are app-level actions triggered from the dashboard.
type Callbacks struct {
	OnThemeChange    func(key string, dark bool)
	OnPreferences    func()
	OnRefreshWeather func()
}

// Options selects the initial look.
type Options struct {
	Theme      string
	DarkMode   bool
	Fullscreen bool
}

// Window manages the dashboard UI.
type Window struct {
	app        fyne.App
	window     fyne.Window
	controller Controller
	callbacks  Callbacks
	options    Options

	theme   *theme.Dashboard
	ambient *ambientLayer
	motion  *animation.Engine
	cancel  context.CancelFunc

	gradient *canvas.LinearGradient
	glow     *canvas.RadialGradient

	clockText     *canvas.Text
	dateText      *canvas.Text
	stopwatchIcon *widget.Icon
	stopwatchText *canvas.Text
	stopwatchRow  *fyne.Container

	weatherCard      *fyne.Container
	weatherCardBack  *canvas.Rectangle
	weatherIcon      *widget.Icon
	weatherTemp      *canvas.Text
	weatherCondition *canvas.Text
	weatherLocation  *canvas.Text

	timerChips *fyne.Container
	chipTexts  []*canvas.Text
	chipBacks  []*canvas.Rectangle

	menuButton *widget.Button
	menu       *ControlMenu
	card       *overlay.Card
}

// New creates the dashboard window.
func New(app fyne.App, controller Controller, options Options, callbacks Callbacks) *Window {
	window := app.NewWindow("Dashboard")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	dash := &Window{
		app:        app,
		window:     window,
		controller: controller,
		callbacks:  callbacks,
		options:    options,
		theme:      theme.NewDashboard(options.Theme, options.DarkMode),
		ambient:    newAmbientLayer(),
	}
	dash.motion = animation.New(animation.DefaultConfig(), func(frame animation.Frame) {
		fyne.Do(func() {
			dash.ambient.Render(frame, dash.window.Canvas().Size())
		})
	})

	dash.gradient = canvas.NewLinearGradient(color.Black, color.Black, 135)
	dash.glow = canvas.NewRadialGradient(color.Transparent, color.Transparent)

	dash.clockText = newText("", clockSize, true)
	dash.dateText = newText("", dateSize, false)
	dash.stopwatchIcon = widget.NewIcon(resources.KindIcon(model.KindStopwatch))
	dash.stopwatchText = newText("", stopwatchSize, true)
	dash.stopwatchRow = container.NewHBox(
		layout.NewSpacer(),
		container.New(&squareLayout{side: stopwatchSize * 0.8}, dash.stopwatchIcon),
		dash.stopwatchText,
		layout.NewSpacer(),
	)
	dash.stopwatchRow.Hide()

	dash.weatherIcon = widget.NewIcon(nil)
	dash.weatherTemp = newText("", weatherTempSize, true)
	dash.weatherTemp.Alignment = fyne.TextAlignLeading
	dash.weatherCondition = newText("", 16, false)
	dash.weatherCondition.Alignment = fyne.TextAlignLeading
	dash.weatherLocation = newText("", 14, false)
	dash.weatherLocation.Alignment = fyne.TextAlignLeading
	dash.weatherCardBack = canvas.NewRectangle(color.Transparent)
	dash.weatherCardBack.CornerRadius = 20
	dash.weatherCard = container.NewStack(
		dash.weatherCardBack,
		container.NewPadded(container.NewHBox(
			container.New(&squareLayout{side: 64}, dash.weatherIcon),
			container.NewVBox(dash.weatherTemp, dash.weatherCondition, dash.weatherLocation),
		)),
	)
	dash.weatherCard.Hide()

	dash.timerChips = container.NewHBox()

	dash.menu = newControlMenu(controller, callbacks)
	dash.card = overlay.New(dash.theme.Palette())
	dash.card.SetOnDismiss(controller.DismissNotification)

	dash.menuButton = widget.NewButtonWithIcon("", fynetheme.MenuIcon(), dash.ToggleMenu)

	centre := container.NewVBox(
		layout.NewSpacer(),
		dash.stopwatchRow,
		dash.clockText,
		dash.dateText,
		layout.NewSpacer(),
	)
	top := container.NewPadded(container.NewHBox(dash.weatherCard, layout.NewSpacer(), dash.menuButton))
	bottom := container.NewPadded(container.NewHBox(layout.NewSpacer(), dash.timerChips, layout.NewSpacer()))
	content := container.NewBorder(top, bottom, nil, nil, centre)

	root := container.NewStack(
		dash.gradient,
		dash.glow,
		dash.ambient.Object(),
		content,
		dash.menu.Object(),
		dash.card.Object(),
	)
	window.SetContent(root)
	window.Resize(fyne.NewSize(defaultWidth, defaultHeight))
	window.Canvas().SetOnTypedKey(func(event *fyne.KeyEvent) {
		switch event.Name {
		case fyne.KeyEscape:
			if dash.card.Visible() {
				dash.card.Hide()
				controller.DismissNotification()
				return
			}
			dash.menu.SetOpen(false)
		case fyne.KeyF11:
			dash.SetFullscreen(!dash.window.FullScreen())
		}
	})

	dash.ApplyTheme(options.Theme, options.DarkMode)
	dash.SetFullscreen(options.Fullscreen)
	dash.Render(controller.Snapshot())
	return dash
}

// Window returns the underlying fyne window.
func (dash *Window) Window() fyne.Window {
	return dash.window
}

// Show displays the dashboard and starts the background animation.
func (dash *Window) Show() {
	dash.window.Show()
	dash.window.RequestFocus()
	dash.startMotion()
}

// Close stops the background animation.
func (dash *Window) Close() {
	dash.motion.Stop()
	if dash.cancel != nil {
		dash.cancel()
		dash.cancel = nil
	}
}

// ToggleMenu slides the control menu in or out.
func (dash *Window) ToggleMenu() {
	dash.menu.Toggle()
	if dash.menu.IsOpen() {
		dash.menuButton.SetIcon(fynetheme.CancelIcon())
	} else {
		dash.menuButton.SetIcon(fynetheme.MenuIcon())
	}
}

// SetFullscreen switches kiosk mode.
func (dash *Window) SetFullscreen(enabled bool) {
	dash.options.Fullscreen = enabled
	dash.window.SetFullScreen(enabled)
}

// ApplyTheme restyles everything for key and dark.
func (dash *Window) ApplyTheme(key string, dark bool) {
	selected := theme.Resolve(key)
	dash.options.Theme = selected.Key
	dash.options.DarkMode = dark
	dash.theme = &theme.Dashboard{Theme: selected, DarkMode: dark}
	palette := dash.theme.Palette()
	dash.app.Settings().SetTheme(dash.theme)

	dash.gradient.StartColor = palette.Gradient[0]
	dash.gradient.EndColor = palette.Gradient[2]
	dash.glow.StartColor = theme.WithAlpha(palette.Gradient[1], 0xC0)
	dash.glow.EndColor = theme.WithAlpha(palette.Gradient[1], 0)
	dash.gradient.Refresh()
	dash.glow.Refresh()

	for _, text := range []*canvas.Text{dash.clockText, dash.dateText, dash.weatherTemp, dash.weatherCondition, dash.weatherLocation} {
		text.Color = palette.Text
		text.Refresh()
	}
	dash.dateText.Color = theme.WithAlpha(palette.Text, 0xE6)
	dash.weatherCondition.Color = theme.WithAlpha(palette.Text, 0xCC)
	dash.weatherLocation.Color = theme.WithAlpha(palette.Text, 0x99)
	dash.stopwatchText.Color = palette.Accent
	dash.stopwatchText.Refresh()
	dash.weatherCardBack.FillColor = palette.Card
	dash.weatherCardBack.Refresh()
	for i := range dash.chipTexts {
		dash.chipTexts[i].Color = palette.Accent
		dash.chipBacks[i].FillColor = palette.Card
		dash.chipBacks[i].StrokeColor = palette.Accent
		dash.chipTexts[i].Refresh()
		dash.chipBacks[i].Refresh()
	}

	dash.ambient.SetPalette(selected, palette)
	dash.menu.ApplyTheme(selected.Key, dark, palette)
	dash.card.ApplyPalette(palette)
	if dash.cancel != nil {
		dash.startMotion()
	}
}

// Theme returns the active theme key and dark flag.
func (dash *Window) Theme() (string, bool) {
	return dash.options.Theme, dash.options.DarkMode
}

// Render draws snapshot. It must run on the fyne thread.
func (dash *Window) Render(snapshot engine.Snapshot) {
	now := snapshot.Now
	dash.clockText.Text = FormatClock(now)
	dash.dateText.Text = FormatDate(now)

	if len(snapshot.Stopwatches) > 0 {
		dash.stopwatchText.Text = countdown.FormatTime(snapshot.Stopwatches[0].RemainingSeconds)
		dash.stopwatchRow.Show()
		dash.clockText.TextSize = clockSizeSmall
	} else {
		dash.stopwatchRow.Hide()
		dash.clockText.TextSize = clockSize
	}
	dash.clockText.Refresh()
	dash.dateText.Refresh()
	dash.stopwatchText.Refresh()

	dash.renderTimers(snapshot.Timers)
	dash.menu.Sync(snapshot)

	if snapshot.HasNotification {
		dash.card.Show(snapshot.Notification)
	} else {
		dash.card.Hide()
	}
}

// SetWeather shows report in the weather card.
func (dash *Window) SetWeather(report weather.Report) {
	dash.weatherIcon.SetResource(resources.WeatherIcon(report.Condition))
	dash.weatherTemp.Text = fmt.Sprintf("%d°C", report.Temperature)
	dash.weatherCondition.Text = report.Condition
	dash.weatherLocation.Text = report.Location
	dash.weatherTemp.Refresh()
	dash.weatherCondition.Refresh()
	dash.weatherLocation.Refresh()
	dash.weatherCard.Show()
}

func (dash *Window) renderTimers(timers []countdown.Entry) {
	palette := dash.theme.Palette()
	for len(dash.chipTexts) < len(timers) {
		text := newText("", timerChipSize, true)
		text.Color = palette.Accent
		back := canvas.NewRectangle(palette.Card)
		back.CornerRadius = 25
		back.StrokeWidth = 2
		back.StrokeColor = palette.Accent
		label := newText(model.KindTimer.Label(), 13, false)
		label.Color = theme.WithAlpha(palette.Text, 0xB3)
		chip := container.NewStack(back, container.NewPadded(container.NewHBox(
			container.New(&squareLayout{side: 40}, widget.NewIcon(resources.KindIcon(model.KindTimer))),
			container.NewVBox(label, text),
		)))
		dash.chipTexts = append(dash.chipTexts, text)
		dash.chipBacks = append(dash.chipBacks, back)
		dash.timerChips.Add(chip)
	}
	for i, chip := range dash.timerChips.Objects {
		if i < len(timers) {
			dash.chipTexts[i].Text = countdown.FormatTime(timers[i].RemainingSeconds)
			dash.chipTexts[i].Refresh()
			chip.Show()
		} else {
			chip.Hide()
		}
	}
}

func (dash *Window) startMotion() {
	if dash.cancel != nil {
		dash.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	dash.cancel = cancel
	dash.motion.Start(ctx, sceneFor(dash.theme.Theme))
}

func newText(value string, size float32, bold bool) *canvas.Text {
	text := canvas.NewText(value, color.White)
	text.Alignment = fyne.TextAlignCenter
	text.TextSize = size
	text.TextStyle = fyne.TextStyle{Bold: bold, Monospace: bold}
	return text
}

// squareLayout sizes its single child to a fixed square.
type squareLayout struct {
	side float32
}

func (layout *squareLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, object := range objects {
		object.Move(fyne.NewPos((size.Width-layout.side)/2, (size.Height-layout.side)/2))
		object.Resize(fyne.NewSize(layout.side, layout.side))
	}
}

func (layout *squareLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(layout.side, layout.side)
}
