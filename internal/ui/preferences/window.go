package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings)
	onCancel func()

	location   *widget.Entry
	latitude   *widget.Entry
	longitude  *widget.Entry
	timezone   *widget.Entry
	weatherMin *widget.Entry
	timeoutSec *widget.Entry
	sound      *widget.Check
	fullscreen *widget.Check
	autostart  *widget.Check
	logLevel   *widget.Select

	saveButton   *widget.Button
	cancelButton *widget.Button
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Dashboard Preferences")

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		location:   widget.NewEntry(),
		latitude:   widget.NewEntry(),
		longitude:  widget.NewEntry(),
		timezone:   widget.NewEntry(),
		weatherMin: widget.NewEntry(),
		timeoutSec: widget.NewEntry(),
		sound:      widget.NewCheck("Play chime on notifications", nil),
		fullscreen: widget.NewCheck("Fullscreen dashboard", nil),
		autostart:  widget.NewCheck("Start at login", nil),
		logLevel:   widget.NewSelect([]string{"debug", "info", "warn", "error"}, nil),
	}
	prefs.timezone.SetPlaceHolder("auto")

	form := container.NewVBox(
		widget.NewLabelWithStyle("Weather", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Location", prefs.location),
			widget.NewFormItem("Latitude", prefs.latitude),
			widget.NewFormItem("Longitude", prefs.longitude),
			widget.NewFormItem("Timezone", prefs.timezone),
			widget.NewFormItem("Refresh every (min)", prefs.weatherMin),
		),
		widget.NewLabelWithStyle("Notifications", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Dismiss after (sec)", prefs.timeoutSec),
		),
		prefs.sound,
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.fullscreen,
		prefs.autostart,
		widget.NewForm(widget.NewFormItem("Log level", prefs.logLevel)),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)
	prefs.saveButton = saveButton
	prefs.cancelButton = cancelButton

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(form)))
	window.Resize(fyne.NewSize(460, 560))
	window.SetCloseIntercept(window.Hide)

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// SetOnCancel sets the handler run when editing is abandoned.
func (prefs *Window) SetOnCancel(handler func()) {
	prefs.onCancel = handler
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.location.SetText(settings.LocationName)
	prefs.latitude.SetText(strconv.FormatFloat(settings.Latitude, 'f', 4, 64))
	prefs.longitude.SetText(strconv.FormatFloat(settings.Longitude, 'f', 4, 64))
	prefs.timezone.SetText(settings.Timezone)
	prefs.weatherMin.SetText(fmt.Sprintf("%d", int(settings.WeatherInterval.Minutes())))
	prefs.timeoutSec.SetText(fmt.Sprintf("%d", int(settings.NotificationTimeout.Seconds())))
	prefs.sound.SetChecked(settings.Sound)
	prefs.fullscreen.SetChecked(settings.Fullscreen)
	prefs.autostart.SetChecked(settings.Autostart)
	prefs.logLevel.SetSelected(settings.LogLevel)
}

// Settings returns the values last saved or loaded.
func (prefs *Window) Settings() Settings {
	return prefs.settings
}

func (prefs *Window) handleSave() {
	settings := prefs.collect()
	prefs.settings = settings
	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

// collect reads the form over the current settings. Unparseable fields keep
// their previous value.
func (prefs *Window) collect() Settings {
	settings := prefs.settings

	if name := strings.TrimSpace(prefs.location.Text); name != "" {
		settings.LocationName = name
	}
	if value, ok := parseFloat(prefs.latitude.Text); ok {
		settings.Latitude = value
	}
	if value, ok := parseFloat(prefs.longitude.Text); ok {
		settings.Longitude = value
	}
	settings.Timezone = strings.TrimSpace(prefs.timezone.Text)
	if minutes, ok := parsePositiveInt(prefs.weatherMin.Text); ok {
		settings.WeatherInterval = time.Duration(minutes) * time.Minute
	}
	if seconds, ok := parsePositiveInt(prefs.timeoutSec.Text); ok {
		settings.NotificationTimeout = time.Duration(seconds) * time.Second
	}
	settings.Sound = prefs.sound.Checked
	settings.Fullscreen = prefs.fullscreen.Checked
	settings.Autostart = prefs.autostart.Checked
	if prefs.logLevel.Selected != "" {
		settings.LogLevel = prefs.logLevel.Selected
	}

	return settings.Normalize()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func parseFloat(value string) (float64, bool) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
