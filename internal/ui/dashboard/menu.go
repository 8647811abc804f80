package dashboard

import (
	"fmt"
	"slices"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	fynetheme "fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"tabletdash/internal/core/countdown"
	"tabletdash/internal/core/engine"
	"tabletdash/internal/core/model"
	"tabletdash/internal/core/reminder"
	"tabletdash/internal/ui/theme"
	"tabletdash/resources"
)

const (
	menuWidth     = float32(450)
	slideDuration = 400 * time.Millisecond
)

// ControlMenu is the slide-in panel for themes and entities.
type ControlMenu struct {
	controller Controller
	callbacks  Callbacks

	root       *fyne.Container
	background *canvas.Rectangle
	slide      *slideLayout
	animation  *fyne.Animation
	open       bool

	themeButtons map[string]*widget.Button
	darkButton   *widget.Button

	stopwatchInput *widget.Entry
	timerInput     *widget.Entry
	reminderText   *widget.Entry
	reminderTime   *widget.Entry

	stopwatchAdd *widget.Button
	timerAdd     *widget.Button
	reminderAdd  *widget.Button

	stopwatches *rowList
	timers      *rowList
	reminders   *rowList

	themeKey string
	dark     bool
}

func newControlMenu(controller Controller, callbacks Callbacks) *ControlMenu {
	menu := &ControlMenu{
		controller:     controller,
		callbacks:      callbacks,
		themeButtons:   map[string]*widget.Button{},
		stopwatchInput: widget.NewEntry(),
		timerInput:     widget.NewEntry(),
		reminderText:   widget.NewEntry(),
		reminderTime:   widget.NewEntry(),
	}
	menu.stopwatchInput.SetPlaceHolder("Minutes")
	menu.timerInput.SetPlaceHolder("Minutes")
	menu.reminderText.SetPlaceHolder("Reminder text")
	menu.reminderTime.SetPlaceHolder("HH:MM")

	themeGrid := container.NewGridWithColumns(2)
	for _, option := range theme.All() {
		key := option.Key
		button := widget.NewButton(option.Name, func() {
			menu.selectTheme(key)
		})
		menu.themeButtons[key] = button
		themeGrid.Add(button)
	}
	menu.darkButton = widget.NewButtonWithIcon("Dark Mode", fynetheme.VisibilityOffIcon(), menu.toggleDark)

	menu.stopwatchAdd = widget.NewButton("Add", func() {
		menu.addCountdown(model.KindStopwatch, menu.stopwatchInput)
	})
	menu.timerAdd = widget.NewButton("Add", func() {
		menu.addCountdown(model.KindTimer, menu.timerInput)
	})
	menu.reminderAdd = widget.NewButton("Add Reminder", menu.addReminder)
	for _, button := range []*widget.Button{menu.stopwatchAdd, menu.timerAdd, menu.reminderAdd} {
		button.Importance = widget.HighImportance
	}
	menu.stopwatchInput.OnSubmitted = func(string) { menu.stopwatchAdd.OnTapped() }
	menu.timerInput.OnSubmitted = func(string) { menu.timerAdd.OnTapped() }
	menu.reminderTime.OnSubmitted = func(string) { menu.reminderAdd.OnTapped() }

	menu.stopwatches = newRowList(resources.KindIcon(model.KindStopwatch), func(id string) {
		menu.controller.RemoveCountdown(model.KindStopwatch, id)
		menu.Sync(menu.controller.Snapshot())
	})
	menu.timers = newRowList(resources.KindIcon(model.KindTimer), func(id string) {
		menu.controller.RemoveCountdown(model.KindTimer, id)
		menu.Sync(menu.controller.Snapshot())
	})
	menu.reminders = newRowList(resources.KindIcon(model.KindReminder), func(id string) {
		menu.controller.RemoveReminder(id)
		menu.Sync(menu.controller.Snapshot())
	})

	extras := container.NewGridWithColumns(2,
		widget.NewButtonWithIcon("Weather", fynetheme.ViewRefreshIcon(), func() {
			if menu.callbacks.OnRefreshWeather != nil {
				menu.callbacks.OnRefreshWeather()
			}
		}),
		widget.NewButtonWithIcon("Preferences", fynetheme.SettingsIcon(), func() {
			if menu.callbacks.OnPreferences != nil {
				menu.callbacks.OnPreferences()
			}
		}),
	)

	content := container.NewVBox(
		heading("Settings", fynetheme.SizeNameHeadingText),
		heading("Theme", fynetheme.SizeNameSubHeadingText),
		themeGrid,
		menu.darkButton,
		widget.NewSeparator(),
		heading("Stopwatch", fynetheme.SizeNameSubHeadingText),
		container.NewBorder(nil, nil, nil, menu.stopwatchAdd, menu.stopwatchInput),
		menu.stopwatches.Object(),
		widget.NewSeparator(),
		heading("Timer", fynetheme.SizeNameSubHeadingText),
		container.NewBorder(nil, nil, nil, menu.timerAdd, menu.timerInput),
		menu.timers.Object(),
		widget.NewSeparator(),
		heading("Reminder", fynetheme.SizeNameSubHeadingText),
		menu.reminderText,
		container.NewBorder(nil, nil, nil, menu.reminderAdd, menu.reminderTime),
		menu.reminders.Object(),
		widget.NewSeparator(),
		extras,
	)

	menu.background = canvas.NewRectangle(nil)
	panel := container.NewStack(menu.background, container.NewPadded(container.NewVScroll(content)))
	menu.slide = &slideLayout{width: menuWidth}
	menu.root = container.New(menu.slide, panel)
	menu.root.Hide()

	menu.animation = fyne.NewAnimation(slideDuration, func(progress float32) {
		if menu.open {
			menu.slide.shown = progress
		} else {
			menu.slide.shown = 1 - progress
			if progress >= 1 {
				menu.root.Hide()
			}
		}
		menu.root.Refresh()
	})
	menu.animation.Curve = fyne.AnimationEaseOut

	return menu
}

// Object returns the panel to stack over the dashboard.
func (menu *ControlMenu) Object() fyne.CanvasObject {
	return menu.root
}

// IsOpen reports whether the panel is shown or sliding in.
func (menu *ControlMenu) IsOpen() bool {
	return menu.open
}

// Toggle slides the panel in or out.
func (menu *ControlMenu) Toggle() {
	menu.SetOpen(!menu.open)
}

// SetOpen slides the panel to the requested state.
func (menu *ControlMenu) SetOpen(open bool) {
	if open == menu.open {
		return
	}
	menu.open = open
	menu.animation.Stop()
	if open {
		menu.root.Show()
	}
	menu.animation.Start()
}

// ApplyTheme marks the active theme button and restyles the panel.
func (menu *ControlMenu) ApplyTheme(key string, dark bool, palette theme.Palette) {
	menu.themeKey = key
	menu.dark = dark
	for buttonKey, button := range menu.themeButtons {
		if buttonKey == key {
			button.Importance = widget.HighImportance
		} else {
			button.Importance = widget.MediumImportance
		}
		button.Refresh()
	}
	if dark {
		menu.darkButton.SetText("Light Mode")
		menu.darkButton.SetIcon(fynetheme.VisibilityIcon())
	} else {
		menu.darkButton.SetText("Dark Mode")
		menu.darkButton.SetIcon(fynetheme.VisibilityOffIcon())
	}
	menu.background.FillColor = theme.WithAlpha(palette.Gradient[2], 0xE8)
	menu.background.Refresh()
}

// Sync updates the entity lists from snapshot.
func (menu *ControlMenu) Sync(snapshot engine.Snapshot) {
	menu.stopwatches.Sync(countdownRows(snapshot.Stopwatches))
	menu.timers.Sync(countdownRows(snapshot.Timers))
	rows := make([]row, 0, len(snapshot.Reminders))
	for _, entry := range snapshot.Reminders {
		rows = append(rows, row{id: entry.ID, text: reminderRowText(entry)})
	}
	menu.reminders.Sync(rows)
}

func (menu *ControlMenu) selectTheme(key string) {
	if menu.callbacks.OnThemeChange != nil {
		menu.callbacks.OnThemeChange(key, menu.dark)
	}
}

func (menu *ControlMenu) toggleDark() {
	if menu.callbacks.OnThemeChange != nil {
		menu.callbacks.OnThemeChange(menu.themeKey, !menu.dark)
	}
}

func (menu *ControlMenu) addCountdown(kind model.Kind, input *widget.Entry) {
	if _, ok := menu.controller.AddCountdown(kind, input.Text); !ok {
		return
	}
	input.SetText("")
	menu.Sync(menu.controller.Snapshot())
}

func (menu *ControlMenu) addReminder() {
	if _, ok := menu.controller.AddReminder(menu.reminderText.Text, menu.reminderTime.Text); !ok {
		return
	}
	menu.reminderText.SetText("")
	menu.reminderTime.SetText("")
	menu.Sync(menu.controller.Snapshot())
}

func countdownRows(entries []countdown.Entry) []row {
	rows := make([]row, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, row{id: entry.ID, text: countdown.FormatTime(entry.RemainingSeconds)})
	}
	return rows
}

func reminderRowText(entry reminder.Entry) string {
	return fmt.Sprintf("%s  %s", entry.DisplayTime, entry.Text)
}

func heading(text string, size fyne.ThemeSizeName) *widget.Label {
	label := widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	label.SizeName = size
	return label
}

type row struct {
	id   string
	text string
}

type rowWidgets struct {
	box    *fyne.Container
	label  *widget.Label
	delete *widget.Button
}

// rowList keeps one row of widgets per entity id.
type rowList struct {
	root     *fyne.Container
	icon     fyne.Resource
	onDelete func(id string)
	rows     map[string]*rowWidgets
	order    []string
}

func newRowList(icon fyne.Resource, onDelete func(id string)) *rowList {
	return &rowList{
		root:     container.NewVBox(),
		icon:     icon,
		onDelete: onDelete,
		rows:     map[string]*rowWidgets{},
	}
}

func (list *rowList) Object() fyne.CanvasObject {
	return list.root
}

// Sync matches the rows to entries, in order.
func (list *rowList) Sync(entries []row) {
	keep := make(map[string]bool, len(entries))
	order := make([]string, 0, len(entries))
	for _, entry := range entries {
		keep[entry.id] = true
		order = append(order, entry.id)
		widgets, ok := list.rows[entry.id]
		if !ok {
			widgets = list.newRow(entry.id)
			list.rows[entry.id] = widgets
		}
		if widgets.label.Text != entry.text {
			widgets.label.SetText(entry.text)
		}
	}
	for id := range list.rows {
		if !keep[id] {
			delete(list.rows, id)
		}
	}
	if slices.Equal(order, list.order) {
		return
	}
	list.order = order
	objects := make([]fyne.CanvasObject, 0, len(order))
	for _, id := range order {
		objects = append(objects, list.rows[id].box)
	}
	list.root.Objects = objects
	list.root.Refresh()
}

// Texts returns the visible row labels.
func (list *rowList) Texts() []string {
	texts := make([]string, 0, len(list.order))
	for _, id := range list.order {
		texts = append(texts, list.rows[id].label.Text)
	}
	return texts
}

func (list *rowList) newRow(id string) *rowWidgets {
	label := widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	label.Truncation = fyne.TextTruncateEllipsis
	deleteButton := widget.NewButtonWithIcon("", fynetheme.DeleteIcon(), func() {
		if list.onDelete != nil {
			list.onDelete(id)
		}
	})
	deleteButton.Importance = widget.DangerImportance
	box := container.NewBorder(nil, nil, widget.NewIcon(list.icon), deleteButton, label)
	return &rowWidgets{box: box, label: label, delete: deleteButton}
}

// slideLayout pins its content to the right edge; shown is the visible
// fraction of the panel width.
type slideLayout struct {
	width float32
	shown float32
}

func (layout *slideLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	width := layout.width
	if width > size.Width {
		width = size.Width
	}
	x := size.Width - width*layout.shown
	for _, object := range objects {
		object.Move(fyne.NewPos(x, 0))
		object.Resize(fyne.NewSize(width, size.Height))
	}
}

func (layout *slideLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(0, 0)
}
