package tray

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"tabletdash/internal/core/countdown"
	"tabletdash/internal/core/engine"
)

const menuTitle = "Dashboard"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow             func()
	OnPreferences      func()
	OnDismiss          func()
	OnRefreshWeather   func()
	OnToggleFullscreen func()
	OnQuit             func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	dismissItem *fyne.MenuItem
	callbacks   Callbacks
	statusLabel string
	alerting    bool
	activeIcon  fyne.Resource
	alertIcon   fyne.Resource
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, activeIcon, alertIcon fyne.Resource, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:        app,
		callbacks:  callbacks,
		activeIcon: activeIcon,
		alertIcon:  alertIcon,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.dismissItem = fyne.NewMenuItem("Dismiss notification", func() {
		if manager.callbacks.OnDismiss != nil {
			manager.callbacks.OnDismiss()
		}
	})
	manager.dismissItem.Disabled = true

	manager.refreshMenu()
	if app != nil && activeIcon != nil {
		app.SetSystemTrayIcon(activeIcon)
	}
	return manager
}

// SetStatus updates the status label from snapshot.
func (manager *Manager) SetStatus(snapshot engine.Snapshot) {
	status := Summary(snapshot)
	alerting := snapshot.HasNotification
	if status == manager.statusLabel && alerting == manager.alerting {
		return
	}
	manager.statusLabel = status
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	if alerting != manager.alerting {
		manager.alerting = alerting
		manager.dismissItem.Disabled = !alerting
		manager.refreshIcon()
	}
	manager.refreshMenu()
}

// Status returns the current status label.
func (manager *Manager) Status() string {
	return manager.statusItem.Label
}

// Summary describes what the dashboard is counting down.
func Summary(snapshot engine.Snapshot) string {
	if snapshot.HasNotification {
		return snapshot.Notification.Message
	}

	var parts []string
	if count := len(snapshot.Timers); count > 0 {
		parts = append(parts, plural(count, "timer"))
	}
	if count := len(snapshot.Stopwatches); count > 0 {
		parts = append(parts, plural(count, "stopwatch"))
	}
	if count := len(snapshot.Reminders); count > 0 {
		parts = append(parts, plural(count, "reminder"))
	}
	if len(parts) == 0 {
		return "idle"
	}

	status := strings.Join(parts, ", ")
	if next, ok := nextExpiry(snapshot); ok {
		status += fmt.Sprintf(" (next %s)", countdown.FormatTime(next))
	}
	return status
}

func nextExpiry(snapshot engine.Snapshot) (int, bool) {
	best := 0
	found := false
	for _, entries := range [][]countdown.Entry{snapshot.Timers, snapshot.Stopwatches} {
		for _, entry := range entries {
			if !found || entry.RemainingSeconds < best {
				best = entry.RemainingSeconds
				found = true
			}
		}
	}
	return best, found
}

func plural(count int, noun string) string {
	if count == 1 {
		return "1 " + noun
	}
	if strings.HasSuffix(noun, "h") {
		return fmt.Sprintf("%d %ses", count, noun)
	}
	return fmt.Sprintf("%d %ss", count, noun)
}

func (manager *Manager) refreshIcon() {
	if manager.app == nil {
		return
	}
	icon := manager.activeIcon
	if manager.alerting && manager.alertIcon != nil {
		icon = manager.alertIcon
	}
	if icon != nil {
		manager.app.SetSystemTrayIcon(icon)
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show dashboard", func() {
			if manager.callbacks.OnShow != nil {
				manager.callbacks.OnShow()
			}
		}),
		fyne.NewMenuItem("Toggle fullscreen", func() {
			if manager.callbacks.OnToggleFullscreen != nil {
				manager.callbacks.OnToggleFullscreen()
			}
		}),
		manager.dismissItem,
		fyne.NewMenuItem("Refresh weather", func() {
			if manager.callbacks.OnRefreshWeather != nil {
				manager.callbacks.OnRefreshWeather()
			}
		}),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
