package engine

import (
	"tabletdash/internal/core/countdown"
	"tabletdash/internal/core/model"
	"tabletdash/internal/core/reminder"
	"tabletdash/internal/logx"
)

// AddCountdown parses raw minutes and adds a timer or stopwatch.
// Invalid input is refused silently and reported through ok.
func (engine *Engine) AddCountdown(kind model.Kind, raw string) (countdown.Entry, bool) {
	minutes, ok := countdown.ParseMinutes(raw)
	if !ok {
		engine.log.Debug("countdown input refused", logx.String("kind", string(kind)), logx.String("input", raw))
		return countdown.Entry{}, false
	}
	return engine.AddCountdownMinutes(kind, minutes)
}

// AddCountdownMinutes adds a timer or stopwatch of the given minutes.
func (engine *Engine) AddCountdownMinutes(kind model.Kind, minutes int) (countdown.Entry, bool) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	registry, ok := engine.registry(kind)
	if !ok {
		return countdown.Entry{}, false
	}
	entry, ok := registry.Create(minutes)
	if !ok {
		engine.log.Debug("countdown refused", logx.String("kind", string(kind)), logx.Int("minutes", minutes))
		return countdown.Entry{}, false
	}
	engine.log.Info("countdown added", logx.String("kind", string(kind)), logx.String("id", entry.ID), logx.Int("minutes", minutes))
	engine.emit(Event{Type: EventCountdownChanged, Kind: kind, At: engine.clock.Now()})
	return entry, true
}

// RemoveCountdown deletes a timer or stopwatch. Unknown ids are ignored.
func (engine *Engine) RemoveCountdown(kind model.Kind, id string) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	registry, ok := engine.registry(kind)
	if !ok || !registry.Remove(id) {
		return
	}
	engine.log.Info("countdown removed", logx.String("kind", string(kind)), logx.String("id", id))
	engine.emit(Event{Type: EventCountdownChanged, Kind: kind, At: engine.clock.Now()})
}

// AddReminder schedules text for today's hh:mm.
func (engine *Engine) AddReminder(text, hhmm string) (reminder.Entry, bool) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	now := engine.clock.Now()
	entry, ok := engine.reminders.Create(text, hhmm, now)
	if !ok {
		engine.log.Debug("reminder refused", logx.String("time", hhmm))
		return reminder.Entry{}, false
	}
	engine.log.Info("reminder added", logx.String("id", entry.ID), logx.Time("fire_at", entry.FireAt))
	engine.emit(Event{Type: EventRemindersChanged, Kind: model.KindReminder, At: now})
	return entry, true
}

// RemoveReminder deletes a reminder. Unknown ids are ignored.
func (engine *Engine) RemoveReminder(id string) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if !engine.reminders.Remove(id) {
		return
	}
	engine.log.Info("reminder removed", logx.String("id", id))
	engine.emit(Event{Type: EventRemindersChanged, Kind: model.KindReminder, At: engine.clock.Now()})
}

// DismissNotification hides the visible notification immediately.
func (engine *Engine) DismissNotification() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.dispatcher.Dismiss()
}

// Timers returns the active timers.
func (engine *Engine) Timers() []countdown.Entry {
	return engine.timers.Snapshot()
}

// Stopwatches returns the active stopwatches.
func (engine *Engine) Stopwatches() []countdown.Entry {
	return engine.stopwatches.Snapshot()
}

// Reminders returns the scheduled reminders.
func (engine *Engine) Reminders() []reminder.Entry {
	return engine.reminders.Snapshot()
}

// Notification returns the visible notification, if any.
func (engine *Engine) Notification() (model.Notification, bool) {
	return engine.dispatcher.Current()
}

// Snapshot bundles every read-only view.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	now := engine.lastTick
	engine.mu.Unlock()
	if now.IsZero() {
		now = engine.clock.Now()
	}
	notification, showing := engine.dispatcher.Current()
	return Snapshot{
		Now:             now,
		Timers:          engine.timers.Snapshot(),
		Stopwatches:     engine.stopwatches.Snapshot(),
		Reminders:       engine.reminders.Snapshot(),
		Notification:    notification,
		HasNotification: showing,
	}
}
