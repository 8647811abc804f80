package model

import "time"

// EngineConfig contains runtime settings for the timed event engine.
type EngineConfig struct {
	// TickInterval drives the wall clock and both countdown registries.
	TickInterval time.Duration
	// ReminderPollInterval is how often reminders are evaluated.
	ReminderPollInterval time.Duration
	// ReminderWindow is how long after its fire time a reminder is still due.
	// It must be larger than ReminderPollInterval or reminders can be skipped.
	ReminderWindow time.Duration
	// NotificationTimeout auto-dismisses the visible notification.
	NotificationTimeout time.Duration
}

// DefaultEngineConfig returns the cadences the dashboard ships with.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TickInterval:         time.Second,
		ReminderPollInterval: 30 * time.Second,
		ReminderWindow:       time.Minute,
		NotificationTimeout:  5 * time.Second,
	}
}

// Normalize fills zero values with defaults and widens a reminder window
// that would be shorter than the poll period.
func (config EngineConfig) Normalize() EngineConfig {
	defaults := DefaultEngineConfig()
	if config.TickInterval <= 0 {
		config.TickInterval = defaults.TickInterval
	}
	if config.ReminderPollInterval <= 0 {
		config.ReminderPollInterval = defaults.ReminderPollInterval
	}
	if config.ReminderWindow <= 0 {
		config.ReminderWindow = defaults.ReminderWindow
	}
	if config.ReminderWindow <= config.ReminderPollInterval {
		config.ReminderWindow = 2 * config.ReminderPollInterval
	}
	if config.NotificationTimeout <= 0 {
		config.NotificationTimeout = defaults.NotificationTimeout
	}
	return config
}
