package engine

import (
	"time"

	"tabletdash/internal/core/countdown"
	"tabletdash/internal/core/model"
	"tabletdash/internal/core/reminder"
)

// EventType defines the type of engine event.
type EventType string

const (
	EventClock               EventType = "clock"
	EventCountdownChanged    EventType = "countdown_changed"
	EventRemindersChanged    EventType = "reminders_changed"
	EventNotification        EventType = "notification"
	EventNotificationCleared EventType = "notification_cleared"
	EventMissedReminder      EventType = "missed_reminder"
)

// Event represents an engine update for observers.
type Event struct {
	Type         EventType
	Kind         model.Kind
	Notification model.Notification
	Message      string
	At           time.Time
}

// Snapshot is a read-only view of everything the dashboard renders.
type Snapshot struct {
	Now             time.Time
	Timers          []countdown.Entry
	Stopwatches     []countdown.Entry
	Reminders       []reminder.Entry
	Notification    model.Notification
	HasNotification bool
}
