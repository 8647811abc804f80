package model

import (
	"fmt"
	"time"
)

// Kind tags the source of a notification. It selects the icon and tone only.
type Kind string

const (
	KindTimer     Kind = "timer"
	KindStopwatch Kind = "stopwatch"
	KindReminder  Kind = "reminder"
)

// Label returns the human name of the kind.
func (kind Kind) Label() string {
	switch kind {
	case KindTimer:
		return "Timer"
	case KindStopwatch:
		return "Stopwatch"
	case KindReminder:
		return "Reminder"
	default:
		return string(kind)
	}
}

// Notification is a surfaced expiry or reminder.
type Notification struct {
	Kind    Kind
	Message string
	At      time.Time
}

// CompletedMessage formats the message for an expired countdown.
func CompletedMessage(kind Kind, minutes int) string {
	return fmt.Sprintf("%s completed! (%d min)", kind.Label(), minutes)
}

// ReminderMessage formats the message for a fired reminder.
func ReminderMessage(text string) string {
	return "Reminder: " + text
}
