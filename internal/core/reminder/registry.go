package reminder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"tabletdash/internal/core/model"
)

// DefaultWindow is how long after its fire time a reminder stays due.
const DefaultWindow = time.Minute

// Entry is a one-shot reminder.
type Entry struct {
	ID          string
	Text        string
	FireAt      time.Time
	DisplayTime string
}

// Result is the outcome of one evaluation pass.
type Result struct {
	Fired  []model.Notification
	Missed []Entry
}

// Registry owns the scheduled reminders and decides when each one is due.
type Registry struct {
	mu      sync.Mutex
	window  time.Duration
	entries []Entry
}

// NewRegistry creates an empty registry. A non-positive window means DefaultWindow.
func NewRegistry(window time.Duration) *Registry {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Registry{window: window}
}

// Window returns the firing tolerance.
func (registry *Registry) Window() time.Duration {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return registry.window
}

// SetWindow changes the firing tolerance for later evaluations.
func (registry *Registry) SetWindow(window time.Duration) {
	if window <= 0 {
		window = DefaultWindow
	}
	registry.mu.Lock()
	registry.window = window
	registry.mu.Unlock()
}

// Create schedules text for today's hh:mm in now's location.
// Empty text, empty time and malformed times create nothing.
func (registry *Registry) Create(text, hhmm string, now time.Time) (Entry, bool) {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(hhmm) == "" {
		return Entry{}, false
	}
	hour, minute, err := ParseHHMM(hhmm)
	if err != nil {
		return Entry{}, false
	}
	entry := Entry{
		ID:          model.NewID(),
		Text:        text,
		FireAt:      time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()),
		DisplayTime: hhmm,
	}

	registry.mu.Lock()
	next := make([]Entry, 0, len(registry.entries)+1)
	next = append(next, registry.entries...)
	registry.entries = append(next, entry)
	registry.mu.Unlock()
	return entry, true
}

// Remove deletes the reminder with id. Unknown ids are ignored.
func (registry *Registry) Remove(id string) bool {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	next := make([]Entry, 0, len(registry.entries))
	for _, entry := range registry.entries {
		if entry.ID != id {
			next = append(next, entry)
		}
	}
	removed := len(next) != len(registry.entries)
	if removed {
		registry.entries = next
	}
	return removed
}

// Evaluate fires every reminder whose window [FireAt, FireAt+window) contains
// now and removes it in the same pass. Reminders whose window has already
// closed are removed without firing and reported as missed.
func (registry *Registry) Evaluate(now time.Time) Result {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	var result Result
	if len(registry.entries) == 0 {
		return result
	}

	next := make([]Entry, 0, len(registry.entries))
	for _, entry := range registry.entries {
		closesAt := entry.FireAt.Add(registry.window)
		switch {
		case now.Before(entry.FireAt):
			next = append(next, entry)
		case now.Before(closesAt):
			result.Fired = append(result.Fired, model.Notification{
				Kind:    model.KindReminder,
				Message: model.ReminderMessage(entry.Text),
				At:      now,
			})
		default:
			result.Missed = append(result.Missed, entry)
		}
	}
	registry.entries = next
	return result
}

// Snapshot returns the scheduled reminders in insertion order.
func (registry *Registry) Snapshot() []Entry {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return registry.entries
}

// Len returns the number of scheduled reminders.
func (registry *Registry) Len() int {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return len(registry.entries)
}

var reHHMM = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*$`)

// ParseHHMM parses a 24-hour "HH:MM" time of day.
func ParseHHMM(value string) (int, int, error) {
	match := reHHMM.FindStringSubmatch(value)
	if match == nil {
		return 0, 0, fmt.Errorf("invalid time of day %q (use HH:MM)", value)
	}
	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	if hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour %d", hour)
	}
	if minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute %d", minute)
	}
	return hour, minute, nil
}
