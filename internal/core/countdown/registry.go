package countdown

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"tabletdash/internal/core/model"
)

// Entry is a single countdown clock.
type Entry struct {
	ID               string
	Kind             model.Kind
	Minutes          int
	TotalSeconds     int
	RemainingSeconds int
	CreatedAt        time.Time
}

// Registry owns one collection of countdowns. Timers and stopwatches are two
// registries that differ only by Kind.
//
// Every mutation replaces the backing slice, so a slice returned by Snapshot
// never changes after it is handed out.
type Registry struct {
	mu      sync.Mutex
	kind    model.Kind
	now     func() time.Time
	entries []Entry
}

// NewRegistry creates an empty registry for kind. now stamps created entries
// and emitted notifications; nil means time.Now.
func NewRegistry(kind model.Kind, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{kind: kind, now: now}
}

// Kind returns the notification kind this registry emits.
func (registry *Registry) Kind() model.Kind {
	return registry.kind
}

// MaxMinutes is the longest countdown accepted: one year.
const MaxMinutes = 365 * 24 * 60

// Create adds a countdown of the given minutes. Values outside
// 1..MaxMinutes are refused.
func (registry *Registry) Create(minutes int) (Entry, bool) {
	if minutes <= 0 || minutes > MaxMinutes {
		return Entry{}, false
	}
	entry := Entry{
		ID:               model.NewID(),
		Kind:             registry.kind,
		Minutes:          minutes,
		TotalSeconds:     minutes * 60,
		RemainingSeconds: minutes * 60,
		CreatedAt:        registry.now(),
	}

	registry.mu.Lock()
	next := make([]Entry, 0, len(registry.entries)+1)
	next = append(next, registry.entries...)
	registry.entries = append(next, entry)
	registry.mu.Unlock()
	return entry, true
}

// CreateFromInput parses user text and creates a countdown from it.
// Empty, non-numeric and non-positive values create nothing.
func (registry *Registry) CreateFromInput(raw string) (Entry, bool) {
	minutes, ok := ParseMinutes(raw)
	if !ok {
		return Entry{}, false
	}
	return registry.Create(minutes)
}

// Remove deletes the entry with id. Unknown ids are ignored.
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

// Tick advances every entry by one second. An entry that reaches zero emits
// exactly one notification and is dropped in the same tick. Entries already at
// zero are dropped without emitting.
func (registry *Registry) Tick() []model.Notification {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if len(registry.entries) == 0 {
		return nil
	}

	var expired []model.Notification
	next := make([]Entry, 0, len(registry.entries))
	for _, entry := range registry.entries {
		if entry.RemainingSeconds <= 0 {
			continue
		}
		entry.RemainingSeconds--
		if entry.RemainingSeconds == 0 {
			expired = append(expired, model.Notification{
				Kind:    registry.kind,
				Message: model.CompletedMessage(registry.kind, entry.Minutes),
				At:      registry.now(),
			})
			continue
		}
		next = append(next, entry)
	}
	registry.entries = next
	return expired
}

// Snapshot returns the current entries in insertion order.
func (registry *Registry) Snapshot() []Entry {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return registry.entries
}

// Len returns the number of active entries.
func (registry *Registry) Len() int {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return len(registry.entries)
}

// ParseMinutes reads a leading base-10 integer from user input, so "5" and
// "5 min" both give 5. It fails on empty, non-numeric and non-positive input.
func ParseMinutes(raw string) (int, bool) {
	value := strings.TrimSpace(raw)
	end := 0
	if end < len(value) && (value[end] == '+' || value[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	minutes, err := strconv.Atoi(value[:end])
	if err != nil || minutes <= 0 {
		return 0, false
	}
	return minutes, true
}
