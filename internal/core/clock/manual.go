package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Clock whose time only moves when Advance or Set is called.
// Callbacks scheduled with AfterFunc run synchronously inside Advance.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	nextID int
	timers []*manualTimer
}

type manualTimer struct {
	owner *Manual
	id    int
	at    time.Time
	fn    func()
}

// NewManual returns a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (manual *Manual) Now() time.Time {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return manual.now
}

func (manual *Manual) AfterFunc(d time.Duration, f func()) Timer {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	manual.nextID++
	timer := &manualTimer{owner: manual, id: manual.nextID, at: manual.now.Add(d), fn: f}
	manual.timers = append(manual.timers, timer)
	return timer
}

// Pending reports how many scheduled callbacks have not fired yet.
func (manual *Manual) Pending() int {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return len(manual.timers)
}

// Set jumps to t without firing callbacks scheduled before it.
func (manual *Manual) Set(t time.Time) {
	manual.mu.Lock()
	manual.now = t
	manual.mu.Unlock()
}

// Advance moves time forward and fires every callback that became due,
// in deadline order.
func (manual *Manual) Advance(d time.Duration) {
	manual.mu.Lock()
	target := manual.now.Add(d)
	manual.mu.Unlock()

	for {
		manual.mu.Lock()
		sort.SliceStable(manual.timers, func(i, j int) bool {
			return manual.timers[i].at.Before(manual.timers[j].at)
		})
		if len(manual.timers) == 0 || manual.timers[0].at.After(target) {
			manual.now = target
			manual.mu.Unlock()
			return
		}
		due := manual.timers[0]
		manual.timers = manual.timers[1:]
		manual.now = due.at
		manual.mu.Unlock()

		due.fn()
	}
}

func (timer *manualTimer) Stop() bool {
	manual := timer.owner
	manual.mu.Lock()
	defer manual.mu.Unlock()
	for i, pending := range manual.timers {
		if pending.id == timer.id {
			manual.timers = append(manual.timers[:i:i], manual.timers[i+1:]...)
			return true
		}
	}
	return false
}
