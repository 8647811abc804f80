package notify

import (
	"sync"
	"time"

	"tabletdash/internal/core/clock"
	"tabletdash/internal/core/model"
	"tabletdash/internal/logx"
)

// State represents the dispatcher mode.
type State string

const (
	StateIdle    State = "idle"
	StateShowing State = "showing"
)

// DefaultTimeout auto-dismisses a notification.
const DefaultTimeout = 5 * time.Second

// Alerter plays the audible alert for a notification. Implementations must
// return quickly; playback happens in the background.
type Alerter interface {
	Alert(kind model.Kind)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(kind model.Kind)

func (fn AlerterFunc) Alert(kind model.Kind) { fn(kind) }

// Change describes a dispatcher transition.
type Change struct {
	State        State
	Notification model.Notification
	Reason       string
}

// Dispatcher holds the single visible notification slot.
//
// A notification that arrives while another is showing replaces it and
// restarts the timeout. Nothing is queued or re-shown.
type Dispatcher struct {
	mu         sync.Mutex
	clock      clock.Clock
	timeout    time.Duration
	alerter    Alerter
	onChange   func(Change)
	log        logx.Logger
	state      State
	current    model.Notification
	timer      clock.Timer
	generation uint64
}

// Options configures a Dispatcher.
type Options struct {
	Clock    clock.Clock
	Timeout  time.Duration
	Alerter  Alerter
	OnChange func(Change)
	Log      logx.Logger
}

// NewDispatcher returns an idle dispatcher.
func NewDispatcher(options Options) *Dispatcher {
	if options.Clock == nil {
		options.Clock = clock.SystemClock
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}
	if options.Log.IsZero() {
		options.Log = logx.Nop()
	}
	return &Dispatcher{
		clock:    options.Clock,
		timeout:  options.Timeout,
		alerter:  options.Alerter,
		onChange: options.OnChange,
		log:      options.Log,
		state:    StateIdle,
	}
}

// SetTimeout changes the auto-dismiss delay for later notifications.
func (dispatcher *Dispatcher) SetTimeout(timeout time.Duration) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dispatcher.mu.Lock()
	dispatcher.timeout = timeout
	dispatcher.mu.Unlock()
}

// Publish shows notification, alerts and (re)starts the auto-dismiss timer.
func (dispatcher *Dispatcher) Publish(notification model.Notification) {
	dispatcher.mu.Lock()
	if notification.At.IsZero() {
		notification.At = dispatcher.clock.Now()
	}
	replaced := dispatcher.state == StateShowing
	if dispatcher.timer != nil {
		dispatcher.timer.Stop()
	}
	dispatcher.generation++
	generation := dispatcher.generation
	dispatcher.state = StateShowing
	dispatcher.current = notification
	dispatcher.timer = dispatcher.clock.AfterFunc(dispatcher.timeout, func() {
		dispatcher.expire(generation)
	})
	alerter := dispatcher.alerter
	dispatcher.mu.Unlock()

	if replaced {
		dispatcher.log.Debug("notification replaced", logx.String("kind", string(notification.Kind)))
	}
	if alerter != nil {
		alerter.Alert(notification.Kind)
	}
	dispatcher.notify(Change{State: StateShowing, Notification: notification, Reason: "publish"})
}

// Dismiss hides the current notification and cancels its timeout.
func (dispatcher *Dispatcher) Dismiss() {
	dispatcher.mu.Lock()
	if dispatcher.state == StateIdle {
		dispatcher.mu.Unlock()
		return
	}
	dispatcher.resetLocked()
	dispatcher.mu.Unlock()

	dispatcher.notify(Change{State: StateIdle, Reason: "dismiss"})
}

// Stop cancels any pending timeout and returns to idle without notifying.
func (dispatcher *Dispatcher) Stop() {
	dispatcher.mu.Lock()
	dispatcher.resetLocked()
	dispatcher.mu.Unlock()
}

// Current returns the visible notification, if any.
func (dispatcher *Dispatcher) Current() (model.Notification, bool) {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	return dispatcher.current, dispatcher.state == StateShowing
}

// State returns the dispatcher mode.
func (dispatcher *Dispatcher) State() State {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	return dispatcher.state
}

func (dispatcher *Dispatcher) expire(generation uint64) {
	dispatcher.mu.Lock()
	if dispatcher.state != StateShowing || dispatcher.generation != generation {
		dispatcher.mu.Unlock()
		return
	}
	dispatcher.timer = nil
	dispatcher.resetLocked()
	dispatcher.mu.Unlock()

	dispatcher.notify(Change{State: StateIdle, Reason: "timeout"})
}

func (dispatcher *Dispatcher) resetLocked() {
	if dispatcher.timer != nil {
		dispatcher.timer.Stop()
		dispatcher.timer = nil
	}
	dispatcher.generation++
	dispatcher.state = StateIdle
	dispatcher.current = model.Notification{}
}

func (dispatcher *Dispatcher) notify(change Change) {
	if dispatcher.onChange != nil {
		dispatcher.onChange(change)
	}
}
