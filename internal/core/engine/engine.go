package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"tabletdash/internal/core/clock"
	"tabletdash/internal/core/countdown"
	"tabletdash/internal/core/model"
	"tabletdash/internal/core/notify"
	"tabletdash/internal/core/reminder"
	"tabletdash/internal/logx"
)

// Options contains collaborators for the engine. Zero values get defaults.
type Options struct {
	Clock   clock.Clock
	Alerter notify.Alerter
	Log     logx.Logger
}

// Engine owns the timer, stopwatch and reminder registries and the
// notification dispatcher, and drives them from its periodic sources.
//
// Every periodic callback (clock tick, reminder poll, notification timeout)
// and every command runs under mu, so each one sees and leaves the
// registries and the dispatcher in a consistent state.
type Engine struct {
	mu          sync.Mutex
	config      model.EngineConfig
	clock       clock.Clock
	log         logx.Logger
	timers      *countdown.Registry
	stopwatches *countdown.Registry
	reminders   *reminder.Registry
	dispatcher  *notify.Dispatcher
	ticker      *clock.Ticker
	scheduler   *cron.Cron
	running     bool
	loopDone    chan struct{}
	lastTick    time.Time

	subsMu sync.Mutex
	subs   []chan Event
}

// New creates a stopped engine.
func New(config model.EngineConfig, options Options) *Engine {
	config = config.Normalize()
	if options.Clock == nil {
		options.Clock = clock.SystemClock
	}
	if options.Log.IsZero() {
		options.Log = logx.Nop()
	}

	engine := &Engine{
		config:      config,
		clock:       options.Clock,
		log:         options.Log.With(logx.String("component", "engine")),
		timers:      countdown.NewRegistry(model.KindTimer, options.Clock.Now),
		stopwatches: countdown.NewRegistry(model.KindStopwatch, options.Clock.Now),
		reminders:   reminder.NewRegistry(config.ReminderWindow),
	}
	engine.dispatcher = notify.NewDispatcher(notify.Options{
		Clock:    serialClock{Clock: options.Clock, mu: &engine.mu},
		Timeout:  config.NotificationTimeout,
		Alerter:  options.Alerter,
		OnChange: engine.handleDispatcherChange,
		Log:      engine.log,
	})
	return engine
}

// Config returns the effective configuration.
func (engine *Engine) Config() model.EngineConfig {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.config
}

// Subscribe registers a new observer channel. Events are dropped for
// observers whose buffer is full.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.subsMu.Lock()
	engine.subs = append(engine.subs, ch)
	engine.subsMu.Unlock()
	return ch
}

// Start launches the clock tick loop and the reminder schedule.
func (engine *Engine) Start() error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.running {
		return nil
	}

	scheduler, err := engine.newSchedulerLocked()
	if err != nil {
		return err
	}

	engine.ticker = clock.NewTicker(engine.clock, engine.config.TickInterval)
	ticks := engine.ticker.Subscribe(1)
	engine.loopDone = make(chan struct{})
	engine.scheduler = scheduler
	engine.running = true

	go engine.run(ticks, engine.loopDone)
	engine.ticker.Start()
	scheduler.Start()

	engine.log.Info("engine started",
		logx.Duration("tick", engine.config.TickInterval),
		logx.Duration("reminder_poll", engine.config.ReminderPollInterval),
		logx.Duration("reminder_window", engine.config.ReminderWindow),
	)
	return nil
}

// UpdateConfig applies new cadences. The reminder schedule is rebuilt when
// the poll interval changes; the tick interval is fixed once started.
func (engine *Engine) UpdateConfig(config model.EngineConfig) error {
	config = config.Normalize()

	engine.mu.Lock()
	previous := engine.config
	if engine.running {
		config.TickInterval = previous.TickInterval
	}
	engine.config = config
	engine.reminders.SetWindow(config.ReminderWindow)
	engine.dispatcher.SetTimeout(config.NotificationTimeout)

	var stale *cron.Cron
	if engine.running && config.ReminderPollInterval != previous.ReminderPollInterval {
		scheduler, err := engine.newSchedulerLocked()
		if err != nil {
			engine.config.ReminderPollInterval = previous.ReminderPollInterval
			engine.mu.Unlock()
			return err
		}
		stale = engine.scheduler
		engine.scheduler = scheduler
		scheduler.Start()
	}
	engine.mu.Unlock()

	if stale != nil {
		<-stale.Stop().Done()
	}
	engine.log.Info("engine config updated",
		logx.Duration("reminder_poll", config.ReminderPollInterval),
		logx.Duration("reminder_window", config.ReminderWindow),
		logx.Duration("notification_timeout", config.NotificationTimeout),
	)
	return nil
}

func (engine *Engine) newSchedulerLocked() (*cron.Cron, error) {
	scheduler := cron.New(cron.WithLocation(time.Local))
	spec := fmt.Sprintf("@every %s", engine.config.ReminderPollInterval)
	if _, err := scheduler.AddFunc(spec, engine.pollReminders); err != nil {
		return nil, fmt.Errorf("schedule reminder evaluation: %w", err)
	}
	return scheduler, nil
}

// Stop releases every periodic source and closes observers.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	if !engine.running {
		engine.mu.Unlock()
		return
	}
	engine.running = false
	ticker := engine.ticker
	scheduler := engine.scheduler
	loopDone := engine.loopDone
	engine.ticker = nil
	engine.scheduler = nil
	engine.mu.Unlock()

	<-scheduler.Stop().Done()
	ticker.Stop()
	<-loopDone
	engine.dispatcher.Stop()

	engine.subsMu.Lock()
	subs := engine.subs
	engine.subs = nil
	engine.subsMu.Unlock()
	for _, ch := range subs {
		close(ch)
	}
	engine.log.Info("engine stopped")
}

func (engine *Engine) run(ticks <-chan time.Time, done chan struct{}) {
	defer close(done)
	for now := range ticks {
		engine.Tick(now)
	}
}

func (engine *Engine) pollReminders() {
	engine.EvaluateReminders(engine.clock.Now())
}

// Tick advances both countdown registries by one step and refreshes the clock.
func (engine *Engine) Tick(now time.Time) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.lastTick = now

	engine.emit(Event{Type: EventClock, At: now})
	engine.tickRegistryLocked(engine.timers, now)
	engine.tickRegistryLocked(engine.stopwatches, now)
}

func (engine *Engine) tickRegistryLocked(registry *countdown.Registry, now time.Time) {
	if registry.Len() == 0 {
		return
	}
	expired := registry.Tick()
	engine.emit(Event{Type: EventCountdownChanged, Kind: registry.Kind(), At: now})
	for _, notification := range expired {
		engine.log.Info("countdown expired",
			logx.String("kind", string(notification.Kind)),
			logx.String("message", notification.Message),
		)
		engine.dispatcher.Publish(notification)
	}
}

// EvaluateReminders fires due reminders and discards missed ones.
func (engine *Engine) EvaluateReminders(now time.Time) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	result := engine.reminders.Evaluate(now)
	if len(result.Fired) == 0 && len(result.Missed) == 0 {
		return
	}
	for _, missed := range result.Missed {
		engine.log.Warn("reminder window missed; discarded",
			logx.String("text", missed.Text),
			logx.Time("fire_at", missed.FireAt),
			logx.Duration("window", engine.reminders.Window()),
		)
		engine.emit(Event{
			Type:    EventMissedReminder,
			Kind:    model.KindReminder,
			Message: missed.Text,
			At:      now,
		})
	}
	engine.emit(Event{Type: EventRemindersChanged, Kind: model.KindReminder, At: now})
	for _, notification := range result.Fired {
		engine.log.Info("reminder fired", logx.String("message", notification.Message))
		engine.dispatcher.Publish(notification)
	}
}

func (engine *Engine) handleDispatcherChange(change notify.Change) {
	if change.State == notify.StateShowing {
		engine.emit(Event{
			Type:         EventNotification,
			Kind:         change.Notification.Kind,
			Notification: change.Notification,
			Message:      change.Notification.Message,
			At:           change.Notification.At,
		})
		return
	}
	engine.emit(Event{Type: EventNotificationCleared, Message: change.Reason, At: engine.clock.Now()})
}

// serialClock runs AfterFunc callbacks under the engine lock.
type serialClock struct {
	clock.Clock
	mu *sync.Mutex
}

func (serial serialClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	return serial.Clock.AfterFunc(d, func() {
		serial.mu.Lock()
		defer serial.mu.Unlock()
		f()
	})
}

func (engine *Engine) registry(kind model.Kind) (*countdown.Registry, bool) {
	switch kind {
	case model.KindTimer:
		return engine.timers, true
	case model.KindStopwatch:
		return engine.stopwatches, true
	default:
		return nil, false
	}
}

func (engine *Engine) emit(event Event) {
	engine.subsMu.Lock()
	defer engine.subsMu.Unlock()
	for _, ch := range engine.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
