package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabletdash/internal/core/clock"
	"tabletdash/internal/core/model"
	"tabletdash/internal/core/notify"
)

type alertLog struct {
	mu    sync.Mutex
	kinds []model.Kind
}

func (log *alertLog) Alert(kind model.Kind) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.kinds = append(log.kinds, kind)
}

func (log *alertLog) Kinds() []model.Kind {
	log.mu.Lock()
	defer log.mu.Unlock()
	return append([]model.Kind(nil), log.kinds...)
}

func newTestEngine(start time.Time) (*Engine, *clock.Manual, *alertLog) {
	manual := clock.NewManual(start)
	alerts := &alertLog{}
	engine := New(model.DefaultEngineConfig(), Options{Clock: manual, Alerter: alerts})
	return engine, manual, alerts
}

// step advances the manual clock by one second and ticks the engine.
func step(engine *Engine, manual *clock.Manual) {
	manual.Advance(time.Second)
	engine.Tick(manual.Now())
}

func drain(ch <-chan Event) []Event {
	var events []Event
	for {
		select {
		case event := <-ch:
			events = append(events, event)
		default:
			return events
		}
	}
}

func TestTimerExpiresThroughDispatcher(t *testing.T) {
	engine, manual, alerts := newTestEngine(time.Date(2026, 2, 1, 10, 0, 0, 0, time.Local))
	events := engine.Subscribe(256)

	entry, ok := engine.AddCountdown(model.KindTimer, "1")
	require.True(t, ok)
	assert.Equal(t, 60, entry.TotalSeconds)

	for i := 0; i < 59; i++ {
		step(engine, manual)
	}
	require.Len(t, engine.Timers(), 1)
	assert.Equal(t, 1, engine.Timers()[0].RemainingSeconds)

	step(engine, manual)
	assert.Empty(t, engine.Timers())

	notification, showing := engine.Notification()
	require.True(t, showing)
	assert.Equal(t, model.KindTimer, notification.Kind)
	assert.Equal(t, "Timer completed! (1 min)", notification.Message)
	assert.Equal(t, []model.Kind{model.KindTimer}, alerts.Kinds())

	var notified int
	for _, event := range drain(events) {
		if event.Type == EventNotification {
			notified++
		}
	}
	assert.Equal(t, 1, notified)

	manual.Advance(5 * time.Second)
	_, showing = engine.Notification()
	assert.False(t, showing)
}

func TestTimersAndStopwatchesAreIndependent(t *testing.T) {
	engine, manual, _ := newTestEngine(time.Date(2026, 2, 1, 10, 0, 0, 0, time.Local))

	timer, ok := engine.AddCountdownMinutes(model.KindTimer, 2)
	require.True(t, ok)
	_, ok = engine.AddCountdownMinutes(model.KindStopwatch, 1)
	require.True(t, ok)

	step(engine, manual)
	assert.Equal(t, 119, engine.Timers()[0].RemainingSeconds)
	assert.Equal(t, 59, engine.Stopwatches()[0].RemainingSeconds)

	engine.RemoveCountdown(model.KindStopwatch, timer.ID)
	assert.Len(t, engine.Stopwatches(), 1)
	assert.Len(t, engine.Timers(), 1)

	engine.RemoveCountdown(model.KindTimer, timer.ID)
	assert.Empty(t, engine.Timers())
}

func TestInvalidCommandsAreRefused(t *testing.T) {
	engine, _, _ := newTestEngine(time.Date(2026, 2, 1, 10, 0, 0, 0, time.Local))
	events := engine.Subscribe(16)

	for _, raw := range []string{"", "0", "-5", "abc"} {
		_, ok := engine.AddCountdown(model.KindTimer, raw)
		assert.False(t, ok, raw)
	}
	_, ok := engine.AddCountdownMinutes(model.KindReminder, 5)
	assert.False(t, ok)
	_, ok = engine.AddReminder("", "10:00")
	assert.False(t, ok)
	_, ok = engine.AddReminder("tea", "")
	assert.False(t, ok)

	engine.RemoveCountdown(model.KindTimer, "missing")
	engine.RemoveReminder("missing")
	engine.DismissNotification()

	snapshot := engine.Snapshot()
	assert.Empty(t, snapshot.Timers)
	assert.Empty(t, snapshot.Reminders)
	assert.False(t, snapshot.HasNotification)
	assert.Empty(t, drain(events))
}

func TestReminderFiresOnceWithinWindow(t *testing.T) {
	engine, manual, alerts := newTestEngine(time.Date(2026, 2, 1, 23, 0, 0, 0, time.Local))

	entry, ok := engine.AddReminder("Lock the door", "23:59")
	require.True(t, ok)
	assert.Equal(t, "23:59", entry.DisplayTime)

	manual.Set(time.Date(2026, 2, 1, 23, 59, 30, 0, time.Local))
	engine.EvaluateReminders(manual.Now())

	notification, showing := engine.Notification()
	require.True(t, showing)
	assert.Equal(t, "Reminder: Lock the door", notification.Message)
	assert.Empty(t, engine.Reminders())

	engine.EvaluateReminders(manual.Now().Add(10 * time.Second))
	assert.Equal(t, []model.Kind{model.KindReminder}, alerts.Kinds())
}

func TestMissedReminderIsDiscarded(t *testing.T) {
	engine, manual, alerts := newTestEngine(time.Date(2026, 2, 1, 23, 0, 0, 0, time.Local))
	events := engine.Subscribe(16)

	_, ok := engine.AddReminder("Late", "23:59")
	require.True(t, ok)
	drain(events)

	manual.Set(time.Date(2026, 2, 2, 0, 1, 0, 0, time.Local))
	engine.EvaluateReminders(manual.Now())

	assert.Empty(t, engine.Reminders())
	assert.Empty(t, alerts.Kinds())
	_, showing := engine.Notification()
	assert.False(t, showing)

	var missed []Event
	for _, event := range drain(events) {
		if event.Type == EventMissedReminder {
			missed = append(missed, event)
		}
	}
	require.Len(t, missed, 1)
	assert.Equal(t, "Late", missed[0].Message)
}

func TestSecondNotificationReplacesFirst(t *testing.T) {
	engine, manual, _ := newTestEngine(time.Date(2026, 2, 1, 9, 0, 0, 0, time.Local))

	engine.timers.Create(1)
	engine.stopwatches.Create(1)
	for i := 0; i < 60; i++ {
		step(engine, manual)
	}

	notification, showing := engine.Notification()
	require.True(t, showing)
	assert.Equal(t, model.KindStopwatch, notification.Kind)

	engine.DismissNotification()
	_, showing = engine.Notification()
	assert.False(t, showing)
	assert.Equal(t, notify.StateIdle, engine.dispatcher.State())
}

func TestConfigIsNormalized(t *testing.T) {
	engine := New(model.EngineConfig{ReminderPollInterval: 90 * time.Second}, Options{})
	config := engine.Config()
	assert.Equal(t, time.Second, config.TickInterval)
	assert.Equal(t, 3*time.Minute, config.ReminderWindow)
	assert.Equal(t, 5*time.Second, config.NotificationTimeout)
}

func TestStartStopReleasesSources(t *testing.T) {
	config := model.EngineConfig{
		TickInterval:         10 * time.Millisecond,
		ReminderPollInterval: time.Second,
		ReminderWindow:       time.Minute,
		NotificationTimeout:  time.Second,
	}
	engine := New(config, Options{})
	events := engine.Subscribe(64)

	require.NoError(t, engine.Start())
	require.NoError(t, engine.Start())

	deadline := time.After(2 * time.Second)
	for gotClock := false; !gotClock; {
		select {
		case event := <-events:
			gotClock = event.Type == EventClock
		case <-deadline:
			t.Fatal("no clock event")
		}
	}

	engine.Stop()
	engine.Stop()
	for range events {
	}
	_, open := <-events
	assert.False(t, open)
}

func TestUpdateConfigAppliesCadences(t *testing.T) {
	engine, manual, _ := newTestEngine(time.Date(2026, 2, 1, 23, 0, 0, 0, time.Local))

	require.NoError(t, engine.UpdateConfig(model.EngineConfig{
		ReminderPollInterval: time.Minute,
		ReminderWindow:       5 * time.Minute,
		NotificationTimeout:  10 * time.Second,
	}))
	config := engine.Config()
	assert.Equal(t, time.Minute, config.ReminderPollInterval)
	assert.Equal(t, 5*time.Minute, engine.reminders.Window())

	_, ok := engine.AddReminder("Wider window", "23:10")
	require.True(t, ok)
	manual.Set(time.Date(2026, 2, 1, 23, 13, 0, 0, time.Local))
	engine.EvaluateReminders(manual.Now())
	_, showing := engine.Notification()
	require.True(t, showing)

	manual.Advance(9 * time.Second)
	_, showing = engine.Notification()
	assert.True(t, showing)
	manual.Advance(time.Second)
	_, showing = engine.Notification()
	assert.False(t, showing)
}

func TestUpdateConfigWhileRunning(t *testing.T) {
	engine := New(model.EngineConfig{TickInterval: 10 * time.Millisecond}, Options{})
	require.NoError(t, engine.Start())
	t.Cleanup(engine.Stop)

	require.NoError(t, engine.UpdateConfig(model.EngineConfig{
		TickInterval:         time.Hour,
		ReminderPollInterval: 2 * time.Second,
	}))
	config := engine.Config()
	assert.Equal(t, 10*time.Millisecond, config.TickInterval)
	assert.Equal(t, 2*time.Second, config.ReminderPollInterval)
	assert.Equal(t, 4*time.Second, config.ReminderWindow)
}

func TestScheduledPollFiresReminder(t *testing.T) {
	alerts := &alertLog{}
	engine := New(model.EngineConfig{
		ReminderPollInterval: time.Second,
		ReminderWindow:       2 * time.Minute,
		NotificationTimeout:  time.Minute,
	}, Options{Alerter: alerts})
	events := engine.Subscribe(256)

	require.NoError(t, engine.Start())
	t.Cleanup(engine.Stop)

	_, ok := engine.AddReminder("Stand up", time.Now().Format("15:04"))
	require.True(t, ok)

	deadline := time.After(5 * time.Second)
	for fired := false; !fired; {
		select {
		case event := <-events:
			fired = event.Type == EventNotification && event.Kind == model.KindReminder
			if fired {
				assert.Equal(t, "Reminder: Stand up", event.Notification.Message)
			}
		case <-deadline:
			t.Fatal("reminder not fired by the schedule")
		}
	}

	assert.Empty(t, engine.Reminders())
	current, showing := engine.Notification()
	require.True(t, showing)
	assert.Equal(t, model.KindReminder, current.Kind)
	assert.Equal(t, []model.Kind{model.KindReminder}, alerts.Kinds())
}

func TestNotificationTimeoutWaitsForEngineLock(t *testing.T) {
	engine, manual, _ := newTestEngine(time.Date(2026, 2, 1, 9, 0, 0, 0, time.Local))
	engine.timers.Create(1)
	for i := 0; i < 60; i++ {
		step(engine, manual)
	}
	require.Equal(t, notify.StateShowing, engine.dispatcher.State())

	engine.mu.Lock()
	done := make(chan struct{})
	go func() {
		defer close(done)
		manual.Advance(5 * time.Second)
	}()

	select {
	case <-done:
		engine.mu.Unlock()
		t.Fatal("timeout ran while the engine lock was held")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, notify.StateShowing, engine.dispatcher.State())
	engine.mu.Unlock()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout never ran")
	}
	assert.Equal(t, notify.StateIdle, engine.dispatcher.State())
}
