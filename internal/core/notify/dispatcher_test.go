package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabletdash/internal/core/clock"
	"tabletdash/internal/core/model"
)

type recorder struct {
	alerts  []model.Kind
	changes []Change
}

func newTestDispatcher() (*Dispatcher, *clock.Manual, *recorder) {
	manual := clock.NewManual(time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local))
	rec := &recorder{}
	dispatcher := NewDispatcher(Options{
		Clock:    manual,
		Timeout:  5 * time.Second,
		Alerter:  AlerterFunc(func(kind model.Kind) { rec.alerts = append(rec.alerts, kind) }),
		OnChange: func(change Change) { rec.changes = append(rec.changes, change) },
	})
	return dispatcher, manual, rec
}

func TestPublishShowsAndAutoDismisses(t *testing.T) {
	dispatcher, manual, rec := newTestDispatcher()
	require.Equal(t, StateIdle, dispatcher.State())

	dispatcher.Publish(model.Notification{Kind: model.KindTimer, Message: "Timer completed! (5 min)"})

	current, ok := dispatcher.Current()
	require.True(t, ok)
	assert.Equal(t, "Timer completed! (5 min)", current.Message)
	assert.Equal(t, manual.Now(), current.At)
	assert.Equal(t, []model.Kind{model.KindTimer}, rec.alerts)

	manual.Advance(4999 * time.Millisecond)
	assert.Equal(t, StateShowing, dispatcher.State())

	manual.Advance(time.Millisecond)
	assert.Equal(t, StateIdle, dispatcher.State())
	_, ok = dispatcher.Current()
	assert.False(t, ok)
	require.Len(t, rec.changes, 2)
	assert.Equal(t, "timeout", rec.changes[1].Reason)
}

func TestSecondPublishReplacesAndResetsTimeout(t *testing.T) {
	dispatcher, manual, rec := newTestDispatcher()

	dispatcher.Publish(model.Notification{Kind: model.KindTimer, Message: "first"})
	manual.Advance(3 * time.Second)
	dispatcher.Publish(model.Notification{Kind: model.KindReminder, Message: "second"})

	manual.Advance(3 * time.Second)
	current, ok := dispatcher.Current()
	require.True(t, ok)
	assert.Equal(t, "second", current.Message)

	manual.Advance(2 * time.Second)
	assert.Equal(t, StateIdle, dispatcher.State())
	assert.Equal(t, []model.Kind{model.KindTimer, model.KindReminder}, rec.alerts)
	assert.Zero(t, manual.Pending())
}

func TestDismissCancelsTimeout(t *testing.T) {
	dispatcher, manual, rec := newTestDispatcher()

	dispatcher.Publish(model.Notification{Kind: model.KindStopwatch, Message: "done"})
	manual.Advance(time.Second)
	dispatcher.Dismiss()

	assert.Equal(t, StateIdle, dispatcher.State())
	assert.Zero(t, manual.Pending())
	require.Len(t, rec.changes, 2)
	assert.Equal(t, "dismiss", rec.changes[1].Reason)

	manual.Advance(10 * time.Second)
	assert.Len(t, rec.changes, 2)
}

func TestDismissWhenIdleIsNoop(t *testing.T) {
	dispatcher, _, rec := newTestDispatcher()
	dispatcher.Dismiss()
	assert.Empty(t, rec.changes)
	assert.Equal(t, StateIdle, dispatcher.State())
}

func TestStaleTimerIsIgnored(t *testing.T) {
	manual := clock.NewManual(time.Unix(0, 0))
	dispatcher := NewDispatcher(Options{Clock: manual, Timeout: time.Second})

	dispatcher.Publish(model.Notification{Message: "one"})
	generation := dispatcher.generation
	dispatcher.Publish(model.Notification{Message: "two"})

	dispatcher.expire(generation)
	current, ok := dispatcher.Current()
	require.True(t, ok)
	assert.Equal(t, "two", current.Message)
}

func TestStopReleasesPendingTimer(t *testing.T) {
	dispatcher, manual, rec := newTestDispatcher()
	dispatcher.Publish(model.Notification{Message: "x"})
	dispatcher.Stop()

	assert.Zero(t, manual.Pending())
	assert.Equal(t, StateIdle, dispatcher.State())
	assert.Len(t, rec.changes, 1)
}
