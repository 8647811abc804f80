package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualAdvanceFiresDueCallbacksInOrder(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	manual := NewManual(start)

	var fired []string
	manual.AfterFunc(3*time.Second, func() { fired = append(fired, "late") })
	manual.AfterFunc(time.Second, func() { fired = append(fired, "early") })
	manual.AfterFunc(10*time.Second, func() { fired = append(fired, "never") })

	manual.Advance(5 * time.Second)

	assert.Equal(t, []string{"early", "late"}, fired)
	assert.Equal(t, start.Add(5*time.Second), manual.Now())
	assert.Equal(t, 1, manual.Pending())
}

func TestManualStopCancelsCallback(t *testing.T) {
	manual := NewManual(time.Unix(0, 0))
	called := false
	timer := manual.AfterFunc(time.Second, func() { called = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	manual.Advance(2 * time.Second)
	assert.False(t, called)
}

func TestManualCallbackCanReschedule(t *testing.T) {
	manual := NewManual(time.Unix(0, 0))
	count := 0
	var schedule func()
	schedule = func() {
		count++
		if count < 3 {
			manual.AfterFunc(time.Second, schedule)
		}
	}
	manual.AfterFunc(time.Second, schedule)

	manual.Advance(10 * time.Second)
	assert.Equal(t, 3, count)
}

func TestTickerPublishesUntilStopped(t *testing.T) {
	ticker := NewTicker(SystemClock, 10*time.Millisecond)
	ch := ticker.Subscribe(4)
	ticker.Start()
	ticker.Start()

	select {
	case now := <-ch:
		assert.False(t, now.IsZero())
	case <-time.After(time.Second):
		t.Fatal("no tick received")
	}

	ticker.Stop()
	ticker.Stop()
	for range ch {
	}
	_, open := <-ch
	require.False(t, open)
}

func TestNewTickerDefaultsInterval(t *testing.T) {
	ticker := NewTicker(nil, 0)
	assert.Equal(t, time.Second, ticker.Interval())
}
