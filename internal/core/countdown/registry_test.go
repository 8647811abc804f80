package countdown

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabletdash/internal/core/model"
)

func fixedNow() time.Time {
	return time.Date(2026, 5, 4, 12, 0, 0, 0, time.Local)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	tests := []string{"", "   ", "0", "-5", "abc", "+", "-0",
		"525601", "153722867280912931", "99999999999999999999"}
	for _, raw := range tests {
		raw := raw
		t.Run(raw, func(t *testing.T) {
			t.Parallel()
			registry := NewRegistry(model.KindTimer, fixedNow)
			_, ok := registry.CreateFromInput(raw)
			assert.False(t, ok)
			assert.Zero(t, registry.Len())
		})
	}
}

func TestCreateBounds(t *testing.T) {
	t.Parallel()
	registry := NewRegistry(model.KindTimer, fixedNow)

	_, ok := registry.Create(math.MaxInt)
	assert.False(t, ok)
	_, ok = registry.Create(MaxMinutes + 1)
	assert.False(t, ok)
	assert.Zero(t, registry.Len())

	entry, ok := registry.Create(MaxMinutes)
	require.True(t, ok)
	assert.Equal(t, MaxMinutes*60, entry.TotalSeconds)
	assert.Equal(t, entry.TotalSeconds, entry.RemainingSeconds)
	assert.Empty(t, registry.Tick())
	assert.Equal(t, 1, registry.Len())
}

func TestCreateFromInput(t *testing.T) {
	t.Parallel()
	registry := NewRegistry(model.KindTimer, fixedNow)

	entry, ok := registry.CreateFromInput("5")
	require.True(t, ok)
	assert.Equal(t, 300, entry.TotalSeconds)
	assert.Equal(t, 300, entry.RemainingSeconds)
	assert.Equal(t, 5, entry.Minutes)
	assert.Equal(t, model.KindTimer, entry.Kind)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, 1, registry.Len())
}

func TestParseMinutesLeadingInteger(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{raw: "5", want: 5, ok: true},
		{raw: " 12 ", want: 12, ok: true},
		{raw: "5 min", want: 5, ok: true},
		{raw: "7.9", want: 7, ok: true},
		{raw: "+3", want: 3, ok: true},
		{raw: "x5", ok: false},
		{raw: "-1", ok: false},
	}
	for _, tt := range tests {
		got, ok := ParseMinutes(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.raw)
		}
	}
}

func TestTickDecrementsUntilExpiry(t *testing.T) {
	t.Parallel()
	registry := NewRegistry(model.KindStopwatch, fixedNow)
	_, ok := registry.Create(1)
	require.True(t, ok)

	previous := 60
	for i := 0; i < 59; i++ {
		events := registry.Tick()
		require.Empty(t, events)
		entries := registry.Snapshot()
		require.Len(t, entries, 1)
		remaining := entries[0].RemainingSeconds
		assert.Equal(t, previous-1, remaining)
		assert.GreaterOrEqual(t, remaining, 1)
		previous = remaining
	}

	events := registry.Tick()
	require.Len(t, events, 1)
	assert.Equal(t, model.KindStopwatch, events[0].Kind)
	assert.Equal(t, "Stopwatch completed! (1 min)", events[0].Message)
	assert.Zero(t, registry.Len())

	assert.Empty(t, registry.Tick())
}

func TestTickLastSecondEmitsOnceWithOriginalMinutes(t *testing.T) {
	t.Parallel()
	registry := NewRegistry(model.KindTimer, fixedNow)
	registry.entries = []Entry{{ID: "a", Kind: model.KindTimer, Minutes: 5, TotalSeconds: 300, RemainingSeconds: 1}}

	events := registry.Tick()
	require.Len(t, events, 1)
	assert.Equal(t, "Timer completed! (5 min)", events[0].Message)
	assert.Equal(t, fixedNow(), events[0].At)
	assert.Zero(t, registry.Len())
}

func TestTickDropsEntriesAlreadyAtZero(t *testing.T) {
	t.Parallel()
	registry := NewRegistry(model.KindTimer, fixedNow)
	registry.entries = []Entry{
		{ID: "zero", Minutes: 1, TotalSeconds: 60, RemainingSeconds: 0},
		{ID: "live", Minutes: 1, TotalSeconds: 60, RemainingSeconds: 10},
	}

	events := registry.Tick()
	assert.Empty(t, events)
	entries := registry.Snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, "live", entries[0].ID)
	assert.Equal(t, 9, entries[0].RemainingSeconds)
}

func TestSimultaneousExpiryEmitsInInsertionOrder(t *testing.T) {
	t.Parallel()
	registry := NewRegistry(model.KindTimer, fixedNow)
	registry.entries = []Entry{
		{ID: "first", Minutes: 2, TotalSeconds: 120, RemainingSeconds: 1},
		{ID: "second", Minutes: 3, TotalSeconds: 180, RemainingSeconds: 1},
	}

	events := registry.Tick()
	require.Len(t, events, 2)
	assert.Equal(t, "Timer completed! (2 min)", events[0].Message)
	assert.Equal(t, "Timer completed! (3 min)", events[1].Message)
}

func TestRemove(t *testing.T) {
	t.Parallel()
	registry := NewRegistry(model.KindTimer, fixedNow)
	first, _ := registry.Create(1)
	second, _ := registry.Create(2)

	assert.False(t, registry.Remove("missing"))
	assert.Equal(t, 2, registry.Len())

	assert.True(t, registry.Remove(first.ID))
	entries := registry.Snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, second.ID, entries[0].ID)
}

func TestSnapshotIsNotMutatedByLaterTicks(t *testing.T) {
	t.Parallel()
	registry := NewRegistry(model.KindTimer, fixedNow)
	registry.Create(1)

	before := registry.Snapshot()
	registry.Tick()
	assert.Equal(t, 60, before[0].RemainingSeconds)
	assert.Equal(t, 59, registry.Snapshot()[0].RemainingSeconds)
}

func TestFormatTime(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "5:00", FormatTime(300))
	assert.Equal(t, "1:05", FormatTime(65))
	assert.Equal(t, "0:00", FormatTime(0))
	assert.Equal(t, "0:00", FormatTime(-3))
	assert.Equal(t, "90:00", FormatTime(5400))
}
