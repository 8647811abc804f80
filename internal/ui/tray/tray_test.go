package tray

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabletdash/internal/core/countdown"
	"tabletdash/internal/core/engine"
	"tabletdash/internal/core/model"
	"tabletdash/internal/core/reminder"
)

type fakeTray struct {
	menus []*fyne.Menu
	icons []fyne.Resource
}

func (tray *fakeTray) SetSystemTrayMenu(menu *fyne.Menu) {
	tray.menus = append(tray.menus, menu)
}

func (tray *fakeTray) SetSystemTrayIcon(icon fyne.Resource) {
	tray.icons = append(tray.icons, icon)
}

func (tray *fakeTray) SetSystemTrayWindow(fyne.Window) {}

func (tray *fakeTray) lastMenu() *fyne.Menu {
	return tray.menus[len(tray.menus)-1]
}

func TestSummary(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		snapshot engine.Snapshot
		want     string
	}{
		{name: "idle", want: "idle"},
		{
			name: "mixed",
			snapshot: engine.Snapshot{
				Timers:      []countdown.Entry{{RemainingSeconds: 300}, {RemainingSeconds: 61}},
				Stopwatches: []countdown.Entry{{RemainingSeconds: 90}},
				Reminders:   []reminder.Entry{{Text: "a"}},
			},
			want: "2 timers, 1 stopwatch, 1 reminder (next 1:01)",
		},
		{
			name: "stopwatches only",
			snapshot: engine.Snapshot{
				Stopwatches: []countdown.Entry{{RemainingSeconds: 5}, {RemainingSeconds: 9}},
			},
			want: "2 stopwatches (next 0:05)",
		},
		{
			name:     "reminders have no countdown",
			snapshot: engine.Snapshot{Reminders: []reminder.Entry{{}, {}}},
			want:     "2 reminders",
		},
		{
			name: "notification wins",
			snapshot: engine.Snapshot{
				Timers:          []countdown.Entry{{RemainingSeconds: 10}},
				Notification:    model.Notification{Message: "Reminder: tea"},
				HasNotification: true,
			},
			want: "Reminder: tea",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Summary(tt.snapshot))
		})
	}
}

func TestManagerTracksNotification(t *testing.T) {
	tray := &fakeTray{}
	active := fyne.NewStaticResource("active.svg", []byte("<svg/>"))
	alert := fyne.NewStaticResource("alert.svg", []byte("<svg></svg>"))

	dismissed := 0
	manager := New(tray, active, alert, Callbacks{OnDismiss: func() { dismissed++ }})
	require.Len(t, tray.icons, 1)
	assert.True(t, manager.dismissItem.Disabled)

	manager.SetStatus(engine.Snapshot{
		Notification:    model.Notification{Message: "Timer completed! (1 min)"},
		HasNotification: true,
	})
	assert.Equal(t, "Status: Timer completed! (1 min)", manager.Status())
	assert.False(t, manager.dismissItem.Disabled)
	assert.Same(t, alert, tray.icons[len(tray.icons)-1])

	var dismissItem *fyne.MenuItem
	for _, item := range tray.lastMenu().Items {
		if item.Label == "Dismiss notification" {
			dismissItem = item
		}
	}
	require.NotNil(t, dismissItem)
	dismissItem.Action()
	assert.Equal(t, 1, dismissed)

	menus := len(tray.menus)
	manager.SetStatus(engine.Snapshot{})
	assert.Equal(t, "Status: idle", manager.Status())
	assert.Same(t, active, tray.icons[len(tray.icons)-1])
	manager.SetStatus(engine.Snapshot{})
	assert.Equal(t, menus+1, len(tray.menus))
}
