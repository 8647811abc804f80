package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabletdash/internal/logx"
	"tabletdash/internal/ui/preferences"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()
	store := NewStore(filepath.Join(t.TempDir(), "settings.yaml"))
	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSaveThenLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	store := NewStore(path)

	settings := preferences.DefaultSettings()
	settings.Theme = "neon"
	settings.DarkMode = true
	settings.LocationName = "Oslo, Norway"
	settings.Latitude = 59.9139
	settings.Longitude = 10.7522
	settings.Timezone = "Europe/Oslo"
	settings.WeatherInterval = 10 * time.Minute
	settings.Sound = false
	settings.Autostart = true
	require.NoError(t, store.Save(settings))

	loaded, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestLoadClampsInvalidValues(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
theme: plaid
location:
  name: Moon
  latitude: 300
  longitude: 0
weather_interval_minutes: 100000
reminder_poll_seconds: 60
reminder_window_seconds: 10
log_level: chatty
`), 0o644))

	settings, err := NewStore(path).Load()
	require.NoError(t, err)
	defaults := preferences.DefaultSettings()
	assert.Equal(t, defaults.Theme, settings.Theme)
	assert.Equal(t, defaults.LocationName, settings.LocationName)
	assert.Equal(t, defaults.WeatherInterval, settings.WeatherInterval)
	assert.Equal(t, time.Minute, settings.ReminderPollInterval)
	assert.Equal(t, 2*time.Minute, settings.ReminderWindow)
	assert.Equal(t, "info", settings.LogLevel)
	assert.True(t, settings.Sound)
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: [unterminated"), 0o644))

	settings, err := NewStore(path).Load()
	assert.ErrorContains(t, err, "parse settings yaml")
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestDefaultPathUsesConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("AppData", dir)

	path, err := DefaultPath("tabletdash")
	require.NoError(t, err)
	assert.Equal(t, "settings.yaml", filepath.Base(path))
	assert.Equal(t, "tabletdash", filepath.Base(filepath.Dir(path)))
}

func TestWatchReportsExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	store := NewStore(path)
	require.NoError(t, store.Save(preferences.DefaultSettings()))

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan preferences.Settings, 4)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, logx.Nop(), func(settings preferences.Settings) {
			changes <- settings
		})
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	edited := preferences.DefaultSettings()
	edited.Theme = "ocean"
	other := NewStore(path)
	require.NoError(t, other.Save(edited))

	select {
	case settings := <-changes:
		assert.Equal(t, "ocean", settings.Theme)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after edit")
	}

	// Saving through the watched store is not echoed back.
	require.NoError(t, store.Save(edited))
	select {
	case settings := <-changes:
		t.Fatalf("unexpected reload: %+v", settings)
	case <-time.After(600 * time.Millisecond):
	}
}
