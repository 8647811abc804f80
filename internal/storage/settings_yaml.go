package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"tabletdash/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlLocation struct {
	Name      string   `yaml:"name"`
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
	Timezone  string   `yaml:"timezone,omitempty"`
}

type yamlSettings struct {
	Theme                      string       `yaml:"theme"`
	DarkMode                   bool         `yaml:"dark_mode"`
	Location                   yamlLocation `yaml:"location"`
	WeatherIntervalMinutes     int          `yaml:"weather_interval_minutes"`
	ReminderPollSeconds        int          `yaml:"reminder_poll_seconds"`
	ReminderWindowSeconds      int          `yaml:"reminder_window_seconds"`
	NotificationTimeoutSeconds int          `yaml:"notification_timeout_seconds"`
	Sound                      *bool        `yaml:"sound"`
	Fullscreen                 bool         `yaml:"fullscreen"`
	Autostart                  bool         `yaml:"autostart"`
	LogLevel                   string       `yaml:"log_level"`
}

// Store reads and writes settings at a fixed path.
type Store struct {
	path string

	mu   sync.Mutex
	last preferences.Settings
	seen bool
}

// NewStore creates a store for path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the settings file under the user config directory.
func DefaultPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// Path returns the settings file path.
func (store *Store) Path() string {
	return store.path
}

// Load reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func (store *Store) Load() (preferences.Settings, error) {
	settings, err := store.parse()
	if err != nil {
		return settings, err
	}
	store.remember(settings)
	return settings, nil
}

// Save writes user preferences to YAML, replacing the file atomically.
func (store *Store) Save(settings preferences.Settings) error {
	settings = settings.Normalize()
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(toYAML(settings))
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	temp, err := os.CreateTemp(filepath.Dir(store.path), ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	tempPath := temp.Name()
	if _, err := temp.Write(serialized); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tempPath, store.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("replace settings file: %w", err)
	}

	store.remember(settings)
	return nil
}

func (store *Store) parse() (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings.Normalize(), nil
}

// remember records settings and reports whether they differ from the last
// loaded or saved value.
func (store *Store) remember(settings preferences.Settings) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	changed := !store.seen || store.last != settings
	store.last = settings
	store.seen = true
	return changed
}

func toYAML(settings preferences.Settings) yamlSettings {
	latitude := settings.Latitude
	longitude := settings.Longitude
	sound := settings.Sound
	return yamlSettings{
		Theme:    settings.Theme,
		DarkMode: settings.DarkMode,
		Location: yamlLocation{
			Name:      settings.LocationName,
			Latitude:  &latitude,
			Longitude: &longitude,
			Timezone:  settings.Timezone,
		},
		WeatherIntervalMinutes:     int(settings.WeatherInterval / time.Minute),
		ReminderPollSeconds:        int(settings.ReminderPollInterval / time.Second),
		ReminderWindowSeconds:      int(settings.ReminderWindow / time.Second),
		NotificationTimeoutSeconds: int(settings.NotificationTimeout / time.Second),
		Sound:                      &sound,
		Fullscreen:                 settings.Fullscreen,
		Autostart:                  settings.Autostart,
		LogLevel:                   settings.LogLevel,
	}
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.Theme != "" {
		settings.Theme = fileData.Theme
	}
	settings.DarkMode = fileData.DarkMode

	if fileData.Location.Name != "" && fileData.Location.Latitude != nil && fileData.Location.Longitude != nil {
		settings.LocationName = fileData.Location.Name
		settings.Latitude = *fileData.Location.Latitude
		settings.Longitude = *fileData.Location.Longitude
		settings.Timezone = fileData.Location.Timezone
	}

	if fileData.WeatherIntervalMinutes > 0 {
		settings.WeatherInterval = time.Duration(fileData.WeatherIntervalMinutes) * time.Minute
	}
	if fileData.ReminderPollSeconds > 0 {
		settings.ReminderPollInterval = time.Duration(fileData.ReminderPollSeconds) * time.Second
	}
	if fileData.ReminderWindowSeconds > 0 {
		settings.ReminderWindow = time.Duration(fileData.ReminderWindowSeconds) * time.Second
	}
	if fileData.NotificationTimeoutSeconds > 0 {
		settings.NotificationTimeout = time.Duration(fileData.NotificationTimeoutSeconds) * time.Second
	}

	if fileData.Sound != nil {
		settings.Sound = *fileData.Sound
	}
	settings.Fullscreen = fileData.Fullscreen
	settings.Autostart = fileData.Autostart
	if fileData.LogLevel != "" {
		settings.LogLevel = fileData.LogLevel
	}
}
