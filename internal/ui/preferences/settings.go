package preferences

import (
	"strings"
	"time"

	"tabletdash/internal/core/model"
	"tabletdash/internal/ui/theme"
	"tabletdash/internal/weather"
)

// Settings defines editable user preferences.
type Settings struct {
	Theme    string
	DarkMode bool

	LocationName string
	Latitude     float64
	Longitude    float64
	Timezone     string

	WeatherInterval      time.Duration
	ReminderPollInterval time.Duration
	ReminderWindow       time.Duration
	NotificationTimeout  time.Duration

	Sound      bool
	Fullscreen bool
	Autostart  bool
	LogLevel   string
}

// Weather refresh limits.
const (
	MinWeatherInterval = time.Minute
	MaxWeatherInterval = 24 * time.Hour
)

// DefaultSettings returns default settings for the dashboard.
func DefaultSettings() Settings {
	engine := model.DefaultEngineConfig()
	return Settings{
		Theme:                theme.DefaultKey,
		DarkMode:             false,
		LocationName:         weather.DefaultLocation.Name,
		Latitude:             weather.DefaultLocation.Latitude,
		Longitude:            weather.DefaultLocation.Longitude,
		Timezone:             weather.DefaultLocation.Timezone,
		WeatherInterval:      5 * time.Minute,
		ReminderPollInterval: engine.ReminderPollInterval,
		ReminderWindow:       engine.ReminderWindow,
		NotificationTimeout:  engine.NotificationTimeout,
		Sound:                true,
		Fullscreen:           false,
		Autostart:            false,
		LogLevel:             "info",
	}
}

// Normalize replaces out-of-range values with defaults.
func (settings Settings) Normalize() Settings {
	defaults := DefaultSettings()
	if _, ok := theme.Lookup(settings.Theme); !ok {
		settings.Theme = defaults.Theme
	}
	settings.LocationName = strings.TrimSpace(settings.LocationName)
	if settings.LocationName == "" || !validCoordinates(settings.Latitude, settings.Longitude) {
		settings.LocationName = defaults.LocationName
		settings.Latitude = defaults.Latitude
		settings.Longitude = defaults.Longitude
		settings.Timezone = defaults.Timezone
	}
	if settings.Timezone == "" {
		settings.Timezone = "auto"
	}
	if settings.WeatherInterval < MinWeatherInterval || settings.WeatherInterval > MaxWeatherInterval {
		settings.WeatherInterval = defaults.WeatherInterval
	}
	engine := settings.EngineConfig()
	settings.ReminderPollInterval = engine.ReminderPollInterval
	settings.ReminderWindow = engine.ReminderWindow
	settings.NotificationTimeout = engine.NotificationTimeout
	switch strings.ToLower(strings.TrimSpace(settings.LogLevel)) {
	case "debug", "info", "warn", "error":
		settings.LogLevel = strings.ToLower(strings.TrimSpace(settings.LogLevel))
	default:
		settings.LogLevel = defaults.LogLevel
	}
	return settings
}

// EngineConfig converts settings to the engine's cadences.
func (settings Settings) EngineConfig() model.EngineConfig {
	return model.EngineConfig{
		TickInterval:         time.Second,
		ReminderPollInterval: settings.ReminderPollInterval,
		ReminderWindow:       settings.ReminderWindow,
		NotificationTimeout:  settings.NotificationTimeout,
	}.Normalize()
}

// WeatherLocation returns where weather is reported for.
func (settings Settings) WeatherLocation() weather.Location {
	return weather.Location{
		Name:      settings.LocationName,
		Latitude:  settings.Latitude,
		Longitude: settings.Longitude,
		Timezone:  settings.Timezone,
	}
}

// PollerConfig returns the weather refresh cadence.
func (settings Settings) PollerConfig() weather.PollerConfig {
	return weather.PollerConfig{Interval: settings.WeatherInterval}
}

func validCoordinates(latitude, longitude float64) bool {
	return latitude >= -90 && latitude <= 90 && longitude >= -180 && longitude <= 180
}
