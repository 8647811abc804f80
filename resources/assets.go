package resources

import (
	"embed"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"tabletdash/internal/core/model"
)

const (
	iconDir = "icons/"
	logoDir = "logo/"
)

//go:embed icons/*.svg
var iconFS embed.FS

//go:embed logo/*.svg
var logoFS embed.FS

var iconCache sync.Map
var logoCache sync.Map

// Icon returns a theme-tinted resource for the given icon file.
func Icon(fileName string) (fyne.Resource, error) {
	resource, err := loadResource(iconFS, iconDir+fileName, &iconCache)
	if err != nil {
		return nil, err
	}
	return theme.NewThemedResource(resource), nil
}

// MustIcon returns a Fyne resource or panics on error.
func MustIcon(fileName string) fyne.Resource {
	resource, err := Icon(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

// KindIcon returns the icon shown on a notification of kind.
func KindIcon(kind model.Kind) fyne.Resource {
	switch kind {
	case model.KindTimer:
		return MustIcon("timer.svg")
	case model.KindStopwatch:
		return MustIcon("stopwatch.svg")
	case model.KindReminder:
		return MustIcon("reminder.svg")
	default:
		return theme.InfoIcon()
	}
}

// WeatherIcon returns the icon for a condition text such as "Partly Cloudy".
func WeatherIcon(condition string) fyne.Resource {
	switch condition {
	case "Clear":
		return MustIcon("weather-clear.svg")
	case "Partly Cloudy":
		return MustIcon("weather-partly.svg")
	case "Rainy":
		return MustIcon("weather-rain.svg")
	case "Snowy":
		return MustIcon("weather-snow.svg")
	default:
		return MustIcon("weather-cloudy.svg")
	}
}

// Logo returns a Fyne resource for the given logo file.
func Logo(fileName string) (fyne.Resource, error) {
	return loadResource(logoFS, logoDir+fileName, &logoCache)
}

// MustLogo returns a Fyne resource or panics on error.
func MustLogo(fileName string) fyne.Resource {
	resource, err := Logo(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

// AppIcon is the window and tray icon.
func AppIcon() fyne.Resource {
	return MustLogo("tabletdash.svg")
}

// AlertIcon is the tray icon while a notification is showing.
func AlertIcon() fyne.Resource {
	return MustLogo("tabletdash-alert.svg")
}

func loadResource(fs embed.FS, path string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(path, data)
	cache.Store(path, resource)
	return resource, nil
}
