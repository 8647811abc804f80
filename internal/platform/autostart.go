package platform

import (
	"errors"
	"fmt"
	"os"
)

// ErrEmptyLaunchCommand indicates an autostart entry without an executable.
var ErrEmptyLaunchCommand = errors.New("launch command is empty")

// LaunchCommand is the program and arguments started at login.
type LaunchCommand struct {
	Path string
	Args []string
}

// Autostarter registers the dashboard to start at login.
type Autostarter interface {
	ConfigDir() (string, error)
	EnableAutostart(appName string, command LaunchCommand) error
	DisableAutostart(appName string) error
}

type platformService struct{}

// NewAutostarter returns a platform-specific implementation.
func NewAutostarter() Autostarter {
	return &platformService{}
}

// ConfigDir returns the OS-standard configuration directory.
func (service *platformService) ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

func validateAutostart(appName string, command LaunchCommand) error {
	if appName == "" {
		return fmt.Errorf("app name is empty")
	}
	if command.Path == "" {
		return ErrEmptyLaunchCommand
	}
	return nil
}

// SyncAutostart enables or disables the login entry to match enabled.
func SyncAutostart(starter Autostarter, appName string, command LaunchCommand, enabled bool) error {
	if enabled {
		return starter.EnableAutostart(appName, command)
	}
	return starter.DisableAutostart(appName)
}
