//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (service *platformService) EnableAutostart(appName string, command LaunchCommand) error {
	if err := validateAutostart(appName, command); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}

	configDir, err := service.ConfigDir()
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}

	autostartDir := filepath.Join(configDir, "autostart")
	if err := os.MkdirAll(autostartDir, 0o755); err != nil {
		return fmt.Errorf("enable autostart: create autostart dir: %w", err)
	}

	entryPath := filepath.Join(autostartDir, desktopFileName(appName))
	if err := os.WriteFile(entryPath, []byte(buildDesktopEntry(appName, command)), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write desktop entry: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}

	configDir, err := service.ConfigDir()
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}

	entryPath := filepath.Join(configDir, "autostart", desktopFileName(appName))
	if err := os.Remove(entryPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable autostart: remove desktop entry: %w", err)
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func desktopFileName(appName string) string {
	name := strings.ToLower(strings.TrimSpace(appName))
	if name == "" {
		name = "tabletdash"
	}
	return strings.ReplaceAll(name, " ", "-") + ".desktop"
}

// desktopExecQuote quotes one Exec= argument per the desktop entry spec.
func desktopExecQuote(arg string) string {
	if !strings.ContainsAny(arg, " \t\"'\\$`") {
		return arg
	}
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", "$", `\$`)
	return `"` + replacer.Replace(arg) + `"`
}

func buildDesktopEntry(appName string, command LaunchCommand) string {
	parts := []string{desktopExecQuote(command.Path)}
	for _, arg := range command.Args {
		parts = append(parts, desktopExecQuote(arg))
	}

	return fmt.Sprintf(
		`[Desktop Entry]
Type=Application
Name=%s
Comment=Clock, weather, timers and reminders
Exec=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`,
		appName,
		strings.Join(parts, " "),
	)
}
