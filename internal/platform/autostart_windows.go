//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (service *platformService) EnableAutostart(appName string, command LaunchCommand) error {
	if err := validateAutostart(appName, command); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}

	parts := []string{quoteWindowsArg(command.Path)}
	for _, arg := range command.Args {
		parts = append(parts, quoteWindowsArg(arg))
	}
	reg := exec.Command("reg", "add", registryRunKey, "/v", appName, "/t", "REG_SZ", "/d", strings.Join(parts, " "), "/f")
	output, err := reg.CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable autostart: reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}

	reg := exec.Command("reg", "delete", registryRunKey, "/v", appName, "/f")
	output, err := reg.CombinedOutput()
	if err != nil {
		return fmt.Errorf("disable autostart: reg delete failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func quoteWindowsArg(arg string) string {
	trimmed := strings.Trim(arg, `"`)
	if !strings.ContainsAny(trimmed, " \t") && trimmed == arg {
		return arg
	}
	return fmt.Sprintf(`"%s"`, trimmed)
}
