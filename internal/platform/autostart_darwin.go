//go:build darwin

package platform

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (service *platformService) EnableAutostart(appName string, command LaunchCommand) error {
	if err := validateAutostart(appName, command); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("enable autostart: get home dir: %w", err)
	}

	launchAgentsDir := filepath.Join(homeDir, "Library", "LaunchAgents")
	if err := os.MkdirAll(launchAgentsDir, 0o755); err != nil {
		return fmt.Errorf("enable autostart: create LaunchAgents dir: %w", err)
	}

	label := launchAgentLabel(appName)
	plistPath := filepath.Join(launchAgentsDir, label+".plist")
	if err := os.WriteFile(plistPath, []byte(buildLaunchAgentPlist(label, command)), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write plist: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("disable autostart: get home dir: %w", err)
	}

	plistPath := filepath.Join(homeDir, "Library", "LaunchAgents", launchAgentLabel(appName)+".plist")
	if err := os.Remove(plistPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable autostart: remove plist: %w", err)
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "Library", "Application Support")
}

func launchAgentLabel(appName string) string {
	name := strings.ToLower(strings.TrimSpace(appName))
	if name == "" {
		name = "tabletdash"
	}
	return "com.tabletdash." + strings.ReplaceAll(name, " ", "-")
}

// buildLaunchAgentPlist renders a LaunchAgent that starts the dashboard at
// login as an interactive process.
func buildLaunchAgentPlist(label string, command LaunchCommand) string {
	var plist strings.Builder
	plist.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
`)
	fmt.Fprintf(&plist, "\t<key>Label</key>\n\t<string>%s</string>\n", plistString(label))
	plist.WriteString("\t<key>ProgramArguments</key>\n\t<array>\n")
	for _, arg := range append([]string{command.Path}, command.Args...) {
		fmt.Fprintf(&plist, "\t\t<string>%s</string>\n", plistString(arg))
	}
	plist.WriteString("\t</array>\n")
	plist.WriteString("\t<key>ProcessType</key>\n\t<string>Interactive</string>\n")
	plist.WriteString("\t<key>RunAtLoad</key>\n\t<true/>\n</dict>\n</plist>\n")
	return plist.String()
}

func plistString(value string) string {
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(value))
	return escaped.String()
}
