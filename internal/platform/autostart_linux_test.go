//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinuxAutostartDesktopEntry(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	starter := NewAutostarter()
	command := LaunchCommand{Path: "/opt/tablet dash/bin", Args: []string{"-fullscreen"}}
	require.NoError(t, starter.EnableAutostart("Tablet Dash", command))

	entryPath := filepath.Join(dir, "autostart", "tablet-dash.desktop")
	content, err := os.ReadFile(entryPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `Exec="/opt/tablet dash/bin" -fullscreen`)
	assert.Contains(t, string(content), "Name=Tablet Dash")

	require.NoError(t, starter.DisableAutostart("Tablet Dash"))
	_, err = os.Stat(entryPath)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, starter.DisableAutostart("Tablet Dash"))
}
