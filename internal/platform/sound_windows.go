//go:build windows

package platform

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type powershellPlayer struct{}

func newSoundPlayer() SoundPlayer {
	return powershellPlayer{}
}

func (powershellPlayer) Play(ctx context.Context, file string) error {
	script := fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", strings.ReplaceAll(file, "'", "''"))
	if err := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script).Run(); err != nil {
		return fmt.Errorf("powershell sound player: %w", err)
	}
	return nil
}
