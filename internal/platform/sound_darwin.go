package platform

import (
	"context"
	"fmt"
	"os/exec"
)

type afplayPlayer struct{}

func newSoundPlayer() SoundPlayer {
	return afplayPlayer{}
}

func (afplayPlayer) Play(ctx context.Context, file string) error {
	if err := exec.CommandContext(ctx, "afplay", file).Run(); err != nil {
		return fmt.Errorf("afplay: %w", err)
	}
	return nil
}
