//go:build linux

package platform

import (
	"context"
	"fmt"
	"os/exec"
)

type commandPlayer struct {
	path string
	args []string
}

type unsupportedPlayer struct{}

func newSoundPlayer() SoundPlayer {
	for _, candidate := range []struct {
		name string
		args []string
	}{
		{name: "pw-play"},
		{name: "paplay"},
		{name: "aplay", args: []string{"-q"}},
	} {
		if path, err := exec.LookPath(candidate.name); err == nil {
			return &commandPlayer{path: path, args: candidate.args}
		}
	}
	return unsupportedPlayer{}
}

func (player *commandPlayer) Play(ctx context.Context, file string) error {
	args := append(append([]string(nil), player.args...), file)
	if err := exec.CommandContext(ctx, player.path, args...).Run(); err != nil {
		return fmt.Errorf("%s: %w", player.path, err)
	}
	return nil
}

func (unsupportedPlayer) Play(context.Context, string) error {
	return ErrAudioUnsupported
}
