//go:build !linux && !darwin && !windows

package platform

import "context"

type unsupportedPlayer struct{}

func newSoundPlayer() SoundPlayer {
	return unsupportedPlayer{}
}

func (unsupportedPlayer) Play(context.Context, string) error {
	return ErrAudioUnsupported
}
