package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tabletdash/internal/core/model"
	"tabletdash/internal/logx"
)

// ErrAudioUnsupported indicates no audio player is available on this system.
var ErrAudioUnsupported = errors.New("audio playback unsupported")

// SoundPlayer plays a WAV file and returns when playback ends.
type SoundPlayer interface {
	Play(ctx context.Context, path string) error
}

// NewSoundPlayer returns a platform-specific player.
func NewSoundPlayer() SoundPlayer {
	return newSoundPlayer()
}

// ChimeAlerter plays the two-tone chime for every notification.
// The second tone starts AlertToneGap after the first, overlapping it.
type ChimeAlerter struct {
	player SoundPlayer
	log    logx.Logger
	dir    string
	files  [2]string
	gap    time.Duration

	mu       sync.Mutex
	disabled bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewChimeAlerter renders the chime into a temp directory.
func NewChimeAlerter(player SoundPlayer, log logx.Logger) (*ChimeAlerter, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	dir, err := os.MkdirTemp("", "tabletdash-chime-")
	if err != nil {
		return nil, fmt.Errorf("create chime dir: %w", err)
	}
	alerter := &ChimeAlerter{
		player: player,
		log:    log.With(logx.String("component", "chime")),
		dir:    dir,
		gap:    AlertToneGap,
	}
	for i, tone := range AlertTones {
		path := filepath.Join(dir, fmt.Sprintf("tone%d.wav", i+1))
		if err := os.WriteFile(path, RenderWAV(tone), 0o644); err != nil {
			_ = os.RemoveAll(dir)
			return nil, fmt.Errorf("write chime tone: %w", err)
		}
		alerter.files[i] = path
	}
	alerter.ctx, alerter.cancel = context.WithCancel(context.Background())
	return alerter, nil
}

// Alert starts the chime in the background.
func (alerter *ChimeAlerter) Alert(kind model.Kind) {
	alerter.mu.Lock()
	if alerter.disabled || alerter.ctx.Err() != nil {
		alerter.mu.Unlock()
		return
	}
	ctx := alerter.ctx
	alerter.wg.Add(2)
	alerter.mu.Unlock()

	go func() {
		defer alerter.wg.Done()
		alerter.play(ctx, alerter.files[0])
	}()
	go func() {
		defer alerter.wg.Done()
		timer := time.NewTimer(alerter.gap)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		alerter.play(ctx, alerter.files[1])
	}()
	alerter.log.Debug("chime", logx.String("kind", string(kind)))
}

// Close stops any playing tone and removes the rendered files.
func (alerter *ChimeAlerter) Close() error {
	alerter.mu.Lock()
	alerter.cancel()
	alerter.mu.Unlock()
	alerter.wg.Wait()
	return os.RemoveAll(alerter.dir)
}

func (alerter *ChimeAlerter) play(ctx context.Context, path string) {
	err := alerter.player.Play(ctx, path)
	if err == nil || ctx.Err() != nil {
		return
	}
	if errors.Is(err, ErrAudioUnsupported) {
		alerter.mu.Lock()
		alerter.disabled = true
		alerter.mu.Unlock()
		alerter.log.Warn("audio unsupported; chime disabled")
		return
	}
	alerter.log.Warn("chime playback failed", logx.Err(err))
}
