package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tabletdash/internal/logx"
	"tabletdash/internal/ui/preferences"
)

const (
	reloadDebounce     = 250 * time.Millisecond
	restartBackoffBase = 250 * time.Millisecond
	restartBackoffMax  = 5 * time.Second
)

// Watch reloads the settings file when it changes on disk and calls
// onChange with the new settings. Writes made through Save are not
// reported. Watch blocks until ctx ends.
func (store *Store) Watch(ctx context.Context, log logx.Logger, onChange func(preferences.Settings)) error {
	if log.IsZero() {
		log = logx.Nop()
	}
	log = log.With(logx.String("component", "settings"), logx.String("path", store.path))
	dir := filepath.Dir(store.path)
	file := filepath.Base(store.path)

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	debounce := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(reloadDebounce, func() {
			if ctx.Err() != nil {
				return
			}
			settings, err := store.parse()
			if err != nil {
				log.Warn("settings reload failed", logx.Err(err))
				return
			}
			if !store.remember(settings) {
				log.Debug("settings unchanged; skipping reload")
				return
			}
			log.Info("settings reloaded")
			if onChange != nil {
				onChange(settings)
			}
		})
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	backoff := restartBackoffBase
	nextBackoff := func() time.Duration {
		wait := backoff
		backoff *= 2
		if backoff > restartBackoffMax {
			backoff = restartBackoffMax
		}
		return wait
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		watcher, err := startWatcher(dir)
		if err != nil {
			log.Warn("settings watch init failed", logx.Err(err))
			if !sleep(ctx, nextBackoff()) {
				return nil
			}
			continue
		}
		backoff = restartBackoffBase
		log.Debug("settings watcher started")

		broken := false
		for !broken {
			select {
			case <-ctx.Done():
				_ = watcher.Close()
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					broken = true
					break
				}
				if strings.EqualFold(filepath.Base(event.Name), file) &&
					event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					debounce()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					broken = true
					break
				}
				if errors.Is(err, fsnotify.ErrEventOverflow) {
					log.Warn("settings watch overflow; forcing reload", logx.Err(err))
					debounce()
					continue
				}
				log.Warn("settings watch error", logx.Err(err))
			}
		}

		_ = watcher.Close()
		wait := nextBackoff()
		log.Warn("settings watcher stopped; restarting", logx.Duration("backoff", wait))
		if !sleep(ctx, wait) {
			return nil
		}
	}
}

func startWatcher(dir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

func sleep(ctx context.Context, wait time.Duration) bool {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
