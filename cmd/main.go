package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"sync"
	"sync/atomic"

	"tabletdash/internal/core/engine"
	"tabletdash/internal/core/model"
	"tabletdash/internal/core/notify"
	"tabletdash/internal/logx"
	"tabletdash/internal/platform"
	"tabletdash/internal/storage"
	"tabletdash/internal/ui/dashboard"
	"tabletdash/internal/ui/preferences"
	"tabletdash/internal/ui/tray"
	"tabletdash/internal/weather"
	"tabletdash/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const appName = "tabletdash"

func main() {
	configPath := flag.String("config", "", "settings file (default: user config dir)")
	logLevel := flag.String("log-level", "", "override the configured log level")
	logFile := flag.String("log-file", "", "also write JSON logs to this file")
	fullscreen := flag.Bool("fullscreen", false, "start in kiosk mode")
	flag.Parse()

	logService, log := logx.NewService(logx.Config{Level: "info", Console: true})
	defer func() {
		_ = logService.Close()
	}()

	guard, err := platform.AcquireSingleInstance(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		if err := platform.ActivateRunning(appName); err != nil {
			log.Warn("activate running instance", logx.Err(err))
		}
		return
	}
	if err != nil {
		log.Error("single instance", logx.Err(err))
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	path := *configPath
	if path == "" {
		if path, err = storage.DefaultPath(appName); err != nil {
			log.Error("settings path", logx.Err(err))
			return
		}
	}
	store := storage.NewStore(path)
	settings, err := store.Load()
	if err != nil {
		log.Warn("settings load failed; using defaults", logx.Err(err))
		settings = preferences.DefaultSettings()
	}
	if *fullscreen {
		settings.Fullscreen = true
	}

	logConfig := func(level string) logx.Config {
		if *logLevel != "" {
			level = *logLevel
		}
		return logx.Config{
			Level:   level,
			Console: true,
			File:    logx.FileConfig{Enabled: *logFile != "", Path: *logFile},
		}
	}
	logService.Apply(logConfig(settings.LogLevel))
	log.Info("starting", logx.String("settings", store.Path()))

	fyneApp := app.NewWithID("com.tabletdash.app")
	fyneApp.SetIcon(resources.AppIcon())

	chime, err := platform.NewChimeAlerter(platform.NewSoundPlayer(), log)
	if err != nil {
		log.Warn("chime unavailable", logx.Err(err))
	}
	var soundEnabled atomic.Bool
	soundEnabled.Store(settings.Sound)
	alerter := func(kind model.Kind) {
		if chime != nil && soundEnabled.Load() {
			chime.Alert(kind)
		}
	}

	core := engine.New(settings.EngineConfig(), engine.Options{
		Alerter: notify.AlerterFunc(alerter),
		Log:     log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt := &session{
		log:      log,
		store:    store,
		core:     core,
		settings: settings.Normalize(),
	}

	rt.dash = dashboard.New(fyneApp, core, dashboard.Options{
		Theme:      settings.Theme,
		DarkMode:   settings.DarkMode,
		Fullscreen: settings.Fullscreen,
	}, dashboard.Callbacks{
		OnThemeChange: func(key string, dark bool) {
			updated := rt.current()
			updated.Theme = key
			updated.DarkMode = dark
			rt.apply(updated)
			rt.save(updated)
		},
		OnPreferences: func() {
			rt.prefs.Show()
		},
		OnRefreshWeather: rt.refreshWeather,
	})

	rt.prefs = preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		rt.apply(updated)
		rt.save(updated)
	})

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		rt.tray = tray.New(desktopApp, resources.AppIcon(), resources.AlertIcon(), tray.Callbacks{
			OnShow:           rt.dash.Show,
			OnPreferences:    rt.prefs.Show,
			OnDismiss:        core.DismissNotification,
			OnRefreshWeather: rt.refreshWeather,
			OnToggleFullscreen: func() {
				updated := rt.current()
				updated.Fullscreen = !updated.Fullscreen
				rt.apply(updated)
				rt.save(updated)
			},
			OnQuit: fyneApp.Quit,
		})
	} else {
		log.Info("system tray unsupported on this platform")
	}

	rt.applyLogLevel = func(level string) { logService.Apply(logConfig(level)) }
	rt.applySound = soundEnabled.Store
	rt.startWeather(ctx, settings)
	rt.syncAutostart(settings)

	events := core.Subscribe(16)
	go func() {
		for range events {
			snapshot := core.Snapshot()
			fyne.Do(func() {
				rt.dash.Render(snapshot)
				if rt.tray != nil {
					rt.tray.SetStatus(snapshot)
				}
			})
		}
	}()

	if err := core.Start(); err != nil {
		log.Error("engine start", logx.Err(err))
		return
	}

	go func() {
		if err := store.Watch(ctx, log, func(updated preferences.Settings) {
			fyne.Do(func() {
				rt.prefs.UpdateSettings(updated)
				rt.apply(updated)
			})
		}); err != nil && ctx.Err() == nil {
			log.Warn("settings watch stopped", logx.Err(err))
		}
	}()

	guard.Serve(func() {
		fyne.Do(rt.dash.Show)
	})

	fyneApp.Lifecycle().SetOnStopped(func() {
		cancel()
		core.Stop()
		rt.stopWeather()
		rt.dash.Close()
		if chime != nil {
			_ = chime.Close()
		}
		log.Info("stopped")
	})

	rt.dash.Show()
	fyneApp.Run()
}

// session holds the live collaborators that settings changes reconfigure.
type session struct {
	log   logx.Logger
	store *storage.Store
	core  *engine.Engine
	dash  *dashboard.Window
	prefs *preferences.Window
	tray  *tray.Manager

	applyLogLevel func(string)
	applySound    func(bool)

	mu       sync.Mutex
	settings preferences.Settings
	poller   *weather.Poller
	ctx      context.Context
}

func (rt *session) current() preferences.Settings {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.settings
}

func (rt *session) save(settings preferences.Settings) {
	if err := rt.store.Save(settings); err != nil {
		rt.log.Error("settings save failed", logx.Err(err))
	}
}

// apply pushes settings into every running component. It must run on the
// fyne goroutine.
func (rt *session) apply(settings preferences.Settings) {
	settings = settings.Normalize()
	rt.mu.Lock()
	previous := rt.settings
	rt.settings = settings
	ctx := rt.ctx
	rt.mu.Unlock()

	if key, dark := rt.dash.Theme(); key != settings.Theme || dark != settings.DarkMode {
		rt.dash.ApplyTheme(settings.Theme, settings.DarkMode)
	}
	rt.dash.SetFullscreen(settings.Fullscreen)
	if err := rt.core.UpdateConfig(settings.EngineConfig()); err != nil {
		rt.log.Error("engine reconfigure failed", logx.Err(err))
	}
	if rt.applyLogLevel != nil {
		rt.applyLogLevel(settings.LogLevel)
	}
	if rt.applySound != nil {
		rt.applySound(settings.Sound)
	}
	if previous.WeatherLocation() != settings.WeatherLocation() || previous.WeatherInterval != settings.WeatherInterval {
		rt.stopWeather()
		if ctx != nil {
			rt.startWeather(ctx, settings)
		}
	}
	if previous.Autostart != settings.Autostart {
		rt.syncAutostart(settings)
	}
}

func (rt *session) startWeather(ctx context.Context, settings preferences.Settings) {
	client := weather.NewClient(nil, "", settings.WeatherLocation())
	poller := weather.NewPoller(client, settings.PollerConfig(), rt.log, func(report weather.Report) {
		fyne.Do(func() {
			rt.dash.SetWeather(report)
		})
	})
	if err := poller.Start(ctx); err != nil {
		rt.log.Error("weather poller start", logx.Err(err))
		return
	}
	rt.mu.Lock()
	rt.ctx = ctx
	rt.poller = poller
	rt.mu.Unlock()
}

func (rt *session) stopWeather() {
	rt.mu.Lock()
	poller := rt.poller
	rt.poller = nil
	rt.mu.Unlock()
	if poller != nil {
		poller.Stop()
	}
}

func (rt *session) refreshWeather() {
	rt.mu.Lock()
	poller := rt.poller
	rt.mu.Unlock()
	if poller != nil {
		poller.Refresh()
	}
}

func (rt *session) syncAutostart(settings preferences.Settings) {
	executable, err := os.Executable()
	if err != nil {
		rt.log.Warn("resolve executable", logx.Err(err))
		return
	}
	command := platform.LaunchCommand{Path: executable, Args: []string{"-fullscreen"}}
	if err := platform.SyncAutostart(platform.NewAutostarter(), appName, command, settings.Autostart); err != nil {
		rt.log.Warn("autostart sync failed", logx.Err(err), logx.Bool("enabled", settings.Autostart))
	}
}
