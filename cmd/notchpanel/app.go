package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"golang.org/x/sync/errgroup"

	"notchpanel/internal/core/media"
	"notchpanel/internal/core/model"
	"notchpanel/internal/core/panel"
	"notchpanel/internal/core/ringer"
	"notchpanel/internal/platform"
	"notchpanel/internal/storage"
	"notchpanel/internal/ui/overlay"
	"notchpanel/internal/ui/preferences"
	"notchpanel/internal/ui/tray"
	"notchpanel/resources"
)

const alarmCallTimeout = 2 * time.Second

// application holds the assembled panel and the adapters that need closing.
type application struct {
	logger    *slog.Logger
	settings  *settingsOwner
	notes     *storage.FileNotes
	panel     *panel.Panel
	mpris     *platform.MPRIS
	bluetooth *platform.Bluetooth
}

func assemble(opts options, logger *slog.Logger) (*application, error) {
	store, err := storage.NewStore(appName)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	settings, err := store.LoadSettings()
	if err != nil {
		logger.Warn("settings unreadable, using defaults", "dir", store.Dir(), "error", err)
		settings = model.DefaultSettings()
	}
	alarmList, err := store.LoadAlarms()
	if err != nil {
		logger.Warn("alarms unreadable, starting empty", "error", err)
		alarmList = nil
	}
	if opts.notesDir != "" {
		settings.NotesDir = opts.notesDir
	}
	if opts.calendar != "" {
		settings.CalendarPath = opts.calendar
	}

	notesDir := settings.NotesDir
	if notesDir == "" {
		notesDir = storage.DefaultNotesDir(store.Dir())
	}

	app := &application{
		logger:    logger,
		settings:  newSettingsOwner(store, settings),
		notes:     storage.NewFileNotes(notesDir),
		bluetooth: platform.NewBluetooth(),
	}

	var players []media.Adapter
	if runtime.GOOS == "darwin" {
		bridge := platform.NewShellBridge()
		players = append(players, platform.NewSpotifyScript(bridge), platform.NewMusicScript(bridge))
	}
	if mpris, err := platform.NewMPRIS(); err == nil {
		app.mpris = mpris
		players = append(players, mpris)
	} else {
		logger.Debug("mpris unavailable", "error", err)
	}

	var calendar panel.CalendarReader
	if settings.CalendarPath != "" {
		calendar = platform.ICSCalendar{Path: settings.CalendarPath}
	}

	var alarmSound ringer.Sounder = ringer.Silent{}
	if settings.AlarmSound {
		alarmSound = platform.NewLoopSounder(logger)
	}

	app.panel, err = panel.New(panel.Config{
		Panel:  settings.PanelConfig(),
		Focus:  settings.Focus,
		Alarms: alarmList,
	}, panel.Deps{
		Logger:      logger,
		Notes:       app.notes,
		Media:       media.NewResolver(players...),
		Clipboard:   platform.Clipboard{},
		Accessories: app.bluetooth,
		Network:     platform.WiFi{},
		Calendar:    calendar,
		Perf:        platform.NewPerf(),
		Disk:        platform.Disk{},
		Battery:     platform.NewBattery(),
		Volume:      platform.Volume{},
		Notifier:    platform.DesktopNotifier{AppName: "Notch Panel"},
		Persistence: app.settings,
		AlarmSound:  alarmSound,
		FocusSound:  platform.NewLoopSounder(logger),
	})
	if err != nil {
		app.close()
		return nil, fmt.Errorf("build panel: %w", err)
	}
	return app, nil
}

func (app *application) close() {
	if app.mpris != nil {
		_ = app.mpris.Close()
	}
	if app.bluetooth != nil {
		_ = app.bluetooth.Close()
	}
}

// start runs the panel and the push watchers until ctx is done.
func (app *application) start(ctx context.Context) *errgroup.Group {
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return app.panel.Run(groupCtx)
	})
	group.Go(func() error {
		if err := app.notes.Watch(groupCtx, app.logger, app.panel.RefreshNotes); err != nil {
			app.logger.Warn("notes watcher stopped", "error", err)
		}
		return nil
	})
	if app.mpris != nil {
		group.Go(func() error {
			if err := app.mpris.Watch(groupCtx, app.logger, app.panel.ApplyMedia); err != nil {
				app.logger.Warn("mpris watcher stopped", "error", err)
			}
			return nil
		})
	}
	return group
}

func (app *application) runHeadless(ctx context.Context) error {
	snapshots := app.panel.Subscribe(8)
	group := app.start(ctx)
	group.Go(func() error {
		var last model.PresentationState
		for snapshot := range snapshots {
			if snapshot.Presentation == last {
				continue
			}
			last = snapshot.Presentation
			app.logger.Info("panel",
				"mode", last.Mode,
				"expanded", last.Expanded,
				"hovering", last.Hovering,
				"disabled", last.Disabled,
			)
		}
		return nil
	})
	app.logger.Info("running headless", "notes", app.notes.Dir())
	return ignoreCanceled(group.Wait())
}

func (app *application) runDesktop(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fyneApp := fyneapp.NewWithID("dev.notchpanel.app")
	fyneApp.SetIcon(resources.Icon(false, false))

	settings := app.settings.Settings()
	window := overlay.New(fyneApp, app.panel, overlay.ParseAccent(settings.AccentColor))
	prefsWindow := preferences.New(fyneApp, settings, app.saveSettings(window))
	app.settings.OnFocusSaved(func(config model.FocusConfig) {
		fyne.Do(func() { prefsWindow.UpdateFocus(config) })
	})
	alarmsWindow := preferences.NewAlarms(fyneApp, app.alarmActions(ctx))

	var trayManager *tray.Manager
	desktopApp, hasTray := fyneApp.(desktop.App)
	if hasTray {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnPreferences: prefsWindow.Show,
			OnQuickNote: func() {
				app.panel.ShowMode(model.ModeNotes)
			},
			OnToggleDisabled: func() {
				app.panel.SetDisabled(!app.panel.Snapshot().Presentation.Disabled)
			},
			OnToggleFocus: app.panel.ToggleFocus,
			OnStartTimer:  app.panel.StartCountdown,
			OnToggleAlarm: func(id string, enabled bool) {
				go func() {
					if err := app.alarmActions(ctx).SetEnabled(id, enabled); err != nil {
						app.logger.Warn("toggle alarm", "id", id, "error", err)
					}
				}()
			},
			OnManageAlarms: alarmsWindow.Show,
			OnStopRinging: func() {
				app.panel.StopAlarm()
				app.panel.StopFocusRinging()
			},
			OnQuit: fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(resources.Icon(false, false))
	} else {
		app.logger.Info("system tray unsupported on this platform")
	}

	snapshots := app.panel.Subscribe(4)
	group := app.start(ctx)
	group.Go(func() error {
		for range snapshots {
			// Events may be dropped; render the latest published state.
			snapshot := app.panel.Snapshot()
			window.Render(snapshot)
			fyne.Do(func() {
				alarmsWindow.SetAlarms(snapshot.Alarms)
			})
			if trayManager == nil {
				continue
			}
			ringing := snapshot.AlarmRinging || snapshot.FocusRinging
			status := trayStatus(snapshot)
			fyne.Do(func() {
				trayManager.SetStatus(status)
				trayManager.SetState(snapshot.Presentation.Disabled, snapshot.Focus.Running, ringing)
				trayManager.SetAlarms(snapshot.Alarms)
				desktopApp.SetSystemTrayIcon(resources.Icon(snapshot.Presentation.Disabled, ringing))
			})
		}
		return nil
	})
	stopQuit := context.AfterFunc(ctx, func() {
		fyne.Do(fyneApp.Quit)
	})

	fyneApp.Run()
	stopQuit()
	cancel()
	return ignoreCanceled(group.Wait())
}

func (app *application) saveSettings(window *overlay.Window) func(model.Settings) error {
	return func(settings model.Settings) error {
		previous, err := app.settings.Save(settings)
		if err != nil {
			return err
		}
		if settings.NotesDir != previous.NotesDir || settings.CalendarPath != previous.CalendarPath || settings.AlarmSound != previous.AlarmSound {
			app.logger.Info("source and sound changes take effect on restart")
		}
		app.panel.UpdatePanelConfig(settings.PanelConfig())
		app.panel.UpdateFocusConfig(settings.Focus)
		window.SetAccent(overlay.ParseAccent(settings.AccentColor))
		return nil
	}
}

// alarmActions routes alarm edits to the panel. Each call waits briefly for
// the owner loop.
func (app *application) alarmActions(ctx context.Context) preferences.AlarmActions {
	withTimeout := func(run func(context.Context) error) error {
		callCtx, cancel := context.WithTimeout(ctx, alarmCallTimeout)
		defer cancel()
		return run(callCtx)
	}
	return preferences.AlarmActions{
		Add: func(alarm model.Alarm) error {
			return withTimeout(func(ctx context.Context) error {
				_, err := app.panel.AddAlarm(ctx, alarm)
				return err
			})
		},
		Update: func(alarm model.Alarm) error {
			return withTimeout(func(ctx context.Context) error {
				return app.panel.UpdateAlarm(ctx, alarm)
			})
		},
		Delete: func(id string) error {
			return withTimeout(func(ctx context.Context) error {
				return app.panel.DeleteAlarm(ctx, id)
			})
		},
		SetEnabled: func(id string, enabled bool) error {
			return withTimeout(func(ctx context.Context) error {
				return app.panel.SetAlarmEnabled(ctx, id, enabled)
			})
		},
	}
}

func trayStatus(snapshot panel.Snapshot) string {
	switch {
	case snapshot.AlarmRinging:
		return "alarm ringing"
	case snapshot.FocusRinging:
		return "focus phase finished"
	case snapshot.Focus.Running:
		return "focusing"
	case snapshot.Media.Playing:
		return "playing " + snapshot.Media.Title
	case snapshot.Presentation.Disabled:
		return "hidden"
	default:
		return string(snapshot.Presentation.Mode)
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
