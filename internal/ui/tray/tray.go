package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"notchpanel/internal/core/model"
)

// Timer presets offered in the tray.
var TimerPresets = []time.Duration{5 * time.Minute, 15 * time.Minute, 25 * time.Minute, 60 * time.Minute}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnPreferences    func()
	OnQuickNote      func()
	OnToggleDisabled func()
	OnToggleFocus    func()
	OnStartTimer     func(time.Duration)
	OnToggleAlarm    func(id string, enabled bool)
	OnManageAlarms   func()
	OnStopRinging    func()
	OnQuit           func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	callbacks   Callbacks
	statusLabel string
	disabled    bool
	focusing    bool
	ringing     bool
	alarms      []model.Alarm
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "starting...",
	}
	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	if status == manager.statusLabel {
		return
	}
	manager.statusLabel = status
	manager.refreshMenu()
}

// SetState updates the toggles reflected in the menu.
func (manager *Manager) SetState(disabled, focusing, ringing bool) {
	if disabled == manager.disabled && focusing == manager.focusing && ringing == manager.ringing {
		return
	}
	manager.disabled, manager.focusing, manager.ringing = disabled, focusing, ringing
	manager.refreshMenu()
}

// SetAlarms updates the alarm submenu.
func (manager *Manager) SetAlarms(alarms []model.Alarm) {
	if equalAlarms(alarms, manager.alarms) {
		return
	}
	manager.alarms = append([]model.Alarm(nil), alarms...)
	manager.refreshMenu()
}

func (manager *Manager) menu() *fyne.Menu {
	status := fyne.NewMenuItem(fmt.Sprintf("Status: %s", manager.statusLabel), nil)
	status.Disabled = true

	disableLabel := "Hide panel"
	if manager.disabled {
		disableLabel = "Show panel"
	}
	focusLabel := "Start focus"
	if manager.focusing {
		focusLabel = "Pause focus"
	}

	timers := make([]*fyne.MenuItem, 0, len(TimerPresets))
	for _, preset := range TimerPresets {
		timers = append(timers, fyne.NewMenuItem(fmt.Sprintf("%d minutes", int(preset.Minutes())), func() {
			if manager.callbacks.OnStartTimer != nil {
				manager.callbacks.OnStartTimer(preset)
			}
		}))
	}
	timer := fyne.NewMenuItem("Start timer", nil)
	timer.ChildMenu = fyne.NewMenu("", timers...)

	alarmItems := make([]*fyne.MenuItem, 0, len(manager.alarms)+2)
	for _, alarm := range manager.alarms {
		item := fyne.NewMenuItem(alarmLabel(alarm), func() {
			if manager.callbacks.OnToggleAlarm != nil {
				manager.callbacks.OnToggleAlarm(alarm.ID, !alarm.Enabled)
			}
		})
		item.Checked = alarm.Enabled
		alarmItems = append(alarmItems, item)
	}
	if len(alarmItems) > 0 {
		alarmItems = append(alarmItems, fyne.NewMenuItemSeparator())
	}
	alarmItems = append(alarmItems, fyne.NewMenuItem("Manage alarms...", call(manager.callbacks.OnManageAlarms)))
	alarmsMenu := fyne.NewMenuItem("Alarms", nil)
	alarmsMenu.ChildMenu = fyne.NewMenu("", alarmItems...)

	stop := fyne.NewMenuItem("Stop ringing", call(manager.callbacks.OnStopRinging))
	stop.Disabled = !manager.ringing

	return fyne.NewMenu("Notch Panel",
		status,
		fyne.NewMenuItem("Preferences", call(manager.callbacks.OnPreferences)),
		fyne.NewMenuItem("Quick note", call(manager.callbacks.OnQuickNote)),
		fyne.NewMenuItem(disableLabel, call(manager.callbacks.OnToggleDisabled)),
		fyne.NewMenuItem(focusLabel, call(manager.callbacks.OnToggleFocus)),
		timer,
		alarmsMenu,
		stop,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", call(manager.callbacks.OnQuit)),
	)
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu())
	}
}

func alarmLabel(alarm model.Alarm) string {
	label := fmt.Sprintf("%02d:%02d", alarm.Hour, alarm.Minute)
	if alarm.Label != "" {
		label += " " + alarm.Label
	}
	return label
}

func equalAlarms(a, b []model.Alarm) bool {
	if len(a) != len(b) {
		return false
	}
	for index := range a {
		if a[index] != b[index] {
			return false
		}
	}
	return true
}

func call(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}
