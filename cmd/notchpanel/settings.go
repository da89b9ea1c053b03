package main

import (
	"sync"

	"notchpanel/internal/core/model"
	"notchpanel/internal/storage"
)

// settingsOwner holds the live settings. Preferences saves and focus
// duration changes made in the panel both go through it.
type settingsOwner struct {
	store *storage.Store

	mu      sync.Mutex
	current model.Settings
	onFocus func(model.FocusConfig)
}

func newSettingsOwner(store *storage.Store, settings model.Settings) *settingsOwner {
	return &settingsOwner{store: store, current: settings}
}

// Settings returns the live settings.
func (owner *settingsOwner) Settings() model.Settings {
	owner.mu.Lock()
	defer owner.mu.Unlock()
	return owner.current
}

// Save writes settings and returns the ones they replace.
func (owner *settingsOwner) Save(settings model.Settings) (model.Settings, error) {
	owner.mu.Lock()
	defer owner.mu.Unlock()
	if err := owner.store.SaveSettings(settings); err != nil {
		return owner.current, err
	}
	previous := owner.current
	owner.current = settings
	return previous, nil
}

// SaveFocus records durations changed from the panel and reports them to the
// focus observer.
func (owner *settingsOwner) SaveFocus(config model.FocusConfig) error {
	owner.mu.Lock()
	if err := owner.store.SaveFocus(config); err != nil {
		owner.mu.Unlock()
		return err
	}
	owner.current.Focus = config
	onFocus := owner.onFocus
	owner.mu.Unlock()

	if onFocus != nil {
		onFocus(config)
	}
	return nil
}

// SaveAlarms writes the alarm list.
func (owner *settingsOwner) SaveAlarms(alarms []model.Alarm) error {
	return owner.store.SaveAlarms(alarms)
}

// OnFocusSaved sets the observer of panel-side focus changes.
func (owner *settingsOwner) OnFocusSaved(observer func(model.FocusConfig)) {
	owner.mu.Lock()
	defer owner.mu.Unlock()
	owner.onFocus = observer
}
