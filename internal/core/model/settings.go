package model

import "time"

// Settings defines editable user preferences.
type Settings struct {
	AccentColor   string
	Language      string
	PinnedWidgets []string
	CollapseDelay time.Duration
	Focus         FocusConfig
	AlarmSound    bool
	NotesDir      string
	CalendarPath  string
}

// DefaultSettings returns default settings for the panel.
func DefaultSettings() Settings {
	return Settings{
		AccentColor:   "#0a84ff",
		Language:      "en",
		PinnedWidgets: []string{"media", "battery", "calendar"},
		CollapseDelay: DefaultPanelConfig().CollapseDelay,
		Focus:         DefaultFocusConfig(),
		AlarmSound:    true,
	}
}

// PanelConfig converts settings to the presentation timing config.
func (settings Settings) PanelConfig() PanelConfig {
	config := DefaultPanelConfig()
	if settings.CollapseDelay > 0 {
		config.CollapseDelay = settings.CollapseDelay
	}
	return config
}
