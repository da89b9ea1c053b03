package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"notchpanel/internal/core/model"
)

// Widgets that can be pinned to the expanded view.
var Widgets = []string{"media", "calendar", "battery", "bluetooth", "wifi", "perf", "disk", "clipboard", "notes"}

// Languages offered in the language picker.
var Languages = []string{"en", "de", "fr", "es", "ru"}

// form holds the textual field values of the preferences window.
type form struct {
	Accent        string
	Language      string
	Pinned        []string
	CollapseDelay string
	Work          string
	ShortBreak    string
	LongBreak     string
	AlarmSound    bool
	NotesDir      string
	CalendarPath  string
}

func formFromSettings(settings model.Settings) form {
	return form{
		Accent:        settings.AccentColor,
		Language:      settings.Language,
		Pinned:        append([]string(nil), settings.PinnedWidgets...),
		CollapseDelay: strconv.Itoa(int(settings.CollapseDelay.Seconds())),
		Work:          strconv.Itoa(int(settings.Focus.Work.Minutes())),
		ShortBreak:    strconv.Itoa(int(settings.Focus.ShortBreak.Minutes())),
		LongBreak:     strconv.Itoa(int(settings.Focus.LongBreak.Minutes())),
		AlarmSound:    settings.AlarmSound,
		NotesDir:      settings.NotesDir,
		CalendarPath:  settings.CalendarPath,
	}
}

// apply overlays the form onto settings. Invalid numbers keep the previous
// value; a malformed accent is rejected.
func (values form) apply(settings model.Settings) (model.Settings, error) {
	accent := strings.TrimSpace(values.Accent)
	if accent != "" {
		if !validAccent(accent) {
			return settings, fmt.Errorf("accent color %q: want #rrggbb", accent)
		}
		settings.AccentColor = accent
	}
	if values.Language != "" {
		settings.Language = values.Language
	}
	settings.PinnedWidgets = append([]string(nil), values.Pinned...)
	if seconds, ok := parsePositiveInt(values.CollapseDelay); ok {
		settings.CollapseDelay = time.Duration(seconds) * time.Second
	}
	if minutes, ok := parsePositiveInt(values.Work); ok {
		settings.Focus.Work = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(values.ShortBreak); ok {
		settings.Focus.ShortBreak = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(values.LongBreak); ok {
		settings.Focus.LongBreak = time.Duration(minutes) * time.Minute
	}
	settings.AlarmSound = values.AlarmSound
	settings.NotesDir = strings.TrimSpace(values.NotesDir)
	settings.CalendarPath = strings.TrimSpace(values.CalendarPath)
	return settings, nil
}

func validAccent(value string) bool {
	if len(value) != 7 || value[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(value[1:], 16, 32)
	return err == nil
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
