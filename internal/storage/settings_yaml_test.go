package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"notchpanel/internal/core/model"
)

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	store := NewStoreAt(t.TempDir())
	settings, err := store.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	defaults := model.DefaultSettings()
	if settings.CollapseDelay != defaults.CollapseDelay || settings.Focus != defaults.Focus || !settings.AlarmSound {
		t.Fatalf("settings = %+v, want defaults", settings)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "nested"))
	settings := model.DefaultSettings()
	settings.AccentColor = "#ff9f0a"
	settings.PinnedWidgets = []string{"notes"}
	settings.CollapseDelay = 12 * time.Second
	settings.AlarmSound = false
	settings.CalendarPath = "/tmp/work.ics"

	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	loaded, err := store.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if loaded.AccentColor != "#ff9f0a" || loaded.CollapseDelay != 12*time.Second || loaded.AlarmSound {
		t.Fatalf("loaded = %+v, want saved values", loaded)
	}
	if len(loaded.PinnedWidgets) != 1 || loaded.PinnedWidgets[0] != "notes" {
		t.Fatalf("PinnedWidgets = %v, want [notes]", loaded.PinnedWidgets)
	}
	if loaded.CalendarPath != "/tmp/work.ics" {
		t.Fatalf("CalendarPath = %q", loaded.CalendarPath)
	}
}

func TestSaveFocusKeepsOtherSettings(t *testing.T) {
	store := NewStoreAt(t.TempDir())
	settings := model.DefaultSettings()
	settings.Language = "de"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	focus := model.FocusConfig{Work: 50 * time.Minute, ShortBreak: 10 * time.Minute, LongBreak: 30 * time.Minute}
	if err := store.SaveFocus(focus); err != nil {
		t.Fatalf("SaveFocus: %v", err)
	}
	loaded, err := store.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if loaded.Focus != focus {
		t.Fatalf("Focus = %+v, want %+v", loaded.Focus, focus)
	}
	if loaded.Language != "de" {
		t.Fatalf("Language = %q, want de", loaded.Language)
	}
}

func TestLoadSettingsInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, settingsFileName), []byte("language: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	settings, err := NewStoreAt(dir).LoadSettings()
	if err == nil {
		t.Fatal("LoadSettings error = nil, want parse error")
	}
	if settings.Language != model.DefaultSettings().Language {
		t.Fatalf("settings = %+v, want defaults on error", settings)
	}
}

func TestAlarmsRoundTrip(t *testing.T) {
	store := NewStoreAt(t.TempDir())
	alarms := []model.Alarm{
		{ID: "a1", Hour: 7, Minute: 5, Label: "Gym", Enabled: true, Repeat: model.NewWeekdays(time.Monday, time.Friday)},
		{ID: "a2", Hour: 22, Minute: 30, Enabled: false},
	}
	if err := store.SaveAlarms(alarms); err != nil {
		t.Fatalf("SaveAlarms: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(store.Dir(), alarmsFileName))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(raw); !strings.Contains(got, "07:05") || !strings.Contains(got, "- mon") {
		t.Fatalf("alarms.yaml = %q, want readable time and weekdays", got)
	}

	loaded, err := store.LoadAlarms()
	if err != nil {
		t.Fatalf("LoadAlarms: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d alarms, want 2", len(loaded))
	}
	for index := range alarms {
		if loaded[index] != alarms[index] {
			t.Fatalf("alarm[%d] = %+v, want %+v", index, loaded[index], alarms[index])
		}
	}
}

func TestLoadAlarmsRejectsBadWeekday(t *testing.T) {
	dir := t.TempDir()
	data := "- id: x\n  time: \"08:00\"\n  enabled: true\n  repeat: [funday]\n"
	if err := os.WriteFile(filepath.Join(dir, alarmsFileName), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStoreAt(dir).LoadAlarms(); err == nil {
		t.Fatal("LoadAlarms error = nil, want weekday error")
	}
}
