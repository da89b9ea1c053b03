package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"notchpanel/internal/core/model"
)

const (
	settingsFileName = "settings.yaml"
	alarmsFileName   = "alarms.yaml"
)

type yamlSettings struct {
	AccentColor          string   `yaml:"accent_color"`
	Language             string   `yaml:"language"`
	PinnedWidgets        []string `yaml:"pinned_widgets"`
	CollapseDelaySeconds int      `yaml:"collapse_delay_seconds"`
	FocusWorkMinutes     int      `yaml:"focus_work_minutes"`
	FocusBreakMinutes    int      `yaml:"focus_break_minutes"`
	FocusLongMinutes     int      `yaml:"focus_long_break_minutes"`
	AlarmSound           *bool    `yaml:"alarm_sound"`
	NotesDir             string   `yaml:"notes_dir,omitempty"`
	CalendarPath         string   `yaml:"calendar_path,omitempty"`
}

type yamlAlarm struct {
	ID      string   `yaml:"id"`
	Time    string   `yaml:"time"`
	Label   string   `yaml:"label,omitempty"`
	Enabled bool     `yaml:"enabled"`
	Repeat  []string `yaml:"repeat,omitempty"`
}

// Store persists settings and alarms as YAML files in one directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore resolves the per-user config directory for appName.
func NewStore(appName string) (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user config dir: %w", err)
	}
	return NewStoreAt(filepath.Join(configDir, appName)), nil
}

// NewStoreAt uses dir as the config directory.
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the config directory.
func (store *Store) Dir() string {
	return store.dir
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func (store *Store) LoadSettings() (model.Settings, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.loadSettingsLocked()
}

// SaveSettings writes user preferences to YAML.
func (store *Store) SaveSettings(settings model.Settings) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.saveSettingsLocked(settings)
}

// SaveFocus updates only the focus durations in the settings file.
func (store *Store) SaveFocus(config model.FocusConfig) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	settings, err := store.loadSettingsLocked()
	if err != nil {
		return err
	}
	settings.Focus = config
	return store.saveSettingsLocked(settings)
}

// LoadAlarms reads the alarm list. A missing file yields no alarms.
func (store *Store) LoadAlarms() ([]model.Alarm, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	rawData, err := os.ReadFile(filepath.Join(store.dir, alarmsFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read alarms file: %w", err)
	}

	var fileData []yamlAlarm
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return nil, fmt.Errorf("parse alarms yaml: %w", err)
	}

	alarms := make([]model.Alarm, 0, len(fileData))
	for _, entry := range fileData {
		alarm, err := decodeAlarm(entry)
		if err != nil {
			return nil, err
		}
		alarms = append(alarms, alarm)
	}
	return alarms, nil
}

// SaveAlarms replaces the alarm list on disk.
func (store *Store) SaveAlarms(alarms []model.Alarm) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	fileData := make([]yamlAlarm, 0, len(alarms))
	for _, alarm := range alarms {
		fileData = append(fileData, encodeAlarm(alarm))
	}
	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal alarms yaml: %w", err)
	}
	return store.writeLocked(alarmsFileName, serialized)
}

func (store *Store) loadSettingsLocked() (model.Settings, error) {
	settings := model.DefaultSettings()
	rawData, err := os.ReadFile(filepath.Join(store.dir, settingsFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

func (store *Store) saveSettingsLocked(settings model.Settings) error {
	alarmSound := settings.AlarmSound
	fileData := yamlSettings{
		AccentColor:          settings.AccentColor,
		Language:             settings.Language,
		PinnedWidgets:        settings.PinnedWidgets,
		CollapseDelaySeconds: int(settings.CollapseDelay / time.Second),
		FocusWorkMinutes:     int(settings.Focus.Work / time.Minute),
		FocusBreakMinutes:    int(settings.Focus.ShortBreak / time.Minute),
		FocusLongMinutes:     int(settings.Focus.LongBreak / time.Minute),
		AlarmSound:           &alarmSound,
		NotesDir:             settings.NotesDir,
		CalendarPath:         settings.CalendarPath,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	return store.writeLocked(settingsFileName, serialized)
}

func (store *Store) writeLocked(name string, data []byte) error {
	if err := os.MkdirAll(store.dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	path := filepath.Join(store.dir, name)
	temp := path + ".tmp"
	if err := os.WriteFile(temp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(temp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.AccentColor != "" {
		settings.AccentColor = fileData.AccentColor
	}
	if fileData.Language != "" {
		settings.Language = fileData.Language
	}
	if fileData.PinnedWidgets != nil {
		settings.PinnedWidgets = fileData.PinnedWidgets
	}
	if fileData.CollapseDelaySeconds > 0 {
		settings.CollapseDelay = time.Duration(fileData.CollapseDelaySeconds) * time.Second
	}
	if fileData.FocusWorkMinutes > 0 {
		settings.Focus.Work = time.Duration(fileData.FocusWorkMinutes) * time.Minute
	}
	if fileData.FocusBreakMinutes > 0 {
		settings.Focus.ShortBreak = time.Duration(fileData.FocusBreakMinutes) * time.Minute
	}
	if fileData.FocusLongMinutes > 0 {
		settings.Focus.LongBreak = time.Duration(fileData.FocusLongMinutes) * time.Minute
	}
	if fileData.AlarmSound != nil {
		settings.AlarmSound = *fileData.AlarmSound
	}
	settings.NotesDir = fileData.NotesDir
	settings.CalendarPath = fileData.CalendarPath
}

var weekdayNames = [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

func encodeAlarm(alarm model.Alarm) yamlAlarm {
	entry := yamlAlarm{
		ID:      alarm.ID,
		Time:    fmt.Sprintf("%02d:%02d", alarm.Hour, alarm.Minute),
		Label:   alarm.Label,
		Enabled: alarm.Enabled,
	}
	for _, day := range alarm.Repeat.Days() {
		entry.Repeat = append(entry.Repeat, weekdayNames[day])
	}
	return entry
}

func decodeAlarm(entry yamlAlarm) (model.Alarm, error) {
	alarm := model.Alarm{ID: entry.ID, Label: entry.Label, Enabled: entry.Enabled}
	if _, err := fmt.Sscanf(entry.Time, "%d:%d", &alarm.Hour, &alarm.Minute); err != nil {
		return model.Alarm{}, fmt.Errorf("parse alarm %s time %q: %w", entry.ID, entry.Time, err)
	}
	for _, name := range entry.Repeat {
		day, ok := parseWeekday(name)
		if !ok {
			return model.Alarm{}, fmt.Errorf("parse alarm %s: unknown weekday %q", entry.ID, name)
		}
		alarm.Repeat = alarm.Repeat.With(day)
	}
	return alarm, nil
}

func parseWeekday(name string) (time.Weekday, bool) {
	for index, candidate := range weekdayNames {
		if candidate == name {
			return time.Weekday(index), true
		}
	}
	return 0, false
}
