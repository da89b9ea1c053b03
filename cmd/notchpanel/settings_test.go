package main

import (
	"testing"
	"time"

	"notchpanel/internal/core/model"
	"notchpanel/internal/storage"
)

func TestPanelFocusChangeSurvivesPreferencesSave(t *testing.T) {
	store := storage.NewStoreAt(t.TempDir())
	owner := newSettingsOwner(store, model.DefaultSettings())
	var observed []model.FocusConfig
	owner.OnFocusSaved(func(config model.FocusConfig) { observed = append(observed, config) })

	focus := model.FocusConfig{Work: 50 * time.Minute, ShortBreak: 10 * time.Minute, LongBreak: 20 * time.Minute}
	if err := owner.SaveFocus(focus); err != nil {
		t.Fatalf("SaveFocus: %v", err)
	}
	if len(observed) != 1 || observed[0] != focus {
		t.Fatalf("observed = %+v, want %+v", observed, focus)
	}

	edited := owner.Settings()
	edited.AccentColor = "#ff0000"
	previous, err := owner.Save(edited)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if previous.Focus != focus {
		t.Fatalf("previous focus = %+v, want %+v", previous.Focus, focus)
	}

	loaded, err := store.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if loaded.Focus != focus || loaded.AccentColor != "#ff0000" {
		t.Fatalf("loaded = %+v, want focus %+v and accent #ff0000", loaded, focus)
	}
}
