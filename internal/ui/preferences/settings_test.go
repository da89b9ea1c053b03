package preferences

import (
	"testing"
	"time"

	"notchpanel/internal/core/model"
)

func TestFormRoundTrip(t *testing.T) {
	settings := model.DefaultSettings()
	settings.NotesDir = "/tmp/notes"

	got, err := formFromSettings(settings).apply(model.Settings{})
	if err != nil {
		t.Fatalf("apply() error = %v", err)
	}
	if got.AccentColor != settings.AccentColor || got.CollapseDelay != settings.CollapseDelay {
		t.Fatalf("apply() = %+v, want %+v", got, settings)
	}
	if got.Focus != settings.Focus || got.NotesDir != "/tmp/notes" || !got.AlarmSound {
		t.Fatalf("apply() = %+v, want %+v", got, settings)
	}
	if len(got.PinnedWidgets) != len(settings.PinnedWidgets) {
		t.Fatalf("pinned = %v, want %v", got.PinnedWidgets, settings.PinnedWidgets)
	}
}

func TestFormKeepsPreviousOnBadNumbers(t *testing.T) {
	settings := model.DefaultSettings()
	values := formFromSettings(settings)
	values.CollapseDelay = "soon"
	values.Work = "-5"
	values.ShortBreak = "10"

	got, err := values.apply(settings)
	if err != nil {
		t.Fatalf("apply() error = %v", err)
	}
	if got.CollapseDelay != settings.CollapseDelay {
		t.Fatalf("collapse delay = %v, want %v", got.CollapseDelay, settings.CollapseDelay)
	}
	if got.Focus.Work != settings.Focus.Work {
		t.Fatalf("work = %v, want %v", got.Focus.Work, settings.Focus.Work)
	}
	if got.Focus.ShortBreak != 10*time.Minute {
		t.Fatalf("short break = %v, want 10m", got.Focus.ShortBreak)
	}
}

func TestFormRejectsBadAccent(t *testing.T) {
	values := formFromSettings(model.DefaultSettings())
	for _, accent := range []string{"blue", "#12345", "#gggggg"} {
		values.Accent = accent
		if _, err := values.apply(model.DefaultSettings()); err == nil {
			t.Fatalf("apply(accent %q) error = nil", accent)
		}
	}
}
