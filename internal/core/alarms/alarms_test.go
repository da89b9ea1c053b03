package alarms

import (
	"errors"
	"testing"
	"time"

	"notchpanel/internal/core/clock"
	"notchpanel/internal/core/loop"
	"notchpanel/internal/core/model"
	"notchpanel/internal/core/ringer"
)

// Wednesday.
var base = time.Date(2024, 5, 1, 6, 59, 58, 0, time.UTC)

type harness struct {
	engine   *Engine
	clock    *clock.Fake
	fired    []model.Alarm
	persists int
}

func newHarness(t *testing.T, seed ...model.Alarm) *harness {
	t.Helper()
	h := &harness{clock: clock.NewFake(base)}
	ring := ringer.New(h.clock, loop.Inline{}, nil, time.Minute, nil)
	h.engine = New(seed, ring, Hooks{
		OnFire:  func(alarm model.Alarm) { h.fired = append(h.fired, alarm) },
		Persist: func([]model.Alarm) { h.persists++ },
	})
	return h
}

func (h *harness) tickSeconds(n int) {
	for i := 0; i < n; i++ {
		h.clock.Advance(time.Second)
		h.engine.Tick(h.clock.Now())
	}
}

func TestOnceAlarmFiresOnceAndDisables(t *testing.T) {
	h := newHarness(t, model.Alarm{ID: "a", Hour: 7, Minute: 0, Enabled: true})

	h.tickSeconds(1)
	if len(h.fired) != 0 {
		t.Fatalf("fired at 06:59:59")
	}
	h.tickSeconds(1)
	if len(h.fired) != 1 {
		t.Fatalf("fired = %d at 07:00:00, want 1", len(h.fired))
	}
	if h.engine.List()[0].Enabled {
		t.Fatal("once alarm still enabled after firing")
	}
	if !h.engine.Ringing() {
		t.Fatal("alarm not ringing after fire")
	}

	h.tickSeconds(60)
	if len(h.fired) != 1 {
		t.Fatalf("fired = %d over the minute, want 1", len(h.fired))
	}
	if h.engine.Ringing() {
		t.Fatal("ringing not auto-stopped after 60s")
	}
}

func TestDuplicateTickAtSecondZeroDoesNotRefire(t *testing.T) {
	h := newHarness(t, model.Alarm{ID: "r", Hour: 7, Minute: 0, Enabled: true, Repeat: model.NewWeekdays(time.Wednesday)})
	h.tickSeconds(2)
	h.engine.Tick(h.clock.Now())
	h.engine.Tick(h.clock.Now().Add(100 * time.Millisecond))
	if len(h.fired) != 1 {
		t.Fatalf("fired = %d, want 1", len(h.fired))
	}
}

func TestSkippedSecondZeroStillFires(t *testing.T) {
	h := newHarness(t, model.Alarm{ID: "a", Hour: 7, Minute: 0, Enabled: true})
	h.engine.Tick(base.Add(time.Second))
	h.engine.Tick(base.Add(3 * time.Second))
	if len(h.fired) != 1 {
		t.Fatalf("fired = %d after tick jumped over second zero, want 1", len(h.fired))
	}
}

func TestMidMinuteStartDoesNotFire(t *testing.T) {
	h := newHarness(t, model.Alarm{ID: "a", Hour: 7, Minute: 0, Enabled: true})
	h.engine.Tick(time.Date(2024, 5, 1, 7, 0, 30, 0, time.UTC))
	if len(h.fired) != 0 {
		t.Fatal("fired on first tick in the middle of the minute")
	}
}

func TestRepeatDays(t *testing.T) {
	tests := []struct {
		name   string
		repeat model.Weekdays
		want   int
	}{
		{"matching day", model.NewWeekdays(time.Monday, time.Wednesday), 1},
		{"other day", model.NewWeekdays(time.Thursday), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, model.Alarm{ID: "r", Hour: 7, Minute: 0, Enabled: true, Repeat: tt.repeat})
			h.tickSeconds(2)
			if len(h.fired) != tt.want {
				t.Fatalf("fired = %d, want %d", len(h.fired), tt.want)
			}
			if !h.engine.List()[0].Enabled {
				t.Fatal("repeating alarm was disabled")
			}
		})
	}
}

func TestDisabledAlarmDoesNotFire(t *testing.T) {
	h := newHarness(t, model.Alarm{ID: "a", Hour: 7, Minute: 0, Enabled: false})
	h.tickSeconds(2)
	if len(h.fired) != 0 {
		t.Fatal("disabled alarm fired")
	}
}

func TestManualStopKeepsEnabled(t *testing.T) {
	h := newHarness(t, model.Alarm{ID: "r", Hour: 7, Minute: 0, Enabled: true, Repeat: model.NewWeekdays(time.Wednesday)})
	h.tickSeconds(2)
	h.engine.Stop()
	if h.engine.Ringing() {
		t.Fatal("still ringing after Stop")
	}
	if !h.engine.List()[0].Enabled {
		t.Fatal("Stop changed Enabled")
	}
	h.tickSeconds(61)
	if h.engine.Ringing() {
		t.Fatal("scheduled auto-stop restarted ringing")
	}
}

func TestCRUDPersists(t *testing.T) {
	h := newHarness(t)
	alarm, err := h.engine.Add(model.Alarm{Hour: 8, Minute: 30, Label: "standup", Enabled: true})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if alarm.ID == "" {
		t.Fatal("Add did not assign an id")
	}

	alarm.Label = "sync"
	if err := h.engine.Update(alarm); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := h.engine.SetEnabled(alarm.ID, false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	if got := h.engine.List()[0]; got.Label != "sync" || got.Enabled {
		t.Fatalf("alarm = %+v, want label sync disabled", got)
	}
	if err := h.engine.Delete(alarm.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(h.engine.List()) != 0 {
		t.Fatal("alarm still listed after Delete")
	}
	if h.persists != 4 {
		t.Fatalf("persists = %d, want 4", h.persists)
	}

	if err := h.engine.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete(missing) err = %v, want ErrNotFound", err)
	}
	if _, err := h.engine.Add(model.Alarm{Hour: 24}); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("Add(24:00) err = %v, want ErrInvalidTime", err)
	}
}
