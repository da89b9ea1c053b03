package tray

import (
	"testing"
	"time"

	"notchpanel/internal/core/model"
)

func TestMenuReflectsState(t *testing.T) {
	var started time.Duration
	stops, notes := 0, 0
	manager := New(nil, Callbacks{
		OnStartTimer:  func(total time.Duration) { started = total },
		OnStopRinging: func() { stops++ },
		OnQuickNote:   func() { notes++ },
	})

	menu := manager.menu()
	if got := menu.Items[0].Label; got != "Status: starting..." {
		t.Fatalf("status label = %q", got)
	}
	if menu.Items[3].Label != "Hide panel" || menu.Items[4].Label != "Start focus" {
		t.Fatalf("labels = %q, %q", menu.Items[3].Label, menu.Items[4].Label)
	}
	if !menu.Items[7].Disabled {
		t.Fatal("stop ringing enabled while nothing rings")
	}

	manager.SetStatus("playing")
	manager.SetState(true, true, true)
	menu = manager.menu()
	if menu.Items[0].Label != "Status: playing" || menu.Items[3].Label != "Show panel" || menu.Items[4].Label != "Pause focus" {
		t.Fatalf("labels after state change = %q, %q, %q", menu.Items[0].Label, menu.Items[3].Label, menu.Items[4].Label)
	}
	if menu.Items[7].Disabled {
		t.Fatal("stop ringing disabled while ringing")
	}

	menu.Items[7].Action()
	menu.Items[5].ChildMenu.Items[1].Action()
	menu.Items[2].Action()
	menu.Items[1].Action()
	if stops != 1 || started != 15*time.Minute || notes != 1 {
		t.Fatalf("stops = %d, started = %v, notes = %d; want 1, 15m, 1", stops, started, notes)
	}
}

func TestAlarmSubmenu(t *testing.T) {
	type toggle struct {
		id      string
		enabled bool
	}
	var toggles []toggle
	manages := 0
	manager := New(nil, Callbacks{
		OnToggleAlarm:  func(id string, enabled bool) { toggles = append(toggles, toggle{id, enabled}) },
		OnManageAlarms: func() { manages++ },
	})

	if items := manager.menu().Items[6].ChildMenu.Items; len(items) != 1 || items[0].Label != "Manage alarms..." {
		t.Fatalf("empty alarm submenu = %d items", len(items))
	}

	manager.SetAlarms([]model.Alarm{
		{ID: "a-1", Hour: 7, Minute: 30, Label: "Standup", Enabled: true},
		{ID: "a-2", Hour: 22, Minute: 5},
	})
	items := manager.menu().Items[6].ChildMenu.Items
	if len(items) != 4 {
		t.Fatalf("alarm submenu = %d items, want 2 alarms, separator, manage", len(items))
	}
	if items[0].Label != "07:30 Standup" || !items[0].Checked || items[1].Label != "22:05" || items[1].Checked {
		t.Fatalf("alarm items = %q %v, %q %v", items[0].Label, items[0].Checked, items[1].Label, items[1].Checked)
	}

	items[0].Action()
	items[1].Action()
	items[3].Action()
	if len(toggles) != 2 || toggles[0] != (toggle{"a-1", false}) || toggles[1] != (toggle{"a-2", true}) {
		t.Fatalf("toggles = %+v", toggles)
	}
	if manages != 1 {
		t.Fatalf("manage calls = %d, want 1", manages)
	}
}
