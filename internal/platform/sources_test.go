package platform

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"

	"notchpanel/internal/core/model"
)

func TestAccessoriesFromObjects(t *testing.T) {
	objects := managedObjects{
		"/org/bluez/hci0/dev_1": {
			bluezDevice: {
				"Connected": dbus.MakeVariant(true),
				"Address":   dbus.MakeVariant("AA:01"),
				"Alias":     dbus.MakeVariant("Headphones"),
			},
			bluezBattery: {"Percentage": dbus.MakeVariant(byte(80))},
		},
		"/org/bluez/hci0/dev_2": {
			bluezDevice: {
				"Connected": dbus.MakeVariant(true),
				"Address":   dbus.MakeVariant("AA:02"),
				"Name":      dbus.MakeVariant("Keyboard"),
			},
		},
		"/org/bluez/hci0/dev_3": {
			bluezDevice: {
				"Connected": dbus.MakeVariant(false),
				"Alias":     dbus.MakeVariant("Old Mouse"),
			},
		},
		"/org/bluez/hci0": {"org.bluez.Adapter1": {}},
	}
	got := accessoriesFromObjects(objects)
	want := []model.Accessory{
		{ID: "AA:01", Name: "Headphones", Connected: true, Battery: 80},
		{ID: "AA:02", Name: "Keyboard", Connected: true, Battery: -1},
	}
	if len(got) != len(want) {
		t.Fatalf("accessories = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("accessories[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAccessoriesFallback(t *testing.T) {
	buds := []model.Accessory{{ID: "AA", Name: "Buds", Battery: 70}}
	mouse := []model.Accessory{{ID: "BB", Name: "Mouse", Battery: -1}}
	failing := func() ([]model.Accessory, error) { return nil, errors.New("no bluetoothctl") }
	tests := []struct {
		name       string
		primary    []model.Accessory
		primaryErr error
		fallback   func() ([]model.Accessory, error)
		want       []model.Accessory
		wantErr    bool
	}{
		{"primary wins", buds, nil, func() ([]model.Accessory, error) { return mouse, nil }, buds, false},
		{"empty primary falls back", nil, nil, func() ([]model.Accessory, error) { return mouse, nil }, mouse, false},
		{"empty primary survives failing fallback", nil, nil, failing, nil, false},
		{"failed primary falls back", nil, ErrUnavailable, func() ([]model.Accessory, error) { return mouse, nil }, mouse, false},
		{"both fail", nil, ErrUnavailable, failing, nil, true},
	}
	for _, tt := range tests {
		got, err := withFallback(tt.primary, tt.primaryErr, tt.fallback)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%s: error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if len(got) != len(tt.want) || (len(got) > 0 && got[0] != tt.want[0]) {
			t.Fatalf("%s: accessories = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestParseBluetoothctl(t *testing.T) {
	output := "Device AA:02 Magic Keyboard\nDevice AA:01 AirPods Pro\nsome noise\n"
	got := parseBluetoothctl(output)
	if len(got) != 2 || got[0].Name != "AirPods Pro" || got[1].ID != "AA:02" {
		t.Fatalf("parseBluetoothctl() = %+v", got)
	}
	if got[0].Battery != -1 || !got[0].Connected {
		t.Fatalf("parseBluetoothctl()[0] = %+v, want connected with unknown battery", got[0])
	}
}

func TestParseIW(t *testing.T) {
	dev := "phy#0\n\tInterface wlp2s0\n\t\tifindex 3\n\t\ttype managed\n"
	if got := parseIWInterface(dev); got != "wlp2s0" {
		t.Fatalf("parseIWInterface() = %q, want wlp2s0", got)
	}
	if got := parseIWInterface("phy#0\n"); got != "" {
		t.Fatalf("parseIWInterface(no interface) = %q, want empty", got)
	}

	link := "Connected to 11:22:33:44:55:66 (on wlp2s0)\n\tSSID: Home Net\n\tfreq: 5180\n\tsignal: -52 dBm\n\ttx bitrate: 866.7 MBit/s VHT-MCS 9\n"
	got := parseIWLink(link)
	want := model.NetworkStatus{SSID: "Home Net", SignalDBm: -52, LinkRateMbps: 866.7, RadioOn: true}
	if got != want {
		t.Fatalf("parseIWLink() = %+v, want %+v", got, want)
	}

	if got := parseIWLink("Not connected.\n"); got != (model.NetworkStatus{RadioOn: true}) {
		t.Fatalf("parseIWLink(not connected) = %+v", got)
	}
}

func TestParseVolume(t *testing.T) {
	output := "Volume: front-left: 42598 /  65% / -11.23 dB,   front-right: 42598 /  65% / -11.23 dB\n"
	got, err := parseVolume(output)
	if err != nil || got != 65 {
		t.Fatalf("parseVolume() = %d, %v; want 65, nil", got, err)
	}
	if _, err := parseVolume("garbage"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("parseVolume(garbage) error = %v, want ErrUnavailable", err)
	}
}

func TestBatteryFromSysfs(t *testing.T) {
	root := t.TempDir()
	source := Battery{Root: root}

	got, err := source.Battery(context.Background())
	if err != nil || got.Present {
		t.Fatalf("Battery() without battery = %+v, %v; want absent", got, err)
	}

	dir := filepath.Join(root, "BAT0")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "capacity"), "73\n")
	writeFile(t, filepath.Join(dir, "status"), "Charging\n")

	got, err = source.Battery(context.Background())
	if err != nil {
		t.Fatalf("Battery() error = %v", err)
	}
	if got != (model.BatteryStatus{Present: true, Percent: 73, Charging: true}) {
		t.Fatalf("Battery() = %+v", got)
	}

	writeFile(t, filepath.Join(dir, "capacity"), "lots\n")
	if _, err := source.Battery(context.Background()); err == nil {
		t.Fatal("Battery() with bad capacity error = nil")
	}
}

func TestPerfSmoothing(t *testing.T) {
	readings := []float64{50, 100, 100}
	index := 0
	perf := &Perf{
		cpuPercent: func(context.Context) (float64, error) {
			value := readings[index]
			index++
			return value, nil
		},
		memoryPercent: func(context.Context) (float64, error) { return 40, nil },
	}
	ctx := context.Background()

	wantCPU := []float64{50, 65, 75.5}
	for i, want := range wantCPU {
		got, err := perf.Sample(ctx)
		if err != nil {
			t.Fatalf("Sample() error = %v", err)
		}
		if diff := got.CPUPercent - want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("sample %d cpu = %v, want %v", i, got.CPUPercent, want)
		}
		if got.MemoryPercent != 40 {
			t.Fatalf("sample %d memory = %v, want 40", i, got.MemoryPercent)
		}
	}

	perf.cpuPercent = func(context.Context) (float64, error) { return 0, ErrUnavailable }
	if _, err := perf.Sample(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Sample() error = %v, want ErrUnavailable", err)
	}
}

func TestICSCalendarNextEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.ics")
	writeFile(t, path, "BEGIN:VCALENDAR\r\n"+
		"VERSION:2.0\r\n"+
		"PRODID:-//notchpanel//test//EN\r\n"+
		"BEGIN:VEVENT\r\nUID:past\r\nDTSTART:20261014T080000Z\r\nSUMMARY:Breakfast\r\nEND:VEVENT\r\n"+
		"BEGIN:VEVENT\r\nUID:later\r\nDTSTART:20261014T150000Z\r\nSUMMARY:Review\r\nEND:VEVENT\r\n"+
		"BEGIN:VEVENT\r\nUID:soon\r\nDTSTART:20261014T100000Z\r\nSUMMARY:Standup\r\n"+
		"LOCATION:Room 4\r\nDESCRIPTION:Join at https://meet.example.com/abc-def\r\nEND:VEVENT\r\n"+
		"BEGIN:VEVENT\r\nUID:far\r\nDTSTART:20261020T100000Z\r\nSUMMARY:Offsite\r\nEND:VEVENT\r\n"+
		"END:VCALENDAR\r\n")

	source := ICSCalendar{Path: path}
	from := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	got, err := source.NextEvent(context.Background(), from, 48*time.Hour)
	if err != nil {
		t.Fatalf("NextEvent() error = %v", err)
	}
	if got == nil || got.ID != "soon" || got.Title != "Standup" || got.Location != "Room 4" {
		t.Fatalf("NextEvent() = %+v, want standup", got)
	}
	if got.JoinURL != "https://meet.example.com/abc-def" {
		t.Fatalf("JoinURL = %q", got.JoinURL)
	}
	if !got.Start.Equal(time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("Start = %v", got.Start)
	}

	got, err = source.NextEvent(context.Background(), from.Add(7*time.Hour), time.Hour)
	if err != nil || got != nil {
		t.Fatalf("NextEvent(empty window) = %+v, %v; want nil", got, err)
	}

	if _, err := (ICSCalendar{Path: filepath.Join(t.TempDir(), "missing.ics")}).NextEvent(context.Background(), from, time.Hour); err == nil {
		t.Fatal("NextEvent(missing file) error = nil")
	}
}

func TestLoopSounderBeepsUntilStopped(t *testing.T) {
	var beeps atomic.Int32
	sounder := newLoopSounder(nil, func() error {
		beeps.Add(1)
		return nil
	}, time.Millisecond)

	sounder.StartLoop()
	sounder.StartLoop()
	deadline := time.Now().Add(2 * time.Second)
	for beeps.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	sounder.StopLoop()
	stopped := beeps.Load()
	if stopped < 3 {
		t.Fatalf("beeps = %d, want at least 3", stopped)
	}
	time.Sleep(10 * time.Millisecond)
	if got := beeps.Load(); got > stopped+1 {
		t.Fatalf("beeps after stop = %d, want at most %d", got, stopped+1)
	}
	sounder.StopLoop()
}

func TestLoopSounderStopDoesNotWaitForBeep(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	sounder := newLoopSounder(nil, func() error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	}, time.Millisecond)
	defer close(release)

	sounder.StartLoop()
	<-started
	returned := make(chan struct{})
	go func() {
		sounder.StopLoop()
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("StopLoop blocked on the beep in progress")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
