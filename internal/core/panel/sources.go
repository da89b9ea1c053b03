package panel

import (
	"context"
	"time"

	"notchpanel/internal/core/model"
)

// ClipboardReader returns the current clipboard text.
type ClipboardReader interface {
	ReadText(ctx context.Context) (string, error)
}

// AccessoryScanner lists connected Bluetooth accessories.
type AccessoryScanner interface {
	Accessories(ctx context.Context) ([]model.Accessory, error)
}

// NetworkReader reports the current wireless link.
type NetworkReader interface {
	Network(ctx context.Context) (model.NetworkStatus, error)
}

// CalendarReader returns the next event starting in [from, from+window), or
// nil when there is none.
type CalendarReader interface {
	NextEvent(ctx context.Context, from time.Time, window time.Duration) (*model.CalendarEvent, error)
}

// PerfSampler returns smoothed CPU and memory utilisation.
type PerfSampler interface {
	Sample(ctx context.Context) (model.PerfSample, error)
}

// DiskReader reports usage of a mount point.
type DiskReader interface {
	Usage(ctx context.Context, path string) (model.DiskUsage, error)
}

// BatteryReader reports the primary battery.
type BatteryReader interface {
	Battery(ctx context.Context) (model.BatteryStatus, error)
}

// VolumeReader reports the output volume as a percentage.
type VolumeReader interface {
	Volume(ctx context.Context) (int, error)
}

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, message string) error
}

// Persistence saves user data that the panel mutates.
type Persistence interface {
	SaveAlarms(alarms []model.Alarm) error
	SaveFocus(config model.FocusConfig) error
}
