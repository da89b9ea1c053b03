package panel

import (
	"context"

	"notchpanel/internal/core/model"
	"notchpanel/internal/core/scheduler"
)

const (
	taskTick      = "tick"
	taskClipboard = "clipboard"
	taskMedia     = "media"
	taskBluetooth = "bluetooth"
	taskWiFi      = "wifi"
	taskCalendar  = "calendar"
	taskPerf      = "perf"
	taskDisk      = "disk"
	taskBattery   = "battery"
	taskVolume    = "volume"
)

func (panel *Panel) tasks() []scheduler.Task {
	cadences := panel.config.Cadences
	tasks := []scheduler.Task{{
		Name:  taskTick,
		Every: cadences.Tick,
		Poll: func(context.Context) (func(), error) {
			return panel.tick, nil
		},
	}}

	if source := panel.deps.Clipboard; source != nil {
		tasks = append(tasks, scheduler.Task{
			Name:      taskClipboard,
			Every:     cadences.Clipboard,
			Immediate: true,
			Poll: func(ctx context.Context) (func(), error) {
				text, err := source.ReadText(ctx)
				if err != nil {
					return nil, err
				}
				return func() { panel.applyClipboard(text) }, nil
			},
		})
	}

	if resolver := panel.deps.Media; resolver != nil {
		tasks = append(tasks, scheduler.Task{
			Name:      taskMedia,
			Every:     cadences.Media,
			Immediate: true,
			Poll: func(ctx context.Context) (func(), error) {
				status, err := resolver.Status(ctx, model.PlayerKind(panel.preferred.Load()))
				if err != nil {
					return nil, err
				}
				return func() {
					panel.tracker.ApplyResync(status)
					panel.preferred.Store(int32(status.Player))
				}, nil
			},
		})
	}

	if source := panel.deps.Accessories; source != nil {
		tasks = append(tasks, scheduler.Task{
			Name:         taskBluetooth,
			Every:        cadences.Bluetooth,
			Immediate:    true,
			ApplyOnError: true,
			Poll: func(ctx context.Context) (func(), error) {
				accessories, err := source.Accessories(ctx)
				if err != nil {
					accessories = nil
				}
				return func() { panel.accessories = accessories }, err
			},
		})
	}

	if source := panel.deps.Network; source != nil {
		tasks = append(tasks, scheduler.Task{
			Name:         taskWiFi,
			Every:        cadences.WiFi,
			Immediate:    true,
			ApplyOnError: true,
			Poll: func(ctx context.Context) (func(), error) {
				network, err := source.Network(ctx)
				if err != nil {
					network = model.NetworkStatus{}
				}
				return func() { panel.network = network }, err
			},
		})
	}

	if source := panel.deps.Calendar; source != nil {
		tasks = append(tasks, scheduler.Task{
			Name:      taskCalendar,
			Every:     cadences.Calendar,
			Immediate: true,
			Poll: func(ctx context.Context) (func(), error) {
				event, err := source.NextEvent(ctx, panel.clock.Now(), panel.config.CalendarWindow)
				if err != nil {
					return nil, err
				}
				return func() { panel.nextEvent = event }, nil
			},
		})
	}

	if source := panel.deps.Perf; source != nil {
		tasks = append(tasks, scheduler.Task{
			Name:  taskPerf,
			Every: cadences.Perf,
			Poll: func(ctx context.Context) (func(), error) {
				sample, err := source.Sample(ctx)
				if err != nil {
					return nil, err
				}
				return func() { panel.perf = sample }, nil
			},
		})
	}

	if source := panel.deps.Disk; source != nil {
		tasks = append(tasks, scheduler.Task{
			Name:      taskDisk,
			Every:     cadences.Disk,
			Immediate: true,
			Poll: func(ctx context.Context) (func(), error) {
				usage, err := source.Usage(ctx, panel.config.DiskPath)
				if err != nil {
					return nil, err
				}
				return func() { panel.disk = usage }, nil
			},
		})
	}

	if source := panel.deps.Battery; source != nil {
		tasks = append(tasks, scheduler.Task{
			Name:      taskBattery,
			Every:     cadences.Battery,
			Immediate: true,
			Poll: func(ctx context.Context) (func(), error) {
				status, err := source.Battery(ctx)
				if err != nil {
					return nil, err
				}
				return func() { panel.applyBattery(status) }, nil
			},
		})
	}

	if source := panel.deps.Volume; source != nil {
		tasks = append(tasks, scheduler.Task{
			Name:  taskVolume,
			Every: cadences.Volume,
			Poll: func(ctx context.Context) (func(), error) {
				level, err := source.Volume(ctx)
				if err != nil {
					return nil, err
				}
				return func() { panel.volume = level }, nil
			},
		})
	}
	return tasks
}

// tick advances every one-second counter.
func (panel *Panel) tick() {
	panel.countdown.Tick()
	panel.focus.Tick()
	panel.alarms.Tick(panel.clock.Now())
	panel.tracker.Tick()
}

func (panel *Panel) applyClipboard(text string) {
	if text == "" || text == panel.lastClipText {
		return
	}
	panel.lastClipText = text

	history := make([]model.ClipboardEntry, 0, panel.config.ClipboardHistory)
	history = append(history, model.ClipboardEntry{Text: text, CopiedAt: panel.clock.Now()})
	for _, entry := range panel.clipboard {
		if len(history) == panel.config.ClipboardHistory {
			break
		}
		if entry.Text != text {
			history = append(history, entry)
		}
	}
	panel.clipboard = history
}

func (panel *Panel) applyBattery(status model.BatteryStatus) {
	risingEdge := panel.batterySeen && status.Charging && !panel.battery.Charging
	panel.battery = status
	panel.batterySeen = true
	if risingEdge {
		panel.machine.SetMode(model.ModeBattery, true)
	}
}
