package model

import "time"

// PanelConfig contains timing parameters for the presentation state machine.
type PanelConfig struct {
	CollapseDelay time.Duration
	HoverGrace    time.Duration
	RingTimeout   time.Duration
}

// DefaultPanelConfig returns the reference timing values.
func DefaultPanelConfig() PanelConfig {
	return PanelConfig{
		CollapseDelay: 7 * time.Second,
		HoverGrace:    500 * time.Millisecond,
		RingTimeout:   60 * time.Second,
	}
}

// WithDefaults replaces zero values with defaults.
func (config PanelConfig) WithDefaults() PanelConfig {
	defaults := DefaultPanelConfig()
	if config.CollapseDelay <= 0 {
		config.CollapseDelay = defaults.CollapseDelay
	}
	if config.HoverGrace <= 0 {
		config.HoverGrace = defaults.HoverGrace
	}
	if config.RingTimeout <= 0 {
		config.RingTimeout = defaults.RingTimeout
	}
	return config
}

// FocusConfig defines the Pomodoro durations.
type FocusConfig struct {
	Work       time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration
}

// DefaultFocusConfig returns classic Pomodoro durations.
func DefaultFocusConfig() FocusConfig {
	return FocusConfig{
		Work:       25 * time.Minute,
		ShortBreak: 5 * time.Minute,
		LongBreak:  15 * time.Minute,
	}
}

// WithDefaults replaces zero values with defaults.
func (config FocusConfig) WithDefaults() FocusConfig {
	defaults := DefaultFocusConfig()
	if config.Work <= 0 {
		config.Work = defaults.Work
	}
	if config.ShortBreak <= 0 {
		config.ShortBreak = defaults.ShortBreak
	}
	if config.LongBreak <= 0 {
		config.LongBreak = defaults.LongBreak
	}
	return config
}

// Cadences holds the polling interval of every status source.
type Cadences struct {
	Tick        time.Duration
	Clipboard   time.Duration
	Media       time.Duration
	Bluetooth   time.Duration
	WiFi        time.Duration
	Calendar    time.Duration
	Perf        time.Duration
	Disk        time.Duration
	Battery     time.Duration
	Volume      time.Duration
	PollTimeout time.Duration
}

// DefaultCadences returns the reference polling intervals.
func DefaultCadences() Cadences {
	return Cadences{
		Tick:      time.Second,
		Clipboard: time.Second,
		Media:     2 * time.Second,
		Bluetooth: 30 * time.Second,
		WiFi:      30 * time.Second,
		Calendar:  10 * time.Minute,
		Perf:      3 * time.Second,
		Disk:      time.Minute,
		Battery:   10 * time.Second,
		Volume:    30 * time.Second,
	}
}

// WithDefaults replaces zero intervals with defaults. PollTimeout stays zero
// (unbounded) unless set.
func (cadences Cadences) WithDefaults() Cadences {
	defaults := DefaultCadences()
	fill := func(value *time.Duration, fallback time.Duration) {
		if *value <= 0 {
			*value = fallback
		}
	}
	fill(&cadences.Tick, defaults.Tick)
	fill(&cadences.Clipboard, defaults.Clipboard)
	fill(&cadences.Media, defaults.Media)
	fill(&cadences.Bluetooth, defaults.Bluetooth)
	fill(&cadences.WiFi, defaults.WiFi)
	fill(&cadences.Calendar, defaults.Calendar)
	fill(&cadences.Perf, defaults.Perf)
	fill(&cadences.Disk, defaults.Disk)
	fill(&cadences.Battery, defaults.Battery)
	fill(&cadences.Volume, defaults.Volume)
	return cadences
}
