package model

import (
	"strings"
	"time"
)

// DisplayMode is the single top-level content the panel shows.
type DisplayMode string

const (
	ModeIdle         DisplayMode = "idle"
	ModeCompact      DisplayMode = "compact"
	ModeMusic        DisplayMode = "music"
	ModeBattery      DisplayMode = "battery"
	ModeVolume       DisplayMode = "volume"
	ModeTimer        DisplayMode = "timer"
	ModeNotes        DisplayMode = "notes"
	ModeProductivity DisplayMode = "productivity"
)

// PresentationState is owned by the presentation machine.
type PresentationState struct {
	Mode         DisplayMode
	Expanded     bool
	Hovering     bool
	Disabled     bool
	LastCollapse time.Time
}

// PlayerKind identifies which media adapter produced a status.
type PlayerKind int

const (
	PlayerUnknown PlayerKind = iota
	PlayerSpotify
	PlayerAppleMusic
	PlayerMPRIS
)

func (kind PlayerKind) String() string {
	switch kind {
	case PlayerSpotify:
		return "spotify"
	case PlayerAppleMusic:
		return "music"
	case PlayerMPRIS:
		return "mpris"
	default:
		return "unknown"
	}
}

// PlayerKindFromSource maps a notification origin or bus name to a player kind.
func PlayerKindFromSource(source string) PlayerKind {
	lower := strings.ToLower(source)
	switch {
	case strings.Contains(lower, "spotify"):
		return PlayerSpotify
	case strings.Contains(lower, "com.apple.music"), strings.Contains(lower, "itunes"), lower == "music":
		return PlayerAppleMusic
	case strings.HasPrefix(lower, "org.mpris.mediaplayer2."):
		return PlayerMPRIS
	default:
		return PlayerUnknown
	}
}

// MediaStatus is the latest known playback state. Position and Duration are seconds.
type MediaStatus struct {
	Title    string
	Artist   string
	Playing  bool
	Position float64
	Duration float64
	Player   PlayerKind
}

// Accessory is a connected Bluetooth device. Battery is -1 when unknown.
type Accessory struct {
	ID        string
	Name      string
	Connected bool
	Battery   int
}

// NetworkStatus describes the current wireless link.
type NetworkStatus struct {
	Interface    string
	SSID         string
	SignalDBm    int
	LinkRateMbps float64
	RadioOn      bool
}

// CalendarEvent is the next upcoming event.
type CalendarEvent struct {
	ID       string
	Title    string
	Start    time.Time
	Location string
	JoinURL  string
}

// TempNotePrefix marks note ids that have not been created externally yet.
const TempNotePrefix = "local-"

// Note is a quick note. ID is either durable or a temporary local id.
type Note struct {
	ID      string
	Content string
}

// IsTemporary reports whether the note is still pending creation.
func (note Note) IsTemporary() bool {
	return strings.HasPrefix(note.ID, TempNotePrefix)
}

// Weekdays is a set of weekdays encoded as bits indexed by time.Weekday.
type Weekdays uint8

// NewWeekdays builds a set from the given days.
func NewWeekdays(days ...time.Weekday) Weekdays {
	var set Weekdays
	for _, day := range days {
		set = set.With(day)
	}
	return set
}

// With returns the set including day.
func (set Weekdays) With(day time.Weekday) Weekdays {
	return set | 1<<uint(day)
}

// Has reports whether day is in the set.
func (set Weekdays) Has(day time.Weekday) bool {
	return set&(1<<uint(day)) != 0
}

// Empty reports whether the set means "once".
func (set Weekdays) Empty() bool {
	return set == 0
}

// Days returns members in Sunday-first order.
func (set Weekdays) Days() []time.Weekday {
	var days []time.Weekday
	for day := time.Sunday; day <= time.Saturday; day++ {
		if set.Has(day) {
			days = append(days, day)
		}
	}
	return days
}

// Alarm fires at Hour:Minute on Repeat days, or once when Repeat is empty.
type Alarm struct {
	ID      string
	Hour    int
	Minute  int
	Label   string
	Enabled bool
	Repeat  Weekdays
}

// FocusMode is the Pomodoro phase.
type FocusMode string

const (
	FocusWork       FocusMode = "work"
	FocusShortBreak FocusMode = "short_break"
	FocusLongBreak  FocusMode = "long_break"
)

// FocusSession is the Pomodoro state.
type FocusSession struct {
	Mode              FocusMode
	Remaining         time.Duration
	Running           bool
	CycleCount        int
	WorkDuration      time.Duration
	BreakDuration     time.Duration
	LongBreakDuration time.Duration
}

// CountdownTimer is the standalone timer, independent of focus sessions.
type CountdownTimer struct {
	Remaining time.Duration
	Total     time.Duration
	Running   bool
}

// PerfSample holds smoothed utilisation percentages.
type PerfSample struct {
	CPUPercent    float64
	MemoryPercent float64
}

// DiskUsage describes a mount point.
type DiskUsage struct {
	Path        string
	UsedPercent float64
	FreeBytes   uint64
}

// BatteryStatus describes the primary battery.
type BatteryStatus struct {
	Present  bool
	Percent  int
	Charging bool
}

// ClipboardEntry is a remembered clipboard value.
type ClipboardEntry struct {
	Text     string
	CopiedAt time.Time
}
