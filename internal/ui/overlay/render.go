package overlay

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"notchpanel/internal/core/model"
	"notchpanel/internal/core/panel"
)

var defaultAccent = color.NRGBA{R: 10, G: 132, B: 255, A: 255}

// ParseAccent reads a #rrggbb color, falling back to the default accent.
func ParseAccent(value string) color.NRGBA {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(value) != 6 {
		return defaultAccent
	}
	rgb, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return defaultAccent
	}
	return color.NRGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 255}
}

// headline is the single line shown in the collapsed pill.
func headline(snapshot panel.Snapshot) string {
	switch snapshot.Presentation.Mode {
	case model.ModeMusic:
		return trackLine(snapshot.Media)
	case model.ModeBattery:
		return batteryLine(snapshot.Battery)
	case model.ModeVolume:
		if snapshot.Volume < 0 {
			return "Volume"
		}
		return fmt.Sprintf("Volume %d%%", snapshot.Volume)
	case model.ModeTimer:
		return "Timer " + formatDuration(snapshot.Countdown.Remaining)
	case model.ModeNotes:
		return fmt.Sprintf("Notes (%d)", len(snapshot.Notes))
	case model.ModeProductivity:
		return focusLine(snapshot.Focus)
	case model.ModeCompact:
		if snapshot.Media.Playing {
			return trackLine(snapshot.Media)
		}
		if snapshot.NextEvent != nil {
			return eventLine(*snapshot.NextEvent)
		}
		return ""
	default:
		return ""
	}
}

// details lists the expanded view rows, skipping empty sources.
func details(snapshot panel.Snapshot) []string {
	var lines []string
	if snapshot.AlarmRinging {
		lines = append(lines, "Alarm ringing")
	}
	if snapshot.FocusRinging {
		lines = append(lines, "Focus phase finished")
	}
	if snapshot.Media.Title != "" {
		state := "paused"
		if snapshot.Media.Playing {
			state = "playing"
		}
		lines = append(lines, fmt.Sprintf("%s (%s %s/%s)", trackLine(snapshot.Media), state,
			formatDuration(seconds(snapshot.Media.Position)), formatDuration(seconds(snapshot.Media.Duration))))
	}
	if snapshot.NextEvent != nil {
		lines = append(lines, eventLine(*snapshot.NextEvent))
	}
	if snapshot.Battery.Present {
		lines = append(lines, batteryLine(snapshot.Battery))
	}
	if snapshot.Network.SSID != "" {
		lines = append(lines, fmt.Sprintf("Wi-Fi %s %d dBm", snapshot.Network.SSID, snapshot.Network.SignalDBm))
	}
	if len(snapshot.Accessories) > 0 {
		names := make([]string, 0, len(snapshot.Accessories))
		for _, accessory := range snapshot.Accessories {
			if accessory.Battery >= 0 {
				names = append(names, fmt.Sprintf("%s %d%%", accessory.Name, accessory.Battery))
				continue
			}
			names = append(names, accessory.Name)
		}
		lines = append(lines, "Bluetooth: "+strings.Join(names, ", "))
	}
	if snapshot.Perf != (model.PerfSample{}) {
		lines = append(lines, fmt.Sprintf("CPU %.0f%%  RAM %.0f%%", snapshot.Perf.CPUPercent, snapshot.Perf.MemoryPercent))
	}
	if snapshot.Disk.Path != "" {
		lines = append(lines, fmt.Sprintf("Disk %s %.0f%% used", snapshot.Disk.Path, snapshot.Disk.UsedPercent))
	}
	if snapshot.Focus.Running {
		lines = append(lines, focusLine(snapshot.Focus))
	}
	if snapshot.Countdown.Running {
		lines = append(lines, "Timer "+formatDuration(snapshot.Countdown.Remaining))
	}
	if len(snapshot.Clipboard) > 0 {
		lines = append(lines, "Copied: "+truncate(snapshot.Clipboard[0].Text, 40))
	}
	return lines
}

func trackLine(status model.MediaStatus) string {
	switch {
	case status.Title == "":
		return ""
	case status.Artist == "":
		return status.Title
	default:
		return status.Title + " - " + status.Artist
	}
}

func batteryLine(status model.BatteryStatus) string {
	if !status.Present {
		return "No battery"
	}
	if status.Charging {
		return fmt.Sprintf("Battery %d%% charging", status.Percent)
	}
	return fmt.Sprintf("Battery %d%%", status.Percent)
}

func focusLine(session model.FocusSession) string {
	label := "Focus"
	switch session.Mode {
	case model.FocusShortBreak:
		label = "Short break"
	case model.FocusLongBreak:
		label = "Long break"
	}
	return label + " " + formatDuration(session.Remaining)
}

func eventLine(event model.CalendarEvent) string {
	return fmt.Sprintf("%s at %s", event.Title, event.Start.Local().Format("15:04"))
}

func seconds(value float64) time.Duration {
	return time.Duration(value * float64(time.Second))
}

func truncate(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}

func formatDuration(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	total := int(value.Seconds())
	hours := total / 3600
	minutes := total % 3600 / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// controls names the mode-specific rows shown under the details.
type controls struct {
	notes bool
	focus bool
	timer bool
}

func controlsFor(mode model.DisplayMode) controls {
	return controls{
		notes: mode == model.ModeNotes,
		focus: mode == model.ModeProductivity,
		timer: mode == model.ModeTimer,
	}
}

func indexOfNote(notes []model.Note, id string) int {
	for index, note := range notes {
		if note.ID == id {
			return index
		}
	}
	return -1
}

func sameNotes(a, b []model.Note) bool {
	if len(a) != len(b) {
		return false
	}
	for index := range a {
		if a[index] != b[index] {
			return false
		}
	}
	return true
}

// phaseDuration is the configured length of the selected focus phase.
func phaseDuration(session model.FocusSession) time.Duration {
	switch session.Mode {
	case model.FocusShortBreak:
		return session.BreakDuration
	case model.FocusLongBreak:
		return session.LongBreakDuration
	default:
		return session.WorkDuration
	}
}

// adjustMinutes steps a phase length by delta minutes, never below one.
func adjustMinutes(current time.Duration, delta int) int {
	minutes := int(current.Minutes()) + delta
	if minutes < 1 {
		return 1
	}
	return minutes
}
