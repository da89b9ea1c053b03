package preferences

import (
	"fmt"
	"strings"
	"time"

	"notchpanel/internal/core/model"
)

// Days offered as repeat choices, Monday first.
var Days = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var dayValues = map[string]time.Weekday{
	"Mon": time.Monday,
	"Tue": time.Tuesday,
	"Wed": time.Wednesday,
	"Thu": time.Thursday,
	"Fri": time.Friday,
	"Sat": time.Saturday,
	"Sun": time.Sunday,
}

// alarmForm holds the textual fields of the alarm editor.
type alarmForm struct {
	Time  string
	Label string
	Days  []string
}

func alarmFormFrom(alarm model.Alarm) alarmForm {
	values := alarmForm{
		Time:  fmt.Sprintf("%02d:%02d", alarm.Hour, alarm.Minute),
		Label: alarm.Label,
	}
	for _, name := range Days {
		if alarm.Repeat.Has(dayValues[name]) {
			values.Days = append(values.Days, name)
		}
	}
	return values
}

// alarm parses the form. The returned alarm is enabled and has no id.
func (values alarmForm) alarm() (model.Alarm, error) {
	var hour, minute int
	text := strings.TrimSpace(values.Time)
	if _, err := fmt.Sscanf(text, "%d:%d", &hour, &minute); err != nil {
		return model.Alarm{}, fmt.Errorf("alarm time %q: want HH:MM", text)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return model.Alarm{}, fmt.Errorf("alarm time %q: out of range", text)
	}
	alarm := model.Alarm{
		Hour:    hour,
		Minute:  minute,
		Label:   strings.TrimSpace(values.Label),
		Enabled: true,
	}
	for _, name := range values.Days {
		if day, ok := dayValues[name]; ok {
			alarm.Repeat = alarm.Repeat.With(day)
		}
	}
	return alarm, nil
}

// alarmLine is the list and tray label of an alarm.
func alarmLine(alarm model.Alarm) string {
	line := fmt.Sprintf("%02d:%02d", alarm.Hour, alarm.Minute)
	if alarm.Label != "" {
		line += " " + alarm.Label
	}
	if alarm.Repeat.Empty() {
		return line + " (once)"
	}
	days := alarmFormFrom(alarm).Days
	return line + " (" + strings.Join(days, " ") + ")"
}
