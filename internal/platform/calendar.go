package platform

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"notchpanel/internal/core/model"
)

var meetingURL = regexp.MustCompile(`https?://[^\s<>"]+`)

// ICSCalendar reads upcoming events from an iCalendar file. Recurring events
// are taken at their first occurrence only.
type ICSCalendar struct {
	Path string
}

// NextEvent returns the earliest event starting within [from, from+window],
// or nil when there is none.
func (source ICSCalendar) NextEvent(_ context.Context, from time.Time, window time.Duration) (*model.CalendarEvent, error) {
	file, err := os.Open(source.Path)
	if err != nil {
		return nil, fmt.Errorf("open calendar %s: %w", source.Path, err)
	}
	defer file.Close()

	calendar, err := ics.ParseCalendar(file)
	if err != nil {
		return nil, fmt.Errorf("parse calendar %s: %w", source.Path, err)
	}
	return nextEvent(calendar.Events(), from, window), nil
}

func nextEvent(events []*ics.VEvent, from time.Time, window time.Duration) *model.CalendarEvent {
	until := from.Add(window)
	var next *model.CalendarEvent
	for _, event := range events {
		start, err := event.GetStartAt()
		if err != nil {
			continue
		}
		if start.Before(from) || start.After(until) {
			continue
		}
		if next != nil && !start.Before(next.Start) {
			continue
		}
		candidate := &model.CalendarEvent{
			ID:       event.Id(),
			Title:    propertyValue(event, ics.ComponentPropertySummary),
			Start:    start,
			Location: propertyValue(event, ics.ComponentPropertyLocation),
		}
		candidate.JoinURL = joinURL(
			propertyValue(event, ics.ComponentPropertyUrl),
			candidate.Location,
			propertyValue(event, ics.ComponentPropertyDescription),
		)
		next = candidate
	}
	return next
}

func propertyValue(event *ics.VEvent, property ics.ComponentProperty) string {
	prop := event.GetProperty(property)
	if prop == nil {
		return ""
	}
	return strings.TrimSpace(prop.Value)
}

// joinURL returns the first link found in the candidates, in order.
func joinURL(candidates ...string) string {
	for _, candidate := range candidates {
		if found := meetingURL.FindString(candidate); found != "" {
			return found
		}
	}
	return ""
}
