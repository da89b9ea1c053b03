// Package alarms fires wall-clock alarms with weekday repeat schedules.
package alarms

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"notchpanel/internal/core/model"
	"notchpanel/internal/core/ringer"
)

// ErrNotFound indicates an unknown alarm id.
var ErrNotFound = errors.New("alarm not found")

// ErrInvalidTime indicates an hour or minute out of range.
var ErrInvalidTime = errors.New("invalid alarm time")

// Hooks are optional callbacks run on the owning goroutine.
type Hooks struct {
	OnFire  func(model.Alarm)
	Persist func([]model.Alarm)
}

// Engine owns the alarm list and edge-triggers alarms once per minute.
type Engine struct {
	alarms    []model.Alarm
	ringer    *ringer.Ringer
	hooks     Hooks
	lastTick  time.Time
	lastFired map[string]time.Time
}

// New creates an engine seeded with persisted alarms.
func New(alarms []model.Alarm, ring *ringer.Ringer, hooks Hooks) *Engine {
	return &Engine{
		alarms:    append([]model.Alarm(nil), alarms...),
		ringer:    ring,
		hooks:     hooks,
		lastFired: make(map[string]time.Time),
	}
}

// List returns a copy of all alarms.
func (engine *Engine) List() []model.Alarm {
	return append([]model.Alarm(nil), engine.alarms...)
}

// Ringing reports whether an alarm is currently ringing.
func (engine *Engine) Ringing() bool {
	return engine.ringer.Ringing()
}

// Add stores a new alarm and returns it with an assigned id.
func (engine *Engine) Add(alarm model.Alarm) (model.Alarm, error) {
	if err := validate(alarm); err != nil {
		return model.Alarm{}, err
	}
	alarm.ID = uuid.NewString()
	engine.alarms = append(engine.alarms, alarm)
	engine.persist()
	return alarm, nil
}

// Update replaces the alarm with the same id.
func (engine *Engine) Update(alarm model.Alarm) error {
	if err := validate(alarm); err != nil {
		return err
	}
	index := engine.indexOf(alarm.ID)
	if index < 0 {
		return fmt.Errorf("update alarm %s: %w", alarm.ID, ErrNotFound)
	}
	engine.alarms[index] = alarm
	delete(engine.lastFired, alarm.ID)
	engine.persist()
	return nil
}

// Delete removes the alarm with id.
func (engine *Engine) Delete(id string) error {
	index := engine.indexOf(id)
	if index < 0 {
		return fmt.Errorf("delete alarm %s: %w", id, ErrNotFound)
	}
	engine.alarms = append(engine.alarms[:index], engine.alarms[index+1:]...)
	delete(engine.lastFired, id)
	engine.persist()
	return nil
}

// SetEnabled toggles an alarm.
func (engine *Engine) SetEnabled(id string, enabled bool) error {
	index := engine.indexOf(id)
	if index < 0 {
		return fmt.Errorf("enable alarm %s: %w", id, ErrNotFound)
	}
	engine.alarms[index].Enabled = enabled
	engine.persist()
	return nil
}

// Stop silences a ringing alarm. Enabled flags are not touched.
func (engine *Engine) Stop() {
	engine.ringer.Stop()
}

// Tick compares now against every enabled alarm. An alarm fires when the tick
// crosses into its minute: second zero, or the previous tick was in an
// earlier minute.
func (engine *Engine) Tick(now time.Time) {
	minute := now.Truncate(time.Minute)
	crossed := now.Second() == 0
	if !engine.lastTick.IsZero() && engine.lastTick.Before(minute) {
		crossed = true
	}
	engine.lastTick = now
	if !crossed {
		return
	}

	fired := false
	for index := range engine.alarms {
		alarm := engine.alarms[index]
		if !alarm.Enabled || alarm.Hour != now.Hour() || alarm.Minute != now.Minute() {
			continue
		}
		if !alarm.Repeat.Empty() && !alarm.Repeat.Has(now.Weekday()) {
			continue
		}
		if last, ok := engine.lastFired[alarm.ID]; ok && last.Equal(minute) {
			continue
		}
		engine.lastFired[alarm.ID] = minute
		if alarm.Repeat.Empty() {
			engine.alarms[index].Enabled = false
		}
		fired = true
		engine.ringer.Ring()
		if engine.hooks.OnFire != nil {
			engine.hooks.OnFire(alarm)
		}
	}
	if fired {
		engine.persist()
	}
}

func (engine *Engine) indexOf(id string) int {
	for index, alarm := range engine.alarms {
		if alarm.ID == id {
			return index
		}
	}
	return -1
}

func (engine *Engine) persist() {
	if engine.hooks.Persist != nil {
		engine.hooks.Persist(engine.List())
	}
}

func validate(alarm model.Alarm) error {
	if alarm.Hour < 0 || alarm.Hour > 23 || alarm.Minute < 0 || alarm.Minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, alarm.Hour, alarm.Minute)
	}
	return nil
}
