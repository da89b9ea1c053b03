// Package focus runs Pomodoro work and break cycles.
package focus

import (
	"time"

	"notchpanel/internal/core/model"
	"notchpanel/internal/core/ringer"
)

// Engine is the Pomodoro state machine. Methods run on the owning goroutine.
type Engine struct {
	session model.FocusSession
	ringer  *ringer.Ringer
	onReset func()
}

// New creates a stopped work session.
func New(config model.FocusConfig, ring *ringer.Ringer, onReset func()) *Engine {
	config = config.WithDefaults()
	return &Engine{
		session: model.FocusSession{
			Mode:              model.FocusWork,
			Remaining:         config.Work,
			WorkDuration:      config.Work,
			BreakDuration:     config.ShortBreak,
			LongBreakDuration: config.LongBreak,
		},
		ringer:  ring,
		onReset: onReset,
	}
}

// Session returns the current session.
func (engine *Engine) Session() model.FocusSession {
	return engine.session
}

// Ringing reports whether the end-of-phase overlay is active.
func (engine *Engine) Ringing() bool {
	return engine.ringer.Ringing()
}

// Start resumes counting down the current phase.
func (engine *Engine) Start() {
	if engine.session.Remaining <= 0 {
		engine.session.Remaining = engine.durationFor(engine.session.Mode)
	}
	engine.session.Running = true
}

// Pause stops counting down without resetting.
func (engine *Engine) Pause() {
	engine.session.Running = false
}

// Toggle starts or pauses the session.
func (engine *Engine) Toggle() {
	if engine.session.Running {
		engine.Pause()
		return
	}
	engine.Start()
}

// Reset stops the session and restores the current phase's full duration.
func (engine *Engine) Reset() {
	engine.session.Running = false
	engine.session.Remaining = engine.durationFor(engine.session.Mode)
	if engine.onReset != nil {
		engine.onReset()
	}
}

// SelectMode switches phase manually. Long breaks are only reachable this way.
func (engine *Engine) SelectMode(mode model.FocusMode) {
	engine.session.Mode = mode
	engine.session.Running = false
	engine.session.Remaining = engine.durationFor(mode)
}

// SetDuration changes the selected phase's duration and resets remaining.
// It never starts the session.
func (engine *Engine) SetDuration(minutes int) {
	if minutes <= 0 {
		return
	}
	duration := time.Duration(minutes) * time.Minute
	switch engine.session.Mode {
	case model.FocusWork:
		engine.session.WorkDuration = duration
	case model.FocusShortBreak:
		engine.session.BreakDuration = duration
	case model.FocusLongBreak:
		engine.session.LongBreakDuration = duration
	}
	engine.session.Remaining = duration
}

// Configure replaces all phase durations. A stopped session picks up its
// phase's new length; a running one keeps counting down.
func (engine *Engine) Configure(config model.FocusConfig) {
	config = config.WithDefaults()
	engine.session.WorkDuration = config.Work
	engine.session.BreakDuration = config.ShortBreak
	engine.session.LongBreakDuration = config.LongBreak
	if !engine.session.Running {
		engine.session.Remaining = engine.durationFor(engine.session.Mode)
	}
}

// StopRinging silences the end-of-phase alert.
func (engine *Engine) StopRinging() {
	engine.ringer.Stop()
}

// Tick advances a running session by one second.
func (engine *Engine) Tick() {
	if !engine.session.Running || engine.session.Remaining <= 0 {
		return
	}
	engine.session.Remaining -= time.Second
	if engine.session.Remaining > 0 {
		return
	}
	engine.completePhase()
}

func (engine *Engine) completePhase() {
	next := model.FocusWork
	if engine.session.Mode == model.FocusWork {
		engine.session.CycleCount++
		next = model.FocusShortBreak
	}
	engine.session.Mode = next
	engine.session.Remaining = engine.durationFor(next)
	engine.session.Running = false
	engine.ringer.Ring()
}

func (engine *Engine) durationFor(mode model.FocusMode) time.Duration {
	switch mode {
	case model.FocusShortBreak:
		return engine.session.BreakDuration
	case model.FocusLongBreak:
		return engine.session.LongBreakDuration
	default:
		return engine.session.WorkDuration
	}
}
