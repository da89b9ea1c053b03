// Package countdown implements the standalone countdown timer.
package countdown

import (
	"time"

	"notchpanel/internal/core/model"
)

// Timer counts down once per tick. Methods run on the owning goroutine.
type Timer struct {
	state      model.CountdownTimer
	OnFinished func()
}

// State returns the timer state.
func (timer *Timer) State() model.CountdownTimer {
	return timer.state
}

// Start begins a fresh countdown of total.
func (timer *Timer) Start(total time.Duration) {
	if total <= 0 {
		return
	}
	timer.state = model.CountdownTimer{Remaining: total, Total: total, Running: true}
}

// Pause halts the countdown.
func (timer *Timer) Pause() {
	timer.state.Running = false
}

// Resume continues a paused countdown.
func (timer *Timer) Resume() {
	if timer.state.Remaining > 0 {
		timer.state.Running = true
	}
}

// Reset stops the countdown and restores the total.
func (timer *Timer) Reset() {
	timer.state.Running = false
	timer.state.Remaining = timer.state.Total
}

// Tick advances a running countdown by one second.
func (timer *Timer) Tick() {
	if !timer.state.Running {
		return
	}
	timer.state.Remaining -= time.Second
	if timer.state.Remaining > 0 {
		return
	}
	timer.state.Remaining = 0
	timer.state.Running = false
	if timer.OnFinished != nil {
		timer.OnFinished()
	}
}
