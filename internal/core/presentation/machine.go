// Package presentation owns the panel display mode, the expanded flag and the
// hover-driven collapse timing.
package presentation

import (
	"notchpanel/internal/core/clock"
	"notchpanel/internal/core/loop"
	"notchpanel/internal/core/model"
)

// Hooks are optional callbacks run on the owning goroutine.
type Hooks struct {
	OnExpand func()
	OnChange func(model.PresentationState)
}

// Machine is the mode state machine plus the hover and collapse timing engine.
// All methods must be called on the owning goroutine.
type Machine struct {
	clock  clock.Clock
	post   loop.Poster
	config model.PanelConfig
	hooks  Hooks

	state          model.PresentationState
	playing        bool
	overlayVisible bool

	collapseTimer clock.Timer
	timerSeq      uint64
}

// New creates a machine in idle, collapsed state.
func New(clk clock.Clock, post loop.Poster, config model.PanelConfig, hooks Hooks) *Machine {
	if clk == nil {
		clk = clock.Real{}
	}
	if post == nil {
		post = loop.Inline{}
	}
	return &Machine{
		clock:  clk,
		post:   post,
		config: config.WithDefaults(),
		hooks:  hooks,
		state:  model.PresentationState{Mode: model.ModeIdle},
	}
}

// State returns the current presentation state.
func (machine *Machine) State() model.PresentationState {
	return machine.state
}

// Playing reports the last media playing flag seen by the machine.
func (machine *Machine) Playing() bool {
	return machine.playing
}

// CollapsePending reports whether a collapse timer is armed.
func (machine *Machine) CollapsePending() bool {
	return machine.collapseTimer != nil
}

// UpdateConfig replaces timing parameters. A pending timer keeps its delay.
func (machine *Machine) UpdateConfig(config model.PanelConfig) {
	machine.config = config.WithDefaults()
}

// SetMode switches the display mode. Battery forces expansion and idle forces
// collapse. With autoCollapse the collapse timer is restarted unless the
// pointer is over the panel.
func (machine *Machine) SetMode(target model.DisplayMode, autoCollapse bool) {
	machine.state.Mode = target
	switch target {
	case model.ModeBattery:
		if !machine.state.Disabled {
			machine.state.Expanded = true
		}
	case model.ModeIdle:
		if machine.state.Expanded {
			machine.state.Expanded = false
			machine.state.LastCollapse = machine.clock.Now()
		}
	}
	if autoCollapse && target != model.ModeIdle && !machine.state.Hovering {
		machine.restartCollapseTimer()
	}
	machine.changed()
}

// Expand opens the panel and cancels any pending collapse.
func (machine *Machine) Expand() {
	if machine.state.Expanded || machine.state.Disabled {
		return
	}
	machine.state.Expanded = true
	machine.cancelCollapseTimer()
	if machine.hooks.OnExpand != nil {
		machine.hooks.OnExpand()
	}
	machine.changed()
}

// Collapse closes the panel and opens the hover grace window.
func (machine *Machine) Collapse() {
	if !machine.state.Expanded {
		return
	}
	machine.state.Expanded = false
	machine.state.LastCollapse = machine.clock.Now()
	machine.changed()
}

// ToggleExpand flips between expanded and collapsed.
func (machine *Machine) ToggleExpand() {
	if machine.state.Expanded {
		machine.Collapse()
		return
	}
	machine.Expand()
}

// SetHovering records pointer presence over the panel.
func (machine *Machine) SetHovering(hovering bool) {
	if machine.state.Hovering == hovering {
		return
	}
	machine.state.Hovering = hovering

	if !hovering {
		if machine.state.Expanded && machine.state.Mode != model.ModeIdle {
			machine.restartCollapseTimer()
		}
		machine.changed()
		return
	}

	machine.cancelCollapseTimer()
	if machine.state.Disabled || machine.inGraceWindow() {
		machine.changed()
		return
	}
	if machine.state.Mode == model.ModeIdle {
		machine.SetMode(model.ModeCompact, false)
	}
	machine.Expand()
	machine.changed()
}

// SetPlaying couples media playback to the music mode.
func (machine *Machine) SetPlaying(playing bool) {
	if machine.playing == playing {
		return
	}
	machine.playing = playing
	if machine.state.Disabled {
		return
	}
	if playing && machine.state.Mode != model.ModeMusic {
		machine.SetMode(model.ModeMusic, true)
		return
	}
	if !playing && machine.state.Mode == model.ModeMusic {
		machine.SetMode(model.ModeCompact, true)
	}
}

// SetOverlayVisible records whether a ringing overlay is shown; while it is,
// the collapse timer does not collapse the panel.
func (machine *Machine) SetOverlayVisible(visible bool) {
	machine.overlayVisible = visible
}

// SetDisabled suppresses the whole panel, or restores compact mode.
func (machine *Machine) SetDisabled(disabled bool) {
	if machine.state.Disabled == disabled {
		return
	}
	if disabled {
		machine.cancelCollapseTimer()
		machine.Collapse()
		machine.state.Disabled = true
		machine.state.Mode = model.ModeIdle
		machine.changed()
		return
	}
	machine.state.Disabled = false
	machine.SetMode(model.ModeCompact, false)
}

func (machine *Machine) inGraceWindow() bool {
	if machine.state.LastCollapse.IsZero() {
		return false
	}
	return machine.clock.Now().Sub(machine.state.LastCollapse) < machine.config.HoverGrace
}

func (machine *Machine) restartCollapseTimer() {
	machine.cancelCollapseTimer()
	machine.timerSeq++
	seq := machine.timerSeq
	machine.collapseTimer = machine.clock.AfterFunc(machine.config.CollapseDelay, func() {
		machine.post.Post(func() {
			machine.fireCollapse(seq)
		})
	})
}

func (machine *Machine) cancelCollapseTimer() {
	if machine.collapseTimer == nil {
		return
	}
	machine.collapseTimer.Stop()
	machine.collapseTimer = nil
	machine.timerSeq++
}

func (machine *Machine) fireCollapse(seq uint64) {
	if seq != machine.timerSeq {
		return
	}
	machine.collapseTimer = nil
	if machine.state.Hovering || machine.playing || machine.overlayVisible {
		return
	}
	machine.Collapse()
}

func (machine *Machine) changed() {
	if machine.hooks.OnChange != nil {
		machine.hooks.OnChange(machine.state)
	}
}
