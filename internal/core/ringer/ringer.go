// Package ringer implements the ringing overlay shared by alarms and focus
// sessions: a looping alert sound that stops on demand or after a timeout.
package ringer

import (
	"time"

	"notchpanel/internal/core/clock"
	"notchpanel/internal/core/loop"
)

// Sounder plays a looping alert.
type Sounder interface {
	StartLoop()
	StopLoop()
}

// Silent is a Sounder that plays nothing.
type Silent struct{}

// StartLoop does nothing.
func (Silent) StartLoop() {}

// StopLoop does nothing.
func (Silent) StopLoop() {}

// Ringer is a single ringing flag. Methods run on the owning goroutine.
type Ringer struct {
	clock    clock.Clock
	post     loop.Poster
	sounder  Sounder
	timeout  time.Duration
	ringing  bool
	ringSeq  uint64
	onChange func(ringing bool)
}

// New creates a ringer that stops itself after timeout.
func New(clk clock.Clock, post loop.Poster, sounder Sounder, timeout time.Duration, onChange func(bool)) *Ringer {
	if sounder == nil {
		sounder = Silent{}
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Ringer{
		clock:    clk,
		post:     post,
		sounder:  sounder,
		timeout:  timeout,
		onChange: onChange,
	}
}

// Ringing reports whether the overlay is active.
func (ringer *Ringer) Ringing() bool {
	return ringer.ringing
}

// Ring starts the alert and schedules the automatic stop. The stop timer is
// never cancelled; on expiry it checks that the same ring is still active.
func (ringer *Ringer) Ring() {
	ringer.ringSeq++
	seq := ringer.ringSeq
	if !ringer.ringing {
		ringer.ringing = true
		ringer.sounder.StartLoop()
		ringer.changed()
	}
	ringer.clock.AfterFunc(ringer.timeout, func() {
		ringer.post.Post(func() {
			if ringer.ringing && ringer.ringSeq == seq {
				ringer.Stop()
			}
		})
	})
}

// Stop clears the ringing flag and halts the sound. Stopping a silent ringer
// is a no-op.
func (ringer *Ringer) Stop() {
	if !ringer.ringing {
		return
	}
	ringer.ringing = false
	ringer.sounder.StopLoop()
	ringer.changed()
}

func (ringer *Ringer) changed() {
	if ringer.onChange != nil {
		ringer.onChange(ringer.ringing)
	}
}
