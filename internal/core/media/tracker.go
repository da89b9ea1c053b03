package media

import "notchpanel/internal/core/model"

// Tracker holds the current media status. Playing transitions are forwarded
// to OnPlayingChange. Methods run on the owning goroutine.
type Tracker struct {
	status          model.MediaStatus
	OnPlayingChange func(playing bool)
}

// Status returns the tracked status.
func (tracker *Tracker) Status() model.MediaStatus {
	return tracker.status
}

// ApplyPush replaces the status with a push notification from a player.
func (tracker *Tracker) ApplyPush(status model.MediaStatus) {
	status.Duration = NormalizeDuration(status.Duration)
	wasPlaying := tracker.status.Playing
	tracker.status = status
	tracker.notify(wasPlaying)
}

// ApplyResync merges a polled status. Position and duration are only taken
// while playing; identity and playing state are always taken.
func (tracker *Tracker) ApplyResync(status model.MediaStatus) {
	wasPlaying := tracker.status.Playing
	tracker.status.Title = status.Title
	tracker.status.Artist = status.Artist
	tracker.status.Player = status.Player
	tracker.status.Playing = status.Playing
	if status.Playing {
		tracker.status.Position = status.Position
		tracker.status.Duration = NormalizeDuration(status.Duration)
	}
	tracker.notify(wasPlaying)
}

// Tick advances the position by one second while playing.
func (tracker *Tracker) Tick() {
	if !tracker.status.Playing {
		return
	}
	if tracker.status.Position >= tracker.status.Duration {
		return
	}
	tracker.status.Position++
	if tracker.status.Position > tracker.status.Duration {
		tracker.status.Position = tracker.status.Duration
	}
}

func (tracker *Tracker) notify(wasPlaying bool) {
	if wasPlaying != tracker.status.Playing && tracker.OnPlayingChange != nil {
		tracker.OnPlayingChange(tracker.status.Playing)
	}
}
