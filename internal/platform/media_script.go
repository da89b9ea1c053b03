package platform

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"notchpanel/internal/core/model"
)

const scriptNotRunning = "not running"

// ScriptPlayer reads playback state from a scriptable desktop player through
// the bridge. The script prints title, artist, state, position and duration
// on separate lines, or "not running".
type ScriptPlayer struct {
	kind   model.PlayerKind
	bridge Bridge
	script string
}

// NewSpotifyScript queries the Spotify desktop app over AppleScript.
// Spotify reports duration in milliseconds.
func NewSpotifyScript(bridge Bridge) *ScriptPlayer {
	return &ScriptPlayer{kind: model.PlayerSpotify, bridge: bridge, script: playerScript("Spotify")}
}

// NewMusicScript queries the Music app over AppleScript.
func NewMusicScript(bridge Bridge) *ScriptPlayer {
	return &ScriptPlayer{kind: model.PlayerAppleMusic, bridge: bridge, script: playerScript("Music")}
}

// Kind reports the player this adapter queries.
func (player *ScriptPlayer) Kind() model.PlayerKind {
	return player.kind
}

// Status runs the script and parses its output. A player that is not running
// yields a stopped status, not an error.
func (player *ScriptPlayer) Status(ctx context.Context) (model.MediaStatus, error) {
	output, ok := player.bridge.Execute(ctx, player.script)
	if !ok {
		return model.MediaStatus{}, fmt.Errorf("query %s: %w", player.kind, ErrUnavailable)
	}
	status, err := parseScriptStatus(output)
	if err != nil {
		return model.MediaStatus{}, fmt.Errorf("query %s: %w", player.kind, err)
	}
	status.Player = player.kind
	return status, nil
}

func parseScriptStatus(output string) (model.MediaStatus, error) {
	output = strings.TrimSpace(output)
	if output == "" || output == scriptNotRunning {
		return model.MediaStatus{}, nil
	}
	lines := strings.Split(output, "\n")
	if len(lines) < 5 {
		return model.MediaStatus{}, fmt.Errorf("parse player output: want 5 lines, got %d", len(lines))
	}
	position, err := parseNumber(lines[3])
	if err != nil {
		return model.MediaStatus{}, fmt.Errorf("parse position: %w", err)
	}
	duration, err := parseNumber(lines[4])
	if err != nil {
		return model.MediaStatus{}, fmt.Errorf("parse duration: %w", err)
	}
	return model.MediaStatus{
		Title:    strings.TrimSpace(lines[0]),
		Artist:   strings.TrimSpace(lines[1]),
		Playing:  strings.EqualFold(strings.TrimSpace(lines[2]), "playing"),
		Position: position,
		Duration: duration,
	}, nil
}

// parseNumber accepts AppleScript reals, which use a comma in some locales.
func parseNumber(value string) (float64, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	if value == "" || value == "missing value" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}

func playerScript(app string) string {
	return fmt.Sprintf(`if application %[1]q is running then
	tell application %[1]q
		if player state is stopped then return %[2]q
		set out to (name of current track) & linefeed & (artist of current track) & linefeed
		set out to out & (player state as string) & linefeed & (player position as string) & linefeed
		return out & (duration of current track as string)
	end tell
else
	return %[2]q
end if`, app, scriptNotRunning)
}
