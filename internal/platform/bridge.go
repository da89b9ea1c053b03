// Package platform implements the status source adapters and OS services
// used by the panel.
package platform

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"

	"notchpanel/internal/core/media"
)

// ErrUnavailable indicates a missing device, interface, tool or permission.
var ErrUnavailable = errors.New("source unavailable")

// ErrNoPlayer indicates that no media player is running.
var ErrNoPlayer = media.ErrNoPlayer

// Bridge runs a textual automation command and returns its trimmed output.
// Any failure reports false.
type Bridge interface {
	Execute(ctx context.Context, command string) (string, bool)
}

// ShellBridge runs commands through an interpreter such as osascript or sh.
type ShellBridge struct {
	Interpreter string
	Flag        string
}

// NewShellBridge returns the platform's automation interpreter: AppleScript
// on macOS, the POSIX shell elsewhere.
func NewShellBridge() ShellBridge {
	if runtime.GOOS == "darwin" {
		return ShellBridge{Interpreter: "osascript", Flag: "-e"}
	}
	return ShellBridge{Interpreter: "sh", Flag: "-c"}
}

// Execute runs command and reports whether it exited successfully.
func (bridge ShellBridge) Execute(ctx context.Context, command string) (string, bool) {
	if bridge.Interpreter == "" {
		return "", false
	}
	output, err := exec.CommandContext(ctx, bridge.Interpreter, bridge.Flag, command).Output()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(output)), true
}

func runTool(ctx context.Context, name string, args ...string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", ErrUnavailable
	}
	output, err := exec.CommandContext(ctx, path, args...).Output()
	if err != nil {
		return "", err
	}
	return string(output), nil
}
