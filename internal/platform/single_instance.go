package platform

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

// InstanceGuard holds the single-instance lock.
type InstanceGuard struct {
	listener net.Listener
	address  string
}

// AcquireSingleInstance binds a per-user Unix socket named after appName.
// A socket left behind by a crashed instance is detected by dialing it and
// replaced.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	return acquireAt(socketPath(appName))
}

func acquireAt(address string) (*InstanceGuard, error) {
	if err := os.MkdirAll(filepath.Dir(address), 0o700); err != nil {
		return nil, fmt.Errorf("create socket directory: %w", err)
	}
	listener, err := net.Listen("unix", address)
	if err == nil {
		return &InstanceGuard{listener: listener, address: address}, nil
	}

	conn, dialErr := net.DialTimeout("unix", address, 500*time.Millisecond)
	if dialErr == nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, address)
	}
	if removeErr := os.Remove(address); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", removeErr)
	}
	listener, err = net.Listen("unix", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAlreadyRunning, err)
	}
	return &InstanceGuard{listener: listener, address: address}, nil
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

// Address returns the bound socket path.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func socketPath(appName string) string {
	name := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(appName), " ", "-"))
	if name == "" {
		name = "notchpanel"
	}
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d", name, os.Getuid()))
	}
	return filepath.Join(dir, name+".sock")
}
