package platform

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
)

// DesktopNotifier posts desktop notifications.
type DesktopNotifier struct {
	AppName string
}

// Notify shows a notification titled with the app name and title.
func (notifier DesktopNotifier) Notify(title, message string) error {
	if notifier.AppName != "" {
		title = notifier.AppName + ": " + title
	}
	if err := beeep.Notify(title, message, ""); err != nil {
		return fmt.Errorf("notify %q: %w", title, err)
	}
	return nil
}

const beepInterval = time.Second

// LoopSounder beeps once per interval between StartLoop and StopLoop.
type LoopSounder struct {
	logger   *slog.Logger
	beep     func() error
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewLoopSounder beeps through the system speaker.
func NewLoopSounder(logger *slog.Logger) *LoopSounder {
	return newLoopSounder(logger, func() error {
		return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
	}, beepInterval)
}

func newLoopSounder(logger *slog.Logger, beep func() error, interval time.Duration) *LoopSounder {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoopSounder{logger: logger, beep: beep, interval: interval}
}

// StartLoop begins beeping. A running loop is left alone.
func (sounder *LoopSounder) StartLoop() {
	sounder.mu.Lock()
	defer sounder.mu.Unlock()
	if sounder.stop != nil {
		return
	}
	stop := make(chan struct{})
	sounder.stop = stop

	go func() {
		ticker := time.NewTicker(sounder.interval)
		defer ticker.Stop()
		for {
			if err := sounder.beep(); err != nil {
				sounder.logger.Debug("alert beep failed", "error", err)
			}
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

// StopLoop stops beeping. It does not wait for a beep in progress, so it is
// safe to call from the owner loop.
func (sounder *LoopSounder) StopLoop() {
	sounder.mu.Lock()
	defer sounder.mu.Unlock()
	if sounder.stop == nil {
		return
	}
	close(sounder.stop)
	sounder.stop = nil
}
