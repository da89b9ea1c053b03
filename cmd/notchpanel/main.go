// Command notchpanel runs the notch panel: a hover-to-expand status strip
// aggregating media, calendar, devices, notes, alarms and timers.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"notchpanel/internal/platform"
)

const appName = "notchpanel"

type options struct {
	headless bool
	debug    bool
	notesDir string
	calendar string
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Hover-to-expand status panel",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&opts.headless, "headless", false, "Run without windows, logging state changes")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&opts.notesDir, "notes-dir", "", "Directory holding note files")
	flags.StringVar(&opts.calendar, "calendar", "", "iCalendar file to read upcoming events from")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, opts options) error {
	logger := newLogger(opts.debug)
	slog.SetDefault(logger)

	guard, err := platform.AcquireSingleInstance(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		logger.Info("another instance is running", "error", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	app, err := assemble(opts, logger)
	if err != nil {
		return err
	}
	defer app.close()

	if opts.headless {
		return app.runHeadless(ctx)
	}
	return app.runDesktop(ctx)
}
