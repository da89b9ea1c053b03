// Package panel wires every engine onto one owner loop and publishes immutable
// snapshots of the aggregated state to the UI.
package panel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"notchpanel/internal/core/alarms"
	"notchpanel/internal/core/clock"
	"notchpanel/internal/core/countdown"
	"notchpanel/internal/core/focus"
	"notchpanel/internal/core/loop"
	"notchpanel/internal/core/media"
	"notchpanel/internal/core/model"
	"notchpanel/internal/core/notes"
	"notchpanel/internal/core/presentation"
	"notchpanel/internal/core/ringer"
	"notchpanel/internal/core/scheduler"
)

const (
	defaultClipboardHistory = 10
	defaultCalendarWindow   = 48 * time.Hour
	defaultDiskPath         = "/"
	workerBuffer            = 32
)

// Config contains runtime options for Panel.
type Config struct {
	Panel            model.PanelConfig
	Focus            model.FocusConfig
	Cadences         model.Cadences
	Alarms           []model.Alarm
	DiskPath         string
	ClipboardHistory int
	CalendarWindow   time.Duration
}

// Deps are the collaborators of a Panel. Nil sources disable their task.
type Deps struct {
	Clock  clock.Clock
	Loop   loop.Runner
	Logger *slog.Logger
	// Background runs persistence and notification jobs. Defaults to an
	// ordered worker started by Run.
	Background func(job func())
	// NotesRun runs blocking notes store calls. Defaults to one goroutine
	// per call.
	NotesRun func(job func())

	Notes       notes.Store
	Media       *media.Resolver
	Clipboard   ClipboardReader
	Accessories AccessoryScanner
	Network     NetworkReader
	Calendar    CalendarReader
	Perf        PerfSampler
	Disk        DiskReader
	Battery     BatteryReader
	Volume      VolumeReader
	Notifier    Notifier
	Persistence Persistence
	AlarmSound  ringer.Sounder
	FocusSound  ringer.Sounder
}

// Snapshot is an immutable copy of everything the UI renders.
type Snapshot struct {
	Presentation model.PresentationState
	Media        model.MediaStatus
	Accessories  []model.Accessory
	Network      model.NetworkStatus
	NextEvent    *model.CalendarEvent
	Perf         model.PerfSample
	Disk         model.DiskUsage
	Battery      model.BatteryStatus
	Volume       int
	Clipboard    []model.ClipboardEntry
	Notes        []model.Note
	NotesSyncing bool
	Alarms       []model.Alarm
	AlarmRinging bool
	Focus        model.FocusSession
	FocusRinging bool
	Countdown    model.CountdownTimer
}

// Panel is the single handle owning all panel state. Exported methods are
// safe for concurrent use; they post onto the owner loop.
type Panel struct {
	config Config
	deps   Deps
	clock  clock.Clock
	logger *slog.Logger
	runner loop.Runner
	own    *loop.Loop
	worker chan func()

	ctx    context.Context
	cancel context.CancelFunc

	scheduler   *scheduler.Scheduler
	machine     *presentation.Machine
	tracker     *media.Tracker
	reconciler  *notes.Reconciler
	alarms      *alarms.Engine
	focus       *focus.Engine
	countdown   *countdown.Timer
	alarmRinger *ringer.Ringer
	focusRinger *ringer.Ringer

	// Owned by the loop goroutine.
	accessories  []model.Accessory
	network      model.NetworkStatus
	nextEvent    *model.CalendarEvent
	perf         model.PerfSample
	disk         model.DiskUsage
	battery      model.BatteryStatus
	batterySeen  bool
	volume       int
	clipboard    []model.ClipboardEntry
	lastClipText string

	preferred atomic.Int32

	mu       sync.RWMutex
	snapshot Snapshot
	events   []chan Snapshot
}

// New builds every engine on one loop and clock and registers the poll tasks
// for the sources present in deps.
func New(config Config, deps Deps) (*Panel, error) {
	if config.ClipboardHistory <= 0 {
		config.ClipboardHistory = defaultClipboardHistory
	}
	if config.CalendarWindow <= 0 {
		config.CalendarWindow = defaultCalendarWindow
	}
	if config.DiskPath == "" {
		config.DiskPath = defaultDiskPath
	}
	config.Panel = config.Panel.WithDefaults()
	config.Focus = config.Focus.WithDefaults()
	config.Cadences = config.Cadences.WithDefaults()

	if deps.Clock == nil {
		deps.Clock = clock.Real{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	panel := &Panel{
		config: config,
		deps:   deps,
		clock:  deps.Clock,
		logger: deps.Logger,
		ctx:    ctx,
		cancel: cancel,
		volume: -1,
	}
	if deps.Loop == nil {
		panel.own = loop.New(256)
		deps.Loop = panel.own
	}
	panel.runner = deps.Loop
	if deps.Background == nil {
		panel.worker = make(chan func(), workerBuffer)
	}

	post := loop.PosterFunc(panel.Post)
	panel.machine = presentation.New(panel.clock, post, config.Panel, presentation.Hooks{
		OnExpand: panel.refreshVolume,
	})
	panel.tracker = &media.Tracker{OnPlayingChange: panel.machine.SetPlaying}
	panel.alarmRinger = ringer.New(panel.clock, post, deps.AlarmSound, config.Panel.RingTimeout, panel.onAlarmRinging)
	panel.focusRinger = ringer.New(panel.clock, post, deps.FocusSound, config.Panel.RingTimeout, panel.onFocusRinging)
	panel.alarms = alarms.New(config.Alarms, panel.alarmRinger, alarms.Hooks{
		OnFire:  panel.onAlarmFired,
		Persist: panel.persistAlarms,
	})
	panel.focus = focus.New(config.Focus, panel.focusRinger, func() {
		panel.machine.SetMode(model.ModeCompact, true)
	})
	panel.countdown = &countdown.Timer{OnFinished: panel.onCountdownFinished}
	if deps.Notes != nil {
		panel.reconciler = notes.New(deps.Notes, post, notes.Hooks{
			OnShow: panel.showNotes,
		}, notes.Options{Context: ctx, Logger: panel.logger, Run: deps.NotesRun})
	}

	panel.scheduler = scheduler.New(post, scheduler.Options{
		Logger:      panel.logger.With("component", "scheduler"),
		PollTimeout: config.Cadences.PollTimeout,
	})
	for _, task := range panel.tasks() {
		if err := panel.scheduler.Register(task); err != nil {
			cancel()
			return nil, fmt.Errorf("register tasks: %w", err)
		}
	}

	panel.publish()
	return panel, nil
}

// Run starts the owner loop, the background worker and the scheduler, and
// blocks until ctx is cancelled. Subscriber channels are closed on return.
func (panel *Panel) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, panel.cancel)
	defer stop()
	defer panel.closeSubscribers()

	group, groupCtx := errgroup.WithContext(panel.ctx)
	if panel.own != nil {
		group.Go(func() error {
			panel.own.Run(groupCtx)
			return nil
		})
	}
	if panel.worker != nil {
		group.Go(func() error {
			panel.drainWorker(groupCtx)
			return nil
		})
	}
	group.Go(func() error {
		return panel.scheduler.Run(groupCtx)
	})
	panel.Post(func() {
		if panel.reconciler != nil {
			panel.reconciler.Refresh()
		}
	})
	return group.Wait()
}

// Post runs fn on the owner loop and publishes a snapshot afterwards.
func (panel *Panel) Post(fn func()) {
	panel.runner.Post(func() {
		fn()
		panel.publish()
	})
}

func (panel *Panel) call(ctx context.Context, fn func()) error {
	return panel.runner.Call(ctx, func() {
		fn()
		panel.publish()
	})
}

// Snapshot returns the latest published state.
func (panel *Panel) Snapshot() Snapshot {
	panel.mu.RLock()
	defer panel.mu.RUnlock()
	return panel.snapshot
}

// Subscribe registers an observer channel. Slow observers miss snapshots
// rather than blocking the loop.
func (panel *Panel) Subscribe(buffer int) <-chan Snapshot {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)
	panel.mu.Lock()
	panel.events = append(panel.events, ch)
	panel.mu.Unlock()
	return ch
}

// Statuses reports the health of every poll task.
func (panel *Panel) Statuses() []scheduler.TaskStatus {
	return panel.scheduler.Statuses()
}

// Hover records pointer presence over the panel.
func (panel *Panel) Hover(hovering bool) {
	panel.Post(func() { panel.machine.SetHovering(hovering) })
}

// Toggle flips between expanded and collapsed.
func (panel *Panel) Toggle() {
	panel.Post(panel.machine.ToggleExpand)
}

// Expand opens the panel.
func (panel *Panel) Expand() {
	panel.Post(panel.machine.Expand)
}

// Collapse closes the panel.
func (panel *Panel) Collapse() {
	panel.Post(panel.machine.Collapse)
}

// SetMode switches the display mode and restarts the auto-collapse timer.
func (panel *Panel) SetMode(mode model.DisplayMode) {
	panel.Post(func() { panel.machine.SetMode(mode, true) })
}

// ShowMode switches to mode and opens the panel.
func (panel *Panel) ShowMode(mode model.DisplayMode) {
	panel.Post(func() {
		panel.machine.SetMode(mode, false)
		panel.machine.Expand()
	})
}

// SetDisabled suppresses or restores the whole panel.
func (panel *Panel) SetDisabled(disabled bool) {
	panel.Post(func() { panel.machine.SetDisabled(disabled) })
}

// UpdatePanelConfig replaces the presentation timing parameters.
func (panel *Panel) UpdatePanelConfig(config model.PanelConfig) {
	panel.Post(func() { panel.machine.UpdateConfig(config) })
}

// ApplyMedia merges a pushed player notification.
func (panel *Panel) ApplyMedia(status model.MediaStatus) {
	panel.Post(func() {
		panel.tracker.ApplyPush(status)
		panel.preferred.Store(int32(panel.tracker.Status().Player))
	})
}

// AddNote inserts a note at the top and shows the notes view.
func (panel *Panel) AddNote(content string) {
	panel.Post(func() {
		if panel.reconciler != nil {
			panel.reconciler.Add(content)
		}
	})
}

// SaveNote replaces the content of the note at index.
func (panel *Panel) SaveNote(index int, content string) {
	panel.Post(func() {
		if panel.reconciler != nil {
			panel.reconciler.Save(index, content)
		}
	})
}

// DeleteNote removes the note at index.
func (panel *Panel) DeleteNote(index int) {
	panel.Post(func() {
		if panel.reconciler != nil {
			panel.reconciler.Delete(index)
		}
	})
}

// RefreshNotes reloads notes from the store.
func (panel *Panel) RefreshNotes() {
	panel.Post(func() {
		if panel.reconciler != nil {
			panel.reconciler.Refresh()
		}
	})
}

// AddAlarm stores a new alarm and returns it with its id.
func (panel *Panel) AddAlarm(ctx context.Context, alarm model.Alarm) (model.Alarm, error) {
	var (
		added model.Alarm
		err   error
	)
	if callErr := panel.call(ctx, func() { added, err = panel.alarms.Add(alarm) }); callErr != nil {
		return model.Alarm{}, callErr
	}
	return added, err
}

// UpdateAlarm replaces an existing alarm.
func (panel *Panel) UpdateAlarm(ctx context.Context, alarm model.Alarm) error {
	var err error
	if callErr := panel.call(ctx, func() { err = panel.alarms.Update(alarm) }); callErr != nil {
		return callErr
	}
	return err
}

// DeleteAlarm removes an alarm.
func (panel *Panel) DeleteAlarm(ctx context.Context, id string) error {
	var err error
	if callErr := panel.call(ctx, func() { err = panel.alarms.Delete(id) }); callErr != nil {
		return callErr
	}
	return err
}

// SetAlarmEnabled toggles an alarm.
func (panel *Panel) SetAlarmEnabled(ctx context.Context, id string, enabled bool) error {
	var err error
	if callErr := panel.call(ctx, func() { err = panel.alarms.SetEnabled(id, enabled) }); callErr != nil {
		return callErr
	}
	return err
}

// StopAlarm silences a ringing alarm.
func (panel *Panel) StopAlarm() {
	panel.Post(panel.alarms.Stop)
}

// ToggleFocus starts or pauses the focus session.
func (panel *Panel) ToggleFocus() {
	panel.Post(panel.focus.Toggle)
}

// ResetFocus stops the focus session and restores its phase duration.
func (panel *Panel) ResetFocus() {
	panel.Post(panel.focus.Reset)
}

// SelectFocusMode switches the focus phase.
func (panel *Panel) SelectFocusMode(mode model.FocusMode) {
	panel.Post(func() { panel.focus.SelectMode(mode) })
}

// SetFocusDuration changes the selected phase's length and saves it.
func (panel *Panel) SetFocusDuration(minutes int) {
	panel.Post(func() {
		panel.focus.SetDuration(minutes)
		session := panel.focus.Session()
		config := model.FocusConfig{
			Work:       session.WorkDuration,
			ShortBreak: session.BreakDuration,
			LongBreak:  session.LongBreakDuration,
		}
		panel.background(func() {
			if panel.deps.Persistence == nil {
				return
			}
			if err := panel.deps.Persistence.SaveFocus(config); err != nil {
				panel.logger.Warn("save focus durations", "error", err)
			}
		})
	})
}

// UpdateFocusConfig applies new phase durations from settings.
func (panel *Panel) UpdateFocusConfig(config model.FocusConfig) {
	panel.Post(func() { panel.focus.Configure(config) })
}

// StopFocusRinging silences the end-of-phase alert.
func (panel *Panel) StopFocusRinging() {
	panel.Post(panel.focus.StopRinging)
}

// StartCountdown begins a countdown of total and shows the timer view.
func (panel *Panel) StartCountdown(total time.Duration) {
	panel.Post(func() {
		panel.countdown.Start(total)
		panel.machine.SetMode(model.ModeTimer, true)
	})
}

// PauseCountdown halts the countdown.
func (panel *Panel) PauseCountdown() {
	panel.Post(panel.countdown.Pause)
}

// ResumeCountdown continues a paused countdown.
func (panel *Panel) ResumeCountdown() {
	panel.Post(panel.countdown.Resume)
}

// ResetCountdown stops the countdown and restores its total.
func (panel *Panel) ResetCountdown() {
	panel.Post(panel.countdown.Reset)
}

func (panel *Panel) showNotes() {
	panel.machine.SetMode(model.ModeNotes, false)
	panel.machine.Expand()
}

func (panel *Panel) onAlarmFired(alarm model.Alarm) {
	panel.machine.Expand()
	message := alarm.Label
	if message == "" {
		message = fmt.Sprintf("%02d:%02d", alarm.Hour, alarm.Minute)
	}
	panel.notify("Alarm", message)
}

func (panel *Panel) onAlarmRinging(bool) {
	panel.machine.SetOverlayVisible(panel.alarmRinger.Ringing() || panel.focusRinger.Ringing())
}

func (panel *Panel) onFocusRinging(ringing bool) {
	panel.machine.SetOverlayVisible(panel.alarmRinger.Ringing() || panel.focusRinger.Ringing())
	if !ringing {
		return
	}
	panel.machine.SetMode(model.ModeProductivity, false)
	panel.machine.Expand()
	if panel.focus.Session().Mode == model.FocusWork {
		panel.notify("Focus", "Break is over. Back to work.")
		return
	}
	panel.notify("Focus", "Work session complete. Take a break.")
}

func (panel *Panel) onCountdownFinished() {
	panel.machine.SetMode(model.ModeTimer, false)
	panel.machine.Expand()
	panel.notify("Timer", "Countdown finished.")
}

func (panel *Panel) persistAlarms(list []model.Alarm) {
	panel.background(func() {
		if panel.deps.Persistence == nil {
			return
		}
		if err := panel.deps.Persistence.SaveAlarms(list); err != nil {
			panel.logger.Warn("save alarms", "error", err)
		}
	})
}

func (panel *Panel) notify(title, message string) {
	if panel.deps.Notifier == nil {
		return
	}
	panel.background(func() {
		if err := panel.deps.Notifier.Notify(title, message); err != nil {
			panel.logger.Debug("notify", "title", title, "error", err)
		}
	})
}

func (panel *Panel) refreshVolume() {
	if panel.deps.Volume == nil {
		return
	}
	panel.background(func() {
		_ = panel.scheduler.Trigger(panel.ctx, taskVolume)
	})
}

func (panel *Panel) background(job func()) {
	if panel.deps.Background != nil {
		panel.deps.Background(job)
		return
	}
	select {
	case panel.worker <- job:
	default:
		panel.logger.Warn("background queue full, dropping job")
	}
}

func (panel *Panel) drainWorker(ctx context.Context) {
	for {
		select {
		case job := <-panel.worker:
			job()
		case <-ctx.Done():
			for {
				select {
				case job := <-panel.worker:
					job()
				default:
					return
				}
			}
		}
	}
}

func (panel *Panel) publish() {
	snapshot := Snapshot{
		Presentation: panel.machine.State(),
		Media:        panel.tracker.Status(),
		Accessories:  append([]model.Accessory(nil), panel.accessories...),
		Network:      panel.network,
		Perf:         panel.perf,
		Disk:         panel.disk,
		Battery:      panel.battery,
		Volume:       panel.volume,
		Clipboard:    append([]model.ClipboardEntry(nil), panel.clipboard...),
		Alarms:       panel.alarms.List(),
		AlarmRinging: panel.alarms.Ringing(),
		Focus:        panel.focus.Session(),
		FocusRinging: panel.focus.Ringing(),
		Countdown:    panel.countdown.State(),
	}
	if panel.nextEvent != nil {
		event := *panel.nextEvent
		snapshot.NextEvent = &event
	}
	if panel.reconciler != nil {
		snapshot.Notes = panel.reconciler.Notes()
		snapshot.NotesSyncing = panel.reconciler.Syncing()
	}

	panel.mu.Lock()
	defer panel.mu.Unlock()
	panel.snapshot = snapshot
	for _, ch := range panel.events {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

func (panel *Panel) closeSubscribers() {
	panel.mu.Lock()
	defer panel.mu.Unlock()
	for _, ch := range panel.events {
		close(ch)
	}
	panel.events = nil
}
