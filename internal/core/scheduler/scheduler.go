// Package scheduler runs named periodic poll tasks on background goroutines
// and posts their results back to the owning loop.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"notchpanel/internal/core/loop"
)

var (
	ErrUnknownTask   = errors.New("unknown task")
	ErrDuplicateTask = errors.New("task already registered")
)

// Task is one periodic poll. Poll runs off the owning goroutine and may block;
// a non-nil apply is posted to the loop. On error nothing is posted unless
// ApplyOnError is set.
type Task struct {
	Name         string
	Every        time.Duration
	Immediate    bool
	ApplyOnError bool
	Poll         func(ctx context.Context) (apply func(), err error)
}

// TaskStatus tracks the runtime state of a single task.
type TaskStatus struct {
	Name        string
	RunCount    int64
	ErrorCount  int64
	LastRun     time.Time
	LastError   error
	LastLatency time.Duration
}

// Healthy reports whether the last run succeeded, or the task never ran.
func (status TaskStatus) Healthy() bool {
	return status.LastError == nil
}

// Options configure a Scheduler.
type Options struct {
	Logger *slog.Logger
	// PollTimeout bounds each Poll call. Zero means no deadline.
	PollTimeout time.Duration
}

// Scheduler is safe for concurrent use.
type Scheduler struct {
	post    loop.Poster
	logger  *slog.Logger
	timeout time.Duration
	flight  singleflight.Group

	mu       sync.RWMutex
	tasks    map[string]Task
	statuses map[string]*TaskStatus
}

// New returns an empty scheduler that posts applies through post.
func New(post loop.Poster, options Options) *Scheduler {
	if post == nil {
		post = loop.Inline{}
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Scheduler{
		post:     post,
		logger:   options.Logger,
		timeout:  options.PollTimeout,
		tasks:    make(map[string]Task),
		statuses: make(map[string]*TaskStatus),
	}
}

// Register adds a task. Tasks registered after Run has started are not
// scheduled until the next Run.
func (scheduler *Scheduler) Register(task Task) error {
	if task.Name == "" || task.Poll == nil {
		return fmt.Errorf("register task %q: missing name or poll func", task.Name)
	}
	if task.Every <= 0 {
		return fmt.Errorf("register task %q: interval must be positive", task.Name)
	}
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if _, exists := scheduler.tasks[task.Name]; exists {
		return fmt.Errorf("register task %q: %w", task.Name, ErrDuplicateTask)
	}
	scheduler.tasks[task.Name] = task
	scheduler.statuses[task.Name] = &TaskStatus{Name: task.Name}
	return nil
}

// Names returns the registered task names, sorted.
func (scheduler *Scheduler) Names() []string {
	scheduler.mu.RLock()
	defer scheduler.mu.RUnlock()
	names := make([]string, 0, len(scheduler.tasks))
	for name := range scheduler.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run drives every registered task on its own ticker until ctx is done.
// Task failures never stop the scheduler.
func (scheduler *Scheduler) Run(ctx context.Context) error {
	scheduler.mu.RLock()
	tasks := make([]Task, 0, len(scheduler.tasks))
	for _, task := range scheduler.tasks {
		tasks = append(tasks, task)
	}
	scheduler.mu.RUnlock()

	group, groupCtx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		group.Go(func() error {
			scheduler.drive(groupCtx, task)
			return nil
		})
	}
	return group.Wait()
}

func (scheduler *Scheduler) drive(ctx context.Context, task Task) {
	ticker := time.NewTicker(task.Every)
	defer ticker.Stop()

	if task.Immediate {
		scheduler.execute(ctx, task)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scheduler.execute(ctx, task)
		}
	}
}

// Trigger runs the named task now. Concurrent runs of the same task are
// coalesced into one Poll call.
func (scheduler *Scheduler) Trigger(ctx context.Context, name string) error {
	scheduler.mu.RLock()
	task, ok := scheduler.tasks[name]
	scheduler.mu.RUnlock()
	if !ok {
		return fmt.Errorf("trigger %q: %w", name, ErrUnknownTask)
	}
	return scheduler.execute(ctx, task)
}

// Status returns a copy of the named task's status.
func (scheduler *Scheduler) Status(name string) (TaskStatus, bool) {
	scheduler.mu.RLock()
	defer scheduler.mu.RUnlock()
	status, ok := scheduler.statuses[name]
	if !ok {
		return TaskStatus{}, false
	}
	return *status, true
}

// Statuses returns copies of all statuses sorted by name.
func (scheduler *Scheduler) Statuses() []TaskStatus {
	scheduler.mu.RLock()
	defer scheduler.mu.RUnlock()
	result := make([]TaskStatus, 0, len(scheduler.statuses))
	for _, status := range scheduler.statuses {
		result = append(result, *status)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

func (scheduler *Scheduler) execute(ctx context.Context, task Task) error {
	_, err, _ := scheduler.flight.Do(task.Name, func() (any, error) {
		return nil, scheduler.pollOnce(ctx, task)
	})
	return err
}

func (scheduler *Scheduler) pollOnce(ctx context.Context, task Task) error {
	if scheduler.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, scheduler.timeout)
		defer cancel()
	}

	started := time.Now()
	apply, err := safePoll(ctx, task)
	latency := time.Since(started)

	scheduler.mu.Lock()
	if status, ok := scheduler.statuses[task.Name]; ok {
		status.RunCount++
		status.LastRun = started
		status.LastLatency = latency
		status.LastError = err
		if err != nil {
			status.ErrorCount++
		}
	}
	scheduler.mu.Unlock()

	if err != nil {
		scheduler.logger.Debug("poll failed", "task", task.Name, "error", err)
	}
	if apply != nil && (err == nil || task.ApplyOnError) {
		scheduler.post.Post(apply)
	}
	return err
}

func safePoll(ctx context.Context, task Task) (apply func(), err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			apply = nil
			err = fmt.Errorf("poll %s panicked: %v", task.Name, recovered)
		}
	}()
	return task.Poll(ctx)
}
