package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a manually advanced clock. Timer callbacks run synchronously on the
// goroutine calling Advance, in deadline order.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
	seq    int
}

type fakeTimer struct {
	clock    *Fake
	deadline time.Time
	order    int
	fn       func()
	done     bool
}

// NewFake creates a fake clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake time.
func (fake *Fake) Now() time.Time {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.now
}

// AfterFunc schedules fn to run once the clock has advanced by delay.
func (fake *Fake) AfterFunc(delay time.Duration, fn func()) Timer {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.seq++
	timer := &fakeTimer{
		clock:    fake,
		deadline: fake.now.Add(delay),
		order:    fake.seq,
		fn:       fn,
	}
	fake.timers = append(fake.timers, timer)
	return timer
}

// Advance moves the clock forward, firing every timer that comes due.
func (fake *Fake) Advance(delta time.Duration) {
	fake.mu.Lock()
	target := fake.now.Add(delta)
	fake.mu.Unlock()

	for {
		fake.mu.Lock()
		next := fake.nextDueLocked(target)
		if next == nil {
			fake.now = target
			fake.mu.Unlock()
			return
		}
		next.done = true
		if next.deadline.After(fake.now) {
			fake.now = next.deadline
		}
		fake.removeLocked(next)
		fake.mu.Unlock()

		next.fn()
	}
}

// Set jumps the clock to an absolute time, firing due timers.
func (fake *Fake) Set(at time.Time) {
	delta := at.Sub(fake.Now())
	if delta < 0 {
		fake.mu.Lock()
		fake.now = at
		fake.mu.Unlock()
		return
	}
	fake.Advance(delta)
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (fake *Fake) Pending() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return len(fake.timers)
}

func (fake *Fake) nextDueLocked(target time.Time) *fakeTimer {
	due := make([]*fakeTimer, 0, len(fake.timers))
	for _, timer := range fake.timers {
		if !timer.deadline.After(target) {
			due = append(due, timer)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].order < due[j].order
		}
		return due[i].deadline.Before(due[j].deadline)
	})
	return due[0]
}

func (fake *Fake) removeLocked(target *fakeTimer) {
	for index, timer := range fake.timers {
		if timer == target {
			fake.timers = append(fake.timers[:index], fake.timers[index+1:]...)
			return
		}
	}
}

func (timer *fakeTimer) Stop() bool {
	timer.clock.mu.Lock()
	defer timer.clock.mu.Unlock()
	if timer.done {
		return false
	}
	timer.done = true
	timer.clock.removeLocked(timer)
	return true
}
