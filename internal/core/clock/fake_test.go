package clock

import (
	"testing"
	"time"
)

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	fake := NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	var order []string
	fake.AfterFunc(3*time.Second, func() { order = append(order, "c") })
	fake.AfterFunc(time.Second, func() { order = append(order, "a") })
	fake.AfterFunc(2*time.Second, func() { order = append(order, "b") })

	fake.Advance(2 * time.Second)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("order = %v, want [a b]", order)
	}
	if fake.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", fake.Pending())
	}

	fake.Advance(time.Second)
	if len(order) != 3 || order[2] != "c" {
		t.Fatalf("order = %v, want [a b c]", order)
	}
}

func TestFakeStopPreventsFire(t *testing.T) {
	fake := NewFake(time.Unix(0, 0))
	fired := false
	timer := fake.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("Stop() = false, want true for pending timer")
	}
	if timer.Stop() {
		t.Fatal("second Stop() = true, want false")
	}
	fake.Advance(2 * time.Second)
	if fired {
		t.Fatal("stopped timer fired")
	}
}

func TestFakeNowDuringCallback(t *testing.T) {
	start := time.Unix(100, 0)
	fake := NewFake(start)
	var seen time.Time
	fake.AfterFunc(5*time.Second, func() { seen = fake.Now() })

	fake.Advance(10 * time.Second)
	if !seen.Equal(start.Add(5 * time.Second)) {
		t.Fatalf("Now() in callback = %v, want %v", seen, start.Add(5*time.Second))
	}
	if !fake.Now().Equal(start.Add(10 * time.Second)) {
		t.Fatalf("Now() = %v, want %v", fake.Now(), start.Add(10*time.Second))
	}
}

func TestFakeTimerScheduledFromCallback(t *testing.T) {
	fake := NewFake(time.Unix(0, 0))
	count := 0
	var schedule func()
	schedule = func() {
		count++
		if count < 3 {
			fake.AfterFunc(time.Second, schedule)
		}
	}
	fake.AfterFunc(time.Second, schedule)

	fake.Advance(5 * time.Second)
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}
