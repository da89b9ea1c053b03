package countdown

import (
	"testing"
	"time"
)

func TestCountdownFinishes(t *testing.T) {
	finished := 0
	timer := &Timer{OnFinished: func() { finished++ }}
	timer.Start(3 * time.Second)

	timer.Tick()
	timer.Tick()
	if finished != 0 || timer.State().Remaining != time.Second {
		t.Fatalf("state = %+v finished = %d, want 1s left", timer.State(), finished)
	}
	timer.Tick()
	if finished != 1 || timer.State().Running || timer.State().Remaining != 0 {
		t.Fatalf("state = %+v finished = %d, want stopped at zero", timer.State(), finished)
	}
	timer.Tick()
	if finished != 1 {
		t.Fatal("finished twice")
	}
}

func TestCountdownPauseResumeReset(t *testing.T) {
	timer := &Timer{}
	timer.Start(10 * time.Second)
	timer.Tick()
	timer.Pause()
	timer.Tick()
	if timer.State().Remaining != 9*time.Second {
		t.Fatalf("Remaining = %v, want 9s", timer.State().Remaining)
	}
	timer.Resume()
	timer.Tick()
	if timer.State().Remaining != 8*time.Second {
		t.Fatalf("Remaining = %v, want 8s", timer.State().Remaining)
	}
	timer.Reset()
	if timer.State().Running || timer.State().Remaining != 10*time.Second {
		t.Fatalf("state = %+v, want stopped at 10s", timer.State())
	}

	timer.Start(0)
	if timer.State().Total != 10*time.Second {
		t.Fatal("Start(0) replaced the timer")
	}
}
