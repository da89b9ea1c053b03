package loop

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLoopSerializesPosts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	owner := New(8)
	go owner.Run(ctx)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			owner.Post(func() { counter++ })
		}()
	}
	wg.Wait()

	var got int
	if err := owner.Call(ctx, func() { got = counter }); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != 50 {
		t.Fatalf("counter = %d, want 50", got)
	}
}

func TestLoopPostAfterStopIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	owner := New(1)
	stopped := make(chan struct{})
	go func() {
		owner.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	finished := make(chan struct{})
	go func() {
		owner.Post(func() {})
		owner.Post(func() {})
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Post blocked after loop stopped")
	}

	if err := owner.Call(context.Background(), func() {}); err == nil {
		t.Fatal("Call after stop returned nil error")
	}
}

func TestInlineRunsImmediately(t *testing.T) {
	ran := false
	Inline{}.Post(func() { ran = true })
	if !ran {
		t.Fatal("Inline.Post did not run fn")
	}
}
