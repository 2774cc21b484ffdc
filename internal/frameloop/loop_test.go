package frameloop

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStepRunsInRequestOrder(t *testing.T) {
	l := New(0)
	var got []int
	l.RequestFrame(func() { got = append(got, 1) })
	l.RequestFrame(func() { got = append(got, 2) })
	l.RequestFrame(func() { got = append(got, 3) })
	l.Step()

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("expected [1 2 3], got %v", got)
	}
	if l.Pending() != 0 {
		t.Errorf("expected no pending frames, got %d", l.Pending())
	}
}

func TestCancelFrame(t *testing.T) {
	l := New(0)
	ran := false
	id := l.RequestFrame(func() { ran = true })
	l.CancelFrame(id)
	l.CancelFrame(id) // second cancel is a no-op
	l.Step()
	if ran {
		t.Error("cancelled frame ran")
	}
}

func TestFrameRequestedDuringStepWaitsForNextFrame(t *testing.T) {
	l := New(0)
	count := 0
	l.RequestFrame(func() {
		count++
		l.RequestFrame(func() { count++ })
	})
	l.Step()
	if count != 1 {
		t.Fatalf("expected 1 callback in first frame, got %d", count)
	}
	l.Step()
	if count != 2 {
		t.Errorf("expected nested callback on second frame, got %d", count)
	}
	if l.Ticks() != 2 {
		t.Errorf("expected 2 ticks, got %d", l.Ticks())
	}
}

func TestRunTicksFramesAndEvents(t *testing.T) {
	l := New(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	fired := make(chan struct{})
	if err := l.Call(ctx, func() {
		l.RequestFrame(func() { close(fired) })
	}); err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("frame callback never ran")
	}

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if l.Post(func() {}) {
		t.Error("Post should fail after the loop stopped")
	}
	if err := l.Call(context.Background(), func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}
