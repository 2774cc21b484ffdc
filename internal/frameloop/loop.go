// Package frameloop provides a single-goroutine event loop with per-frame
// callbacks, the Go stand-in for a browser's requestAnimationFrame.
package frameloop

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/ivlev/scrollplayer/internal/engine"
)

// DefaultInterval is one frame at 60 FPS.
const DefaultInterval = time.Second / 60

var ErrStopped = errors.New("frameloop: stopped")

// Loop serialises posted events and frame callbacks onto the goroutine that
// calls Run. RequestFrame and CancelFrame must only be used from that
// goroutine; Post and Call are safe from anywhere.
type Loop struct {
	interval time.Duration
	events   chan func()
	done     chan struct{}

	next   engine.FrameID
	frames map[engine.FrameID]func()
	ticks  uint64
}

func New(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		interval: interval,
		events:   make(chan func(), 256),
		done:     make(chan struct{}),
		frames:   make(map[engine.FrameID]func()),
	}
}

func (l *Loop) Interval() time.Duration { return l.interval }

// Run processes events and ticks frames until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.events:
			fn()
		case <-ticker.C:
			l.Step()
		}
	}
}

// Post queues fn to run on the loop goroutine. It reports false once the
// loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.events <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() { fn(); close(finished) }) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) RequestFrame(fn func()) engine.FrameID {
	l.next++
	l.frames[l.next] = fn
	return l.next
}

func (l *Loop) CancelFrame(id engine.FrameID) {
	delete(l.frames, id)
}

// Pending is the number of frame callbacks waiting for the next tick.
func (l *Loop) Pending() int { return len(l.frames) }

// Ticks counts frames run so far.
func (l *Loop) Ticks() uint64 { return l.ticks }

// Step runs every callback requested before this frame, oldest first.
// Callbacks requested while stepping wait for the next frame.
func (l *Loop) Step() {
	l.ticks++
	if len(l.frames) == 0 {
		return
	}
	run := l.frames
	l.frames = make(map[engine.FrameID]func())

	ids := make([]engine.FrameID, 0, len(run))
	for id := range run {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		run[id]()
	}
}
