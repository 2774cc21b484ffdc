package engine

import "time"

// DefaultThrottleInterval keeps move processing at about 60 per second.
const DefaultThrottleInterval = 16 * time.Millisecond

// Throttle is a leading-edge rate limiter: the first call in a window passes,
// the rest are dropped until the window has elapsed.
type Throttle struct {
	interval time.Duration
	now      func() time.Time
	last     time.Time
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval, now: time.Now}
}

func (t *Throttle) Allow() bool {
	if t.interval <= 0 {
		return true
	}
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}

// Reset opens a new window so the next call passes immediately.
func (t *Throttle) Reset() {
	t.last = time.Time{}
}

func (t *Throttle) Interval() time.Duration {
	return t.interval
}
