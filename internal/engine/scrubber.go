package engine

import (
	"math"
	"time"

	"github.com/ivlev/scrollplayer/internal/log"
)

type State int

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Stats counts what happened to the move events a Scrubber received.
type Stats struct {
	Gestures   int `json:"gestures"`   // gestures started
	Moves      int `json:"moves"`      // moves received while dragging
	Throttled  int `json:"throttled"`  // moves dropped by the rate limiter
	Skipped    int `json:"skipped"`    // moves ignored because duration or extent was unknown
	Superseded int `json:"superseded"` // pending frames replaced by a newer move
	Cancelled  int `json:"cancelled"`  // pending frames cancelled by a gesture start or end
	Stale      int `json:"stale"`      // frame callbacks that ran after being replaced
	Applied    int `json:"applied"`    // writes to the surface
}

// Progress is the debug projection of the playback position.
type Progress struct {
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	Percent     float64 `json:"percent"`
	// Known is false until the media duration is available.
	Known bool `json:"known"`
}

// Scrubber maps a pointer drag onto the playback position of one Surface.
//
// All methods must be called from a single goroutine, the same one the
// FrameScheduler runs its callbacks on.
type Scrubber struct {
	surface  Surface
	viewport Viewport
	frames   FrameScheduler
	throttle *Throttle
	logger   *log.Logger

	cfg      AxisConfig
	duration float64
	current  float64

	session *Session
	pending FrameID
	// token is bumped whenever the pending frame stops being the latest
	// intent, so a callback that slipped past CancelFrame can tell it is
	// stale.
	token uint64

	stats Stats
}

type Option func(*Scrubber)

func WithAxisConfig(cfg AxisConfig) Option {
	return func(s *Scrubber) { s.cfg = cfg.normalized() }
}

func WithThrottleInterval(d time.Duration) Option {
	return func(s *Scrubber) { s.throttle.interval = d }
}

// WithClock replaces the clock used by the move throttle.
func WithClock(now func() time.Time) Option {
	return func(s *Scrubber) { s.throttle.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Scrubber) { s.logger = l }
}

func NewScrubber(surface Surface, viewport Viewport, frames FrameScheduler, opts ...Option) *Scrubber {
	s := &Scrubber{
		surface:  surface,
		viewport: viewport,
		frames:   frames,
		throttle: NewThrottle(DefaultThrottleInterval),
		cfg:      DefaultAxisConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scrubber) State() State {
	if s.session != nil {
		return StateDragging
	}
	return StateIdle
}

// Session returns a copy of the active gesture, if any.
func (s *Scrubber) Session() (Session, bool) {
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

func (s *Scrubber) Stats() Stats { return s.stats }

func (s *Scrubber) AxisConfig() AxisConfig { return s.cfg }

// Configure swaps the axis mapping. An active gesture keeps its origin and
// picks up the new mapping on its next move.
func (s *Scrubber) Configure(cfg AxisConfig) {
	s.cfg = cfg.normalized()
}

func (s *Scrubber) Duration() float64 { return s.duration }

// SetDuration records the media duration once metadata has loaded.
// Non-finite or negative values reset it to unknown.
func (s *Scrubber) SetDuration(d float64) {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		d = 0
	}
	s.duration = d
	s.current = Clamp(s.current, d)
}

// Start begins a gesture at (x, y). Any unfinished gesture is replaced and
// its pending frame cancelled. The result reports whether the host should
// suppress its default handling of the input (scrolling for touch).
func (s *Scrubber) Start(x, y float64, kind InputKind) bool {
	if s.session != nil {
		s.logger.Debugf("gesture interrupted by new %s start", kind)
	}
	s.cancelPending()
	s.session = &Session{
		OriginX:    x,
		OriginY:    y,
		OriginTime: s.surface.CurrentTime(),
	}
	s.throttle.Reset()
	s.stats.Gestures++
	s.logger.Debugf("gesture start (%s) at %.0f,%.0f t=%.3f", kind, x, y, s.session.OriginTime)
	return kind == InputTouch
}

// Move feeds a pointer position of the active gesture. Moves while idle are
// ignored.
func (s *Scrubber) Move(x, y float64) {
	if s.session == nil {
		return
	}
	s.stats.Moves++
	if !s.throttle.Allow() {
		s.stats.Throttled++
		return
	}

	w, h := s.viewport.Size()
	t, ok := Compute(*s.session, s.cfg, x, y, w, h, s.duration)
	if !ok {
		s.stats.Skipped++
		return
	}
	s.schedule(t)
}

// End finishes the gesture: the pending frame is dropped and playback is
// paused at the last applied position.
func (s *Scrubber) End() {
	if s.session == nil {
		return
	}
	s.cancelPending()
	s.session = nil
	s.surface.Pause()
	s.logger.Debugf("gesture end t=%.3f", s.current)
}

func (s *Scrubber) Progress() Progress {
	p := Progress{CurrentTime: s.current, Duration: s.duration}
	if s.duration > 0 {
		p.Known = true
		p.Percent = s.current / s.duration * 100
	}
	return p
}

func (s *Scrubber) schedule(t float64) {
	if s.pending != 0 {
		s.frames.CancelFrame(s.pending)
		s.stats.Superseded++
	}
	s.token++
	token := s.token
	s.pending = s.frames.RequestFrame(func() { s.apply(token, t) })
}

func (s *Scrubber) apply(token uint64, t float64) {
	if token != s.token || s.session == nil {
		s.stats.Stale++
		s.logger.Debugf("dropped stale frame for t=%.3f", t)
		return
	}
	s.pending = 0
	t = Clamp(t, s.duration)
	s.surface.SetCurrentTime(t)
	s.current = t
	s.stats.Applied++
}

func (s *Scrubber) cancelPending() {
	s.token++
	if s.pending == 0 {
		return
	}
	s.frames.CancelFrame(s.pending)
	s.pending = 0
	s.stats.Cancelled++
}
