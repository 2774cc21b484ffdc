package remote

import "math"

// remoteSurface mirrors the page's <video> element. Seeks and pauses are
// forwarded as messages; the position is tracked locally.
type remoteSurface struct {
	time   float64
	send   func(ServerMessage)
	onSeek func()
}

func (s *remoteSurface) CurrentTime() float64 { return s.time }

func (s *remoteSurface) SetCurrentTime(t float64) {
	s.time = t
	s.send(ServerMessage{Type: MsgSeek, Time: t})
	if s.onSeek != nil {
		s.onSeek()
	}
}

func (s *remoteSurface) Pause() {
	s.send(ServerMessage{Type: MsgPause})
}

// observe records a position reported by the page.
func (s *remoteSurface) observe(t float64) {
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return
	}
	s.time = t
}
