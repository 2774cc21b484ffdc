package engine

import "math"

// Session is the in-progress drag: where it started and the media
// position at that moment.
type Session struct {
	OriginX, OriginY float64
	OriginTime       float64
}

// Compute converts a pointer position into a clamped media time.
//
// The returned bool is false when the conversion cannot be made because the
// duration or the screen extent on the active axis is not known yet.
func Compute(s Session, cfg AxisConfig, x, y, width, height, duration float64) (float64, bool) {
	if !(duration > 0) || math.IsInf(duration, 0) {
		return 0, false
	}
	cfg = cfg.normalized()

	var delta, extent float64
	if cfg.Axis == AxisHorizontal {
		delta, extent = x-s.OriginX, width
	} else {
		delta, extent = y-s.OriginY, height
	}
	if !(extent > 0) {
		return 0, false
	}

	forward := delta > 0
	if cfg.Reverse {
		forward = delta < 0
	}

	td := TimeDelta(math.Abs(delta), extent, cfg.Factor, duration)
	if !forward {
		td = -td
	}
	return Clamp(s.OriginTime+td, duration), true
}

// TimeDelta is the seek distance in seconds for a drag of distance pixels.
// extent/factor pixels of travel cover the whole duration.
func TimeDelta(distance, extent float64, factor int, duration float64) float64 {
	if factor < 1 {
		factor = 1
	}
	return distance / (extent / float64(factor)) * duration
}

// Clamp bounds t to [0, duration]. NaN collapses to 0.
func Clamp(t, duration float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if duration < 0 {
		duration = 0
	}
	if t > duration {
		return duration
	}
	return t
}
