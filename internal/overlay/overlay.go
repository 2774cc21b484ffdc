// Package overlay projects scrub progress into the debug readout and
// progress bar shown on top of the player.
package overlay

import (
	"fmt"

	"github.com/ivlev/scrollplayer/internal/engine"
)

// BarDepth is the bar thickness in pixels.
const BarDepth = 5

// Bar describes the progress bar drawn along the active axis.
type Bar struct {
	Axis engine.Axis `json:"axis"`
	// LengthPercent is the bar length relative to the screen extent. One
	// bar length of travel seeks across the full duration.
	LengthPercent float64 `json:"length_percent"`
	FillPercent   float64 `json:"fill_percent"`
	// FromEnd fills from the bottom (vertical) or right (horizontal).
	FromEnd bool `json:"from_end"`
}

// View is what the page renders when debug is on.
type View struct {
	Text        string  `json:"text"`
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	Percent     float64 `json:"percent"`
	Bar         Bar     `json:"bar"`
}

func Readout(p engine.Progress) string {
	return fmt.Sprintf("Current Time: %.2fs / %.2fs", p.CurrentTime, p.Duration)
}

func BarFor(cfg engine.AxisConfig, percent float64) Bar {
	factor := cfg.Factor
	if factor < 1 {
		factor = 1
	}
	axis := cfg.Axis
	if axis != engine.AxisHorizontal {
		axis = engine.AxisVertical
	}
	return Bar{
		Axis:          axis,
		LengthPercent: 100 / float64(factor),
		FillPercent:   clampPercent(percent),
		FromEnd:       cfg.Reverse,
	}
}

// Project builds the debug view. It returns false when debug display is off
// so callers never compute or ship the overlay otherwise.
func Project(showDebug bool, cfg engine.AxisConfig, p engine.Progress) (View, bool) {
	if !showDebug {
		return View{}, false
	}
	percent := 0.0
	if p.Known {
		percent = p.Percent
	}
	return View{
		Text:        Readout(p),
		CurrentTime: p.CurrentTime,
		Duration:    p.Duration,
		Percent:     percent,
		Bar:         BarFor(cfg, percent),
	}, true
}

func clampPercent(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
