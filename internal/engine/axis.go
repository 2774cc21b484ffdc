package engine

import (
	"fmt"
	"strings"
)

// Axis selects the screen dimension that drives scrubbing.
type Axis string

const (
	AxisVertical   Axis = "vertical"
	AxisHorizontal Axis = "horizontal"
)

// ParseAxis accepts "vertical" or "horizontal" in any case. An empty string
// yields the vertical default.
func ParseAxis(s string) (Axis, error) {
	switch Axis(strings.ToLower(strings.TrimSpace(s))) {
	case "", AxisVertical:
		return AxisVertical, nil
	case AxisHorizontal:
		return AxisHorizontal, nil
	default:
		return "", fmt.Errorf("unknown axis %q", s)
	}
}

// InputKind tells mouse gestures apart from touch gestures.
type InputKind int

const (
	InputMouse InputKind = iota
	InputTouch
)

func (k InputKind) String() string {
	switch k {
	case InputMouse:
		return "mouse"
	case InputTouch:
		return "touch"
	default:
		return "unknown"
	}
}

// AxisConfig is the externally supplied mapping from drag to time.
type AxisConfig struct {
	Axis    Axis `json:"axis"`
	Reverse bool `json:"reverse"`
	// Factor is how many full-duration seeks fit into one screen extent.
	// Values below 1 are treated as 1.
	Factor int `json:"factor"`
}

func DefaultAxisConfig() AxisConfig {
	return AxisConfig{Axis: AxisVertical, Factor: 1}
}

func (c AxisConfig) normalized() AxisConfig {
	if c.Axis != AxisHorizontal {
		c.Axis = AxisVertical
	}
	if c.Factor < 1 {
		c.Factor = 1
	}
	return c
}
