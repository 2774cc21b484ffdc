package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ivlev/scrollplayer/internal/engine"
)

var (
	ErrInvalidAxis      = errors.New("invalid axis")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidFactor    = errors.New("invalid factor")
	ErrInvalidInterval  = errors.New("invalid interval")
)

// Directions a drag can map to forward playback. Up and left are the
// reversed ones.
const (
	DirectionDown  = "down"
	DirectionUp    = "up"
	DirectionRight = "right"
	DirectionLeft  = "left"
)

// FactorOptions are the sensitivities offered by the player controls.
var FactorOptions = []int{1, 2, 3, 4, 5}

type Config struct {
	Axis string `yaml:"axis"`
	// Direction is the drag direction that plays forward. Empty means the
	// axis default (down or right).
	Direction string `yaml:"direction,omitempty"`
	// ReverseOverride forces reverse regardless of Direction.
	ReverseOverride bool `yaml:"reverse,omitempty"`
	Factor          int  `yaml:"factor"`
	ShowDebug       bool `yaml:"show_debug"`

	ThrottleInterval time.Duration `yaml:"throttle_interval"`
	FrameInterval    time.Duration `yaml:"frame_interval"`
	// PreventMouseDefault asks the page to suppress text selection while a
	// mouse drag is active.
	PreventMouseDefault bool `yaml:"prevent_mouse_default"`

	Listen   string `yaml:"listen"`
	VideoDir string `yaml:"video_dir"`
	VideoURL string `yaml:"video_url,omitempty"`

	LogLevel  string `yaml:"log_level"`
	ShowStats bool   `yaml:"show_stats"`
	ShowQR    bool   `yaml:"show_qr"`

	BuildVersion string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		Axis:                string(engine.AxisVertical),
		Factor:              1,
		ThrottleInterval:    engine.DefaultThrottleInterval,
		FrameInterval:       time.Second / 60,
		PreventMouseDefault: true,
		Listen:              ":8080",
		VideoDir:            "input/video",
		LogLevel:            "info",
		ShowQR:              true,
	}
}

// DefaultDirection is the forward direction an axis starts with.
func DefaultDirection(axis engine.Axis) string {
	if axis == engine.AxisHorizontal {
		return DirectionRight
	}
	return DirectionDown
}

// Reverse reports whether the configured direction inverts the drag.
func (c *Config) Reverse() bool {
	if c.ReverseOverride {
		return true
	}
	switch strings.ToLower(c.Direction) {
	case DirectionUp, DirectionLeft:
		return true
	}
	return false
}

// ToggleAxis flips between vertical and horizontal and resets the direction
// to the new axis default.
func (c *Config) ToggleAxis() {
	next := engine.AxisHorizontal
	if c.Axis == string(engine.AxisHorizontal) {
		next = engine.AxisVertical
	}
	c.Axis = string(next)
	c.Direction = DefaultDirection(next)
	c.ReverseOverride = false
}

func (c *Config) AxisConfig() engine.AxisConfig {
	axis, err := engine.ParseAxis(c.Axis)
	if err != nil {
		axis = engine.AxisVertical
	}
	return engine.AxisConfig{
		Axis:    axis,
		Reverse: c.Reverse(),
		Factor:  c.Factor,
	}
}

func (c *Config) Validate() error {
	axis, err := engine.ParseAxis(c.Axis)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAxis, c.Axis)
	}
	if c.Direction != "" {
		d := strings.ToLower(c.Direction)
		ok := d == DirectionDown || d == DirectionUp
		if axis == engine.AxisHorizontal {
			ok = d == DirectionRight || d == DirectionLeft
		}
		if !ok {
			return fmt.Errorf("%w: %q for %s axis", ErrInvalidDirection, c.Direction, axis)
		}
	}
	if c.Factor < 1 {
		return fmt.Errorf("%w: %d, must be at least 1", ErrInvalidFactor, c.Factor)
	}
	if c.ThrottleInterval < 0 {
		return fmt.Errorf("%w: throttle %s", ErrInvalidInterval, c.ThrottleInterval)
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("%w: frame %s", ErrInvalidInterval, c.FrameInterval)
	}
	return nil
}
