package remote

import (
	"github.com/ivlev/scrollplayer/internal/config"
	"github.com/ivlev/scrollplayer/internal/engine"
	"github.com/ivlev/scrollplayer/internal/overlay"
)

// Messages sent by the page.
const (
	MsgViewport  = "viewport"
	MsgMetadata  = "metadata"
	MsgStart     = "start"
	MsgMove      = "move"
	MsgEnd       = "end"
	MsgConfigure = "configure"
)

// Messages sent to the page.
const (
	MsgConfig = "config"
	MsgSeek   = "seek"
	MsgPause  = "pause"
	MsgDebug  = "debug"
	MsgError  = "error"
)

// ClientMessage is one event from the page. Which fields are set depends on
// Type.
type ClientMessage struct {
	Type string `json:"type"`

	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
	Kind string  `json:"kind,omitempty"`
	// Time is the media position the page saw when the gesture started.
	Time float64 `json:"time,omitempty"`

	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Duration float64 `json:"duration,omitempty"`

	Axis       string `json:"axis,omitempty"`
	Direction  string `json:"direction,omitempty"`
	Factor     int    `json:"factor,omitempty"`
	ShowDebug  *bool  `json:"show_debug,omitempty"`
	ToggleAxis bool   `json:"toggle_axis,omitempty"`
}

func (m ClientMessage) inputKind() engine.InputKind {
	if m.Kind == "touch" {
		return engine.InputTouch
	}
	return engine.InputMouse
}

// PlayerSettings is the page-facing view of the player configuration.
type PlayerSettings struct {
	PlayerID            string `json:"player_id"`
	VideoURL            string `json:"video_url"`
	Axis                string `json:"axis"`
	Direction           string `json:"direction"`
	Reverse             bool   `json:"reverse"`
	Factor              int    `json:"factor"`
	FactorOptions       []int  `json:"factor_options"`
	ShowDebug           bool   `json:"show_debug"`
	PreventMouseDefault bool   `json:"prevent_mouse_default"`
}

// ServerMessage is one command or update for the page.
type ServerMessage struct {
	Type     string          `json:"type"`
	Time     float64         `json:"time"`
	Settings *PlayerSettings `json:"settings,omitempty"`
	Debug    *overlay.View   `json:"debug,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func settingsFor(id, videoURL string, cfg *config.Config) *PlayerSettings {
	direction := cfg.Direction
	if direction == "" {
		direction = config.DefaultDirection(cfg.AxisConfig().Axis)
	}
	return &PlayerSettings{
		PlayerID:            id,
		VideoURL:            videoURL,
		Axis:                string(cfg.AxisConfig().Axis),
		Direction:           direction,
		Reverse:             cfg.Reverse(),
		Factor:              cfg.Factor,
		FactorOptions:       config.FactorOptions,
		ShowDebug:           cfg.ShowDebug,
		PreventMouseDefault: cfg.PreventMouseDefault,
	}
}
