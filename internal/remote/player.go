package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/scrollplayer/internal/config"
	"github.com/ivlev/scrollplayer/internal/engine"
	"github.com/ivlev/scrollplayer/internal/frameloop"
	"github.com/ivlev/scrollplayer/internal/log"
	"github.com/ivlev/scrollplayer/internal/overlay"
)

const (
	writeWait = 5 * time.Second
	// maxMessageSize bounds one frame from the page. Pointer events are a
	// few dozen bytes.
	maxMessageSize = 4096
)

var errClosed = errors.New("player closed")

// Snapshot is a read-only copy of a player's state for debug endpoints.
type Snapshot struct {
	ID        string            `json:"id"`
	StartedAt time.Time         `json:"started_at"`
	State     string            `json:"state"`
	Axis      engine.AxisConfig `json:"axis"`
	ShowDebug bool              `json:"show_debug"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	Progress  engine.Progress   `json:"progress"`
	Stats     engine.Stats      `json:"stats"`
}

// Player drives one page: one Scrubber on one frame loop. Everything except
// Run, Snapshot and the reader goroutine executes on the loop goroutine.
type Player struct {
	ID       uuid.UUID
	started  time.Time
	videoURL string
	logger   *log.Logger

	cfg      config.Config
	loop     *frameloop.Loop
	surface  *remoteSurface
	scrubber *engine.Scrubber
	width    float64
	height   float64

	out    func(ServerMessage) error
	cancel context.CancelFunc

	mu   sync.RWMutex
	snap Snapshot
}

func newPlayer(id uuid.UUID, cfg config.Config, videoURL string, logger *log.Logger, out func(ServerMessage) error) *Player {
	p := &Player{
		ID:       id,
		started:  time.Now(),
		videoURL: videoURL,
		logger:   logger,
		cfg:      cfg,
		loop:     frameloop.New(cfg.FrameInterval),
		out:      out,
	}
	p.surface = &remoteSurface{send: p.send, onSeek: p.afterSeek}
	viewport := engine.ViewportFunc(func() (float64, float64) { return p.width, p.height })
	p.scrubber = engine.NewScrubber(p.surface, viewport, p.loop,
		engine.WithAxisConfig(cfg.AxisConfig()),
		engine.WithThrottleInterval(cfg.ThrottleInterval),
		engine.WithLogger(logger),
	)
	p.publish()
	return p
}

// Run serves conn until the page disconnects or ctx ends.
func (p *Player) Run(ctx context.Context, conn *websocket.Conn) error {
	ctx, p.cancel = context.WithCancel(ctx)
	defer p.cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.loop.Run(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		return conn.Close()
	})
	g.Go(func() error { return p.read(conn) })

	p.loop.Post(p.hello)

	err := g.Wait()
	if errors.Is(err, errClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (p *Player) read(conn *websocket.Conn) error {
	conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				return errClosed
			}
			return fmt.Errorf("read: %w", err)
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			p.logger.Warnf("player %s: bad message: %v", p.ID, err)
			continue
		}
		if !p.loop.Post(func() { p.handle(msg) }) {
			return errClosed
		}
	}
}

func (p *Player) hello() {
	p.send(ServerMessage{Type: MsgConfig, Settings: settingsFor(p.ID.String(), p.videoURL, &p.cfg)})
	p.pushDebug()
}

func (p *Player) handle(msg ClientMessage) {
	switch msg.Type {
	case MsgViewport:
		p.setViewport(msg.Width, msg.Height)
	case MsgMetadata:
		p.scrubber.SetDuration(msg.Duration)
		p.logger.Debugf("player %s: duration %.2fs", p.ID, msg.Duration)
		p.pushDebug()
	case MsgStart:
		p.setViewport(msg.Width, msg.Height)
		p.surface.observe(msg.Time)
		if p.scrubber.Start(msg.X, msg.Y, msg.inputKind()) {
			p.logger.Debugf("player %s: touch start, page suppresses scrolling", p.ID)
		}
	case MsgMove:
		p.scrubber.Move(msg.X, msg.Y)
	case MsgEnd:
		p.scrubber.End()
	case MsgConfigure:
		p.configure(msg)
	default:
		p.logger.Warnf("player %s: unknown message type %q", p.ID, msg.Type)
	}
	p.publish()
}

func (p *Player) setViewport(w, h float64) {
	if w > 0 && h > 0 {
		p.width, p.height = w, h
	}
}

func (p *Player) configure(msg ClientMessage) {
	next := p.cfg
	if msg.ToggleAxis {
		next.ToggleAxis()
	}
	if msg.Axis != "" && msg.Axis != next.Axis {
		next.Axis = msg.Axis
		next.Direction = ""
		next.ReverseOverride = false
	}
	if msg.Direction != "" {
		next.Direction = msg.Direction
		next.ReverseOverride = false
	}
	if msg.Factor != 0 {
		next.Factor = msg.Factor
	}
	if msg.ShowDebug != nil {
		next.ShowDebug = *msg.ShowDebug
	}
	if err := next.Validate(); err != nil {
		p.send(ServerMessage{Type: MsgError, Error: err.Error()})
		return
	}

	p.cfg = next
	p.scrubber.Configure(next.AxisConfig())
	p.send(ServerMessage{Type: MsgConfig, Settings: settingsFor(p.ID.String(), p.videoURL, &p.cfg)})
	p.pushDebug()
}

func (p *Player) afterSeek() {
	p.pushDebug()
	p.publish()
}

func (p *Player) pushDebug() {
	v, ok := overlay.Project(p.cfg.ShowDebug, p.scrubber.AxisConfig(), p.scrubber.Progress())
	if !ok {
		return
	}
	p.send(ServerMessage{Type: MsgDebug, Debug: &v})
}

func (p *Player) send(msg ServerMessage) {
	if err := p.out(msg); err != nil {
		p.logger.Warnf("player %s: write %s: %v", p.ID, msg.Type, err)
		if p.cancel != nil {
			p.cancel()
		}
	}
}

func (p *Player) publish() {
	s := Snapshot{
		ID:        p.ID.String(),
		StartedAt: p.started,
		State:     p.scrubber.State().String(),
		Axis:      p.scrubber.AxisConfig(),
		ShowDebug: p.cfg.ShowDebug,
		Width:     p.width,
		Height:    p.height,
		Progress:  p.scrubber.Progress(),
		Stats:     p.scrubber.Stats(),
	}
	p.mu.Lock()
	p.snap = s
	p.mu.Unlock()
}

func (p *Player) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// connWriter sends JSON frames on conn. Only the loop goroutine writes.
func connWriter(conn *websocket.Conn) func(ServerMessage) error {
	return func(msg ServerMessage) error {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
		return conn.WriteJSON(msg)
	}
}
