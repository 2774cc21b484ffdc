package remote

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ivlev/scrollplayer/internal/config"
	"github.com/ivlev/scrollplayer/internal/log"
	"github.com/ivlev/scrollplayer/internal/system"
)

// Hub accepts page connections and keeps track of live players.
type Hub struct {
	ctx      context.Context
	cfg      *config.Config
	videoURL string
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	players map[uuid.UUID]*Player
	served  int
}

// NewHub creates a hub whose players stop when ctx ends. videoURL is what
// the page loads into its <video> element.
func NewHub(ctx context.Context, cfg *config.Config, videoURL string, logger *log.Logger) *Hub {
	return &Hub{
		ctx:      ctx,
		cfg:      cfg,
		videoURL: videoURL,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		players: make(map[uuid.UUID]*Player),
	}
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("Upgrade error: %v", err)
		return
	}

	p := newPlayer(uuid.New(), *h.cfg, h.videoURL, h.logger, connWriter(conn))
	h.add(p)
	defer h.remove(p)

	h.logger.Infof("Плеер подключен: %s (%s)", p.ID, r.RemoteAddr)
	if err := p.Run(h.ctx, conn); err != nil {
		h.logger.Warnf("player %s: %v", p.ID, err)
	}
	st := p.Snapshot().Stats
	h.logger.Infof("Плеер отключен: %s | жестов: %d, движений: %d, отброшено: %d, записей: %d",
		p.ID, st.Gestures, st.Moves, st.Throttled, st.Applied)
	if h.cfg.ShowStats {
		if ps, err := system.CurrentProcessStats(); err == nil {
			h.logger.Infof("RSS: %.1f MiB | CPU: %.1f%% | живых плееров: %d", float64(ps.RSS)/(1<<20), ps.CPUPercent, h.Live())
		}
	}
}

func (h *Hub) add(p *Player) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.players[p.ID] = p
	h.served++
}

func (h *Hub) remove(p *Player) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.players, p.ID)
}

// Snapshots lists live players, oldest first.
func (h *Hub) Snapshots() []Snapshot {
	h.mu.RLock()
	out := make([]Snapshot, 0, len(h.players))
	for _, p := range h.players {
		out = append(out, p.Snapshot())
	}
	h.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

func (h *Hub) Snapshot(id uuid.UUID) (Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.players[id]
	if !ok {
		return Snapshot{}, false
	}
	return p.Snapshot(), true
}

// Served counts every player since start, including disconnected ones.
func (h *Hub) Served() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.served
}

func (h *Hub) Live() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.players)
}
