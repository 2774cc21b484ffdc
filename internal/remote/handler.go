package remote

import (
	"bytes"
	"embed"
	"encoding/json"
	"image"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/ivlev/scrollplayer/internal/overlay"
	"github.com/ivlev/scrollplayer/internal/system"
)

//go:embed static
var staticFiles embed.FS

const maxOverlaySide = 4096

// Handler routes the player page, the WebSocket, the media file and the
// debug endpoints. mediaPath may be empty when the page plays an external
// URL.
func Handler(h *Hub, mediaPath string) http.Handler {
	mux := http.NewServeMux()

	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("GET /", http.FileServer(http.FS(static)))
	mux.HandleFunc("GET /ws", h.ServeWS)
	mux.HandleFunc("GET /media", func(w http.ResponseWriter, r *http.Request) {
		if mediaPath == "" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, mediaPath)
	})
	mux.HandleFunc("GET /debug/players", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(h.Snapshots()); err != nil {
			h.logger.Warnf("debug players: %v", err)
		}
	})
	mux.HandleFunc("GET /debug/players/{id}/overlay.png", func(w http.ResponseWriter, r *http.Request) {
		serveOverlay(h, w, r)
	})
	return mux
}

func serveOverlay(h *Hub, w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "bad player id", http.StatusBadRequest)
		return
	}
	snap, ok := h.Snapshot(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	v, ok := overlay.Project(snap.ShowDebug, snap.Axis, snap.Progress)
	if !ok {
		http.Error(w, "debug overlay is off for this player", http.StatusNotFound)
		return
	}

	width, height := int(snap.Width), int(snap.Height)
	if width <= 0 || height <= 0 {
		width, height = 640, 360
	}
	width = queryInt(r, "w", min(width, maxOverlaySide))
	height = queryInt(r, "h", min(height, maxOverlaySide))

	img := system.GetImage(image.Rect(0, 0, width, height))
	defer system.PutImage(img)
	overlay.RenderInto(img, v)

	var buf bytes.Buffer
	if err := overlay.WritePNG(&buf, img); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warnf("overlay %s: %v", id, err)
	}
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	if v > maxOverlaySide {
		return maxOverlaySide
	}
	return v
}
