package remote

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ivlev/scrollplayer/internal/config"
	"github.com/ivlev/scrollplayer/internal/log"
)

func startServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	cfg := config.Default()
	cfg.FrameInterval = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(ctx, cfg, "/media", log.Discard())
	srv := httptest.NewServer(Handler(hub, ""))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUntil(t *testing.T, conn *websocket.Conn, typ string) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg ServerMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %q: %v", typ, err)
		}
		if msg.Type == typ {
			return msg
		}
	}
}

func TestWebSocketScrub(t *testing.T) {
	hub, srv := startServer(t)
	conn := dial(t, srv)

	hello := readUntil(t, conn, MsgConfig)
	if hello.Settings == nil || hello.Settings.PlayerID == "" || hello.Settings.Axis != "vertical" {
		t.Fatalf("unexpected hello %+v", hello)
	}

	for _, m := range []ClientMessage{
		{Type: MsgViewport, Width: 800, Height: 1000},
		{Type: MsgMetadata, Duration: 100},
		{Type: MsgStart, X: 0, Y: 200, Time: 5, Kind: "mouse"},
		{Type: MsgMove, X: 0, Y: 300},
	} {
		if err := conn.WriteJSON(m); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	seek := readUntil(t, conn, MsgSeek)
	if math.Abs(seek.Time-15) > 1e-9 {
		t.Errorf("expected seek to 15s, got %.3f", seek.Time)
	}

	conn.WriteJSON(ClientMessage{Type: MsgEnd})
	readUntil(t, conn, MsgPause)

	if hub.Live() != 1 || hub.Served() != 1 {
		t.Errorf("expected one live player, got live=%d served=%d", hub.Live(), hub.Served())
	}

	resp, err := http.Get(srv.URL + "/debug/players")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var snaps []Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snaps); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snaps) != 1 || snaps[0].ID != hello.Settings.PlayerID {
		t.Errorf("unexpected players %+v", snaps)
	}
}

func TestOverlayEndpoint(t *testing.T) {
	_, srv := startServer(t)
	conn := dial(t, srv)
	hello := readUntil(t, conn, MsgConfig)
	overlayURL := srv.URL + "/debug/players/" + hello.Settings.PlayerID + "/overlay.png?w=320&h=200"

	resp, err := http.Get(overlayURL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 while debug is off, got %d", resp.StatusCode)
	}

	on := true
	conn.WriteJSON(ClientMessage{Type: MsgConfigure, ShowDebug: &on})
	readUntil(t, conn, MsgDebug)

	deadline := time.Now().Add(3 * time.Second)
	for {
		resp, err := http.Get(overlayURL)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
				t.Errorf("expected image/png, got %q", ct)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("overlay never became available, last status %d", resp.StatusCode)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestOverlayEndpointBadID(t *testing.T) {
	_, srv := startServer(t)
	resp, err := http.Get(srv.URL + "/debug/players/not-a-uuid/overlay.png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestIndexServed(t *testing.T) {
	_, srv := startServer(t)
	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	page := string(body)
	for _, want := range []string{"<video", "'touchcancel'", "e.touches.length > 1"} {
		if !strings.Contains(page, want) {
			t.Errorf("index page should contain %q", want)
		}
	}
}

// readRawUntil returns the raw text of the next frame of type typ.
func readRawUntil(t *testing.T, conn *websocket.Conn, typ string) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %q: %v", typ, err)
		}
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			t.Fatalf("bad frame %s: %v", data, err)
		}
		if head.Type == typ {
			return string(data)
		}
	}
}

func TestSeekToStartKeepsTimeOnWire(t *testing.T) {
	_, srv := startServer(t)
	conn := dial(t, srv)
	readUntil(t, conn, MsgConfig)

	// Dragging down 100px with direction up on a 1000px screen rewinds 10s
	// from 5s, which clamps to the start.
	for _, m := range []ClientMessage{
		{Type: MsgViewport, Width: 800, Height: 1000},
		{Type: MsgMetadata, Duration: 100},
		{Type: MsgConfigure, Direction: "up"},
		{Type: MsgStart, Y: 200, Time: 5, Kind: "mouse"},
		{Type: MsgMove, Y: 300},
	} {
		if err := conn.WriteJSON(m); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	frame := readRawUntil(t, conn, MsgSeek)
	if !strings.Contains(frame, `"time":0`) {
		t.Errorf("seek to the start must carry time 0, got %s", frame)
	}
}

func TestDebugPlayersSnakeCase(t *testing.T) {
	_, srv := startServer(t)
	conn := dial(t, srv)
	readUntil(t, conn, MsgConfig)

	resp, err := http.Get(srv.URL + "/debug/players")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	raw := string(body)
	for _, want := range []string{`"current_time"`, `"reverse"`, `"factor"`, `"gestures"`, `"applied"`} {
		if !strings.Contains(raw, want) {
			t.Errorf("expected key %s in %s", want, raw)
		}
	}
	for _, bad := range []string{`"CurrentTime"`, `"Reverse"`, `"Gestures"`} {
		if strings.Contains(raw, bad) {
			t.Errorf("unexpected key %s in %s", bad, raw)
		}
	}
}

func TestOversizedFrameClosesPlayer(t *testing.T) {
	hub, srv := startServer(t)
	conn := dial(t, srv)
	readUntil(t, conn, MsgConfig)

	big := ClientMessage{Type: MsgConfigure, Direction: strings.Repeat("x", 2*maxMessageSize)}
	if err := conn.WriteJSON(big); err != nil {
		t.Fatalf("write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if ne, ok := err.(interface{ Timeout() bool }); ok && ne.Timeout() {
				t.Fatal("connection stayed open after an oversized frame")
			}
			break
		}
	}

	deadline := time.Now().Add(3 * time.Second)
	for hub.Live() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("player still live after an oversized frame")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
