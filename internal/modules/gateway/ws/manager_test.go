package ws_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/frankieli/bingo_live/internal/modules/gateway/ws"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func newWSServer(t *testing.T, m *ws.Manager) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		client := m.Register(conn, r.URL.Query().Get("game_id"))
		go client.WritePump()
		go client.ReadPump()
	}))
}

func dial(t *testing.T, srv *httptest.Server, gameID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?game_id=" + gameID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func waitForWatchers(t *testing.T, m *ws.Manager, gameID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.WatcherCount(gameID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("watcher count for %s never reached %d", gameID, want)
}

func TestBroadcastReachesOnlySubscribedGame(t *testing.T) {
	m := ws.NewManager()
	go m.Run()

	srv := newWSServer(t, m)
	defer srv.Close()

	viewerA := dial(t, srv, "game-a")
	defer viewerA.Close()
	viewerB := dial(t, srv, "game-b")
	defer viewerB.Close()

	waitForWatchers(t, m, "game-a", 1)
	waitForWatchers(t, m, "game-b", 1)

	m.BroadcastToGame("game-a", []byte("state-changed"))

	viewerA.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := viewerA.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != "state-changed" {
		t.Errorf("message = %q", msg)
	}

	// The other game's viewer must see nothing
	viewerB.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := viewerB.ReadMessage(); err == nil {
		t.Error("viewer of another game received the broadcast")
	}
}

func TestDisconnectDropsWatcher(t *testing.T) {
	m := ws.NewManager()
	go m.Run()

	srv := newWSServer(t, m)
	defer srv.Close()

	viewer := dial(t, srv, "game-a")
	waitForWatchers(t, m, "game-a", 1)

	viewer.Close()
	waitForWatchers(t, m, "game-a", 0)
}
