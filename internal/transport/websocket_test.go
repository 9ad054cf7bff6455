package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"draftlite/internal/archive"
	"draftlite/internal/cardpool"
	"draftlite/internal/packbuilder"
	"draftlite/internal/registry"
)

func dialLobby(t *testing.T, srv *httptest.Server, lobbyID uuid.UUID) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + lobbyID.String()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestWebSocketHandler_UnknownLobbySendsEnded(t *testing.T) {
	pool := registry.New(archive.NewNoop())
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/{lobby}", NewWebSocketHandler(pool))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	conn := dialLobby(t, srv, uuid.New())
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if !strings.Contains(string(data), `"ended"`) {
		t.Fatalf("expected an ended frame, got %s", data)
	}
}

func TestWebSocketHandler_ConnectAndPlayerList(t *testing.T) {
	cfg := packbuilder.DefaultConfig()
	poolDraft := cardpool.New()

	svc := archive.NewNoop()
	pool := registry.New(svc)
	id := pool.Spawn(cfg, poolDraft)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/{lobby}", NewWebSocketHandler(pool))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	conn := dialLobby(t, srv, id)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	seenConnected := false
	seenPlayerList := false
	for i := 0; i < 2; i++ {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage: %v", err)
		}
		if strings.Contains(string(data), `"connected"`) {
			seenConnected = true
		}
		if strings.Contains(string(data), `"player_list"`) {
			seenPlayerList = true
		}
	}
	if !seenConnected || !seenPlayerList {
		t.Fatalf("expected both connected and player_list frames, got connected=%v player_list=%v", seenConnected, seenPlayerList)
	}
}
