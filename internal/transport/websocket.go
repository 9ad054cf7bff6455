// websocket.go implements the bidirectional framing transport at the
// seam the core specifies but does not own: an upgrade, a read pump that
// decodes frames into Request.Message calls, and a write pump that
// encodes the lobby's outbound messages back onto the socket. When
// either side exits, the other is torn down and a synthetic
// Message(seat, Disconnected) is enqueued — the exact contract the
// core documents at its boundary.
package transport

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"draftlite/internal/lobby"
	"draftlite/internal/registry"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	outboundBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NewWebSocketHandler serves GET /ws/{lobby} (new seat) and
// GET /ws/{lobby}/{seat} (resume) against pool.
func NewWebSocketHandler(pool *registry.ServerPool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lobbyID, err := uuid.Parse(r.PathValue("lobby"))
		if err != nil {
			http.Error(w, "invalid lobby id", http.StatusNotFound)
			return
		}

		server, ok := pool.Handle(lobbyID)
		if !ok {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			defer conn.Close()
			if data, err := EncodeServerMessage(lobby.Ended()); err == nil {
				_ = conn.WriteMessage(websocket.BinaryMessage, data)
			}
			return
		}

		var seat uuid.UUID
		if raw := r.PathValue("seat"); raw != "" {
			seat, err = ParseSeat(raw)
			if err != nil {
				http.Error(w, "invalid seat id", http.StatusBadRequest)
				return
			}
		} else {
			seat = uuid.New()
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[Transport] upgrade failed: %v", err)
			return
		}

		outbound := make(chan lobby.ServerMessage, outboundBuffer)
		if err := server.Submit(lobby.NewConnect(seat, outbound)); err != nil {
			_ = conn.Close()
			return
		}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			writePump(conn, outbound)
		}()

		readPump(conn, server, seat)

		_ = conn.Close() // unblocks writePump's next write or ping
		wg.Wait()

		_ = server.Submit(lobby.NewMessage(seat, lobby.Disconnected()))
	}
}

func readPump(conn *websocket.Conn, server *lobby.Server, seat uuid.UUID) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}
		msg, err := DecodeClientMessage(data)
		if err != nil {
			continue
		}
		if err := server.Submit(lobby.NewMessage(seat, msg)); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, outbound <-chan lobby.ServerMessage) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-outbound:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
				return
			}
			data, err := EncodeServerMessage(msg)
			if err != nil {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
