package server

import (
	"net/http"
	"time"

	"omniauction/internal/broadcast"
	"omniauction/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser dashboards connect from arbitrary origins; there is no auth
	// on this API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SubscribeHandler upgrades GET /ws and bridges the connection to the
// broadcaster. A client that stops reading falls behind its event buffer and
// is dropped by the broadcaster; a client that disconnects unsubscribes
// itself without affecting anyone else.
func SubscribeHandler(b *broadcast.Broadcaster) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			utils.Warn("ws: upgrade failed", map[string]any{"error": err.Error()})
			return
		}

		sub := b.Subscribe()
		go writePump(conn, b, sub)
		go readPump(conn, b, sub)
	}
}

// writePump forwards broadcast events to the connection until the
// subscriber's channel closes or a write fails.
func writePump(conn *websocket.Conn, b *broadcast.Broadcaster, sub *broadcast.Subscriber) {
	defer conn.Close()

	for event := range sub.Events() {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(event); err != nil {
			utils.Debug("ws: write failed, dropping subscriber", map[string]any{"error": err.Error()})
			b.Unsubscribe(sub)
			return
		}
	}

	// Channel closed: the broadcaster dropped us. Tell the client why.
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "subscriber dropped"))
}

// readPump discards inbound frames; its job is to notice the peer closing
// the connection and deregister the subscriber.
func readPump(conn *websocket.Conn, b *broadcast.Broadcaster, sub *broadcast.Subscriber) {
	defer func() {
		b.Unsubscribe(sub)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
