package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBufferSize = 32
)

// Client is one live WebSocket session.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// trySend queues a message without blocking. A client that cannot keep up
// simply misses the event; broadcasts carry full snapshots, so the next one
// supersedes it.
func (cl *Client) trySend(msg []byte) {
	select {
	case cl.send <- msg:
	default:
	}
}

// readPump consumes client messages until the connection drops.
func (cl *Client) readPump() {
	defer func() {
		cl.hub.unregister(cl)
		cl.conn.Close()
		cl.hub.log.Debug("client disconnected", "client_id", cl.id)
	}()

	cl.conn.SetReadLimit(maxMessageSize)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			cl.hub.log.Warn("unparseable client message", "client_id", cl.id)
			continue
		}
		cl.hub.handleInbound(cl, msg)
	}
}

// writePump drains the send channel and keeps the connection alive with pings.
func (cl *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
