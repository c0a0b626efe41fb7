// Package realtime fans order-state changes out to connected clients over
// WebSocket. Membership is ephemeral: a reconnecting client must re-join its
// rooms, and missed events are never replayed.
package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"food-ordering/internal/models"
	"food-ordering/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Server-to-client events.
const (
	EventOrderStatusUpdated   = "order-status-updated"
	EventDeliveryOrderUpdated = "delivery-order-updated"
	EventAdminOrderUpdated    = "admin-order-updated"
)

// Client-to-server events.
const (
	eventJoinAdminRoom     = "join-admin-room"
	eventJoinDeliveryRoom  = "join-delivery-room"
	eventOrderStatusUpdate = "order-status-update"
)

const adminRoom = "admin-room"

func deliveryRoom(deliveryGuyID int64) string {
	return fmt.Sprintf("delivery-%d", deliveryGuyID)
}

// Envelope is the wire format of every server-to-client message. Seq is a
// process-local monotonic counter; consumers keep the highest Seq per order
// id so duplicate or reordered delivery converges on the latest snapshot.
type Envelope struct {
	Event string       `json:"event"`
	Seq   uint64       `json:"seq"`
	Data  OrderPayload `json:"data"`
}

// OrderPayload carries the full order snapshot. Snapshots are self-describing
// on purpose: clients replace, never merge.
type OrderPayload struct {
	Order *models.Order `json:"order"`
}

// inboundMessage is the wire format of client-to-server messages.
type inboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Hub tracks live connections and their room membership.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	seq atomic.Uint64
	log *logger.Logger

	upgrader websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		rooms:   make(map[string]map[*Client]bool),
		log:     log.WithComponent("realtime"),
		upgrader: websocket.Upgrader{
			// Browser clients connect from the SPA origin; all authorization
			// happens on the REST API, the socket only receives snapshots.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the HTTP connection and runs the client until it
// disconnects.
func (h *Hub) ServeWS(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.register(client)
	h.log.Debug("client connected", "client_id", client.id)

	go client.writePump()
	client.readPump()
	return nil
}

// PublishOrderUpdate delivers an order snapshot to every interested party:
// all connected clients, the assigned delivery person's room, and the admin
// room. Admin and delivery sessions therefore see the same logical update
// twice; consumers must reconcile by order id. Delivery is best-effort and
// never fails the triggering request.
func (h *Hub) PublishOrderUpdate(order *models.Order) {
	seq := h.seq.Add(1)

	h.emitToAll(EventOrderStatusUpdated, seq, order)
	if order.DeliveryGuyID.Valid {
		h.emitToRoom(deliveryRoom(order.DeliveryGuyID.Int64), EventDeliveryOrderUpdated, seq, order)
	}
	h.emitToRoom(adminRoom, EventAdminOrderUpdated, seq, order)
}

func (h *Hub) emitToAll(event string, seq uint64, order *models.Order) {
	msg, err := json.Marshal(Envelope{Event: event, Seq: seq, Data: OrderPayload{Order: order}})
	if err != nil {
		h.log.Error("marshal broadcast", "error", err)
		return
	}
	// trySend never blocks, so the send happens under the read lock; close
	// in unregister holds the write lock, which rules out a send on a
	// closed channel.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for cl := range h.clients {
		cl.trySend(msg)
	}
}

func (h *Hub) emitToRoom(room, event string, seq uint64, order *models.Order) {
	msg, err := json.Marshal(Envelope{Event: event, Seq: seq, Data: OrderPayload{Order: order}})
	if err != nil {
		h.log.Error("marshal broadcast", "error", err)
		return
	}
	// Fan-out to zero recipients is a normal outcome, not an error.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for cl := range h.rooms[room] {
		cl.trySend(msg)
	}
}

func (h *Hub) register(cl *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[cl] = true
}

func (h *Hub) unregister(cl *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[cl] {
		return
	}
	delete(h.clients, cl)
	for room, members := range h.rooms {
		delete(members, cl)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(cl.send)
}

func (h *Hub) joinRoom(cl *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[cl] {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][cl] = true
}

// handleInbound dispatches a parsed client message.
func (h *Hub) handleInbound(cl *Client, msg inboundMessage) {
	switch msg.Event {
	case eventJoinAdminRoom:
		h.joinRoom(cl, adminRoom)
		h.log.Debug("admin joined admin room", "client_id", cl.id)

	case eventJoinDeliveryRoom:
		id, ok := parseDeliveryID(msg.Data)
		if !ok {
			h.log.Warn("join-delivery-room with bad payload", "client_id", cl.id)
			return
		}
		h.joinRoom(cl, deliveryRoom(id))
		h.log.Debug("delivery person joined room", "client_id", cl.id, "delivery_guy_id", id)

	case eventOrderStatusUpdate:
		// Compatibility relay: the legacy frontend re-emits the snapshot it
		// received from the REST call. The server already published after
		// commit, so this only matters for clients that bypass the API.
		var payload OrderPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.Order == nil {
			h.log.Warn("order-status-update with bad payload", "client_id", cl.id)
			return
		}
		h.PublishOrderUpdate(payload.Order)

	default:
		h.log.Debug("ignoring unknown event", "event", msg.Event, "client_id", cl.id)
	}
}

// parseDeliveryID accepts the delivery id either as a JSON number or string,
// matching what the frontend has historically sent.
func parseDeliveryID(raw json.RawMessage) (int64, bool) {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil && n > 0 {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var parsed int64
		if _, err := fmt.Sscanf(s, "%d", &parsed); err == nil && parsed > 0 {
			return parsed, true
		}
	}
	return 0, false
}
