package realtime

import (
	"database/sql"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"food-ordering/internal/models"
	"food-ordering/pkg/logger"
)

func newTestHub() *Hub {
	return NewHub(logger.New("error"))
}

func newTestClient(h *Hub) *Client {
	cl := &Client{id: "test", hub: h, send: make(chan []byte, sendBufferSize)}
	h.register(cl)
	return cl
}

func drain(t *testing.T, cl *Client) []Envelope {
	t.Helper()
	var got []Envelope
	for {
		select {
		case raw := <-cl.send:
			var env Envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				t.Fatalf("unmarshal envelope: %v", err)
			}
			got = append(got, env)
		default:
			return got
		}
	}
}

func testOrder(id int, deliveryGuyID int64) *models.Order {
	o := &models.Order{ID: id, UserID: 1, Token: "A1B2C3D4E5F6", Status: models.StatusOutForDelivery}
	if deliveryGuyID > 0 {
		o.DeliveryGuyID = sql.NullInt64{Int64: deliveryGuyID, Valid: true}
	}
	return o
}

func TestPublishOrderUpdate_BroadcastsToEveryone(t *testing.T) {
	h := newTestHub()
	a := newTestClient(h)
	b := newTestClient(h)

	h.PublishOrderUpdate(testOrder(1, 0))

	for _, cl := range []*Client{a, b} {
		got := drain(t, cl)
		if len(got) != 1 {
			t.Fatalf("client received %d events, want 1", len(got))
		}
		if got[0].Event != EventOrderStatusUpdated {
			t.Fatalf("event = %q, want %q", got[0].Event, EventOrderStatusUpdated)
		}
		if got[0].Data.Order == nil || got[0].Data.Order.ID != 1 {
			t.Fatalf("payload missing order snapshot: %+v", got[0].Data)
		}
	}
}

func TestPublishOrderUpdate_TargetsRooms(t *testing.T) {
	h := newTestHub()
	admin := newTestClient(h)
	assigned := newTestClient(h)
	otherDelivery := newTestClient(h)
	bystander := newTestClient(h)

	h.joinRoom(admin, adminRoom)
	h.joinRoom(assigned, deliveryRoom(5))
	h.joinRoom(otherDelivery, deliveryRoom(9))

	h.PublishOrderUpdate(testOrder(7, 5))

	events := func(cl *Client) map[string]int {
		m := map[string]int{}
		for _, env := range drain(t, cl) {
			m[env.Event]++
		}
		return m
	}

	if got := events(admin); got[EventOrderStatusUpdated] != 1 || got[EventAdminOrderUpdated] != 1 {
		t.Fatalf("admin events = %v, want broadcast + admin copy", got)
	}
	if got := events(assigned); got[EventOrderStatusUpdated] != 1 || got[EventDeliveryOrderUpdated] != 1 {
		t.Fatalf("assigned delivery events = %v, want broadcast + targeted copy", got)
	}
	if got := events(otherDelivery); got[EventDeliveryOrderUpdated] != 0 {
		t.Fatalf("unassigned delivery person got a targeted copy: %v", got)
	}
	if got := events(bystander); len(got) != 1 || got[EventOrderStatusUpdated] != 1 {
		t.Fatalf("bystander events = %v, want only the broadcast", got)
	}
}

func TestPublishOrderUpdate_UnassignedOrderSkipsDeliveryRoom(t *testing.T) {
	h := newTestHub()
	delivery := newTestClient(h)
	h.joinRoom(delivery, deliveryRoom(5))

	h.PublishOrderUpdate(testOrder(2, 0))

	got := drain(t, delivery)
	if len(got) != 1 || got[0].Event != EventOrderStatusUpdated {
		t.Fatalf("events = %+v, want only the broadcast", got)
	}
}

func TestPublishOrderUpdate_SeqIsMonotonic(t *testing.T) {
	h := newTestHub()
	cl := newTestClient(h)

	h.PublishOrderUpdate(testOrder(1, 0))
	h.PublishOrderUpdate(testOrder(1, 0))
	h.PublishOrderUpdate(testOrder(1, 0))

	got := drain(t, cl)
	if len(got) != 3 {
		t.Fatalf("received %d events, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Seq <= got[i-1].Seq {
			t.Fatalf("seq not monotonic: %d then %d", got[i-1].Seq, got[i].Seq)
		}
	}
}

// A consumer reconciling by order id with last-seq-wins ends up with exactly
// one entry reflecting the later snapshot, even across duplicate delivery.
func TestSnapshotReconciliation(t *testing.T) {
	h := newTestHub()
	admin := newTestClient(h)
	h.joinRoom(admin, adminRoom)

	first := testOrder(3, 5)
	first.Status = models.StatusOutForDelivery
	second := testOrder(3, 5)
	second.Status = models.StatusDelivered

	h.PublishOrderUpdate(first)
	h.PublishOrderUpdate(second)

	type entry struct {
		seq   uint64
		order *models.Order
	}
	local := map[int]entry{}
	for _, env := range drain(t, admin) {
		if cur, ok := local[env.Data.Order.ID]; !ok || env.Seq > cur.seq {
			local[env.Data.Order.ID] = entry{seq: env.Seq, order: env.Data.Order}
		}
	}

	if len(local) != 1 {
		t.Fatalf("local list has %d entries for one order, want 1", len(local))
	}
	if got := local[3].order.Status; got != models.StatusDelivered {
		t.Fatalf("reconciled status = %s, want delivered", got)
	}
}

func TestUnregisterLeavesRooms(t *testing.T) {
	h := newTestHub()
	cl := newTestClient(h)
	h.joinRoom(cl, adminRoom)

	h.unregister(cl)

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.clients[cl] {
		t.Fatal("client still registered after unregister")
	}
	if len(h.rooms[adminRoom]) != 0 {
		t.Fatal("client still in admin room after unregister")
	}
}

// Clients disconnect while publishes are in flight; unregister closes the
// send channel, so every send must be mutually exclusive with the close.
func TestPublishOrderUpdate_ConcurrentDisconnects(t *testing.T) {
	h := newTestHub()
	order := testOrder(1, 5)

	stop := make(chan struct{})
	var publishers sync.WaitGroup
	for i := 0; i < 4; i++ {
		publishers.Add(1)
		go func() {
			defer publishers.Done()
			for {
				select {
				case <-stop:
					return
				default:
					h.PublishOrderUpdate(order)
				}
			}
		}()
	}

	var churners sync.WaitGroup
	for i := 0; i < 8; i++ {
		churners.Add(1)
		go func(n int) {
			defer churners.Done()
			for j := 0; j < 500; j++ {
				cl := &Client{id: "churn", hub: h, send: make(chan []byte, sendBufferSize)}
				h.register(cl)
				if n%2 == 0 {
					h.joinRoom(cl, adminRoom)
				} else {
					h.joinRoom(cl, deliveryRoom(5))
				}
				h.unregister(cl)
			}
		}(i)
	}

	churners.Wait()
	close(stop)

	done := make(chan struct{})
	go func() {
		publishers.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("hub deadlocked under concurrent publish and disconnect")
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) != 0 {
		t.Fatalf("%d clients still registered after churn", len(h.clients))
	}
}

func TestHandleInbound_JoinAndRelay(t *testing.T) {
	h := newTestHub()
	admin := newTestClient(h)
	relay := newTestClient(h)

	h.handleInbound(admin, inboundMessage{Event: eventJoinAdminRoom})
	h.handleInbound(relay, inboundMessage{Event: eventJoinDeliveryRoom, Data: json.RawMessage(`5`)})

	payload, _ := json.Marshal(OrderPayload{Order: testOrder(11, 5)})
	h.handleInbound(relay, inboundMessage{Event: eventOrderStatusUpdate, Data: payload})

	got := drain(t, admin)
	var sawAdminCopy bool
	for _, env := range got {
		if env.Event == EventAdminOrderUpdated && env.Data.Order.ID == 11 {
			sawAdminCopy = true
		}
	}
	if !sawAdminCopy {
		t.Fatalf("admin did not receive relayed update: %+v", got)
	}
}

func TestParseDeliveryID(t *testing.T) {
	if id, ok := parseDeliveryID(json.RawMessage(`5`)); !ok || id != 5 {
		t.Fatalf("number payload: got %d, %v", id, ok)
	}
	if id, ok := parseDeliveryID(json.RawMessage(`"12"`)); !ok || id != 12 {
		t.Fatalf("string payload: got %d, %v", id, ok)
	}
	if _, ok := parseDeliveryID(json.RawMessage(`"abc"`)); ok {
		t.Fatal("non-numeric string should not parse")
	}
	if _, ok := parseDeliveryID(json.RawMessage(`null`)); ok {
		t.Fatal("null should not parse")
	}
}
