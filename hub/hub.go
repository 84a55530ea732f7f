package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/yeremiapane/hotel-app/models"
	"github.com/yeremiapane/hotel-app/utils"
)

// Event types
const (
	EventInitialState    = "initial_state"
	EventRoomUpdate      = "room_update"
	EventBookingUpdate   = "booking_update"
	EventOperationUpdate = "operation_update"
)

type Message struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub fans committed state changes out to websocket subscribers.
// It is injected into the services that publish; nothing in the codebase
// holds it as a package-level singleton. Publishes are drained by a single
// goroutine, so subscribers observe events in the order they were enqueued,
// which the coordinator guarantees is commit order.
type Hub struct {
	db      *gorm.DB
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
	queue   chan Message
	done    chan struct{}
	once    sync.Once
}

func NewHub(db *gorm.DB) *Hub {
	h := &Hub{
		db:      db,
		clients: make(map[*websocket.Conn]string),
		queue:   make(chan Message, 256),
		done:    make(chan struct{}),
	}
	go h.run()
	return h
}

// Publish enqueues one event for fan-out. Callers must only invoke this
// after the transaction behind the change has committed.
func (h *Hub) Publish(event string, payload interface{}) {
	select {
	case h.queue <- Message{Event: event, Data: payload, Timestamp: time.Now()}:
	case <-h.done:
	}
}

// RegisterClient -> menambahkan connection ke set dengan role.
// The new subscriber receives a full room snapshot before any
// incremental event, so it starts from a synchronized state.
func (h *Hub) RegisterClient(conn *websocket.Conn, role string) {
	var rooms []models.Room
	if err := h.db.Order("room_number asc").Find(&rooms).Error; err != nil {
		utils.ErrorLogger.Printf("Error loading room snapshot for new subscriber: %v", err)
		rooms = []models.Room{}
	}

	snapshot := Message{
		Event: EventInitialState,
		Data: map[string]interface{}{
			"rooms":     rooms,
			"timestamp": time.Now(),
		},
		Timestamp: time.Now(),
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	// Snapshot dikirim di dalam lock supaya tidak tersalip event incremental
	if err := h.writeTo(conn, snapshot); err != nil {
		utils.ErrorLogger.Printf("Error sending initial state: %v", err)
		conn.Close()
		return
	}
	h.clients[conn] = role
}

// UnregisterClient -> melepaskan connection
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// Close stops the fan-out goroutine and drops all clients.
func (h *Hub) Close() {
	h.once.Do(func() {
		close(h.done)
		h.mutex.Lock()
		defer h.mutex.Unlock()
		for conn := range h.clients {
			conn.Close()
		}
		h.clients = make(map[*websocket.Conn]string)
	})
}

// run -> single drain loop, preserves enqueue order
func (h *Hub) run() {
	for {
		select {
		case msg := <-h.queue:
			h.fanOut(msg)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) fanOut(msg Message) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, role := range h.clients {
		if err := h.writeTo(conn, msg); err != nil {
			utils.ErrorLogger.Printf("Error sending %s to %s client: %v", msg.Event, role, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

func (h *Hub) writeTo(conn *websocket.Conn, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
