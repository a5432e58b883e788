package sync

import (
	"encoding/json"
	"log/slog"
	"net/http"
	stdsync "sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"hallsync/internal/metrics"
	"hallsync/internal/models"
)

const (
	writeWait = 10 * time.Second

	// inbound frames are ignored; the read loop only detects disconnects
	readLimit = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the console is same-origin in production; the gateway enforces it
	CheckOrigin: func(*http.Request) bool { return true },
}

type subscriber struct {
	conn *websocket.Conn
	mu   stdsync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans state changes and notifications out to connected consoles.
type Hub struct {
	mu          stdsync.Mutex
	subscribers map[string]*subscriber
	log         *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]*subscriber),
		log:         log,
	}
}

// ClientCount reports connected consoles.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Serve upgrades the request and keeps the connection until the client
// goes away. The greeting callback pushes the initial state.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, greet func() models.PushMessage) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.New().String()
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	h.subscribers[id] = sub
	h.mu.Unlock()
	metrics.ConnectedConsoles.Inc()
	h.log.Info("console connected", "client_id", id)

	if greet != nil {
		if data, err := json.Marshal(greet()); err == nil {
			_ = sub.write(data)
		}
	}

	conn.SetReadLimit(readLimit)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.drop(id)
	conn.Close()
	h.log.Info("console disconnected", "client_id", id)
}

// Broadcast pushes one frame to every console, dropping subscribers whose
// writes fail.
func (h *Hub) Broadcast(msg models.PushMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("broadcast marshal failed", "error", err)
		return
	}

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, s := range h.subscribers {
		subs[id] = s
	}
	h.mu.Unlock()

	for id, s := range subs {
		if err := s.write(data); err != nil {
			h.log.Warn("dropping console", "client_id", id, "error", err)
			s.conn.Close()
			h.drop(id)
		}
	}
}

func (h *Hub) drop(id string) {
	h.mu.Lock()
	_, present := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()
	if present {
		metrics.ConnectedConsoles.Dec()
	}
}
