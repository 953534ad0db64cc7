package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"fishing-backend/internal/middleware"
	"fishing-backend/internal/models"
	"fishing-backend/internal/services"
)

const writeWait = 10 * time.Second

// client serializes writes to one connection.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans fisher events out to that fisher's open websockets. With a Redis
// client it relays the fisher's pub/sub channel, so events published by any
// server instance arrive. Without one, Publish delivers in process.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID][]*client
	redisClient *redis.Client
	cancelFuncs map[uuid.UUID]context.CancelFunc
	upgrader    websocket.Upgrader
}

func NewHub(redisClient *redis.Client, frontendURL string) *Hub {
	h := &Hub{
		connections: make(map[uuid.UUID][]*client),
		redisClient: redisClient,
		cancelFuncs: make(map[uuid.UUID]context.CancelFunc),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(frontendURL),
	}
	return h
}

// originChecker accepts same-origin requests, requests without an Origin
// header, and the configured frontend.
func originChecker(frontendURL string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || origin == frontendURL {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	}
}

// HandleWebSocket runs behind the cookie middleware, so the fisher id is
// already on the context.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	fisherID := middleware.GetFisherID(r.Context())
	if fisherID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn}
	h.registerConnection(fisherID, c)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(fisherID, c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(fisherID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[fisherID] = append(h.connections[fisherID], c)

	// First connection for this fisher starts the pub/sub relay
	if len(h.connections[fisherID]) == 1 && h.redisClient != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[fisherID] = cancel
		go h.subscribeToPubSub(ctx, fisherID)
	}

	log.Printf("WebSocket connected: fisher %s (total: %d)", fisherID, len(h.connections[fisherID]))
}

func (h *Hub) unregisterConnection(fisherID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.conn.Close()

	conns := h.connections[fisherID]
	for i, existing := range conns {
		if existing == c {
			h.connections[fisherID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[fisherID]) == 0 {
		delete(h.connections, fisherID)
		if cancel, ok := h.cancelFuncs[fisherID]; ok {
			cancel()
			delete(h.cancelFuncs, fisherID)
		}
	}

	log.Printf("WebSocket disconnected: fisher %s", fisherID)
}

func (h *Hub) subscribeToPubSub(ctx context.Context, fisherID uuid.UUID) {
	pubsub := h.redisClient.Subscribe(ctx, services.EventsChannel(fisherID))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(fisherID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(fisherID uuid.UUID, data []byte) {
	h.mu.RLock()
	conns := append([]*client(nil), h.connections[fisherID]...)
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.write(data); err != nil {
			log.Printf("WebSocket write to fisher %s failed: %v", fisherID, err)
		}
	}
}

// Publish delivers msg to the fisher's local connections. It makes the hub
// a services.EventPublisher for single-instance deployments without Redis.
func (h *Hub) Publish(_ context.Context, fisherID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.broadcast(fisherID, data)
}

// ConnectionCount reports how many sockets the fisher has open.
func (h *Hub) ConnectionCount(fisherID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[fisherID])
}
