package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"abend-assist-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const clusterChannel = "chat_cluster_events"

// Frame is what the server writes to a chat socket.
type Frame struct {
	Type string      `json:"type"` // session, reply, notice, error
	Data interface{} `json:"data"`
}

type Hub struct {
	// SessionID -> open sockets (several tabs may share one session)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns; nothing reads register or unregister after.
	done     chan struct{}
	stopOnce sync.Once

	mu sync.RWMutex

	// Redis fans notices out to the other instances.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			clients := h.clients[client.SessionID]
			for i, c := range clients {
				if c == client {
					h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
					close(client.Send)
					break
				}
			}
			if len(h.clients[client.SessionID]) == 0 {
				delete(h.clients, client.SessionID)
			}
			h.mu.Unlock()
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// add reports false when the hub has already stopped.
func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Connected returns how many sockets are open on this instance.
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, cs := range h.clients {
		n += len(cs)
	}
	return n
}

// Broadcast sends a notice to every chat socket on every instance. With
// Redis the local delivery happens when our own publish comes back.
func (h *Hub) Broadcast(ctx context.Context, message string) {
	data, _ := json.Marshal(Frame{Type: "notice", Data: map[string]string{"message": message}})

	if h.rdb != nil {
		err := h.rdb.Publish(ctx, clusterChannel, data).Err()
		if err == nil {
			return
		}
		h.logger.Warn("Hub", "Failed to publish notice to Redis", map[string]interface{}{"error": err})
	}
	h.deliverAll(data)
}

func (h *Hub) deliverAll(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		for _, client := range clients {
			client.trySend(data)
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			var frame Frame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				h.logger.Warn("Hub", "Ignoring malformed cluster event", map[string]interface{}{"error": err})
				continue
			}
			h.deliverAll([]byte(msg.Payload))
		}
	}
}
