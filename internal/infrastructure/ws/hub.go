package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"preipo-sip.backend/internal/domain/entities"
	"preipo-sip.backend/pkg/logger"
	"preipo-sip.backend/pkg/redis"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Hub fans ticket chat messages out to connected WebSocket clients. Messages
// travel through a redis channel per ticket, so clients attached to different
// instances all see them.
type Hub struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*room
}

type room struct {
	clients map[*client]struct{}
	sub     *goredis.PubSub
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{rooms: map[uuid.UUID]*room{}}
}

func channelFor(ticketID uuid.UUID) string {
	return "tickets." + ticketID.String()
}

// NotifyMessage publishes a persisted message to the ticket's channel. The
// WebSocket push is best-effort; the message is already durable.
func (h *Hub) NotifyMessage(ticketID uuid.UUID, message *entities.SupportMessage) {
	payload, err := json.Marshal(message)
	if err != nil {
		return
	}
	if err := redis.Publish(context.Background(), channelFor(ticketID), payload); err != nil {
		logger.Warn(context.Background(), "chat publish failed",
			zap.String("ticket_id", ticketID.String()),
			zap.Error(err),
		)
	}
}

// Join attaches an upgraded connection to a ticket room and blocks until the
// peer disconnects.
func (h *Hub) Join(ticketID uuid.UUID, conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	r, ok := h.rooms[ticketID]
	if !ok {
		r = &room{clients: map[*client]struct{}{}}
		r.sub = redis.Subscribe(context.Background(), channelFor(ticketID))
		h.rooms[ticketID] = r
		go h.pump(ticketID, r)
	}
	r.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()
	c.readPump()
	h.leave(ticketID, c)
}

// pump moves redis messages into every client in the room
func (h *Hub) pump(ticketID uuid.UUID, r *room) {
	for msg := range r.sub.Channel() {
		payload := []byte(msg.Payload)

		h.mu.Lock()
		for c := range r.clients {
			select {
			case c.send <- payload:
			default:
				// slow consumer; drop the frame rather than block the room
			}
		}
		h.mu.Unlock()
	}
}

func (h *Hub) leave(ticketID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[ticketID]
	if !ok {
		return
	}
	if _, ok := r.clients[c]; ok {
		delete(r.clients, c)
		close(c.send)
	}
	if len(r.clients) == 0 {
		_ = r.sub.Close()
		delete(h.rooms, ticketID)
	}
}

// readPump discards inbound frames; chat messages are posted over HTTP so
// they hit validation and persistence. The pump only tracks liveness.
func (c *client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
