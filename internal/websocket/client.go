package websocket

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"SensorHubAPI/internal/events"
	"SensorHubAPI/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	replyBuffer    = 8
)

// Control messages a dashboard may send over the socket.
const (
	MessagePing        = "ping"
	MessageSubscribe   = "subscribe"
	MessageUnsubscribe = "unsubscribe"

	EventPong       = "pong"
	EventSubscribed = "subscribed"
	EventError      = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ClientMessage is a control frame read from a dashboard. Events narrows the
// stream to the listed event types; an empty list restores every type.
type ClientMessage struct {
	Type   string   `json:"type"`
	Events []string `json:"events,omitempty"`
}

type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan events.Event
	reply    chan events.Event
	tenantID string
	log      *logger.Logger

	mu     sync.RWMutex
	filter map[string]bool
}

func newClient(hub *Hub, conn *websocket.Conn, tenantID string, log *logger.Logger) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan events.Event, 256),
		reply:    make(chan events.Event, replyBuffer),
		tenantID: tenantID,
		log:      log,
	}
}

// wants reports whether the client subscribed to eventType. A client with no
// subscription receives everything its tenant scope allows.
func (c *Client) wants(eventType string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter == nil || c.filter[eventType]
}

func (c *Client) subscribe(types []string) []string {
	var filter map[string]bool
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if filter == nil {
			filter = make(map[string]bool)
		}
		filter[t] = true
	}

	c.mu.Lock()
	c.filter = filter
	c.mu.Unlock()

	active := make([]string, 0, len(filter))
	for t := range filter {
		active = append(active, t)
	}
	return active
}

// handle answers one control frame. Replies carry the client's own tenant
// scope, never one named by the frame.
func (c *Client) handle(raw []byte) events.Event {
	reply := events.Event{TenantID: c.tenantID, Timestamp: time.Now().UTC()}

	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		reply.Type = EventError
		reply.Payload = map[string]string{"message": "malformed message"}
		return reply
	}

	switch strings.ToLower(strings.TrimSpace(msg.Type)) {
	case MessagePing:
		reply.Type = EventPong
	case MessageSubscribe:
		reply.Type = EventSubscribed
		reply.Payload = map[string][]string{"events": c.subscribe(msg.Events)}
	case MessageUnsubscribe:
		c.subscribe(nil)
		reply.Type = EventSubscribed
		reply.Payload = map[string][]string{"events": {}}
	default:
		reply.Type = EventError
		reply.Payload = map[string]string{"message": "unknown message type: " + msg.Type}
	}
	return reply
}

// readPump reads control frames until the connection fails, then leaves the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("WS read error (tenant=%q): %v", c.tenantID, err)
			}
			return
		}
		select {
		case c.reply <- c.handle(raw):
		default:
			c.log.Warn("Dropping WS reply for busy client (tenant=%q)", c.tenantID)
		}
	}
}

// writePump pumps hub events and control replies to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}
		case message := <-c.reply:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades an already authenticated request and subscribes it to
// tenantID's events. An empty tenantID subscribes to all tenants.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, tenantID string, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("WS Upgrade Error: %v", err)
		return
	}
	client := newClient(hub, conn, tenantID, log)
	if !hub.join(client) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}
