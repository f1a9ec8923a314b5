package services

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	EventItemAdded    = "item_added"
	EventItemUpdated  = "item_updated"
	EventItemDeleted  = "item_deleted"
	EventListShared   = "list_shared"
	EventListArchived = "list_archived"

	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Event is pushed to every subscriber of a list.
type Event struct {
	Type    string      `json:"type"`
	ListID  string      `json:"listId"`
	Payload interface{} `json:"payload,omitempty"`
}

type Client struct {
	listID string
	userID string
	conn   *websocket.Conn
	send   chan []byte
	once   sync.Once
}

// Hub fans list events out to websocket clients subscribed to that list.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

// SetCheckOrigin restricts which origins may open a websocket.
func SetCheckOrigin(allowed []string) {
	upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == origin || o == "*" {
				return true
			}
		}
		return false
	}
}

// Serve upgrades the request and keeps the client subscribed to listID until
// the connection drops. Access must be checked by the caller.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, listID, userID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	client := newClient(listID, userID, conn)
	h.subscribe(client)

	go h.writePump(client)
	go h.readPump(client)
	return nil
}

func (h *Hub) Publish(listID string, ev Event) {
	ev.ListID = listID
	message, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("type", ev.Type).Msg("failed to encode list event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[listID] {
		select {
		case client.send <- message:
		default:
			log.Warn().Str("list_id", listID).Str("user_id", client.userID).Msg("dropping event for slow client")
		}
	}
}

// Subscribers reports how many clients listen on a list.
func (h *Hub) Subscribers(listID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[listID])
}

// DropUser disconnects userID's clients on listID. The write pump sends a
// close frame once the send channel is closed.
func (h *Hub) DropUser(listID, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[listID]
	for c := range set {
		if c.userID != userID {
			continue
		}
		delete(set, c)
		c.once.Do(func() { close(c.send) })
	}
	if len(set) == 0 {
		delete(h.clients, listID)
	}
}

func newClient(listID, userID string, conn *websocket.Conn) *Client {
	return &Client{listID: listID, userID: userID, conn: conn, send: make(chan []byte, sendBuffer)}
}

func (h *Hub) subscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.listID] == nil {
		h.clients[c.listID] = make(map[*Client]struct{})
	}
	h.clients[c.listID][c] = struct{}{}
	log.Debug().Str("list_id", c.listID).Str("user_id", c.userID).Int("subscribers", len(h.clients[c.listID])).Msg("client connected")
}

func (h *Hub) unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[c.listID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.listID)
		}
	}
	c.once.Do(func() { close(c.send) })
}

func (h *Hub) readPump(c *Client) {
	defer func() {
		h.unsubscribe(c)
		c.conn.Close()
		log.Debug().Str("list_id", c.listID).Str("user_id", c.userID).Msg("client disconnected")
	}()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *Client) {
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
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
