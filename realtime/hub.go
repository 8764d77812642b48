// Package realtime broadcasts chat messages and vote tallies to WebSocket clients.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"mindful-backend/metrics"
	"mindful-backend/models"
	"mindful-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	sendBufferSize = 16
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// ChatMessage is what clients send to talk to each other.
type ChatMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	UserID  string `json:"userId"`
}

// ChatEvent is the broadcast form of a ChatMessage.
type ChatEvent struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	UserID    string `json:"userId"`
	Timestamp string `json:"timestamp"`
}

// VotesEvent announces a post's new tally.
type VotesEvent struct {
	Type   string `json:"type"`
	PostID uint   `json:"postId"`
	Votes  int    `json:"votes"`
}

// CommentEvent announces a new comment and the post's updated comment count.
type CommentEvent struct {
	Type         string         `json:"type"`
	Comment      models.Comment `json:"comment"`
	CommentCount int            `json:"commentCount"`
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
}

type Hub struct {
	mu       sync.RWMutex
	clients  map[uuid.UUID]*client
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Default is the hub served on /ws.
var Default = NewHub()

// BroadcastVotes tells every client the tally of postID changed.
func BroadcastVotes(postID uint, votes int) {
	Default.Broadcast("post_votes", VotesEvent{Type: "post_votes", PostID: postID, Votes: votes})
}

// BroadcastComment tells every client a comment was added to a post.
func BroadcastComment(comment models.Comment, commentCount int) {
	Default.Broadcast("new_comment", CommentEvent{Type: "new_comment", Comment: comment, CommentCount: commentCount})
}

// ServeWS upgrades the request and keeps the connection until the client leaves.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.LogError(err, "WebSocket upgrade failed")
		return
	}

	cl := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.register(cl)

	go h.writePump(cl)
	h.readPump(cl)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends v as JSON to every client. Clients whose buffer is full are dropped.
func (h *Hub) Broadcast(kind string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		utils.LogError(err, "Error marshaling WebSocket message")
		return
	}

	var slow []*client
	h.mu.RLock()
	for _, cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			slow = append(slow, cl)
		}
	}
	h.mu.RUnlock()

	metrics.WebSocketBroadcastsTotal.WithLabelValues(kind).Inc()

	for _, cl := range slow {
		utils.Logger.WithField("client_id", cl.id.String()).Warn("Dropping slow WebSocket client")
		metrics.WebSocketSlowClientsDropped.Inc()
		h.unregister(cl)
	}
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	h.clients[cl.id] = cl
	count := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketClients.Inc()
	utils.Logger.WithFields(logrus.Fields{
		"source":    "ws",
		"client_id": cl.id.String(),
		"clients":   count,
	}).Info("WebSocket client connected")
}

// unregister is idempotent; the send channel is closed exactly once.
func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	_, ok := h.clients[cl.id]
	if ok {
		delete(h.clients, cl.id)
		close(cl.send)
	}
	h.mu.Unlock()

	if ok {
		metrics.WebSocketClients.Dec()
		utils.Logger.WithFields(logrus.Fields{
			"source":    "ws",
			"client_id": cl.id.String(),
		}).Info("WebSocket client disconnected")
	}
}

func (h *Hub) readPump(cl *client) {
	defer func() {
		h.unregister(cl)
		cl.conn.Close()
	}()

	cl.conn.SetReadLimit(maxMessageSize)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.LogError(err, "WebSocket read error")
			}
			return
		}
		h.handleMessage(data)
	}
}

func (h *Hub) handleMessage(data []byte) {
	var msg ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		utils.LogError(err, "WebSocket message error")
		return
	}

	if msg.Type != "chat" || msg.Content == "" || msg.UserID == "" {
		return
	}

	h.Broadcast("chat_response", ChatEvent{
		Type:      "chat_response",
		Content:   msg.Content,
		UserID:    msg.UserID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Hub) writePump(cl *client) {
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
