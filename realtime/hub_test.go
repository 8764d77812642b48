package realtime

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mindful-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.Logger.SetOutput(io.Discard)
	m.Run()
}

func startServer(t *testing.T, hub *Hub) string {
	t.Helper()
	r := gin.New()
	r.GET("/ws", hub.ServeWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestHub_ChatIsBroadcastToEveryClient(t *testing.T) {
	hub := NewHub()
	url := startServer(t, hub)

	sender := dial(t, url)
	listener := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, sender.WriteJSON(ChatMessage{Type: "chat", Content: "hello everyone", UserID: "user-1"}))

	for _, conn := range []*websocket.Conn{sender, listener} {
		var event ChatEvent
		readJSON(t, conn, &event)
		assert.Equal(t, "chat_response", event.Type)
		assert.Equal(t, "hello everyone", event.Content)
		assert.Equal(t, "user-1", event.UserID)
		_, err := time.Parse(time.RFC3339, event.Timestamp)
		assert.NoError(t, err)
	}
}

func TestHub_IgnoresOtherMessages(t *testing.T) {
	hub := NewHub()
	url := startServer(t, hub)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(ChatMessage{Type: "typing", Content: "x", UserID: "u"}))
	require.NoError(t, conn.WriteJSON(ChatMessage{Type: "chat", Content: "", UserID: "u"}))

	hub.Broadcast("post_votes", VotesEvent{Type: "post_votes", PostID: 3, Votes: 2})

	// the first frame received is the vote event, so none of the messages above were relayed
	var event VotesEvent
	readJSON(t, conn, &event)
	assert.Equal(t, VotesEvent{Type: "post_votes", PostID: 3, Votes: 2}, event)
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	hub := NewHub()
	url := startServer(t, hub)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := NewHub()
	cl := &client{send: make(chan []byte, 1)}
	hub.register(cl)

	hub.Broadcast("post_votes", VotesEvent{Type: "post_votes", PostID: 1, Votes: 1})
	assert.Equal(t, 1, hub.ClientCount())

	hub.Broadcast("post_votes", VotesEvent{Type: "post_votes", PostID: 1, Votes: 2})
	assert.Equal(t, 0, hub.ClientCount())

	// unregistering twice must not close the channel twice
	hub.unregister(cl)
}
