package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detachedConnection(queue int) *Connection {
	return &Connection{ID: uuid.New(), sendCh: make(chan Message, queue), logger: zerolog.Nop()}
}

func TestHubBroadcastToChannel(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	a, b, c := detachedConnection(4), detachedConnection(4), detachedConnection(4)
	for _, conn := range []*Connection{a, b, c} {
		hub.Register(conn)
	}
	require.NoError(t, hub.Subscribe("quiz:1:participants", a.ID))
	require.NoError(t, hub.Subscribe("quiz:1:participants", b.ID))
	require.NoError(t, hub.Subscribe("quiz:1:admin", c.ID))

	msg, err := NewMessage(TypeQuizStarted, map[string]int{"question_index": 0})
	require.NoError(t, err)
	require.NoError(t, hub.BroadcastToChannel("quiz:1:participants", msg))

	assert.Len(t, a.sendCh, 1)
	assert.Len(t, b.sendCh, 1)
	assert.Len(t, c.sendCh, 0)
	assert.Equal(t, 2, hub.SubscriberCount("quiz:1:participants"))
}

func TestHubSlowSubscriberDoesNotBlockOthers(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	slow, fast := detachedConnection(1), detachedConnection(4)
	hub.Register(slow)
	hub.Register(fast)
	require.NoError(t, hub.Subscribe("ch", slow.ID))
	require.NoError(t, hub.Subscribe("ch", fast.ID))

	msg := Message{Type: TypeTimer}
	require.NoError(t, hub.BroadcastToChannel("ch", msg))
	err := hub.BroadcastToChannel("ch", msg)
	assert.ErrorIs(t, err, ErrSendQueueFull)
	assert.Len(t, fast.sendCh, 2)
}

func TestHubUnregisterDropsSubscriptions(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	conn := detachedConnection(1)
	hub.Register(conn)
	require.NoError(t, hub.Subscribe("ch", conn.ID))

	hub.Unregister(conn.ID)
	assert.Zero(t, hub.SubscriberCount("ch"))
	assert.ErrorIs(t, conn.Send(Message{}), ErrConnectionClosed)
	assert.ErrorIs(t, hub.Subscribe("ch", conn.ID), ErrConnectionNotFound)
	assert.ErrorIs(t, hub.SendTo(conn.ID, Message{}), ErrConnectionNotFound)
}

func TestConnectionPumpsOverRealSocket(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	upgrader := websocket.Upgrader{}
	received := make(chan Message, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := NewConnection(raw, zerolog.Nop())
		hub.Register(conn)
		_ = hub.Subscribe("echo", conn.ID)
		go conn.WritePump()
		conn.ReadPump(func(msg Message) error {
			received <- msg
			return hub.BroadcastToChannel("echo", Message{Type: TypePong})
		})
		hub.Unregister(conn.ID)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.WriteJSON(Message{Type: TypePing}))

	select {
	case msg := <-received:
		assert.Equal(t, TypePing, msg.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("server never read the ping")
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var reply Message
	require.NoError(t, client.ReadJSON(&reply))
	assert.Equal(t, TypePong, reply.Type)
}

func TestHubUnsubscribeKeepsConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	conn := detachedConnection(2)
	hub.Register(conn)
	require.NoError(t, hub.Subscribe("quiz:1:admin", conn.ID))

	hub.Unsubscribe("quiz:1:admin", conn.ID)
	assert.Equal(t, 0, hub.SubscriberCount("quiz:1:admin"))
	require.NoError(t, hub.BroadcastToChannel("quiz:1:admin", Message{Type: TypeTimer}))
	assert.Len(t, conn.sendCh, 0)

	require.NoError(t, hub.SendTo(conn.ID, Message{Type: TypePong}))
	assert.Len(t, conn.sendCh, 1)
}
