package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ws "github.com/gokatarajesh/livequiz/pkg/http/ws"
)

// subscribedClient opens a real socket subscribed to channel on hub.
func subscribedClient(t *testing.T, hub *ws.Hub, channel string) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	ready := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := ws.NewConnection(raw, zerolog.Nop())
		hub.Register(conn)
		_ = hub.Subscribe(channel, conn.ID)
		close(ready)
		go conn.WritePump()
		conn.ReadPump(func(ws.Message) error { return nil })
		hub.Unregister(conn.ID)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription never registered")
	}
	return client
}

func readMessage(t *testing.T, conn *websocket.Conn) ws.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHubNotifierDeliversToChannel(t *testing.T) {
	hub := ws.NewHub(zerolog.Nop())
	client := subscribedClient(t, hub, "quiz:a:participants")

	n := NewHubNotifier(hub)
	require.NoError(t, n.Broadcast(context.Background(), "quiz:a:participants", ws.TypeQuestionStarted, map[string]int{"question_index": 1}))
	// other channels are not delivered
	require.NoError(t, n.Broadcast(context.Background(), "quiz:b:participants", ws.TypeQuestionStarted, nil))

	msg := readMessage(t, client)
	assert.Equal(t, ws.TypeQuestionStarted, msg.Type)
	assert.JSONEq(t, `{"question_index":1}`, string(msg.Payload))
}

func TestRedisNotifierRelaysAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hub := ws.NewHub(zerolog.Nop())
	socket := subscribedClient(t, hub, "quiz:x:admin")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	relay := NewRelay(client, hub, "", zerolog.Nop())
	go func() { _ = relay.Run(ctx) }()

	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(DefaultPubSubChannel)[DefaultPubSubChannel] == 1
	}, 2*time.Second, 10*time.Millisecond)

	publisher := NewRedisNotifier(client, "")
	require.NoError(t, publisher.Broadcast(ctx, "quiz:x:admin", ws.TypeAnswerProgress, map[string]int{"answered_count": 3}))

	msg := readMessage(t, socket)
	assert.Equal(t, ws.TypeAnswerProgress, msg.Type)

	var payload map[string]int
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, 3, payload["answered_count"])
}

type recordingTarget struct {
	mu     sync.Mutex
	events []string
	block  chan struct{}
	err    error
}

func (r *recordingTarget) Broadcast(_ context.Context, _, event string, _ any) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingTarget) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestAsyncPreservesOrderAndDrains(t *testing.T) {
	target := &recordingTarget{}
	async := NewAsync(target, 8, zerolog.Nop())
	go async.Run(context.Background())

	for _, ev := range []string{"quiz_started", "question_started", "quiz_finished"} {
		require.NoError(t, async.Broadcast(context.Background(), "c", ev, nil))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, async.Close(ctx))
	assert.Equal(t, []string{"quiz_started", "question_started", "quiz_finished"}, target.seen())

	assert.ErrorIs(t, async.Broadcast(context.Background(), "c", "late", nil), ErrQueueFull)
}

func TestAsyncDropsWhenFull(t *testing.T) {
	target := &recordingTarget{block: make(chan struct{}), err: errors.New("down")}
	async := NewAsync(target, 1, zerolog.Nop())

	require.NoError(t, async.Broadcast(context.Background(), "c", "one", nil))
	assert.ErrorIs(t, async.Broadcast(context.Background(), "c", "two", nil), ErrQueueFull)

	go async.Run(context.Background())
	close(target.block)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, async.Close(ctx))
	assert.Equal(t, []string{"one"}, target.seen())
}
