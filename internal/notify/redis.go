package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	ws "github.com/gokatarajesh/livequiz/pkg/http/ws"
)

// DefaultPubSubChannel carries every quiz event between instances.
const DefaultPubSubChannel = "livequiz:events"

// envelope is the Pub/Sub wire format.
type envelope struct {
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// RedisNotifier publishes events to Redis so every instance can forward them to its own clients.
type RedisNotifier struct {
	redis   *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, pubsubChannel string) *RedisNotifier {
	if pubsubChannel == "" {
		pubsubChannel = DefaultPubSubChannel
	}
	return &RedisNotifier{redis: client, channel: pubsubChannel}
}

func (n *RedisNotifier) Broadcast(ctx context.Context, channel, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}
	data, err := json.Marshal(envelope{Channel: channel, Event: event, Payload: raw})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	if err := n.redis.Publish(ctx, n.channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", event, err)
	}
	return nil
}

// Relay listens for published events and forwards them to the local hub.
type Relay struct {
	redis   *redis.Client
	hub     *ws.Hub
	channel string
	logger  zerolog.Logger
}

func NewRelay(client *redis.Client, hub *ws.Hub, pubsubChannel string, logger zerolog.Logger) *Relay {
	if pubsubChannel == "" {
		pubsubChannel = DefaultPubSubChannel
	}
	return &Relay{
		redis:   client,
		hub:     hub,
		channel: pubsubChannel,
		logger:  logger.With().Str("component", "notify_relay").Logger(),
	}
}

// Run subscribes to the event channel and blocks until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	if r.redis == nil || r.hub == nil {
		return nil
	}

	sub := r.redis.Subscribe(ctx, r.channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed before consuming.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.forward(msg.Payload)
		}
	}
}

func (r *Relay) forward(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		r.logger.Warn().Err(err).Msg("failed to decode event envelope")
		return
	}

	msg := ws.Message{Type: env.Event, Payload: env.Payload}
	if err := r.hub.BroadcastToChannel(env.Channel, msg); err != nil {
		r.logger.Warn().Err(err).Str("channel", env.Channel).Str("event", env.Event).Msg("failed to forward event")
	}
}
