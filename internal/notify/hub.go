package notify

import (
	"context"
	"fmt"

	ws "github.com/gokatarajesh/livequiz/pkg/http/ws"
)

// HubNotifier delivers events straight to the local WebSocket hub.
type HubNotifier struct {
	hub *ws.Hub
}

func NewHubNotifier(hub *ws.Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) Broadcast(_ context.Context, channel, event string, payload any) error {
	msg, err := ws.NewMessage(event, payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}
	return n.hub.BroadcastToChannel(channel, msg)
}
