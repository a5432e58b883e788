package backend

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// DialRealtime opens the event feed websocket. The caller owns the
// connection and is responsible for closing it.
func (c *Client) DialRealtime(ctx context.Context, eventID int64) (*websocket.Conn, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + fmt.Sprintf("/realtime/ws/%d", eventID)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial realtime feed: %w", err)
	}
	return conn, nil
}
