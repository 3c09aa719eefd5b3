package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/cthunline/cthunline-web-sub002/internal/sketch"
	"github.com/cthunline/cthunline-web-sub002/internal/types"
)

// Client is a participant's connection to a room. It satisfies
// replica.Channel.
type Client struct {
	conn   *websocket.Conn
	logger *zap.Logger
}

// Dial connects to a room websocket endpoint, e.g.
// ws://host:8080/rooms/ABC123/ws.
func Dial(ctx context.Context, url string, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial room: %w", err)
	}
	conn.SetReadLimit(types.MaxMessageBytes)
	return &Client{conn: conn, logger: logger}, nil
}

func (c *Client) Send(ctx context.Context, snap sketch.Snapshot) error {
	if err := write(ctx, c.conn, types.ClientMessage{Type: types.MsgSketch, Sketch: &snap}); err != nil {
		return fmt.Errorf("send snapshot: %w", err)
	}
	return nil
}

// Receive blocks until the next snapshot. Error messages from the relay
// are logged and skipped.
func (c *Client) Receive(ctx context.Context) (sketch.Snapshot, error) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return sketch.Snapshot{}, fmt.Errorf("receive snapshot: %w", err)
		}
		var msg types.ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("ws: bad server message", zap.Error(err))
			continue
		}
		switch msg.Type {
		case types.MsgSketch:
			if msg.Sketch != nil {
				return *msg.Sketch, nil
			}
		case types.MsgError:
			c.logger.Warn("ws: relay error", zap.String("error", msg.Error))
		}
	}
}

func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}
