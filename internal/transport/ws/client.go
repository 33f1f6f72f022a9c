package ws

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lucasmnd/duodle/internal/model"
)

const (
	// writeWait is the deadline for a single outbound write.
	writeWait = 10 * time.Second
	// pongWait is how long a connection may stay silent before it is
	// considered dead.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds inbound frames. Queue joins carry the full
	// candidate pool, so this is generous.
	maxMessageSize = 1 << 20
	// sendBufferSize is the outbound queue per connection. A full buffer
	// drops events rather than blocking the core.
	sendBufferSize = 64
)

// Client is one websocket connection. The read pump feeds the server's
// dispatcher; the write pump drains the send channel.
type Client struct {
	id       model.ConnID
	identity *model.Identity

	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger
}

func newClient(id model.ConnID, identity *model.Identity, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		id:       id,
		identity: identity,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		logger:   logger,
	}
}

// enqueue queues an encoded event for delivery, dropping it if the
// client cannot keep up. It must never block: the directory calls it
// while holding its mutex.
func (c *Client) enqueue(event model.Event) {
	data, err := encodeEvent(event)
	if err != nil {
		c.logger.Error("failed to encode event",
			slog.String("conn", string(c.id)),
			slog.String("event", event.Event()),
			slog.Any("error", err),
		)
		return
	}

	select {
	case c.send <- data:
	default:
		c.logger.Warn("dropping event for slow client",
			slog.String("conn", string(c.id)),
			slog.String("event", event.Event()),
		)
	}
}

// readPump reads inbound messages and hands them to the dispatcher. It
// returns when the connection drops or misbehaves.
func (c *Client) readPump(dispatch func(*Client, []byte)) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error",
					slog.String("conn", string(c.id)),
					slog.Any("error", err),
				)
			}
			return
		}
		dispatch(c, data)
	}
}

// writePump drains the send channel and keeps the connection alive with
// pings. Closing the send channel terminates it.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
