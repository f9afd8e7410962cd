package domain

import (
	"sync"

	"github.com/gorilla/websocket"
)

const sendBufferSize = 256

// Client wraps a websocket connection with a buffered outbound channel so
// that fan-out never blocks on a slow recipient. Conn may be nil in tests.
type Client struct {
	Id   ConnectionId
	Conn *websocket.Conn
	Send chan []byte

	closeOnce sync.Once
}

func NewClient(id ConnectionId, conn *websocket.Conn) *Client {
	return &Client{
		Id:   id,
		Conn: conn,
		Send: make(chan []byte, sendBufferSize),
	}
}

// WritePump drains the send channel onto the socket. It exits when the
// channel is closed or a write fails, closing the socket either way.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Close closes the send channel, terminating the write pump. Safe to call
// more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}
