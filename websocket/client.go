package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/viha-saxena/Movie-sync/domain"
)

var ErrClosed = errors.New("connection closed")

// Client is a peer's end of the relay channel. Sends are fire-and-forget:
// anything that cannot be queued is dropped.
type Client struct {
	ws        *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func Dial(ctx context.Context, url string) (*Client, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay: %w", err)
	}

	c := &Client{
		ws:   ws,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	go c.writePump()
	return c, nil
}

func (c *Client) Send(msg domain.SyncMessage) error {
	data, err := json.Marshal(domain.Envelope{Event: domain.EventSync, Data: msg})
	if err != nil {
		return fmt.Errorf("encode sync event: %w", err)
	}

	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		return fmt.Errorf("send buffer full: %w", websocket.ErrCloseSent)
	}
}

// Run reads sync events until the connection closes or ctx ends.
func (c *Client) Run(ctx context.Context, fn func(domain.SyncMessage)) error {
	stop := context.AfterFunc(ctx, func() { c.Close() })
	defer stop()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPingHandler(func(appData string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return c.ws.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.Close()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read relay: %w", err)
		}
		c.ws.SetReadDeadline(time.Now().Add(pongWait))

		var env domain.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			slog.Debug("skipping undecodable frame", "error", err)
			continue
		}
		if env.Event != domain.EventSync {
			continue
		}
		fn(env.Data)
	}
}

// Close sends a normal close frame, best effort, and releases the socket.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		err = c.ws.Close()
	})
	return err
}

func (c *Client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Warn("relay write failed", "error", err)
				c.Close()
				return
			}
		}
	}
}
