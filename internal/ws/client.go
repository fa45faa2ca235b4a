package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/johnolamide/echo-mcp-server/internal/apperr"
	"github.com/johnolamide/echo-mcp-server/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20

	sendBuffer = 256
)

// Inbound frame discriminants.
const (
	frameMessage = "message"
	frameTyping  = "typing"
	framePing    = "ping"
)

type inboundFrame struct {
	Type         string `json:"type"`
	ReceiverID   uint   `json:"receiver_id,omitempty"`
	Content      string `json:"content,omitempty"`
	TargetUserID uint   `json:"target_user_id,omitempty"`
	IsTyping     bool   `json:"is_typing,omitempty"`
}

type errorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type typingFrame struct {
	Type     string `json:"type"`
	UserID   uint   `json:"user_id"`
	IsTyping bool   `json:"is_typing"`
}

type pongFrame struct {
	Type string `json:"type"`
}

// Client is one authenticated websocket session. Writes go through the send
// channel so a single goroutine owns the connection's write side.
type Client struct {
	userID   uint
	username string

	conn   *websocket.Conn
	pusher domain.MessagePusher
	chat   domain.ChatService

	send chan []byte

	mu     sync.Mutex
	closed bool
}

func newClient(conn *websocket.Conn, pusher domain.MessagePusher, chat domain.ChatService, userID uint, username string) *Client {
	return &Client{
		userID:   userID,
		username: username,
		conn:     conn,
		pusher:   pusher,
		chat:     chat,
		send:     make(chan []byte, sendBuffer),
	}
}

// enqueue hands payload to the write pump without blocking. False means the
// session is gone or its buffer is full; the frame is dropped either way.
func (c *Client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// shutdown closes the send channel exactly once, which makes the write pump
// emit a close frame and exit.
func (c *Client) shutdown() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

func (c *Client) sendJSON(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.enqueue(payload)
}

// readPump consumes inbound frames until the peer goes away. It runs on the
// handler goroutine; the caller is responsible for unregistering afterwards.
func (c *Client) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Uint("user_id", c.userID).Msg("websocket read closed")
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.sendJSON(errorFrame{Type: "error", Message: "invalid frame"})
			continue
		}
		c.handleFrame(frame)
	}
}

func (c *Client) handleFrame(frame inboundFrame) {
	switch frame.Type {
	case frameMessage:
		_, err := c.chat.Send(c.userID, domain.SendMessageRequest{
			ReceiverID: frame.ReceiverID,
			Content:    frame.Content,
		})
		if err != nil {
			msg := "failed to send message"
			var ae *apperr.Error
			if errors.As(err, &ae) {
				msg = ae.Message
			}
			c.sendJSON(errorFrame{Type: "error", Message: msg})
		}
	case frameTyping:
		if frame.TargetUserID == 0 {
			return
		}
		payload, err := json.Marshal(typingFrame{Type: frameTyping, UserID: c.userID, IsTyping: frame.IsTyping})
		if err != nil {
			return
		}
		// Typing goes through the same pusher as chat messages so it
		// reaches peers connected to other instances.
		c.pusher.Push(frame.TargetUserID, payload)
	case framePing:
		c.sendJSON(pongFrame{Type: "pong"})
	default:
		c.sendJSON(errorFrame{Type: "error", Message: "unknown frame type"})
	}
}

// writePump owns all writes on the connection, draining the send channel and
// keeping the peer alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
