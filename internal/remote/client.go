package remote

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/credify/editor/internal/editor"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	// Uploads travel inline, so the limit is sized for an image.
	maxMsgSize = 16 << 20
	sendBuffer = 256
)

// Client is one WebSocket connection driving its own editor session.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sendMu    sync.Mutex
	closed    bool
	session   *editor.Session
	UserID    string
	ProjectID string
	ClientID  string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, projectID, clientID string, opts ...editor.Option) *Client {
	c := &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		UserID:    userID,
		ProjectID: projectID,
		ClientID:  clientID,
	}
	opts = append(opts, editor.WithOnChange(func(editor.State) { c.pushState(0) }))
	c.session = editor.New(opts...)
	return c
}

// Session exposes the editor bound to this connection.
func (c *Client) Session() *editor.Session { return c.session }

// Open loads the project into the session and greets the client.
func (c *Client) Open(ctx context.Context) error {
	if err := c.session.Open(ctx, c.ProjectID); err != nil {
		return err
	}
	welcome, err := newMessage(TypeWelcome, WelcomePayload{ClientID: c.ClientID, ProjectID: c.ProjectID})
	if err != nil {
		return err
	}
	c.Send(welcome)
	c.pushState(0)
	return nil
}

func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "client", c.ClientID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "client", c.ClientID)
			continue
		}

		msg.ClientID = c.ClientID
		msg.ProjectID = c.ProjectID

		c.handle(ctx, &msg)
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "client", c.ClientID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// handle applies msg and answers with the resulting state, or an error.
// Replies echo the request seq.
func (c *Client) handle(ctx context.Context, msg *Message) {
	extra, err := Dispatch(ctx, c.session, msg)
	if err != nil {
		slog.Debug("message rejected", "type", msg.Type, "error", err, "client", c.ClientID)
		if reply, merr := newMessage(TypeError, ErrorPayload{Message: err.Error(), Code: errorCode(err)}); merr == nil {
			reply.Seq = msg.Seq
			c.Send(reply)
		}
	}
	if extra != nil {
		extra.Seq = msg.Seq
		c.Send(extra)
	}
	c.pushState(msg.Seq)
}

func (c *Client) pushState(seq int64) {
	msg, err := newMessage(TypeState, StatePayload{
		State:    c.session.State(),
		Commands: c.session.DrawCommands(),
	})
	if err != nil {
		slog.Error("marshal state", "error", err)
		return
	}
	msg.Seq = seq
	c.Send(msg)
}

func (c *Client) Send(msg *Message) {
	msg.ProjectID = c.ProjectID
	msg.ClientID = c.ClientID
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "client", c.ClientID)
	}
}

// closeSend stops the write pump. Later sends are dropped.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
