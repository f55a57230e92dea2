package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 16 * 1024
	sendBuffer = 64
)

type client struct {
	id   string
	srv  *Server
	conn *websocket.Conn
	send chan []byte
}

func (c *client) readPump(ctx context.Context) error {
	c.conn.SetReadLimit(maxMsgSize)
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			return err
		}

		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			c.srv.logger.Warn("invalid message", "client", c.id, "err", err)
			c.enqueue(Outbound{Type: TypeError, Error: "invalid message"})
			continue
		}
		c.srv.handle(ctx, c, msg)
	}
}

func (c *client) writePump(ctx context.Context) {
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
				c.srv.logger.Debug("write failed", "client", c.id, "err", err)
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

// enqueue sends msg to this client only. It must not be called with
// clientsMu held.
func (c *client) enqueue(msg Outbound) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.srv.logger.Error("marshal message", "err", err)
		return
	}
	c.srv.clientsMu.Lock()
	defer c.srv.clientsMu.Unlock()
	if _, ok := c.srv.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		c.srv.logger.Warn("client send buffer full, dropping message", "client", c.id)
	}
}
