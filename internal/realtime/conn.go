package realtime

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 8 * 1024

	clientPrefix = "Client says: "
)

// Publisher dispatches a payload to all observers without waiting.
type Publisher interface {
	Publish(payload string)
}

// Conn adapts a websocket connection to Observer. gorilla/websocket allows
// one concurrent writer, so writes are serialized.
type Conn struct {
	ws        *websocket.Conn
	mu        sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// NewConn wraps ws.
func NewConn(ws *websocket.Conn) *Conn { return &Conn{ws: ws} }

// Send writes payload as a text frame, bounded by ctx's deadline or writeWait.
func (c *Conn) Send(ctx context.Context, payload string) error {
	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, []byte(payload))
}

// Close closes the connection once; later calls return the first result.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() { c.closeErr = c.ws.Close() })
	return c.closeErr
}

// Attach registers ws as an observer and blocks in its read loop until the
// peer goes away. Every inbound text frame is republished to all observers.
// The observer is unregistered on every return path.
func Attach(reg *Registry, pub Publisher, ws *websocket.Conn, log *zap.Logger) error {
	c := NewConn(ws)
	id := reg.Register(c)
	log.Debug("observer connected", zap.String("observer", id.String()), zap.Int("observers", reg.Len()))
	defer func() {
		reg.Unregister(id)
		_ = c.Close()
		log.Debug("observer disconnected", zap.String("observer", id.String()))
	}()

	ws.SetReadLimit(maxMessageSize)
	for {
		typ, data, err := ws.ReadMessage()
		if err != nil {
			if isPeerGone(err) {
				return nil
			}
			return err
		}
		if typ != websocket.TextMessage {
			continue
		}
		pub.Publish(clientPrefix + string(data))
	}
}

// isPeerGone reports whether err just means the connection ended: a close
// frame from the peer, or our own side closing it after a failed delivery.
func isPeerGone(err error) bool {
	var ce *websocket.CloseError
	return errors.As(err, &ce) || errors.Is(err, net.ErrClosed)
}
