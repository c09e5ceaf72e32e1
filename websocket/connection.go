// Package websocket provides the live registration form channel.
// file: websocket/connection.go
package websocket

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fashion-registration/logger"
	"fashion-registration/services"
)

// WSConn is an interface for the WebSocket connection.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Connection is one browser tab bound to one visitor's registration page.
type Connection struct {
	conn  WSConn
	send  chan []byte
	done  chan struct{}
	once  sync.Once
	flow  *services.PageFlow
	touch func()

	unsubscribe func()
}

// Configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

var (
	originsMu      sync.RWMutex
	allowedOrigins = map[string]bool{}
)

// SetAllowedOrigins lists extra origins (besides the request's own host) that may connect.
func SetAllowedOrigins(origins ...string) {
	originsMu.Lock()
	defer originsMu.Unlock()
	allowedOrigins = make(map[string]bool, len(origins))
	for _, o := range origins {
		allowedOrigins[o] = true
	}
}

func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
		return true
	}
	originsMu.RLock()
	defer originsMu.RUnlock()
	return allowedOrigins[origin]
}

// Upgrader upgrades HTTP requests to WebSocket connections.
var upgrader = websocket.Upgrader{CheckOrigin: checkOrigin}

// ServeWs upgrades the request and attaches the connection to flow. touch,
// if not nil, is called on every inbound message to keep the flow alive.
func ServeWs(w http.ResponseWriter, r *http.Request, flow *services.PageFlow, touch func()) {
	logger.Info.Printf("[ServeWs] Upgrading to WS: remoteAddr=%v", r.RemoteAddr)
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied with an HTTP error
		logger.Error.Printf("[ServeWs] WebSocket upgrade error: %v", err)
		return
	}

	c := newConnection(wsConn, flow, touch)
	c.pushSnapshot(flow.Snapshot())

	go c.writePump()
	go c.readPump()
}

func newConnection(conn WSConn, flow *services.PageFlow, touch func()) *Connection {
	c := &Connection{
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		done:  make(chan struct{}),
		flow:  flow,
		touch: touch,
	}
	c.unsubscribe = flow.Subscribe(c.pushSnapshot)
	return c
}

// pushSnapshot runs inside page flow notifications and must not call back into the flow.
func (c *Connection) pushSnapshot(snap services.FlowSnapshot) {
	out, err := encodeState(snap)
	if err != nil {
		logger.Error.Printf("[pushSnapshot] Error marshalling form state: %v", err)
		return
	}
	c.enqueue(out)
}

func (c *Connection) pushError(msg string) {
	out, err := encodeError(msg)
	if err != nil {
		logger.Error.Printf("[pushError] Error marshalling error message: %v", err)
		return
	}
	c.enqueue(out)
}

func (c *Connection) enqueue(msg []byte) {
	select {
	case <-c.done:
	case c.send <- msg:
	default:
		logger.Warn.Printf("Dropping message for connection %v", c.conn.RemoteAddr())
	}
}

// close detaches the connection from its flow and stops the write pump.
func (c *Connection) close() {
	c.once.Do(func() {
		c.unsubscribe()
		close(c.done)
	})
}

// readPump handles inbound messages from the client.
func (c *Connection) readPump() {
	defer func() {
		c.close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logger.Debug.Printf("[readPump] Read error from %v: %v", c.conn.RemoteAddr(), err)
			return
		}
		if messageType != websocket.TextMessage {
			logger.Debug.Printf("[readPump] Ignoring non-text messageType=%d", messageType)
			continue
		}

		var msg InboundMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Warn.Printf("[readPump] Invalid JSON from %v: %v", c.conn.RemoteAddr(), err)
			c.pushError("invalid message")
			continue
		}
		if c.touch != nil {
			c.touch()
		}
		handleIncoming(c, msg)
	}
}

// writePump handles outbound messages to the client, including periodic pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn.Printf("[writePump] Error writing to %v: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn.Printf("[writePump] Ping error for %v: %v", c.conn.RemoteAddr(), err)
				return
			}
		}
	}
}
