package ipc

import (
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// wsConn carries length-prefixed frames over binary websocket messages.
// Every Write becomes one message; reads stream across message boundaries
// so a frame split by the host still decodes.
type wsConn struct {
	ws      *websocket.Conn
	readMu  sync.Mutex
	reader  io.Reader
	writeMu sync.Mutex
}

// NewWebSocketConn adapts ws for use with NewConnection.
func NewWebSocketConn(ws *websocket.Conn) io.ReadWriteCloser {
	ws.SetReadLimit(MaxMessageSize + 4)
	return &wsConn{ws: ws}
}

func (c *wsConn) Read(p []byte) (int, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	for {
		if c.reader == nil {
			kind, r, err := c.ws.NextReader()
			if err != nil {
				return 0, err
			}
			if kind != websocket.BinaryMessage {
				slog.Warn("ignoring non-binary websocket message", "kind", kind)
				continue
			}
			c.reader = r
		}
		n, err := c.reader.Read(p)
		if err == io.EOF {
			c.reader = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (c *wsConn) Write(p []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.ws.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsConn) Close() error {
	c.writeMu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.ws.WriteMessage(websocket.CloseMessage, msg)
	c.writeMu.Unlock()
	return c.ws.Close()
}

// WebSocketHandler upgrades each request and hands the session to serve,
// which owns it until it returns.
func WebSocketHandler(serve func(io.ReadWriteCloser)) http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  64 << 10,
		WriteBufferSize: 64 << 10,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		slog.Info("websocket session accepted", "remote", r.RemoteAddr)
		serve(NewWebSocketConn(ws))
	})
}
